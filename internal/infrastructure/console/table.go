package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
)

type column struct {
	title string
	width int
	right bool
}

type table struct {
	columns []column
	paint   *Painter
}

func (t table) border(w io.Writer) {
	var b strings.Builder
	b.WriteString("+")
	for _, c := range t.columns {
		b.WriteString(strings.Repeat("-", c.width+2))
		b.WriteString("+")
	}
	fmt.Fprintln(w, b.String())
}

func (t table) row(w io.Writer, cells ...string) {
	var b strings.Builder
	b.WriteString("|")
	for i, c := range t.columns {
		if c.right {
			fmt.Fprintf(&b, " %*s |", c.width, cells[i])
		} else {
			fmt.Fprintf(&b, " %-*s |", c.width, cells[i])
		}
	}
	fmt.Fprintln(w, b.String())
}

func (t table) header(w io.Writer) {
	t.border(w)
	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.title
	}
	var b strings.Builder
	t.row(&b, titles...)
	fmt.Fprintln(w, t.paint.Header(strings.TrimSuffix(b.String(), "\n")))
	t.border(w)
}

var materialColumns = []column{
	{title: "No", width: 4, right: true},
	{title: "Mat ID", width: entity.MaxIDLength},
	{title: "Name", width: 33},
	{title: "Qty", width: 8, right: true},
	{title: "Unit", width: entity.MaxUnitLength},
	{title: "Status", width: 7},
}

// WriteMaterials renders materials as a table. Rows are numbered from first+1.
func WriteMaterials(w io.Writer, paint *Painter, first int, materials []*entity.Material) {
	t := table{columns: materialColumns, paint: paint}
	t.header(w)
	for i, m := range materials {
		t.row(w,
			fmt.Sprint(first+i+1),
			m.ID,
			m.Name,
			fmt.Sprint(m.Quantity),
			m.Unit,
			m.Status.String(),
		)
	}
	t.border(w)
}

var transactionColumns = []column{
	{title: "Trans ID", width: 8},
	{title: "Mat ID", width: entity.MaxIDLength},
	{title: "Type", width: 4},
	{title: "Amount", width: 8, right: true},
	{title: "Date", width: 10},
}

// WriteTransactions renders transactions as a table
func WriteTransactions(w io.Writer, paint *Painter, transactions []*entity.Transaction) {
	t := table{columns: transactionColumns, paint: paint}
	t.header(w)
	for _, tx := range transactions {
		t.row(w,
			tx.ID,
			tx.MaterialID,
			tx.Direction.String(),
			fmt.Sprint(tx.Amount),
			tx.DisplayDate(),
		)
	}
	t.border(w)
}

// WriteMaterialDetail prints one material as labelled lines
func WriteMaterialDetail(w io.Writer, m *entity.Material) {
	fmt.Fprintf(w, "ID     : %s\n", m.ID)
	fmt.Fprintf(w, "Name   : %s\n", m.Name)
	fmt.Fprintf(w, "Unit   : %s\n", m.Unit)
	fmt.Fprintf(w, "Qty    : %d\n", m.Quantity)
	fmt.Fprintf(w, "Status : %s\n\n", m.Status)
}
