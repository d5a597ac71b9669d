package handler_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/material-inventory/internal/application/service"
	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
	"github.com/damon-houk/material-inventory/internal/infrastructure/console"
	"github.com/damon-houk/material-inventory/internal/infrastructure/handler"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/memory"
	"github.com/damon-houk/material-inventory/internal/infrastructure/metrics"
)

var sessionDate = time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)

// session wires the real services behind a menu that reads a scripted input
type session struct {
	materials *service.MaterialService
	ledger    *service.LedgerService
	rec       *metrics.Recorder
	out       bytes.Buffer
}

func newSession() *session {
	log := logger.NewNopLogger()
	s := &session{rec: metrics.NewRecorder()}
	s.materials = service.NewMaterialService(memory.NewMaterialRepository(), 100, log, s.rec)
	s.ledger = service.NewLedgerService(memory.NewTransactionRepository(), "T", 500, clockwork.NewFakeClockAt(sessionDate), log)
	return s
}

func (s *session) seed(t *testing.T, id, name, unit string, qty int, status entity.Status) {
	_, err := s.materials.Create(context.Background(), id, name, unit, qty, status)
	require.NoError(t, err)
}

// run feeds input to the menu and returns everything written to the console
func (s *session) run(t *testing.T, input string) string {
	log := logger.NewNopLogger()
	con := console.New(strings.NewReader(input), &s.out, false, 2)
	transfers := service.NewTransferService(s.materials, s.ledger, log, s.rec)

	menu := handler.NewMenu(con, log, s.rec)
	handler.NewMaterialHandler(s.materials, con, log).RegisterActions(menu)
	handler.NewTransactionHandler(transfers, s.ledger, s.materials, con, log).RegisterActions(menu)
	handler.NewStatsHandler(s.materials, s.ledger, s.rec, con, log).RegisterActions(menu)

	require.NoError(t, menu.Run(context.Background()))
	return s.out.String()
}

func lines(input ...string) string {
	return strings.Join(input, "\n") + "\n"
}

func TestAddAndFindMaterial(t *testing.T) {
	s := newSession()
	out := s.run(t, lines(
		"1", "M1", "Steel bolt", "10", "pcs", "",
		"1", "M1", "M2", "Copper wire", "5", "m", "0",
		"4", "M2",
		"5", "BOLT",
		"6", "wire",
		"10",
	))

	assert.Contains(t, out, "Add new material successfully (No. 1).")
	assert.Contains(t, out, "ID must not duplicate existing material ID, please try again!")
	assert.Contains(t, out, "Add new material successfully (No. 2).")
	assert.Contains(t, out, "Status : Expired")
	assert.Contains(t, out, "| M1        | Steel bolt")
	assert.Contains(t, out, "| M2        | Copper wire")
	assert.Contains(t, out, "Exiting program...")

	count, err := s.materials.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, 2.0, s.rec.Value("inventory_materials_created_total"))
	assert.Equal(t, 2.0, s.rec.Value(`inventory_menu_actions_total{action="add_material"}`))
}

func TestFindMissingMaterial(t *testing.T) {
	s := newSession()
	out := s.run(t, lines("4", "M9", "5", "nothing", "10"))

	assert.Contains(t, out, "Material with this ID was not found.")
	assert.Contains(t, out, "No material matched this name.")
	assert.Equal(t, 1.0, s.rec.Value(`inventory_menu_action_errors_total{action="find_by_id"}`))
}

func TestUpdateMaterial(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)

	out := s.run(t, lines(
		"2", "M1",
		"1", "Hex bolt",
		"3", "25",
		"7",
		"4", "Hex bolt M8", "box", "3",
		"5",
		"10",
	))

	assert.Contains(t, out, "Update name of material with ID M1 successfully.")
	assert.Contains(t, out, "Update quantity of material with ID M1 successfully.")
	assert.Contains(t, out, "Invalid option, please choose 1-5.")
	assert.Contains(t, out, "Update material with ID M1 successfully.")

	m, err := s.materials.FindByID(context.Background(), "M1")
	require.NoError(t, err)
	assert.Equal(t, "Hex bolt M8", m.Name)
	assert.Equal(t, "box", m.Unit)
	assert.Equal(t, 3, m.Quantity)
}

// flakyRepository fails the next n updates
type flakyRepository struct {
	repository.MaterialRepository
	n int
}

func (r *flakyRepository) Update(ctx context.Context, m *entity.Material) error {
	if r.n > 0 {
		r.n--
		return errors.New("write failed")
	}
	return r.MaterialRepository.Update(ctx, m)
}

func TestUpdateFailureStaysInEditMenu(t *testing.T) {
	s := newSession()
	repo := &flakyRepository{MaterialRepository: memory.NewMaterialRepository(), n: 1}
	s.materials = service.NewMaterialService(repo, 100, logger.NewNopLogger(), s.rec)
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)

	out := s.run(t, lines(
		"2", "M1",
		"1", "Nut",
		"1", "Nut",
		"5",
		"10",
	))

	assert.Contains(t, out, "Unexpected error: write failed")
	assert.Equal(t, 3, strings.Count(out, "Enter info to edit: "), "edit menu shown again after the failure")
	assert.Contains(t, out, "Update name of material with ID M1 successfully.")
	assert.Equal(t, 0.0, s.rec.Value(`inventory_menu_action_errors_total{action="update_material"}`))

	m, err := s.materials.FindByID(context.Background(), "M1")
	require.NoError(t, err)
	assert.Equal(t, "Nut", m.Name)
}

func TestToggleStatus(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)

	out := s.run(t, lines("3", "M1", "3", "M1", "3", "M1", "10"))

	assert.Equal(t, 2, strings.Count(out, "New status: Expired"))
	assert.Equal(t, 1, strings.Count(out, "New status: Active"))
	assert.Equal(t, 3.0, s.rec.Value("inventory_material_status_toggles_total"))
}

func TestExportWithRetries(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)

	out := s.run(t, lines(
		"8", "M1", "-3", "many", "50", "4",
		"10",
	))

	assert.Contains(t, out, "Current quantity of M1 (Bolt): 10 pcs")
	assert.Contains(t, out, "Amount must be greater than zero. Please type again.")
	assert.Contains(t, out, "Invalid amount, please type again.")
	assert.Contains(t, out, "Not enough stock: requested 50, available 10 pcs. Please type again.")
	assert.Contains(t, out, "Transaction T001 recorded: OUT 4 pcs of M1 on 07/03/2025.")
	assert.Contains(t, out, "New quantity: 6 pcs")

	m, err := s.materials.FindByID(context.Background(), "M1")
	require.NoError(t, err)
	assert.Equal(t, 6, m.Quantity)

	history, err := s.ledger.List(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 4, history[0].Amount)

	assert.Equal(t, 1.0, s.rec.Value(`inventory_transfer_rejections_total{reason="invalid_amount"}`))
	assert.Equal(t, 1.0, s.rec.Value(`inventory_transfer_rejections_total{reason="insufficient_stock"}`))
}

func TestImportCancelledAndExpired(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)
	s.seed(t, "M3", "Glue", "kg", 7, entity.StatusExpired)

	out := s.run(t, lines(
		"7", "M1", "",
		"7", "M3", "M404", "",
		"10",
	))

	assert.Equal(t, 2, strings.Count(out, "Transfer cancelled."))
	assert.Contains(t, out, "Material is expired, import and export are not allowed. Please type again.")
	assert.Contains(t, out, "Material with this ID was not found. Please type again.")
	assert.Equal(t, 4, strings.Count(out, "Enter material ID to import"), "unknown and expired ids ask again")
	assert.Equal(t, 1, strings.Count(out, "Enter amount to IN"), "only the active material is asked for an amount")

	history, err := s.ledger.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, "T001", s.ledger.PeekID())
}

func TestTransferRetriesMaterialSelection(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)
	s.seed(t, "M3", "Glue", "kg", 7, entity.StatusExpired)

	out := s.run(t, lines(
		"8", "M9", "M3", "M1", "3",
		"10",
	))

	assert.Contains(t, out, "Material with this ID was not found. Please type again.")
	assert.Contains(t, out, "Material is expired, import and export are not allowed. Please type again.")
	assert.Contains(t, out, "Transaction T001 recorded: OUT 3 pcs of M1")
	assert.Equal(t, 0.0, s.rec.Value(`inventory_menu_action_errors_total{action="export_stock"}`))

	m, err := s.materials.FindByID(context.Background(), "M3")
	require.NoError(t, err)
	assert.Equal(t, 7, m.Quantity)
}

func TestHistoryAndTransactionList(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)
	s.seed(t, "M2", "Nut", "pcs", 10, entity.StatusActive)

	out := s.run(t, lines(
		"7", "M1", "5",
		"8", "M2", "1",
		"8", "M1", "2",
		"9", "m1", "0",
		"9", "M9",
		"14", "1", "0",
		"10",
	))

	history := out[strings.Index(out, "Transaction history of m1:"):]
	history = history[:strings.Index(history, "Page 1 / 1")]
	assert.Contains(t, history, "| T001     | M1        | IN   |        5 | 07/03/2025 |")
	assert.Contains(t, history, "| T003     | M1        | OUT  |        2 | 07/03/2025 |")
	assert.NotContains(t, history, "T002")

	assert.Contains(t, out, "No transactions recorded for material M9.")
	assert.Contains(t, out, "Page 2 / 2", "page size two splits three transactions")
}

func TestSortAndList(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "beta", "pcs", 5, entity.StatusActive)
	s.seed(t, "M2", "Alpha", "pcs", 9, entity.StatusActive)
	s.seed(t, "M3", "Gamma", "pcs", 1, entity.StatusActive)

	out := s.run(t, lines(
		"12", "11", "0",
		"13", "11", "0",
		"10",
	))

	byQuantity := strings.Index(out, "Materials sorted by quantity.")
	require.Positive(t, byQuantity)
	first, second := out[:byQuantity], out[byQuantity:]

	assert.Less(t, strings.Index(first, "Alpha"), strings.Index(first, "beta"))
	assert.NotContains(t, first, "Gamma")
	assert.Less(t, strings.Index(second, "Gamma"), strings.Index(second, "beta"))
	assert.NotContains(t, second, "Alpha")

	all, err := s.materials.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "M3", all[0].ID)
	assert.Equal(t, "M2", all[2].ID)
}

func TestEmptyLists(t *testing.T) {
	s := newSession()
	out := s.run(t, lines("11", "14", "10"))

	assert.Contains(t, out, "Material list is empty.")
	assert.Contains(t, out, "Transaction list is empty.")
}

func TestSessionStatistics(t *testing.T) {
	s := newSession()
	s.seed(t, "M1", "Bolt", "pcs", 10, entity.StatusActive)
	s.seed(t, "M2", "Glue", "kg", 3, entity.StatusExpired)

	out := s.run(t, lines(
		"8", "M1", "4",
		"15",
		"10",
	))

	assert.Contains(t, out, "Materials    : 2 / 100 (1 active, 1 expired)")
	assert.Contains(t, out, "Units        : 9")
	assert.Contains(t, out, "Transactions : 1 / 500 (next T002)")
	assert.Contains(t, out, `transfers_total{direction="OUT"}`)
	assert.Contains(t, out, `menu_actions_total{action="export_stock"}`)
}
