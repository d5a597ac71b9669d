package handler

import (
	"context"
	"strings"

	"github.com/damon-houk/material-inventory/internal/application/service"
	"github.com/damon-houk/material-inventory/internal/infrastructure/console"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/metrics"
)

// StatsHandler shows inventory totals and session counters
type StatsHandler struct {
	materials *service.MaterialService
	ledger    *service.LedgerService
	metrics   *metrics.Recorder
	console   *console.Console
	logger    logger.Logger
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(materials *service.MaterialService, ledger *service.LedgerService, rec *metrics.Recorder, con *console.Console, log logger.Logger) *StatsHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StatsHandler{
		materials: materials,
		ledger:    ledger,
		metrics:   rec,
		console:   con,
		logger:    log,
	}
}

// Summary computes the inventory totals
func (h *StatsHandler) Summary(ctx context.Context) (*InventorySummary, error) {
	materials, err := h.materials.List(ctx)
	if err != nil {
		return nil, err
	}
	history, err := h.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	s := &InventorySummary{
		Materials:           len(materials),
		MaterialCapacity:    h.materials.Capacity(),
		Transactions:        len(history),
		TransactionCapacity: h.ledger.Capacity(),
		NextTransactionID:   h.ledger.PeekID(),
	}
	for _, m := range materials {
		if m.Active() {
			s.Active++
		} else {
			s.Expired++
		}
		s.UnitsInStock += m.Quantity
	}
	return s, nil
}

// Counters returns the non-zero session counters without the namespace prefix
func (h *StatsHandler) Counters() ([]CounterRow, error) {
	samples, err := h.metrics.Snapshot()
	if err != nil {
		return nil, err
	}

	var rows []CounterRow
	for _, s := range samples {
		if s.Value == 0 {
			continue
		}
		rows = append(rows, CounterRow{
			Name:  strings.TrimPrefix(s.Name, "inventory_"),
			Value: s.Value,
		})
	}
	return rows, nil
}

// Show prints the statistics screen
func (h *StatsHandler) Show(ctx context.Context) error {
	s, err := h.Summary(ctx)
	if err != nil {
		return err
	}

	c := h.console
	c.Headerf("\nInventory")
	c.Printf("Materials    : %d / %d (%d active, %d expired)\n", s.Materials, s.MaterialCapacity, s.Active, s.Expired)
	c.Printf("Units        : %d\n", s.UnitsInStock)
	c.Printf("Transactions : %d / %d (next %s)\n", s.Transactions, s.TransactionCapacity, s.NextTransactionID)

	rows, err := h.Counters()
	if err != nil {
		return err
	}
	c.Headerf("\nThis session")
	if len(rows) == 0 {
		c.Printf("No activity yet.\n")
		return nil
	}
	for _, r := range rows {
		c.Printf("%-50s %8.0f\n", r.Name, r.Value)
	}
	return nil
}

// RegisterActions registers the statistics menu option
func (h *StatsHandler) RegisterActions(menu *Menu) {
	menu.Handle(15, "session_stats", "Session statistics", h.Show)

	h.logger.Info("Statistics actions registered", map[string]interface{}{
		"actions": []string{"session_stats"},
	})
}
