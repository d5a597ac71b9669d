package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/damon-houk/material-inventory/internal/application/service"
	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/infrastructure/console"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
)

// TransactionHandler handles import, export and history menu actions
type TransactionHandler struct {
	transfers *service.TransferService
	ledger    *service.LedgerService
	materials *service.MaterialService
	console   *console.Console
	logger    logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transfers *service.TransferService, ledger *service.LedgerService, materials *service.MaterialService, con *console.Console, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		transfers: transfers,
		ledger:    ledger,
		materials: materials,
		console:   con,
		logger:    log,
	}
}

// Import adds stock to a material
func (h *TransactionHandler) Import(ctx context.Context) error {
	return h.transfer(ctx, entity.DirectionIn)
}

// Export removes stock from a material
func (h *TransactionHandler) Export(ctx context.Context) error {
	return h.transfer(ctx, entity.DirectionOut)
}

func (h *TransactionHandler) transfer(ctx context.Context, direction entity.Direction) error {
	verb := "import"
	if direction == entity.DirectionOut {
		verb = "export"
	}

	// Unknown and expired materials ask for another id; a blank id cancels
	label := fmt.Sprintf("Enter material ID to %s (empty = cancel): ", verb)
	var tx *entity.Transaction
	for tx == nil {
		id, err := h.console.Prompt.OptionalID(label)
		if err != nil {
			return err
		}
		if id == "" {
			return entity.ErrTransferCancelled
		}

		tx, err = h.transfers.Execute(ctx, id, direction, service.AmountSourceFunc(h.askAmount))
		if errors.Is(err, entity.ErrMaterialNotFound) || errors.Is(err, entity.ErrMaterialLocked) {
			msg, _ := userMessage(err)
			h.console.Errorf("%s Please type again.", msg)
			continue
		}
		if err != nil {
			return err
		}
	}

	m, err := h.materials.FindByID(ctx, tx.MaterialID)
	if err != nil {
		return err
	}

	h.logger.Debug("Transfer confirmed to user", map[string]interface{}{
		"operation_id":   middleware.GetOperationID(ctx),
		"transaction_id": tx.ID,
	})
	h.console.Noticef("Transaction %s recorded: %s %d %s of %s on %s.",
		tx.ID, tx.Direction, tx.Amount, m.Unit, m.ID, tx.DisplayDate())
	h.console.Noticef("New quantity: %d %s", m.Quantity, m.Unit)
	return nil
}

// askAmount prompts for a transfer amount. A blank answer cancels the transfer.
func (h *TransactionHandler) askAmount(ctx context.Context, m *entity.Material, direction entity.Direction, previous error) (int, error) {
	if previous != nil {
		msg, _ := userMessage(previous)
		h.console.Errorf("%s Please type again.", msg)
	} else {
		h.console.Printf("Current quantity of %s (%s): %d %s\n", m.ID, m.Name, m.Quantity, m.Unit)
	}

	label := fmt.Sprintf("Enter amount to %s (empty = cancel): ", direction)
	for {
		v, err := h.console.Prompt.Raw(label)
		if err != nil {
			return 0, err
		}
		if v == "" {
			return 0, entity.ErrTransferCancelled
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			h.console.Errorf("Invalid amount, please type again.")
			continue
		}
		return n, nil
	}
}

// History lists the transactions of one material
func (h *TransactionHandler) History(ctx context.Context) error {
	id, err := h.console.Prompt.ID("Enter material ID to show history: ")
	if err != nil {
		return err
	}

	history, err := h.ledger.FindByMaterialID(ctx, id)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		h.console.Errorf("No transactions recorded for material %s.", id)
		return nil
	}

	h.console.Headerf("\nTransaction history of %s:", id)
	return h.page(history)
}

// List pages through the whole ledger
func (h *TransactionHandler) List(ctx context.Context) error {
	history, err := h.ledger.List(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		h.console.Errorf("Transaction list is empty.")
		return nil
	}

	return h.page(history)
}

func (h *TransactionHandler) page(history []*entity.Transaction) error {
	return h.console.Pager.Show(len(history), func(w io.Writer, from, to int) {
		console.WriteTransactions(w, h.console.Paint, history[from:to])
	})
}

// RegisterActions registers the transaction menu options
func (h *TransactionHandler) RegisterActions(menu *Menu) {
	menu.Handle(7, "import_stock", "Import stock", h.Import)
	menu.Handle(8, "export_stock", "Export stock", h.Export)
	menu.Handle(9, "material_history", "Transaction history of a material", h.History)
	menu.Handle(14, "list_transactions", "Display all transactions", h.List)

	h.logger.Info("Transaction actions registered", map[string]interface{}{
		"actions": []string{"import_stock", "export_stock", "material_history", "list_transactions"},
	})
}
