// Package handler turns menu choices into calls on the application services.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/infrastructure/console"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/metrics"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
)

// ExitKey is the menu option that ends the session
const ExitKey = 10

type menuItem struct {
	name   string
	title  string
	action middleware.Action
}

// Menu is the main menu loop
type Menu struct {
	console *console.Console
	logger  logger.Logger
	metrics *metrics.Recorder
	items   map[int]menuItem
}

// NewMenu creates an empty menu
func NewMenu(con *console.Console, log logger.Logger, rec *metrics.Recorder) *Menu {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if rec == nil {
		rec = metrics.NewRecorder()
	}

	return &Menu{
		console: con,
		logger:  log,
		metrics: rec,
		items:   make(map[int]menuItem),
	}
}

// Handle registers action under key. Every action runs with its own operation
// ID and is logged and counted under name.
func (m *Menu) Handle(key int, name, title string, action middleware.Action) {
	if key == ExitKey {
		panic(fmt.Sprintf("handler: menu key %d is reserved for exit", key))
	}
	if _, ok := m.items[key]; ok {
		panic(fmt.Sprintf("handler: menu key %d already registered", key))
	}

	m.items[key] = menuItem{
		name:  name,
		title: title,
		action: middleware.Chain(action,
			middleware.OperationIDMiddleware,
			middleware.LoggingMiddleware(m.logger, name),
			middleware.MetricsMiddleware(m.metrics, name),
		),
	}
}

// Display prints the menu with the exit option last
func (m *Menu) Display() {
	c := m.console
	c.Headerf("==================== MATERIAL MANAGEMENT ====================")
	for _, key := range slices.Sorted(maps.Keys(m.items)) {
		c.Printf("%s\n", c.Paint.Item(fmt.Sprintf("%2d. %s", key, m.items[key].title)))
	}
	c.Printf("%s\n", c.Paint.Item(fmt.Sprintf("%2d. Exit", ExitKey)))
	c.Headerf("=============================================================")
}

// Run shows the menu and dispatches choices until the user exits, input ends
// or ctx is cancelled. Action errors are reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	m.logger.Info("Menu started", map[string]interface{}{
		"actions": len(m.items),
	})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.Display()
		v, err := m.console.Prompt.Raw("Enter your choice: ")
		if errors.Is(err, io.EOF) {
			m.exit()
			return nil
		}
		if err != nil {
			return err
		}

		key, err := strconv.Atoi(v)
		if err == nil && key == ExitKey {
			m.exit()
			return nil
		}
		item, ok := m.items[key]
		if err != nil || !ok {
			m.console.Errorf("Invalid choice, please try again.")
			m.console.Printf("\n")
			continue
		}

		if err := item.action(ctx); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				m.exit()
				return nil
			case errors.Is(err, context.Canceled):
				return err
			default:
				m.report(item.name, err)
			}
		}
		m.console.Printf("\n")
	}
}

func (m *Menu) exit() {
	m.console.Noticef("Exiting program...")
}

// report shows err to the user
func (m *Menu) report(action string, err error) {
	if errors.Is(err, entity.ErrTransferCancelled) {
		m.console.Noticef("Transfer cancelled.")
		return
	}

	msg, known := userMessage(err)
	if !known {
		m.logger.Error("Unexpected error in menu action", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
	}
	m.console.Errorf("%s", msg)
}

// userMessage maps domain errors to the text shown to the user. known is false
// for errors outside the domain taxonomy.
func userMessage(err error) (msg string, known bool) {
	switch {
	case errors.Is(err, entity.ErrMaterialNotFound):
		return "Material with this ID was not found.", true
	case errors.Is(err, entity.ErrDuplicateID):
		return "ID must not duplicate existing material ID.", true
	case errors.Is(err, entity.ErrCapacityExceeded):
		return "Cannot add more: " + detail(err, entity.ErrCapacityExceeded) + ".", true
	case errors.Is(err, entity.ErrMaterialLocked):
		return "Material is expired, import and export are not allowed.", true
	case errors.Is(err, entity.ErrInvalidAmount):
		if d := detail(err, entity.ErrInvalidAmount); d != err.Error() {
			return "Amount is too large: " + d + ".", true
		}
		return "Amount must be greater than zero.", true
	case errors.Is(err, entity.ErrInsufficientStock):
		return "Not enough stock: " + detail(err, entity.ErrInsufficientStock) + ".", true
	case errors.Is(err, entity.ErrInvalidField):
		return "Invalid input: " + detail(err, entity.ErrInvalidField) + ".", true
	case errors.Is(err, entity.ErrTransferCancelled):
		return "Transfer cancelled.", true
	default:
		return "Unexpected error: " + err.Error(), false
	}
}

// detail strips the leading sentinel text from a wrapped error message
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
