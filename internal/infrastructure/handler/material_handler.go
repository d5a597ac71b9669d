package handler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/damon-houk/material-inventory/internal/application/service"
	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/infrastructure/console"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
)

// Edit sub-menu options
const (
	editName = iota + 1
	editUnit
	editQuantity
	editAll
	editExit
)

// MaterialHandler handles the material menu actions
type MaterialHandler struct {
	service *service.MaterialService
	console *console.Console
	logger  logger.Logger
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(service *service.MaterialService, con *console.Console, log logger.Logger) *MaterialHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &MaterialHandler{
		service: service,
		console: con,
		logger:  log,
	}
}

// Add asks for a new material and stores it
func (h *MaterialHandler) Add(ctx context.Context) error {
	count, err := h.service.Count(ctx)
	if err != nil {
		return err
	}
	if count >= h.service.Capacity() {
		return fmt.Errorf("%w: material list reached max size (%d)", entity.ErrCapacityExceeded, h.service.Capacity())
	}

	p := h.console.Prompt
	var id string
	for {
		if id, err = p.ID("Enter id of material: "); err != nil {
			return err
		}
		_, err := h.service.FindByID(ctx, id)
		if errors.Is(err, entity.ErrMaterialNotFound) {
			break
		}
		if err != nil {
			return err
		}
		p.Errorf("ID must not duplicate existing material ID, please try again!")
	}

	name, err := p.Line("Enter name of material: ", "name", entity.MaxNameLength)
	if err != nil {
		return err
	}
	quantity, err := p.Int("Enter inventory quantity: ", "quantity")
	if err != nil {
		return err
	}
	unit, err := p.Line("Enter unit of material: ", "unit", entity.MaxUnitLength)
	if err != nil {
		return err
	}
	status, err := p.Status("Enter status (0 = expired, 1 = active, empty = default active): ")
	if err != nil {
		return err
	}

	pos, err := h.service.Create(ctx, id, name, unit, quantity, status)
	if err != nil {
		return err
	}

	h.console.Noticef("Add new material successfully (No. %d).", pos+1)
	return nil
}

// Update edits name, unit or quantity of a material until the user leaves the edit menu
func (h *MaterialHandler) Update(ctx context.Context) error {
	p := h.console.Prompt
	id, err := p.ID("Enter material ID to update: ")
	if err != nil {
		return err
	}

	m, err := h.service.FindByID(ctx, id)
	if err != nil {
		return err
	}
	h.showCurrent(m)

	for {
		h.console.Headerf("=============== EDIT MENU ===============")
		for i, title := range []string{"Edit name", "Edit unit", "Edit quantity", "Edit all", "Exit"} {
			h.console.Printf("%s\n", h.console.Paint.Item(fmt.Sprintf("%d. %s", i+1, title)))
		}
		h.console.Headerf("=========================================")

		mode, err := p.Choice("Enter info to edit: ", editName, editExit)
		if err != nil {
			return err
		}
		if mode == editExit {
			return nil
		}

		update, what, err := h.readUpdate(mode)
		if err != nil {
			return err
		}
		updated, err := h.service.Update(ctx, id, update)
		if err != nil {
			msg, _ := userMessage(err)
			h.console.Errorf("%s", msg)
			continue
		}
		m = updated

		h.logger.Debug("Material edited from menu", map[string]interface{}{
			"operation_id": middleware.GetOperationID(ctx),
			"material_id":  id,
			"field":        what,
		})
		if what == "" {
			h.console.Noticef("Update material with ID %s successfully.", id)
		} else {
			h.console.Noticef("Update %s of material with ID %s successfully.", what, id)
		}
		h.showCurrent(m)
	}
}

func (h *MaterialHandler) readUpdate(mode int) (entity.MaterialUpdate, string, error) {
	p := h.console.Prompt
	var u entity.MaterialUpdate

	if mode == editName || mode == editAll {
		name, err := p.Line("Enter new name: ", "name", entity.MaxNameLength)
		if err != nil {
			return u, "", err
		}
		u.Name = &name
	}
	if mode == editUnit || mode == editAll {
		unit, err := p.Line("Enter new unit: ", "unit", entity.MaxUnitLength)
		if err != nil {
			return u, "", err
		}
		u.Unit = &unit
	}
	if mode == editQuantity || mode == editAll {
		qty, err := p.Int("Enter new quantity: ", "quantity")
		if err != nil {
			return u, "", err
		}
		u.Quantity = &qty
	}

	switch mode {
	case editName:
		return u, "name", nil
	case editUnit:
		return u, "unit", nil
	case editQuantity:
		return u, "quantity", nil
	default:
		return u, "", nil
	}
}

// ToggleStatus flips a material between Active and Expired
func (h *MaterialHandler) ToggleStatus(ctx context.Context) error {
	id, err := h.console.Prompt.ID("Enter material ID to toggle status: ")
	if err != nil {
		return err
	}

	status, err := h.service.ToggleStatus(ctx, id)
	if err != nil {
		return err
	}

	h.console.Noticef("Status toggled successfully! New status: %s", status)
	return nil
}

// FindByID shows the material with exactly the given ID
func (h *MaterialHandler) FindByID(ctx context.Context) error {
	id, err := h.console.Prompt.ID("Enter material ID to find: ")
	if err != nil {
		return err
	}

	m, err := h.service.FindByID(ctx, id)
	if err != nil {
		return err
	}
	h.showCurrent(m)
	return nil
}

// FindByName lists materials whose name contains the keyword, ignoring case
func (h *MaterialHandler) FindByName(ctx context.Context) error {
	keyword, err := h.console.Prompt.Line("Enter name to search: ", "name", entity.MaxNameLength)
	if err != nil {
		return err
	}

	found, err := h.service.FindByNameSubstring(ctx, keyword)
	if err != nil {
		return err
	}
	return h.showResults(found, "No material matched this name.")
}

// FindByIDOrName tries an exact ID first and falls back to a name search
func (h *MaterialHandler) FindByIDOrName(ctx context.Context) error {
	text, err := h.console.Prompt.Line("Enter ID or name to search: ", "search text", entity.MaxNameLength)
	if err != nil {
		return err
	}

	found, err := h.service.FindByIDOrName(ctx, text)
	if err != nil {
		return err
	}
	return h.showResults(found, "No material matched this ID or name.")
}

// List pages through all materials in store order
func (h *MaterialHandler) List(ctx context.Context) error {
	materials, err := h.service.List(ctx)
	if err != nil {
		return err
	}
	if len(materials) == 0 {
		h.console.Errorf("Material list is empty.")
		return nil
	}

	return h.console.Pager.Show(len(materials), func(w io.Writer, from, to int) {
		console.WriteMaterials(w, h.console.Paint, from, materials[from:to])
	})
}

// SortByName reorders the store by name, ignoring case
func (h *MaterialHandler) SortByName(ctx context.Context) error {
	if err := h.service.SortByName(ctx); err != nil {
		return err
	}
	h.console.Noticef("Materials sorted by name.")
	return nil
}

// SortByQuantity reorders the store by quantity, smallest first
func (h *MaterialHandler) SortByQuantity(ctx context.Context) error {
	if err := h.service.SortByQuantity(ctx); err != nil {
		return err
	}
	h.console.Noticef("Materials sorted by quantity.")
	return nil
}

// RegisterActions registers the material menu options
func (h *MaterialHandler) RegisterActions(menu *Menu) {
	menu.Handle(1, "add_material", "Add new materials", h.Add)
	menu.Handle(2, "update_material", "Update material info", h.Update)
	menu.Handle(3, "toggle_status", "Update material status", h.ToggleStatus)
	menu.Handle(4, "find_by_id", "Find material by ID", h.FindByID)
	menu.Handle(5, "find_by_name", "Find material by name", h.FindByName)
	menu.Handle(6, "find_by_id_or_name", "Find material by ID or name", h.FindByIDOrName)
	menu.Handle(11, "list_materials", "Display material list", h.List)
	menu.Handle(12, "sort_by_name", "Sort materials by name", h.SortByName)
	menu.Handle(13, "sort_by_quantity", "Sort materials by quantity", h.SortByQuantity)

	h.logger.Info("Material actions registered", map[string]interface{}{
		"actions": []string{
			"add_material", "update_material", "toggle_status",
			"find_by_id", "find_by_name", "find_by_id_or_name",
			"list_materials", "sort_by_name", "sort_by_quantity",
		},
	})
}

func (h *MaterialHandler) showCurrent(m *entity.Material) {
	h.console.Headerf("\nCurrent information:")
	console.WriteMaterialDetail(h.console.Out, m)
}

func (h *MaterialHandler) showResults(found []*entity.Material, none string) error {
	if len(found) == 0 {
		h.console.Errorf("%s", none)
		return nil
	}

	h.console.Headerf("\nSearch results:")
	console.WriteMaterials(h.console.Out, h.console.Paint, 0, found)
	return nil
}
