// Package seed loads initial materials and transaction history from YAML.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/damon-houk/material-inventory/internal/application/service"
	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
)

//go:embed sample.yaml
var sampleYAML []byte

// Material is one material record of a seed file
type Material struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Unit     string `yaml:"unit"`
	Quantity int    `yaml:"quantity"`
	Status   string `yaml:"status"`
}

// Transaction is one historical ledger record. ID may be left empty, in which
// case the ledger numbers it.
type Transaction struct {
	ID       string `yaml:"id"`
	Material string `yaml:"material"`
	Type     string `yaml:"type"`
	Amount   int    `yaml:"amount"`
	Date     string `yaml:"date"`
}

// Data is the content of a seed file
type Data struct {
	Materials    []Material    `yaml:"materials"`
	Transactions []Transaction `yaml:"transactions"`
}

// Load decodes seed data. Unknown keys are rejected.
func Load(r io.Reader) (*Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Data
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return &d, nil
		}
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &d, nil
}

// LoadFile reads seed data from path
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Sample returns the built-in sample data
func Sample() (*Data, error) {
	return Load(bytes.NewReader(sampleYAML))
}

// Apply creates the materials through the store and restores the history
// into the ledger. Every transaction must reference a seeded or existing material.
func Apply(ctx context.Context, d *Data, materials *service.MaterialService, ledger *service.LedgerService, log logger.Logger) error {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	for i, m := range d.Materials {
		status, err := entity.ParseStatus(m.Status)
		if err != nil {
			return fmt.Errorf("seed: material %d: %w", i+1, err)
		}
		if _, err := materials.Create(ctx, m.ID, m.Name, m.Unit, m.Quantity, status); err != nil {
			return fmt.Errorf("seed: material %q: %w", m.ID, err)
		}
	}

	for i, t := range d.Transactions {
		tx, err := t.toEntity()
		if err != nil {
			return fmt.Errorf("seed: transaction %d: %w", i+1, err)
		}
		if _, err := materials.FindByID(ctx, tx.MaterialID); err != nil {
			return fmt.Errorf("seed: transaction %d: %w", i+1, err)
		}
		if tx.ID == "" {
			tx.ID = ledger.PeekID()
		}
		if err := ledger.Restore(ctx, []*entity.Transaction{tx}); err != nil {
			return fmt.Errorf("seed: transaction %d: %w", i+1, err)
		}
	}

	log.Info("Seed data applied", map[string]interface{}{
		"operation_id": middleware.GetOperationID(ctx),
		"materials":    len(d.Materials),
		"transactions": len(d.Transactions),
	})
	return nil
}

func (t Transaction) toEntity() (*entity.Transaction, error) {
	dir, err := entity.ParseDirection(t.Type)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(entity.DateLayout, strings.TrimSpace(t.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date %q is not DD/MM/YYYY", entity.ErrInvalidField, t.Date)
	}
	return &entity.Transaction{
		ID:         strings.TrimSpace(t.ID),
		MaterialID: t.Material,
		Direction:  dir,
		Amount:     t.Amount,
		Date:       date,
	}, nil
}
