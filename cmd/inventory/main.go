package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/material-inventory/internal/application/service"
	"github.com/damon-houk/material-inventory/internal/config"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
	"github.com/damon-houk/material-inventory/internal/infrastructure/console"
	"github.com/damon-houk/material-inventory/internal/infrastructure/db"
	"github.com/damon-houk/material-inventory/internal/infrastructure/handler"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/memory"
	"github.com/damon-houk/material-inventory/internal/infrastructure/metrics"
	"github.com/damon-houk/material-inventory/internal/infrastructure/seed"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"
)

func main() {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := newLogger(cfg)
	logger.SetDefaultLogger(log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, log, os.Stdin, os.Stdout)
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("Session interrupted", nil)
	case err != nil:
		log.Fatal("Session failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func newLogger(cfg *config.Config) *logger.JSONLogger {
	level, _ := logger.ParseLevel(cfg.Log.Level)

	var out io.Writer
	switch cfg.Log.Output {
	case "stdout":
		out = os.Stdout
	case "discard":
		out = io.Discard
	default:
		out = os.Stderr
	}
	return logger.NewJSONLogger(out, level)
}

// run wires storage, services and handlers and drives the menu until the user
// exits or ctx is cancelled
func run(ctx context.Context, cfg *config.Config, log logger.Logger, in io.Reader, out io.Writer) error {
	materialRepo, txRepo, closeStorage, err := openStorage(cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	interrupted := false
	defer func() {
		// An interrupted menu may still be reading input and using the store;
		// the process exits right after run returns
		if interrupted {
			return
		}
		if err := closeStorage(); err != nil {
			log.Error("Error closing storage", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	log.Info("Starting material inventory", map[string]interface{}{
		"storage":          cfg.Storage.Driver,
		"max_materials":    cfg.Inventory.MaxMaterials,
		"max_transactions": cfg.Inventory.MaxTransactions,
	})

	// Initialize services
	rec := metrics.NewRecorder()
	materials := service.NewMaterialService(materialRepo, cfg.Inventory.MaxMaterials, log, rec)
	ledger := service.NewLedgerService(txRepo, cfg.Inventory.TransactionPrefix, cfg.Inventory.MaxTransactions, clockwork.NewRealClock(), log)
	if err := ledger.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}
	transfers := service.NewTransferService(materials, ledger, log, rec)

	if err := loadSeed(ctx, cfg, materials, ledger, log); err != nil {
		return err
	}

	// Initialize handlers
	con := console.New(in, out, cfg.UI.Color, cfg.UI.PageSize)
	menu := handler.NewMenu(con, log, rec)
	handler.NewMaterialHandler(materials, con, log).RegisterActions(menu)
	handler.NewTransactionHandler(transfers, ledger, materials, con, log).RegisterActions(menu)
	handler.NewStatsHandler(materials, ledger, rec, con, log).RegisterActions(menu)

	// The menu blocks on input, so an interrupt returns without waiting for it
	done := make(chan error, 1)
	go func() { done <- menu.Run(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		interrupted = true
		fmt.Fprintln(out)
		return ctx.Err()
	}
}

func openStorage(driver string) (repository.MaterialRepository, repository.TransactionRepository, func() error, error) {
	if driver != config.DriverBadger {
		return memory.NewMaterialRepository(), memory.NewTransactionRepository(), func() error { return nil }, nil
	}

	badgerDB, err := db.OpenInMemory()
	if err != nil {
		return nil, nil, nil, err
	}
	return db.NewBadgerMaterialRepository(badgerDB), db.NewBadgerTransactionRepository(badgerDB), badgerDB.Close, nil
}

func loadSeed(ctx context.Context, cfg *config.Config, materials *service.MaterialService, ledger *service.LedgerService, log logger.Logger) error {
	var (
		data *seed.Data
		err  error
	)
	switch {
	case cfg.Seed.File != "":
		data, err = seed.LoadFile(cfg.Seed.File)
	case cfg.Seed.Sample:
		data, err = seed.Sample()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	return seed.Apply(ctx, data, materials, ledger, log)
}
