// Package config loads the tracker configuration from defaults, an optional
// YAML file, INVENTORY_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverBadger = "badger"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Log struct {
		Level  string
		Output string
	} `mapstructure:"log"`

	Storage struct {
		Driver string
	} `mapstructure:"storage"`

	Inventory struct {
		MaxMaterials      int    `mapstructure:"max_materials"`
		MaxTransactions   int    `mapstructure:"max_transactions"`
		TransactionPrefix string `mapstructure:"transaction_prefix"`
	} `mapstructure:"inventory"`

	UI struct {
		PageSize int `mapstructure:"page_size"`
		Color    bool
	} `mapstructure:"ui"`

	Seed struct {
		File   string
		Sample bool
	} `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("log.level", "error")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("inventory.max_materials", 100)
	v.SetDefault("inventory.max_transactions", 500)
	v.SetDefault("inventory.transaction_prefix", "T")
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.color", true)
	v.SetDefault("seed.file", "")
	v.SetDefault("seed.sample", false)
}

// Flags returns the command-line flags understood by Load
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("inventory", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("log.level", "error", "log level (debug, info, warn, error)")
	fs.String("storage.driver", DriverMemory, "storage driver (memory, badger)")
	fs.String("seed.file", "", "YAML file with initial materials and transactions")
	fs.Bool("seed.sample", false, "start with the built-in sample data")
	fs.Int("ui.page_size", 10, "rows per page in list views")
	fs.Bool("ui.color", true, "colored output when writing to a terminal")
	return fs
}

// Load builds the configuration. Flags that were not set on the command line
// do not override the file or the environment.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := ""
	if fs != nil {
		path, _ = fs.GetString("config")
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name != "config" && f.Changed {
				_ = v.BindPFlag(f.Name, f)
			}
		})
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &c, nil
}

// Validate performs business-rule validation on the loaded configuration
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Output {
	case "stderr", "stdout", "discard":
	default:
		return fmt.Errorf("log.output must be stderr, stdout or discard (got %q)", c.Log.Output)
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverBadger:
	default:
		return fmt.Errorf("storage.driver must be %s or %s (got %q)", DriverMemory, DriverBadger, c.Storage.Driver)
	}

	if c.Inventory.MaxMaterials <= 0 {
		return fmt.Errorf("inventory.max_materials must be > 0 (got %d)", c.Inventory.MaxMaterials)
	}
	if c.Inventory.MaxTransactions <= 0 {
		return fmt.Errorf("inventory.max_transactions must be > 0 (got %d)", c.Inventory.MaxTransactions)
	}
	if p := c.Inventory.TransactionPrefix; len(p) != 1 || p[0] < 'A' || p[0] > 'Z' {
		return fmt.Errorf("inventory.transaction_prefix must be one upper-case letter (got %q)", p)
	}

	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be > 0 (got %d)", c.UI.PageSize)
	}
	return nil
}
