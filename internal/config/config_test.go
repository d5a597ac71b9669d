package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "error", c.Log.Level)
	assert.Equal(t, "stderr", c.Log.Output)
	assert.Equal(t, DriverMemory, c.Storage.Driver)
	assert.Equal(t, 100, c.Inventory.MaxMaterials)
	assert.Equal(t, 500, c.Inventory.MaxTransactions)
	assert.Equal(t, "T", c.Inventory.TransactionPrefix)
	assert.Equal(t, 10, c.UI.PageSize)
	assert.True(t, c.UI.Color)
	assert.False(t, c.Seed.Sample)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	err := os.WriteFile(path, []byte(`
storage:
  driver: badger
inventory:
  max_materials: 20
  transaction_prefix: X
ui:
  page_size: 5
`), 0o600)
	require.NoError(t, err)

	t.Setenv("INVENTORY_UI_PAGE_SIZE", "7")

	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--config", path, "--seed.sample"}))

	c, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, DriverBadger, c.Storage.Driver)
	assert.Equal(t, 20, c.Inventory.MaxMaterials)
	assert.Equal(t, "X", c.Inventory.TransactionPrefix)
	assert.Equal(t, 7, c.UI.PageSize, "environment overrides the file")
	assert.True(t, c.Seed.Sample, "flag set on the command line")
	assert.Equal(t, "error", c.Log.Level, "unset flag keeps the default")
}

func TestLoadMissingFile(t *testing.T) {
	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))

	_, err := Load(fs)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c, err := Load(nil)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		msg    string
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log output", func(c *Config) { c.Log.Output = "file" }, "log.output"},
		{"driver", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.driver"},
		{"materials cap", func(c *Config) { c.Inventory.MaxMaterials = 0 }, "inventory.max_materials"},
		{"transactions cap", func(c *Config) { c.Inventory.MaxTransactions = -1 }, "inventory.max_transactions"},
		{"prefix", func(c *Config) { c.Inventory.TransactionPrefix = "tx" }, "inventory.transaction_prefix"},
		{"page size", func(c *Config) { c.UI.PageSize = 0 }, "ui.page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
