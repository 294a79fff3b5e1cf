package app

import (
	"os"
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"go.uber.org/zap/zapcore"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOCK_ prefix) or YAML config files.
type Config struct {
	DataDir       string `default:"." usage:"Directory holding the backing files" flag:"data-dir"`
	InventoryFile string `default:"inventory.json" usage:"Inventory backing file, relative to the data dir" flag:"inventory-file"`
	SalesFile     string `default:"sales.json" usage:"Sales ledger backing file, relative to the data dir" flag:"sales-file"`
	Log           LogConfig
}

// LogConfig controls the operation log.
type LogConfig struct {
	File  string `default:"inventory.log" usage:"Log file, relative to the data dir (or stderr/stdout)"`
	Level string `default:"info" usage:"Log level (debug, info, warn, error)"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files. Extra file paths take precedence over the default locations.
// Command-line flags are left to the caller.
func LoadConfig(files ...string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "STOCK",
		Files:     append([]string{"/etc/stockroom/config.yaml", "config.yaml"}, files...),
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports missing required settings and an unknown log level.
func (c *Config) Validate() error {
	switch {
	case c.InventoryFile == "":
		return errors.New("inventory file is required: set STOCK_INVENTORY_FILE")
	case c.SalesFile == "":
		return errors.New("sales file is required: set STOCK_SALES_FILE")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "parse log level %q", c.Log.Level)
	}
	return nil
}

// InventoryPath returns the inventory backing file resolved against DataDir.
func (c *Config) InventoryPath() string {
	return c.resolve(c.InventoryFile)
}

// SalesPath returns the sales backing file resolved against DataDir.
func (c *Config) SalesPath() string {
	return c.resolve(c.SalesFile)
}

// LogPath returns the log sink: stderr, stdout or a file resolved against
// DataDir.
func (c *Config) LogPath() string {
	switch c.Log.File {
	case "", "stderr":
		return "stderr"
	case "stdout":
		return "stdout"
	}
	return c.resolve(c.Log.File)
}

func (c *Config) ensureDataDir() error {
	if c.DataDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	return nil
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
