package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all settings of the analyzer.
type Config struct {
	Template  string   `koanf:"template"`  // path to the template JSON
	OutputDir string   `koanf:"out"`       // directory for rendered artifacts
	Formats   []string `koanf:"formats"`   // csv, dot, dbdiagram
	WebMode   bool     `koanf:"web"`       // serve results over HTTP
	Port      int      `koanf:"port"`      // web server port
	Watch     bool     `koanf:"watch"`     // re-extract on template changes
	Verbosity string   `koanf:"verbosity"` // debug, info, warn, error
	JSONLogs  bool     `koanf:"json-logs"`
}

// Load merges configuration sources.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"template":  "ARMTemplateForFactory.json",
		"out":       "factory_analysis",
		"formats":   []string{"csv", "dot"},
		"web":       false,
		"port":      8080,
		"watch":     false,
		"verbosity": "info",
		"json-logs": false,
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Optional config file next to the working directory.
	_ = k.Load(file.Provider("factory-analyzer.toml"), toml.Parser())

	// FACTORY_ANALYZER_PORT=9090 etc.
	if err := k.Load(env.Provider("FACTORY_ANALYZER_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "FACTORY_ANALYZER_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// HasFormat reports whether a render format is enabled.
func (c *Config) HasFormat(name string) bool {
	for _, f := range c.Formats {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

type rawMap map[string]interface{}

func mapProvider(m map[string]interface{}) rawMap { return rawMap(m) }

func (m rawMap) Read() (map[string]interface{}, error) { return m, nil }

func (m rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
