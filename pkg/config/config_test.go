package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func testFlags() *pflag.FlagSet {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.String("template", "ARMTemplateForFactory.json", "")
	f.String("out", "factory_analysis", "")
	f.StringSlice("formats", []string{"csv", "dot"}, "")
	f.Bool("web", false, "")
	f.Int("port", 8080, "")
	f.Bool("watch", false, "")
	f.String("verbosity", "info", "")
	f.Bool("json-logs", false, "")
	return f
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Template != "ARMTemplateForFactory.json" {
		t.Errorf("Unexpected default template: %q", cfg.Template)
	}
	if cfg.Port != 8080 {
		t.Errorf("Unexpected default port: %d", cfg.Port)
	}
	if !cfg.HasFormat("csv") || !cfg.HasFormat("dot") {
		t.Errorf("Unexpected default formats: %v", cfg.Formats)
	}
	if cfg.HasFormat("dbdiagram") {
		t.Error("dbdiagram should not be a default format")
	}
}

func TestFlagsOverrideDefaults(t *testing.T) {
	f := testFlags()
	if err := f.Parse([]string{"--template", "factory.json", "--port", "9090", "--watch"}); err != nil {
		t.Fatalf("Flag parse failed: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Template != "factory.json" {
		t.Errorf("Expected flag template, got %q", cfg.Template)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected flag port, got %d", cfg.Port)
	}
	if !cfg.Watch {
		t.Error("Expected watch to be enabled")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("FACTORY_ANALYZER_PORT", "7070")
	t.Setenv("FACTORY_ANALYZER_VERBOSITY", "debug")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Expected env port 7070, got %d", cfg.Port)
	}
	if cfg.Verbosity != "debug" {
		t.Errorf("Expected env verbosity debug, got %q", cfg.Verbosity)
	}
}

func TestHasFormatCaseInsensitive(t *testing.T) {
	cfg := &Config{Formats: []string{"CSV", "Dot"}}
	if !cfg.HasFormat("csv") || !cfg.HasFormat("dot") {
		t.Errorf("HasFormat should be case-insensitive: %v", cfg.Formats)
	}
	if cfg.HasFormat("dbdiagram") {
		t.Error("HasFormat reported a missing format")
	}
}
