package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/factory-analyzer/pkg/arm"
	"github.com/ritzau/factory-analyzer/pkg/config"
	"github.com/ritzau/factory-analyzer/pkg/dag"
	"github.com/ritzau/factory-analyzer/pkg/logging"
	"github.com/ritzau/factory-analyzer/pkg/model"
	"github.com/ritzau/factory-analyzer/pkg/output"
	"github.com/ritzau/factory-analyzer/pkg/watcher"
	"github.com/ritzau/factory-analyzer/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("factory-analyzer", pflag.ExitOnError)
	flags.String("template", "ARMTemplateForFactory.json", "Path to the deployment template JSON")
	flags.String("out", "factory_analysis", "Directory for rendered artifacts")
	flags.StringSlice("formats", []string{"csv", "dot"}, "Render formats: csv, dot, dbdiagram")
	flags.Bool("web", false, "Serve results over HTTP instead of writing files")
	flags.Int("port", 8080, "Web server port (with --web)")
	flags.Bool("watch", false, "Re-extract when the template changes")
	flags.String("verbosity", "info", "Log level: debug, info, warn, error")
	flags.Bool("json-logs", false, "Emit logs as JSON")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	switch {
	case cfg.WebMode:
		runWeb(cfg)
	case cfg.Watch:
		runWatch(cfg)
	default:
		if err := runOnce(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Verbosity {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
}

// analyze reads the template and produces tables and pipeline graphs.
func analyze(template string) (*model.Extraction, []*model.PipelineGraph, error) {
	data, err := os.ReadFile(template)
	if err != nil {
		return nil, nil, fmt.Errorf("reading template: %w", err)
	}

	ex, err := arm.ExtractDocument(data)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting %s: %w", template, err)
	}

	graphs := dag.BuildPipelineGraphs(ex.Activities)
	return ex, graphs, nil
}

// render writes the configured artifact formats to the output directory.
func render(cfg *config.Config, ex *model.Extraction, graphs []*model.PipelineGraph) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if cfg.HasFormat("csv") {
		if err := output.WriteCSVs(cfg.OutputDir, ex); err != nil {
			return fmt.Errorf("writing CSV files: %w", err)
		}
	}
	if cfg.HasFormat("dot") {
		if err := output.WriteDOTFiles(cfg.OutputDir, graphs); err != nil {
			return fmt.Errorf("writing DOT files: %w", err)
		}
	}
	if cfg.HasFormat("dbdiagram") {
		path := filepath.Join(cfg.OutputDir, "dbdiagram.dbml")
		if err := os.WriteFile(path, []byte(output.DBDiagram(ex.ResourceDependencies)), 0o644); err != nil {
			return fmt.Errorf("writing dbdiagram: %w", err)
		}
	}
	return nil
}

func runOnce(cfg *config.Config) error {
	ex, graphs, err := analyze(cfg.Template)
	if err != nil {
		return err
	}
	if err := render(cfg, ex, graphs); err != nil {
		return err
	}
	output.PrintReport(cfg.Template, ex, graphs)
	return nil
}

func runWatch(cfg *config.Config) {
	if err := runOnce(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	events, err := watchTemplate(ctx, cfg.Template)
	if err != nil {
		logging.Fatal("failed to start watcher", "error", err)
	}

	for range events {
		logging.Info("template changed, re-extracting", "path", cfg.Template)
		if err := runOnce(cfg); err != nil {
			logging.Error("re-extraction failed", "error", err)
		}
	}
}

func runWeb(cfg *config.Config) {
	server := web.NewServer()
	defer server.Close()

	go func() {
		if err := server.Start(cfg.Port); err != nil {
			logging.Fatal("web server failed", "error", err)
		}
	}()

	refresh := func() {
		server.PublishAnalysisStatus("extracting", "reading template", cfg.Template, 0)
		ex, graphs, err := analyze(cfg.Template)
		if err != nil {
			logging.Error("extraction failed", "error", err)
			server.PublishAnalysisStatus("error", err.Error(), cfg.Template, 0)
			return
		}
		server.SetResults(ex, graphs)
		server.PublishAnalysisStatus("ready", "extraction complete", cfg.Template, len(graphs))
		logging.Info("results updated", "pipelines", len(graphs), "activities", len(ex.Activities))
	}
	refresh()

	if !cfg.Watch {
		select {}
	}

	ctx := context.Background()
	events, err := watchTemplate(ctx, cfg.Template)
	if err != nil {
		logging.Fatal("failed to start watcher", "error", err)
	}
	for range events {
		logging.Info("template changed, re-extracting", "path", cfg.Template)
		refresh()
	}
}

// watchTemplate wires the watcher and debouncer and returns the
// debounced event stream.
func watchTemplate(ctx context.Context, template string) (<-chan watcher.ChangeEvent, error) {
	tw, err := watcher.NewTemplateWatcher(template)
	if err != nil {
		return nil, err
	}
	if err := tw.Start(ctx); err != nil {
		return nil, err
	}

	debouncer := watcher.NewDebouncer(tw.Events(), 300*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)
	return debouncer.Output(), nil
}
