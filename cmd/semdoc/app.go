package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/semdoc/config"
	"github.com/c360studio/semdoc/report"
	"github.com/c360studio/semdoc/source"
)

type flags struct {
	configPath  string
	schema      string
	components  string
	load        []string
	rules       []string
	locale      string
	factLimit   int
	debug       bool
	metricsFile string
	logLevel    string
}

func run(cmd *cobra.Command, f flags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	logger := newLogger(stderr, f.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(f, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd, cfg, f); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Debug.Enabled {
		opts.Debug = stderr
	}

	registry := prometheus.NewRegistry()
	metrics, err := report.NewMetrics(registry)
	if err != nil {
		return err
	}

	pipeline, err := report.NewPipeline(opts, metrics, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var out bytes.Buffer
	result, runErr := pipeline.Run(ctx, &out)

	if cfg.Metrics.File != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.File, registry); err != nil {
			logger.Warn("Failed to write metrics", slog.String("path", cfg.Metrics.File), slog.String("error", err.Error()))
		}
	}
	if runErr != nil {
		return runErr
	}

	if _, err := out.WriteTo(stdout); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Debug("Report written", slog.String("run_id", result.RunID), slog.Int("components", len(result.Document.Components)))
	return nil
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(f flags, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if f.configPath != "" {
		return loader.LoadFile(f.configPath)
	}
	return loader.Load()
}

// applyFlags overrides the loaded configuration with the flags set on the
// command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) error {
	changed := cmd.Flags().Changed

	if changed("schema") {
		spec, err := source.ParseSpec(f.schema)
		if err != nil {
			return fmt.Errorf("--schema: %w", err)
		}
		cfg.Sources.Schema = spec
	}
	if changed("components") {
		spec, err := source.ParseSpec(f.components)
		if err != nil {
			return fmt.Errorf("--components: %w", err)
		}
		cfg.Sources.Components = spec
	}
	if changed("load") {
		cfg.Sources.Additional = nil
		for _, s := range f.load {
			spec, err := source.ParseSpec(s)
			if err != nil {
				return fmt.Errorf("--load: %w", err)
			}
			cfg.Sources.Additional = append(cfg.Sources.Additional, spec)
		}
	}
	if changed("rules") {
		cfg.Reasoner.Rules = append(cfg.Reasoner.Rules, f.rules...)
	}
	if changed("locale") {
		cfg.Report.Locale = f.locale
	}
	if changed("fact-limit") {
		cfg.Reasoner.FactLimit = f.factLimit
	}
	if changed("debug") {
		cfg.Debug.Enabled = f.debug
	}
	if changed("metrics-file") {
		cfg.Metrics.File = f.metricsFile
	}
	return nil
}
