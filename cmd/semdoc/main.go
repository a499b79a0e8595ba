// Package main provides the semdoc binary entry point.
// Semdoc reads a systems ontology and component descriptions, infers the
// facts the ontology implies and prints a reStructuredText component
// reference.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/c360studio/semdoc/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semdoc"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "semdoc",
		Short: "Semantic component reference generator",
		Long: `Semdoc builds a component reference from RDF.

It loads a schema ontology, the component descriptions and any additional
graphs, derives the facts the schema implies, and writes one reST section
per component to stdout.

Sources are given as path[=format]; globs such as kb/**/*.ttl are expanded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Schema source, path[=format]")
	cmd.Flags().StringVar(&f.components, "components", "", "Components source, path[=format]")
	cmd.Flags().StringArrayVarP(&f.load, "load", "l", nil, "Additional source, path[=format] (repeatable)")
	cmd.Flags().StringArrayVar(&f.rules, "rules", nil, "Mangle rule file (repeatable)")
	cmd.Flags().StringVar(&f.locale, "locale", "", "Label locale (BCP 47)")
	cmd.Flags().IntVar(&f.factLimit, "fact-limit", 0, "Maximum facts the reasoner may derive")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Print rules and inferred facts to stderr")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(configCmd())

	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default user config if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(nil).EnsureUserConfig()
			if err != nil {
				return fmt.Errorf("init config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}
