// Package main provides the CLI entry point for scope2-go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/ukaji3/scope2-go/internal/server"
	"github.com/ukaji3/scope2-go/pkg/scope2"
	"github.com/ukaji3/scope2-go/pkg/scope2/config"
	"github.com/ukaji3/scope2-go/pkg/scope2/models"
)

var (
	configPath    string
	templatePath  string
	templateSheet string
	verbose       bool
	outDir        string
	mapFlags      []string
	addr          string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scope2",
		Short: "Split client electricity workbooks into facility reports",
		Long: `scope2-go merges the allow-listed sheets of a client electricity workbook,
maps them onto the Electricity template and writes one workbook per facility group.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (default: $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&templatePath, "template", "", "Template workbook path")
	rootCmd.PersistentFlags().StringVar(&templateSheet, "template-sheet", "", "Template sheet name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps")

	splitCmd := &cobra.Command{
		Use:   "split [input.xlsx]",
		Short: "Write the facility workbooks of an input workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runSplit,
	}
	splitCmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the output workbooks")
	splitCmd.Flags().StringArrayVar(&mapFlags, "map", nil, "Mapping override as Field=Source (repeatable)")

	columnsCmd := &cobra.Command{
		Use:   "columns [input.xlsx]",
		Short: "List the columns of the first sheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runColumns,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the split pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $"+config.EnvAddr+" or :8080)")

	rootCmd.AddCommand(splitCmd, columnsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if templatePath != "" {
		cfg.Template.Path = templatePath
	}
	if templateSheet != "" {
		cfg.Template.Sheet = templateSheet
	}
	return cfg, nil
}

func newPipeline(log zerolog.Logger) (*scope2.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return scope2.New(scope2.Options{Config: cfg, Logger: log})
}

// parseMapFlags applies Field=Source overrides to base.
func parseMapFlags(base models.Mapping, flags []string) (models.Mapping, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	m := base
	for _, f := range flags {
		field, source, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("invalid --map %q (want Field=Source)", f)
		}
		m = m.With(strings.TrimSpace(field), source)
	}
	return m, nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	log := newLogger()
	p, err := newPipeline(log)
	if err != nil {
		return err
	}
	mapping, err := parseMapFlags(p.Config().Mapping, mapFlags)
	if err != nil {
		return err
	}

	res, err := p.RunFile(inputPath, mapping)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, o := range res.Outputs {
		filename := filepath.Join(outDir, o.Bucket.FileName)
		if err := os.WriteFile(filename, o.Data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\n", filename, o.Table.Len())
	}

	for _, d := range res.Diagnostics {
		fmt.Fprintln(cmd.ErrOrStderr(), formatDiagnostic(d))
	}
	return nil
}

// formatDiagnostic renders d for the terminal. Row-level messages already
// carry their sheet and spreadsheet row.
func formatDiagnostic(d models.Diagnostic) string {
	return fmt.Sprintf("warning: [%s] %s", d.Kind, d.Message)
}

func runColumns(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("file not found: %s", args[0])
	}
	defer f.Close()

	sheet, cols, err := scope2.Columns(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sheet: %s\n", sheet)
	for i, c := range cols {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%q\n", i+1, c)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()
	p, err := newPipeline(log)
	if err != nil {
		return err
	}
	listen := p.Config().Server.Addr
	if addr != "" {
		listen = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(p, log).Run(ctx, listen)
}
