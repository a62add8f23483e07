// Package main provides the CLI entry point for rtlslide.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide"
	"github.com/tsawler/rtlslide/content"
	"github.com/tsawler/rtlslide/rtl"
	"github.com/tsawler/rtlslide/translate"
)

var (
	outputPath     string
	locale         string
	policyPath     string
	recordsPath    string
	recordsFormat  string
	reportPath     string
	parallelism    int
	failFast       bool
	mock           bool
	skipCharts     bool
	noFlipConnects bool
	verbose        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rtlslide",
		Short: "Mirror presentations to right-to-left layout",
		Long: `rtlslide mirrors the layout of PowerPoint presentations from left-to-right
to right-to-left and injects translated text keyed by shape id.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-part progress")

	convertCmd := &cobra.Command{
		Use:   "convert [input.pptx]",
		Short: "Mirror a presentation and inject translated text",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <input>-rtl.pptx)")
	convertCmd.Flags().StringVar(&locale, "locale", "ar-SA", "Target language tag written on every run")
	convertCmd.Flags().StringVar(&policyPath, "policy", "", "JSON file overriding the flip classifier thresholds")
	convertCmd.Flags().StringVar(&recordsPath, "records", "", "Translated records exported by 'rtlslide export' and reviewed")
	convertCmd.Flags().StringVar(&recordsFormat, "records-format", "", "Format of --records: jsonl, json, csv, tsv (default: from extension)")
	convertCmd.Flags().StringVar(&reportPath, "report", "", "Write the conversion report as JSON to this file")
	convertCmd.Flags().IntVarP(&parallelism, "parallelism", "j", 0, "Parts converted at once (default: number of CPUs)")
	convertCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first part that fails")
	convertCmd.Flags().BoolVar(&mock, "mock", false, "Translate with built-in Arabic sample text")
	convertCmd.Flags().BoolVar(&skipCharts, "skip-charts", false, "Leave chart parts untouched")
	convertCmd.Flags().BoolVar(&noFlipConnects, "no-flip-connectors", false, "Move connectors without flipping them")

	exportCmd := &cobra.Command{
		Use:   "export [input.pptx]",
		Short: "Export the text records of a presentation for translation",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().StringVar(&recordsFormat, "format", "", "Export format: jsonl, json, csv, tsv (default: from extension, else jsonl)")

	rootCmd.AddCommand(convertCmd, exportCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + "-rtl" + ext
	}

	c := rtlslide.Open(inputPath).
		Locale(locale).
		FlipConnectors(!noFlipConnects).
		Logger(logger())
	if parallelism > 0 {
		c = c.Parallelism(parallelism)
	}
	if failFast {
		c = c.FailFast()
	}
	if skipCharts {
		c = c.SkipCharts()
	}
	if mock {
		c = c.Translator(translate.Mock{})
	}

	if policyPath != "" {
		f, err := os.Open(policyPath)
		if err != nil {
			return fmt.Errorf("failed to open policy: %w", err)
		}
		p, err := rtl.LoadPolicy(f)
		f.Close()
		if err != nil {
			return err
		}
		c = c.Policy(p)
	}

	if recordsPath != "" {
		docs, err := readRecords(recordsPath)
		if err != nil {
			return err
		}
		c = c.Documents(docs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := c.Run(ctx)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	if err := c.Save(outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if reportPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if err := os.WriteFile(reportPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d parts converted, %d failed, %d text records injected, %d shapes flipped\n",
		outputPath, report.Converted(), len(report.Errors), report.Inject.Injected, report.Stats.ShapesFlipped)
	for _, pe := range report.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", pe)
	}
	return nil
}

func readRecords(path string) (map[string]content.Document, error) {
	format, err := exportFormat(recordsFormat, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer f.Close()

	entries, err := content.ReadEntries(f, format)
	if err != nil {
		return nil, err
	}
	return content.Documents(entries, content.DefaultContext), nil
}

// exportFormat resolves a format name, falling back to the file extension
// and then to JSON Lines.
func exportFormat(name, path string) (content.ExportFormat, error) {
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if name == "" {
		return content.ExportFormatJSONL, nil
	}
	return content.ParseExportFormat(name)
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	format, err := exportFormat(recordsFormat, outputPath)
	if err != nil {
		return err
	}

	entries, err := rtlslide.Open(inputPath).Logger(logger()).Records()
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	config := content.DefaultExportConfig()
	config.Format = format
	exp := content.NewExporterWithConfig(config)

	if outputPath != "" {
		return exp.ExportToFile(entries, outputPath)
	}
	return exp.Export(entries, cmd.OutOrStdout())
}
