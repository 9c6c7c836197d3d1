package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/JonMunkholm/fooddir/internal/store"
	"github.com/spf13/cobra"
)

var errInvalidRows = errors.New("file has invalid rows")

func newValidateCmd(root *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a CSV file without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := store.NewMemory()
			defer mem.Close()

			batch, err := parseFile(cmd.Context(), newImporter(root, mem), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, %d valid, %d invalid\n",
				args[0], batch.TotalRows, batch.ValidRows, batch.InvalidRows)
			for _, vr := range batch.Rows {
				printMessages(out, vr.Row.Number, vr.Title(), vr.Verdict.Errors, vr.Verdict.Warnings)
			}

			if strict && batch.InvalidRows > 0 {
				return fmt.Errorf("%w: %d", errInvalidRows, batch.InvalidRows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any row is invalid")
	return cmd
}

type importOptions struct {
	apply  bool
	report string
	format string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV file (dry run unless --apply)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the configured database (default is dry-run)")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write the error report to this path")
	cmd.Flags().StringVar(&opts.format, "format", core.FormatCSV, "Report format: csv or xlsx")
	return cmd
}

func runImport(cmd *cobra.Command, root *rootOptions, opts importOptions, path string) error {
	ctx := cmd.Context()

	var backend store.Backend
	if opts.apply {
		b, err := store.Open(ctx, root.cfg.Database)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		backend = b
	} else {
		backend = store.NewMemory()
	}
	defer backend.Close()

	importer := newImporter(root, backend)
	batch, err := parseFile(ctx, importer, path)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, root.cfg.Import.Timeout)
	defer cancel()
	result, runErr := importer.Import(runCtx, batch.Rows)

	out := cmd.OutOrStdout()
	mode := "dry run"
	if opts.apply {
		mode = "applied"
	}
	fmt.Fprintf(out, "%s (%s): %d imported, %d failed, %d skipped\n",
		path, mode, result.Success, result.Failed, result.Skipped)
	for _, e := range result.Errors {
		printMessages(out, e.RowNumber, e.Title, e.Errors, e.Warnings)
	}

	if opts.report != "" {
		if err := writeReport(opts.report, opts.format, result.Errors); err != nil {
			return err
		}
		fmt.Fprintf(out, "report written to %s\n", opts.report)
	}
	return runErr
}

func newTemplateCmd() *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			switch strings.ToLower(format) {
			case core.FormatCSV:
				data, err = core.GenerateTemplate()
			case core.FormatXLSX:
				data, err = core.GenerateTemplateXLSX()
			default:
				return fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
			}
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&format, "format", core.FormatCSV, "Template format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this path instead of stdout")
	return cmd
}

func newImporter(root *rootOptions, s core.LocationStore) *core.Importer {
	return core.NewImporter(s, core.ImporterConfig{
		MaxFileSize: root.cfg.Import.MaxFileSize,
		BatchSize:   root.cfg.Import.BatchSize,
		Validator:   core.ValidatorConfig{Counties: root.cfg.Import.Counties},
	})
}

func parseFile(ctx context.Context, importer *core.Importer, path string) (*core.ValidatedBatch, error) {
	parsed, err := importer.Reader().ReadFile(path)
	if err != nil {
		return nil, err
	}
	return importer.ValidateRows(ctx, parsed), nil
}

func writeReport(path, format string, entries []core.RowError) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case core.FormatCSV:
		data, err = core.GenerateErrorReport(entries)
	case core.FormatXLSX:
		data, err = core.GenerateErrorReportXLSX(entries)
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printMessages(w io.Writer, row int, title string, errs, warnings []string) {
	if title == "" {
		title = "(untitled)"
	}
	for _, msg := range errs {
		fmt.Fprintf(w, "  row %d %s: error: %s\n", row, title, msg)
	}
	for _, msg := range warnings {
		fmt.Fprintf(w, "  row %d %s: warning: %s\n", row, title, msg)
	}
}
