package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"soil-nutrient-service/internal/core/domain"
)

func newPredictCmd(factory appFactory) *cobra.Command {
	var (
		variant   string
		impedance string
		outDir    string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run one prediction and print the result table",
		Example: `
  # Print the table as CSV
  soilctl predict --variant basic --impedance 123.45

  # Also write report.json and the enabled charts
  soilctl predict --variant rf --impedance 50 --out ./report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (csv or json)", format)
			}

			a, err := factory(cmd.Context())
			if err != nil {
				return err
			}

			report, err := a.dashboard.Compute(cmd.Context(), variant, impedance)
			if err != nil {
				return err
			}
			v, err := a.dashboard.Variant(variant)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				err = writeJSON(out, report)
			} else {
				err = writeTableCSV(out, report.Table())
			}
			if err != nil {
				return err
			}
			for _, w := range report.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			if outDir == "" {
				return nil
			}
			return writeReportDir(outDir, a, v, report)
		},
	}

	cmd.Flags().StringVarP(&variant, "variant", "v", "", "Variant to predict with (required)")
	cmd.Flags().StringVarP(&impedance, "impedance", "i", "", "Measured impedance in ohms (required)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for table.csv, report.json and chart images")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Stdout format: csv or json")
	_ = cmd.MarkFlagRequired("variant")
	_ = cmd.MarkFlagRequired("impedance")

	return cmd
}

func writeTableCSV(w io.Writer, t domain.Table) error {
	cw := csv.NewWriter(w)
	row := make([]string, len(t.Row))
	for i, v := range t.Row {
		row[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReportDir(dir string, a *app, v *domain.Variant, report *domain.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, "table.csv"), func(w io.Writer) error {
		return writeTableCSV(w, report.Table())
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "report.json"), func(w io.Writer) error {
		return writeJSON(w, report)
	}); err != nil {
		return err
	}

	for _, kind := range v.Charts {
		if kind == domain.ChartTable {
			continue
		}
		img, err := a.charts.Render(kind, report)
		if err != nil {
			return fmt.Errorf("render %s chart: %w", kind, err)
		}
		name := string(kind) + extensionFor(img.ContentType)
		if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func extensionFor(contentType string) string {
	if contentType == "image/svg+xml" {
		return ".svg"
	}
	return ".png"
}
