package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/report"
	"github.com/spf13/cobra"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:       "report [" + strings.Join(report.Names, "|") + "]",
	Short:     "Export a report as CSV",
	Long:      `Export an inventory report as CSV to a file, or to stdout when --out is "-".`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: report.Names,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportReport(cmd.Context(), args[0])
	},
}

func exportReport(ctx context.Context, name string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	rep, err := app.Reports.Generate(ctx, name)
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		out = report.Filename(name, internal.Today().String())
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := report.WriteCSV(w, rep); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if out != "-" {
		app.Logger.Info("report written", "report", name, "rows", len(rep.Rows), "file", out)
	}
	return nil
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", `Output file ("-" for stdout, default <name>_<date>.csv)`)
}
