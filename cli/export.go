package cli

import (
	"fmt"
	"io"
	"os"

	"resume-penelitian/exporter"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Format string // "json" | "csv"
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <research|reports>",
		Short: "Write research records or reports as JSON or CSV",
		Long: `Write research records or reports as JSON or CSV.

Example:
  resume export research --format csv -o penelitian.csv
  resume export reports --format json`,
		Args:         cobra.ExactArgs(1),
		ValidArgs:    []string{"research", "reports"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "json" && opts.Format != "csv" {
				return fmt.Errorf("invalid format %q: must be json or csv", opts.Format)
			}

			a, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			var out io.Writer = cmd.OutOrStdout()
			if opts.Output != "" && opts.Output != "-" {
				f, err := os.Create(opts.Output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			switch args[0] {
			case "research":
				records := a.researchService.All(cmd.Context())
				if opts.Format == "csv" {
					return exporter.WriteResearchCSV(out, records)
				}
				return exporter.WriteJSON(out, records)
			case "reports":
				reports, err := a.reportService.AllReports(cmd.Context())
				if err != nil {
					return err
				}
				if opts.Format == "csv" {
					return exporter.WriteReportsCSV(out, reports)
				}
				return exporter.WriteJSON(out, reports)
			default:
				return fmt.Errorf("unknown export target %q: must be research or reports", args[0])
			}
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "json", "output format (json|csv)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file, - for stdout")

	return cmd
}
