package cmd

import (
	"fmt"

	"github.com/KaramelBytes/crimeflow/internal/chart"
	"github.com/KaramelBytes/crimeflow/internal/dashboard"
	"github.com/KaramelBytes/crimeflow/internal/export"
	"github.com/KaramelBytes/crimeflow/internal/table"
	"github.com/spf13/cobra"
)

var (
	expYear     int
	expOffenses []string
	expStreets  []string
	expMinCount int
	expOutDir   string
	expFormat   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the dashboard figures for one filter combination to files",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := chart.ParseFormat(expFormat)
		if err != nil {
			return err
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		base, _, err := loadIncidents(cmd.Context(), c)
		if err != nil {
			return err
		}
		d, err := dashboard.New(base, c.Dashboard())
		if err != nil {
			return err
		}

		f := dashboard.Filters{
			Year:     expYear,
			Offenses: table.ParseSelection(expOffenses),
			Streets:  table.ParseSelection(expStreets),
			MinCount: c.DefaultMinCount,
		}
		if f.Year == 0 {
			f.Year = c.DefaultYear
		}
		if years := d.Options().Years; f.Year == 0 && len(years) > 0 {
			f.Year = years[0]
		}
		if cmd.Flags().Changed("min-count") {
			f.MinCount = expMinCount
		}

		v, err := d.Render(cmd.Context(), f)
		if err != nil {
			return err
		}
		m, err := export.WriteView(expOutDir, v, f, chart.Target{Format: format, PlotlyURL: c.PlotlyURL})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d figures to %s (export %s)\n", len(m.Files), expOutDir, m.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&expYear, "year", 0, "year to render (default: configured or earliest year)")
	exportCmd.Flags().StringSliceVar(&expOffenses, "offense", []string{"all"}, "offense code groups (repeatable, 'all' for every group)")
	exportCmd.Flags().StringSliceVar(&expStreets, "street", []string{"all"}, "streets (repeatable, 'all' for every street)")
	exportCmd.Flags().IntVar(&expMinCount, "min-count", 0, "minimum incidents per street/offense link (overrides config)")
	exportCmd.Flags().StringVar(&expOutDir, "out", "figures", "output directory")
	exportCmd.Flags().StringVar(&expFormat, "format", "json", "output format: json|html")
}
