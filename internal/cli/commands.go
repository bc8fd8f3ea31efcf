package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/export"
	"github.com/sadopc/nannylog/internal/food"
	"github.com/sadopc/nannylog/internal/report"
	"github.com/sadopc/nannylog/internal/store"
)

func dateFlag(cmd *cobra.Command, app *App) (string, error) {
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		return app.Today(), nil
	}
	if !dates.Valid(date) {
		return "", fmt.Errorf("%w: --date must be YYYY-MM-DD, got %q", store.ErrValidation, date)
	}
	return date, nil
}

// emit writes content to out, or to stdout when out is empty or "-".
func emit(cmd *cobra.Command, out, content string) error {
	if out == "" || out == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := export.WriteText(out, content); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	return nil
}

func newReportCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the weekly mileage and expense report",
		Example: `  nannylog report
  nannylog report --date 2024-03-06`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			date, err := dateFlag(cmd, a)
			if err != nil {
				return err
			}
			r := report.Mileage(a.Repos.Trips.LoadAll(), date, a.Config.Report.MileageRate)
			p := report.Punctuality(a.Repos.ShiftLogs.LoadAll(), a.Repos.Gigs.LoadAll(), a.Config.Report.PunctualityWindow)

			w := cmd.OutOrStdout()
			fmt.Fprint(w, r.Text())
			if p.Percent == nil {
				fmt.Fprintln(w, "\nPunctuality: no shifts logged")
			} else {
				fmt.Fprintf(w, "\nPunctuality: %d%% on time (%d of last %d shifts)\n", *p.Percent, p.OnTime, p.Total)
			}
			return nil
		},
	}
	cmd.Flags().String("date", "", "any day in the week (default today)")
	return cmd
}

func newDigestCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the week's journal digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			date, err := dateFlag(cmd, a)
			if err != nil {
				return err
			}
			text := report.JournalDigest(a.Repos.CareNotes.LoadAll(), a.Repos.Trips.LoadAll(), date)
			out, _ := cmd.Flags().GetString("out")
			return emit(cmd, out, text)
		},
	}
	cmd.Flags().String("date", "", "any day in the week (default today)")
	cmd.Flags().String("out", "", "write to file instead of stdout")
	return cmd
}

func newIntakeCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Show food category counts and what to offer more of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				days = a.Config.Report.IntakeWindowDays
			}
			today := a.Today()
			stats := report.Intake(a.Matcher, a.Repos.MealNotes.LoadAll(), today, days)

			w := cmd.OutOrStdout()
			window := dates.Trailing(today, days)
			fmt.Fprintf(w, "Food intake %s to %s\n", window.Start, window.End)
			for _, cat := range food.Categories {
				fmt.Fprintf(w, "  %-14s %d\n", food.CategoryLabels[cat], stats[cat])
			}
			var labels []string
			for _, cat := range food.Underrepresented(stats) {
				labels = append(labels, food.CategoryLabels[cat])
			}
			if len(labels) > 0 {
				fmt.Fprintf(w, "Offer more: %s\n", strings.Join(labels, ", "))
			}
			return nil
		},
	}
	cmd.Flags().Int("days", 0, "days to look back (default from config)")
	return cmd
}

func newExportCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the week's trips as CSV or JSON",
		Example: `  nannylog export --format csv
  nannylog export --format json --date 2024-03-06 --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			date, err := dateFlag(cmd, a)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			r := report.Mileage(a.Repos.Trips.LoadAll(), date, a.Config.Report.MileageRate)

			if out == "" {
				out = filepath.Join(a.Config.Export.Dir, export.Filename(r.Range, format))
			}
			toStdout := out == "-"

			switch format {
			case "csv":
				if toStdout {
					return export.WriteCSV(cmd.OutOrStdout(), r)
				}
				err = export.ToCSV(r, out)
			case "json":
				if toStdout {
					return export.WriteJSON(cmd.OutOrStdout(), r, a.Now())
				}
				err = export.ToJSON(r, out)
			default:
				return fmt.Errorf("%w: unknown format %q (csv or json)", store.ErrValidation, format)
			}
			if err != nil {
				return err
			}
			a.Log.Info("exported week", "format", format, "path", out, "entries", len(r.Entries))
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(r.Entries), out)
			return nil
		},
	}
	cmd.Flags().String("format", "csv", "csv or json")
	cmd.Flags().String("date", "", "any day in the week (default today)")
	cmd.Flags().String("out", "", `output path, "-" for stdout (default export dir)`)
	return cmd
}

func newReceiptCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Render the printable journal page for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			date, err := dateFlag(cmd, a)
			if err != nil {
				return err
			}
			var note *store.CareNote
			if n, ok := store.FindLatestByDate(a.Repos.CareNotes.LoadAll(), date); ok {
				note = &n
			}
			page, err := report.DayReceiptHTML(note, "", a.Repos.Trips.LoadAll(), date)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			return emit(cmd, out, page)
		},
	}
	cmd.Flags().String("date", "", "day to print (default today)")
	cmd.Flags().String("out", "", "write to file instead of stdout")
	return cmd
}
