package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TUIFunc runs the interactive interface until the user quits.
type TUIFunc func(app *App) error

// NewRootCmd builds the nannylog command tree. Running it without a
// subcommand starts the TUI.
func NewRootCmd(open Opener, runTUI TUIFunc) *cobra.Command {
	var (
		configPath string
		app        *App
		cleanup    func()
	)

	root := &cobra.Command{
		Use:   "nannylog",
		Short: "Daily log for a nanny: trips, shifts, meals and journal",
		Long: `nannylog keeps a nanny's day in one place: mileage to saved places,
gigs and shift requests, what the kids ate and a short journal.

Run without arguments to open the interactive view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, cleanup, err = open(configPath)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if runTUI == nil {
				return fmt.Errorf("interactive mode unavailable")
			}
			return runTUI(app)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $NANNYLOG_CONFIG or ~/.config/nannylog/config.yaml)")

	appFn := func() *App { return app }
	root.AddCommand(
		newReportCmd(appFn),
		newDigestCmd(appFn),
		newIntakeCmd(appFn),
		newExportCmd(appFn),
		newReceiptCmd(appFn),
	)
	return root
}
