package main

import (
	"os"

	"github.com/sadopc/nannylog/internal/cli"
	"github.com/sadopc/nannylog/internal/tui"
)

func main() {
	root := cli.NewRootCmd(cli.Open, runTUI)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(app *cli.App) error {
	cfg := app.Config
	d := tui.Deps{
		Repos:             app.Repos,
		Matcher:           app.Matcher,
		Log:               app.Log,
		MileageRate:       cfg.Report.MileageRate,
		PunctualityWindow: cfg.Report.PunctualityWindow,
		IntakeDays:        cfg.Report.IntakeWindowDays,
		ExportDir:         cfg.Export.Dir,
		Now:               app.Now,
	}
	if app.Weather != nil {
		d.Weather = app.Weather
	}
	app.Log.Info("starting tui")
	return tui.Run(d)
}
