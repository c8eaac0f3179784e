package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/app"
	"github.com/abhisek/methodo/internal/screen"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, err := openServices(cmd, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.log.Info("starting tui", "db", svc.cfg.DB)
	return app.Run(app.Options{
		Services: &screen.Services{
			Catalog:     svc.catalog,
			Practice:    svc.practice,
			Users:       svc.users,
			Assist:      svc.assist,
			Log:         svc.log,
			RecentLimit: svc.cfg.Practice.RecentLimit,
		},
	})
}
