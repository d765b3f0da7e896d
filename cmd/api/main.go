package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "api",
		Short:         "Salon booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(waitlistCmd())
	rootCmd.AddCommand(notificationsCmd())
	rootCmd.AddCommand(locksCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, opens the database and wires the container.
// Callers must Close the returned app.
func bootstrap() (*app.App, *zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(cfg, os.Stdout)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, logger, err
	}

	a, err := app.New(cfg, db, logger, nil)
	if err != nil {
		return nil, logger, err
	}
	return a, logger, nil
}
