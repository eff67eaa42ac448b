package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ilies38/Cityreport2/internal/app"
	"github.com/ilies38/Cityreport2/internal/commands"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "cityreport",
		Usage: "Offline-first citizen issue reporting",
		Description: "CityReport lets citizens record municipal issues (potholes, broken " +
			"streetlights, graffiti...) on their device and pushes them to the city backend " +
			"whenever connectivity allows.\n\n" +
			"When run without subcommands, CityReport lists the local reports.",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Before: func(c *cli.Context) error {
			// Initialize the application
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			// Gracefully shutdown the application
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.InitCommand(),
			commands.ReportCommand(),
			commands.SyncCommand(),
			commands.ConfigCommand(),
			commands.MigrateCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action lists the local reports
			for _, cmd := range commands.ReportCommand().Subcommands {
				if cmd.Name == "list" {
					return cmd.Action(c)
				}
			}
			return cli.ShowAppHelp(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
