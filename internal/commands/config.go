package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ilies38/Cityreport2/internal/app"
	"github.com/ilies38/Cityreport2/internal/utils"
)

// ConfigCommand returns the CLI command for application settings
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change application settings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Language used for user-facing messages (e.g. fr, en)",
			},
		},
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			if c.IsSet("locale") {
				locale := c.String("locale")
				if err := application.Settings.SetLocale(c.Context, locale); err != nil {
					return fmt.Errorf("saving locale: %w", err)
				}
				utils.PrintKeyValueWithColor("Locale Updated", locale, utils.Theme.Info)
				return nil
			}

			utils.PrintHeading("Current Configuration")
			utils.PrintKeyValueWithColor("Locale", application.Config.App.Locale, utils.Theme.Info)
			utils.PrintKeyValueWithColor("Database", application.Config.Database.Path, utils.Theme.Info)
			utils.PrintKeyValueWithColor("Log file", application.Config.Logging.Output, utils.Theme.Info)
			utils.PrintKeyValueWithColor("Remote URL", application.Config.Remote.URL, utils.Theme.Info)
			utils.PrintKeyValueWithColor("Remote enabled", fmt.Sprintf("%v", application.Config.Remote.Enabled), utils.Theme.Info)
			return nil
		},
	}
}
