package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/ilies38/Cityreport2/internal/app"
	synctui "github.com/ilies38/Cityreport2/internal/commands/sync"
	"github.com/ilies38/Cityreport2/internal/config"
	"github.com/ilies38/Cityreport2/internal/loggy"
	syncpkg "github.com/ilies38/Cityreport2/internal/sync"
	"github.com/ilies38/Cityreport2/internal/utils"
)

// SyncCommand returns the CLI command for pushing reports to the city backend
func SyncCommand() *cli.Command {
	return &cli.Command{
		Name:        "sync",
		Usage:       "Push pending reports to the city backend",
		Description: "Pushes every locally pending report to the remote document API. Reports that fail are marked FAILED and retried on the next run.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-tui",
				Usage: "Run the sync without the interactive interface",
				Value: false,
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:        "account",
				Usage:       "Manage backend account connection",
				Description: "Link or unlink this device with the city backend",
				Subcommands: []*cli.Command{
					{
						Name:  "link",
						Usage: "Link to the city backend",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "token",
								Usage:    "Access token issued by the backend",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "name",
								Usage: "A name for this device (e.g., 'Field Tablet')",
							},
						},
						Action: linkAccountAction,
					},
					{
						Name:   "unlink",
						Usage:  "Unlink from the city backend",
						Action: unlinkAccountAction,
					},
					{
						Name:   "status",
						Usage:  "Check backend connection status",
						Action: accountStatusAction,
					},
				},
			},
			{
				Name:        "status",
				Usage:       "Show sync history",
				Description: "Display the outcome of past per-report sync attempts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "report",
						Usage: "Only show attempts for one report id",
					},
				},
				Action: syncStatusAction,
			},
			{
				Name:        "daemon",
				Usage:       "Run the background sync scheduler",
				Description: "Pushes pending reports on a fixed interval until interrupted",
				Action:      syncDaemonAction,
			},
			{
				Name:        "config",
				Usage:       "Configure sync settings",
				Description: "Modify sync configuration settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "server",
						Usage: "Backend URL for syncing",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Access token for syncing",
					},
					&cli.StringFlag{
						Name:  "device-name",
						Usage: "Device name for syncing",
					},
					&cli.BoolFlag{
						Name:  "enabled",
						Usage: "Enable or disable syncing",
					},
				},
				Action: syncConfigAction,
			},
		},
		Action: syncAction,
	}
}

// syncAction is the main action for the sync command
func syncAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if !application.Sync.IsConfigured() {
		utils.PrintError("Sync is not configured. Use 'cityreport sync account link --token <token>' to configure")
		return fmt.Errorf("sync not configured")
	}

	if c.Bool("no-tui") {
		result, err := application.Sync.SyncPending(c.Context, syncpkg.TriggerManual)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		printSyncResult(result)
		return nil
	}

	loggy.Info("Starting manual sync TUI")

	model := synctui.NewModel(application)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		loggy.Error("Error running sync TUI", "error", err)
		return fmt.Errorf("error running sync UI: %w", err)
	}

	return nil
}

// printSyncResult prints the outcome of a non-interactive sync run
func printSyncResult(result *syncpkg.SyncResult) {
	if result.TotalItems == 0 {
		utils.PrintInfo("Nothing to sync, all reports are up to date")
		return
	}

	utils.PrintSuccess(fmt.Sprintf("Synced %d of %d report(s)", result.SuccessItems, result.TotalItems))
	if result.FailedItems > 0 {
		utils.PrintWarning(fmt.Sprintf("%d report(s) failed (%s): %s",
			result.FailedItems, result.ErrorType, result.ErrorMessage))
	}
}

// linkAccountAction handles linking to the city backend
func linkAccountAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	token := c.String("token")
	if token == "" {
		return fmt.Errorf("token is required")
	}

	deviceName := c.String("name")
	if deviceName == "" {
		deviceName = utils.GenerateDeviceName()
	}

	ctx := c.Context
	if err := application.Settings.SetToken(ctx, token); err != nil {
		return fmt.Errorf("setting token: %w", err)
	}

	application.Config.Remote.DeviceName = deviceName
	application.Config.Remote.Enabled = true

	if err := application.Settings.SetSetting(ctx, config.KeyRemoteDeviceName, deviceName); err != nil {
		loggy.Warn("Failed to save device name to settings", "error", err)
	}
	if err := application.Settings.SetSetting(ctx, config.KeyRemoteEnabled, "true"); err != nil {
		loggy.Warn("Failed to save enabled status to settings", "error", err)
	}

	// Verify connectivity with the new credentials
	if application.Gateway != nil {
		if err := application.Gateway.Ping(ctx); err != nil {
			return fmt.Errorf("verifying token: %w", err)
		}
	}

	utils.PrintSuccess("Successfully linked to the city backend as " + deviceName)
	return nil
}

// unlinkAccountAction handles unlinking from the city backend
func unlinkAccountAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	if err := application.Settings.SetToken(ctx, ""); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}

	application.Config.Remote.Enabled = false

	if err := application.Settings.SetSetting(ctx, config.KeyRemoteEnabled, "false"); err != nil {
		loggy.Warn("Failed to save enabled status to settings", "error", err)
	}

	utils.PrintSuccess("Successfully unlinked from the city backend")
	return nil
}

// accountStatusAction handles checking account status
func accountStatusAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if !application.Sync.IsConfigured() {
		utils.PrintError("Not linked to the city backend")
		return nil
	}

	utils.PrintHeading("Account Linked")
	utils.PrintKeyValueWithColor("Server URL", application.Config.Remote.URL, utils.Theme.Info)
	utils.PrintKeyValueWithColor("Device Name", application.Config.Remote.DeviceName, utils.Theme.Info)

	if application.Gateway != nil {
		if err := application.Gateway.Ping(c.Context); err != nil {
			utils.PrintError(fmt.Sprintf("Backend unreachable: %s", err))
		} else {
			utils.PrintSuccess("Backend reachable")
		}
	}

	return nil
}

// syncStatusAction handles showing sync history
func syncStatusAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	tableHeaders := []string{"Report", "Trigger", "Status", "Error", "Started", "Completed"}
	tableRows := [][]string{}

	syncLogs, err := application.Sync.GetSyncLogs(c.Context, c.String("report"), 0, 0)
	if err != nil {
		return fmt.Errorf("error getting sync status: %w", err)
	}

	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("Jan 02 15:04:05")
	}

	formatSuccess := func(success bool) string {
		if success {
			return "✓ Success"
		}
		return "✗ Failed"
	}

	truncate := func(s string, maxLen int) string {
		if len(s) <= maxLen {
			return s
		}
		return s[:maxLen-3] + "..."
	}

	for _, log := range syncLogs {
		tableRows = append(tableRows, []string{
			log.ReportID,
			string(log.Trigger),
			formatSuccess(log.Success),
			truncate(log.ErrorMessage, 64),
			formatTime(log.StartedAt),
			formatTime(log.CompletedAt),
		})
	}

	utils.PrintPaginatedTable(tableHeaders, tableRows, 20, "Sync Logs")

	return nil
}

// syncDaemonAction runs the background scheduler until interrupted
func syncDaemonAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if !application.Sync.IsConfigured() {
		utils.PrintError("Sync is not configured. Use 'cityreport sync account link --token <token>' to configure")
		return fmt.Errorf("sync not configured")
	}

	utils.PrintInfo(fmt.Sprintf("Background sync running every %s, press Ctrl+C to stop",
		application.Config.Sync.Interval))

	application.Scheduler.Start(c.Context)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	application.Scheduler.Stop()
	utils.PrintInfo("Background sync stopped")
	return nil
}

// syncConfigAction handles configuring sync settings
func syncConfigAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Context

	if c.IsSet("server") {
		serverURL := c.String("server")
		if err := application.Settings.SetServerURL(ctx, serverURL); err != nil {
			loggy.Warn("Failed to save server URL to settings", "error", err)
		}
		utils.PrintKeyValueWithColor("Server URL Updated", serverURL, utils.Theme.Info)
	}

	if c.IsSet("token") {
		token := c.String("token")
		if err := application.Settings.SetToken(ctx, token); err != nil {
			loggy.Warn("Failed to save token to settings", "error", err)
		}
		utils.PrintKeyValueWithColor("Token Updated", token, utils.Theme.Info)
	}

	if c.IsSet("device-name") {
		deviceName := c.String("device-name")
		application.Config.Remote.DeviceName = deviceName
		if err := application.Settings.SetSetting(ctx, config.KeyRemoteDeviceName, deviceName); err != nil {
			loggy.Warn("Failed to save device name to settings", "error", err)
		}
		utils.PrintKeyValueWithColor("Device Name Updated", deviceName, utils.Theme.Info)
	}

	if c.IsSet("enabled") {
		enabled := c.Bool("enabled")
		application.Config.Remote.Enabled = enabled

		enabledStr := "false"
		if enabled {
			enabledStr = "true"
		}
		if err := application.Settings.SetSetting(ctx, config.KeyRemoteEnabled, enabledStr); err != nil {
			loggy.Warn("Failed to save enabled status to settings", "error", err)
		}

		utils.PrintKeyValueWithColor("Sync enabled", fmt.Sprintf("%v", enabled), utils.Theme.Info)
	}

	// Display current config if no changes were made
	if !c.IsSet("server") && !c.IsSet("enabled") && !c.IsSet("token") && !c.IsSet("device-name") {
		utils.PrintHeading("Current Sync Configuration")
		utils.PrintKeyValueWithColor("Server URL", application.Config.Remote.URL, utils.Theme.Info)
		utils.PrintKeyValueWithColor("Device Name", application.Config.Remote.DeviceName, utils.Theme.Info)
		utils.PrintKeyValueWithColor("Sync enabled", fmt.Sprintf("%v", application.Config.Remote.Enabled), utils.Theme.Info)
		utils.PrintKeyValueWithColor("Sync interval", application.Config.Sync.Interval.String(), utils.Theme.Info)
	}

	return nil
}
