package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v2"

	"github.com/ilies38/Cityreport2/internal/app"
	"github.com/ilies38/Cityreport2/internal/report"
	"github.com/ilies38/Cityreport2/internal/utils"
)

// ReportCommand returns the CLI command for managing citizen reports
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Manage citizen issue reports",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new report",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Short summary of the issue", Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Detailed description", Required: true},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: categoryUsage(), Required: true},
					&cli.Float64Flag{Name: "lat", Usage: "Latitude of the issue location", Required: true},
					&cli.Float64Flag{Name: "lon", Usage: "Longitude of the issue location", Required: true},
					&cli.StringFlag{Name: "photo", Usage: "Path to a photo of the issue"},
				},
				Action: reportCreateAction,
			},
			{
				Name:  "list",
				Usage: "List reports",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Only show one category"},
				},
				Action: reportListAction,
			},
			{
				Name:      "show",
				Usage:     "Show one report",
				ArgsUsage: "<report-id>",
				Action:    reportShowAction,
			},
			{
				Name:      "update",
				Usage:     "Edit an existing report",
				ArgsUsage: "<report-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: categoryUsage()},
					&cli.Float64Flag{Name: "lat", Usage: "New latitude"},
					&cli.Float64Flag{Name: "lon", Usage: "New longitude"},
					&cli.StringFlag{Name: "photo", Usage: "Path to a replacement photo"},
				},
				Action: reportUpdateAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a report from this device",
				ArgsUsage: "<report-id>",
				Action:    reportDeleteAction,
			},
			{
				Name:        "watch",
				Usage:       "Watch the report list live",
				Description: "Re-renders the report list every time a report is created, edited, deleted or synced",
				Action:      reportWatchAction,
			},
		},
	}
}

func categoryUsage() string {
	names := make([]string, 0, len(report.Categories()))
	for _, c := range report.Categories() {
		names = append(names, string(c))
	}
	return "Issue category: " + strings.Join(names, ", ")
}

func reportCreateAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	created, err := application.Reports.Create(c.Context, report.CreateInput{
		Title:       c.String("title"),
		Description: c.String("description"),
		Category:    report.Category(c.String("category")),
		Latitude:    c.Float64("lat"),
		Longitude:   c.Float64("lon"),
		PhotoRef:    c.String("photo"),
	})
	if err != nil {
		if report.IsValidationError(err) {
			utils.PrintError(err.Error())
			return err
		}
		return fmt.Errorf("creating report: %w", err)
	}

	utils.PrintSuccess("Report created")
	printReport(created)
	return nil
}

func reportListAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	var reports []*report.Report
	if c.IsSet("category") {
		category, err := report.ParseCategory(c.String("category"))
		if err != nil {
			utils.PrintError(err.Error())
			return err
		}
		reports, err = application.Reports.ListByCategory(c.Context, category)
		if err != nil {
			return fmt.Errorf("listing reports: %w", err)
		}
	} else {
		reports, err = application.Reports.List(c.Context)
		if err != nil {
			return fmt.Errorf("listing reports: %w", err)
		}
	}

	utils.PrintPaginatedTable(reportTableHeaders(), reportTableRows(reports), 20, "Reports")
	return nil
}

func reportShowAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("report id is required")
	}

	r, err := application.Reports.Get(c.Context, id)
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}

	printReport(r)
	return nil
}

func reportUpdateAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("report id is required")
	}

	existing, err := application.Reports.Get(c.Context, id)
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}

	// Unspecified flags keep the current values
	input := report.UpdateInput{
		ID:          existing.ID,
		Title:       existing.Title,
		Description: existing.Description,
		Category:    existing.Category,
		Latitude:    existing.Latitude,
		Longitude:   existing.Longitude,
	}

	if c.IsSet("title") {
		input.Title = c.String("title")
	}
	if c.IsSet("description") {
		input.Description = c.String("description")
	}
	if c.IsSet("category") {
		input.Category = report.Category(c.String("category"))
	}
	if c.IsSet("lat") {
		input.Latitude = c.Float64("lat")
	}
	if c.IsSet("lon") {
		input.Longitude = c.Float64("lon")
	}
	if c.IsSet("photo") {
		input.PhotoRef = c.String("photo")
	}

	updated, err := application.Reports.Update(c.Context, input)
	if err != nil {
		if report.IsValidationError(err) {
			utils.PrintError(err.Error())
			return err
		}
		return fmt.Errorf("updating report: %w", err)
	}

	utils.PrintSuccess("Report updated, queued for sync")
	printReport(updated)
	return nil
}

func reportDeleteAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("report id is required")
	}

	if err := application.Reports.Delete(c.Context, id); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	utils.PrintSuccess("Report deleted from this device")
	return nil
}

func reportWatchAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	updates, err := application.Reports.Watch(c.Context)
	if err != nil {
		return fmt.Errorf("watching reports: %w", err)
	}

	utils.PrintInfo("Watching reports, press Ctrl+C to stop")

	for {
		select {
		case <-c.Context.Done():
			return nil
		case reports := <-updates:
			fmt.Print("\033[H\033[2J")
			utils.PrintTable(reportTableHeaders(), reportTableRows(reports))
			fmt.Println(utils.Theme.Subtle.Sprint(time.Now().Format("15:04:05")))
		}
	}
}

func reportTableHeaders() []string {
	return []string{"ID", "Title", "Category", "Location", "Photo", "Status", "Created"}
}

func reportTableRows(reports []*report.Report) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		photo := "-"
		if r.HasPhoto() {
			photo = "✓"
		}
		rows = append(rows, []string{
			r.ID,
			r.Title,
			string(r.Category),
			fmt.Sprintf("%.4f, %.4f", r.Latitude, r.Longitude),
			photo,
			string(r.SyncStatus),
			r.CreatedAt().Format("Jan 02 15:04"),
		})
	}
	return rows
}

func printReport(r *report.Report) {
	utils.PrintKeyValue("ID", r.ID)
	utils.PrintKeyValue("Title", r.Title)
	utils.PrintKeyValue("Description", r.Description)
	utils.PrintKeyValueWithColor("Category", string(r.Category), utils.Theme.Accent)
	utils.PrintKeyValue("Location", fmt.Sprintf("%.6f, %.6f", r.Latitude, r.Longitude))
	if r.HasPhoto() {
		utils.PrintKeyValue("Photo", r.PhotoURL)
	}
	utils.PrintKeyValueWithColor("Sync status", string(r.SyncStatus), syncStatusColor(r.SyncStatus))
	utils.PrintKeyValue("Created", r.CreatedAt().Format(time.RFC1123))
}

func syncStatusColor(status report.SyncStatus) text.Colors {
	switch status {
	case report.SyncStatusSynced:
		return utils.Theme.Success
	case report.SyncStatusFailed:
		return utils.Theme.Error
	default:
		return utils.Theme.Warning
	}
}
