package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/sales-chart-go/internal/chart"
	"github.com/user/sales-chart-go/internal/config"
	"github.com/user/sales-chart-go/internal/dashboard"
	"github.com/user/sales-chart-go/internal/logging"
	"github.com/user/sales-chart-go/internal/page"
	"github.com/user/sales-chart-go/internal/report"
	"github.com/user/sales-chart-go/internal/sales"
	"go.uber.org/zap"
)

var (
	// Used for flags.
	outputFilePath string
	envFile        string
	flagCfg        = config.Default()

	rootCmd = &cobra.Command{
		Use:   "sales-chart",
		Short: "Sales Chart renders the admin dashboard's daily revenue chart.",
		Long: `A tool that reads the daily sales data embedded in an admin dashboard
page and draws it as a line chart on the page's chart surface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	reportCmd = &cobra.Command{
		Use:   "report [PAGE] [html|json|png|svg]",
		Short: "Renders the sales chart of a dashboard page.",
		Long: `Reads the dashboard page at PAGE ("-" for stdin) and writes either the page
with the chart attached (html), the chart descriptor (json), or the chart image
alone (png, svg).`,
		Args: cobra.ExactArgs(2), // Requires page path and report format
		RunE: runReport,
	}
)

func runReport(cmd *cobra.Command, args []string) error {
	pagePath := args[0]
	reportFormat := strings.ToLower(args[1])

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	adapter, err := report.NewAdapter(reportFormat, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	if outputFilePath == "" {
		outputFilePath = fmt.Sprintf("sales-chart.%s", reportFormat)
	}
	absOutputFilePath, err := filepath.Abs(outputFilePath)
	if err != nil {
		return fmt.Errorf("invalid output file path '%s': %w", outputFilePath, err)
	}

	log.Debug("Loading dashboard page", zap.String("page", pagePath))
	doc, err := page.Load(pagePath)
	if err != nil {
		return err
	}

	charter := chart.NewLibrary(chart.NewRenderer(cfg.EmbedFormat, cfg.Width, cfg.Height))
	salesChart := dashboard.New(charter,
		dashboard.WithElementIDs(cfg.DataElementID, cfg.SurfaceElementID),
		dashboard.WithErrorBanner(cfg.ErrorBanner),
		dashboard.WithLogger(log),
	)
	result := salesChart.Register(doc)

	if err := doc.Ready(); err != nil {
		if !(cfg.ErrorBanner && errors.Is(err, sales.ErrMalformedData)) {
			return err
		}
		log.Warn("Writing page with error banner", zap.Error(err))
	}
	res, _ := result()

	if res.Outcome.Skipped() && reportFormat != "html" {
		fmt.Printf("No chart rendered for %s: %s\n", pagePath, res.Outcome)
		return nil
	}

	if err := adapter.PrepareData(&report.Data{Page: doc, Result: res}); err != nil {
		return fmt.Errorf("failed to prepare %s report: %w", reportFormat, err)
	}
	if err := adapter.Write(absOutputFilePath); err != nil {
		return fmt.Errorf("failed to write %s report to %s: %w", reportFormat, absOutputFilePath, err)
	}

	fmt.Printf("%s report generated successfully: %s (%s)\n", strings.ToUpper(reportFormat), absOutputFilePath, res.Outcome)
	return nil
}

// loadConfig applies explicitly set flags over the file and environment settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-id") {
		cfg.DataElementID = flagCfg.DataElementID
	}
	if flags.Changed("surface-id") {
		cfg.SurfaceElementID = flagCfg.SurfaceElementID
	}
	if flags.Changed("width") {
		cfg.Width = flagCfg.Width
	}
	if flags.Changed("height") {
		cfg.Height = flagCfg.Height
	}
	if flags.Changed("embed-format") {
		cfg.EmbedFormat = strings.ToLower(flagCfg.EmbedFormat)
	}
	if flags.Changed("error-banner") {
		cfg.ErrorBanner = flagCfg.ErrorBanner
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagCfg.LogLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = flagCfg.LogJSON
	}
	return cfg, cfg.Validate()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional file of environment settings")

	f := reportCmd.Flags()
	f.StringVarP(&outputFilePath, "output-file-path", "o", "", "Output file path for the report")
	f.StringVar(&flagCfg.DataElementID, "data-id", flagCfg.DataElementID, "Id of the element holding the sales JSON")
	f.StringVar(&flagCfg.SurfaceElementID, "surface-id", flagCfg.SurfaceElementID, "Id of the chart drawing surface")
	f.IntVar(&flagCfg.Width, "width", flagCfg.Width, "Chart width in pixels")
	f.IntVar(&flagCfg.Height, "height", flagCfg.Height, "Chart height in pixels")
	f.StringVar(&flagCfg.EmbedFormat, "embed-format", flagCfg.EmbedFormat, "Image format embedded in html output (png or svg)")
	f.BoolVar(&flagCfg.ErrorBanner, "error-banner", flagCfg.ErrorBanner, "Show an alert on the surface instead of failing on malformed data")
	f.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "Log level (debug, info, warn, error)")
	f.BoolVar(&flagCfg.LogJSON, "log-json", flagCfg.LogJSON, "Emit JSON logs")

	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
