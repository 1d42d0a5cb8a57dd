// Package main provides the CLI entry point for sheetsync.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/ukaji3/sheetsync/internal/auth"
	"github.com/ukaji3/sheetsync/internal/config"
	"github.com/ukaji3/sheetsync/internal/logging"
	"github.com/ukaji3/sheetsync/pkg/sheetsync"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/sheet"
	"github.com/ukaji3/sheetsync/pkg/sheetsync/source"
)

var quick bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetsync",
		Short: "Refresh the analytics dashboard spreadsheet",
		Long: `sheetsync pulls GA4 and Search Console reports and writes them,
with a summary, into the dashboard spreadsheet.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDashboard,
	}
	rootCmd.Flags().BoolVar(&quick, "quick", false, "Update the summary sheet only")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "charts",
		Short: "Add the default charts to the dashboard sheets",
		Args:  cobra.NoArgs,
		RunE:  runCharts,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "articles",
		Short: "Sync the CMS article listing, keeping hand-edited columns",
		Args:  cobra.NoArgs,
		RunE:  runArticles,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env holds the loaded config and logger. opts is filled on first use.
type env struct {
	cfg  config.Config
	log  zerolog.Logger
	opts []option.ClientOption
}

func setup() (*env, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, err
	}
	logger, _ := logging.New(os.Stderr, cfg.LogLevel)
	return &env{cfg: cfg, log: logger}, nil
}

// credentials loads the service account once. It fails with
// sheetsync.ErrCredentials before any report is fetched.
func (e *env) credentials(ctx context.Context) error {
	if e.opts != nil {
		return nil
	}
	opt, err := auth.ClientOption(ctx, e.cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("%w: %v", sheetsync.ErrCredentials, err)
	}
	e.opts = []option.ClientOption{opt}
	return nil
}

// openBook returns the destination spreadsheet and a func releasing it.
func (e *env) openBook(ctx context.Context) (sheet.Spreadsheet, func(), error) {
	if e.cfg.Workbook != "" {
		wb, err := sheet.OpenWorkbook(e.cfg.Workbook)
		if err != nil {
			return nil, nil, err
		}
		e.log.Info().Str("workbook", e.cfg.Workbook).Msg("Writing to local workbook")
		return wb, closeLogged(wb, e.cfg.Workbook, e.log), nil
	}
	if err := e.credentials(ctx); err != nil {
		return nil, nil, err
	}
	gs, err := sheet.NewGoogleSheets(ctx, e.cfg.SpreadsheetID, e.opts...)
	if err != nil {
		return nil, nil, err
	}
	return gs, func() {}, nil
}

// closeLogged returns a release func that logs a failed Close at warn level.
func closeLogged(c io.Closer, name string, logger zerolog.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Str("workbook", name).Msg("Closing workbook failed")
		}
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup()
	if err != nil {
		return err
	}
	if err := e.credentials(ctx); err != nil {
		return err
	}

	runner, err := source.NewAnalyticsRunner(ctx, e.opts...)
	if err != nil {
		return err
	}
	querier, err := source.NewSearchQuerier(ctx, e.opts...)
	if err != nil {
		return err
	}
	book, closeBook, err := e.openBook(ctx)
	if err != nil {
		return err
	}
	defer closeBook()

	mode := sheetsync.ModeFull
	if quick {
		mode = sheetsync.ModeQuick
	}
	e.log.Info().
		Str("site", e.cfg.SearchConsoleSiteURL).
		Int("days", e.cfg.ReportDays).
		Msg("Target")

	d := sheetsync.NewDashboard(
		source.NewAnalytics(runner, e.cfg.GA4PropertyID, e.cfg.ReportDays, e.log),
		source.NewSearch(querier, e.cfg.SearchConsoleSiteURL, e.cfg.ReportDays, e.cfg.SearchLagDays, e.log),
		sheet.NewEngine(book, e.log),
		e.cfg.Options(mode),
		e.log,
	)
	summary, err := d.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(summary, e.cfg.ReportDays)
	return nil
}

func runCharts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup()
	if err != nil {
		return err
	}
	book, closeBook, err := e.openBook(ctx)
	if err != nil {
		return err
	}
	defer closeBook()

	n, err := sheetsync.CreateCharts(ctx, book, e.cfg.Sheets, e.log)
	if err != nil {
		return err
	}
	fmt.Printf("Created %d charts\n", n)
	return nil
}

func runArticles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup()
	if err != nil {
		return err
	}
	if e.cfg.CMSBaseURL == "" {
		return fmt.Errorf("%w: set cms_base_url", sheetsync.ErrNoContentSource)
	}

	cms, err := source.NewCMS(e.cfg.CMSBaseURL, e.cfg.SiteURL, http.DefaultClient, e.log)
	if err != nil {
		return err
	}
	book, closeBook, err := e.openBook(ctx)
	if err != nil {
		return err
	}
	defer closeBook()

	n, err := sheetsync.NewArticleSync(cms, sheet.NewEngine(book, e.log), e.cfg.Sheets.Articles, e.log).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Synced %d articles\n", n)
	return nil
}

func printSummary(s sheetsync.Summary, days int) {
	fmt.Printf("Summary (last %d days)\n", days)
	fmt.Printf("  Page views:       %d\n", s.TotalPageViews)
	fmt.Printf("  Sessions:         %d\n", s.TotalSessions)
	fmt.Printf("  Users:            %d\n", s.TotalUsers)
	fmt.Printf("  Avg session (s):  %.1f\n", s.AvgSessionDuration)
	fmt.Printf("  Search clicks:    %d\n", s.TotalClicks)
	fmt.Printf("  Impressions:      %d\n", s.TotalImpressions)
	fmt.Printf("  Avg CTR (%%):      %.2f\n", s.AvgCTR)
	fmt.Printf("  Avg position:     %.1f\n", s.AvgPosition)
}
