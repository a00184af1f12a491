package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/causelist/internal/acquire"
	"github.com/ppiankov/causelist/internal/cache"
	"github.com/ppiankov/causelist/internal/extract/adapters"
	"github.com/ppiankov/causelist/internal/fetch"
	"github.com/ppiankov/causelist/internal/logging"
	"github.com/ppiankov/causelist/internal/model"
	"github.com/ppiankov/causelist/internal/pipeline"
	"github.com/ppiankov/causelist/internal/render"
	"github.com/ppiankov/causelist/internal/sink"
	"github.com/ppiankov/causelist/internal/store"
	"github.com/ppiankov/causelist/internal/worker"
)

// checkFlags holds the check command's own flags
type checkFlags struct {
	cnr        string
	caseType   string
	caseNumber string
	caseYear   string

	today    bool
	tomorrow bool
	date     string

	courtComplex string
	court        string

	useAPI          bool
	captureDocument bool
	noCache         bool
	timeout         time.Duration
}

var checkOpts checkFlags

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a case is on the cause list for a date",
	Long: `Check looks for one case on a court's cause list.

Identify the case by CNR, or by case type, number and year (not both).
The date defaults to today in the configured time zone (Asia/Kolkata).

With --api the eCourts cause-list API is called first; when it is not
configured, fails, or does not list the case, the cause-list page is shown
for you to open in a browser, pass the CAPTCHA, and save into the capture
directory. --headless fetches the page directly instead.

Exit status: 0 found, 1 not found, 2 invalid input, 3 failure.

Example:
  causelist check --cnr MHAU012345662020 --today
  causelist check --case-type CC --case-number 123 --case-year 2023 --tomorrow
  causelist check --cnr DLND010000062021 --date 2026-10-20 --api --court-complex 2 --court 5
  causelist check --cnr DLND010000062021 --causelist --capture-dir ~/Downloads`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	f := checkCmd.Flags()

	// Query flags
	f.StringVar(&checkOpts.cnr, "cnr", "", "CNR of the case (16 characters)")
	f.StringVar(&checkOpts.caseType, "case-type", "", "case type (e.g. CC, CS)")
	f.StringVar(&checkOpts.caseNumber, "case-number", "", "case number")
	f.StringVar(&checkOpts.caseYear, "case-year", "", "case year")

	// Date flags
	f.BoolVar(&checkOpts.today, "today", false, "check today's cause list (default)")
	f.BoolVar(&checkOpts.tomorrow, "tomorrow", false, "check tomorrow's cause list")
	f.StringVar(&checkOpts.date, "date", "", "check the cause list for a date (YYYY-MM-DD)")
	checkCmd.MarkFlagsMutuallyExclusive("today", "tomorrow", "date")

	// Location flags
	f.StringVar(&checkOpts.courtComplex, "court-complex", "", "court complex code or name")
	f.StringVar(&checkOpts.court, "court", "", "court code or name")
	f.String("state-code", "", "eCourts state code (default from config: 09)")
	f.String("district-code", "", "eCourts district code (default from config: 13)")

	// Acquisition flags
	f.BoolVar(&checkOpts.useAPI, "api", false, "try the eCourts API first (needs ECOURTS_API_KEY)")
	f.BoolVar(&checkOpts.captureDocument, "causelist", false, "save the cause-list document (PDF) next to the result")
	f.BoolVar(&checkOpts.captureDocument, "capture-document", false, "alias for --causelist")
	f.Bool("headless", false, "fetch the cause-list page directly, without an operator")
	f.String("url", "", "cause-list page to open")
	f.String("capture-dir", "", "directory where the saved page is picked up")
	f.BoolVar(&checkOpts.noCache, "no-cache", false, "do not use cached API responses")
	f.DurationVar(&checkOpts.timeout, "timeout", 0, "overall time limit (0 waits for the operator indefinitely)")

	// Output flags
	f.StringP("out", "o", "", "result JSON path (default ecourts_result.json)")
	f.Bool("history", false, "record the check in the local history database")

	_ = viper.BindPFlag("structured.state_code", f.Lookup("state-code"))
	_ = viper.BindPFlag("structured.district_code", f.Lookup("district-code"))
	_ = viper.BindPFlag("rendered.headless", f.Lookup("headless"))
	_ = viper.BindPFlag("rendered.url", f.Lookup("url"))
	_ = viper.BindPFlag("rendered.capture_dir", f.Lookup("capture-dir"))
	_ = viper.BindPFlag("output.path", f.Lookup("out"))
	_ = viper.BindPFlag("history.enabled", f.Lookup("history"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if cfg.Output.Verbose && logLevel == "" && cfg.Log.Level == "warn" {
		cfg.Log.Level = "info"
	}
	if err := logging.Init(cfg.Log); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer func() { _ = zap.L().Sync() }()

	raw := model.RawQuery{
		CNR:      checkOpts.cnr,
		CaseType: checkOpts.caseType,
		Number:   checkOpts.caseNumber,
		Year:     checkOpts.caseYear,
	}
	// Reject bad input before anything is opened or written
	query, err := model.Normalize(raw)
	if err != nil {
		return &ExitError{Code: ExitInvalidInput, Err: err}
	}

	loc, err := pipeline.LoadLocation(cfg.Timezone)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	date, err := pipeline.ResolveDate(checkOpts.dateChoice(), time.Now(), loc)
	if err != nil {
		return &ExitError{Code: ExitInvalidInput, Err: err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if checkOpts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, checkOpts.timeout)
		defer cancel()
	}

	stderr := cmd.ErrOrStderr()
	results := sink.NewJSONFile(cfg.Output.Path)
	checker := newChecker(cfg, checkOpts, cmd.InOrStdin(), stderr, results)

	req := acquire.Request{
		Date: date,
		Location: acquire.Location{
			StateCode:    cfg.Structured.StateCode,
			DistrictCode: cfg.Structured.DistrictCode,
			CourtComplex: checkOpts.courtComplex,
			Court:        checkOpts.court,
		},
		CaptureDocument: checkOpts.captureDocument,
	}

	if cfg.Output.Verbose {
		_, _ = fmt.Fprintf(stderr, "Checking: %s\n", query)
		_, _ = fmt.Fprintf(stderr, "Date: %s\n", req.DateString())
		_, _ = fmt.Fprintf(stderr, "API: %v\n", checkOpts.useAPI)
		_, _ = fmt.Fprintln(stderr)
	}

	outcome, err := checker.Check(ctx, raw, req)
	if err != nil {
		if outcome == nil {
			return &ExitError{Code: ExitCode(err), Err: err}
		}
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("write result: %w", err)}
	}

	if cfg.Output.Verbose {
		_, _ = fmt.Fprintf(stderr, "✓ Wrote JSON: %s\n", results.Path())
		if outcome.DocumentPath != "" {
			_, _ = fmt.Fprintf(stderr, "✓ Saved cause list: %s\n", outcome.DocumentPath)
		}
		_, _ = fmt.Fprintln(stderr)
	}
	sink.RenderSummary(cmd.OutOrStdout(), outcome)

	if cfg.History.Enabled {
		recordHistory(context.WithoutCancel(ctx), cfg.History.Path, outcome)
	}

	if !outcome.Found {
		return &ExitError{Code: ExitNotFound, Silent: true}
	}
	return nil
}

// newChecker wires providers for the configuration
func newChecker(cfg *model.Config, opts checkFlags, in io.Reader, out io.Writer, results *sink.JSONFile) *pipeline.Checker {
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	registry := adapters.NewRegistry()

	var (
		surface      render.Surface
		renderedOpts []acquire.RenderedOption
	)
	if cfg.Rendered.Headless {
		fetchOpts := []fetch.Option{fetch.WithLimiter(limiter)}
		if cfg.HTTP.RespectRobots {
			fetchOpts = append(fetchOpts, fetch.WithRobots(fetch.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)))
		}
		surface = render.NewFetchSurface(fetch.NewFetcher(cfg.HTTP, fetchOpts...), registry)
		renderedOpts = append(renderedOpts, acquire.Unattended())
	} else {
		operator := render.NewPromptSignal(in, out, "Press Enter once the page is saved (Ctrl+C to give up): ")
		surface = render.NewCaptureSurface(cfg.Rendered.CaptureDir, out, operator, registry)
	}
	rendered := acquire.NewRenderedProvider(surface, cfg.Rendered.URL, renderedOpts...)

	checkerOpts := []pipeline.Option{pipeline.WithDocumentStore(results)}
	if opts.useAPI {
		structuredOpts := []acquire.StructuredOption{
			acquire.WithLimiter(limiter),
			acquire.WithUserAgent(cfg.HTTP.UserAgent),
		}
		if cfg.Cache.Enabled && !opts.noCache {
			structuredOpts = append(structuredOpts, acquire.WithCache(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)))
		}
		structured := acquire.NewStructuredProvider(cfg.Structured, cfg.Structured.APIKey, structuredOpts...)
		checkerOpts = append(checkerOpts, pipeline.WithStructured(structured))
	}

	return pipeline.NewChecker(rendered, results, checkerOpts...)
}

// recordHistory stores the outcome; failures are logged only
func recordHistory(ctx context.Context, path string, outcome *model.CheckOutcome) {
	db, err := store.NewSQLite(path)
	if err != nil {
		zap.L().Warn("could not open history", zap.String("path", path), zap.Error(err))
		return
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(ctx); err != nil {
		zap.L().Warn("could not migrate history", zap.Error(err))
		return
	}
	if _, err := db.Record(ctx, outcome); err != nil {
		zap.L().Warn("could not record check", zap.Error(err))
	}
}

// dateChoice returns the date selector for ResolveDate
func (o checkFlags) dateChoice() string {
	switch {
	case o.date != "":
		return o.date
	case o.tomorrow:
		return "tomorrow"
	default:
		return "today"
	}
}
