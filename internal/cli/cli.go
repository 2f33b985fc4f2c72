package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pfrederiksen/coursecal/internal/api"
	"github.com/pfrederiksen/coursecal/internal/calendar"
	"github.com/pfrederiksen/coursecal/internal/config"
	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/explorer"
	"github.com/pfrederiksen/coursecal/internal/filter"
	"github.com/pfrederiksen/coursecal/internal/logger"
	"github.com/pfrederiksen/coursecal/internal/search"
	"github.com/pfrederiksen/coursecal/internal/storage"
	"github.com/pfrederiksen/coursecal/internal/tui"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitRejected = 2
)

var (
	flagConfig   string
	flagEndpoint string
	flagLogLevel string
	flagPretty   bool
	flagVerbose  bool

	flagSemester string
	flagYear     string
	flagSubject  string
	flagNumber   string
	flagFilter   string

	flagFormat string
	flagSort   string
	flagRaw    bool

	flagListen string

	flagOut       string
	flagTermStart string
	flagWeeks     int

	cfg *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursecal",
		Short: "Search course offerings and lay them out on a weekly calendar",
		Long: `A course search client for the Course Explorer.
Searches a term's courses by subject and number range, prints or exports the
meeting schedule, and serves the GraphQL backend the search talks to.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./coursecal.yaml or ~/.config/coursecal/coursecal.yaml)")
	cmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "GraphQL endpoint (overrides config)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "Human-readable logs instead of JSON")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	cmd.AddCommand(newSearchCmd(), newUICmd(), newServeCmd(), newCalendarCmd())

	return cmd
}

// loadConfig reads configuration and applies flag overrides before any command runs
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagEndpoint != "" {
		loaded.Endpoint = flagEndpoint
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagPretty {
		loaded.Log.Pretty = true
	}
	if flagVerbose && flagLogLevel == "" {
		loaded.Log.Level = "debug"
	}

	logger.Configure(loaded.Log.Level, loaded.Log.Pretty, os.Stderr)
	cfg = loaded
	return nil
}

// addCriteriaFlags binds the search form fields shared by several commands
func addCriteriaFlags(cmd *cobra.Command) {
	defaults := search.DefaultCriteria()
	cmd.Flags().StringVar(&flagSemester, "semester", defaults.Semester, "Semester: fall or spring")
	cmd.Flags().StringVar(&flagYear, "year", defaults.Year, "Year, 2 or 4 digits (e.g. 23 or 2023)")
	cmd.Flags().StringVar(&flagSubject, "subject", defaults.Subject, "Subject code (e.g. CS)")
	cmd.Flags().StringVar(&flagNumber, "number", defaults.Number, "Course number range: 1xx to 5xx")
	cmd.Flags().StringVar(&flagFilter, "filter", "", "Section filter, e.g. 'open,days=MWF' (terms: open, online, in-person, days=, label=)")
}

func criteriaFromFlags() search.Criteria {
	return search.Criteria{
		Semester: flagSemester,
		Year:     flagYear,
		Subject:  flagSubject,
		Number:   flagNumber,
	}
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search courses and print their sections",
		RunE:  runSearch,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByNumber), "Sort order: number (subject and number when present, else the backend's ascending number order) or label")
	cmd.Flags().BoolVar(&flagRaw, "raw", false, "Print the raw GraphQL response")

	return cmd
}

// runSearch is the search command logic
func runSearch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'yaml')", flagFormat)
	}

	order := SortOrder(strings.ToLower(flagSort))
	if order != SortByNumber && order != SortByLabel {
		return fmt.Errorf("invalid sort: %s (must be 'number' or 'label')", flagSort)
	}

	f, err := filter.Parse(flagFilter)
	if err != nil {
		return fmt.Errorf("parsing filter: %w", err)
	}

	criteria, err := search.Validate(criteriaFromFlags())
	if err != nil {
		return err
	}

	ctx, cancel := searchContext(cmd.Context(), cfg.Timeout)
	defer cancel()

	client := search.NewClient(cfg.Endpoint)
	logger.Debug("Searching", logger.Fields{"criteria": criteria.String(), "endpoint": client.Endpoint()})

	if flagRaw {
		var raw map[string]interface{}
		err := client.Submit(ctx, criteria, func(body map[string]interface{}) {
			raw = body
		})
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}
		if format == FormatText {
			format = FormatJSON
		}
		return WriteRaw(cmd.OutOrStdout(), raw, format)
	}

	courses, err := client.Search(ctx, criteria)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	courses = f.Apply(courses)
	if courses == nil {
		courses = []course.Course{}
	}
	sortCourses(courses, order)

	result := &OutputResult{
		SearchedAt:  time.Now().UTC(),
		Criteria:    criteria,
		Courses:     courses,
		CourseCount: len(courses),
	}
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive search screen",
		RunE:  runUI,
	}
	addCriteriaFlags(cmd)
	return cmd
}

func runUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the ui command needs an interactive terminal; use 'coursecal search' instead")
	}

	f, err := filter.Parse(flagFilter)
	if err != nil {
		return fmt.Errorf("parsing filter: %w", err)
	}

	// Keep log lines from drawing over the screen
	if !flagVerbose {
		logger.Configure("error", cfg.Log.Pretty, os.Stderr)
	}

	return tui.Run(search.NewClient(cfg.Endpoint), criteriaFromFlags(), f, cfg.Timeout)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL backend",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	listen := cfg.Listen
	if flagListen != "" {
		listen = flagListen
	}

	store, err := storage.Open(cfg.Cache.Backend, cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	cache := course.NewCache()
	cache.TTL = cfg.Cache.TTL

	client := explorer.New(
		explorer.WithBaseURL(cfg.ExplorerURL),
		explorer.WithStore(store),
		explorer.WithCache(cache),
		explorer.WithWorkers(cfg.Workers),
		explorer.WithMaxCacheBytes(cfg.Cache.MaxBytes),
	)

	server, err := api.New(listen, client)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cleanCache(ctx, cache, time.Hour)

	logger.Info("Starting backend", logger.Fields{
		"listen":   listen,
		"explorer": cfg.ExplorerURL,
		"cache":    cfg.Cache.Backend,
		"workers":  cfg.Workers,
	})
	return server.Run(ctx)
}

// cleanCache drops expired course lookups until ctx is done
func cleanCache(ctx context.Context, cache *course.Cache, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := cache.CleanExpired(); n > 0 {
				logger.Debug("Cleaned course cache", logger.Fields{"expired": n, "size": cache.Size()})
			}
		}
	}
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export a search as an iCalendar (.ics) file",
		RunE:  runCalendar,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().StringVar(&flagOut, "out", "-", "Output file, '-' for stdout")
	cmd.Flags().StringVar(&flagTermStart, "term-start", "", "First day of classes, YYYY-MM-DD (default: Aug 21 for fall, Jan 16 for spring)")
	cmd.Flags().IntVar(&flagWeeks, "weeks", calendar.DefaultWeeks, "Number of weeks classes repeat")

	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	f, err := filter.Parse(flagFilter)
	if err != nil {
		return fmt.Errorf("parsing filter: %w", err)
	}

	criteria, err := search.Validate(criteriaFromFlags())
	if err != nil {
		return err
	}

	termStart, err := resolveTermStart(criteria, flagTermStart)
	if err != nil {
		return err
	}

	ctx, cancel := searchContext(cmd.Context(), cfg.Timeout)
	defer cancel()

	courses, err := search.NewClient(cfg.Endpoint).Search(ctx, criteria)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}
	courses = f.Apply(courses)

	ics := calendar.GenerateICS(courses, termStart, flagWeeks)
	if ics == "" {
		return fmt.Errorf("no scheduled meetings for %s", criteria)
	}

	if flagOut == "-" || flagOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}

	if err := os.WriteFile(flagOut, []byte(ics), 0o644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	logger.Info("Wrote calendar", logger.Fields{"path": flagOut, "courses": len(courses)})
	return nil
}

func resolveTermStart(criteria search.Criteria, text string) (time.Time, error) {
	if text != "" {
		t, err := time.ParseInLocation("2006-01-02", text, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --term-start %q (want YYYY-MM-DD)", text)
		}
		return t, nil
	}

	year, err := strconv.Atoi(criteria.Year)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year %q", criteria.Year)
	}
	return calendar.TermStart(year, criteria.Semester)
}

// searchContext applies the configured deadline; zero means none.
func searchContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, search.ErrInvalidCriteria):
		return ExitRejected
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
