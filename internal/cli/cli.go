package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-csv/internal/browser"
	"github.com/pfrederiksen/event-csv/internal/config"
	"github.com/pfrederiksen/event-csv/internal/event"
	"github.com/pfrederiksen/event-csv/internal/logger"
	"github.com/pfrederiksen/event-csv/internal/metrics"
	"github.com/pfrederiksen/event-csv/internal/scraper"
	"github.com/pfrederiksen/event-csv/internal/server"
	"github.com/pfrederiksen/event-csv/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig        string
	flagFetchFormat   string
	flagConvertFormat string
	flagOutput        string
	flagMode          string
	flagHeadless      bool
	flagTimeout       time.Duration
	flagInput         string
	flagSort          string
	flagAddr          string
	flagVerbose       bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event-csv",
		Short: "Turn an event page into a calendar import file",
		Long: `A tool that loads an event page, extracts its title, dates, times,
location, description and brackets, and writes them as a calendar CSV row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newFetchCmd(), newConvertCmd(), newServeCmd())
	return cmd
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Scrape an event page and print the record",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}

	cmd.Flags().StringVar(&flagFetchFormat, "format", "text", "Output format: text, json, csv or ics")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&flagMode, "mode", "", "Renderer: chrome or static (overrides config)")
	cmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run Chrome headless (overrides config)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "How long to wait for the page to load (overrides config)")

	return cmd
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert saved record JSON into a calendar file",
		Args:  cobra.NoArgs,
		RunE:  runConvert,
	}

	cmd.Flags().StringVarP(&flagInput, "input", "i", "-", "Record JSON file, or - for stdin")
	cmd.Flags().StringVar(&flagConvertFormat, "format", "csv", "Output format: csv, ics, json or text")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort records by: date or title (default: input order)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form and JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")

	return cmd
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Browser.Mode = flagMode
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = flagHeadless
	}
	if flags.Changed("timeout") {
		cfg.Browser.ReadyTimeout = flagTimeout
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = flagAddr
	}
	if flagVerbose {
		cfg.Log.Level = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	log := logger.New(cfg.LogLevel(), w)
	logger.SetDefault(log)
	return log
}

func newScraper(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*scraper.Scraper, error) {
	renderer, err := browser.New(cfg.BrowserOptions())
	if err != nil {
		return nil, err
	}
	return scraper.New(renderer,
		scraper.WithTimeout(cfg.Browser.ReadyTimeout),
		scraper.WithLogger(log),
		scraper.WithMetrics(m),
	), nil
}

// runFetch scrapes one page and writes the record
func runFetch(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFetchFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	sc, err := newScraper(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, err := sc.Scrape(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetching event: %w", err)
	}

	return writeTo(cmd, []*event.Record{rec}, format)
}

// runConvert turns record JSON into an export
func runConvert(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagConvertFormat)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}

	var recs []*event.Record
	if flagInput == "-" {
		recs, err = storage.DecodeRecords(cmd.InOrStdin())
	} else {
		recs, err = storage.LoadRecords(flagInput)
	}
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	sortRecords(recs, order)

	return writeTo(cmd, recs, format)
}

// runServe runs the HTTP server until interrupted
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	store, err := storage.New(cfg.Server.SpoolDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	sc, err := newScraper(cfg, log, m)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server.Addr, server.Deps{
		Scraper:  sc,
		Storage:  store,
		Logger:   log,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.Fields{"addr": cfg.Server.Addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeTo(cmd *cobra.Command, recs []*event.Record, format OutputFormat) error {
	w := cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.OpenFile(flagOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		if err := WriteOutput(f, recs, format, flagVerbose); err != nil {
			f.Close()
			return fmt.Errorf("writing output: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output: %w", err)
		}
		return nil
	}

	if err := WriteOutput(w, recs, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
