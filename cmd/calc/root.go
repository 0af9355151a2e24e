package main

import (
	"context"
	"io"

	"learnmint-calculator/internal/calculator"
	"learnmint-calculator/internal/config"
	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"
	"learnmint-calculator/internal/locale"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	store   string
	path    string
	locale  string
	mode    string
	key     string
	verbose bool
}

// session bundles what every subcommand needs: the ledger, its store and
// a calculator bound to both.
type session struct {
	store  history.Store
	ledger *history.Ledger
	calc   *calculator.Calculator
	loc    *locale.Localizer
	mode   expr.AngleMode
	logger *zap.Logger
}

func (s *session) Close() error {
	_ = s.logger.Sync()
	return s.store.Close()
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "calc",
		Short: "Scientific calculator with a persisted history of recent results",
		Long: `calc evaluates arithmetic with trigonometric, logarithmic and root functions.

The five most recent successful calculations are kept in a history store
shared with the calculator service, so results can be listed and reused
across runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.applyConfig(cmd)
		},
	}

	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.store, "store", defaults.History.Backend, "history backend: memory, file or sqlite")
	flags.StringVar(&opts.path, "path", "", "history directory (file) or database (sqlite); empty uses ~/.learnmint")
	flags.StringVar(&opts.locale, "locale", defaults.Locale, "language for error text and number display")
	flags.StringVar(&opts.mode, "mode", defaults.AngleMode, "angle mode: deg or rad")
	flags.StringVar(&opts.key, "history-key", history.DefaultKey, "store key of the history ledger")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newEvalCmd(opts),
		newKeysCmd(opts),
		newHistoryCmd(opts),
		newReplCmd(opts),
	)

	return rootCmd
}

// applyConfig fills every flag the user did not set from the service
// configuration, so CALC_* variables and .env apply to the CLI as well.
func (o *options) applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("store") {
		o.store = cfg.History.Backend
	}
	if !flags.Changed("path") {
		o.path = cfg.History.Path
	}
	if !flags.Changed("locale") {
		o.locale = cfg.Locale
	}
	if !flags.Changed("mode") {
		o.mode = cfg.AngleMode
	}
	return nil
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	mode, err := expr.ParseAngleMode(opts.mode)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return nil, err
	}

	store, err := history.OpenStore(opts.store, opts.path)
	if err != nil {
		return nil, err
	}

	ledger, err := history.Open(ctx, store, opts.key, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	loc := locale.New(opts.locale)

	return &session{
		store:  store,
		ledger: ledger,
		calc:   calculator.New(ledger, loc, logger, mode),
		loc:    loc,
		mode:   mode,
		logger: logger,
	}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
