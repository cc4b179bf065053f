// Package cli implements the hunter command line: marketplace sweeps,
// single-asset verification, and deep acquisition analysis without running
// the API server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/scanning"
	"github.com/turtacn/AssetHunter-Intelligence/internal/application/verification"
	"github.com/turtacn/AssetHunter-Intelligence/internal/config"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/search/serp"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
	NoColor    bool
}

// CLIContext carries the wired services through the command tree.
type CLIContext struct {
	Config   *config.Config
	Logger   logging.Logger
	Scan     *scanning.ScanService
	Verifier *verification.Orchestrator
	Analysis *hunterai.AnalysisService
	Output   string
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "hunter",
		Short:   "AssetHunter-Intelligence CLI - find neglected software assets worth acquiring",
		Long:    "AssetHunter-Intelligence scans software marketplaces for neglected but\nrevenue-generating assets, scores their distress signals, estimates revenue\nand valuation, and drafts the acquisition approach.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initContext(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "table", "output format (table, json)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newScanCmd(),
		newVerifyCmd(),
		newAnalyzeCmd(),
		newMarketplacesCmd(),
	)

	return cmd
}

// initContext loads config, builds the service graph, and stashes it on the
// command for subcommands to pick up.  Collaborators stay nil when their API
// keys are absent; each subcommand reports the degradation it cares about.
func initContext(cmd *cobra.Command, opts *RootOptions) error {
	if opts.NoColor {
		color.NoColor = true
	}
	if opts.Output != "table" && opts.Output != "json" {
		return fmt.Errorf("unsupported output format %q (want table or json)", opts.Output)
	}

	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	cfg.Log.Level = opts.LogLevel
	cfg.Log.Format = "console"

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	cliCtx, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	cliCtx.Output = opts.Output
	setCLIContext(cmd, cliCtx)
	return nil
}

// buildServices wires the scan pipeline from config.  The CLI always uses
// the backend the config names, so a long hunting session shares its search
// cache with the server.
func buildServices(cfg *config.Config, logger logging.Logger) (*CLIContext, error) {
	var store cache.Cache
	if cfg.Cache.Backend == "redis" {
		store = cache.NewRedisCache(cfg.Cache.Redis)
	} else {
		store = cache.NewMemoryCache()
	}

	var searcher serp.Searcher
	if cfg.Search.Configured() {
		client, err := serp.NewClient(cfg.Search, store, logger)
		if err != nil {
			return nil, err
		}
		searcher = client
	}

	var generator hunterai.TextGenerator
	if cfg.AI.Configured() {
		client, err := hunterai.NewGeminiClient(cfg.AI, logger)
		if err != nil {
			return nil, err
		}
		generator = client
	}

	verifier := verification.NewOrchestrator(generator, logger)
	scanSvc := scanning.NewScanService(searcher, verifier, nil, logger)
	scanSvc.SetWorkers(cfg.Scan.VerifyWorkers)

	return &CLIContext{
		Config:   cfg,
		Logger:   logger,
		Scan:     scanSvc,
		Verifier: verifier,
		Analysis: hunterai.NewAnalysisService(generator, store, logger),
	}, nil
}

type cliContextKey struct{}

func contextWith(parent context.Context, v *CLIContext) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, cliContextKey{}, v)
}

// setCLIContext attaches the services to the executing command: cobra runs
// PersistentPreRunE on the leaf command, so the leaf's context is the one its
// RunE will observe.
func setCLIContext(cmd *cobra.Command, ctx *CLIContext) {
	cmd.SetContext(contextWith(cmd.Context(), ctx))
}

// getCLIContext extracts the wired services from the command tree.
func getCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	if v, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext); ok && v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("CLI context is not initialized")
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSuccess(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(os.Stdout, format+"\n", args...)
}

func printWarning(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
}
