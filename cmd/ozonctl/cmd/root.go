// Package cmd implements the ozonctl CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/ozon-seller-client/internal/config"
	"github.com/donaldgifford/ozon-seller-client/internal/metrics"
	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
	"github.com/donaldgifford/ozon-seller-client/pkg/logger"
)

// Flags that override config file values. Each is also read from the
// environment as OZON_<NAME>, e.g. OZON_API_KEY.
var boundFlags = []string{
	"client-id", "api-key", "base-url", "language",
	"category-id", "type-id", "output", "log-level", "pushgateway",
}

// app carries state shared by all commands of one root command.
type app struct {
	root    *cobra.Command
	v       *viper.Viper
	cfgFile string

	// cfg is set once a command has loaded its configuration.
	cfg *config.Config
}

// session is what a command needs to talk to the Seller API.
type session struct {
	cfg    *config.Config
	client *ozon.Client
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return newApp().root
}

// Execute runs the root command.
func Execute() {
	if err := newApp().execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newApp() *app {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ozonctl",
		Short: "CLI client for the Ozon Seller API",
		Long: "ozonctl is a command-line client for the Ozon Seller API.\n" +
			"It browses the description category tree, dumps category\n" +
			"attributes with their allowed values, and submits product\n" +
			"and picture imports.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	pf.String("client-id", "", "Seller API client id")
	pf.String("api-key", "", "Seller API key")
	pf.String("base-url", "", "Seller API base URL")
	pf.String("language", "", "response language (DEFAULT, RU, EN, TR, ZH_HANS)")
	pf.Int64("category-id", 0, "description category id")
	pf.Int64("type-id", 0, "product type id")
	pf.String("output", "table", "output format (table, json)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("pushgateway", "", "Prometheus Pushgateway URL to push metrics to when the command ends")

	for _, name := range boundFlags {
		cobra.CheckErr(a.v.BindPFlag(name, pf.Lookup(name)))
	}
	a.v.SetEnvPrefix("OZON")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		categoryCmd(a),
		productCmd(a),
		picturesCmd(a),
		versionCmd(),
	)

	a.root = root
	return a
}

// execute runs the command line and then, for commands that talked to the
// API, pushes metrics if a Pushgateway is configured. Metrics are pushed
// whether or not the command succeeded.
func (a *app) execute(ctx context.Context) error {
	err := a.root.ExecuteContext(ctx)

	if a.cfg == nil || a.cfg.Metrics.PushGateway == "" {
		return err
	}
	if perr := metrics.Push(ctx, a.cfg.Metrics.PushGateway, a.cfg.Metrics.Job); perr != nil {
		fmt.Fprintln(a.root.ErrOrStderr(), "Error:", perr)
		return errors.Join(err, perr)
	}
	return err
}

// loadConfig reads the config file, if any, and applies flag and environment
// overrides before validating.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if a.cfgFile != "" {
		c, err := config.Read(a.cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	if a.v.IsSet("client-id") {
		cfg.Ozon.ClientID = a.v.GetString("client-id")
	}
	if a.v.IsSet("api-key") {
		cfg.Ozon.APIKey = a.v.GetString("api-key")
	}
	if a.v.IsSet("base-url") {
		cfg.Ozon.BaseURL = a.v.GetString("base-url")
	}
	if a.v.IsSet("language") {
		cfg.Ozon.Language = a.v.GetString("language")
	}
	if a.v.IsSet("category-id") {
		cfg.Ozon.DescriptionCategoryID = a.v.GetInt64("category-id")
	}
	if a.v.IsSet("type-id") {
		cfg.Ozon.TypeID = a.v.GetInt64("type-id")
	}
	if a.v.IsSet("log-level") {
		cfg.Logging.Level = a.v.GetString("log-level")
	}
	if a.v.IsSet("pushgateway") {
		cfg.Metrics.PushGateway = a.v.GetString("pushgateway")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (a *app) session(cmd *cobra.Command) (*session, error) {
	if out := a.v.GetString("output"); out != "table" && out != "json" {
		return nil, fmt.Errorf("unknown output format %q (want table or json)", out)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	client, err := newClient(cfg, log)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, client: client}, nil
}

func newClient(cfg *config.Config, log *slog.Logger) (*ozon.Client, error) {
	limiter := ozon.NewRateLimiter(
		cfg.RateLimit.PerSecond,
		cfg.RateLimit.Burst,
		ozon.WithDailyLimit(cfg.RateLimit.DailyLimit),
	)

	exec, err := ozon.NewHTTPExecutor(
		cfg.Ozon.ClientID,
		cfg.Ozon.APIKey,
		ozon.WithBaseURL(cfg.Ozon.BaseURL),
		ozon.WithTimeout(cfg.Ozon.Timeout),
		ozon.WithRateLimiter(limiter),
		ozon.WithExecutorLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("creating executor: %w", err)
	}

	return ozon.NewClient(exec,
		ozon.WithLogger(log),
		ozon.WithRequestContext(cfg.Ozon.RequestContext()),
		ozon.WithValidation(!cfg.Ozon.SkipValidation),
	), nil
}

func (s *session) valuesOptions() []ozon.ValuesOption {
	return []ozon.ValuesOption{
		ozon.WithPageSize(s.cfg.Pagination.PageSize),
		ozon.WithMaxPages(s.cfg.Pagination.MaxPages),
		ozon.WithStallLimit(s.cfg.Pagination.StallLimit),
	}
}

func (a *app) jsonOutput() bool {
	return a.v.GetString("output") == "json"
}
