package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"magicformulabr/pkg/mf/columns"
	"magicformulabr/pkg/mf/config"
	"magicformulabr/pkg/mf/rank"
	"magicformulabr/pkg/mf/render"
	"magicformulabr/pkg/mf/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debug       bool
		verbose     int
		method      int
		top         int
		forceUpdate bool
		configPath  string
		cacheFile   string
	)

	cmd := &cobra.Command{
		Use:   "magicformulabr",
		Short: "Rank B3 companies with the magic formula",
		Long: `Rank B3 companies with Joel Greenblatt's magic formula, using the
fundamentus result table as the data source.

Methods:
  1 - P/L and ROE
  2 - EV/EBIT and ROIC
  3 - EV/EBITDA and ROIC`,
		Example: `  magicformulabr -m 1
  magicformulabr -vv
  magicformulabr -m 3 --top 30 --force-update`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if method < 1 || method > 3 {
				return fmt.Errorf("invalid --method %d (valid: 1, 2, 3)", method)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(debug)
			defer func() { _ = logger.Sync() }()
			log := logger.Sugar()

			cfg, err := loadConfig(configPath, cacheFile)
			if err != nil {
				return err
			}
			log.Debugw("cmd line args",
				"debug", debug, "verbose", verbose, "method", method,
				"top", top, "force_update", forceUpdate)

			m := rank.Method(method)
			ey, roc, err := m.Fields()
			if err != nil {
				return err
			}

			handler := &source.Handler{
				Fetcher: source.NewFundamentusFetcher(cfg.URL, cfg.HTTPTimeout, log),
				Cache:   &source.FileCache{Path: cfg.CacheFile, TTL: cfg.CacheTTL, Log: log},
				Log:     log,
			}
			data, err := handler.GetData(cmd.Context(), forceUpdate)
			if err != nil {
				log.Errorw("failed to get company data", "error", err)
				return err
			}

			mf, err := rank.New(data, m, log)
			if err != nil {
				return err
			}
			ranked := mf.CalcRank()

			cols := columns.Display(ey, roc, verbose, ranked.Columns)
			return render.NewTableRenderer().Render(cmd.OutOrStdout(), ranked, render.Options{
				Columns: cols,
				Top:     top,
			})
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "debug logging")
	cmd.Flags().CountVarP(&verbose, "verbose", "v", "verbosity level, repeat for more columns")
	cmd.Flags().IntVarP(&method, "method", "m", 2, "fields used for the magic formula (1-3)")
	cmd.Flags().IntVarP(&top, "top", "t", 20, "number of companies to show")
	cmd.Flags().BoolVar(&forceUpdate, "force-update", false, "refresh the cache with recent data")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.Flags().StringVar(&cacheFile, "cache-file", "", "cache file path, overrides config")
	return cmd
}

// loadConfig layers defaults, the optional config file, MFBR_* environment
// variables, and the cache-file flag, in that order.
func loadConfig(path, cacheFileFlag string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	viper.SetEnvPrefix("MFBR")
	viper.AutomaticEnv()
	if v := viper.GetString("URL"); v != "" {
		cfg.URL = v
	}
	if v := viper.GetString("CACHE_FILE"); v != "" {
		cfg.CacheFile = v
	}
	if v := viper.GetDuration("CACHE_TTL"); v > 0 {
		cfg.CacheTTL = v
	}
	if cacheFileFlag != "" {
		cfg.CacheFile = cacheFileFlag
	}
	return cfg, nil
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		return zap.Must(zap.NewDevelopment())
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.Must(cfg.Build())
}
