package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tourcatalog/internal/adapters/feed"
	"tourcatalog/internal/adapters/observability"
	"tourcatalog/internal/app"
	"tourcatalog/internal/shared"
)

var (
	configPath string
	sourceFlag string
	feedFlag   string
	verbose    bool
	cfg        shared.Config
)

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Load a tours feed and print its calendar, grid and availability views",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = observability.NewCLILogger(verbose)

		var err error
		cfg, err = shared.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("source") {
			cfg.FeedSource = sourceFlag
		}
		if cmd.Flags().Changed("feed") {
			switch cfg.FeedSource {
			case "http":
				cfg.FeedURL = feedFlag
			case "mysql":
				cfg.MySQLDSN = feedFlag
			default:
				cfg.FeedPath = feedFlag
			}
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "file", "Feed source: http, file or mysql")
	rootCmd.PersistentFlags().StringVar(&feedFlag, "feed", "", "Feed location: URL, file path or MySQL DSN, per --source")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

func Execute() error {
	return rootCmd.Execute()
}

// newService loads the feed once. The caller must call the returned closer.
func newService(ctx context.Context) (*app.CatalogService, func() error, error) {
	src, closeFn, err := feed.FromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	svc := app.NewCatalogService(src, nil, cfg.CacheTTL(),
		app.WithLocation(loc), app.WithLoadTimeout(2*cfg.FeedTimeout()))
	if _, err := svc.Load(ctx); err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
