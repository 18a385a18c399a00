package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/topprix/listing-service/config"
	"github.com/topprix/listing-service/internal/aggregate"
	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/stores"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "listing-service",
	Short: "Listing Service CLI - Deal listing aggregation tool",
	Long: `A CLI tool for querying, classifying, and watching deal listings
(coupons, flyers, anti-waste items) aggregated from the catalog backend.
Pages are merged across a retailer's stores and every listing is stamped
with its lifecycle status relative to the current time.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	// Initialize logger (use console format for CLI)
	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// newBackendClient builds the catalog client from config and environment.
func newBackendClient() (*backend.Client, error) {
	backendURL := config.GetBackendURL()
	if backendURL == "" {
		return nil, fmt.Errorf("CATALOG_BACKEND_URL not set")
	}

	clientCfg := backend.DefaultConfig(backendURL)
	if cfg != nil {
		if cfg.Backend.APIKey != "" {
			clientCfg.APIKey = cfg.Backend.APIKey
		}
		if cfg.Backend.Timeout > 0 {
			clientCfg.Timeout = cfg.Backend.Timeout
		}
		if cfg.Backend.MaxRetries > 0 {
			clientCfg.MaxRetries = cfg.Backend.MaxRetries
		}
		if cfg.Backend.InitialBackoffMs > 0 {
			clientCfg.InitialBackoff = time.Duration(cfg.Backend.InitialBackoffMs) * time.Millisecond
		}
		if cfg.Backend.RequestsPerSecond > 0 {
			clientCfg.RequestsPerSecond = cfg.Backend.RequestsPerSecond
		}
	}
	return backend.NewClient(clientCfg, logger), nil
}

// newAggregator builds an aggregator over a fresh backend client.
func newAggregator() (*aggregate.Aggregator, *backend.Client, error) {
	client, err := newBackendClient()
	if err != nil {
		return nil, nil, err
	}

	aggCfg := aggregate.DefaultConfig()
	if cfg != nil {
		if cfg.Aggregator.UnpaginatedLimit > 0 {
			aggCfg.UnpaginatedLimit = cfg.Aggregator.UnpaginatedLimit
		}
		if cfg.Aggregator.MaxConcurrency > 0 {
			aggCfg.MaxConcurrency = cfg.Aggregator.MaxConcurrency
		}
	}
	return aggregate.New(client, aggCfg, logger), client, nil
}

// newDirectory builds the owner-to-stores directory over a client.
func newDirectory(client *backend.Client) *stores.Directory {
	dirCfg := stores.DefaultConfig()
	if cfg != nil {
		if cfg.StoreCache.Size > 0 {
			dirCfg.CacheSize = cfg.StoreCache.Size
		}
		if cfg.StoreCache.TTL > 0 {
			dirCfg.CacheTTL = cfg.StoreCache.TTL
		}
	}
	return stores.NewDirectory(client, dirCfg, logger)
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
