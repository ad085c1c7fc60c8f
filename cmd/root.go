package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/receipt-importer/pkg/config"
	"github.com/ethpandaops/receipt-importer/pkg/observability"
)

const defaultConfigFile = "config.yaml"

var (
	log        = logrus.New()
	configFile string
	logLevel   string
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "receipt-importer",
	Short:        "Decodes op-erigon receipt exports.",
	Long:         `Decodes op-erigon receipt exports and inspects related chain data.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides the configured logging level")
}

// initCommon loads .env and the config file and applies the logging level.
func initCommon() error {
	if err := loadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loaded, err := loadConfigFromFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		loaded.LoggingLevel = logLevel
	}

	level, err := logrus.ParseLevel(loaded.LoggingLevel)
	if err != nil {
		log.WithError(err).Warn("Invalid logging level, using info")

		level = logrus.InfoLevel
	}

	log.SetLevel(level)

	cfg = loaded

	return nil
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	return godotenv.Load(".env")
}

// loadConfigFromFile reads file over the defaults. Without an explicit file a
// missing ./config.yaml simply leaves the defaults in place.
func loadConfigFromFile(file string) (*config.Config, error) {
	explicit := file != ""
	if !explicit {
		file = defaultConfigFile
	}

	c := &config.Config{}

	if err := defaults.Set(c); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		yamlFile = nil
	}

	type plain config.Config

	if err := yaml.Unmarshal(yamlFile, (*plain)(c)); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// runWithMetrics runs fn, serving metrics alongside it when configured.
func runWithMetrics(ctx context.Context, fn func(ctx context.Context) error) error {
	if cfg.MetricsAddr == nil {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return observability.StartMetricsServer(ctx, log, *cfg.MetricsAddr)
	})

	g.Go(func() error {
		defer cancel()

		return fn(ctx)
	})

	return g.Wait()
}
