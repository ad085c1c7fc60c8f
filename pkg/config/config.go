// Package config provides configuration types for receipt-importer.
package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/receipt-importer/pkg/importer"
	"github.com/ethpandaops/receipt-importer/pkg/receipt"
)

// Config is the main configuration for receipt-importer.
type Config struct {
	// LoggingLevel is the logging level to use.
	LoggingLevel string `yaml:"logging" default:"info"`
	// MetricsAddr is the address to serve prometheus metrics on while a command runs.
	MetricsAddr *string `yaml:"metricsAddr"`
	// Receipts is the receipt decoder configuration.
	Receipts receipt.Config `yaml:"receipts"`
	// Importer is the file import configuration.
	Importer importer.Config `yaml:"importer"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LoggingLevel); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}

	if c.MetricsAddr != nil && *c.MetricsAddr == "" {
		return fmt.Errorf("metricsAddr must not be empty when set")
	}

	if err := c.Receipts.Validate(); err != nil {
		return fmt.Errorf("invalid receipts configuration: %w", err)
	}

	if err := c.Importer.Validate(); err != nil {
		return fmt.Errorf("invalid importer configuration: %w", err)
	}

	return nil
}
