package importer

import (
	"fmt"
	"strings"
)

// Config configures how export files are located and scheduled.
type Config struct {
	// Concurrency is the number of files decoded at once. 0 selects the default of 4.
	Concurrency int `yaml:"concurrency" default:"4"`
	// Extensions limits directory imports to these file extensions (e.g. ".rlp").
	// Empty imports every regular file.
	Extensions []string `yaml:"extensions"`
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	return nil
}

// SetDefaults sets default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}
