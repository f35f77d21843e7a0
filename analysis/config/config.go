package config

import (
	"fmt"
	"os"

	"github.com/cs-au-dk/ibex/utils"

	"gopkg.in/yaml.v3"
)

// Order selects the policy of the driver's pending queue.
type Order string

const (
	// OrderPriority processes locations by upfront-computed priorities
	// (callees before callers, loop bodies in dominator preorder).
	OrderPriority Order = "priority"
	// OrderFIFO processes locations in insertion order.
	OrderFIFO Order = "fifo"
)

// Config collects the options of an analysis run.
type Config struct {
	// MaxSteps bounds the number of driver iterations. 0 disables the bound.
	MaxSteps int `yaml:"max-steps"`
	// Order selects the pending-queue policy.
	Order Order `yaml:"order"`
	// WideningDelay is the number of joins recorded at a location before
	// widening kicks in for unbounded-height domains. 0 disables widening.
	WideningDelay int `yaml:"widening-delay"`
	// Verbosity levels: 0 quiet, 1 progress logging, 2 per-step logging.
	Verbosity int `yaml:"verbosity"`
	// Color enables ANSI colors in rendered states and locations.
	Color bool `yaml:"color"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		MaxSteps:      0,
		Order:         OrderPriority,
		WideningDelay: 0,
		Verbosity:     0,
		Color:         false,
	}
}

// Load reads a YAML configuration file. Missing fields keep their
// Default values.
func Load(filename string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values that cannot be checked by unmarshalling.
func (c *Config) Validate() error {
	switch c.Order {
	case OrderPriority, OrderFIFO:
	default:
		return fmt.Errorf("unknown worklist order %q", c.Order)
	}

	if c.MaxSteps < 0 {
		return fmt.Errorf("max-steps must be non-negative, got %d", c.MaxSteps)
	}
	if c.WideningDelay < 0 {
		return fmt.Errorf("widening-delay must be non-negative, got %d", c.WideningDelay)
	}

	return nil
}

// Apply installs the process-wide toggles derived from the configuration.
func (c *Config) Apply() {
	utils.SetColorize(c.Color)
	utils.SetVerbose(c.Verbosity >= 1)
	utils.SetLogSteps(c.Verbosity >= 2)
}
