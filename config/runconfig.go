package config

import (
	"fmt"

	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/resource"
	"github.com/kbukum/flowkit/validation"
)

// RunConfig is the top-level configuration for pipeline runs.
type RunConfig struct {
	// Name identifies the embedding application in logs.
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	// Environment selects defaults; development enables debug.
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	// Debug enables verbose logging regardless of the configured level.
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
	// Logging configures the structured logger.
	Logging logger.Config `json:"logging" yaml:"logging" mapstructure:"logging"`
	// Budget supplies the run-level resource ceilings.
	Budget resource.Budget `json:"budget" yaml:"budget" mapstructure:"budget"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *RunConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Budget.MaxParallel == 0 && c.Budget.MemoryLimitMB == 0 {
		c.Budget = resource.DefaultBudget()
	}
	c.Budget.ApplyDefaults()
}

// Validate checks the configuration after defaults are applied.
func (c *RunConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
