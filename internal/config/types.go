// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"time"

	"github.com/arifsetyawan/switch-repo-experiment/internal/container"
)

type (
	// Config is the resolved application configuration.
	Config struct {
		// ContainerEngine selects the engine for container components:
		// "auto", "docker", or "podman".
		ContainerEngine string `json:"container_engine" mapstructure:"container_engine"`
		// GracePeriod is how long a terminated process gets to exit
		// before it is killed.
		GracePeriod time.Duration `json:"grace_period" mapstructure:"grace_period"`
		// UI holds output settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig holds output settings.
	UIConfig struct {
		// Color enables styled output.
		Color bool `json:"color" mapstructure:"color"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: string(container.EngineAuto),
		GracePeriod:     5 * time.Second,
		UI: UIConfig{
			Color:   true,
			Verbose: false,
		},
	}
}

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	if !container.EngineType(c.ContainerEngine).IsValid() {
		return fmt.Errorf("container_engine: unknown engine %q", c.ContainerEngine)
	}
	if c.GracePeriod <= 0 {
		return fmt.Errorf("grace_period: must be positive, got %s", c.GracePeriod)
	}
	return nil
}
