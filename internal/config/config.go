// Package config loads server-level settings from perflens.yml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings loaded from perflens.yml, with defaults applied for
// anything the file leaves out.
type Config struct {
	ListenAddr          string   `yaml:"listenAddr,omitempty"`
	ProbeTimeoutSeconds int      `yaml:"probeTimeoutSeconds,omitempty"`
	ExpositionLanguages []string `yaml:"expositionLanguages,omitempty"`
	LoadWorkerCommand   []string `yaml:"loadWorkerCommand,omitempty"`
}

// Load attempts to read perflens.yml or perflens.yaml from dir. If no config
// file exists the defaults are returned, not an error.
func Load(dir string) (*Config, error) {
	cfg := &Config{}
	for _, name := range []string{"perflens.yml", "perflens.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		break
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ProbeTimeout returns the per-request probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":9449"
	}
	if c.ProbeTimeoutSeconds == 0 {
		c.ProbeTimeoutSeconds = 30
	}
	if len(c.ExpositionLanguages) == 0 {
		// Rollout state: the shared dashboard only interprets the standard
		// exposition format for Java today.
		c.ExpositionLanguages = []string{"java"}
	}
	if len(c.LoadWorkerCommand) == 0 {
		c.LoadWorkerCommand = []string{"loadworker"}
	}
}
