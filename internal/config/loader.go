package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full runtime configuration. Values come from defaults, then
// the optional TOML file, then environment variables.
type Config struct {
	General   GeneralConfig
	Network   NetworkConfig   `toml:"network"`
	Routing   RoutingConfig   `toml:"routing"`
	Execution ExecutionConfig `toml:"execution"`
	Storage   StorageConfig   `toml:"storage"`
}

func Default() *Config {
	return &Config{
		General:   DefaultGeneralConfig(),
		Network:   NetworkConfig{Network: DefaultNetwork},
		Routing:   DefaultRoutingConfig(),
		Execution: DefaultExecutionConfig(),
		Storage:   DefaultStorageConfig(),
	}
}

// Sections lists every config section in load order.
func (c *Config) Sections() []Loadable {
	return []Loadable{&c.General, &c.Network, &c.Routing, &c.Execution, &c.Storage}
}

// Load builds the configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	// .env is optional; the environment may come from docker or systemd
	_ = godotenv.Load()

	cfg := Default()
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	for _, section := range cfg.Sections() {
		if err := section.Load(); err != nil {
			return nil, fmt.Errorf("%s: %w", section.Key(), err)
		}
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path. Keys missing from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(buf, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	for _, section := range c.Sections() {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("%s: %w", section.Key(), err)
		}
	}
	return nil
}
