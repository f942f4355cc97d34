package server

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath is where LoadConfig looks when no path is given.
const DefaultConfigPath = "config/worklog.toml"

// Config holds the tracker server settings, read from a TOML file.
type Config struct {
	Server struct {
		// Addr is the listen address, e.g. ":5000" or "127.0.0.1:5000".
		Addr string `toml:"addr"`

		// DataFile is the path to the tracker data file. Empty means
		// the default work_data.json in the working directory.
		DataFile string `toml:"data_file"`
	} `toml:"server"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
}

// LoadConfig reads a TOML config file. A missing file is not an error:
// the server runs fine on defaults, and most installs never create a
// config at all.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}
