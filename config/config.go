// Package config handles chip8.toml emulator configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents a chip8.toml configuration.
type Config struct {
	Origin  uint16            `toml:"origin"`  // Instruction pointer after reset.
	Limit   int               `toml:"limit"`   // Tick budget, 0 for unlimited.
	Verbose bool              `toml:"verbose"` // Verbose logging.
	Defines map[string]string `toml:"defines"` // Assembler predefines.
}

// Load parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return Parse(string(data))
}

// Parse parses configuration text.
func Parse(text string) (*Config, error) {
	var c Config
	if _, err := toml.Decode(text, &c); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if c.Defines == nil {
		c.Defines = map[string]string{}
	}

	return &c, nil
}
