// Package config loads chart settings and the name dictionary from JSON
package config

import (
	"encoding/json"
	"fmt"

	"msc/dictionary"
)

// Display kinds
const (
	DisplayTerm     = "term"     // ASCII lifelines for live capture
	DisplayWeb      = "web"      // websequencediagrams.com text
	DisplayMscgen   = "mscgen"   // mscgen text
	DisplayPlantUML = "plantuml" // PlantUML sequence text
)

// Config holds chart settings
type Config struct {
	Display      string             `json:"display"`
	LinesPerPage int                `json:"lines_per_page"`
	TileWidth    int                `json:"tile_width"`
	MaxNameLen   int                `json:"max_name_len"`
	Prefix       string             `json:"prefix"`
	ShowCreate   bool               `json:"show_create"`
	Modules      []dictionary.Entry `json:"modules"`
	Messages     []dictionary.Entry `json:"messages"`
}

// LoadConfig parses a JSON configuration document and returns a Config
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *Config) {
	if config.Display == "" {
		config.Display = DisplayTerm
	}
	if config.LinesPerPage == 0 {
		config.LinesPerPage = 10
	}
	if config.TileWidth == 0 {
		config.TileWidth = 6
	}
	if config.MaxNameLen == 0 {
		config.MaxNameLen = dictionary.DefaultMaxNameLen
	}
}

// Validate rejects unknown display kinds, out-of-range sizes and ids
func (c *Config) Validate() error {
	switch c.Display {
	case DisplayTerm, DisplayWeb, DisplayMscgen, DisplayPlantUML:
	default:
		return fmt.Errorf("unknown display %q", c.Display)
	}
	if c.LinesPerPage < 1 {
		return fmt.Errorf("lines_per_page must be positive, got %d", c.LinesPerPage)
	}
	// The arrow head tiles need at least one character of shaft
	if c.TileWidth < 2 {
		return fmt.Errorf("tile_width must be at least 2, got %d", c.TileWidth)
	}
	if c.MaxNameLen < 1 {
		return fmt.Errorf("max_name_len must be positive, got %d", c.MaxNameLen)
	}
	for _, m := range c.Modules {
		if m.ID > 0xFF {
			return fmt.Errorf("module %q: id %d exceeds 8 bits", m.Name, m.ID)
		}
	}
	return nil
}

// Dictionary builds a name dictionary from the configured modules and messages
func (c *Config) Dictionary() *dictionary.Dictionary {
	dict := dictionary.New(c.MaxNameLen)
	for _, m := range c.Modules {
		dict.AddModule(uint8(m.ID), m.Name)
	}
	for _, m := range c.Messages {
		dict.AddMessage(m.ID, m.Name)
	}
	return dict
}

// DefaultConfig returns the default terminal configuration with no names registered
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}
