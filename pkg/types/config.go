// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ParserConfig holds the markers recognized by the line classifier.
type ParserConfig struct {
	// LevelMarker is the character repeated at the start of a headline
	// to denote its depth (default "*").
	LevelMarker string `json:"level_marker" yaml:"level_marker"`

	// MetaPrefix starts a metadata line such as "#+TITLE: ..." (default "#+").
	MetaPrefix string `json:"meta_prefix" yaml:"meta_prefix"`
}

// OutputConfig controls where and how OPML files are written.
type OutputConfig struct {
	// Dir is the directory for OPML output. Empty writes next to the input.
	Dir string `json:"dir" yaml:"dir"`

	// Extension replaces the input extension (default ".opml").
	Extension string `json:"extension" yaml:"extension"`

	// Indent is the per-level indentation string (default two spaces).
	Indent string `json:"indent" yaml:"indent"`

	// InputExtensions lists the extensions collected when a directory is
	// given to the batch converter (default .org and .txt).
	InputExtensions []string `json:"input_extensions" yaml:"input_extensions"`
}

// ManifestConfig locates the conversion manifest database.
type ManifestConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`

	// Incremental skips inputs whose content is unchanged since the last
	// recorded conversion.
	Incremental bool `json:"incremental" yaml:"incremental"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level"`
}

// Config groups all converter settings.
type Config struct {
	Parser   ParserConfig   `json:"parser" yaml:"parser"`
	Output   OutputConfig   `json:"output" yaml:"output"`
	Manifest ManifestConfig `json:"manifest" yaml:"manifest"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// DefaultParserConfig returns the Org-mode markers.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		LevelMarker: "*",
		MetaPrefix:  "#+",
	}
}

// DefaultConfig returns the configuration used when no config file or
// environment overrides are present. Manifest.Path is left empty; callers
// resolve it against the user's data directory.
func DefaultConfig() Config {
	return Config{
		Parser: DefaultParserConfig(),
		Output: OutputConfig{
			Extension:       ".opml",
			Indent:          "  ",
			InputExtensions: []string{".org", ".txt"},
		},
		Log: LogConfig{Level: "warn"},
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if len([]rune(c.Parser.LevelMarker)) != 1 {
		return fmt.Errorf("parser.level_marker must be a single character, got %q", c.Parser.LevelMarker)
	}
	if c.Parser.MetaPrefix == "" {
		return fmt.Errorf("parser.meta_prefix cannot be empty")
	}
	if strings.HasPrefix(c.Parser.MetaPrefix, c.Parser.LevelMarker) {
		return fmt.Errorf("parser.meta_prefix %q cannot start with the level marker %q",
			c.Parser.MetaPrefix, c.Parser.LevelMarker)
	}
	if !strings.HasPrefix(c.Output.Extension, ".") || len(c.Output.Extension) < 2 {
		return fmt.Errorf("output.extension must start with a dot, got %q", c.Output.Extension)
	}
	if strings.TrimSpace(c.Output.Indent) != "" {
		return fmt.Errorf("output.indent must contain only whitespace, got %q", c.Output.Indent)
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of: debug, info, warn, error", c.Log.Level)
	}
	return nil
}
