// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeCount(t *testing.T) {
	root := NewNode(1, "Root")
	a := NewNode(2, "A")
	a.AddChild(NewNode(3, "A1"))
	root.AddChild(a)
	root.AddChild(NewNode(2, "B"))

	assert.Equal(t, 4, root.Count())
	assert.Equal(t, 1, NewNode(1, "leaf").Count())
	require.Len(t, root.Children, 2)
	assert.Equal(t, "A", root.Children[0].Text)
	assert.Equal(t, "B", root.Children[1].Text)
}

func TestDocumentNodeCount(t *testing.T) {
	tests := []struct {
		name   string
		roots  []*Node
		count  int
		single bool
	}{
		{"empty", nil, 0, false},
		{"one root", []*Node{NewNode(1, "A")}, 1, true},
		{"forest", []*Node{NewNode(1, "A"), NewNode(1, "B")}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Roots: tt.roots}
			assert.Equal(t, tt.count, doc.NodeCount())
			assert.Equal(t, tt.single, doc.SingleRoot())
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "*", cfg.Parser.LevelMarker)
	assert.Equal(t, "#+", cfg.Parser.MetaPrefix)
	assert.Equal(t, ".opml", cfg.Output.Extension)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.Equal(t, []string{".org", ".txt"}, cfg.Output.InputExtensions)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"tab indent", func(c *Config) { c.Output.Indent = "\t" }, ""},
		{"no indent", func(c *Config) { c.Output.Indent = "" }, ""},
		{"custom markers", func(c *Config) { c.Parser.LevelMarker = "-"; c.Parser.MetaPrefix = "%" }, ""},
		{"multi-rune marker", func(c *Config) { c.Parser.LevelMarker = "**" }, "single character"},
		{"empty marker", func(c *Config) { c.Parser.LevelMarker = "" }, "single character"},
		{"empty prefix", func(c *Config) { c.Parser.MetaPrefix = "" }, "cannot be empty"},
		{"prefix shadows marker", func(c *Config) { c.Parser.MetaPrefix = "*+" }, "cannot start with the level marker"},
		{"extension without dot", func(c *Config) { c.Output.Extension = "opml" }, "must start with a dot"},
		{"bare dot", func(c *Config) { c.Output.Extension = "." }, "must start with a dot"},
		{"visible indent", func(c *Config) { c.Output.Indent = "--" }, "only whitespace"},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }, "invalid log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
