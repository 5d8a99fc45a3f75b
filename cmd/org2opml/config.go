// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/org2opml/internal/manifest"
	"github.com/pdiddy/org2opml/pkg/types"
)

const appName = "org2opml"

// flagKeys maps command-line flags onto config keys. Flags only override
// the config file and environment when set explicitly.
var flagKeys = map[string]string{
	"out-dir":     "output.dir",
	"log-level":   "log.level",
	"manifest":    "manifest.path",
	"incremental": "manifest.incremental",
}

// loadConfig resolves the configuration for cmd from defaults, the config
// file, ORG2OPML_* environment variables, and flags, in increasing order of
// precedence. It returns the config file used, or "" when none was found.
func loadConfig(cmd *cobra.Command) (types.Config, string, error) {
	v := viper.New()

	def := types.DefaultConfig()
	v.SetDefault("parser.level_marker", def.Parser.LevelMarker)
	v.SetDefault("parser.meta_prefix", def.Parser.MetaPrefix)
	v.SetDefault("output.dir", def.Output.Dir)
	v.SetDefault("output.extension", def.Output.Extension)
	v.SetDefault("output.indent", def.Output.Indent)
	v.SetDefault("output.input_extensions", def.Output.InputExtensions)
	v.SetDefault("manifest.path", "")
	v.SetDefault("manifest.incremental", false)
	v.SetDefault("log.level", def.Log.Level)

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	v.SetEnvPrefix("ORG2OPML")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return types.Config{}, "", fmt.Errorf("binding flag --%s: %w", flag, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return types.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := types.Config{
		Parser: types.ParserConfig{
			LevelMarker: v.GetString("parser.level_marker"),
			MetaPrefix:  v.GetString("parser.meta_prefix"),
		},
		Output: types.OutputConfig{
			Dir:             v.GetString("output.dir"),
			Extension:       v.GetString("output.extension"),
			Indent:          v.GetString("output.indent"),
			InputExtensions: v.GetStringSlice("output.input_extensions"),
		},
		Manifest: types.ManifestConfig{
			Path:        v.GetString("manifest.path"),
			Incremental: v.GetBool("manifest.incremental"),
		},
		Log: types.LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
		},
	}

	if cfg.Manifest.Path == "" {
		cfg.Manifest.Path = filepath.Join(xdg.DataHome, appName, manifest.DefaultFile)
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}
