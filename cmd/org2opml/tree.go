// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/org2opml/internal/convert"
)

func newTreeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <input-file>",
		Short: "Print the parsed outline without writing OPML",
		Long: `Tree parses an outline file and prints its metadata and headline tree as
YAML or JSON. Use it to check how a file will be nested before converting.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runTree,
	}
	cmd.Flags().String("format", "yaml", "output format: yaml or json")
	return cmd
}

func (a *app) runTree(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	conv, err := convert.New(a.cfg, nil, a.log)
	if err != nil {
		return err
	}
	doc, err := conv.ParseFile(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
