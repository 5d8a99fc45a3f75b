// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/org2opml/internal/manifest"
	"github.com/pdiddy/org2opml/internal/styles"
	"github.com/pdiddy/org2opml/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions, newest first",
		Long: `History reads the conversion manifest written by the convert command and
lists past conversions as a table, or exports them as YAML or JSON.`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}
	cmd.Flags().String("manifest", "", "manifest database (default: $XDG_DATA_HOME/org2opml/manifest.db)")
	cmd.Flags().Int("limit", 20, "maximum number of records")
	cmd.Flags().String("format", "table", "output format: table, yaml, or json")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	store, err := manifest.Open(a.cfg.Manifest.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if format != "table" {
		return store.Export(cmd.Context(), cmd.OutOrStdout(), format, limit)
	}

	records, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	formatHistory(cmd, store.Path(), records)
	return nil
}

func formatHistory(cmd *cobra.Command, source string, records []types.ConversionRecord) {
	w := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(w, styles.DimStyle.Render("No conversions recorded in "+source+"."))
		return
	}

	fmt.Fprintln(w, styles.HeaderStyle.Render(fmt.Sprintf("%-19s  %-40s  %-20s  %5s",
		"Converted", "Input", "Title", "Nodes")))
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range records {
		fmt.Fprintf(w, "%-19s  %-40s  %-20s  %5d\n",
			r.ConvertedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(r.InputPath, 40), truncate(r.Title, 20), r.NodeCount)
	}
	fmt.Fprintf(w, "\n%d conversions\n", len(records))
	fmt.Fprintln(w, styles.DimStyle.Render("manifest: "+source))
}

// truncate shortens s to n runes, keeping the tail of paths visible.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n+3:])
}
