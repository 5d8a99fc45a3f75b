// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/org2opml/internal/convert"
	"github.com/pdiddy/org2opml/internal/manifest"
	"github.com/pdiddy/org2opml/internal/styles"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file-or-dir>...",
		Short: "Convert several outline files or directories to OPML",
		Long: `Convert processes each file argument and walks each directory argument
for outline files (by default *.org and *.txt). Every conversion is recorded
in the manifest; with --incremental, files whose content and output are
unchanged since the last recorded conversion are skipped.

A failing file is reported and the batch continues.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runConvertBatch,
	}

	cmd.Flags().Bool("incremental", false, "skip files unchanged since their last recorded conversion")
	cmd.Flags().Bool("force", false, "convert every file even in incremental mode")
	cmd.Flags().String("manifest", "", "manifest database (default: $XDG_DATA_HOME/org2opml/manifest.db)")
	cmd.Flags().Bool("no-manifest", false, "do not read or write the manifest")
	return cmd
}

func (a *app) runConvertBatch(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	if force, _ := cmd.Flags().GetBool("force"); force {
		cfg.Manifest.Incremental = false
	}

	inputs, err := convert.CollectInputs(args, cfg.Output.InputExtensions)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render("No outline files found."))
		return nil
	}

	var m convert.Manifest
	if noManifest, _ := cmd.Flags().GetBool("no-manifest"); noManifest {
		if cfg.Manifest.Incremental {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningStyle.Render("--incremental has no effect with --no-manifest; converting every file"))
		}
	} else {
		store, err := manifest.Open(cfg.Manifest.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		m = store
	}

	conv, err := convert.New(cfg, m, a.log)
	if err != nil {
		return err
	}

	result := conv.ConvertBatch(cmd.Context(), inputs, cmd.OutOrStdout())
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
