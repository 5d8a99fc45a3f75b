// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the org2opml CLI. Invoked with a
// single outline file it writes the OPML file next to it. Subcommands run
// batch conversions and inspect parsed trees or the conversion history.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/org2opml/internal/convert"
	"github.com/pdiddy/org2opml/internal/logger"
	"github.com/pdiddy/org2opml/internal/styles"
	"github.com/pdiddy/org2opml/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks a command line that cannot be run. main prints the usage
// text and exits with exitUsage.
var errUsage = errors.New("usage error")

// app carries the configuration and logger loaded once per invocation.
type app struct {
	cfg types.Config
	log *logger.Logger
}

// newRootCmd builds the command tree. The root command converts a single
// file; configuration is loaded in PersistentPreRunE, which cobra runs
// after argument validation, so a usage error touches no files.
func newRootCmd() *cobra.Command {
	a := &app{log: logger.Discard()}

	root := &cobra.Command{
		Use:   "org2opml <input-file>",
		Short: "Convert Org-mode outlines to OPML for mind-mapping tools",
		Long: `org2opml reads the headlines of an Org-mode file ("*", "**", ...) and the
TITLE, AUTHOR and ROOT keywords, and writes an OPML outline with the same
base name and a .opml extension.

When the file has a single top-level headline, that headline becomes the
OPML root. Otherwise the top-level headlines are wrapped in an outline
labelled with the ROOT keyword.`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				return errUsage
			case 1:
				return nil
			default:
				return fmt.Errorf("%w: expected one input file, got %d", errUsage, len(args))
			}
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, used, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			log.ConfigLoaded(used)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvertSingle(cmd, args[0])
		},
	}

	root.PersistentFlags().String("config", "", "config file (default: ./org2opml.yaml or $XDG_CONFIG_HOME/org2opml/org2opml.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	root.PersistentFlags().String("out-dir", "", "directory for OPML output (default: next to the input)")
	root.Flags().Bool("stdout", false, "write the OPML document to stdout instead of a file")

	root.AddCommand(
		newConvertCmd(a),
		newTreeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) runConvertSingle(cmd *cobra.Command, input string) error {
	conv, err := convert.New(a.cfg, nil, a.log)
	if err != nil {
		return err
	}

	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toStdout {
		src, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}
		out, _, err := conv.Render(src)
		if err != nil {
			return fmt.Errorf("converting %s: %w", input, err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	res, err := conv.ConvertFile(cmd.Context(), input)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("Exporting to OPML: "+res.Output))
	return nil
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprint(stdout, root.UsageString())
		return exitUsage
	default:
		fmt.Fprintln(stderr, styles.ErrorStyle.Render("Error: "+err.Error()))
		return exitError
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
