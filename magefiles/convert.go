//go:build mage

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// samplesDir holds example outlines and their expected OPML.
const samplesDir = "testdata/samples"

// Samples converts every sample outline and compares the result with the
// checked-in .opml file next to it.
func Samples() error {
	mg.Deps(Build)

	inputs, err := filepath.Glob(filepath.Join(samplesDir, "*.org"))
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no samples in %s", samplesDir)
	}

	var failed []string
	for _, in := range inputs {
		got, err := sh.Output(binPath, "--stdout", in)
		if err != nil {
			return fmt.Errorf("converting %s: %w", in, err)
		}
		golden := strings.TrimSuffix(in, filepath.Ext(in)) + ".opml"
		want, err := os.ReadFile(golden)
		if err != nil {
			return fmt.Errorf("reading %s: %w", golden, err)
		}
		// sh.Output trims the trailing newline.
		if !bytes.Equal(bytes.TrimSpace(want), []byte(got)) {
			out := strings.TrimSuffix(in, filepath.Ext(in)) + ".out.opml"
			if err := os.WriteFile(out, []byte(got+"\n"), 0o644); err != nil {
				return err
			}
			failed = append(failed, in)
			fmt.Printf("  FAIL %s (wrote %s)\n", in, out)
			continue
		}
		fmt.Printf("  ok   %s\n", in)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d sample(s) differ", len(failed))
	}
	fmt.Printf("%d samples match.\n", len(inputs))
	return nil
}

// Convert runs a batch conversion over the directory named by $ORG2OPML_SRC
// (default: the samples directory) without touching the user's manifest.
func Convert() error {
	mg.Deps(Build)
	src := os.Getenv("ORG2OPML_SRC")
	if src == "" {
		src = samplesDir
	}
	outDir := filepath.Join(binDir, "opml")
	return sh.RunV(binPath, "convert", "--no-manifest", "--out-dir", outDir, src)
}
