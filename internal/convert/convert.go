// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs outline files through the parser and the OPML
// writer. It handles single files, batches, and incremental skips backed
// by a conversion manifest.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/org2opml/internal/logger"
	"github.com/pdiddy/org2opml/internal/opml"
	"github.com/pdiddy/org2opml/internal/orgparse"
	"github.com/pdiddy/org2opml/pkg/types"
)

// Manifest records completed conversions and answers whether an input has
// changed since. The manifest package's Store implements it.
type Manifest interface {
	// Unchanged reports whether the latest record for key.InputPath has the
	// same input digest, settings digest and output path as key.
	Unchanged(ctx context.Context, key types.ConversionRecord) (bool, error)

	// Record stores a completed conversion.
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// Result describes one successful conversion.
type Result struct {
	Input    string
	Output   string
	SHA256   string
	Document *types.Document
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Converter converts outline files to OPML using one configuration.
type Converter struct {
	parser   *orgparse.Parser
	cfg      types.Config
	settings string
	manifest Manifest
	log      *logger.Logger
}

// New builds a converter. A nil manifest disables recording and
// incremental skips; a nil log discards diagnostics.
func New(cfg types.Config, m Manifest, log *logger.Logger) (*Converter, error) {
	if log == nil {
		log = logger.Discard()
	}
	p, err := orgparse.NewParser(cfg.Parser, log)
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	return &Converter{
		parser:   p,
		cfg:      cfg,
		settings: SettingsDigest(cfg),
		manifest: m,
		log:      log,
	}, nil
}

// SettingsDigest fingerprints the settings that change the bytes of an OPML
// file for a given input. Output location is not included; the manifest
// tracks the output path separately.
func SettingsDigest(cfg types.Config) string {
	key := fmt.Sprintf("opml=%s\nmarker=%q\nprefix=%q\nindent=%q\n",
		opml.Version, cfg.Parser.LevelMarker, cfg.Parser.MetaPrefix, cfg.Output.Indent)
	return digest([]byte(key))
}

// OutputPath returns the OPML path for input: the same base name with its
// extension replaced by ext, in outDir or next to the input when outDir is
// empty.
func OutputPath(input, outDir, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + ext
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}

// OutputPath returns the OPML path for input under the converter's
// output settings.
func (c *Converter) OutputPath(input string) string {
	return OutputPath(input, c.cfg.Output.Dir, c.cfg.Output.Extension)
}

// Render parses outline source and returns the OPML bytes with the parsed
// document.
func (c *Converter) Render(src []byte) ([]byte, *types.Document, error) {
	doc, err := c.parser.ParseBytes(src)
	if err != nil {
		return nil, nil, err
	}
	out, err := opml.Marshal(doc, opml.Options{Indent: c.cfg.Output.Indent})
	if err != nil {
		return nil, nil, err
	}
	return out, doc, nil
}

// ParseFile reads and parses input without writing anything.
func (c *Converter) ParseFile(input string) (*types.Document, error) {
	src, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", input, err)
	}
	doc, err := c.parser.ParseBytes(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", input, err)
	}
	c.log.OutlineParsed(input, len(doc.Roots), doc.NodeCount())
	return doc, nil
}

// ConvertFile converts input and writes the OPML file. Nothing is written
// when reading, parsing or serializing fails. A successful conversion is
// recorded in the manifest when one is configured; a manifest failure is
// logged and does not fail the conversion.
func (c *Converter) ConvertFile(ctx context.Context, input string) (Result, error) {
	start := time.Now()

	src, err := os.ReadFile(input)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", input, err)
	}

	out, doc, err := c.Render(src)
	if err != nil {
		return Result{}, fmt.Errorf("converting %s: %w", input, err)
	}
	c.log.OutlineParsed(input, len(doc.Roots), doc.NodeCount())

	dst := c.OutputPath(input)
	if err := writeFileAtomic(dst, out); err != nil {
		return Result{}, err
	}

	res := Result{
		Input:    input,
		Output:   dst,
		SHA256:   digest(src),
		Document: doc,
	}
	c.record(ctx, res)
	c.log.FileConverted(input, dst, doc.NodeCount(), time.Since(start))
	return res, nil
}

// ConvertOne converts a single input, printing a status line to w. When
// incremental mode is on and the manifest shows the input unchanged with
// its output still present, the file is skipped.
func (c *Converter) ConvertOne(ctx context.Context, input string, w io.Writer) types.ConversionStatus {
	if skip, reason := c.shouldSkip(ctx, input); skip {
		fmt.Fprintf(w, "skipped:   %s (%s)\n", input, reason)
		c.log.FileSkipped(input, reason)
		return types.ConversionSkipped
	}

	res, err := c.ConvertFile(ctx, input)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", input, err)
		c.log.ConversionFailed(input, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", input, res.Output)
	return types.ConversionDone
}

// ConvertBatch processes inputs in order, printing per-file status to w and
// returning a summary. A cancelled context stops the batch before the next
// file; remaining files are not counted. An input whose output path was
// already claimed by an earlier input in the batch fails without writing.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []string, w io.Writer) BatchResult {
	var result BatchResult
	claimed := make(map[string]string, len(inputs))
	for _, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		dst := absPath(c.OutputPath(in))
		if first, ok := claimed[dst]; ok {
			err := fmt.Errorf("output %s collides with %s", dst, first)
			fmt.Fprintf(w, "failed:    %s (%v)\n", in, err)
			c.log.ConversionFailed(in, err)
			result.Failed++
			continue
		}
		status := c.ConvertOne(ctx, in, w)
		if status != types.ConversionFailed {
			claimed[dst] = in
		}
		switch status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func (c *Converter) shouldSkip(ctx context.Context, input string) (bool, string) {
	if c.manifest == nil || !c.cfg.Manifest.Incremental {
		return false, ""
	}
	dst := c.OutputPath(input)
	if _, err := os.Stat(dst); err != nil {
		return false, ""
	}
	src, err := os.ReadFile(input)
	if err != nil {
		// Let ConvertFile report the read error.
		return false, ""
	}
	unchanged, err := c.manifest.Unchanged(ctx, types.ConversionRecord{
		InputPath:      absPath(input),
		OutputPath:     absPath(dst),
		InputSHA256:    digest(src),
		SettingsSHA256: c.settings,
	})
	if err != nil {
		c.log.ManifestError("lookup", err)
		return false, ""
	}
	if unchanged {
		return true, "unchanged"
	}
	return false, ""
}

func (c *Converter) record(ctx context.Context, res Result) {
	if c.manifest == nil {
		return
	}
	rec := types.ConversionRecord{
		InputPath:      absPath(res.Input),
		OutputPath:     absPath(res.Output),
		InputSHA256:    res.SHA256,
		SettingsSHA256: c.settings,
		Title:          res.Document.Metadata.Title,
		NodeCount:      res.Document.NodeCount(),
		ConvertedAt:    time.Now().UTC(),
	}
	if err := c.manifest.Record(ctx, rec); err != nil {
		c.log.ManifestError("record", err)
	}
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// writeFileAtomic writes data to a temporary file beside path and renames
// it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".org2opml-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
