// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/org2opml/pkg/types"
)

const scenarioA = `#+TITLE: Demo
* Root
** Child1
** Child2
`

// cli runs the command line and captures its output.
func cli(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolatedConfig writes an empty config file so tests do not pick up a
// config from the working directory or the user's config home.
func isolatedConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "org2opml.yaml", "log:\n  level: error\n")
}

func TestRun_NoArgumentsPrintsUsage(t *testing.T) {
	code, stdout, stderr := cli(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "org2opml <input-file>")
	assert.Empty(t, stderr)
}

func TestRun_TooManyArguments(t *testing.T) {
	code, stdout, _ := cli(t, "a.org", "b.org")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stdout, "Usage:")
}

func TestRun_ConvertsSingleFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "demo.org", scenarioA)
	cfg := isolatedConfig(t, dir)

	code, stdout, stderr := cli(t, "--config", cfg, in)
	require.Equal(t, exitOK, code, stderr)

	outPath := filepath.Join(dir, "demo.opml")
	assert.Contains(t, stdout, "Exporting to OPML: "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<opml version="1.0">
  <head>
    <title>Demo</title>
    <ownername></ownername>
  </head>
  <body>
    <outline text="Root">
      <outline text="Child1"></outline>
      <outline text="Child2"></outline>
    </outline>
  </body>
</opml>
`, string(data))
}

func TestRun_SyntheticWrapper(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "forest.org", "* A\n* B\n")
	cfg := isolatedConfig(t, dir)

	code, _, stderr := cli(t, "--config", cfg, in)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(filepath.Join(dir, "forest.opml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "    <outline text=\"\">\n      <outline text=\"A\"></outline>\n      <outline text=\"B\"></outline>\n    </outline>")
}

func TestRun_MalformedOutlineWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.org", "* A\n*** C\n")
	cfg := isolatedConfig(t, dir)

	code, stdout, stderr := cli(t, "--config", cfg, in)
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "malformed outline")
	assert.Contains(t, stderr, "line 2")
	assert.NoFileExists(t, filepath.Join(dir, "bad.opml"))
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)

	code, _, stderr := cli(t, "--config", cfg, filepath.Join(dir, "missing.org"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "missing.org")
}

func TestRun_Stdout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "demo.org", scenarioA)
	cfg := isolatedConfig(t, dir)

	code, stdout, stderr := cli(t, "--config", cfg, "--stdout", in)
	require.Equal(t, exitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.NoFileExists(t, filepath.Join(dir, "demo.opml"))
}

func TestRun_OutDirAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "notes/demo.org", scenarioA)
	cfg := writeFile(t, dir, "custom.yaml", `output:
  extension: .xml
  indent: "    "
log:
  level: error
`)
	outDir := filepath.Join(dir, "out")

	code, stdout, stderr := cli(t, "--config", cfg, "--out-dir", outDir, in)
	require.Equal(t, exitOK, code, stderr)

	outPath := filepath.Join(outDir, "demo.xml")
	assert.Contains(t, stdout, outPath)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    <head>\n")
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "demo.org", scenarioA)

	code, _, stderr := cli(t, "--config", filepath.Join(dir, "absent.yaml"), in)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "reading config")

	cfg := writeFile(t, dir, "bad.yaml", "output:\n  extension: opml\n")
	code, _, stderr = cli(t, "--config", cfg, in)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestConvertCommand_IncrementalAndHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)
	db := filepath.Join(dir, "state", "manifest.db")
	writeFile(t, dir, "notes/a.org", "* A\n** A1\n")
	writeFile(t, dir, "notes/b.org", scenarioA)
	writeFile(t, dir, "notes/skip.md", "# not an outline")
	notes := filepath.Join(dir, "notes")

	code, stdout, stderr := cli(t, "--config", cfg, "convert", "--manifest", db, notes)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Batch summary: 2 converted, 0 skipped, 0 failed (total: 2)")
	assert.FileExists(t, filepath.Join(notes, "a.opml"))
	assert.FileExists(t, filepath.Join(notes, "b.opml"))

	code, stdout, stderr = cli(t, "--config", cfg, "convert", "--manifest", db, "--incremental", notes)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Batch summary: 0 converted, 2 skipped, 0 failed (total: 2)")

	code, stdout, stderr = cli(t, "--config", cfg, "convert", "--manifest", db, "--incremental", "--force", notes)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "2 converted")

	code, stdout, stderr = cli(t, "--config", cfg, "history", "--manifest", db, "--format", "json")
	require.Equal(t, exitOK, code, stderr)
	var records []types.ConversionRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	assert.Len(t, records, 4)

	code, stdout, stderr = cli(t, "--config", cfg, "history", "--manifest", db, "--limit", "1")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "1 conversions")
}

func TestConvertCommand_FailureExitCode(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)
	good := writeFile(t, dir, "good.org", "* ok\n")
	bad := writeFile(t, dir, "bad.org", "** orphan\n")

	code, stdout, stderr := cli(t, "--config", cfg, "convert", "--no-manifest", good, bad)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stdout, "failed:")
	assert.Contains(t, stderr, "1 file(s) failed conversion")
	assert.FileExists(t, filepath.Join(dir, "good.opml"))
}

func TestHistoryCommand_Empty(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)

	code, stdout, stderr := cli(t, "--config", cfg, "history", "--manifest", filepath.Join(dir, "m.db"))
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "No conversions recorded in "+filepath.Join(dir, "m.db"))
}

func TestTreeCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "demo.org", scenarioA)
	cfg := isolatedConfig(t, dir)

	code, stdout, stderr := cli(t, "--config", cfg, "tree", "--format", "json", in)
	require.Equal(t, exitOK, code, stderr)

	var doc types.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "Demo", doc.Metadata.Title)
	require.Len(t, doc.Roots, 1)
	assert.Len(t, doc.Roots[0].Children, 2)
	assert.NoFileExists(t, filepath.Join(dir, "demo.opml"))

	code, stdout, stderr = cli(t, "--config", cfg, "tree", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "text: Child1")

	code, _, stderr = cli(t, "--config", cfg, "tree", "--format", "toml", in)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unsupported format")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := cli(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "org2opml dev\n", stdout)
}

func TestConvertCommand_IncrementalWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)
	in := writeFile(t, dir, "a.org", "* A\n")

	code, stdout, stderr := cli(t, "--config", cfg, "convert", "--no-manifest", "--incremental", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "--incremental has no effect")
	assert.Contains(t, stdout, "1 converted")
}

func TestConvertCommand_NoInputs(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))

	code, stdout, stderr := cli(t, "--config", cfg, "convert", "--no-manifest", empty)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "No outline files found.")
}

func TestConvertCommand_SameStemCollision(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)
	notes := filepath.Join(dir, "notes")
	writeFile(t, notes, "plan.org", "* FromOrg\n")
	writeFile(t, notes, "plan.txt", "* FromTxt\n")

	code, stdout, stderr := cli(t, "--config", cfg, "convert", "--no-manifest", notes)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stdout, "collides with "+filepath.Join(notes, "plan.org"))
	assert.Contains(t, stdout, "Batch summary: 1 converted, 0 skipped, 1 failed (total: 2)")
	assert.Contains(t, stderr, "1 file(s) failed conversion")

	data, err := os.ReadFile(filepath.Join(notes, "plan.opml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FromOrg")
}

func TestConvertCommand_IndentChangeReconverts(t *testing.T) {
	dir := t.TempDir()
	cfg := isolatedConfig(t, dir)
	tabs := writeFile(t, dir, "tabs.yaml", "output:\n  indent: \"\\t\"\nlog:\n  level: error\n")
	db := filepath.Join(dir, "manifest.db")
	in := writeFile(t, dir, "src/a.org", "* A\n")

	code, _, stderr := cli(t, "--config", cfg, "convert", "--manifest", db, in)
	require.Equal(t, exitOK, code, stderr)

	code, stdout, stderr := cli(t, "--config", cfg, "convert", "--manifest", db, "--incremental", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "1 skipped")

	code, stdout, stderr = cli(t, "--config", tabs, "convert", "--manifest", db, "--incremental", in)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "1 converted")
	data, err := os.ReadFile(filepath.Join(dir, "src", "a.opml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n\t<head>\n")
}
