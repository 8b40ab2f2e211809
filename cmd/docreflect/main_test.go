package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docreflect/internal/config"
	"git.home.luguber.info/inful/docreflect/internal/eventstore"
	"git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/validation"
)

// snapshotWithBrokenLink carries one class whose comment holds an unresolved
// @link, plus a clean function. Exactly one warning is expected.
const snapshotWithBrokenLink = `{
  "schema_version": 1,
  "project": {
    "id": 0,
    "name": "widgets",
    "readme": [{"kind": "text", "text": "Widget library."}],
    "reflections": [
      {
        "id": 1, "kind": "class", "name": "Widget",
        "comment": {"summary": [
          {"kind": "text", "text": "A widget. See "},
          {"kind": "inline-tag", "tag": "@link", "text": "Missing"}
        ]},
        "sources": [{"file_name": "src/widget.ts", "line": 10}]
      },
      {
        "id": 2, "kind": "function", "name": "makeWidget",
        "comment": {"summary": [{"kind": "text", "text": "Builds a widget."}]}
      }
    ]
  }
}`

func packageSnapshot(pkg, class string) string {
	return fmt.Sprintf(`{
  "schema_version": 1,
  "project": {
    "id": 0,
    "name": %q,
    "reflections": [
      {"id": 1, "kind": "class", "name": %q,
       "comment": {"summary": [{"kind": "text", "text": "ok"}]}}
    ]
  }
}`, pkg, class)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// writeProjectConfig lays out a snapshot and a config file pointing at it.
// extra is appended verbatim to the config.
func writeProjectConfig(t *testing.T, dir, extra string) (configPath, siteDir string) {
	t.Helper()
	snapshotPath := filepath.Join(dir, "docs.json")
	writeFile(t, snapshotPath, snapshotWithBrokenLink)

	siteDir = filepath.Join(dir, "site")
	configPath = filepath.Join(dir, "docreflect.yaml")
	writeFile(t, configPath, fmt.Sprintf("title: Widget Docs\ninputs: [%q]\noutput:\n  directory: %q\n%s",
		snapshotPath, siteDir, extra))
	return configPath, siteDir
}

func TestRenderWritesSite(t *testing.T) {
	configPath, siteDir := writeProjectConfig(t, t.TempDir(), "")

	require.NoError(t, runRender(context.Background(), configPath, buildOptions{}))

	require.FileExists(t, filepath.Join(siteDir, "index.html"))
	require.FileExists(t, filepath.Join(siteDir, "classes", "widget.html"))
	require.FileExists(t, filepath.Join(siteDir, "functions", "makewidget.html"))

	data, err := os.ReadFile(filepath.Join(siteDir, "search.json"))
	require.NoError(t, err)
	var idx struct {
		Results []map[string]any    `json:"results"`
		Fields  []map[string]string `json:"fields"`
		Weights map[string]float64  `json:"weights"`
	}
	require.NoError(t, json.Unmarshal(data, &idx))
	require.Len(t, idx.Results, 2)
	require.Len(t, idx.Fields, 2)
	require.Equal(t, float64(10), idx.Weights["name"])
}

func TestRenderHonorsSearchWeights(t *testing.T) {
	configPath, siteDir := writeProjectConfig(t, t.TempDir(),
		"search:\n  weights:\n    name: 5\n    comment: 2\n    document: 3\n")

	require.NoError(t, runRender(context.Background(), configPath, buildOptions{}))

	data, err := os.ReadFile(filepath.Join(siteDir, "search.json"))
	require.NoError(t, err)
	var idx struct {
		Weights map[string]float64 `json:"weights"`
	}
	require.NoError(t, json.Unmarshal(data, &idx))
	require.Equal(t, map[string]float64{"name": 5, "comment": 2, "document": 3}, idx.Weights)
}

func TestRenderMergesMultipleInputs(t *testing.T) {
	dir := t.TempDir()
	alpha := filepath.Join(dir, "alpha.json")
	beta := filepath.Join(dir, "beta.json")
	writeFile(t, alpha, packageSnapshot("alpha", "Anchor"))
	writeFile(t, beta, packageSnapshot("beta", "Badge"))

	siteDir := filepath.Join(dir, "site")
	configPath := filepath.Join(dir, "docreflect.yaml")
	writeFile(t, configPath, fmt.Sprintf("output:\n  directory: %q\n", siteDir))

	err := runRender(context.Background(), configPath, buildOptions{Model: []string{alpha, beta}})
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(siteDir, "index.html"))
	require.FileExists(t, filepath.Join(siteDir, "modules", "alpha.html"))
	require.FileExists(t, filepath.Join(siteDir, "modules", "beta.html"))
	require.FileExists(t, filepath.Join(siteDir, "classes", "alpha.anchor.html"))
	require.FileExists(t, filepath.Join(siteDir, "classes", "beta.badge.html"))
}

func TestRenderCleansStaleOutput(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "docs.json")
	writeFile(t, snapshotPath, snapshotWithBrokenLink)

	siteDir := filepath.Join(dir, "site")
	writeFile(t, filepath.Join(siteDir, "stale.html"), "old")
	writeFile(t, filepath.Join(siteDir, "classes", "removed.html"), "old")

	configPath := filepath.Join(dir, "docreflect.yaml")
	writeFile(t, configPath, fmt.Sprintf("inputs: [%q]\noutput:\n  directory: %q\n  clean: true\n",
		snapshotPath, siteDir))

	require.NoError(t, runRender(context.Background(), configPath, buildOptions{}))

	require.NoFileExists(t, filepath.Join(siteDir, "stale.html"))
	require.NoFileExists(t, filepath.Join(siteDir, "classes", "removed.html"))
	require.FileExists(t, filepath.Join(siteDir, "index.html"))
}

func TestRenderJournal(t *testing.T) {
	dir := t.TempDir()
	journalPath := filepath.Join(dir, "events.db")
	configPath, _ := writeProjectConfig(t, dir, fmt.Sprintf("journal:\n  path: %q\n", journalPath))

	require.NoError(t, runRender(context.Background(), configPath, buildOptions{Journal: true}))

	journal, err := eventstore.NewSQLiteJournal(journalPath)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, journal.Close()) })

	ctx := context.Background()
	runs, err := journal.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	records, err := journal.ByRun(ctx, runs[0])
	require.NoError(t, err)
	require.NotEmpty(t, records)
	require.Equal(t, "begin_render", records[0].Kind)
	require.Equal(t, "end_render", records[len(records)-1].Kind)

	kinds := make([]string, 0, len(records))
	for _, r := range records {
		kinds = append(kinds, r.Kind)
	}
	require.Contains(t, kinds, "prepare_index")
}

func TestRenderStrictFailsBeforeWriting(t *testing.T) {
	configPath, siteDir := writeProjectConfig(t, t.TempDir(), "validation:\n  strict: true\n")

	err := runRender(context.Background(), configPath, buildOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoFileExists(t, filepath.Join(siteDir, "index.html"))
}

func TestRenderSkipsDisabledValidation(t *testing.T) {
	// links: false turns the pass off for render, so strict cannot trigger.
	configPath, siteDir := writeProjectConfig(t, t.TempDir(),
		"validation:\n  links: false\n  strict: true\n")

	require.NoError(t, runRender(context.Background(), configPath, buildOptions{}))
	require.FileExists(t, filepath.Join(siteDir, "index.html"))
}

func TestRenderMissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "docreflect.yaml")
	writeFile(t, configPath, fmt.Sprintf("inputs: [%q]\n", filepath.Join(dir, "absent.json")))

	err := runRender(context.Background(), configPath, buildOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategorySnapshot))
}

func TestRenderWithoutInputs(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "docreflect.yaml")
	writeFile(t, configPath, "title: Empty\n")

	err := runRender(context.Background(), configPath, buildOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidateStrict(t *testing.T) {
	configPath, _ := writeProjectConfig(t, t.TempDir(), "validation:\n  strict: true\n")

	err := runValidate(configPath, buildOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, 1, classified.Context()["count"])
}

func TestValidateNonStrictTolerates(t *testing.T) {
	configPath, _ := writeProjectConfig(t, t.TempDir(), "")
	require.NoError(t, runValidate(configPath, buildOptions{}))
}

func TestValidateRunsDespiteDisabledLinks(t *testing.T) {
	// The render path honors links: false; the validate command checks anyway.
	configPath, _ := writeProjectConfig(t, t.TempDir(),
		"validation:\n  links: false\n  strict: true\n")

	err := runValidate(configPath, buildOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRunsListsJournaledRuns(t *testing.T) {
	dir := t.TempDir()
	journalPath := filepath.Join(dir, "events.db")
	configPath, _ := writeProjectConfig(t, dir, fmt.Sprintf("journal:\n  enabled: true\n  path: %q\n", journalPath))

	require.NoError(t, runRender(context.Background(), configPath, buildOptions{}))

	var buf bytes.Buffer
	require.NoError(t, runRuns(context.Background(), configPath, 10, &buf))
	require.Contains(t, buf.String(), "completed")
	require.Contains(t, buf.String(), "pages=3/3")
}

func TestRunsWithoutJournal(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "docreflect.yaml")
	writeFile(t, configPath, fmt.Sprintf("journal:\n  path: %q\n", filepath.Join(dir, "none.db")))

	var buf bytes.Buffer
	require.NoError(t, runRuns(context.Background(), configPath, 10, &buf))
	require.Contains(t, buf.String(), "No event journal found.")
}

func TestLoadConfigDefaultFallback(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(defaultConfigFile)
	require.NoError(t, err)
	require.Equal(t, config.DefaultTitle, cfg.Title)
	require.Equal(t, config.DefaultOutputDir, cfg.Output.Directory)
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "custom.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docreflect.yaml")

	require.NoError(t, runInit(path, false))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "My API Documentation", cfg.Title)

	err = runInit(path, false)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, runInit(path, true))
}

func TestWatchNothingToWatch(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runWatch(context.Background(), defaultConfigFile, buildOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Inputs = []string{"keep.json"}

	applyOverrides(cfg, buildOptions{})
	require.Equal(t, []string{"keep.json"}, cfg.Inputs)
	require.False(t, cfg.Journal.Enabled)

	applyOverrides(cfg, buildOptions{Model: []string{"a.json", "b.json"}, Out: "elsewhere", Journal: true})
	require.Equal(t, []string{"a.json", "b.json"}, cfg.Inputs)
	require.Equal(t, "elsewhere", cfg.Output.Directory)
	require.True(t, cfg.Journal.Enabled)
}

func TestCountingLogger(t *testing.T) {
	logger := &countingLogger{next: validation.SlogLogger{}}

	logger.Warn("plain")
	logger.WarnDiagnostic(validation.Diagnostic{Message: "structured"})
	logger.WarnDiagnostic(validation.Diagnostic{Message: "another"})

	require.Equal(t, 3, logger.warnings)
}
