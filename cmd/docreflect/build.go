package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docreflect/internal/config"
	"git.home.luguber.info/inful/docreflect/internal/eventstore"
	"git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/gitinfo"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
	"git.home.luguber.info/inful/docreflect/internal/metrics"
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/plugin"
	"git.home.luguber.info/inful/docreflect/internal/preview"
	"git.home.luguber.info/inful/docreflect/internal/render"
	"git.home.luguber.info/inful/docreflect/internal/router"
	"git.home.luguber.info/inful/docreflect/internal/theme"
	"git.home.luguber.info/inful/docreflect/internal/validation"
)

// buildOptions are the command line overrides applied on top of the loaded
// configuration.
type buildOptions struct {
	Model   []string
	Out     string
	Journal bool
	Verbose bool
}

// loadConfig reads the configuration file. A missing file at the default
// location falls back to defaults so the CLI works without one; an
// explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && path == defaultConfigFile {
			slog.Debug("No configuration file, using defaults", logfields.Path(path))
			return config.Default(), nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration").
			UserAction().
			WithContext("path", path).
			Build()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "load configuration").
			UserAction().
			WithContext("path", path).
			Build()
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts buildOptions) {
	if len(opts.Model) > 0 {
		cfg.Inputs = opts.Model
	}
	if opts.Out != "" {
		cfg.Output.Directory = opts.Out
	}
	if opts.Journal {
		cfg.Journal.Enabled = true
	}
}

// loadProject loads the configured snapshots, merging multiple inputs under
// one root.
func loadProject(cfg *config.Config) (*model.Project, error) {
	if len(cfg.Inputs) == 0 {
		return nil, errors.ConfigError("no reflection snapshot configured").
			WithContext("hint", "set inputs in the configuration or pass --model").
			Build()
	}

	project, err := model.LoadFiles(cfg.Title, cfg.Inputs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySnapshot, "load reflection snapshot").Build()
	}
	return project, nil
}

func runRender(ctx context.Context, configPath string, opts buildOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	setupLogging(cfg.Logging, opts.Verbose)

	return buildSite(ctx, cfg, nil)
}

// runValidate runs the broken link pass without rendering. Unlike render,
// it checks even when the configuration disables validation: invoking the
// command is the request to check.
func runValidate(configPath string, opts buildOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	setupLogging(cfg.Logging, opts.Verbose)

	project, err := loadProject(cfg)
	if err != nil {
		return err
	}

	warnings := validateProject(cfg, project, nil)
	slog.Info("Validation finished", logfields.Count(warnings))
	if cfg.Validation.Strict && warnings > 0 {
		return strictValidationError(warnings)
	}
	return nil
}

func runWatch(ctx context.Context, configPath string, opts buildOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	setupLogging(cfg.Logging, opts.Verbose)

	watched := append([]string{}, cfg.Inputs...)
	if _, err := os.Stat(configPath); err == nil {
		watched = append(watched, configPath)
	}
	if len(watched) == 0 {
		return errors.ConfigError("nothing to watch").
			WithContext("hint", "set inputs in the configuration or pass --model").
			Build()
	}

	// One recorder for the whole session so counters accumulate across
	// rebuilds.
	var rec *metrics.PrometheusRecorder
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg); err != nil {
				slog.Error("Metrics endpoint failed", logfields.Error(err))
			}
		}()
	}

	rebuild := func(ctx context.Context) error {
		current, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		applyOverrides(current, opts)
		return buildSite(ctx, current, rec)
	}

	// A failing first build keeps the watcher alive; the next save retries.
	if err := rebuild(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	go func() {
		if err := preview.ServeSite(ctx, cfg.Preview.Listen, cfg.Output.Directory); err != nil {
			slog.Error("Preview server failed", logfields.Error(err))
		}
	}()

	watcher, err := preview.New(watched, time.Duration(cfg.Preview.DebounceMS)*time.Millisecond, rebuild)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

func runRuns(ctx context.Context, configPath string, limit int, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Journal.Path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "No event journal found.")
			return nil
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "stat event journal").
			WithContext("path", cfg.Journal.Path).
			Build()
	}

	journal, err := eventstore.NewSQLiteJournal(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer closeQuietly(journal, "event journal")

	history := eventstore.NewRunHistory(journal)
	if err := history.Rebuild(ctx, limit); err != nil {
		return err
	}

	runs := history.Summaries()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}
	for _, run := range runs {
		id := run.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		line := fmt.Sprintf("%s  %-9s  %s  pages=%d/%d  search=%d",
			id, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Pages, run.PlannedPages, run.SearchResults)
		if run.FinishedAt != nil {
			line += "  " + run.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// buildSite runs one full validate and render cycle. rec may be nil when no
// metrics endpoint is being served.
func buildSite(ctx context.Context, cfg *config.Config, rec *metrics.PrometheusRecorder) error {
	project, err := loadProject(cfg)
	if err != nil {
		return err
	}

	if cfg.Validation.LinksEnabled() {
		warnings := validateProject(cfg, project, rec)
		if cfg.Validation.Strict && warnings > 0 {
			return strictValidationError(warnings)
		}
	}

	ren, cleanup, err := newRenderer(cfg, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Output.Clean {
		if err := cleanOutputDir(cfg.Output.Directory); err != nil {
			return err
		}
	}
	return ren.Run(ctx, project)
}

// validateProject runs the broken link pass and returns the number of
// findings. Validation itself never fails; strict mode is the caller's
// decision.
func validateProject(cfg *config.Config, project *model.Project, counter validation.BrokenLinkCounter) int {
	logger := &countingLogger{next: validation.SlogLogger{}}
	v := &validation.Validator{Logger: logger, Metrics: counter}

	if cfg.Reporting.Enabled() {
		reporter, err := validation.NewNATSReporter(cfg.Reporting, uuid.NewString())
		if err != nil {
			slog.Warn("Broken link reporting unavailable", logfields.Error(err))
		} else {
			v.Reporter = reporter
			defer closeQuietly(reporter, "link reporter")
		}
	}

	v.Validate(project)
	return logger.warnings
}

func strictValidationError(count int) error {
	return errors.ValidationError("broken links found").
		UserAction().
		WithContext("count", count).
		Build()
}

// newRenderer wires the event bus, router, theme, plugins and optional sinks
// from the configuration. cleanup closes whatever was opened.
func newRenderer(cfg *config.Config, rec *metrics.PrometheusRecorder) (*render.Renderer, func(), error) {
	style, err := router.ParseStyle(cfg.Router)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryConfig, "invalid router style").
			UserAction().
			WithContext("router", cfg.Router).
			Build()
	}
	rt := router.New(style)

	if cfg.Theme != config.DefaultTheme {
		return nil, nil, errors.ThemeError("unknown theme").
			WithContext("theme", cfg.Theme).
			Build()
	}

	bus := render.NewBus()
	ren := render.NewRenderer(bus, rt, cfg.Output.Directory)

	th := theme.New(rt, theme.Options{
		Title:           cfg.Title,
		GroupMembers:    cfg.Navigation.IncludeGroups,
		SearchComments:  cfg.Search.InComments,
		SearchDocuments: cfg.Search.InDocuments,
	})
	if cfg.SourceLinks.LinksEnabled() {
		th.Source = sourceLinker(cfg)
	}
	th.Install(bus)
	ren.Theme = th

	ren.SearchIndex = cfg.Search.IndexEnabled()
	ren.SearchWeights = map[string]float64{
		render.FieldName:     cfg.Search.Weights.Name,
		render.FieldComment:  cfg.Search.Weights.Comment,
		render.FieldDocument: cfg.Search.Weights.Document,
	}
	if rec != nil {
		ren.Metrics = rec
	}

	cleanup := func() {}
	if cfg.Journal.Enabled {
		journal, err := eventstore.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			return nil, nil, err
		}
		ren.Journal = journal
		cleanup = func() { closeQuietly(journal, "event journal") }
	}

	if err := plugin.DefaultRegistry().Apply(ren); err != nil {
		cleanup()
		return nil, nil, err
	}

	return ren, cleanup, nil
}

// sourceLinker resolves the checkout the first snapshot lives in. Failures
// only disable source links.
func sourceLinker(cfg *config.Config) theme.SourceLinker {
	dir := "."
	if len(cfg.Inputs) > 0 {
		dir = filepath.Dir(cfg.Inputs[0])
	}

	info, err := gitinfo.Resolve(dir)
	if err != nil {
		slog.Warn("Source link resolution failed", logfields.Error(err))
	}
	linker := gitinfo.NewLinker(info, cfg.SourceLinks.Remote, cfg.SourceLinks.Revision)
	if linker == nil {
		return nil
	}
	return linker
}

// cleanOutputDir empties the previous site so pages removed from the model
// do not linger. The directory itself is recreated by the first write.
func cleanOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve output directory").
			WithContext("path", dir).
			Build()
	}
	// Refuse the filesystem root.
	if abs == filepath.Dir(abs) {
		return errors.FileSystemError("refusing to clean output directory").
			WithContext("path", abs).
			Build()
	}
	if err := os.RemoveAll(abs); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").
			WithContext("path", abs).
			Build()
	}
	return nil
}

func closeQuietly(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		slog.Warn("Close failed", slog.String("resource", what), logfields.Error(err))
	}
}

// countingLogger forwards findings to the structured logger and keeps the
// count for the closing summary and strict mode.
type countingLogger struct {
	next     validation.SlogLogger
	warnings int
}

func (c *countingLogger) Warn(msg string) {
	c.warnings++
	c.next.Warn(msg)
}

func (c *countingLogger) WarnDiagnostic(d validation.Diagnostic) {
	c.warnings++
	c.next.WarnDiagnostic(d)
}
