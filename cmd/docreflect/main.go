// Command docreflect renders API documentation sites from reflection
// snapshots: it validates cross-references, routes pages, runs the render
// event pipeline and writes the site plus its search index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docreflect/internal/config"
	"git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
	"git.home.luguber.info/inful/docreflect/internal/version"
)

// defaultConfigFile mirrors the kong default below; kong tags cannot
// reference constants.
const defaultConfigFile = "docreflect.yaml"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docreflect.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Render struct {
		Model   []string `short:"m" help:"Reflection snapshot to render (repeatable, overrides configured inputs)"`
		Out     string   `short:"o" help:"Output directory for the generated site"`
		Journal bool     `help:"Record render events in the local event journal"`
	} `cmd:"" help:"Render the documentation site from a reflection snapshot"`

	Validate struct {
		Model []string `short:"m" help:"Reflection snapshot to check (repeatable, overrides configured inputs)"`
	} `cmd:"" help:"Check the snapshot for broken cross-references without rendering"`

	Watch struct {
		Model []string `short:"m" help:"Reflection snapshot to watch (repeatable, overrides configured inputs)"`
		Out   string   `short:"o" help:"Output directory for the generated site"`
	} `cmd:"" help:"Rebuild the site whenever a snapshot or the configuration changes"`

	Runs struct {
		Limit int `short:"n" help:"How many runs to list" default:"10"`
	} `cmd:"" help:"List recent render runs recorded in the event journal"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Write an example configuration file"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// Initial logger from flags alone; commands re-install it once the
	// configuration is loaded.
	setupLogging(config.LoggingConfig{}, CLI.Verbose)
	cliErrors := errors.NewCLIErrorAdapter(CLI.Verbose, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch kctx.Command() {
	case "render":
		cliErrors.HandleError(runRender(ctx, CLI.Config, buildOptions{
			Model:   CLI.Render.Model,
			Out:     CLI.Render.Out,
			Journal: CLI.Render.Journal,
			Verbose: CLI.Verbose,
		}))
	case "validate":
		cliErrors.HandleError(runValidate(CLI.Config, buildOptions{
			Model:   CLI.Validate.Model,
			Verbose: CLI.Verbose,
		}))
	case "watch":
		cliErrors.HandleError(runWatch(ctx, CLI.Config, buildOptions{
			Model:   CLI.Watch.Model,
			Out:     CLI.Watch.Out,
			Verbose: CLI.Verbose,
		}))
	case "runs":
		cliErrors.HandleError(runRuns(ctx, CLI.Config, CLI.Runs.Limit, os.Stdout))
	case "init":
		cliErrors.HandleError(runInit(CLI.Config, CLI.Init.Force))
	case "version":
		fmt.Printf("docreflect %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

// setupLogging installs the process-wide logger. Verbose wins over the
// configured level.
func setupLogging(cfg config.LoggingConfig, verbose bool) {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runInit(configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "initialize configuration").
			UserAction().
			WithContext("path", configPath).
			Build()
	}
	slog.Info("Configuration written", logfields.Path(configPath))
	return nil
}
