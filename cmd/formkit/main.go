package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/internal/logging"
	"github.com/goliatone/go-formkit/pkg/registry"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errInvalid marks a check that ran but found validation failures.
var errInvalid = errors.New("form is invalid")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	formsDir   string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "formkit",
		Short: "Declarative form definitions with validation",
		Long: `formkit loads form definitions, validates submissions against them
and serves them over HTTP.

Forms come from the embedded catalogue unless --forms points at a
directory of YAML or JSON definitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&g.formsDir, "forms", "", "directory of form definitions (overrides config)")
	flags.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&g.logFormat, "log-format", "", "log format: json or text")

	root.AddCommand(
		serveCmd(g),
		listCmd(g),
		showCmd(g),
		fillCmd(g),
		checkCmd(g),
		schemaCmd(g),
		versionCmd(),
	)
	return root
}

// config loads the config file and environment, then applies flag overrides.
func (g *globals) config() (config.Config, error) {
	cfg, err := config.Load(g.configPath, nil)
	if err != nil {
		return config.Config{}, err
	}
	if g.formsDir != "" {
		cfg.FormsDir = g.formsDir
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	return cfg, nil
}

func (g *globals) logger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(w, cfg.Log.Level, cfg.Log.Format)
}

func loadRegistry(cfg config.Config) (*registry.Registry, error) {
	if fsys := cfg.FormsFS(); fsys != nil {
		return registry.LoadFS(fsys)
	}
	return registry.Default()
}

// setup resolves config, logger and registry for commands that only read
// forms. Logs go to stderr so stdout stays machine readable.
func (g *globals) setup(cmd *cobra.Command) (config.Config, *slog.Logger, *registry.Registry, error) {
	cfg, err := g.config()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, err := g.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger.Debug("forms loaded", slog.Int("count", len(reg.List())), slog.String("dir", cfg.FormsDir))
	return cfg, logger, reg, nil
}
