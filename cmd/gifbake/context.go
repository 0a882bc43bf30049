package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"gifbake/internal/artifact"
	"gifbake/internal/config"
	"gifbake/internal/convert"
	"gifbake/internal/engine"
	"gifbake/internal/logging"
	"gifbake/internal/transcode"
	"gifbake/internal/ui"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.Console = true
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// app holds the conversion stack wired for one command invocation.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	publisher *artifact.Publisher
	orch      *convert.Orchestrator
	binding   *ui.Binding
}

func (c *commandContext) newApp(view ui.View) (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewFFmpeg(cfg.FFmpegBinary(), cfg.Paths.StagingDir, logger)
	if err != nil {
		return nil, fmt.Errorf("configure engine: %w", err)
	}
	publisher := artifact.NewPublisher(cfg.Paths.ArtifactDir, cfg.Convert.PreviewWidth, logger)
	binding := ui.NewBinding(view, formDefaults(cfg))
	orch := convert.New(eng, publisher, logger,
		convert.WithObserver(binding),
		convert.WithEngineLog(cfg.Engine.Log),
		convert.WithLoadTimeout(time.Duration(cfg.Engine.LoadTimeoutSeconds)*time.Second),
	)
	binding.Attach(orch)

	return &app{
		cfg:       cfg,
		logger:    logger,
		publisher: publisher,
		orch:      orch,
		binding:   binding,
	}, nil
}

func (a *app) close() {
	if err := a.orch.Close(); err != nil {
		a.logger.Warn("engine shutdown failed", logging.Error(err))
	}
}

func formDefaults(cfg *config.Config) transcode.Defaults {
	return transcode.Defaults{FrameRate: cfg.Convert.FrameRate, Width: cfg.Convert.Width}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
