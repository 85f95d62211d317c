package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"bookbinder/internal/config"
	"bookbinder/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	injector *do.RootScope
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
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
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// container returns the service container, building it on first use.
func (c *commandContext) container(cmd *cobra.Command) (*do.RootScope, error) {
	if c.injector != nil {
		return c.injector, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.injector = newContainer(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return c.injector, nil
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	injector, err := c.container(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := do.Invoke[*slog.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// close shuts the container down, closing services such as the history
// database that were opened during the command.
func (c *commandContext) close() error {
	if c.injector == nil {
		return nil
	}
	injector := c.injector
	c.injector = nil
	injector.Shutdown()
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func componentLogger(logger *slog.Logger, name string) *slog.Logger {
	return logging.NewComponentLogger(logger, name)
}
