package main

import (
	"strings"
	"sync"

	"lapse/internal/config"
	"lapse/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// resolveBaseDir applies the flag-over-config-over-probe precedence shared
// by every command that needs the base directory.
func resolveBaseDir(cfg *config.Config, override string) (string, error) {
	if strings.TrimSpace(override) == "" {
		override = cfg.Paths.BaseDir
	}
	return session.ResolveBaseDir(override, cfg.Paths.SharedMount)
}
