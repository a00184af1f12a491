// Package logging builds the process logger.
package logging

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/causelist/internal/model"
)

// New builds a logger: "console" gives the development encoder, anything
// else JSON. Both write to stderr so stdout stays for the summary.
func New(cfg model.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "" || cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	levelName := cfg.Level
	if levelName == "" {
		levelName = "warn"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, eris.Wrap(err, "logging: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "logging: build logger")
	}
	return logger, nil
}

// Init builds a logger and installs it as zap.L()
func Init(cfg model.LogConfig) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
