// Package logging builds the zap logger used by the deduce binaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/deduce/pkg/deduce/config"
	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// New builds a logger from cfg. JSON output uses the production encoder,
// console output the development one. Logs go to stderr.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", internalerr.ErrInvalidConfig, cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

// Verbose lowers the level of cfg to debug
func Verbose(cfg config.Log) config.Log {
	cfg.Level = "debug"
	return cfg
}
