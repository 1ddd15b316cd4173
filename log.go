package bren

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the operation logger. A log file gets JSON records; with
// only verbose set, human-readable records go to stderr; otherwise logging
// is off and the terminal shows only the rendered summary.
func NewLogger(verbose bool, logFile string) (*zap.Logger, error) {
	switch {
	case logFile != "":
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{"stderr"}
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", logFile, err)
		}
		return l, nil
	case verbose:
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		return cfg.Build()
	default:
		return zap.NewNop(), nil
	}
}
