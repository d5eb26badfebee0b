package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log defaults to a nop logger so packages can log before Init (and tests
// need no setup).
var Log = zap.NewNop().Sugar()

// Init opens the log file and wires the package-level sugared logger.
// The chat transcript goes to the terminal via the listener; this file
// receives the pipeline trace.
func Init(logFilePath string) error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logFilePath}
	cfg.ErrorOutputPaths = []string{logFilePath}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l.Sugar()
	Log.Infof("Logger initialized.")
	return nil
}

// Sync flushes buffered entries on shutdown.
func Sync() {
	_ = Log.Sync()
}
