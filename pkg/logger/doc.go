// Package logger provides the structured logging interface used across hashfeed.
//
// It wraps zerolog with:
//   - levels (Debug, Info, Warn, Error, Fatal)
//   - structured fields (WithField, WithFields, *WithFields)
//   - colourised console output or JSON lines, plus an optional log file
//   - a process-wide logger for the CLI
//   - NewNopLogger and TestLogger for tests
//
// Basic usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("platform", "instagram").Info("fetching feed")
//
// Platform clients take a Logger explicitly and log every upstream call
// through LogUpstreamCall.
package logger
