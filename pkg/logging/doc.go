// Package logging provides structured logging configuration for secdial.
//
// This package wraps log/slog to provide consistent logging across all
// secdial components. It supports configurable log levels and output
// formats.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("protocols enforced", "protocols", enabled)
//	logger.Warn("socket rejected protocol list", "error", err)
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, they fall back to logging.Nop(), a no-op
// logger. Protocol-enforcement warnings in particular are only ever
// logged, never surfaced as errors, so wiring a real logger is the way to
// observe them.
package logging
