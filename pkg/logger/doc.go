// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package, emitting JSON in production and
// text elsewhere, and tags every record with the running environment.
package logger
