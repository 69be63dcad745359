// Package logger provides a structured logging solution using the Zap logging library.
// It keeps a process-wide logger with an atomic level, lets callers attach fields or names
// to a context, and can mirror console output into a rotating log file.
// The console output goes to stderr so stdout stays reserved for command results.
package logger
