// Package logging builds the slog loggers used across musicgenie.
//
// Two output formats are supported: "console", a compact single-line format
// (timestamp LEVEL component: message key=value ...) for interactive use,
// and "json" for log files and scripting. NewFromConfig mirrors stdout
// output into a log file under the configured log directory.
package logging
