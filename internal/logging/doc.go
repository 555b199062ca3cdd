// Package logging builds the slog loggers used across lapse.
//
// Two surfaces come out of here: the operator-facing structured logger
// (console or JSON, stdout plus optional files) and the session log handler,
// which renders the append-only `[timestamp] message` lines that external
// observers stream from each session directory. TeeLogger fans a single
// logger out to both.
package logging
