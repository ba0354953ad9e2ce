// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Every alarm-clock service accepts a context and extracts the logger from it,
// so scheduler transitions, storage warnings and transport calls share one
// scoped, structured log stream.
package logger
