// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports development and
// production setups. The same logger is handed to the association
// reconciler (association.WithLogger) so link/unlink decisions show up at
// debug level next to the application logs.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID set by the rayid middleware from a
// Fiber context and attaches it to the log entry.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
package logger
