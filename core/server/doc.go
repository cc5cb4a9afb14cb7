// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber application lifecycle; this package only
// defines the settings it reads: listen port, API key and the graceful
// shutdown window.
//
// # Usage
//
// This package is embedded by core/config and consumed by the serve command
// and the auth middleware.
package server
