// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key protecting the
// validation endpoints, and a deployment label added to log lines.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to build the listen address.
package server
