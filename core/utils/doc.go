// Package utils provides common utility functions for the db-validator application.
// It includes helpers for type conversion, value rendering and list parsing
// shared by the HTTP handlers, the CLI and the report renderers.
package utils
