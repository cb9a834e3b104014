// Package loader registers fiber features and mounts the enabled ones.
//
// A feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers the validation feature, which is enabled once
// validator.tables lists at least one table. LoadAll skips disabled features
// and stops at the first Load error.
package loader
