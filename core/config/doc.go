// Package config provides configuration management for the validator.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, environment)
//   - Record / Replica: connection details of both compared databases
//   - Validator: table list, primary key, batch size, ignored fields, scheduling
//   - Storage: S3/MinIO credentials and the report archive bucket
//   - Redis: run lock (optional)
//   - Log: Logging level and format
//
// Nested keys map to upper-case environment variables joined by underscores,
// e.g. RECORD_HOST, REPLICA_DRIVER or VALIDATOR_TABLES=orders,users.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Validator.Tables)
package config
