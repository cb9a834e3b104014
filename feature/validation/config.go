package validation

import (
	"time"

	"db-validator/core/reconcile"
	"db-validator/core/utils"
)

// Config holds configuration for table validation.
type Config struct {
	// Tables is the ordered list of audited tables (comma-separated in env).
	Tables []string `mapstructure:"tables" default:""`
	// PrimaryKey is the key column shared by all audited tables.
	PrimaryKey string `mapstructure:"primary_key" default:"id" validate:"required"`
	// BatchSize bounds the keys fetched per row query.
	BatchSize int `mapstructure:"batch_size" default:"1000" validate:"min=1"`
	// IgnoreFields are never reported as differences.
	IgnoreFields []string `mapstructure:"ignore_fields" default:"updated_at"`
	// TimeField is the default column for time-windowed requests.
	TimeField string `mapstructure:"time_field" default:""`
	// RunOnStart runs a full comparison when the server starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"false"`
	// Interval schedules periodic full comparisons. Zero disables it.
	Interval time.Duration `mapstructure:"interval" default:"0s"`
	// ReportTTL is how long the latest run is served by report endpoints
	// before a new run is started.
	ReportTTL time.Duration `mapstructure:"report_ttl" default:"10m"`
	// History stores every run in the record-side database.
	History bool `mapstructure:"history" default:"true"`
	// ReportDir receives text and JSON reports of full runs. Empty disables it.
	ReportDir string `mapstructure:"report_dir" default:"reports"`
}

// Reconcile converts c into the engine configuration.
func (c Config) Reconcile() reconcile.Config {
	return reconcile.Config{
		Tables:       utils.SplitList(c.Tables...),
		PrimaryKey:   c.PrimaryKey,
		BatchSize:    c.BatchSize,
		IgnoreFields: utils.SplitList(c.IgnoreFields...),
	}.WithDefaults()
}
