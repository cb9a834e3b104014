package lock

import "time"

// Config holds configuration for the run lock.
type Config struct {
	// Addr is the redis address (host:port). Empty selects the in-process lock.
	Addr string `mapstructure:"addr" default:""`
	// Password is the redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis database index.
	DB int `mapstructure:"db" default:"0"`
	// Key is the lock key guarding full comparison runs.
	Key string `mapstructure:"key" default:"db-validator:compare-all"`
	// TTLSeconds bounds how long a crashed run can hold the lock.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"3600"`
}

// TTL returns the lock expiry as a duration.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.TTLSeconds) * time.Second
}
