package database

// Config holds configuration for one side of the comparison.
type Config struct {
	// Driver is the database driver (mysql, sqlite, postgres).
	Driver string `mapstructure:"driver" default:"mysql" validate:"oneof=mysql sqlite postgres"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306" validate:"min=0,max=65535"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For sqlite it is the file path (or ":memory:").
	Name string `mapstructure:"name" default:"validator"`
	// TimeoutSeconds bounds connection setup, I/O and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxOpenConns caps the connection pool.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"20"`
	// ColumnCase is how the database reports unquoted column names
	// (upper, lower, preserve).
	ColumnCase string `mapstructure:"column_case" default:"preserve" validate:"oneof=upper lower preserve"`
}
