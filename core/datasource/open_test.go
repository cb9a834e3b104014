package datasource

import (
	"context"
	"testing"

	"db-validator/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		h, err := Open(context.Background(), "record", database.Config{Driver: database.DriverSQLite, Name: ":memory:", ColumnCase: "upper"})
		require.NoError(t, err)
		defer h.Close()

		assert.Equal(t, "record", h.Name())
		assert.Equal(t, "ID", h.ColumnName("id"))
		assert.IsType(t, &GormSource{}, h.Source)
	})

	t.Run("Unreachable Postgres", func(t *testing.T) {
		h, err := Open(context.Background(), "replica", database.Config{
			Driver:         database.DriverPostgres,
			Host:           "127.0.0.1",
			Port:           1,
			TimeoutSeconds: 1,
		})
		assert.ErrorContains(t, err, "replica")
		assert.Nil(t, h)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		_, err := Open(context.Background(), "record", database.Config{Driver: "oracle"})
		assert.Error(t, err)
	})
}
