package cmd

import (
	"testing"
	"time"

	"db-validator/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	results := []reconcile.ComparisonResult{{
		TableName:        "orders",
		RecordCount:      2,
		ReplicaCount:     1,
		OnlyInRecord:     []any{int64(2)},
		OnlyInReplica:    []any{},
		FieldDifferences: map[string]reconcile.FieldDifference{},
		ComparedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	for _, format := range []string{"", "text", "compact", "json", "xlsx"} {
		t.Run("Format "+format, func(t *testing.T) {
			data, err := render(format, results)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := render("csv", results)
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "compare", "count", "history", "schema"} {
		assert.True(t, names[want], want)
	}
}
