package reconcile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned for table or column names that are
	// not plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrTableNotAllowed is returned for tables outside the configured list.
	ErrTableNotAllowed = errors.New("table is not in the configured table list")

	// ErrUnknownColumn is returned when a key or time column does not exist
	// in the table schema.
	ErrUnknownColumn = errors.New("unknown column")
)

const maxIdentifierLength = 128

// Optional single schema qualifier, e.g. "audit.orders".
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)

// ValidateIdentifier checks that name is a plain, optionally schema-qualified
// SQL identifier.
func ValidateIdentifier(name string) error {
	if name == "" || len(name) > maxIdentifierLength || !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// AllowsTable reports whether table is in the configured table list.
func (c Config) AllowsTable(table string) bool {
	for _, t := range c.Tables {
		if strings.EqualFold(strings.TrimSpace(t), table) {
			return true
		}
	}
	return false
}

// validateRequest enforces the identifier trust boundary before any
// identifier reaches generated SQL: syntax, table allow-list, and column
// existence in the record side's schema.
func (e *Engine) validateRequest(ctx context.Context, table string, cfg Config, filter *TimeFilter) error {
	if err := ValidateIdentifier(table); err != nil {
		return err
	}
	if !cfg.AllowsTable(table) {
		return fmt.Errorf("%w: %q", ErrTableNotAllowed, table)
	}
	if err := ValidateIdentifier(cfg.PrimaryKey); err != nil {
		return err
	}
	if filter.Active() {
		if err := ValidateIdentifier(filter.Column); err != nil {
			return err
		}
	}

	columns, err := e.record.Columns(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to read columns of %s from %s: %w", table, e.record.Name(), err)
	}
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[strings.ToLower(c)] = struct{}{}
	}

	required := []string{cfg.PrimaryKey}
	if filter.Active() {
		required = append(required, filter.Column)
	}
	for _, col := range required {
		if _, ok := known[strings.ToLower(col)]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, col)
		}
	}
	return nil
}
