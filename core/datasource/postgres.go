package datasource

import (
	"context"
	"fmt"
	"strings"

	"db-validator/core/reconcile"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Querier is the subset of *pgxpool.Pool and *pgx.Conn used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads tables through pgx. Identifiers are quoted with
// pgx.Identifier and values use $n placeholders.
type PostgresSource struct {
	name   string
	db     Querier
	casing reconcile.CaseFunc
}

// NewPostgresSource wraps db as a reconcile.Source. Postgres folds unquoted
// identifiers to lower case, so a nil casing defaults to LowerCase.
func NewPostgresSource(name string, db Querier, casing reconcile.CaseFunc) *PostgresSource {
	if casing == nil {
		casing = reconcile.LowerCase
	}
	return &PostgresSource{name: name, db: db, casing: casing}
}

func (s *PostgresSource) Name() string { return s.name }

func (s *PostgresSource) ColumnName(field string) string { return s.casing(field) }

// quoteTable quotes a plain or schema-qualified table name.
func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

func quoteColumn(column string) string {
	return pgx.Identifier{column}.Sanitize()
}

// whereClause renders the time filter as conditions starting at placeholder
// $next, and returns the conditions and their arguments.
func whereClause(filter *reconcile.TimeFilter, next int) ([]string, []any) {
	if !filter.Active() {
		return nil, nil
	}
	col := quoteColumn(filter.Column)
	conds := []string{fmt.Sprintf("%s >= $%d", col, next)}
	args := []any{filter.Start}
	if filter.HasEnd() {
		conds = append(conds, fmt.Sprintf("%s <= $%d", col, next+1))
		args = append(args, filter.End)
	}
	return conds, args
}

func buildWhere(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func countQuery(table string, filter *reconcile.TimeFilter) (string, []any) {
	conds, args := whereClause(filter, 1)
	return "SELECT COUNT(*) FROM " + quoteTable(table) + buildWhere(conds), args
}

func keysQuery(table, keyColumn string, filter *reconcile.TimeFilter) (string, []any) {
	key := quoteColumn(keyColumn)
	conds, args := whereClause(filter, 1)
	return fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", key, quoteTable(table), buildWhere(conds), key), args
}

func rowsQuery(table, keyColumn string, keys []any, filter *reconcile.TimeFilter) (string, []any) {
	key := quoteColumn(keyColumn)
	placeholders := make([]string, len(keys))
	args := make([]any, 0, len(keys)+2)
	for i, k := range keys {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, k)
	}
	conds := []string{fmt.Sprintf("%s IN (%s)", key, strings.Join(placeholders, ", "))}
	filterConds, filterArgs := whereClause(filter, len(keys)+1)
	conds = append(conds, filterConds...)
	args = append(args, filterArgs...)
	return fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s", quoteTable(table), buildWhere(conds), key), args
}

func (s *PostgresSource) Count(ctx context.Context, table string, filter *reconcile.TimeFilter) (int64, error) {
	sql, args := countQuery(table, filter)
	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresSource) Keys(ctx context.Context, table, keyColumn string, filter *reconcile.TimeFilter) ([]any, error) {
	sql, args := keysQuery(table, keyColumn, filter)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		keys = append(keys, decodePgValue(values[0]))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *PostgresSource) Rows(ctx context.Context, table, keyColumn string, keys []any, filter *reconcile.TimeFilter) ([]reconcile.Row, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	sql, args := rowsQuery(table, keyColumn, keys, filter)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []reconcile.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(reconcile.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = decodePgValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresSource) Columns(ctx context.Context, table string) ([]string, error) {
	schema, name := "", table
	if i := strings.IndexByte(table, '.'); i >= 0 {
		schema, name = table[:i], table[i+1:]
	}

	sql := "SELECT column_name FROM information_schema.columns WHERE table_name = $1 AND table_schema = current_schema() ORDER BY ordinal_position"
	args := []any{name}
	if schema != "" {
		sql = "SELECT column_name FROM information_schema.columns WHERE table_name = $1 AND table_schema = $2 ORDER BY ordinal_position"
		args = append(args, schema)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// decodePgValue maps pgtype.Numeric to decimal.Decimal so numeric keys are
// usable as map keys and print naturally. Other values pass through.
func decodePgValue(v any) any {
	n, ok := v.(pgtype.Numeric)
	if !ok {
		return v
	}
	if !n.Valid {
		return nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return v
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

var _ reconcile.Source = (*PostgresSource)(nil)
