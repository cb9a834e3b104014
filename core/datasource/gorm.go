package datasource

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"db-validator/core/database"
	"db-validator/core/reconcile"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSource reads tables through a gorm connection (MySQL or SQLite).
// Every identifier goes through gorm's clause builder, so it is quoted with
// the dialect's quoting, and every value is a bound parameter.
type GormSource struct {
	name   string
	db     *gorm.DB
	casing reconcile.CaseFunc
}

// NewGormSource wraps db as a reconcile.Source. A nil casing preserves
// column names as reported by the driver.
func NewGormSource(name string, db *gorm.DB, casing reconcile.CaseFunc) *GormSource {
	if casing == nil {
		casing = reconcile.PreserveCase
	}
	return &GormSource{name: name, db: db, casing: casing}
}

func (s *GormSource) Name() string { return s.name }

func (s *GormSource) ColumnName(field string) string { return s.casing(field) }

// DB returns the underlying connection.
func (s *GormSource) DB() *gorm.DB { return s.db }

func (s *GormSource) scoped(ctx context.Context, table string, filter *reconcile.TimeFilter) *gorm.DB {
	// Table(name) alone would pass names containing spaces through raw.
	q := s.db.WithContext(ctx).Table("?", clause.Table{Name: table})
	if filter.Active() {
		col := clause.Column{Name: filter.Column}
		q = q.Where(clause.Gte{Column: col, Value: filter.Start})
		if filter.HasEnd() {
			q = q.Where(clause.Lte{Column: col, Value: filter.End})
		}
	}
	return q
}

func (s *GormSource) Count(ctx context.Context, table string, filter *reconcile.TimeFilter) (int64, error) {
	var n int64
	if err := s.scoped(ctx, table, filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *GormSource) Keys(ctx context.Context, table, keyColumn string, filter *reconcile.TimeFilter) ([]any, error) {
	key := clause.Column{Name: keyColumn}
	rows, err := s.scoped(ctx, table, filter).
		Select("?", key).
		Order(clause.OrderByColumn{Column: key}).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	keys := make([]any, 0, len(scanned))
	for _, row := range scanned {
		for _, v := range row {
			keys = append(keys, v)
		}
	}
	return keys, nil
}

func (s *GormSource) Rows(ctx context.Context, table, keyColumn string, keys []any, filter *reconcile.TimeFilter) ([]reconcile.Row, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	key := clause.Column{Name: keyColumn}
	rows, err := s.scoped(ctx, table, filter).
		Where(clause.IN{Column: key, Values: keys}).
		Order(clause.OrderByColumn{Column: key}).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *GormSource) Columns(ctx context.Context, table string) ([]string, error) {
	columns, err := database.GetTableColumns(s.db.WithContext(ctx), table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Field
	}
	return names, nil
}

// scanRows reads every row into a reconcile.Row, decoding driver values by
// the column's database type.
func scanRows(rows *sql.Rows) ([]reconcile.Row, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	var out []reconcile.Row
	values := make([]any, len(columnTypes))
	pointers := make([]any, len(columnTypes))
	for rows.Next() {
		for i := range values {
			values[i] = nil
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(reconcile.Row, len(columnTypes))
		for i, ct := range columnTypes {
			row[ct.Name()] = decodeValue(ct.DatabaseTypeName(), values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeValue turns the []byte values of the MySQL text protocol into typed
// values. Non-byte values are returned unchanged.
func decodeValue(dbType string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	dbType = strings.ToUpper(dbType)

	switch dbType {
	case "DECIMAL", "NUMERIC", "NEWDECIMAL":
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	case "FLOAT", "DOUBLE", "REAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BIT", "GEOMETRY":
		return b
	}
	return s
}

var _ reconcile.Source = (*GormSource)(nil)
