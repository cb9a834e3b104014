package datasource

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"db-validator/core/reconcile"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	fields []pgconn.FieldDescription
	data   [][]any
	pos    int
	err    error
	closed bool
}

func newFakeRows(columns []string, data ...[]any) *fakeRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, c := range columns {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return &fakeRows{fields: fields, data: data, pos: -1}
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos], nil }

func (r *fakeRows) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.data[r.pos][i].(string)
		case *int64:
			*p = r.data[r.pos][i].(int64)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

type fakeRow struct {
	value int64
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.value
	return nil
}

type query struct {
	sql  string
	args []any
}

// fakeQuerier records queries and answers them from queued results.
type fakeQuerier struct {
	queries []query
	rows    []*fakeRows
	row     fakeRow
	err     error
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, query{sql, args})
	if q.err != nil {
		return nil, q.err
	}
	next := q.rows[0]
	q.rows = q.rows[1:]
	return next, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.queries = append(q.queries, query{sql, args})
	return q.row
}

func TestPostgresQueries(t *testing.T) {
	window := &reconcile.TimeFilter{Column: "created_at", Start: "2024-01-01", End: "2024-01-31"}
	from := &reconcile.TimeFilter{Column: "created_at", Start: "2024-01-01"}

	tests := []struct {
		name string
		sql  string
		args []any
		want string
		with []any
	}{
		{
			name: "count unfiltered",
			want: `SELECT COUNT(*) FROM "user_info"`,
		},
		{
			name: "count window",
			want: `SELECT COUNT(*) FROM "user_info" WHERE "created_at" >= $1 AND "created_at" <= $2`,
			with: []any{"2024-01-01", "2024-01-31"},
		},
		{
			name: "keys from start",
			want: `SELECT "id" FROM "audit"."user_info" WHERE "created_at" >= $1 ORDER BY "id"`,
			with: []any{"2024-01-01"},
		},
		{
			name: "rows window",
			want: `SELECT * FROM "user_info" WHERE "id" IN ($1, $2, $3) AND "created_at" >= $4 AND "created_at" <= $5 ORDER BY "id"`,
			with: []any{1, 2, 3, "2024-01-01", "2024-01-31"},
		},
		{
			name: "hostile identifier stays quoted",
			want: `SELECT COUNT(*) FROM "user_info"" WHERE 1=1; --"`,
		},
	}

	tests[0].sql, tests[0].args = countQuery("user_info", nil)
	tests[1].sql, tests[1].args = countQuery("user_info", window)
	tests[2].sql, tests[2].args = keysQuery("audit.user_info", "id", from)
	tests[3].sql, tests[3].args = rowsQuery("user_info", "id", []any{1, 2, 3}, window)
	tests[4].sql, tests[4].args = countQuery(`user_info" WHERE 1=1; --`, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sql)
			assert.Equal(t, tt.with, tt.args)
		})
	}
}

func TestPostgresSource_Count(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{value: 17}}
	src := NewPostgresSource("replica", q, nil)

	n, err := src.Count(context.Background(), "user_info", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	q.row = fakeRow{err: assert.AnError}
	_, err = src.Count(context.Background(), "user_info", nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPostgresSource_KeysAndRows(t *testing.T) {
	var amount pgtype.Numeric
	require.NoError(t, amount.Scan("12.50"))

	q := &fakeQuerier{rows: []*fakeRows{
		newFakeRows([]string{"id"}, []any{int64(1)}, []any{int64(2)}),
		newFakeRows([]string{"id", "name", "amount"},
			[]any{int64(1), "Alice", amount},
			[]any{int64(2), "Bob", pgtype.Numeric{}},
		),
	}}
	src := NewPostgresSource("replica", q, nil)
	ctx := context.Background()

	keys, err := src.Keys(ctx, "user_info", "id", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, keys)

	rows, err := src.Rows(ctx, "user_info", "id", keys, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0]["name"])
	assert.True(t, decimal.RequireFromString("12.5").Equal(rows[0]["amount"].(decimal.Decimal)))
	assert.Nil(t, rows[1]["amount"])

	assert.Equal(t, `SELECT * FROM "user_info" WHERE "id" IN ($1, $2) ORDER BY "id"`, q.queries[1].sql)
	assert.Equal(t, "name", src.ColumnName("NAME"))
}

func TestPostgresSource_Columns(t *testing.T) {
	q := &fakeQuerier{rows: []*fakeRows{
		newFakeRows([]string{"column_name"}, []any{"id"}, []any{"created_at"}),
		newFakeRows([]string{"column_name"}, []any{"id"}),
	}}
	src := NewPostgresSource("replica", q, nil)

	columns, err := src.Columns(context.Background(), "user_info")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "created_at"}, columns)
	assert.Equal(t, []any{"user_info"}, q.queries[0].args)

	_, err = src.Columns(context.Background(), "audit.user_info")
	require.NoError(t, err)
	assert.Equal(t, []any{"user_info", "audit"}, q.queries[1].args)
}

func TestPostgresSource_QueryError(t *testing.T) {
	src := NewPostgresSource("replica", &fakeQuerier{err: assert.AnError}, nil)

	_, err := src.Keys(context.Background(), "user_info", "id", nil)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = src.Rows(context.Background(), "user_info", "id", []any{1}, nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDecodePgValue(t *testing.T) {
	assert.Equal(t, "x", decodePgValue("x"))
	assert.Nil(t, decodePgValue(pgtype.Numeric{}))

	n := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}
	d, ok := decodePgValue(n).(decimal.Decimal)
	require.True(t, ok)
	assert.Equal(t, "123.45", d.String())

	nan := pgtype.Numeric{NaN: true, Valid: true}
	assert.Equal(t, nan, decodePgValue(nan))
}
