package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one table column.
type ColumnInfo struct {
	Field string
	Type  string
}

// GetTableColumns retrieves the column definitions for a given table.
// Field keeps the database's own casing; Type is lower-cased. A missing
// table yields no columns and no error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	schema, table := splitQualified(tableName)

	if db.Dialector.Name() == DriverSQLite {
		// The table-valued form of PRAGMA takes the table and an optional
		// schema as bound arguments.
		query := "SELECT name AS field, type AS type FROM pragma_table_info(?) ORDER BY cid"
		args := []any{table}
		if schema != "" {
			query = "SELECT name AS field, type AS type FROM pragma_table_info(?, ?) ORDER BY cid"
			args = append(args, schema)
		}
		if err := db.Raw(query, args...).Scan(&columns).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		return lowerTypes(columns), nil
	}

	query := "SELECT column_name AS field, column_type AS type FROM information_schema.columns WHERE table_name = ?"
	args := []any{table}
	if schema != "" {
		query += " AND table_schema = ?"
		args = append(args, schema)
	} else {
		query += " AND table_schema = DATABASE()"
	}
	query += " ORDER BY ordinal_position"

	if err := db.Raw(query, args...).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	return lowerTypes(columns), nil
}

func lowerTypes(columns []ColumnInfo) []ColumnInfo {
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns
}

// splitQualified splits "schema.table" into its parts. Unqualified names
// return an empty schema.
func splitQualified(name string) (string, string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
