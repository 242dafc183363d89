// Package sqlgen generates common statements (multi-row inserts,
// updates) as $n-placeholder SQL with bound args, for execution
// through a driver's native substitution.
package sqlgen

import (
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Insert renders a multi-row INSERT for the given columns. Every row
// must supply a value for every column.
func Insert(table string, columns []string, rows []map[string]any) (string, []any, error) {
	if len(columns) == 0 {
		return "", nil, errors.New("at least one column is required")
	}
	if len(rows) == 0 {
		return "", nil, errors.New("at least one row is required")
	}

	b := sq.Insert(table).Columns(columns...).PlaceholderFormat(sq.Dollar)
	for i, row := range rows {
		values := make([]any, len(columns))
		for j, col := range columns {
			v, ok := row[col]
			if !ok {
				return "", nil, fmt.Errorf("row %d has no value for column %q", i, col)
			}
			values[j] = v
		}
		b = b.Values(values...)
	}
	return b.ToSql()
}

// Update renders an UPDATE setting the given columns, filtered by
// equality on the where map when present.
func Update(table string, set map[string]any, where map[string]any) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, errors.New("at least one column to set is required")
	}

	b := sq.Update(table).SetMap(set).PlaceholderFormat(sq.Dollar)
	if len(where) > 0 {
		b = b.Where(sq.Eq(where))
	}
	return b.ToSql()
}
