package pgtask

import "context"

// Row is a single result row keyed by column name.
type Row map[string]any

// Result is the driver's native query result. Raw-mode queries return
// it unshaped.
type Result struct {
	Columns []string
	Rows    []Row
}

// ReleaseFunc returns an acquired connection to its pool.
type ReleaseFunc func()

// Handle is a single acquired connection. Only one query may be in
// flight on a handle at a time; callers sequence their own queries.
type Handle interface {
	Exec(ctx context.Context, sql string, args []any) (*Result, error)
}

// RowFunc receives one row of a streamed result.
type RowFunc func(Row) error

// RowStreamer is implemented by handles that can forward rows without
// materialising the full result set.
type RowStreamer interface {
	Stream(ctx context.Context, sql string, args []any, fn RowFunc) error
}

// Driver acquires connections for the engine. Implementations own
// pooling and the wire protocol; see pqconn and pgxconn.
type Driver interface {
	Acquire(ctx context.Context) (Handle, ReleaseFunc, error)
}

// Formatter interpolates values into query text. Failures surface as
// the query's error.
type Formatter interface {
	FormatQuery(sql string, values []any) (string, error)
	FormatFunc(name string, values []any) (string, error)
}

// KeyConverter rewrites row keys. Applied only to shaped, non-raw,
// non-streamed results when Options.ConvertRowKeys is set.
type KeyConverter interface {
	Convert(rows []Row) []Row
}
