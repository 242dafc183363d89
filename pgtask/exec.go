package pgtask

import (
	"fmt"
	"strings"

	"context"
)

// NoValue is resolved by a None-masked query that returned no rows and
// whose mask allows neither a nil row nor an empty slice.
var NoValue = noValue{}

type noValue struct{}

func (noValue) String() string { return "no value" }

// finalize classifies the query descriptor and produces the SQL text
// and driver-native args to execute. Prepared statements always use
// native substitution; otherwise the Formatter interpolates unless the
// caller opted into NativeFormatting.
func (db *DB) finalize(q Query, values []any) (sql string, args []any, err error) {
	switch q := q.(type) {
	case textQuery:
		if strings.TrimSpace(q.sql) == "" {
			return "", nil, fmt.Errorf("%w: empty query text", ErrFormat)
		}
		if db.opts.NativeFormatting {
			return q.sql, values, nil
		}
		if db.opts.Formatter == nil {
			return "", nil, fmt.Errorf("%w: no formatter configured", ErrFormat)
		}
		sql, err = db.opts.Formatter.FormatQuery(q.sql, values)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return sql, nil, nil
	case preparedQuery:
		if strings.TrimSpace(q.name) == "" || strings.TrimSpace(q.text) == "" {
			return "", nil, fmt.Errorf("%w: a prepared statement requires a name and text", ErrFormat)
		}
		return q.text, values, nil
	case funcQuery:
		if strings.TrimSpace(q.name) == "" {
			return "", nil, fmt.Errorf("%w: a function call requires a name", ErrFormat)
		}
		if db.opts.Formatter == nil {
			return "", nil, fmt.Errorf("%w: no formatter configured", ErrFormat)
		}
		sql, err = db.opts.Formatter.FormatFunc(q.name, values)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return sql, nil, nil
	case nil:
		return "", nil, fmt.Errorf("%w: a query is required", ErrFormat)
	default:
		return "", nil, fmt.Errorf("%w: unknown query descriptor %T", ErrFormat, q)
	}
}

// run is the shared execution path: connection check, finalize, the
// veto-capable query hook, then exactly one driver call. Every error
// is reported to the error hook with the original values preserved.
func (db *DB) run(ctx context.Context, cc *connCtx, q Query, values []any, m Mask) (res *Result, err error) {
	var sql string
	defer func() {
		if err != nil {
			db.events.error(err, ErrorEvent{SQL: sql, Values: values, Info: cc.info})
		}
	}()

	if !cc.connected() {
		return nil, ErrNoConnection
	}

	sql, args, err := db.finalize(q, values)
	if err != nil {
		return nil, err
	}

	ev := &QueryEvent{SQL: sql, Values: values, Mask: m, Info: cc.info}
	if err := db.events.query(ev); err != nil {
		return nil, err
	}

	return cc.handle.Exec(ctx, sql, args)
}

// execShaped runs q and applies the result mask.
func (db *DB) execShaped(ctx context.Context, cc *connCtx, q Query, values []any, m Mask) (any, error) {
	if m == 0 {
		m = Any
	}
	if err := m.validate(); err != nil {
		db.events.error(err, ErrorEvent{Values: values, Info: cc.info})
		return nil, err
	}

	res, err := db.run(ctx, cc, q, values, m)
	if err != nil {
		return nil, err
	}

	rows := res.Rows
	if db.opts.ConvertRowKeys && db.opts.KeyConverter != nil {
		rows = db.opts.KeyConverter.Convert(rows)
	}

	shaped, err := shape(rows, m)
	if err != nil {
		db.events.error(err, ErrorEvent{Values: values, Info: cc.info})
		return nil, err
	}
	return shaped, nil
}

// execRaw runs q and returns the driver's native result, bypassing
// shaping and key conversion.
func (db *DB) execRaw(ctx context.Context, cc *connCtx, q Query, values []any) (*Result, error) {
	return db.run(ctx, cc, q, values, 0)
}

// shape applies the result mask to the returned rows.
func shape(rows []Row, m Mask) (any, error) {
	if len(rows) == 0 {
		if m&None == 0 {
			return nil, ErrNoData
		}
		switch {
		case m&One != 0:
			return nil, nil
		case m&Many != 0:
			return []Row{}, nil
		default:
			return NoValue, nil
		}
	}
	if len(rows) > 1 && m&One != 0 {
		return nil, ErrMultiple
	}
	if m&(One|Many) == 0 {
		return nil, ErrUnexpectedData
	}
	if m&Many != 0 {
		return rows, nil
	}
	return rows[0], nil
}
