package pgtask

import "context"

// countingRows decorates a row receiver, counting rows as it forwards
// them.
type countingRows struct {
	next RowFunc
	n    int
}

func (c *countingRows) forward(r Row) error {
	c.n++
	return c.next(r)
}

// execStream runs q forwarding rows to fn through a counting decorator.
// Handles that cannot stream fall back to a materialised result.
func (db *DB) execStream(ctx context.Context, cc *connCtx, q Query, values []any, fn RowFunc) (n int, err error) {
	var sql string
	defer func() {
		if err != nil {
			db.events.error(err, ErrorEvent{SQL: sql, Values: values, Info: cc.info})
		}
	}()

	if !cc.connected() {
		return 0, ErrNoConnection
	}

	sql, args, err := db.finalize(q, values)
	if err != nil {
		return 0, err
	}

	ev := &QueryEvent{SQL: sql, Values: values, Info: cc.info}
	if err := db.events.query(ev); err != nil {
		return 0, err
	}

	counter := &countingRows{next: fn}
	if s, ok := cc.handle.(RowStreamer); ok {
		err = s.Stream(ctx, sql, args, counter.forward)
		return counter.n, err
	}

	res, err := cc.handle.Exec(ctx, sql, args)
	if err != nil {
		return 0, err
	}
	for _, r := range res.Rows {
		if err := counter.forward(r); err != nil {
			return counter.n, err
		}
	}
	return counter.n, nil
}
