package pgtask

import (
	"context"
	"fmt"

	"github.com/villekah/pg-promise/monitor"
)

// DB is the entry point. It owns the driver, options and hook dispatch
// for every query, task and transaction started from it.
type DB struct {
	driver Driver
	opts   Options
	events *notifier
}

// New builds a DB over the given driver. See Options for the
// collaborator and hook configuration.
func New(d Driver, opts Options) *DB {
	if opts.Diagnostics == nil {
		opts.Diagnostics = monitor.New()
	}
	return &DB{
		driver: d,
		opts:   opts,
		events: &notifier{hooks: opts.Hooks, diag: opts.Diagnostics},
	}
}

// Query acquires a connection, runs one query and releases the
// connection, whatever the outcome.
func (db *DB) Query(ctx context.Context, q Query, values []any, m Mask) (any, error) {
	var result any
	err := db.withQueryConn(ctx, func(cc *connCtx) (err error) {
		result, err = db.execShaped(ctx, cc, q, values, m)
		return err
	})
	return result, err
}

// One expects exactly one row.
func (db *DB) One(ctx context.Context, q Query, values ...any) (Row, error) {
	return rowResult(db.Query(ctx, q, values, One))
}

// OneOrNone expects at most one row; nil when there is none.
func (db *DB) OneOrNone(ctx context.Context, q Query, values ...any) (Row, error) {
	return rowResult(db.Query(ctx, q, values, One|None))
}

// Many expects one or more rows.
func (db *DB) Many(ctx context.Context, q Query, values ...any) ([]Row, error) {
	return rowsResult(db.Query(ctx, q, values, Many))
}

// ManyOrNone expects any number of rows, possibly none.
func (db *DB) ManyOrNone(ctx context.Context, q Query, values ...any) ([]Row, error) {
	return rowsResult(db.Query(ctx, q, values, Any))
}

// None expects no rows.
func (db *DB) None(ctx context.Context, q Query, values ...any) error {
	_, err := db.Query(ctx, q, values, None)
	return err
}

// Any places no expectation on the result shape.
func (db *DB) Any(ctx context.Context, q Query, values ...any) (any, error) {
	return db.Query(ctx, q, values, Any)
}

// QueryRaw runs one query and returns the driver's native result.
func (db *DB) QueryRaw(ctx context.Context, q Query, values ...any) (*Result, error) {
	var result *Result
	err := db.withQueryConn(ctx, func(cc *connCtx) (err error) {
		result, err = db.execRaw(ctx, cc, q, values)
		return err
	})
	return result, err
}

// Stream runs one query forwarding rows to fn, returning the number of
// rows forwarded.
func (db *DB) Stream(ctx context.Context, q Query, values []any, fn RowFunc) (int, error) {
	var n int
	err := db.withQueryConn(ctx, func(cc *connCtx) (err error) {
		n, err = db.execStream(ctx, cc, q, values, fn)
		return err
	})
	return n, err
}

// Task borrows a connection, runs body on it and releases the
// connection at completion.
func (db *DB) Task(ctx context.Context, opts TaskOptions, body Body) (any, error) {
	return db.runTask(ctx, nil, opts, body)
}

// Tx runs body inside a transaction on a borrowed connection.
func (db *DB) Tx(ctx context.Context, opts TxOptions, body Body) (any, error) {
	return db.runTx(ctx, nil, opts, body)
}

// Connect acquires a caller-managed connection. The caller must call
// Done to return it to the pool.
func (db *DB) Connect(ctx context.Context) (*Conn, error) {
	h, release, err := db.driver.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not acquire a connection: %w", err)
	}
	cc := &connCtx{db: db}
	if err := cc.connect(h, release); err != nil {
		release()
		return nil, err
	}
	return &Conn{db: db, cc: cc}, nil
}

// withQueryConn runs fn on a freshly acquired, auto-released context.
func (db *DB) withQueryConn(ctx context.Context, fn func(cc *connCtx) error) error {
	h, release, err := db.driver.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("could not acquire a connection: %w", err)
	}
	cc := &connCtx{db: db}
	if err := cc.connect(h, release); err != nil {
		release()
		return err
	}
	defer cc.disconnect()
	return fn(cc)
}

// Conn is a caller-managed connection obtained from DB.Connect.
// Queries, tasks and transactions started from it reuse its handle.
type Conn struct {
	db *DB
	cc *connCtx
}

// Query runs one query on this connection.
func (c *Conn) Query(ctx context.Context, q Query, values []any, m Mask) (any, error) {
	return c.db.execShaped(ctx, c.cc, q, values, m)
}

// One expects exactly one row.
func (c *Conn) One(ctx context.Context, q Query, values ...any) (Row, error) {
	return rowResult(c.Query(ctx, q, values, One))
}

// OneOrNone expects at most one row; nil when there is none.
func (c *Conn) OneOrNone(ctx context.Context, q Query, values ...any) (Row, error) {
	return rowResult(c.Query(ctx, q, values, One|None))
}

// Many expects one or more rows.
func (c *Conn) Many(ctx context.Context, q Query, values ...any) ([]Row, error) {
	return rowsResult(c.Query(ctx, q, values, Many))
}

// ManyOrNone expects any number of rows, possibly none.
func (c *Conn) ManyOrNone(ctx context.Context, q Query, values ...any) ([]Row, error) {
	return rowsResult(c.Query(ctx, q, values, Any))
}

// None expects no rows.
func (c *Conn) None(ctx context.Context, q Query, values ...any) error {
	_, err := c.Query(ctx, q, values, None)
	return err
}

// Task runs a task on this connection. The connection stays open
// afterwards.
func (c *Conn) Task(ctx context.Context, opts TaskOptions, body Body) (any, error) {
	return c.db.runTask(ctx, c.cc, opts, body)
}

// Tx runs a transaction on this connection.
func (c *Conn) Tx(ctx context.Context, opts TxOptions, body Body) (any, error) {
	return c.db.runTx(ctx, c.cc, opts, body)
}

// Done releases the connection. Further queries on this Conn fail with
// ErrNoConnection. Calling Done again is a no-op.
func (c *Conn) Done() {
	c.cc.disconnect()
}
