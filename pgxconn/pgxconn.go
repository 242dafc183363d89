/*
Package pgxconn implements the connection driver over jackc/pgx's
connection pool. It is the pgx counterpart of pqconn.
*/
package pgxconn

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/villekah/pg-promise/pgtask"
)

// Driver hands out single connections from a pgx pool.
type Driver struct {
	pool *pgxpool.Pool
}

// Open connects a pool using a postgres URL or DSN string.
func Open(ctx context.Context, url string) (*Driver, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse postgres config: %w", err)
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not connect postgres pool: %w", err)
	}
	return &Driver{pool: pool}, nil
}

// Acquire checks a single connection out of the pool.
func (d *Driver) Acquire(ctx context.Context) (pgtask.Handle, pgtask.ReleaseFunc, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return &handle{conn: conn}, conn.Release, nil
}

// Ping verifies the pool can reach the server.
func (d *Driver) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (d *Driver) Close() {
	d.pool.Close()
}

type handle struct {
	conn *pgxpool.Conn
}

func (h *handle) Exec(ctx context.Context, sql string, args []any) (*pgtask.Result, error) {
	rows, err := h.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = string(fd.Name)
	}

	res := &pgtask.Result{Columns: cols}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, mapError(err)
		}
		r := make(pgtask.Row, len(cols))
		for i, col := range cols {
			r[col] = values[i]
		}
		res.Rows = append(res.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

// Stream forwards rows to fn without materialising the result set.
func (h *handle) Stream(ctx context.Context, sql string, args []any, fn pgtask.RowFunc) error {
	rows, err := h.conn.Query(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = string(fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return mapError(err)
		}
		r := make(pgtask.Row, len(cols))
		for i, col := range cols {
			r[col] = values[i]
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return mapError(rows.Err())
}
