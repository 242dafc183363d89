/*
Package pqconn implements the connection driver over jmoiron/sqlx and
lib/pq. It hands single pooled connections to the engine and maps pq
error codes onto the shared sentinels.
*/
package pqconn

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"

	"github.com/villekah/pg-promise/pgtask"
	"github.com/villekah/pg-promise/secret"
)

type Config struct {
	Host string
	Port int
	User string
	Pass secret.String
	Name string
	SSL  bool

	// AppName is reported to the server as application_name.
	AppName string

	// ConnectTimeout bounds the initial ping retries. Default 20s.
	ConnectTimeout time.Duration
}

const defaultConnectTimeout = 20 * time.Second

// Driver hands out single connections from an sqlx pool.
type Driver struct {
	db *sqlx.DB
}

// Open connects to postgres and verifies the connection, retrying the
// initial ping with exponential backoff.
func Open(ctx context.Context, cfg Config) (*Driver, error) {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	db, err := sqlx.Open("postgres", dsn(cfg))
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(50)

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Second
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = cfg.ConnectTimeout / 4
	eb.MaxElapsedTime = cfg.ConnectTimeout

	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(eb, ctx))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not open postgres connection: %w", err)
	}

	return &Driver{db: db}, nil
}

func dsn(cfg Config) string {
	params := url.Values{}
	params.Set("connect_timeout", "5")
	if cfg.AppName != "" {
		params.Set("application_name", cfg.AppName)
	}
	if cfg.SSL {
		params.Set("sslmode", "require")
	} else {
		params.Set("sslmode", "disable")
	}
	uri := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Pass.Raw()),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Name,
		RawQuery: params.Encode(),
	}
	return uri.String()
}

// Acquire checks a single connection out of the pool. The returned
// release func returns it.
func (d *Driver) Acquire(ctx context.Context) (pgtask.Handle, pgtask.ReleaseFunc, error) {
	conn, err := d.db.Connx(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return &handle{conn: conn}, func() { _ = conn.Close() }, nil
}

// Ping verifies the pool can reach the server.
func (d *Driver) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Gauges reports pool statistics for metric collection.
func (d *Driver) Gauges() map[string]float64 {
	stats := d.db.Stats()
	return map[string]float64{
		"in_use":               float64(stats.InUse),
		"idle":                 float64(stats.Idle),
		"wait_count":           float64(stats.WaitCount),
		"wait_duration":        float64(stats.WaitDuration / time.Millisecond),
		"max_idle_closed":      float64(stats.MaxIdleClosed),
		"max_idle_time_closed": float64(stats.MaxIdleTimeClosed),
		"max_lifetime_closed":  float64(stats.MaxLifetimeClosed),
	}
}

// Close closes the underlying pool.
func (d *Driver) Close() error {
	return d.db.Close()
}

type handle struct {
	conn *sqlx.Conn
}

func (h *handle) Exec(ctx context.Context, sql string, args []any) (*pgtask.Result, error) {
	rows, err := h.conn.QueryxContext(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	res := &pgtask.Result{}
	res.Columns, err = rows.Columns()
	if err != nil {
		return nil, mapError(err)
	}
	for rows.Next() {
		r := map[string]any{}
		if err := rows.MapScan(r); err != nil {
			return nil, mapError(err)
		}
		res.Rows = append(res.Rows, pgtask.Row(r))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

// Stream forwards rows to fn without materialising the result set.
func (h *handle) Stream(ctx context.Context, sql string, args []any, fn pgtask.RowFunc) error {
	rows, err := h.conn.QueryxContext(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		r := map[string]any{}
		if err := rows.MapScan(r); err != nil {
			return mapError(err)
		}
		if err := fn(pgtask.Row(r)); err != nil {
			return err
		}
	}
	return mapError(rows.Err())
}
