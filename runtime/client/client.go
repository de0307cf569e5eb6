// Package client provides the public pgcrud driver: connection lifecycle,
// typed CRUD operations and raw query execution over PostgreSQL.
package client

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/satishbabariya/pgcrud"
	"github.com/satishbabariya/pgcrud/query/sqlgen"
	"github.com/satishbabariya/pgcrud/runtime/config"
)

// Driver is the database access handle.
//
// In single-connection mode (the default) it owns one lazily established
// connection; that connection is stateful, so a Driver must not be shared
// across goroutines without external locking. In pool mode (Config.UsePool)
// every operation checks a connection out of a bounded pool and concurrent
// use is safe up to PoolMaxConns; callers beyond that bound wait up to
// Config.AcquireTimeout and then fail with a ConnectionError.
type Driver struct {
	cfg         *config.Config
	builder     *sqlgen.Builder
	middlewares []Middleware

	mu   sync.Mutex
	db   *sql.DB
	conn *sql.Conn // dedicated connection, single mode only
}

// New creates a Driver from the given configuration. No connection is
// established until Connect or the first operation.
func New(cfg *config.Config) *Driver {
	return &Driver{
		cfg:     cfg,
		builder: sqlgen.NewBuilder(),
	}
}

// NewFromDB creates a Driver on top of an already opened database handle.
// The caller keeps ownership of db; Disconnect will not close it.
func NewFromDB(cfg *config.Config, db *sql.DB) *Driver {
	d := New(cfg)
	d.db = db
	return d
}

// Connect establishes the database handle and verifies it with a ping.
// Idempotent: connecting an already connected driver is a no-op.
func (d *Driver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectLocked(ctx)
}

func (d *Driver) connectLocked(ctx context.Context) error {
	if d.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", d.cfg.DSN())
	if err != nil {
		return &pgcrud.ConnectionError{Op: "connect", Err: err}
	}

	if d.cfg.UsePool {
		db.SetMaxOpenConns(d.cfg.PoolMaxConns)
		db.SetMaxIdleConns(d.cfg.PoolMinConns)
	} else {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &pgcrud.ConnectionError{Op: "connect", Err: err}
	}

	d.db = db
	return nil
}

// Disconnect closes the dedicated connection and the database handle.
// Idempotent: disconnecting a disconnected driver is a no-op.
func (d *Driver) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	if err != nil {
		return &pgcrud.ConnectionError{Op: "disconnect", Err: err}
	}
	return nil
}

// acquire checks out the connection for one operation, connecting lazily if
// the driver has never connected.
//
// Single mode returns the dedicated connection after a liveness probe; a
// dead connection gets exactly one transparent reconnect attempt before a
// ConnectionError surfaces. Pool mode checks a connection out of the pool,
// waiting at most Config.AcquireTimeout for one to free up.
func (d *Driver) acquire(ctx context.Context) (*sql.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		if err := d.connectLocked(ctx); err != nil {
			return nil, err
		}
	}

	if d.cfg.UsePool {
		acquireCtx := ctx
		if d.cfg.AcquireTimeout > 0 {
			var cancel context.CancelFunc
			acquireCtx, cancel = context.WithTimeout(ctx, d.cfg.AcquireTimeout)
			defer cancel()
		}
		conn, err := d.db.Conn(acquireCtx)
		if err != nil {
			return nil, &pgcrud.ConnectionError{Op: "acquire", Err: err}
		}
		return conn, nil
	}

	if d.conn == nil {
		conn, err := d.db.Conn(ctx)
		if err != nil {
			return nil, &pgcrud.ConnectionError{Op: "acquire", Err: err}
		}
		d.conn = conn
		return d.conn, nil
	}

	// Liveness probe with one reconnect retry.
	if err := d.conn.PingContext(ctx); err != nil {
		d.conn.Close()
		d.conn = nil
		conn, cerr := d.db.Conn(ctx)
		if cerr != nil {
			return nil, &pgcrud.ConnectionError{Op: "acquire", Err: cerr}
		}
		if cerr := conn.PingContext(ctx); cerr != nil {
			conn.Close()
			return nil, &pgcrud.ConnectionError{Op: "acquire", Err: cerr}
		}
		d.conn = conn
	}
	return d.conn, nil
}

// release returns a pool connection to the idle set. In single mode the
// dedicated connection stays checked out, so release is a no-op.
func (d *Driver) release(conn *sql.Conn) {
	if d.cfg.UsePool {
		conn.Close()
	}
}

// WithDriver runs fn with a connected Driver and guarantees Disconnect on
// every exit path.
func WithDriver(ctx context.Context, cfg *config.Config, fn func(*Driver) error) (err error) {
	d := New(cfg)
	if err := d.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if derr := d.Disconnect(); derr != nil && err == nil {
			err = derr
		}
	}()
	return fn(d)
}
