// Package sqltest provides an in-memory database/sql driver stub for
// driver-level tests: scripted results per SQL text and a call journal for
// asserting transaction discipline.
package sqltest

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
	"testing"
)

func init() {
	sql.Register("pgcrud-sqltest", stubDriver{})
}

var (
	registryMu sync.Mutex
	registry   = map[string]*StubDB{}
)

// Result scripts the outcome of one SQL text.
type Result struct {
	Columns      []string
	Rows         [][]driver.Value
	RowsAffected int64
	Err          error
}

// StubDB is the scripted backend shared by every connection opened against
// one test's DSN.
type StubDB struct {
	mu      sync.Mutex
	results map[string]Result
	journal []string
	// CommitErr makes every Commit fail.
	CommitErr error
}

// New registers a fresh StubDB under the test's name and opens a
// database/sql handle on it.
func New(t *testing.T) (*sql.DB, *StubDB) {
	t.Helper()

	stub := &StubDB{results: map[string]Result{}}
	registryMu.Lock()
	registry[t.Name()] = stub
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, t.Name())
		registryMu.Unlock()
	})

	db, err := sql.Open("pgcrud-sqltest", t.Name())
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, stub
}

// Script sets the result returned when sqlText executes.
func (s *StubDB) Script(sqlText string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[sqlText] = r
}

// Journal returns the recorded call sequence (begin, exec/query with SQL,
// commit, rollback).
func (s *StubDB) Journal() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.journal))
	copy(out, s.journal)
	return out
}

func (s *StubDB) record(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, entry)
}

func (s *StubDB) lookup(sqlText string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[sqlText]
	if !ok {
		return Result{}, fmt.Errorf("sqltest: no scripted result for %q", sqlText)
	}
	return r, nil
}

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	stub, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("sqltest: unknown stub %q", name)
	}
	return &stubConn{db: stub}, nil
}

type stubConn struct {
	db *StubDB
}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{db: c.db, query: query}, nil
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	c.db.record("begin")
	return &stubTx{db: c.db}, nil
}

type stubTx struct {
	db *StubDB
}

func (t *stubTx) Commit() error {
	t.db.record("commit")
	return t.db.CommitErr
}

func (t *stubTx) Rollback() error {
	t.db.record("rollback")
	return nil
}

type stubStmt struct {
	db    *StubDB
	query string
}

func (s *stubStmt) Close() error { return nil }

// NumInput reports -1 so database/sql skips argument count checks.
func (s *stubStmt) NumInput() int { return -1 }

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.db.record("exec " + s.query)
	r, err := s.db.lookup(s.query)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return driver.RowsAffected(r.RowsAffected), nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.db.record("query " + s.query)
	r, err := s.db.lookup(s.query)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &stubRows{columns: r.Columns, rows: r.Rows}, nil
}

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *stubRows) Columns() []string { return r.columns }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
