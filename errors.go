package pgcrud

import "fmt"

// ValidationError reports malformed caller input: an empty data set on
// insert/update, a missing WHERE condition on update/delete, or bulk-insert
// rows with mismatched column sets. It is returned before any network call
// and is never worth retrying.
type ValidationError struct {
	Op     string // operation that rejected the input, e.g. "update"
	Table  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("pgcrud: %s %s: %s", e.Op, e.Table, e.Reason)
	}
	return fmt.Sprintf("pgcrud: %s: %s", e.Op, e.Reason)
}

// ConnectionError reports a failure to establish or maintain a database
// connection: initial connect failure, a dead connection detected on
// acquire, or pool exhaustion past the configured acquire timeout.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("pgcrud: %s: connection failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DatabaseError reports a failure during statement execution (constraint
// violation, syntax error, type mismatch). The implicit transaction around
// the statement has been rolled back by the time the caller sees it, and the
// driver-level cause is preserved.
type DatabaseError struct {
	Op    string
	Table string
	Err   error
}

func (e *DatabaseError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("pgcrud: %s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("pgcrud: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
