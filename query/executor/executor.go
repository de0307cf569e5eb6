// Package executor runs built statements against an acquired connection
// inside an implicit transaction and shapes the result rows.
package executor

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/pgcrud"
	"github.com/satishbabariya/pgcrud/query/sqlgen"
	"github.com/satishbabariya/pgcrud/runtime/types"
)

// Shape selects the form of the shaped result set.
type Shape int

const (
	// ShapeRecords shapes each row as a column-name→value Record.
	ShapeRecords Shape = iota
	// ShapeTuples shapes each row as an ordered value sequence.
	ShapeTuples
	// ShapeNone skips result retrieval and reports affected rows only.
	ShapeNone
)

// Result holds the outcome of one executed statement. Records or Tuples is
// populated according to the requested Shape; RowsAffected is meaningful
// only for ShapeNone.
type Result struct {
	Records      []types.Record
	Tuples       []types.Tuple
	RowsAffected int64
}

// Run executes one built statement in its own transaction: begin, execute,
// commit. Any failure rolls the transaction back and surfaces a
// DatabaseError carrying the driver cause; the connection is left clean for
// reuse either way.
func Run(ctx context.Context, conn *sql.Conn, op, table string, q *sqlgen.Query, shape Shape) (*Result, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &pgcrud.DatabaseError{Op: op, Table: table, Err: err}
	}

	res, err := runInTx(ctx, tx, q, shape)
	if err != nil {
		tx.Rollback()
		return nil, &pgcrud.DatabaseError{Op: op, Table: table, Err: err}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, &pgcrud.DatabaseError{Op: op, Table: table, Err: err}
	}
	return res, nil
}

// RunBatch executes several built statements in one transaction, in order.
// The first failure rolls back everything already executed.
func RunBatch(ctx context.Context, conn *sql.Conn, op, table string, queries []*sqlgen.Query, shape Shape) ([]*Result, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &pgcrud.DatabaseError{Op: op, Table: table, Err: err}
	}

	results := make([]*Result, 0, len(queries))
	for _, q := range queries {
		res, err := runInTx(ctx, tx, q, shape)
		if err != nil {
			tx.Rollback()
			return nil, &pgcrud.DatabaseError{Op: op, Table: table, Err: err}
		}
		results = append(results, res)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, &pgcrud.DatabaseError{Op: op, Table: table, Err: err}
	}
	return results, nil
}

// RunMany executes one SQL string once per argument set, prepared once,
// all inside a single transaction. No results are retrieved.
func RunMany(ctx context.Context, conn *sql.Conn, op string, sqlText string, argSets [][]interface{}) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return &pgcrud.DatabaseError{Op: op, Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, sqlText)
	if err != nil {
		tx.Rollback()
		return &pgcrud.DatabaseError{Op: op, Err: err}
	}
	defer stmt.Close()

	for _, args := range argSets {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return &pgcrud.DatabaseError{Op: op, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return &pgcrud.DatabaseError{Op: op, Err: err}
	}
	return nil
}

func runInTx(ctx context.Context, tx *sql.Tx, q *sqlgen.Query, shape Shape) (*Result, error) {
	if shape == ShapeNone {
		res, err := tx.ExecContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return nil, err
		}
		// Some statements report no row count; treat that as zero.
		affected, err := res.RowsAffected()
		if err != nil {
			affected = 0
		}
		return &Result{RowsAffected: affected}, nil
	}

	rows, err := tx.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return shapeRows(rows, shape)
}

// shapeRows drains a result set into the requested row form.
func shapeRows(rows *sql.Rows, shape Shape) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for rows.Next() {
		raw := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		values := make([]types.Value, len(columns))
		for i, src := range raw {
			v, err := types.FromDriver(src)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		switch shape {
		case ShapeRecords:
			cols := make([]string, len(columns))
			copy(cols, columns)
			result.Records = append(result.Records, types.NewRecord(cols, values))
		case ShapeTuples:
			result.Tuples = append(result.Tuples, types.Tuple(values))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
