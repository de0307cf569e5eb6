package client

import (
	"context"
	"fmt"

	"github.com/satishbabariya/pgcrud"
	"github.com/satishbabariya/pgcrud/query/executor"
	"github.com/satishbabariya/pgcrud/query/sqlgen"
	"github.com/satishbabariya/pgcrud/runtime/types"
)

// run executes one built statement on a freshly acquired connection, routed
// through the middleware chain.
func (d *Driver) run(ctx context.Context, op, table string, q *sqlgen.Query, shape executor.Shape) (*executor.Result, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer d.release(conn)

	var res *executor.Result
	err = d.runWithMiddleware(ctx, q.SQL, q.Args, func() error {
		var execErr error
		res, execErr = executor.Run(ctx, conn, op, table, q, shape)
		return execErr
	})
	return res, err
}

// Create inserts one row and returns the value of the Returning column, or
// the null Value when no Returning column was requested.
func (d *Driver) Create(ctx context.Context, table string, data sqlgen.Assignments, opts *CreateOptions) (types.Value, error) {
	if opts == nil {
		opts = &CreateOptions{}
	}
	q, err := d.builder.Insert(table, data, opts.Returning)
	if err != nil {
		return types.Null(), err
	}

	shape := executor.ShapeNone
	if opts.Returning != "" {
		shape = executor.ShapeTuples
	}
	res, err := d.run(ctx, "create", table, q, shape)
	if err != nil {
		return types.Null(), err
	}
	if opts.Returning == "" || len(res.Tuples) == 0 {
		return types.Null(), nil
	}
	return res.Tuples[0][0], nil
}

// CreateMany inserts several rows in one transaction. Every row must share
// the column set of the first. With a Returning column the returned slice
// holds one value per inserted row, in input order.
func (d *Driver) CreateMany(ctx context.Context, table string, rows []sqlgen.Assignments, opts *CreateOptions) ([]types.Value, error) {
	if opts == nil {
		opts = &CreateOptions{}
	}
	queries, err := d.builder.InsertMany(table, rows, opts.Returning)
	if err != nil {
		return nil, err
	}

	shape := executor.ShapeNone
	if opts.Returning != "" {
		shape = executor.ShapeTuples
	}

	conn, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer d.release(conn)

	var results []*executor.Result
	err = d.runWithMiddleware(ctx, queries[0].SQL, nil, func() error {
		var execErr error
		results, execErr = executor.RunBatch(ctx, conn, "create many", table, queries, shape)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	if opts.Returning == "" {
		return nil, nil
	}
	returned := make([]types.Value, 0, len(results))
	for _, res := range results {
		if len(res.Tuples) > 0 {
			returned = append(returned, res.Tuples[0][0])
		}
	}
	return returned, nil
}

// Read selects rows in mapping form. A nil or empty condition set means no
// filter.
func (d *Driver) Read(ctx context.Context, table string, where *sqlgen.ConditionSet, opts *ReadOptions) ([]types.Record, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}
	q, err := d.builder.Select(table, sqlgen.SelectOptions{
		Columns:    opts.Columns,
		Where:      where,
		OrderBy:    opts.OrderBy,
		Descending: opts.Descending,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
	if err != nil {
		return nil, err
	}

	res, err := d.run(ctx, "read", table, q, executor.ShapeRecords)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// ReadOne selects a single row. A nil Record (with nil error) means no row
// matched; that is an expected outcome, not a failure.
func (d *Driver) ReadOne(ctx context.Context, table string, where *sqlgen.ConditionSet, opts *ReadOptions) (*types.Record, error) {
	one := ReadOptions{}
	if opts != nil {
		one = *opts
	}
	one.Limit = 1
	one.Offset = 0

	records, err := d.Read(ctx, table, where, &one)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// ReadByID selects the row whose identifier column equals id. Returns nil
// when no such row exists.
func (d *Driver) ReadByID(ctx context.Context, table string, id types.Value, opts *ByIDOptions) (*types.Record, error) {
	if opts == nil {
		opts = &ByIDOptions{}
	}
	where := sqlgen.NewConditionSet().Eq(idColumn(opts.IDColumn), id)
	return d.ReadOne(ctx, table, where, &ReadOptions{Columns: opts.Columns})
}

// MutateResult reports the outcome of an Update or Delete.
type MutateResult struct {
	// Returned holds the Returning column's value from the first affected
	// row; null when no Returning column was requested or nothing matched.
	Returned types.Value
	// RowsAffected counts mutated rows. Only populated when no Returning
	// column was requested.
	RowsAffected int64
}

// Update mutates the rows matching the condition set, which must be
// non-empty.
func (d *Driver) Update(ctx context.Context, table string, data sqlgen.Assignments, where *sqlgen.ConditionSet, opts *MutateOptions) (*MutateResult, error) {
	if opts == nil {
		opts = &MutateOptions{}
	}
	q, err := d.builder.Update(table, data, where, opts.Returning)
	if err != nil {
		return nil, err
	}
	return d.mutate(ctx, "update", table, q, opts.Returning)
}

// UpdateByID mutates the row whose identifier column equals id.
func (d *Driver) UpdateByID(ctx context.Context, table string, id types.Value, data sqlgen.Assignments, opts *MutateByIDOptions) (*MutateResult, error) {
	if opts == nil {
		opts = &MutateByIDOptions{}
	}
	where := sqlgen.NewConditionSet().Eq(idColumn(opts.IDColumn), id)
	return d.Update(ctx, table, data, where, &MutateOptions{Returning: opts.Returning})
}

// Delete removes the rows matching the condition set, which must be
// non-empty.
func (d *Driver) Delete(ctx context.Context, table string, where *sqlgen.ConditionSet, opts *MutateOptions) (*MutateResult, error) {
	if opts == nil {
		opts = &MutateOptions{}
	}
	q, err := d.builder.Delete(table, where, opts.Returning)
	if err != nil {
		return nil, err
	}
	return d.mutate(ctx, "delete", table, q, opts.Returning)
}

// DeleteByID removes the row whose identifier column equals id.
func (d *Driver) DeleteByID(ctx context.Context, table string, id types.Value, opts *MutateByIDOptions) (*MutateResult, error) {
	if opts == nil {
		opts = &MutateByIDOptions{}
	}
	where := sqlgen.NewConditionSet().Eq(idColumn(opts.IDColumn), id)
	return d.Delete(ctx, table, where, &MutateOptions{Returning: opts.Returning})
}

func (d *Driver) mutate(ctx context.Context, op, table string, q *sqlgen.Query, returning string) (*MutateResult, error) {
	shape := executor.ShapeNone
	if returning != "" {
		shape = executor.ShapeTuples
	}
	res, err := d.run(ctx, op, table, q, shape)
	if err != nil {
		return nil, err
	}

	out := &MutateResult{Returned: types.Null()}
	if returning != "" {
		if len(res.Tuples) > 0 {
			out.Returned = res.Tuples[0][0]
			out.RowsAffected = int64(len(res.Tuples))
		}
	} else {
		out.RowsAffected = res.RowsAffected
	}
	return out, nil
}

// Count returns the number of rows matching the condition set; nil means
// count the whole table.
func (d *Driver) Count(ctx context.Context, table string, where *sqlgen.ConditionSet) (int64, error) {
	q, err := d.builder.Count(table, where)
	if err != nil {
		return 0, err
	}
	res, err := d.run(ctx, "count", table, q, executor.ShapeTuples)
	if err != nil {
		return 0, err
	}
	if len(res.Tuples) == 0 {
		return 0, nil
	}
	n, ok := res.Tuples[0][0].Int()
	if !ok {
		return 0, &pgcrud.DatabaseError{Op: "count", Table: table, Err: fmt.Errorf("unexpected count result %s", res.Tuples[0][0])}
	}
	return n, nil
}

// Exists reports whether any row matches the condition set, which must be
// non-empty.
func (d *Driver) Exists(ctx context.Context, table string, where *sqlgen.ConditionSet) (bool, error) {
	q, err := d.builder.Exists(table, where)
	if err != nil {
		return false, err
	}
	res, err := d.run(ctx, "exists", table, q, executor.ShapeTuples)
	if err != nil {
		return false, err
	}
	if len(res.Tuples) == 0 {
		return false, nil
	}
	b, ok := res.Tuples[0][0].Bool()
	if !ok {
		return false, &pgcrud.DatabaseError{Op: "exists", Table: table, Err: fmt.Errorf("unexpected exists result %s", res.Tuples[0][0])}
	}
	return b, nil
}

// ExecuteQuery runs arbitrary SQL with positional arguments, bypassing the
// statement builder. The caller is responsible for placeholder correctness.
func (d *Driver) ExecuteQuery(ctx context.Context, sqlText string, args []types.Value, opts *QueryOptions) (*executor.Result, error) {
	if opts == nil {
		opts = &QueryOptions{}
	}

	shape := executor.ShapeTuples
	if opts.AsRecords {
		shape = executor.ShapeRecords
	}
	if opts.NoFetch {
		shape = executor.ShapeNone
	}

	q := &sqlgen.Query{SQL: sqlText, Args: argList(args)}
	return d.run(ctx, "execute", "", q, shape)
}

// ExecuteMany runs one SQL string once per argument set, all in a single
// transaction. No results are retrieved.
func (d *Driver) ExecuteMany(ctx context.Context, sqlText string, argSets [][]types.Value) error {
	if len(argSets) == 0 {
		return &pgcrud.ValidationError{Op: "execute many", Reason: "argument sets must not be empty"}
	}

	sets := make([][]interface{}, len(argSets))
	for i, args := range argSets {
		sets[i] = argList(args)
	}

	conn, err := d.acquire(ctx)
	if err != nil {
		return err
	}
	defer d.release(conn)

	return d.runWithMiddleware(ctx, sqlText, nil, func() error {
		return executor.RunMany(ctx, conn, "execute many", sqlText, sets)
	})
}

func argList(args []types.Value) []interface{} {
	if len(args) == 0 {
		return nil
	}
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = a.Arg()
	}
	return out
}
