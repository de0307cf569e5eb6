package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/pgcrud"
)

// Query is a built statement: SQL text with $n placeholders and the
// argument list in placeholder order. len(Args) always equals the number of
// placeholders in SQL.
type Query struct {
	SQL  string
	Args []interface{}
}

// SelectOptions narrows a Select statement. All fields are optional.
type SelectOptions struct {
	Columns    []string      // projection; nil means *
	Where      *ConditionSet // nil or empty means no filter
	OrderBy    string        // order column; empty means unordered
	Descending bool          // only meaningful with OrderBy
	Limit      int           // 0 means no limit
	Offset     int           // 0 means no offset
}

// Builder composes PostgreSQL statements from table names, mutation sets
// and condition sets. It is stateless and safe for concurrent use.
type Builder struct{}

// NewBuilder creates a statement builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Insert builds INSERT INTO table (cols...) VALUES ($1...) [RETURNING r].
func (b *Builder) Insert(table string, data Assignments, returning string) (*Query, error) {
	if err := checkTable("insert", table); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &pgcrud.ValidationError{Op: "insert", Table: table, Reason: "data must not be empty"}
	}

	columns := data.Columns()
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		if col == "" {
			return nil, &pgcrud.ValidationError{Op: "insert", Table: table, Reason: "assignment with empty column name"}
		}
		quoted[i] = quoteIdentifier(col)
		placeholders[i] = placeholder(i + 1)
		args[i] = data[col].Arg()
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	if returning != "" {
		sql += " RETURNING " + quoteIdentifier(returning)
	}

	return &Query{SQL: sql, Args: args}, nil
}

// InsertMany builds one Insert per row. Every row must carry exactly the
// column set of the first row.
func (b *Builder) InsertMany(table string, rows []Assignments, returning string) ([]*Query, error) {
	if err := checkTable("insert many", table); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &pgcrud.ValidationError{Op: "insert many", Table: table, Reason: "rows must not be empty"}
	}

	first := rows[0].Columns()
	queries := make([]*Query, 0, len(rows))
	for i, row := range rows {
		if !sameColumns(first, row.Columns()) {
			return nil, &pgcrud.ValidationError{
				Op:     "insert many",
				Table:  table,
				Reason: fmt.Sprintf("row %d has a different column set than row 0", i),
			}
		}
		q, err := b.Insert(table, row, returning)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// Select builds SELECT cols FROM table [WHERE ...] [ORDER BY col] [LIMIT n]
// [OFFSET m]. Limit and offset are bound as parameters.
func (b *Builder) Select(table string, opts SelectOptions) (*Query, error) {
	if err := checkTable("read", table); err != nil {
		return nil, err
	}

	cols := "*"
	if len(opts.Columns) > 0 {
		quoted := make([]string, len(opts.Columns))
		for i, c := range opts.Columns {
			if c == "" {
				return nil, &pgcrud.ValidationError{Op: "read", Table: table, Reason: "projection with empty column name"}
			}
			quoted[i] = quoteIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, fmt.Sprintf("SELECT %s FROM %s", cols, quoteIdentifier(table)))

	whereSQL, whereArgs, err := buildWhere("read", table, opts.Where, &argIndex)
	if err != nil {
		return nil, err
	}
	if whereSQL != "" {
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	if opts.OrderBy != "" {
		direction := "ASC"
		if opts.Descending {
			direction = "DESC"
		}
		parts = append(parts, fmt.Sprintf("ORDER BY %s %s", quoteIdentifier(opts.OrderBy), direction))
	}

	if opts.Limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %s", placeholder(argIndex)))
		args = append(args, int64(opts.Limit))
		argIndex++
	}

	if opts.Offset > 0 {
		parts = append(parts, fmt.Sprintf("OFFSET %s", placeholder(argIndex)))
		args = append(args, int64(opts.Offset))
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}, nil
}

// Update builds UPDATE table SET c1=$1,... WHERE ... [RETURNING r]. The
// condition set must be non-empty: an unfiltered UPDATE mutates the whole
// table and is rejected before touching the database.
func (b *Builder) Update(table string, data Assignments, where *ConditionSet, returning string) (*Query, error) {
	if err := checkTable("update", table); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &pgcrud.ValidationError{Op: "update", Table: table, Reason: "data must not be empty"}
	}
	if where.IsEmpty() {
		return nil, &pgcrud.ValidationError{Op: "update", Table: table, Reason: "missing WHERE condition"}
	}

	columns := data.Columns()
	setParts := make([]string, len(columns))
	args := make([]interface{}, 0, len(columns)+where.Len())
	argIndex := 1
	for i, col := range columns {
		if col == "" {
			return nil, &pgcrud.ValidationError{Op: "update", Table: table, Reason: "assignment with empty column name"}
		}
		setParts[i] = fmt.Sprintf("%s = %s", quoteIdentifier(col), placeholder(argIndex))
		args = append(args, data[col].Arg())
		argIndex++
	}

	whereSQL, whereArgs, err := buildWhere("update", table, where, &argIndex)
	if err != nil {
		return nil, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quoteIdentifier(table), strings.Join(setParts, ", "), whereSQL)
	if returning != "" {
		sql += " RETURNING " + quoteIdentifier(returning)
	}

	return &Query{SQL: sql, Args: args}, nil
}

// Delete builds DELETE FROM table WHERE ... [RETURNING r]. As with Update,
// an empty condition set is rejected.
func (b *Builder) Delete(table string, where *ConditionSet, returning string) (*Query, error) {
	if err := checkTable("delete", table); err != nil {
		return nil, err
	}
	if where.IsEmpty() {
		return nil, &pgcrud.ValidationError{Op: "delete", Table: table, Reason: "missing WHERE condition"}
	}

	argIndex := 1
	whereSQL, args, err := buildWhere("delete", table, where, &argIndex)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdentifier(table), whereSQL)
	if returning != "" {
		sql += " RETURNING " + quoteIdentifier(returning)
	}

	return &Query{SQL: sql, Args: args}, nil
}

// Count builds SELECT COUNT(*) FROM table [WHERE ...].
func (b *Builder) Count(table string, where *ConditionSet) (*Query, error) {
	if err := checkTable("count", table); err != nil {
		return nil, err
	}

	argIndex := 1
	whereSQL, args, err := buildWhere("count", table, where, &argIndex)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdentifier(table))
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
	}

	return &Query{SQL: sql, Args: args}, nil
}

// Exists builds SELECT EXISTS(SELECT 1 FROM table WHERE ...). The condition
// set must be non-empty.
func (b *Builder) Exists(table string, where *ConditionSet) (*Query, error) {
	if err := checkTable("exists", table); err != nil {
		return nil, err
	}
	if where.IsEmpty() {
		return nil, &pgcrud.ValidationError{Op: "exists", Table: table, Reason: "missing WHERE condition"}
	}

	argIndex := 1
	whereSQL, args, err := buildWhere("exists", table, where, &argIndex)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s)", quoteIdentifier(table), whereSQL)
	return &Query{SQL: sql, Args: args}, nil
}

func checkTable(op, table string) error {
	if table == "" {
		return &pgcrud.ValidationError{Op: op, Reason: "table name must not be empty"}
	}
	return nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
