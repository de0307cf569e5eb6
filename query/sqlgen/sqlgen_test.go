package sqlgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pgcrud"
	"github.com/satishbabariya/pgcrud/runtime/types"
)

var placeholderPattern = regexp.MustCompile(`\$\d+`)

func TestInsert(t *testing.T) {
	b := NewBuilder()

	q, err := b.Insert("users", Assignments{
		"name":  types.Text("Ivan"),
		"email": types.Text("ivan@x.com"),
		"age":   types.Int(30),
	}, "id")
	require.NoError(t, err)

	// Columns are applied in sorted order.
	assert.Equal(t, `INSERT INTO "users" ("age", "email", "name") VALUES ($1, $2, $3) RETURNING "id"`, q.SQL)
	assert.Equal(t, []interface{}{int64(30), "ivan@x.com", "Ivan"}, q.Args)
}

func TestInsertWithoutReturning(t *testing.T) {
	b := NewBuilder()

	q, err := b.Insert("users", Assignments{"name": types.Text("Ivan")}, "")
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES ($1)`, q.SQL)
	assert.Equal(t, []interface{}{"Ivan"}, q.Args)
}

func TestInsertEmptyData(t *testing.T) {
	b := NewBuilder()

	_, err := b.Insert("users", Assignments{}, "id")
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "insert", verr.Op)
	assert.Equal(t, "users", verr.Table)
}

func TestInsertNullValue(t *testing.T) {
	b := NewBuilder()

	q, err := b.Insert("users", Assignments{"notes": types.Null()}, "")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil}, q.Args)
}

func TestInsertMany(t *testing.T) {
	b := NewBuilder()

	queries, err := b.InsertMany("users", []Assignments{
		{"name": types.Text("Ivan"), "age": types.Int(30)},
		{"name": types.Text("Olga"), "age": types.Int(28)},
	}, "id")
	require.NoError(t, err)
	require.Len(t, queries, 2)

	for _, q := range queries {
		assert.Equal(t, `INSERT INTO "users" ("age", "name") VALUES ($1, $2) RETURNING "id"`, q.SQL)
	}
	assert.Equal(t, []interface{}{int64(30), "Ivan"}, queries[0].Args)
	assert.Equal(t, []interface{}{int64(28), "Olga"}, queries[1].Args)
}

func TestInsertManyMismatchedColumns(t *testing.T) {
	b := NewBuilder()

	_, err := b.InsertMany("users", []Assignments{
		{"name": types.Text("Ivan")},
		{"email": types.Text("olga@x.com")},
	}, "")
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "row 1")
}

func TestInsertManyEmpty(t *testing.T) {
	b := NewBuilder()

	_, err := b.InsertMany("users", nil, "")
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSelectBare(t *testing.T) {
	b := NewBuilder()

	q, err := b.Select("users", SelectOptions{})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users"`, q.SQL)
	assert.Empty(t, q.Args)
}

func TestSelectFull(t *testing.T) {
	b := NewBuilder()

	where := NewConditionSet().
		Eq("status", types.Text("active")).
		In("role", types.Text("admin"), types.Text("editor"))

	q, err := b.Select("users", SelectOptions{
		Columns:    []string{"id", "name"},
		Where:      where,
		OrderBy:    "name",
		Descending: true,
		Limit:      10,
		Offset:     20,
	})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "status" = $1 AND "role" IN ($2, $3) ORDER BY "name" DESC LIMIT $4 OFFSET $5`,
		q.SQL)
	assert.Equal(t, []interface{}{"active", "admin", "editor", int64(10), int64(20)}, q.Args)
}

func TestSelectOrderAscending(t *testing.T) {
	b := NewBuilder()

	q, err := b.Select("users", SelectOptions{OrderBy: "age"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" ORDER BY "age" ASC`, q.SQL)
}

func TestUpdate(t *testing.T) {
	b := NewBuilder()

	where := NewConditionSet().Eq("id", types.Int(7))
	q, err := b.Update("users", Assignments{"age": types.Int(31)}, where, "id")
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "users" SET "age" = $1 WHERE "id" = $2 RETURNING "id"`, q.SQL)
	assert.Equal(t, []interface{}{int64(31), int64(7)}, q.Args)
}

func TestUpdateMissingWhere(t *testing.T) {
	b := NewBuilder()

	for _, where := range []*ConditionSet{nil, NewConditionSet()} {
		_, err := b.Update("users", Assignments{"age": types.Int(31)}, where, "")
		var verr *pgcrud.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Reason, "WHERE")
	}
}

func TestUpdateEmptyData(t *testing.T) {
	b := NewBuilder()

	_, err := b.Update("users", Assignments{}, NewConditionSet().Eq("id", types.Int(1)), "")
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDelete(t *testing.T) {
	b := NewBuilder()

	where := NewConditionSet().In("id", types.Int(1), types.Int(2), types.Int(3))
	q, err := b.Delete("users", where, "id")
	require.NoError(t, err)

	assert.Equal(t, `DELETE FROM "users" WHERE "id" IN ($1, $2, $3) RETURNING "id"`, q.SQL)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, q.Args)
}

func TestDeleteMissingWhere(t *testing.T) {
	b := NewBuilder()

	_, err := b.Delete("users", NewConditionSet(), "")
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCount(t *testing.T) {
	b := NewBuilder()

	q, err := b.Count("users", nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "users"`, q.SQL)

	q, err = b.Count("users", NewConditionSet().Eq("age", types.Int(30)))
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE "age" = $1`, q.SQL)
	assert.Equal(t, []interface{}{int64(30)}, q.Args)
}

func TestExists(t *testing.T) {
	b := NewBuilder()

	q, err := b.Exists("users", NewConditionSet().Eq("email", types.Text("ivan@x.com")))
	require.NoError(t, err)
	assert.Equal(t, `SELECT EXISTS(SELECT 1 FROM "users" WHERE "email" = $1)`, q.SQL)
	assert.Equal(t, []interface{}{"ivan@x.com"}, q.Args)
}

func TestExistsMissingWhere(t *testing.T) {
	b := NewBuilder()

	_, err := b.Exists("users", nil)
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEmptyTableName(t *testing.T) {
	b := NewBuilder()

	_, err := b.Select("", SelectOptions{})
	var verr *pgcrud.ValidationError
	require.ErrorAs(t, err, &verr)
}

// Every statement must carry exactly as many arguments as placeholders, in
// left-to-right textual order.
func TestPlaceholderArgParity(t *testing.T) {
	b := NewBuilder()

	queries := []*Query{}
	add := func(q *Query, err error) {
		require.NoError(t, err)
		queries = append(queries, q)
	}

	add(b.Insert("t", Assignments{"a": types.Int(1), "b": types.Text("x")}, "id"))
	add(b.Select("t", SelectOptions{
		Where: NewConditionSet().Eq("a", types.Int(1)).In("b", types.Int(2), types.Int(3)),
		Limit: 5, Offset: 10,
	}))
	add(b.Update("t", Assignments{"a": types.Int(1)}, NewConditionSet().In("b", types.Int(2)), ""))
	add(b.Delete("t", NewConditionSet().Eq("a", types.Bool(true)), ""))
	add(b.Count("t", NewConditionSet().In("a", types.Float(1.5), types.Float(2.5))))
	add(b.Exists("t", NewConditionSet().Eq("a", types.Text("x"))))

	for _, q := range queries {
		placeholders := placeholderPattern.FindAllString(q.SQL, -1)
		assert.Len(t, q.Args, len(placeholders), "query %q", q.SQL)
		for i, p := range placeholders {
			assert.Equal(t, placeholder(i+1), p, "query %q", q.SQL)
		}
	}
}
