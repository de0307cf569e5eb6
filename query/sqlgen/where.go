// Package sqlgen builds parameterized PostgreSQL statements: SQL text with
// $n placeholders plus the positional argument list, in matching order.
package sqlgen

import (
	"sort"

	"github.com/satishbabariya/pgcrud/runtime/types"
)

// Condition is a single per-column predicate: equality against a scalar
// value, or membership in a list of values.
type Condition struct {
	Column string
	Value  types.Value
	// Values non-nil marks a membership (IN) test; order is preserved.
	Values []types.Value
	isIn   bool
}

// ConditionSet is an ordered conjunction of per-column predicates. An empty
// set is valid for read-style queries (no filter) but rejected by the
// update, delete and exists builders.
type ConditionSet struct {
	conds []Condition
}

// NewConditionSet creates an empty ConditionSet.
func NewConditionSet() *ConditionSet {
	return &ConditionSet{}
}

// Where builds a ConditionSet of equality predicates from a column→value
// map. Map iteration order is random, so columns are sorted to keep
// placeholder numbering deterministic.
func Where(filter map[string]types.Value) *ConditionSet {
	cols := make([]string, 0, len(filter))
	for c := range filter {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	cs := NewConditionSet()
	for _, c := range cols {
		cs.Eq(c, filter[c])
	}
	return cs
}

// Eq adds an equality predicate.
func (c *ConditionSet) Eq(column string, value types.Value) *ConditionSet {
	c.conds = append(c.conds, Condition{Column: column, Value: value})
	return c
}

// In adds a membership predicate with one placeholder per element,
// preserving element order.
func (c *ConditionSet) In(column string, values ...types.Value) *ConditionSet {
	c.conds = append(c.conds, Condition{Column: column, Values: values, isIn: true})
	return c
}

// IsEmpty reports whether the set has no predicates.
func (c *ConditionSet) IsEmpty() bool {
	return c == nil || len(c.conds) == 0
}

// Len returns the number of predicates.
func (c *ConditionSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.conds)
}

// Conditions returns the predicates in insertion order.
func (c *ConditionSet) Conditions() []Condition {
	if c == nil {
		return nil
	}
	return c.conds
}

// Assignments is the mutation set for insert and update: column name to new
// value. Columns are applied in sorted order so the generated statement and
// its argument list are deterministic.
type Assignments map[string]types.Value

// Columns returns the assignment columns in sorted order.
func (a Assignments) Columns() []string {
	cols := make([]string, 0, len(a))
	for c := range a {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
