package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/pgcrud"
)

// buildWhere compiles a ConditionSet into a WHERE fragment and its argument
// list. argIndex is the next free placeholder number and is advanced past
// every placeholder emitted. An empty set yields an empty fragment; the
// caller decides whether to omit WHERE entirely.
//
// Column names are trusted identifiers and rendered as quoted text; values
// are always bound through placeholders, never interpolated.
func buildWhere(op, table string, where *ConditionSet, argIndex *int) (string, []interface{}, error) {
	if where.IsEmpty() {
		return "", nil, nil
	}

	var parts []string
	var args []interface{}

	for _, cond := range where.Conditions() {
		if cond.Column == "" {
			return "", nil, &pgcrud.ValidationError{Op: op, Table: table, Reason: "condition with empty column name"}
		}

		if cond.isIn {
			if len(cond.Values) == 0 {
				return "", nil, &pgcrud.ValidationError{
					Op:     op,
					Table:  table,
					Reason: fmt.Sprintf("IN condition on %q has no values", cond.Column),
				}
			}
			placeholders := make([]string, len(cond.Values))
			for i, v := range cond.Values {
				placeholders[i] = placeholder(*argIndex)
				args = append(args, v.Arg())
				(*argIndex)++
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", quoteIdentifier(cond.Column), strings.Join(placeholders, ", ")))
			continue
		}

		parts = append(parts, fmt.Sprintf("%s = %s", quoteIdentifier(cond.Column), placeholder(*argIndex)))
		args = append(args, cond.Value.Arg())
		(*argIndex)++
	}

	return strings.Join(parts, " AND "), args, nil
}

// placeholder renders the n-th positional parameter token.
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func quoteIdentifier(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}
