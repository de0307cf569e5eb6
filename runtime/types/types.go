// Package types provides the runtime value types for pgcrud: the closed
// value variant carried through query building and row shaping, and the
// Record/Tuple row forms returned to callers.
package types

import (
	"fmt"
	"time"
)

// Kind identifies which member of the value variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindTime
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a closed union over the column value types the driver handles:
// null, boolean, integer, floating-point, text, timestamp, and binary.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	raw  []byte
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps an integer.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a floating-point number.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text wraps a string.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Time wraps a timestamp.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Bytes wraps a binary blob.
func Bytes(v []byte) Value { return Value{kind: KindBytes, raw: v} }

// Kind reports which variant member the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean member. ok is false if the value is not a bool.
func (v Value) Bool() (value, ok bool) { return v.b, v.kind == KindBool }

// Int returns the integer member. ok is false if the value is not an int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the floating-point member.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Text returns the string member.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Time returns the timestamp member.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }

// Bytes returns the binary member.
func (v Value) Bytes() ([]byte, bool) { return v.raw, v.kind == KindBytes }

// Arg returns the value in the form database/sql expects as a bound
// positional parameter.
func (v Value) Arg() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindTime:
		return v.t
	case KindBytes:
		return v.raw
	default:
		return nil
	}
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindBytes:
		return fmt.Sprintf("%d bytes", len(v.raw))
	default:
		return "invalid"
	}
}

// Equal reports whether two values hold the same variant member with the
// same content. Timestamps compare with time.Time.Equal, binary blobs
// byte-wise.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindTime:
		return v.t.Equal(other.t)
	case KindBytes:
		if len(v.raw) != len(other.raw) {
			return false
		}
		for i := range v.raw {
			if v.raw[i] != other.raw[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromDriver converts a value scanned from database/sql into the variant.
// lib/pq hands back int64, float64, bool, string, time.Time, []byte or nil;
// anything else is rejected.
func FromDriver(src interface{}) (Value, error) {
	switch s := src.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(s), nil
	case int64:
		return Int(s), nil
	case float64:
		return Float(s), nil
	case string:
		return Text(s), nil
	case time.Time:
		return Time(s), nil
	case []byte:
		// database/sql reuses scan buffers between rows.
		cp := make([]byte, len(s))
		copy(cp, s)
		return Bytes(cp), nil
	default:
		return Null(), fmt.Errorf("unsupported driver value of type %T", src)
	}
}

// Record is one shaped row in mapping form: an ordered set of
// (column name, value) pairs. It is immutable once returned.
type Record struct {
	columns []string
	values  []Value
	index   map[string]int
}

// NewRecord builds a Record from parallel column and value slices. Later
// duplicates of a column name shadow earlier ones on lookup, matching how
// result sets with repeated labels behave.
func NewRecord(columns []string, values []Value) Record {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return Record{columns: columns, values: values, index: idx}
}

// Columns returns the column names in result order.
func (r Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r Record) Len() int { return len(r.columns) }

// Get looks up a column by name.
func (r Record) Get(column string) (Value, bool) {
	i, ok := r.index[column]
	if !ok {
		return Null(), false
	}
	return r.values[i], true
}

// At returns the value at column position i.
func (r Record) At(i int) Value { return r.values[i] }

// Tuple returns the record's values in column order, without names.
func (r Record) Tuple() Tuple {
	out := make(Tuple, len(r.values))
	copy(out, r.values)
	return out
}

// Tuple is one shaped row in positional form.
type Tuple []Value
