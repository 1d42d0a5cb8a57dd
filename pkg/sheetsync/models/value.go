// Package models defines data structures shared by the sources, the merger,
// the sync engine and the chart builder.
package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the fixed layout used when a date is written to a sheet.
const DateLayout = "2006-01-02"

// TimeLayout is the fixed layout used when a timestamp is written to a sheet.
const TimeLayout = "2006-01-02 15:04:05"

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindEmpty is a missing value. It is written as an empty cell.
	KindEmpty Kind = iota
	// KindString holds text.
	KindString
	// KindInt holds an int64.
	KindInt
	// KindFloat holds a float64.
	KindFloat
	// KindDate holds a calendar day.
	KindDate
	// KindTime holds a timestamp.
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	default:
		return "empty"
	}
}

// Value is a single typed cell of a report table.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// Empty returns the missing value.
func Empty() Value { return Value{} }

// String wraps text.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Date wraps a calendar day; the time of day is dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Time wraps a timestamp.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is missing.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Str returns the text of a string value, or the rendered cell otherwise.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return v.Text()
}

// Int returns the integer held by v. Floats are truncated; other kinds are 0.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	}
	return 0
}

// Float returns v as a float64. Non-numeric kinds are 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	}
	return 0
}

// Time returns the time held by a date or time value.
func (v Value) Time() time.Time { return v.t }

// Cell projects v onto a value that every spreadsheet backend can serialize:
// string, int64 or float64. NaN and infinities become empty strings.
func (v Value) Cell() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return ""
		}
		return v.f
	case KindDate:
		return v.t.Format(DateLayout)
	case KindTime:
		return v.t.Format(TimeLayout)
	default:
		return ""
	}
}

// Text renders v the way it appears in a sheet cell.
func (v Value) Text() string {
	switch c := v.Cell().(type) {
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	}
	return ""
}

// Compare orders two values: -1, 0 or +1. Empty sorts first, numbers compare
// numerically, dates and times chronologically, anything else by its text.
func (v Value) Compare(o Value) int {
	switch {
	case v.kind == KindEmpty && o.kind == KindEmpty:
		return 0
	case v.kind == KindEmpty:
		return -1
	case o.kind == KindEmpty:
		return 1
	}
	if v.numeric() && o.numeric() {
		a, b := v.Float(), o.Float()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	if v.temporal() && o.temporal() {
		return v.t.Compare(o.t)
	}
	return strings.Compare(v.Text(), o.Text())
}

// Equal reports whether v and o hold the same variant and value.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.Compare(o) == 0
}

func (v Value) numeric() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) temporal() bool { return v.kind == KindDate || v.kind == KindTime }
