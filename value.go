package hclust

import (
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a categorical cell. Exactly one of the payload fields is
// meaningful, selected by the kind. Values are comparable and are used
// directly as keys of CF category tables.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

func Null() Value            { return Value{} }
func Text(s string) Value    { return Value{kind: KindText, text: s} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number wraps f. NaN is the missing marker of continuous data and is not
// equal to itself, so it would split one category into many; it becomes
// Null instead.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindNumber, num: f}
}

// Float returns the numeric reading of v: numbers as is, booleans as 1/0.
// Text and null have no numeric reading.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText, KindNull:
		return 0, false
	}
	return 0, false
}

// String renders v the way it is keyed in reports.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// ParseValue infers a Value from a raw text cell: empty and NaN are null,
// then booleans, then numbers, otherwise text.
func ParseValue(s string) Value {
	if s == "" {
		return Null()
	}
	switch s {
	case "true", "TRUE", "True":
		return Bool(true)
	case "false", "FALSE", "False":
		return Bool(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(s)
}
