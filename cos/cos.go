// Package cos implements the PDF object model (ISO 32000-1, clause 7.3):
// the nine direct object kinds, indirect references, the object table an
// assembler builds, and the canonical serializer that turns values into bytes.
//
// Values are immutable once constructed. Composite constructors copy their
// inputs, so a Value may be shared freely between a builder and a writer.
package cos

import "fmt"

// Kind identifies the concrete type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindName
	KindString
	KindArray
	KindDictionary
	KindStream
	KindReference
)

var kindNames = [...]string{
	KindNull:       "null",
	KindBoolean:    "boolean",
	KindInteger:    "integer",
	KindReal:       "real",
	KindName:       "name",
	KindString:     "string",
	KindArray:      "array",
	KindDictionary: "dictionary",
	KindStream:     "stream",
	KindReference:  "reference",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is the base interface for all objects. The set of implementations is
// closed: Null, Boolean, Integer, Real, Name, String, Array, Dictionary,
// Stream and Reference.
type Value interface {
	Kind() Kind
	value()
}

// Null is the PDF null object.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) value()     {}

// Boolean is a PDF boolean.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }
func (Boolean) value()     {}

// Integer is a PDF integer.
type Integer int64

func (Integer) Kind() Kind { return KindInteger }
func (Integer) value()     {}

// Real is a PDF real number. Non-finite values serialize as 0.
type Real float64

func (Real) Kind() Kind { return KindReal }
func (Real) value()     {}

// Reference is an indirect reference "N G R". It does not own the object it
// points at; the Table does.
type Reference struct {
	Number     uint64
	Generation uint16
}

func (Reference) Kind() Kind { return KindReference }
func (Reference) value()     {}

func (r Reference) String() string { return fmt.Sprintf("%d %d R", r.Number, r.Generation) }

// IsZero reports whether r is the zero Reference, which never names an object.
func (r Reference) IsZero() bool { return r.Number == 0 && r.Generation == 0 }

// Ref builds a Reference.
func Ref(num uint64, gen uint16) Reference { return Reference{Number: num, Generation: gen} }

// Bool, Int and Float are ergonomic constructors for the scalar kinds.
func Bool(v bool) Boolean  { return Boolean(v) }
func Int(v int64) Integer  { return Integer(v) }
func Float(v float64) Real { return Real(v) }

// Ints builds an array of integers.
func Ints(vs ...int64) Array {
	items := make([]Value, len(vs))
	for i, v := range vs {
		items[i] = Integer(v)
	}
	return Array{items: items}
}

// Floats builds an array of reals.
func Floats(vs ...float64) Array {
	items := make([]Value, len(vs))
	for i, v := range vs {
		items[i] = Real(v)
	}
	return Array{items: items}
}
