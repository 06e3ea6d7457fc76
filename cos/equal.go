package cos

import "bytes"

// Equal reports whether a and b are structurally equal. Dictionaries compare
// without regard to insertion order; strings compare by payload and
// requested format. Reals compare by their serialized form, so two reals
// that print identically are equal. Equal values serialize identically.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Boolean:
		return x == b.(Boolean)
	case Integer:
		return x == b.(Integer)
	case Real:
		return FormatReal(float64(x)) == FormatReal(float64(b.(Real)))
	case Name:
		return x == b.(Name)
	case String:
		y := b.(String)
		return x.format == y.format && bytes.Equal(x.data, y.data)
	case Reference:
		return x == b.(Reference)
	case Array:
		y := b.(Array)
		if len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case Dictionary:
		return dictEqual(x, b.(Dictionary))
	case Stream:
		y := b.(Stream)
		return bytes.Equal(x.data, y.data) && dictEqual(x.Dictionary(), y.Dictionary())
	}
	return false
}

func dictEqual(x, y Dictionary) bool {
	if len(x.m) != len(y.m) {
		return false
	}
	for k, v := range x.m {
		w, ok := y.m[k]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}
