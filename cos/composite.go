package cos

import (
	"bytes"
	"sort"
)

// Array is an ordered sequence of values.
type Array struct{ items []Value }

func (Array) Kind() Kind { return KindArray }
func (Array) value()     {}

// NewArray copies items into a new Array. Nil items become Null.
func NewArray(items ...Value) Array {
	out := make([]Value, len(items))
	for i, it := range items {
		if it == nil {
			it = Null{}
		}
		out[i] = it
	}
	return Array{items: out}
}

// Len returns the number of elements.
func (a Array) Len() int { return len(a.items) }

// At returns the i-th element.
func (a Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	return a.items[i], true
}

// Items returns a copy of the elements.
func (a Array) Items() []Value { return append([]Value(nil), a.items...) }

// Append returns a new Array with vs added at the end.
func (a Array) Append(vs ...Value) Array {
	return NewArray(append(a.Items(), vs...)...)
}

// Entry is a single key/value pair used to build a Dictionary.
type Entry struct {
	Key   Name
	Value Value
}

// Pair builds an Entry.
func Pair(key Name, v Value) Entry { return Entry{Key: key, Value: v} }

// Dictionary maps names to values. Entries are always serialized in
// byte-wise key order, so output does not depend on insertion order.
type Dictionary struct{ m map[Name]Value }

func (Dictionary) Kind() Kind { return KindDictionary }
func (Dictionary) value()     {}

// Dict builds a Dictionary. A later entry replaces an earlier one with the
// same key; entries with a nil value are dropped.
func Dict(entries ...Entry) Dictionary {
	m := make(map[Name]Value, len(entries))
	for _, e := range entries {
		if !e.Key.IsValid() {
			continue
		}
		if e.Value == nil {
			delete(m, e.Key)
			continue
		}
		m[e.Key] = e.Value
	}
	return Dictionary{m: m}
}

// DictFromMap copies m into a new Dictionary.
func DictFromMap(m map[Name]Value) Dictionary {
	out := make(map[Name]Value, len(m))
	for k, v := range m {
		if !k.IsValid() || v == nil {
			continue
		}
		out[k] = v
	}
	return Dictionary{m: out}
}

// Len returns the number of entries.
func (d Dictionary) Len() int { return len(d.m) }

// Get looks up key.
func (d Dictionary) Get(key Name) (Value, bool) {
	v, ok := d.m[key]
	return v, ok
}

// Keys returns the keys in serialization order.
func (d Dictionary) Keys() []Name {
	keys := make([]Name, 0, len(d.m))
	for k := range d.m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].raw < keys[j].raw })
	return keys
}

// With returns a copy of d with key set to v.
func (d Dictionary) With(key Name, v Value) Dictionary {
	out := d.clone(1)
	if v == nil {
		delete(out.m, key)
	} else if key.IsValid() {
		out.m[key] = v
	}
	return out
}

// Without returns a copy of d without key.
func (d Dictionary) Without(key Name) Dictionary {
	out := d.clone(0)
	delete(out.m, key)
	return out
}

func (d Dictionary) clone(extra int) Dictionary {
	m := make(map[Name]Value, len(d.m)+extra)
	for k, v := range d.m {
		m[k] = v
	}
	return Dictionary{m: m}
}

// Stream is a dictionary followed by a raw payload. The Length entry of the
// dictionary is never trusted: the serializer always writes len(Data).
type Stream struct {
	dict Dictionary
	data []byte
}

func (Stream) Kind() Kind { return KindStream }
func (Stream) value()     {}

// NewStream copies dict and data into a new Stream.
func NewStream(dict Dictionary, data []byte) Stream {
	return Stream{dict: dict.clone(0), data: bytes.Clone(data)}
}

// Dictionary returns the stream dictionary with Length set to the payload
// length.
func (s Stream) Dictionary() Dictionary {
	return s.dict.With(NameLength, Integer(len(s.data)))
}

// Data returns a copy of the payload.
func (s Stream) Data() []byte { return bytes.Clone(s.data) }

// Len returns the payload length.
func (s Stream) Len() int { return len(s.data) }

// Filters returns the filter names declared by the stream, outermost first.
func (s Stream) Filters() []Name {
	v, ok := s.dict.Get(NameFilter)
	if !ok {
		return nil
	}
	switch f := v.(type) {
	case Name:
		return []Name{f}
	case Array:
		out := make([]Name, 0, f.Len())
		for _, it := range f.items {
			if n, ok := it.(Name); ok {
				out = append(out, n)
			}
		}
		return out
	}
	return nil
}

// WithData returns a stream with the same dictionary and a new payload.
func (s Stream) WithData(data []byte) Stream {
	return Stream{dict: s.dict, data: bytes.Clone(data)}
}

// WithDictionary returns a stream with the same payload and a new dictionary.
func (s Stream) WithDictionary(dict Dictionary) Stream {
	return Stream{dict: dict.clone(0), data: s.data}
}
