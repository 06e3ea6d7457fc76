package cos

// Walk calls fn for v and, depth first, every value nested inside it.
// Stream dictionaries are visited; payloads are not. Walk stops early and
// returns false once fn returns false.
func Walk(v Value, fn func(Value) bool) bool {
	if !fn(v) {
		return false
	}
	switch o := v.(type) {
	case Array:
		for _, it := range o.items {
			if !Walk(it, fn) {
				return false
			}
		}
	case Dictionary:
		for _, k := range o.Keys() {
			if !Walk(o.m[k], fn) {
				return false
			}
		}
	case Stream:
		return Walk(o.dict, fn)
	}
	return true
}

// References returns every indirect reference nested in v, in walk order.
func References(v Value) []Reference {
	var refs []Reference
	Walk(v, func(x Value) bool {
		if r, ok := x.(Reference); ok {
			refs = append(refs, r)
		}
		return true
	})
	return refs
}
