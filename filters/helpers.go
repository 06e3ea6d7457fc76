package filters

import "github.com/wudi/pdfwriter/cos"

// ExtractFilters reads Filter and DecodeParms entries from a stream dictionary.
// Missing or null parameters are returned as empty dictionaries so params
// stays aligned with names.
func ExtractFilters(dict cos.Dictionary) ([]cos.Name, []cos.Dictionary) {
	var names []cos.Name
	var params []cos.Dictionary

	filterObj, ok := dict.Get(cos.NameFilter)
	if !ok {
		return names, params
	}

	switch f := filterObj.(type) {
	case cos.Name:
		names = append(names, f)
	case cos.Array:
		for _, item := range f.Items() {
			if n, ok := item.(cos.Name); ok {
				names = append(names, n)
			}
		}
	}

	if len(names) > 0 {
		if pObj, ok := dict.Get(cos.NameDecodeParms); ok {
			switch p := pObj.(type) {
			case cos.Dictionary:
				params = append(params, p)
			case cos.Array:
				for _, item := range p.Items() {
					d, _ := item.(cos.Dictionary)
					params = append(params, d)
				}
			}
		}
	}

	return names, params
}
