package writer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/filters"
	"github.com/wudi/pdfwriter/xref"
)

func pdfVersion(table *cos.Table, cfg Config) (string, error) {
	v := string(cfg.Version)
	if v == "" {
		v = table.Version()
	}
	if v == "" {
		return string(PDF17), nil
	}
	if len(v) != 3 || v[0] < '1' || v[0] > '2' || v[1] != '.' || v[2] < '0' || v[2] > '9' {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return v, nil
}

// fileID derives the trailer ID pair. The first element is the first 16
// bytes of the content digest, so identical input yields identical files.
func fileID(digest []byte, cfg Config) [2][]byte {
	id := make([]byte, 16)
	copy(id, digest)
	if !cfg.UniqueID {
		return [2][]byte{id, id}
	}
	u := uuid.New()
	return [2][]byte{id, u[:]}
}

func buildTrailer(table *cos.Table, ids [2][]byte) cos.Dictionary {
	entries := []cos.Entry{
		cos.Pair(cos.NameSize, cos.Int(int64(table.Size()))),
		cos.Pair(cos.NameRoot, table.Root()),
		cos.Pair(cos.NameID, cos.NewArray(cos.NewHexBytes(ids[0]), cos.NewHexBytes(ids[1]))),
	}
	if info, ok := table.Info(); ok {
		entries = append(entries, cos.Pair(cos.NameInfo, info))
	}
	return cos.Dict(entries...)
}

// validate checks that the table is closed: the catalog and every nested
// reference resolve to assigned objects.
func validate(table *cos.Table) error {
	root := table.Root()
	if root.IsZero() {
		return ErrNoRoot
	}
	v, ok := table.Lookup(root)
	if !ok {
		return &DanglingReferenceError{Ref: root}
	}
	if _, ok := v.(cos.Dictionary); !ok {
		return fmt.Errorf("%w: catalog %s is a %s", ErrNoRoot, root, v.Kind())
	}
	if info, ok := table.Info(); ok {
		if _, ok := table.Lookup(info); !ok {
			return &DanglingReferenceError{Ref: info}
		}
	}
	if n := uint64(table.Len()); n > xref.MaxOffset {
		return &xref.FieldOverflowError{Field: "object number", Value: n, Width: xref.OffsetWidth}
	}
	for _, obj := range table.Objects() {
		for _, ref := range cos.References(obj.Value) {
			if _, ok := table.Lookup(ref); !ok {
				return &DanglingReferenceError{Owner: obj.Ref, Ref: ref}
			}
		}
	}
	return nil
}

func pickContentFilter(cfg Config) ContentFilter {
	if cfg.ContentFilter != FilterNone {
		return cfg.ContentFilter
	}
	if cfg.Compression != 0 {
		return FilterFlate
	}
	return FilterNone
}

func encoderFor(f ContentFilter, level int) filters.Encoder {
	switch f {
	case FilterFlate:
		return filters.NewFlateEncoder(level)
	case FilterASCIIHex:
		return filters.NewASCIIHexEncoder()
	case FilterASCII85:
		return filters.NewASCII85Encoder()
	}
	return nil
}

// encodeStreams passes every top-level stream through enc.
func encodeStreams(objects []cos.Object, enc filters.Encoder) ([]cos.Object, error) {
	out := make([]cos.Object, len(objects))
	for i, obj := range objects {
		out[i] = obj
		s, ok := obj.Value.(cos.Stream)
		if !ok {
			continue
		}
		encoded, err := encodeStream(s, enc)
		if err != nil {
			return nil, fmt.Errorf("encode stream %s: %w", obj.Ref, err)
		}
		out[i].Value = encoded
	}
	return out, nil
}

// encodeStream applies enc as the new outermost filter. Existing filters are
// kept after it, with DecodeParms padded by a leading null when present.
// Streams whose outermost filter already is enc are returned unchanged.
func encodeStream(s cos.Stream, enc filters.Encoder) (cos.Stream, error) {
	existing := s.Filters()
	if len(existing) > 0 && existing[0] == enc.Name() {
		return s, nil
	}
	data, err := enc.Encode(s.Data())
	if err != nil {
		return cos.Stream{}, err
	}
	dict := s.Dictionary().Without(cos.NameLength)
	if len(existing) == 0 {
		dict = dict.With(cos.NameFilter, enc.Name())
	} else {
		names := make([]cos.Value, 0, len(existing)+1)
		names = append(names, enc.Name())
		for _, n := range existing {
			names = append(names, n)
		}
		dict = dict.With(cos.NameFilter, cos.NewArray(names...))
		if parms, ok := dict.Get(cos.NameDecodeParms); ok {
			padded := []cos.Value{cos.Null{}}
			switch p := parms.(type) {
			case cos.Array:
				padded = append(padded, p.Items()...)
			default:
				padded = append(padded, p)
			}
			dict = dict.With(cos.NameDecodeParms, cos.NewArray(padded...))
		}
	}
	return cos.NewStream(dict, data), nil
}
