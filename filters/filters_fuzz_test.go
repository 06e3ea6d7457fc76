package filters

import (
	"bytes"
	"context"
	"testing"

	"github.com/wudi/pdfwriter/cos"
)

func FuzzFilters(f *testing.F) {
	f.Add([]byte("some compressed data"), "FlateDecode")
	f.Add([]byte("some ascii85 data"), "ASCII85Decode")
	f.Add([]byte("some hex data"), "ASCIIHexDecode")
	f.Add([]byte{0, 0, 0, 0, 0xff}, "ASCII85Decode")

	registry := NewRegistry(NewFlateEncoder(0), NewASCII85Encoder(), NewASCIIHexEncoder())

	f.Fuzz(func(t *testing.T, data []byte, filterName string) {
		if len(data) > 1024*1024 {
			return
		}
		name, err := cos.NewName(filterName)
		if err != nil {
			return
		}
		enc, ok := registry.Get(name)
		if !ok {
			return
		}

		p := NewDefaultPipeline(Limits{MaxDecompressedSize: 1024 * 1024})

		// Arbitrary input must not panic.
		_, _ = p.Decode(context.Background(), data, []cos.Name{name}, []cos.Dictionary{{}})

		encoded, err := enc.Encode(data)
		if err != nil {
			t.Fatalf("encode %s: %v", name, err)
		}
		decoded, err := p.Decode(context.Background(), encoded, []cos.Name{name}, []cos.Dictionary{{}})
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if !bytes.Equal(decoded, data) {
			t.Fatalf("%s round trip mismatch", name)
		}
	})
}
