package filters

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wudi/pdfwriter/cos"
)

func TestFlateRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("0 0 m 100 100 l S\n", 200))
	for _, level := range []int{0, 1, 9} {
		enc := NewFlateEncoder(level)
		if enc.Name() != cos.NameFlateDecode {
			t.Fatalf("encoder name = %s", enc.Name())
		}
		compressed, err := enc.Encode(payload)
		if err != nil {
			t.Fatalf("encode level %d: %v", level, err)
		}
		if len(compressed) >= len(payload) {
			t.Fatalf("level %d did not shrink repetitive input: %d >= %d", level, len(compressed), len(payload))
		}
		// zlib header: CM=8, and the 16-bit header is a multiple of 31
		if compressed[0]&0x0f != 8 || (int(compressed[0])<<8|int(compressed[1]))%31 != 0 {
			t.Fatalf("missing zlib header: % x", compressed[:2])
		}
		out, err := NewFlateDecoder().Decode(context.Background(), compressed, cos.Dictionary{})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(out, payload) {
			t.Fatalf("round trip mismatch at level %d", level)
		}
	}
}

func TestFlateDeterministic(t *testing.T) {
	enc := NewFlateEncoder(6)
	a, _ := enc.Encode([]byte("same input, same output"))
	b, _ := enc.Encode([]byte("same input, same output"))
	if !bytes.Equal(a, b) {
		t.Fatalf("flate output not deterministic")
	}
}

func TestASCIIHexRoundTrip(t *testing.T) {
	enc := NewASCIIHexEncoder()
	out, err := enc.Encode([]byte{0x00, 0xab, 0xff})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != "00ABFF>" {
		t.Fatalf("encoded = %q", out)
	}
	back, err := NewASCIIHexDecoder().Decode(context.Background(), out, cos.Dictionary{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(back, []byte{0x00, 0xab, 0xff}) {
		t.Fatalf("decoded = % x", back)
	}
}

func TestASCIIHexOddLength(t *testing.T) {
	out, err := NewASCIIHexDecoder().Decode(context.Background(), []byte("ABC>"), cos.Dictionary{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(out, []byte{0xab, 0xc0}) {
		t.Fatalf("decoded = % x", out)
	}
}

func TestASCII85RoundTrip(t *testing.T) {
	payload := []byte("Man is distinguished, not only by his reason")
	out, err := NewASCII85Encoder().Encode(payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasSuffix(out, []byte("~>")) {
		t.Fatalf("missing EOD marker: %q", out)
	}
	back, err := NewASCII85Decoder().Decode(context.Background(), out, cos.Dictionary{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(back, payload) {
		t.Fatalf("decoded = %q", back)
	}
}

func TestPipelineDecodeStream(t *testing.T) {
	payload := []byte("BT /F1 12 Tf (Hi) Tj ET")
	flated, _ := NewFlateEncoder(0).Encode(payload)
	wrapped, _ := NewASCII85Encoder().Encode(flated)
	s := cos.NewStream(cos.Dict(
		cos.Pair(cos.NameFilter, cos.NewArray(cos.NameASCII85Decode, cos.NameFlateDecode)),
	), wrapped)

	out, err := NewDefaultPipeline(Limits{}).DecodeStream(context.Background(), s)
	if err != nil {
		t.Fatalf("decode stream: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("decoded = %q", out)
	}
}

func TestPipelineErrors(t *testing.T) {
	p := NewPipeline([]Decoder{NewFlateDecoder()}, Limits{MaxDecompressedSize: 10})
	_, err := p.Decode(context.Background(), nil, []cos.Name{cos.MustName("LZWDecode")}, nil)
	if !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v, want ErrUnknownFilter", err)
	}
	big, _ := NewFlateEncoder(0).Encode(bytes.Repeat([]byte{'a'}, 100))
	_, err = p.Decode(context.Background(), big, []cos.Name{cos.NameFlateDecode}, nil)
	if !errors.Is(err, ErrSizeLimit) {
		t.Fatalf("err = %v, want ErrSizeLimit", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewFlateEncoder(0), NewASCIIHexEncoder())
	if _, ok := r.Get(cos.NameFlateDecode); !ok {
		t.Fatalf("flate encoder not registered")
	}
	if _, ok := r.Get(cos.NameASCII85Decode); ok {
		t.Fatalf("unexpected ASCII85 encoder")
	}
}

func TestExtractFiltersAlignsParams(t *testing.T) {
	pred := cos.Dict(cos.Pair(cos.MustName("Predictor"), cos.Int(12)))
	d := cos.Dict(
		cos.Pair(cos.NameFilter, cos.NewArray(cos.NameFlateDecode, cos.MustName("DCTDecode"))),
		cos.Pair(cos.NameDecodeParms, cos.NewArray(cos.Null{}, pred)),
	)
	names, params := ExtractFilters(d)
	if len(names) != 2 || len(params) != 2 {
		t.Fatalf("names=%v params=%d", names, len(params))
	}
	if params[0].Len() != 0 || params[1].Len() != 1 {
		t.Fatalf("params misaligned")
	}
}
