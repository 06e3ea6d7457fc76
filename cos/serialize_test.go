package cos

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestSerializeScalars(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null{}, "null"},
		{nil, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(0), "0"},
		{Int(-17), "-17"},
		{Int(math.MaxInt64), "9223372036854775807"},
		{Ref(12, 0), "12 0 R"},
		{Ref(3, 65535), "3 65535 R"},
		{NewArray(), "[]"},
		{NewArray(Int(1), MustName("A"), NewText("x")), "[1 /A (x)]"},
		{Dict(), "<<>>"},
		{Dict(Pair(MustName("K"), Null{})), "<< /K null >>"},
	}
	for _, tt := range tests {
		if got := string(Serialize(tt.v)); got != tt.want {
			t.Errorf("Serialize(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestSerializeReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{42.0, "42"},
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-3, "-3"},
		{0.5, "0.5"},
		{-0.25, "-0.25"},
		{0.00001, "0.00001"},
		{0.000001, "0"},
		{-0.000001, "0"},
		{1.0 / 3.0, "0.33333"},
		{2.0 / 3.0, "0.66667"},
		{595.28, "595.28"},
		{1e21, "1000000000000000000000"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
		{math.Inf(-1), "0"},
	}
	for _, tt := range tests {
		got := string(Serialize(Float(tt.in)))
		if got != tt.want {
			t.Errorf("Serialize(Real(%v)) = %q, want %q", tt.in, got, tt.want)
		}
		if strings.ContainsAny(got, "eE") {
			t.Errorf("Serialize(Real(%v)) = %q uses exponential notation", tt.in, got)
		}
		if dot := strings.IndexByte(got, '.'); dot >= 0 && len(got)-dot-1 > 5 {
			t.Errorf("Serialize(Real(%v)) = %q has more than 5 fractional digits", tt.in, got)
		}
	}
}

func TestDictionaryKeyOrder(t *testing.T) {
	a, b := MustName("A"), MustName("B")
	d1 := Dict(Pair(b, Int(1)), Pair(a, Int(2)))
	d2 := Dict(Pair(a, Int(2)), Pair(b, Int(1)))
	got := string(Serialize(d1))
	if got != "<< /A 2 /B 1 >>" {
		t.Fatalf("Serialize = %q", got)
	}
	if !bytes.Equal(Serialize(d1), Serialize(d2)) {
		t.Fatalf("insertion order leaked into output")
	}
	if !Equal(d1, d2) {
		t.Fatalf("dictionaries with the same entries should be equal")
	}
}

func TestDictionaryOrdersByRawBytes(t *testing.T) {
	d := Dict(
		Pair(MustName("b"), Int(1)),
		Pair(MustName("B"), Int(2)),
		Pair(MustName("Ba"), Int(3)),
		Pair(MustName("#"), Int(4)),
	)
	want := "<< /#23 4 /B 2 /Ba 3 /b 1 >>"
	if got := string(Serialize(d)); got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestDictionaryIsImmutable(t *testing.T) {
	k := MustName("K")
	d := Dict(Pair(k, Int(1)))
	d2 := d.With(k, Int(2)).With(MustName("Z"), Bool(true))
	if v, _ := d.Get(k); v != Int(1) {
		t.Fatalf("With mutated the receiver")
	}
	if d2.Len() != 2 || d.Len() != 1 {
		t.Fatalf("unexpected lengths %d %d", d.Len(), d2.Len())
	}
	d3 := d2.Without(k)
	if _, ok := d3.Get(k); ok {
		t.Fatalf("Without kept the key")
	}
	if _, ok := d2.Get(k); !ok {
		t.Fatalf("Without mutated the receiver")
	}

	src := map[Name]Value{k: Int(1)}
	d4 := DictFromMap(src)
	src[k] = Int(9)
	if v, _ := d4.Get(k); v != Int(1) {
		t.Fatalf("DictFromMap aliases its input")
	}
}

func TestStreamLengthOverridesCaller(t *testing.T) {
	dict := Dict(Pair(NameLength, Int(999)), Pair(NameType, MustName("XObject")))
	s := NewStream(dict, []byte("BT ET"))
	want := "<< /Length 5 /Type /XObject >>\nstream\nBT ET\nendstream"
	if got := string(Serialize(s)); got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}

	empty := NewStream(Dict(), nil)
	if got := string(Serialize(empty)); got != "<< /Length 0 >>\nstream\n\nendstream" {
		t.Fatalf("empty stream = %q", got)
	}
}

func TestStreamPayloadIsCopied(t *testing.T) {
	data := []byte("abc")
	s := NewStream(Dict(), data)
	data[0] = 'X'
	if got := string(s.Data()); got != "abc" {
		t.Fatalf("stream aliases caller payload: %q", got)
	}
	out := s.Data()
	out[1] = 'Y'
	if got := string(s.Data()); got != "abc" {
		t.Fatalf("Data exposes internal payload: %q", got)
	}
}

func TestStreamFilters(t *testing.T) {
	s := NewStream(Dict(Pair(NameFilter, NameFlateDecode)), nil)
	if f := s.Filters(); len(f) != 1 || f[0] != NameFlateDecode {
		t.Fatalf("Filters = %v", f)
	}
	s = NewStream(Dict(Pair(NameFilter, NewArray(NameASCII85Decode, NameFlateDecode))), nil)
	if f := s.Filters(); len(f) != 2 || f[0] != NameASCII85Decode {
		t.Fatalf("Filters = %v", f)
	}
	if f := NewStream(Dict(), nil).Filters(); f != nil {
		t.Fatalf("Filters on plain stream = %v", f)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	build := func() Value {
		return Dict(
			Pair(MustName("Kids"), NewArray(Ref(3, 0), Ref(4, 0))),
			Pair(NameType, NamePages),
			Pair(MustName("Title"), NewText("Café")),
			Pair(MustName("Box"), Floats(0, 0, 595.28, 841.89)),
			Pair(MustName("Body"), NewStream(Dict(), []byte("q Q"))),
		)
	}
	v := build()
	first := Serialize(v)
	for i := 0; i < 10; i++ {
		if !bytes.Equal(first, Serialize(v)) {
			t.Fatalf("serialization not stable across calls")
		}
		if !bytes.Equal(first, Serialize(build())) {
			t.Fatalf("equal values serialized differently")
		}
	}
}

func TestAppendValueAppends(t *testing.T) {
	out := AppendValue([]byte("1 0 obj\n"), Int(7))
	if string(out) != "1 0 obj\n7" {
		t.Fatalf("AppendValue = %q", out)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Null{}, nil, true},
		{Int(1), Float(1), false},
		{Float(0.1 + 0.2), Float(0.3), true},
		{NewText("x"), NewBytes([]byte("x")), true},
		{NewText("x"), NewText("x").WithFormat(FormatHex), false},
		{NewArray(Int(1)), NewArray(Int(1), Int(2)), false},
		{Ref(1, 0), Ref(1, 1), false},
		{NewStream(Dict(), []byte("a")), NewStream(Dict(Pair(NameLength, Int(7))), []byte("a")), true},
		{NewStream(Dict(), []byte("a")), NewStream(Dict(), []byte("b")), false},
	}
	for i, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: Equal = %v, want %v", i, got, tt.want)
		}
	}
}

func TestReferences(t *testing.T) {
	v := Dict(
		Pair(MustName("A"), NewArray(Ref(2, 0), Dict(Pair(MustName("X"), Ref(5, 0))))),
		Pair(MustName("B"), NewStream(Dict(Pair(MustName("R"), Ref(7, 0))), []byte("1 0 R"))),
	)
	refs := References(v)
	want := []Reference{Ref(2, 0), Ref(5, 0), Ref(7, 0)}
	if len(refs) != len(want) {
		t.Fatalf("References = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("References = %v, want %v", refs, want)
		}
	}
}
