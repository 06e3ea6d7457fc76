package cos

import (
	"errors"
	"strings"
	"testing"
)

func TestNewNameValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyName},
		{"too long", strings.Repeat("a", 128), ErrNameTooLong},
		{"nul", "A\x00B", ErrContainsNullByte},
		{"space", "A B", ErrContainsWhitespace},
		{"tab", "A\tB", ErrContainsWhitespace},
		{"newline", "A\nB", ErrContainsWhitespace},
		{"form feed", "\fA", ErrContainsWhitespace},
		{"max length", strings.Repeat("a", 127), nil},
		{"plain", "Type", nil},
		{"delimiters", "A#B(C)", nil},
		{"utf8", "Caf\xc3\xa9", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewName(tt.input)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("NewName(%q): %v", tt.input, err)
				}
				if n.String() != tt.input {
					t.Fatalf("raw = %q, want %q", n.String(), tt.input)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewName(%q) err = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestNameTooLongReportsLength(t *testing.T) {
	_, err := NewName(strings.Repeat("x", 200))
	var tooLong *NameTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("expected NameTooLongError, got %T", err)
	}
	if tooLong.Length != 200 {
		t.Fatalf("length = %d, want 200", tooLong.Length)
	}
}

func TestNameEscaping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Type", "/Type"},
		{"A#B", "/A#23B"},
		{"paired()parentheses", "/paired#28#29parentheses"},
		{"The_Key_of_F#_Minor", "/The_Key_of_F#23_Minor"},
		{"A/B%C", "/A#2FB#25C"},
		{"x<>[]{}", "/x#3C#3E#5B#5D#7B#7D"},
		{"Caf\xc3\xa9", "/Caf#C3#A9"},
		{"\x7f", "/#7F"},
	}
	for _, tt := range tests {
		got := string(Serialize(MustName(tt.input)))
		if got != tt.want {
			t.Errorf("Serialize(Name(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNameRoundTrip(t *testing.T) {
	inputs := []string{
		"A", "A#B", "Caf\xc3\xa9", "1.5", "a/b", "#####", "\x01\x02\x7f\xff",
		strings.Repeat("(", 127),
	}
	for _, in := range inputs {
		n := MustName(in)
		back, err := ParseName(Serialize(n))
		if err != nil {
			t.Fatalf("ParseName(%q): %v", Serialize(n), err)
		}
		if back != n {
			t.Fatalf("round trip %q -> %q", in, back.String())
		}
	}
}

func TestParseNameRejectsBadEscapes(t *testing.T) {
	for _, in := range []string{"/A#", "/A#4", "/A#ZZ", "/", "/A#20B"} {
		if _, err := ParseName([]byte(in)); err == nil {
			t.Errorf("ParseName(%q) succeeded, want error", in)
		}
	}
}

func TestMustNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid name")
		}
	}()
	MustName("A B")
}
