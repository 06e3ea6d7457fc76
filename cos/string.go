package cos

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

// StringFormat selects how a String is written.
type StringFormat int

const (
	// FormatAuto lets the serializer pick via PreferHex.
	FormatAuto StringFormat = iota
	FormatLiteral
	FormatHex
)

// String is a PDF string object. The payload is the exact byte sequence a
// reader recovers; the format only affects how it is spelled in the file.
type String struct {
	data   []byte
	format StringFormat
}

func (String) Kind() Kind { return KindString }
func (String) value()     {}

var utf16BOM = []byte{0xfe, 0xff}

// NewText encodes text as a text string (clause 7.9.2.2). Pure ASCII is
// stored as-is; anything else is stored as UTF-16BE behind a byte order mark.
func NewText(text string) String {
	return String{data: textBytes(text)}
}

// NewBytes wraps an opaque payload, such as text already lowered into a
// single-byte font encoding.
func NewBytes(b []byte) String {
	return String{data: bytes.Clone(b)}
}

// NewHexBytes wraps an opaque payload that is always written in hexadecimal.
func NewHexBytes(b []byte) String {
	return String{data: bytes.Clone(b), format: FormatHex}
}

// WithFormat returns a copy of s that is written in format f.
func (s String) WithFormat(f StringFormat) String {
	return String{data: s.data, format: f}
}

// Format returns the format s was constructed with.
func (s String) Format() StringFormat { return s.format }

// Bytes returns a copy of the payload.
func (s String) Bytes() []byte { return bytes.Clone(s.data) }

// Len returns the payload length in bytes.
func (s String) Len() int { return len(s.data) }

// Text decodes the payload as a text string: UTF-16BE when it starts with a
// byte order mark, raw bytes otherwise.
func (s String) Text() string {
	if !bytes.HasPrefix(s.data, utf16BOM) {
		return string(s.data)
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(s.data)
	if err != nil {
		return string(s.data)
	}
	return string(out)
}

func textBytes(text string) []byte {
	ascii := true
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(text)
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	if err != nil {
		// Only reachable for encoder failures; invalid UTF-8 is replaced, not rejected.
		return []byte(text)
	}
	return out
}

// PreferHex reports whether payload should be written in hexadecimal when
// no explicit format was requested. A byte is plain when it is printable
// ASCII other than the backslash and the parentheses; hexadecimal wins as
// soon as more than a quarter of the payload is not plain.
func PreferHex(payload []byte) bool {
	if len(payload) == 0 {
		return false
	}
	var other int
	for _, c := range payload {
		if c < 0x20 || c > 0x7e || c == '\\' || c == '(' || c == ')' {
			other++
		}
	}
	return 4*other > len(payload)
}

func appendString(dst []byte, s String) []byte {
	format := s.format
	if format == FormatAuto {
		format = FormatLiteral
		if PreferHex(s.data) {
			format = FormatHex
		}
	}
	if format == FormatHex {
		return appendHexString(dst, s.data)
	}
	return appendLiteralString(dst, s.data)
}

func appendLiteralString(dst, data []byte) []byte {
	dst = append(dst, '(')
	for _, c := range data {
		switch c {
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\\', '(', ')':
			dst = append(dst, '\\', c)
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, ')')
}

func appendHexString(dst, data []byte) []byte {
	dst = append(dst, '<')
	for _, c := range data {
		dst = append(dst, hexDigits[c>>4], hexDigits[c&0x0f])
	}
	return append(dst, '>')
}
