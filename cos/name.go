package cos

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxNameLength is the implementation limit on name length in bytes.
const MaxNameLength = 127

var (
	ErrEmptyName          = errors.New("cos: empty name")
	ErrNameTooLong        = errors.New("cos: name too long")
	ErrContainsNullByte   = errors.New("cos: name contains NUL byte")
	ErrContainsWhitespace = errors.New("cos: name contains whitespace")
)

// NameTooLongError reports the length of a rejected name.
type NameTooLongError struct {
	Length int
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("cos: name too long: %d bytes (max %d)", e.Length, MaxNameLength)
}

func (e *NameTooLongError) Is(target error) bool { return target == ErrNameTooLong }

// Name is a validated name atom. The zero Name is not valid; obtain one
// through NewName, MustName or the predeclared names below.
type Name struct{ raw string }

func (Name) Kind() Kind { return KindName }
func (Name) value()     {}

// NewName validates s and returns it as a Name.
func NewName(s string) (Name, error) {
	if err := validateName(s); err != nil {
		return Name{}, err
	}
	return Name{raw: s}, nil
}

// MustName is like NewName but panics on invalid input. Use it for names
// known at compile time.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func validateName(s string) error {
	if len(s) == 0 {
		return ErrEmptyName
	}
	if len(s) > MaxNameLength {
		return &NameTooLongError{Length: len(s)}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return ErrContainsNullByte
		}
	}
	for i := 0; i < len(s); i++ {
		if isWhitespace(s[i]) {
			return ErrContainsWhitespace
		}
	}
	return nil
}

// String returns the unescaped name bytes.
func (n Name) String() string { return n.raw }

// Bytes returns a copy of the unescaped name bytes.
func (n Name) Bytes() []byte { return []byte(n.raw) }

// IsValid reports whether n was produced by a validating constructor.
func (n Name) IsValid() bool { return n.raw != "" }

// ValidUTF8 reports whether the name bytes form valid UTF-8. Names are byte
// strings; readers conventionally interpret them as UTF-8.
func (n Name) ValidUTF8() bool { return utf8.ValidString(n.raw) }

// appendName writes the solidus-prefixed, #-escaped form of n.
func appendName(dst []byte, n Name) []byte {
	dst = append(dst, '/')
	for i := 0; i < len(n.raw); i++ {
		c := n.raw[i]
		if c < 0x21 || c > 0x7e || isDelimiter(c) || c == '#' {
			dst = append(dst, '#', hexDigits[c>>4], hexDigits[c&0x0f])
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

// ParseName decodes the escaped form produced by the serializer. The leading
// solidus is optional.
func ParseName(escaped []byte) (Name, error) {
	if len(escaped) > 0 && escaped[0] == '/' {
		escaped = escaped[1:]
	}
	out := make([]byte, 0, len(escaped))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '#' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(escaped) {
			return Name{}, fmt.Errorf("cos: truncated escape in name %q", escaped)
		}
		hi, ok1 := unhex(escaped[i+1])
		lo, ok2 := unhex(escaped[i+2])
		if !ok1 || !ok2 {
			return Name{}, fmt.Errorf("cos: bad escape in name %q", escaped)
		}
		out = append(out, hi<<4|lo)
		i += 2
	}
	return NewName(string(out))
}

const hexDigits = "0123456789ABCDEF"

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// isWhitespace matches the six white-space characters of clause 7.2.2.
func isWhitespace(c byte) bool {
	switch c {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// Well-known names.
var (
	NameType           = MustName("Type")
	NameSubtype        = MustName("Subtype")
	NameLength         = MustName("Length")
	NameFilter         = MustName("Filter")
	NameDecodeParms    = MustName("DecodeParms")
	NameCatalog        = MustName("Catalog")
	NamePages          = MustName("Pages")
	NamePage           = MustName("Page")
	NameKids           = MustName("Kids")
	NameCount          = MustName("Count")
	NameParent         = MustName("Parent")
	NameMediaBox       = MustName("MediaBox")
	NameCropBox        = MustName("CropBox")
	NameRotate         = MustName("Rotate")
	NameResources      = MustName("Resources")
	NameContents       = MustName("Contents")
	NameFont           = MustName("Font")
	NameXObject        = MustName("XObject")
	NameSize           = MustName("Size")
	NameRoot           = MustName("Root")
	NameInfo           = MustName("Info")
	NameID             = MustName("ID")
	NameTitle          = MustName("Title")
	NameFlateDecode    = MustName("FlateDecode")
	NameASCIIHexDecode = MustName("ASCIIHexDecode")
	NameASCII85Decode  = MustName("ASCII85Decode")
)
