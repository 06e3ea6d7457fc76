// Package encoding provides the named single-byte character encodings used
// to lower text into strings shown with simple fonts (ISO 32000-1, Annex D).
package encoding

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/wudi/pdfwriter/cos"
)

var ErrUnknownEncoding = errors.New("encoding: unknown encoding")

// Encoding maps between Unicode scalars and single-byte codes.
type Encoding interface {
	// Name is the value written to a font's /Encoding entry.
	Name() cos.Name
	Encode(r rune) (byte, bool)
	Decode(b byte) (rune, bool)
}

// UnencodableError reports a scalar the target encoding has no code for.
type UnencodableError struct {
	Rune     rune
	Encoding string
}

func (e *UnencodableError) Error() string {
	return fmt.Sprintf("encoding: %U not representable in %s", e.Rune, e.Encoding)
}

type charmapEncoding struct {
	name cos.Name
	cm   *charmap.Charmap
	// undefined lists codes the PDF table leaves empty even though the
	// platform code page assigns them.
	undefined map[byte]bool
}

func (e *charmapEncoding) Name() cos.Name { return e.name }

func (e *charmapEncoding) Encode(r rune) (byte, bool) {
	b, ok := e.cm.EncodeRune(r)
	if !ok || e.undefined[b] {
		return 0, false
	}
	return b, true
}

func (e *charmapEncoding) Decode(b byte) (rune, bool) {
	if e.undefined[b] {
		return 0, false
	}
	r := e.cm.DecodeByte(b)
	if r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

var (
	// WinAnsi is WinAnsiEncoding, the Windows code page 1252 layout.
	WinAnsi Encoding = &charmapEncoding{
		name:      cos.MustName("WinAnsiEncoding"),
		cm:        charmap.Windows1252,
		undefined: map[byte]bool{0x81: true, 0x8d: true, 0x8f: true, 0x90: true, 0x9d: true},
	}
	// MacRoman is MacRomanEncoding, the classic Mac OS Roman layout.
	MacRoman Encoding = &charmapEncoding{
		name: cos.MustName("MacRomanEncoding"),
		cm:   charmap.Macintosh,
	}
)

var registry = map[string]Encoding{
	WinAnsi.Name().String():  WinAnsi,
	MacRoman.Name().String(): MacRoman,
}

// Lookup returns the encoding registered under name.
func Lookup(name string) (Encoding, error) {
	if enc, ok := registry[name]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Names lists the registered encodings in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// EncodeString lowers text into enc after NFC normalisation, so that a base
// letter followed by a combining mark maps to its precomposed code.
func EncodeString(enc Encoding, text string) ([]byte, error) {
	text = norm.NFC.String(text)
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := enc.Encode(r)
		if !ok {
			return nil, &UnencodableError{Rune: r, Encoding: enc.Name().String()}
		}
		out = append(out, b)
	}
	return out, nil
}

// EncodeLossy is like EncodeString but substitutes repl for scalars enc
// cannot represent.
func EncodeLossy(enc Encoding, text string, repl byte) []byte {
	text = norm.NFC.String(text)
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := enc.Encode(r)
		if !ok {
			b = repl
		}
		out = append(out, b)
	}
	return out
}

// DecodeString maps codes back to text. Undefined codes become U+FFFD.
func DecodeString(enc Encoding, data []byte) string {
	out := make([]rune, 0, len(data))
	for _, b := range data {
		r, ok := enc.Decode(b)
		if !ok {
			r = utf8.RuneError
		}
		out = append(out, r)
	}
	return string(out)
}

// String lowers text into enc and wraps it as a string object.
func String(enc Encoding, text string) (cos.String, error) {
	b, err := EncodeString(enc, text)
	if err != nil {
		return cos.String{}, err
	}
	return cos.NewBytes(b), nil
}
