// Package filters implements the stream filters the writer can apply and the
// matching decoders used to verify them.
package filters

import (
	"bytes"
	"context"
	stdascii85 "encoding/ascii85"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zlib"

	"github.com/wudi/pdfwriter/cos"
)

var (
	ErrUnknownFilter = errors.New("filters: unknown filter")
	ErrSizeLimit     = errors.New("filters: decoded size exceeds limit")
)

// Encoder transforms a stream payload into the form named by Name.
type Encoder interface {
	Name() cos.Name
	Encode(input []byte) ([]byte, error)
}

// Decoder reverses an Encoder.
type Decoder interface {
	Name() cos.Name
	Decode(ctx context.Context, input []byte, params cos.Dictionary) ([]byte, error)
}

type Pipeline struct {
	decoders []Decoder
	limits   Limits
}

// NewPipeline constructs a pipeline with provided decoders and limits.
func NewPipeline(decoders []Decoder, limits Limits) *Pipeline {
	return &Pipeline{decoders: decoders, limits: limits}
}

// NewDefaultPipeline decodes every filter this package can encode.
func NewDefaultPipeline(limits Limits) *Pipeline {
	return NewPipeline([]Decoder{NewFlateDecoder(), NewASCIIHexDecoder(), NewASCII85Decoder()}, limits)
}

type Limits struct {
	MaxDecompressedSize int64
	MaxDecodeTime       time.Duration
}

func (p *Pipeline) findDecoder(name cos.Name) Decoder {
	for _, d := range p.decoders {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Decode applies filterNames in order, outermost first.
func (p *Pipeline) Decode(ctx context.Context, input []byte, filterNames []cos.Name, params []cos.Dictionary) ([]byte, error) {
	if p.limits.MaxDecodeTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.limits.MaxDecodeTime)
		defer cancel()
	}
	data := input
	for i, name := range filterNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dec := p.findDecoder(name)
		if dec == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
		}
		var param cos.Dictionary
		if i < len(params) {
			param = params[i]
		}
		out, err := dec.Decode(ctx, data, param)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if p.limits.MaxDecompressedSize > 0 && int64(len(out)) > p.limits.MaxDecompressedSize {
			return nil, ErrSizeLimit
		}
		data = out
	}
	return data, nil
}

// DecodeStream decodes the payload of s through the filters it declares.
func (p *Pipeline) DecodeStream(ctx context.Context, s cos.Stream) ([]byte, error) {
	names, params := ExtractFilters(s.Dictionary())
	return p.Decode(ctx, s.Data(), names, params)
}

type Registry struct{ encoders map[cos.Name]Encoder }

// NewRegistry returns a registry holding the given encoders.
func NewRegistry(encoders ...Encoder) *Registry {
	r := &Registry{}
	for _, e := range encoders {
		r.Register(e)
	}
	return r
}

func (r *Registry) Register(e Encoder) {
	if r.encoders == nil {
		r.encoders = make(map[cos.Name]Encoder)
	}
	r.encoders[e.Name()] = e
}

func (r *Registry) Get(name cos.Name) (Encoder, bool) { e, ok := r.encoders[name]; return e, ok }

// Flate

type flateEncoder struct{ level int }

// NewFlateEncoder returns a FlateDecode encoder at the given zlib level.
// Level 0 selects the default compression level.
func NewFlateEncoder(level int) Encoder {
	if level == 0 {
		level = zlib.DefaultCompression
	}
	return flateEncoder{level: level}
}

func (flateEncoder) Name() cos.Name { return cos.NameFlateDecode }

func (e flateEncoder) Encode(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, e.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type flateDecoder struct{}

func (flateDecoder) Name() cos.Name { return cos.NameFlateDecode }
func NewFlateDecoder() Decoder      { return flateDecoder{} }

func (flateDecoder) Decode(ctx context.Context, in []byte, params cos.Dictionary) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ASCII85

type ascii85Encoder struct{}

func NewASCII85Encoder() Encoder { return ascii85Encoder{} }

func (ascii85Encoder) Name() cos.Name { return cos.NameASCII85Decode }
func (ascii85Encoder) Encode(in []byte) ([]byte, error) {
	dst := make([]byte, stdascii85.MaxEncodedLen(len(in)))
	n := stdascii85.Encode(dst, in)
	return append(dst[:n], "~>"...), nil
}

type ascii85Decoder struct{}

func (ascii85Decoder) Name() cos.Name { return cos.NameASCII85Decode }
func (ascii85Decoder) Decode(ctx context.Context, in []byte, params cos.Dictionary) ([]byte, error) {
	trimmed := bytes.TrimSpace(in)
	trimmed = bytes.TrimPrefix(trimmed, []byte("<~"))
	trimmed = bytes.TrimSuffix(trimmed, []byte("~>"))
	out := make([]byte, len(trimmed)*4+4)
	n, _, err := stdascii85.Decode(out, trimmed, true)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
func NewASCII85Decoder() Decoder { return ascii85Decoder{} }

// ASCIIHex

type asciiHexEncoder struct{}

func NewASCIIHexEncoder() Encoder { return asciiHexEncoder{} }

func (asciiHexEncoder) Name() cos.Name { return cos.NameASCIIHexDecode }
func (asciiHexEncoder) Encode(in []byte) ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(len(in))+1)
	hex.Encode(dst, in)
	dst[len(dst)-1] = '>'
	return bytes.ToUpper(dst), nil
}

type asciiHexDecoder struct{}

func (asciiHexDecoder) Name() cos.Name { return cos.NameASCIIHexDecode }
func (asciiHexDecoder) Decode(ctx context.Context, in []byte, params cos.Dictionary) ([]byte, error) {
	trimmed := bytes.TrimSpace(in)
	if i := bytes.IndexByte(trimmed, '>'); i >= 0 {
		trimmed = trimmed[:i]
	}
	// odd length: the final digit is followed by an implicit 0
	if len(trimmed)%2 == 1 {
		trimmed = append(append([]byte(nil), trimmed...), '0')
	}
	result := make([]byte, hex.DecodedLen(len(trimmed)))
	n, err := hex.Decode(result, trimmed)
	if err != nil {
		return nil, err
	}
	return result[:n], nil
}
func NewASCIIHexDecoder() Decoder { return asciiHexDecoder{} }
