package writer

import (
	"context"
	"io"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/observability"
)

type PDFVersion string

const (
	PDF14 PDFVersion = "1.4"
	PDF17 PDFVersion = "1.7"
	PDF20 PDFVersion = "2.0"
)

type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
	FilterASCIIHex
	FilterASCII85
)

type Config struct {
	// Version overrides the version recorded on the table; "1.7" if both
	// are empty.
	Version PDFVersion
	// Compression is the deflate level for compression mode. Non-zero
	// enables FlateDecode on every stream unless ContentFilter says
	// otherwise.
	Compression   int
	ContentFilter ContentFilter
	// UniqueID replaces the second element of the trailer ID with a random
	// value. The first element is always derived from the file content.
	UniqueID bool
}

// Writer turns a closed object table into a complete file.
type Writer interface {
	// Write encodes table and hands the result to w in a single call.
	// Nothing reaches w if encoding fails.
	Write(ctx context.Context, table *cos.Table, w io.Writer, cfg Config) error
	Encode(ctx context.Context, table *cos.Table, cfg Config) ([]byte, error)
	SerializeObject(ref cos.Reference, v cos.Value) []byte
}

// Interceptor observes each indirect object as it is emitted. Returning an
// error aborts the write.
type Interceptor interface {
	BeforeWrite(ctx context.Context, ref cos.Reference, v cos.Value) error
	AfterWrite(ctx context.Context, ref cos.Reference, v cos.Value, bytesWritten int64) error
}

type WriterBuilder struct {
	interceptors []Interceptor
	logger       observability.Logger
	tracer       observability.Tracer
}

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}

func (b *WriterBuilder) WithLogger(l observability.Logger) *WriterBuilder {
	b.logger = l
	return b
}

func (b *WriterBuilder) WithTracer(t observability.Tracer) *WriterBuilder {
	b.tracer = t
	return b
}

func (b *WriterBuilder) Build() Writer {
	w := &impl{interceptors: b.interceptors, logger: b.logger, tracer: b.tracer}
	if w.logger == nil {
		w.logger = observability.NopLogger{}
	}
	if w.tracer == nil {
		w.tracer = observability.NopTracer()
	}
	return w
}

// NewWriter returns a writer without interceptors that logs nothing.
func NewWriter() Writer { return (&WriterBuilder{}).Build() }
