package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/zeebo/blake3"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/observability"
	"github.com/wudi/pdfwriter/xref"
)

type impl struct {
	interceptors []Interceptor
	logger       observability.Logger
	tracer       observability.Tracer
}

// binaryMarker follows the header so byte-oriented tools treat the file as
// binary.
const binaryMarker = "%\xE2\xE3\xCF\xD3\n"

func (w *impl) SerializeObject(ref cos.Reference, v cos.Value) []byte {
	buf := make([]byte, 0, 64)
	buf = strconv.AppendUint(buf, ref.Number, 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(ref.Generation), 10)
	buf = append(buf, " obj\n"...)
	buf = cos.AppendValue(buf, v)
	return append(buf, "\nendobj\n"...)
}

func (w *impl) Write(ctx context.Context, table *cos.Table, out io.Writer, cfg Config) error {
	data, err := w.Encode(ctx, table, cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func (w *impl) Encode(ctx context.Context, table *cos.Table, cfg Config) (_ []byte, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	ctx, span := w.tracer.StartSpan(ctx, "pdf.write")
	defer func() {
		if err != nil {
			span.SetError(err)
			w.logger.Error("write failed", observability.Error("err", err))
		}
		span.Finish()
	}()

	if table == nil {
		return nil, errors.New("writer: nil table")
	}
	version, err := pdfVersion(table, cfg)
	if err != nil {
		return nil, err
	}
	if err := validate(table); err != nil {
		return nil, err
	}
	objects := table.Objects()
	if enc := encoderFor(pickContentFilter(cfg), cfg.Compression); enc != nil {
		if objects, err = encodeStreams(objects, enc); err != nil {
			return nil, err
		}
	}

	e := newEmitter()
	w.logger.Debug("writing header", observability.String("version", version))
	e.writeString("%PDF-" + version + "\n")
	e.writeString(binaryMarker)

	if err := e.advance(phaseBody); err != nil {
		return nil, err
	}
	w.logger.Debug("writing body", observability.Int("objects", len(objects)))
	offsets := make(map[uint64]uint64, len(objects))
	for _, obj := range objects {
		for _, ic := range w.interceptors {
			if err := ic.BeforeWrite(ctx, obj.Ref, obj.Value); err != nil {
				return nil, fmt.Errorf("interceptor before %s: %w", obj.Ref, err)
			}
		}
		offsets[obj.Ref.Number] = uint64(e.offset())
		n := e.write(w.SerializeObject(obj.Ref, obj.Value))
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ctx, obj.Ref, obj.Value, n); err != nil {
				return nil, fmt.Errorf("interceptor after %s: %w", obj.Ref, err)
			}
		}
	}

	if err := e.advance(phaseIndex); err != nil {
		return nil, err
	}
	xrefOffset := e.offset()
	w.logger.Debug("writing xref", observability.Int64("offset", xrefOffset))
	tbl := buildXRef(table, objects, offsets)
	section, err := tbl.Bytes()
	if err != nil {
		return nil, err
	}
	e.write(section)

	if err := e.advance(phaseTrailer); err != nil {
		return nil, err
	}
	trailer := buildTrailer(table, fileID(e.digest(), cfg))
	e.writeString("trailer\n")
	e.write(cos.Serialize(trailer))
	e.writeString("\nstartxref\n")
	e.writeString(strconv.FormatInt(xrefOffset, 10))
	e.writeString("\n%EOF\n")

	if err := e.advance(phaseDone); err != nil {
		return nil, err
	}
	span.SetTag(observability.MetricObjectCount, len(objects))
	span.SetTag(observability.MetricWriteBytes, e.offset())
	w.logger.Info("pdf written",
		observability.Int("objects", len(objects)),
		observability.Int64("bytes", e.offset()),
		observability.Int64("xref_offset", xrefOffset),
		observability.Duration("elapsed", time.Since(start)),
	)
	return e.bytes(), nil
}

// buildXRef lays out one record per object number. Numbers that were
// reserved but never assigned become free entries.
func buildXRef(table *cos.Table, objects []cos.Object, offsets map[uint64]uint64) *xref.Table {
	gens := make(map[uint64]uint16, len(objects))
	for _, obj := range objects {
		gens[obj.Ref.Number] = obj.Ref.Generation
	}
	tbl := xref.NewTable()
	for num := uint64(1); num <= uint64(table.Len()); num++ {
		off, ok := offsets[num]
		if !ok {
			tbl.AddFree(0)
			continue
		}
		tbl.AddInUse(off, uint32(gens[num]))
	}
	return tbl
}

type phase int

const (
	phaseHeader phase = iota
	phaseBody
	phaseIndex
	phaseTrailer
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseHeader:
		return "header"
	case phaseBody:
		return "body"
	case phaseIndex:
		return "index"
	case phaseTrailer:
		return "trailer"
	case phaseDone:
		return "done"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// emitter accumulates the file and tracks the cumulative byte offset. Header
// and body bytes are also fed to the digest that seeds the file ID.
type emitter struct {
	buf   bytes.Buffer
	hash  *blake3.Hasher
	phase phase
}

func newEmitter() *emitter {
	return &emitter{hash: blake3.New()}
}

func (e *emitter) advance(next phase) error {
	if next != e.phase+1 {
		return fmt.Errorf("writer: cannot move from %s to %s", e.phase, next)
	}
	e.phase = next
	return nil
}

func (e *emitter) write(p []byte) int64 {
	e.buf.Write(p)
	if e.phase <= phaseBody {
		e.hash.Write(p)
	}
	return int64(len(p))
}

func (e *emitter) writeString(s string) int64 { return e.write([]byte(s)) }

func (e *emitter) offset() int64 { return int64(e.buf.Len()) }

func (e *emitter) digest() []byte { return e.hash.Sum(nil) }

func (e *emitter) bytes() []byte { return e.buf.Bytes() }
