// Package xref builds the classic cross-reference table (ISO 32000-1,
// clause 7.5.4): one fixed-width 20-byte record per object number, with
// free entries chained into a list headed by object 0.
package xref

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	// OffsetWidth and GenerationWidth are the digit counts of the two
	// numeric fields of a record.
	OffsetWidth     = 10
	GenerationWidth = 5

	MaxOffset     = 9_999_999_999
	MaxGeneration = 99_999

	// HeadGeneration is the generation of the free-list head, object 0.
	HeadGeneration = 65535

	// EntrySize is the length of one record including its two-byte EOL.
	EntrySize = 20
)

var ErrFieldOverflow = errors.New("xref: field overflow")

// FieldOverflowError reports a value that does not fit its fixed-width field.
type FieldOverflowError struct {
	Field string
	Value uint64
	Width int
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("xref: %s %d does not fit in %d digits", e.Field, e.Value, e.Width)
}

func (e *FieldOverflowError) Is(target error) bool { return target == ErrFieldOverflow }

// Entry is one cross-reference record. For in-use entries Offset is the byte
// offset of the object; for free entries it is the number of the next free
// object, filled in by the Table.
type Entry struct {
	Offset     uint64
	Generation uint32
	InUse      bool
}

// Table is a single subsection starting at object number 0.
type Table struct {
	entries []Entry
}

// NewTable returns a table holding only the free-list head.
func NewTable() *Table {
	return &Table{entries: []Entry{{Generation: HeadGeneration}}}
}

// AddInUse appends an in-use record for the next object number.
func (t *Table) AddInUse(offset uint64, gen uint32) {
	t.entries = append(t.entries, Entry{Offset: offset, Generation: gen, InUse: true})
}

// AddFree appends a free record for the next object number.
func (t *Table) AddFree(gen uint32) {
	t.entries = append(t.entries, Entry{Generation: gen})
}

// Len returns the number of records, including object 0.
func (t *Table) Len() int { return len(t.entries) }

// Entry returns the record for object number num with the free list linked.
func (t *Table) Entry(num int) (Entry, bool) {
	if num < 0 || num >= len(t.entries) {
		return Entry{}, false
	}
	return t.linked()[num], true
}

// linked returns a copy of the records with each free entry pointing at the
// next free object number; the last free entry points back at 0.
func (t *Table) linked() []Entry {
	out := append([]Entry(nil), t.entries...)
	prev := 0
	for i := 1; i < len(out); i++ {
		if out[i].InUse {
			continue
		}
		out[prev].Offset = uint64(i)
		prev = i
	}
	out[prev].Offset = 0
	return out
}

// Validate checks every record against its field widths.
func (t *Table) Validate() error {
	for _, e := range t.linked() {
		if err := checkEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func checkEntry(e Entry) error {
	if e.Offset > MaxOffset {
		field := "offset"
		if !e.InUse {
			field = "free-list link"
		}
		return &FieldOverflowError{Field: field, Value: e.Offset, Width: OffsetWidth}
	}
	if e.Generation > MaxGeneration {
		return &FieldOverflowError{Field: "generation", Value: uint64(e.Generation), Width: GenerationWidth}
	}
	return nil
}

// AppendEntry appends the 20-byte record for e.
func AppendEntry(dst []byte, e Entry) ([]byte, error) {
	if err := checkEntry(e); err != nil {
		return dst, err
	}
	dst = appendPadded(dst, e.Offset, OffsetWidth)
	dst = append(dst, ' ')
	dst = appendPadded(dst, uint64(e.Generation), GenerationWidth)
	if e.InUse {
		return append(dst, " n \n"...), nil
	}
	return append(dst, " f \n"...), nil
}

func appendPadded(dst []byte, v uint64, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendUint(tmp[:0], v, 10)
	for i := len(digits); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, digits...)
}

// Bytes renders the section: the xref keyword, the subsection header and
// every record. Nothing is returned if any record overflows.
func (t *Table) Bytes() ([]byte, error) {
	entries := t.linked()
	out := make([]byte, 0, 16+len(entries)*EntrySize)
	out = append(out, "xref\n0 "...)
	out = strconv.AppendInt(out, int64(len(entries)), 10)
	out = append(out, '\n')
	var err error
	for _, e := range entries {
		if out, err = AppendEntry(out, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WriteTo writes the section to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	b, err := t.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
