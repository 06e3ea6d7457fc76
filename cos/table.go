package cos

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownObject  = errors.New("cos: object number not allocated")
	ErrObjectAssigned = errors.New("cos: object already assigned")
	ErrNilValue       = errors.New("cos: nil value")
)

// Object is one top-level entry of a Table.
type Object struct {
	Ref   Reference
	Value Value
}

type slot struct {
	gen   uint16
	value Value
}

// Table maps object numbers to top-level values for a single write. Object
// numbers are handed out sequentially from 1; number 0 is the head of the
// free list and is never allocated. A Table is not safe for concurrent use.
type Table struct {
	version string
	slots   []slot
	root    Reference
	info    Reference
}

// NewTable returns an empty object table.
func NewTable() *Table { return &Table{} }

// Reserve allocates the next object number without assigning a value. The
// value must be supplied with Set before the table is written; a reserved
// number that is never assigned is written as a free entry.
func (t *Table) Reserve() Reference {
	t.slots = append(t.slots, slot{})
	return Reference{Number: uint64(len(t.slots))}
}

// Add allocates the next object number and assigns v to it.
func (t *Table) Add(v Value) Reference {
	ref := t.Reserve()
	if v == nil {
		v = Null{}
	}
	t.slots[ref.Number-1].value = v
	return ref
}

// Set assigns v to a previously reserved reference.
func (t *Table) Set(ref Reference, v Value) error {
	if v == nil {
		return ErrNilValue
	}
	s, err := t.slot(ref)
	if err != nil {
		return err
	}
	if s.value != nil {
		return fmt.Errorf("%w: %s", ErrObjectAssigned, ref)
	}
	s.value = v
	return nil
}

func (t *Table) slot(ref Reference) (*slot, error) {
	if ref.Number == 0 || ref.Number > uint64(len(t.slots)) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, ref)
	}
	s := &t.slots[ref.Number-1]
	if s.gen != ref.Generation {
		return nil, fmt.Errorf("%w: %s (generation %d)", ErrUnknownObject, ref, s.gen)
	}
	return s, nil
}

// Lookup returns the value assigned to ref. It fails for unallocated
// numbers, generation mismatches and reserved numbers without a value.
func (t *Table) Lookup(ref Reference) (Value, bool) {
	s, err := t.slot(ref)
	if err != nil || s.value == nil {
		return nil, false
	}
	return s.value, true
}

// Len returns the highest allocated object number.
func (t *Table) Len() int { return len(t.slots) }

// Size returns the trailer Size: highest object number plus one.
func (t *Table) Size() uint64 { return uint64(len(t.slots)) + 1 }

// Objects returns the assigned objects in object-number order, which is
// also allocation order.
func (t *Table) Objects() []Object {
	out := make([]Object, 0, len(t.slots))
	for i, s := range t.slots {
		if s.value == nil {
			continue
		}
		out = append(out, Object{Ref: Reference{Number: uint64(i + 1), Generation: s.gen}, Value: s.value})
	}
	return out
}

// Assigned reports whether object number num holds a value.
func (t *Table) Assigned(num uint64) bool {
	return num > 0 && num <= uint64(len(t.slots)) && t.slots[num-1].value != nil
}

// SetRoot records the document catalog.
func (t *Table) SetRoot(ref Reference) { t.root = ref }

// Root returns the catalog reference, or the zero Reference if unset.
func (t *Table) Root() Reference { return t.root }

// SetInfo records the document information dictionary.
func (t *Table) SetInfo(ref Reference) { t.info = ref }

// Info returns the information dictionary reference, if any.
func (t *Table) Info() (Reference, bool) { return t.info, !t.info.IsZero() }

// SetVersion records the target format version, e.g. "1.7".
func (t *Table) SetVersion(v string) { t.version = v }

// Version returns the target format version, or "" if unset.
func (t *Table) Version() string { return t.version }
