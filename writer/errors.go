package writer

import (
	"errors"
	"fmt"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/xref"
)

var (
	ErrDanglingReference = errors.New("writer: dangling reference")
	ErrFieldOverflow     = xref.ErrFieldOverflow
	ErrNoRoot            = errors.New("writer: table has no catalog")
	ErrInvalidVersion    = errors.New("writer: invalid version")
)

// DanglingReferenceError names a reference that does not resolve to an
// assigned object. Owner is the zero Reference when the trailer holds it.
type DanglingReferenceError struct {
	Owner cos.Reference
	Ref   cos.Reference
}

func (e *DanglingReferenceError) Error() string {
	if e.Owner.IsZero() {
		return fmt.Sprintf("writer: dangling reference %s in trailer", e.Ref)
	}
	return fmt.Sprintf("writer: dangling reference %s in object %d %d", e.Ref, e.Owner.Number, e.Owner.Generation)
}

func (e *DanglingReferenceError) Is(target error) bool { return target == ErrDanglingReference }
