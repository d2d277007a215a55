package ron

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTerminator = errors.New("ron: invalid terminator")

	ErrBadCoordinate   = errors.New("ron: bad op coordinate")
	ErrBadAtom         = errors.New("ron: bad op atom")
	ErrTrailingContent = errors.New("ron: trailing content after terminator")

	ErrDanglingContinuation = errors.New("ron: reduced op continues no chunk")
	ErrBadOpRecord          = errors.New("ron: bad op TLV record")
)

// ParseError locates a syntax fault within op text.
type ParseError struct {
	// Offset is the byte offset within the op text.
	Offset int
	// Line is 1-based when the op came from a multi-line frame, 0 otherwise.
	Line int
	// Production names the grammar element that was expected.
	Production string
	Err        error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d offset %d, expected %s",
			e.Err.Error(), e.Line, e.Offset, e.Production)
	}
	return fmt.Sprintf("%s: offset %d, expected %s",
		e.Err.Error(), e.Offset, e.Production)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ChunkError is a structural fault found by the chunker.
type ChunkError struct {
	// Index of the offending op in the frame.
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s: op %d", e.Err.Error(), e.Index)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
