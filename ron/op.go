package ron

import (
	"github.com/drpcorg/ron/rdx"
)

const inlineAtoms = 3

// Atoms is an immutable atom sequence. Up to three atoms live inline,
// longer sequences go to the heap. The zero value is empty.
type Atoms struct {
	inline [inlineAtoms]rdx.Atom
	heap   []rdx.Atom
	n      int
}

// MakeAtoms copies the given atoms.
func MakeAtoms(atoms ...rdx.Atom) (a Atoms) {
	a.n = len(atoms)
	if a.n <= inlineAtoms {
		copy(a.inline[:], atoms)
	} else {
		a.heap = make([]rdx.Atom, a.n)
		copy(a.heap, atoms)
	}
	return
}

func (a Atoms) Len() int {
	return a.n
}

func (a Atoms) At(i int) rdx.Atom {
	if a.n > inlineAtoms {
		return a.heap[i]
	}
	if i >= a.n {
		panic("ron: atom index out of range")
	}
	return a.inline[i]
}

// Slice returns a fresh copy of the atoms.
func (a Atoms) Slice() []rdx.Atom {
	ret := make([]rdx.Atom, a.n)
	if a.n > inlineAtoms {
		copy(ret, a.heap)
	} else {
		copy(ret, a.inline[:a.n])
	}
	return ret
}

func (a Atoms) Equal(b Atoms) bool {
	if a.n != b.n {
		return false
	}
	for i := 0; i < a.n; i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

// An Op (operation) describes part of the initial state of an object,
// a specific change to an object, or some other protocol event such as
// a query or a handshake.
//
// Every op consists of four ids (type, object, event and location), a
// possibly empty sequence of atoms, and a terminator.
type Op struct {
	Type     rdx.ID
	Object   rdx.ID
	Event    rdx.ID
	Location rdx.ID
	Atoms    Atoms
	Term     Terminator
}

// NewOp makes an op with the default terminator.
func NewOp(typ, object, event, location rdx.ID, atoms ...rdx.Atom) Op {
	return Op{
		Type:     typ,
		Object:   object,
		Event:    event,
		Location: location,
		Atoms:    MakeAtoms(atoms...),
		Term:     DefaultTerminator,
	}
}

// WithTerm returns a copy of the op with a different terminator.
func (op Op) WithTerm(term Terminator) Op {
	op.Term = term
	return op
}

func (op Op) Equal(other Op) bool {
	return op.Type == other.Type &&
		op.Object == other.Object &&
		op.Event == other.Event &&
		op.Location == other.Location &&
		op.Term == other.Term &&
		op.Atoms.Equal(other.Atoms)
}

// AppendText appends the canonical text form:
//
//	*type#object@event:location atom, atom, atom;
//
// with no space between the location and the first atom, and none
// before the terminator. Ops MarshalText rejects come out unparsable.
func (op Op) AppendText(b []byte) []byte {
	b = append(b, '*')
	b = op.Type.AppendText(b)
	b = append(b, '#')
	b = op.Object.AppendText(b)
	b = append(b, '@')
	b = op.Event.AppendText(b)
	b = append(b, ':')
	b = op.Location.AppendText(b)
	for i := 0; i < op.Atoms.Len(); i++ {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = op.Atoms.At(i).AppendText(b)
	}
	return append(b, op.Term.Symbol())
}

func (op Op) String() string {
	return string(op.AppendText(make([]byte, 0, 64)))
}

// MarshalText fails on ops that have no canonical text: an invalid
// terminator or a zero atom.
func (op Op) MarshalText() ([]byte, error) {
	if !op.Term.Valid() {
		return nil, ErrInvalidTerminator
	}
	for i := 0; i < op.Atoms.Len(); i++ {
		if op.Atoms.At(i).Type() == rdx.None {
			return nil, ErrBadAtom
		}
	}
	return op.AppendText(nil), nil
}

func (op *Op) UnmarshalText(text []byte) (err error) {
	var parsed Op
	parsed, err = ParseOpBytes(text)
	if err == nil {
		*op = parsed
	}
	return
}
