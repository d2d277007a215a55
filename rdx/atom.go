package rdx

import (
	"errors"
	"math"
	"strconv"
)

const (
	None      = byte(0)
	Float     = byte('F')
	Integer   = byte('I')
	Reference = byte('R')
	String    = byte('S')
	Term      = byte('T')
)

// Atom text prefixes. Every atom starts with a byte that can not
// continue a hex id, so an atom may directly follow an id.
const (
	IntegerPrefix   = '='
	FloatPrefix     = '^'
	StringQuote     = '"'
	ReferencePrefix = '>'
	TermPrefix      = '$'
)

var (
	ErrBadAtom     = errors.New("rdx: bad atom syntax")
	ErrBadAtomType = errors.New("rdx: unknown atom type")
	ErrBadTermName = errors.New("rdx: bad term name")
	ErrBadFloat    = errors.New("rdx: float must be finite")
)

// Atom is an immutable FIRST value: Float, Integer, Reference,
// String or Term. Atoms are comparable with ==.
type Atom struct {
	rdt byte
	i   int64
	f   float64
	s   string
	r   ID
}

func NewInteger(i int64) Atom {
	return Atom{rdt: Integer, i: i}
}

// NewFloat panics on NaN and infinities, those have no text form.
func NewFloat(f float64) Atom {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(ErrBadFloat)
	}
	return Atom{rdt: Float, f: f}
}

func NewString(s string) Atom {
	return Atom{rdt: String, s: s}
}

func NewReference(id ID) Atom {
	return Atom{rdt: Reference, r: id}
}

func NewTerm(name string) (Atom, error) {
	if !validTermName(name) {
		return Atom{}, ErrBadTermName
	}
	return Atom{rdt: Term, s: name}, nil
}

var (
	Null  = Atom{rdt: Term, s: "null"}
	True  = Atom{rdt: Term, s: "true"}
	False = Atom{rdt: Term, s: "false"}
)

// Type is one of Float, Integer, Reference, String, Term; None for
// the zero Atom.
func (a Atom) Type() byte {
	return a.rdt
}

func (a Atom) Integer() int64 {
	return a.i
}

func (a Atom) Float() float64 {
	return a.f
}

// Str is the string value of a String atom or the name of a Term.
func (a Atom) Str() string {
	return a.s
}

func (a Atom) Reference() ID {
	return a.r
}

func (a Atom) Native() interface{} {
	switch a.rdt {
	case Integer:
		return a.i
	case Float:
		return a.f
	case String, Term:
		return a.s
	case Reference:
		return a.r
	default:
		return nil
	}
}

func (a Atom) AppendText(b []byte) []byte {
	switch a.rdt {
	case Integer:
		b = append(b, IntegerPrefix)
		b = strconv.AppendInt(b, a.i, 10)
	case Float:
		b = append(b, FloatPrefix)
		b = strconv.AppendFloat(b, a.f, 'g', -1, 64)
	case String:
		b = AppendQuoted(b, a.s)
	case Reference:
		b = append(b, ReferencePrefix)
		b = a.r.AppendText(b)
	case Term:
		b = append(b, TermPrefix)
		b = append(b, a.s...)
	}
	return b
}

func (a Atom) String() string {
	return string(a.AppendText(nil))
}

func (a Atom) MarshalText() ([]byte, error) {
	if a.rdt == None {
		return nil, ErrBadAtomType
	}
	return a.AppendText(nil), nil
}

func (a *Atom) UnmarshalText(text []byte) (err error) {
	*a, err = ParseAtom(string(text))
	return
}

// ParseAtom is the exact inverse of Atom.String.
func ParseAtom(txt string) (Atom, error) {
	a, rest, err := ReadAtom([]byte(txt))
	if err == nil && len(rest) != 0 {
		err = ErrBadAtom
	}
	if err != nil {
		return Atom{}, err
	}
	return a, nil
}

// ReadAtom lexes one atom off the front of the buffer. The atom
// kind is decided by its first byte.
func ReadAtom(data []byte) (a Atom, rest []byte, err error) {
	if len(data) == 0 {
		return Atom{}, data, ErrBadAtom
	}
	switch data[0] {
	case IntegerPrefix:
		n := 1
		if n < len(data) && (data[n] == '-' || data[n] == '+') {
			n++
		}
		n = skipDigits(data, n)
		var i int64
		i, err = strconv.ParseInt(string(data[1:n]), 10, 64)
		if err != nil {
			return Atom{}, data, ErrBadAtom
		}
		return NewInteger(i), data[n:], nil
	case FloatPrefix:
		n := 1
		for n < len(data) && isFloatByte(data[n]) {
			n++
		}
		var f float64
		f, err = strconv.ParseFloat(string(data[1:n]), 64)
		if err != nil || math.IsInf(f, 0) {
			return Atom{}, data, ErrBadAtom
		}
		return Atom{rdt: Float, f: f}, data[n:], nil
	case StringQuote:
		var s string
		s, rest, err = ReadQuoted(data)
		if err != nil {
			return Atom{}, data, err
		}
		return NewString(s), rest, nil
	case ReferencePrefix:
		var id ID
		id, rest, err = ReadID(data[1:])
		if err != nil {
			return Atom{}, data, ErrBadAtom
		}
		return NewReference(id), rest, nil
	case TermPrefix:
		n := 1
		for n < len(data) && isNameByte(data[n]) {
			n++
		}
		name := string(data[1:n])
		if !validTermName(name) {
			return Atom{}, data, ErrBadAtom
		}
		return Atom{rdt: Term, s: name}, data[n:], nil
	default:
		return Atom{}, data, ErrBadAtom
	}
}

// IsAtomStart tells whether an atom may begin with the byte.
func IsAtomStart(c byte) bool {
	switch c {
	case IntegerPrefix, FloatPrefix, StringQuote, ReferencePrefix, TermPrefix:
		return true
	default:
		return false
	}
}

func skipDigits(data []byte, n int) int {
	for n < len(data) && data[n] >= '0' && data[n] <= '9' {
		n++
	}
	return n
}

func isFloatByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' ||
		c == '+' || c == '-'
}

func isNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}

func validTermName(name string) bool {
	if len(name) == 0 || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}
