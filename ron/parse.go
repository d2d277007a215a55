package ron

import (
	"github.com/drpcorg/ron/rdx"
)

var coordinates = [4]struct {
	prefix byte
	name   string
}{
	{'*', "type"},
	{'#', "object"},
	{'@', "event"},
	{':', "location"},
}

func ParseOp(text string) (Op, error) {
	return ParseOpBytes([]byte(text))
}

// ParseOpBytes is the exact inverse of Op.AppendText. After an atom,
// a comma followed by a space separates atoms; a terminator must be
// the very last byte of the text.
func ParseOpBytes(text []byte) (op Op, err error) {
	offset := func(rest []byte) int {
		return len(text) - len(rest)
	}
	var ids [4]rdx.ID
	rest := text
	for i, c := range coordinates {
		if len(rest) == 0 || rest[0] != c.prefix {
			return Op{}, &ParseError{
				Offset:     offset(rest),
				Production: "'" + string(c.prefix) + "' " + c.name,
				Err:        ErrBadCoordinate,
			}
		}
		at := offset(rest) + 1
		ids[i], rest, err = rdx.ReadID(rest[1:])
		if err != nil {
			return Op{}, &ParseError{
				Offset:     at,
				Production: c.name + " id",
				Err:        ErrBadCoordinate,
			}
		}
	}

	var inline [inlineAtoms]rdx.Atom
	atoms := inline[:0]
	if len(rest) > 0 && rdx.IsAtomStart(rest[0]) {
		for {
			var a rdx.Atom
			at := offset(rest)
			a, rest, err = rdx.ReadAtom(rest)
			if err != nil {
				return Op{}, &ParseError{
					Offset:     at,
					Production: "atom",
					Err:        ErrBadAtom,
				}
			}
			atoms = append(atoms, a)
			if len(rest) < 2 || rest[0] != ',' || rest[1] != ' ' {
				break
			}
			rest = rest[2:]
		}
	}

	term, ok := Terminator(0), false
	if len(rest) > 0 {
		term, ok = terminatorOf(rest[0])
	}
	if !ok {
		return Op{}, &ParseError{
			Offset:     offset(rest),
			Production: "terminator",
			Err:        ErrInvalidTerminator,
		}
	}
	if len(rest) > 1 {
		return Op{}, &ParseError{
			Offset:     offset(rest) + 1,
			Production: "end of op",
			Err:        ErrTrailingContent,
		}
	}

	op = Op{
		Type:     ids[0],
		Object:   ids[1],
		Event:    ids[2],
		Location: ids[3],
		Atoms:    MakeAtoms(atoms...),
		Term:     term,
	}
	return op, nil
}

func terminatorOf(c byte) (Terminator, bool) {
	if !isTerminatorByte(c) {
		return DefaultTerminator, false
	}
	t, err := ParseTerminator(string(rune(c)))
	return t, err == nil
}
