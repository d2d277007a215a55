package ron

import (
	"bytes"
	"errors"
)

// Frame is an ordered batch of ops as delivered by a transport.
type Frame []Op

// ParseFrame reads one op per line. Empty lines are skipped, a
// trailing CR is tolerated. Errors carry the 1-based line number.
func ParseFrame(text string) (Frame, error) {
	return parseFrameWith([]byte(text), ParseOpBytes)
}

func parseFrameWith(text []byte, parse func([]byte) (Op, error)) (frame Frame, err error) {
	line := 0
	for len(text) > 0 {
		line++
		var next []byte
		if nl := bytes.IndexByte(text, '\n'); nl >= 0 {
			next, text = text[:nl], text[nl+1:]
		} else {
			next, text = text, nil
		}
		next = bytes.TrimSuffix(next, []byte{'\r'})
		if len(next) == 0 {
			continue
		}
		var op Op
		op, err = parse(next)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				located := *perr
				located.Line = line
				err = &located
			}
			return nil, err
		}
		frame = append(frame, op)
	}
	return frame, nil
}

func (f Frame) AppendText(b []byte) []byte {
	for _, op := range f {
		b = op.AppendText(b)
		b = append(b, '\n')
	}
	return b
}

func (f Frame) String() string {
	return string(f.AppendText(make([]byte, 0, len(f)*64)))
}

func (f Frame) Equal(other Frame) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if !f[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
