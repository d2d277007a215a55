package rdx

import (
	"errors"
	"unicode/utf8"
)

var ErrBadString = errors.New("rdx: bad string literal")

const hex = "0123456789abcdef"

// AppendQuoted appends a double-quoted, escaped form of s.
// Bytes outside ASCII are copied as is.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '\\', '"':
			dst = append(dst, '\\', b)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if b < 0x20 || b == 0x7f {
				dst = append(dst, '\\', 'u', '0', '0', hex[b>>4], hex[b&0xF])
			} else {
				dst = append(dst, b)
			}
		}
	}
	return append(dst, '"')
}

// ReadQuoted reads a quoted string off the front of data, returns
// the unescaped value and the bytes past the closing quote.
func ReadQuoted(data []byte) (s string, rest []byte, err error) {
	if len(data) == 0 || data[0] != '"' {
		return "", data, ErrBadString
	}
	out := make([]byte, 0, len(data))
	for i := 1; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '"':
			return string(out), data[i+1:], nil
		case c == '\n' || c == '\r':
			return "", data, ErrBadString
		case c != '\\':
			out = append(out, c)
			continue
		}
		i++
		if i >= len(data) {
			break
		}
		switch data[i] {
		case '"', '\\', '/':
			out = append(out, data[i])
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'u':
			if i+4 >= len(data) {
				return "", data, ErrBadString
			}
			r, ok := unhex4(data[i+1 : i+5])
			if !ok {
				return "", data, ErrBadString
			}
			out = utf8.AppendRune(out, r)
			i += 4
		default:
			return "", data, ErrBadString
		}
	}
	return "", data, ErrBadString
}

func unhex4(h []byte) (r rune, ok bool) {
	for _, c := range h {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return r, true
}
