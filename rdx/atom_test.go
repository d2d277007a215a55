package rdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomText(t *testing.T) {
	term, err := NewTerm("x_1")
	assert.Nil(t, err)
	cases := []struct {
		atom Atom
		text string
	}{
		{NewInteger(5), "=5"},
		{NewInteger(-42), "=-42"},
		{NewFloat(3.1415), "^3.1415"},
		{NewFloat(1e21), "^1e+21"},
		{NewFloat(2), "^2"},
		{NewString("fcuk\n\"zis\"\n"), `"fcuk\n\"zis\"\n"`},
		{NewString("a, b;"), `"a, b;"`},
		{NewString("\x01"), `"\u0001"`},
		{NewReference(IDFromSrcSeqOff(0xae, 0x32, 0)), ">ae-32"},
		{Null, "$null"},
		{term, "$x_1"},
	}
	for _, c := range cases {
		assert.Equal(t, c.text, c.atom.String())
		back, err := ParseAtom(c.text)
		assert.Nil(t, err, c.text)
		assert.Equal(t, c.atom, back, c.text)
	}
}

func TestAtomNative(t *testing.T) {
	assert.Equal(t, Integer, NewInteger(1).Type())
	assert.Equal(t, int64(7), NewInteger(7).Native())
	assert.Equal(t, 0.5, NewFloat(0.5).Native())
	assert.Equal(t, "str", NewString("str").Native())
	id := IDFromSrcSeqOff(1, 2, 0)
	assert.Equal(t, id, NewReference(id).Reference())
	assert.Equal(t, None, Atom{}.Type())
	assert.Nil(t, Atom{}.Native())
}

func TestParseAtomErrors(t *testing.T) {
	bad := []string{
		"",
		"5",
		"=",
		"=5x",
		"=99999999999999999999",
		"^",
		"^1e400",
		`"open`,
		`"bad\q"`,
		`"\u12"`,
		">",
		">1--2",
		"$",
		"$1abc",
		"null",
	}
	for _, txt := range bad {
		_, err := ParseAtom(txt)
		assert.Error(t, err, txt)
	}
	_, err := NewTerm("has space")
	assert.ErrorIs(t, err, ErrBadTermName)
	assert.Panics(t, func() { NewFloat(1.0 / zero()) })
}

func zero() float64 { return 0 }

func TestReadAtomRest(t *testing.T) {
	a, rest, err := ReadAtom([]byte(`"x\"y", =6;`))
	assert.Nil(t, err)
	assert.Equal(t, NewString(`x"y`), a)
	assert.Equal(t, ", =6;", string(rest))

	a, rest, err = ReadAtom([]byte("=5,"))
	assert.Nil(t, err)
	assert.Equal(t, NewInteger(5), a)
	assert.Equal(t, ",", string(rest))
}

func TestQuotedEscapes(t *testing.T) {
	s, rest, err := ReadQuoted([]byte(`"\/\b\fé"tail`))
	assert.Nil(t, err)
	assert.Equal(t, "/\b\fé", s)
	assert.Equal(t, "tail", string(rest))
	assert.Equal(t, `"\u007f"`, string(AppendQuoted(nil, "\x7f")))
}

func TestZipInt(t *testing.T) {
	for _, i := range []int64{0, 1, -1, 1 << 40, -(1 << 62)} {
		assert.Equal(t, i, UnzipInt64(ZipInt64(i)))
	}
	for _, f := range []float64{0, 1.5, -3.25, 1e300} {
		assert.Equal(t, f, UnzipFloat64(ZipFloat64(f)))
	}
	big, lil := UnzipUint64Pair(ZipUint64Pair(0x1234, 7))
	assert.Equal(t, uint64(0x1234), big)
	assert.Equal(t, uint64(7), lil)
}

func TestZipPairLayout(t *testing.T) {
	cases := []struct {
		big, lil uint64
		n        int
	}{
		{0, 0, 0},
		{7, 0, 1},
		{0, 1, 2},
		{0x1234, 0, 3},
		{0, 0x1234, 4},
		{1 << 20, 5, 5},
		{1 << 20, 0x1234, 6},
		{1, 1 << 20, 8},
		{1 << 40, 0, 9},
		{1 << 40, 1 << 20, 12},
		{^uint64(0), ^uint64(0), 16},
	}
	for _, c := range cases {
		zip := ZipUint64Pair(c.big, c.lil)
		assert.Len(t, zip, c.n)
		big, lil := UnzipUint64Pair(zip)
		assert.Equal(t, c.big, big)
		assert.Equal(t, c.lil, lil)
	}
	big, lil := UnzipUint64Pair(make([]byte, 7))
	assert.Equal(t, ^uint64(0), big)
	assert.Equal(t, ^uint64(0), lil)
	assert.Len(t, ZipUint64(0x100), 2)
	assert.Empty(t, ZipUint64(0))
}
