package ron

import (
	"errors"
	"testing"

	"github.com/drpcorg/ron/rdx"
	"github.com/stretchr/testify/assert"
)

func seqOp(seq uint64, term Terminator) Op {
	ev := rdx.IDFromSrcSeqOff(0xa, seq, 0)
	return NewOp(tType, tObj, ev, tLoc, rdx.NewInteger(int64(seq))).WithTerm(term)
}

func TestChunksScenario(t *testing.T) {
	a := seqOp(1, Header)
	b := seqOp(2, Reduced)
	c := seqOp(3, Reduced)
	d := seqOp(4, Raw)
	e := seqOp(5, Query)
	f := seqOp(6, Reduced)
	frame := Frame{a, b, c, d, e, f}
	before := frame.String()

	chunks, err := Chunks(frame)
	assert.Nil(t, err)
	assert.Equal(t, []Chunk{{a, b, c}, {d}, {e, f}}, chunks)

	assert.Equal(t, Header, chunks[0].Directive())
	assert.Equal(t, []Op{b, c}, chunks[0].Results())
	assert.True(t, chunks[1].IsRaw())
	assert.Empty(t, chunks[1].Results())
	assert.Equal(t, e, chunks[2].Head())
	assert.Equal(t, Query, chunks[2].Directive())

	assert.Equal(t, before, frame.String())
	grown := append(chunks[0], seqOp(9, Reduced))
	assert.Len(t, grown, 4)
	assert.Equal(t, d, frame[3])
}

func TestChunksAdjacentHeads(t *testing.T) {
	q1 := seqOp(1, Query)
	q2 := seqOp(2, Query)
	r := seqOp(3, Raw)
	h := seqOp(4, Header)
	chunks, err := Chunks(Frame{q1, q2, r, h})
	assert.Nil(t, err)
	assert.Equal(t, []Chunk{{q1}, {q2}, {r}, {h}}, chunks)

	chunks, err = Chunks(nil)
	assert.Nil(t, err)
	assert.Empty(t, chunks)
}

func TestChunksDangling(t *testing.T) {
	x := seqOp(1, Reduced)
	chunks, err := Chunks(Frame{x})
	assert.ErrorIs(t, err, ErrDanglingContinuation)
	assert.Nil(t, chunks)

	var cerr *ChunkError
	assert.True(t, errors.As(err, &cerr))
	assert.Equal(t, 0, cerr.Index)

	// a raw op can not be continued
	chunks, err = Chunks(Frame{seqOp(1, Header), seqOp(2, Raw), seqOp(3, Reduced)})
	assert.ErrorIs(t, err, ErrDanglingContinuation)
	assert.True(t, errors.As(err, &cerr))
	assert.Equal(t, 2, cerr.Index)
	assert.Nil(t, chunks)
}

func TestChunkerStops(t *testing.T) {
	frame := Frame{seqOp(1, Query), seqOp(2, Reduced), seqOp(3, Raw), seqOp(4, Reduced)}
	ch := NewChunker(frame)
	assert.True(t, ch.Next())
	assert.Len(t, ch.Chunk(), 2)
	assert.True(t, ch.Next())
	assert.Len(t, ch.Chunk(), 1)
	assert.False(t, ch.Next())
	assert.Nil(t, ch.Chunk())
	assert.ErrorIs(t, ch.Err(), ErrDanglingContinuation)
	assert.False(t, ch.Next())

	partial := NewChunker(frame)
	assert.True(t, partial.Next())
	assert.Nil(t, partial.Err())
}
