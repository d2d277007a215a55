package ron

import (
	"errors"
	"testing"

	"github.com/drpcorg/ron/rdx"
	"github.com/stretchr/testify/assert"
)

const frameText = `*0-1a#ae-32@ae-35:0-0"query"?
*0-1a#ae-32@ae-36:ae-35=1, =2,
*0-1a#ae-32@ae-37:ae-35$null,

*0-1a#ae-40@ae-41:0-0^2.5;
`

func TestParseFrame(t *testing.T) {
	frame, err := ParseFrame(frameText)
	assert.Nil(t, err)
	assert.Len(t, frame, 4)
	assert.Equal(t, Query, frame[0].Term)
	assert.Equal(t, rdx.NewString("query"), frame[0].Atoms.At(0))
	assert.Equal(t, 2, frame[1].Atoms.Len())
	assert.Equal(t, Raw, frame[3].Term)

	again, err := ParseFrame(frame.String())
	assert.Nil(t, err)
	assert.True(t, frame.Equal(again))

	crlf, err := ParseFrame("*0-1#0-2@0-3:0-4;\r\n*0-1#0-2@0-3:0-5;")
	assert.Nil(t, err)
	assert.Len(t, crlf, 2)
}

func TestParseFrameErrorLine(t *testing.T) {
	_, err := ParseFrame("*0-1#0-2@0-3:0-4;\n\n*0-1#0-2@0-3:0-4=x;\n")
	assert.ErrorIs(t, err, ErrBadAtom)
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, 16, perr.Offset)
	assert.Contains(t, perr.Error(), "line 3")
}

func TestFrameChunksFromText(t *testing.T) {
	frame, err := ParseFrame(frameText)
	assert.Nil(t, err)
	chunks, err := Chunks(frame)
	assert.Nil(t, err)
	assert.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 3)
	assert.True(t, chunks[1].IsRaw())
}
