package ron

// Chunk is a view into a frame: either a single raw op, or a query or
// header op followed by its reduced ops. A chunk shares memory with
// its frame; its capacity is clipped so appending to it never touches
// the frame.
type Chunk []Op

// Head is the op that opened the chunk.
func (c Chunk) Head() Op {
	return c[0]
}

// Directive is the terminator of the heading op: Raw, Query or Header.
func (c Chunk) Directive() Terminator {
	return c[0].Term
}

func (c Chunk) IsRaw() bool {
	return len(c) == 1 && c[0].Term == Raw
}

// Results are the reduced ops that follow the head.
func (c Chunk) Results() []Op {
	return c[1:]
}

func (c Chunk) Frame() Frame {
	return Frame(c)
}

// Chunker walks a frame left to right and yields its chunks.
// It holds at most one pending chunk. A caller may stop at any time.
//
//	ch := NewChunker(frame)
//	for ch.Next() {
//		use(ch.Chunk())
//	}
//	if err := ch.Err(); err != nil { ... }
type Chunker struct {
	frame Frame
	pos   int
	chunk Chunk
	err   error
}

func NewChunker(frame Frame) *Chunker {
	return &Chunker{frame: frame}
}

// Next advances to the next chunk. It returns false at the end of the
// frame or on a structural error, see Err.
func (ch *Chunker) Next() bool {
	ch.chunk = nil
	if ch.err != nil || ch.pos >= len(ch.frame) {
		return false
	}
	start := ch.pos
	switch head := ch.frame[start]; head.Term {
	case Raw:
		ch.pos++
	case Query, Header:
		ch.pos++
		for ch.pos < len(ch.frame) && ch.frame[ch.pos].Term == Reduced {
			ch.pos++
		}
	case Reduced:
		ch.err = &ChunkError{Index: start, Err: ErrDanglingContinuation}
		return false
	default:
		ch.err = &ChunkError{Index: start, Err: ErrInvalidTerminator}
		return false
	}
	ch.chunk = Chunk(ch.frame[start:ch.pos:ch.pos])
	return true
}

func (ch *Chunker) Chunk() Chunk {
	return ch.chunk
}

func (ch *Chunker) Err() error {
	return ch.err
}

// Chunks groups the whole frame. A dangling reduced op fails the
// entire frame: no chunks are returned then.
func Chunks(frame Frame) ([]Chunk, error) {
	var chunks []Chunk
	ch := NewChunker(frame)
	for ch.Next() {
		chunks = append(chunks, ch.Chunk())
	}
	if err := ch.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
