package ron

// Terminator is the last byte of an op. It decides how the op groups
// with its neighbours in a frame.
type Terminator uint8

const (
	// Reduced ops belong to the query/header op before them.
	// Reduced is the zero value, so an op built without a terminator
	// continues the current chunk.
	Reduced Terminator = iota
	// Raw ops are stand-alone within a frame.
	Raw
	// Query and header ops, as well as reduced ops following them,
	// create a chunk in a frame.
	Query
	Header
)

// DefaultTerminator is what an op gets when none is given.
const DefaultTerminator = Reduced

const terminatorSymbols = ",;?!"

// String returns the one-byte wire symbol.
func (t Terminator) String() string {
	if t > Header {
		return "<bad terminator>"
	}
	return terminatorSymbols[t : t+1]
}

// Symbol is the wire byte of the terminator, 0 for an invalid one.
func (t Terminator) Symbol() byte {
	if !t.Valid() {
		return 0
	}
	return terminatorSymbols[t]
}

func (t Terminator) Valid() bool {
	return t <= Header
}

// OpensChunk is true for Query and Header ops.
func (t Terminator) OpensChunk() bool {
	return t == Query || t == Header
}

// ParseTerminator accepts exactly one of ; ? ! , and nothing else.
func ParseTerminator(inp string) (Terminator, error) {
	switch inp {
	case ";":
		return Raw, nil
	case "?":
		return Query, nil
	case "!":
		return Header, nil
	case ",":
		return Reduced, nil
	default:
		return DefaultTerminator, ErrInvalidTerminator
	}
}

// ParseTerminatorRune is ParseTerminator of the one-rune string.
func ParseTerminatorRune(inp rune) (Terminator, error) {
	return ParseTerminator(string(inp))
}

func isTerminatorByte(c byte) bool {
	return c == ';' || c == '?' || c == '!' || c == ','
}

func (t Terminator) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidTerminator
	}
	return []byte{t.Symbol()}, nil
}

func (t *Terminator) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTerminator(string(text))
	return
}
