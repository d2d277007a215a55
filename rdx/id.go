package rdx

import (
	"encoding/binary"
	"errors"
	"strconv"
)

/*
	ID is a 128-bit locator: a replica (source) id plus a progress
	counter. The progress is a sequence number with a 12-bit offset
	in the lower bits. IDs are opaque to the op layer; they are only
	compared, printed and parsed.

0...............16..............32..............48.............64
+-------+-------+-------+-------+-------+-------+-------+-------
|.....(32 unused)..............|.........source.(32.bits).....|
|......(12 unused)....|.....sequence.(40.bits).....|offset(12)|
*/
type ID struct {
	src uint64
	pro uint64
}

const proBits = 52
const proMask = uint64(uint64(1)<<proBits) - 1
const offBits = 12
const OffMask = uint64(1<<offBits) - 1

const MaxSrc = (1 << 32) - 1
const MaxSeq = proMask >> offBits

var ID0 ID = ID{}

var BadId = ID{^uint64(0), ^uint64(0)}

var ErrBadID = errors.New("rdx: bad id syntax")

var ErrIDRange = errors.New("rdx: id field out of range")

// MakeID checks src <= MaxSrc, seq <= MaxSeq, offset <= OffMask.
// Every id that passes has a text form ParseID reads back.
func MakeID(src, seq, offset uint64) (ID, error) {
	if src > MaxSrc || seq > MaxSeq || offset > OffMask {
		return BadId, ErrIDRange
	}
	return ID{src, seq<<offBits | offset}, nil
}

// NewID panics on out-of-range fields, see MakeID.
func NewID(src uint64, seq uint64, offset uint64) ID {
	id, err := MakeID(src, seq, offset)
	if err != nil {
		panic(err)
	}
	return id
}

func IDFromSrcSeqOff(src uint64, seq uint64, off uint16) ID {
	return NewID(src, seq, uint64(off))
}

// idFromSrcPro is the decoders' check: BadId unless the raw pair is
// a legal id.
func idFromSrcPro(src, pro uint64) ID {
	if src > MaxSrc || pro > proMask {
		return BadId
	}
	return ID{src, pro}
}

func (id ID) Less(other ID) bool {
	if id.src != other.src {
		return id.src < other.src
	}
	return id.pro < other.pro
}

// Compare returns -1, 0 or 1; source first, progress second.
func (id ID) Compare(other ID) int {
	switch {
	case id == other:
		return 0
	case id.Less(other):
		return -1
	default:
		return 1
	}
}

// Src is the replica id. That is normally a small number.
func (id ID) Src() uint64 {
	return id.src
}

// Seq is the op sequence number (each replica generates its own
// sequence numbers)
func (id ID) Seq() uint64 {
	return (id.pro & proMask) >> offBits
}

func (id ID) Off() uint64 {
	return id.pro & OffMask
}

func (id ID) Pro() uint64 {
	return id.pro & proMask
}

func (id ID) ZeroOff() ID {
	id.pro &= ^OffMask
	return id
}

// IncPro moves the sequence number forward, keeping the source and
// the offset. Panics past MaxSeq.
func (id ID) IncPro(inc uint64) ID {
	return NewID(id.src, id.Seq()+inc, id.Off())
}

// Bytes is a fixed-width big-endian form; byte order matches ID order.
func (id ID) Bytes() []byte {
	var ret [16]byte
	binary.BigEndian.PutUint64(ret[:8], id.src)
	binary.BigEndian.PutUint64(ret[8:16], id.Pro())
	return ret[:]
}

func IDFromBytes(by []byte) ID {
	if len(by) < 16 {
		return BadId
	}
	return idFromSrcPro(binary.BigEndian.Uint64(by[:8]), binary.BigEndian.Uint64(by[8:16]))
}

func (id ID) ZipBytes() []byte {
	return ZipUint64Pair(id.Src(), id.Pro())
}

func IDFromZipBytes(zip []byte) ID {
	return idFromSrcPro(UnzipUint64Pair(zip))
}

func (id ID) AppendText(b []byte) []byte {
	b = strconv.AppendUint(b, id.Src(), 16)
	b = append(b, '-')
	b = strconv.AppendUint(b, id.Seq(), 16)
	if off := id.Off(); off != 0 {
		b = append(b, '-')
		b = strconv.AppendUint(b, off, 16)
	}
	return b
}

func (id ID) String() string {
	var buf [40]byte
	return string(id.AppendText(buf[:0]))
}

func (id ID) MarshalText() ([]byte, error) {
	return id.AppendText(nil), nil
}

func (id *ID) UnmarshalText(text []byte) (err error) {
	*id, err = ParseID(string(text))
	return
}

// IDFromString is the lenient form of ParseID: BadId on error.
func IDFromString(idstr string) ID {
	id, err := ParseID(idstr)
	if err != nil {
		return BadId
	}
	return id
}

// ParseID accepts exactly one id: "off", "src-seq" or "src-seq-off", hex.
func ParseID(idstr string) (ID, error) {
	id, rest, err := ReadID([]byte(idstr))
	if err == nil && len(rest) != 0 {
		err = ErrBadID
	}
	if err != nil {
		return BadId, err
	}
	return id, nil
}

// ReadID reads an id from the front of the buffer, returns the rest.
// It stops at the first byte that is neither a hex digit nor a dash.
func ReadID(idstr []byte) (ID, []byte, error) {
	var parts [3]uint64
	var digits [3]int
	i, p := 0, 0
scan:
	for ; i < len(idstr); i++ {
		c := idstr[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(10 + c - 'a')
		case c >= 'A' && c <= 'F':
			d = uint64(10 + c - 'A')
		case c == '-':
			if digits[p] == 0 || p == 2 {
				return BadId, idstr[i:], ErrBadID
			}
			p++
			continue
		default:
			break scan
		}
		if digits[p] >= 16 {
			return BadId, idstr[i:], ErrBadID
		}
		parts[p] = parts[p]<<4 | d
		digits[p]++
	}
	rest := idstr[i:]
	if digits[p] == 0 {
		return BadId, rest, ErrBadID
	}
	var src, seq, off uint64
	switch p {
	case 0:
		off = parts[0]
	case 1:
		src, seq = parts[0], parts[1]
	case 2:
		src, seq, off = parts[0], parts[1], parts[2]
	}
	id, err := MakeID(src, seq, off)
	if err != nil {
		return BadId, rest, ErrBadID
	}
	return id, rest, nil
}
