package rdx

import (
	"math"
	"math/bits"
)

// pairLayouts maps a zipped pair length to the byte widths of its
// halves, big first. Lengths missing here are malformed.
var pairLayouts = map[int][2]int{
	0: {0, 0}, 1: {1, 0}, 2: {1, 1}, 3: {2, 1}, 4: {2, 2},
	5: {4, 1}, 6: {4, 2}, 8: {4, 4},
	9: {8, 1}, 10: {8, 2}, 12: {8, 4}, 16: {8, 8},
}

var pairLengths = [...]int{0, 1, 2, 3, 4, 5, 6, 8, 9, 10, 12, 16}

func fits(v uint64, width int) bool {
	return width >= 8 || v>>(8*width) == 0
}

func putLE(into []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		into = append(into, byte(v>>(8*i)))
	}
	return into
}

func getLE(from []byte) (v uint64) {
	for i := len(from) - 1; i >= 0; i-- {
		v = v<<8 | uint64(from[i])
	}
	return
}

// ZipUint64Pair packs a pair of uint64 into the shortest layout both
// halves fit in, little-endian. The smaller the ints, the shorter
// the string.
func ZipUint64Pair(big, lil uint64) []byte {
	for _, n := range pairLengths {
		w := pairLayouts[n]
		if fits(big, w[0]) && fits(lil, w[1]) {
			ret := make([]byte, 0, n)
			ret = putLE(ret, big, w[0])
			return putLE(ret, lil, w[1])
		}
	}
	panic("unreachable")
}

// UnzipUint64Pair is the inverse of ZipUint64Pair; a malformed length
// gives all ones in both halves.
func UnzipUint64Pair(buf []byte) (big, lil uint64) {
	w, ok := pairLayouts[len(buf)]
	if !ok {
		return ^uint64(0), ^uint64(0)
	}
	return getLE(buf[:w[0]]), getLE(buf[w[0]:])
}

// ZipUint64 drops the zero high bytes.
func ZipUint64(v uint64) []byte {
	return putLE(nil, v, (bits.Len64(v)+7)/8)
}

func UnzipUint64(zip []byte) uint64 {
	return getLE(zip)
}

func ZigZagInt64(i int64) uint64 {
	return uint64(i<<1) ^ uint64(i>>63)
}

func ZagZigUint64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func ZipInt64(v int64) []byte {
	return ZipUint64(ZigZagInt64(v))
}

func UnzipInt64(zip []byte) int64 {
	return ZagZigUint64(UnzipUint64(zip))
}

// ZipFloat64 zips the bit-reversed float, so round numbers with
// zero low mantissa bits come out short.
func ZipFloat64(f float64) []byte {
	return ZipUint64(bits.Reverse64(math.Float64bits(f)))
}

func UnzipFloat64(zip []byte) float64 {
	return math.Float64frombits(bits.Reverse64(UnzipUint64(zip)))
}
