// Record format is based on ToyTLV (MIT licence) written by Victor Grishchenko in 2024
// Original project: https://github.com/learn-decentralized-systems/toytlv

/*
Package protocol implements the TLV (type-length-value) records that
carry ops in binary form, and the Feeder/Drainer interfaces used to
move batches of records around.

A record header takes one of three forms:

 1. tiny, 1 byte: '0'+len, for bodies of 0..9 bytes written with a
    lowercase literal; the type is lost (reads as '0')
 2. short, 2 bytes: lowercase literal, 1-byte length, up to 255 bytes
 3. long, 5 bytes: uppercase literal, 4-byte little-endian length

Literals are letters A..Z. Parsers come in two flavours: Take for
trusted input (nil on error) and TakeWary for untrusted input (explicit
errors).
*/
package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const CaseBit uint8 = 'a' - 'A'

var (
	ErrIncomplete = errors.New("incomplete data")
	ErrBadRecord  = errors.New("bad TLV record format")
)

// ProbeHeader returns the record type ('A'-'Z', '0' for tiny, '-' for
// a malformed header, 0 if more bytes are needed), header length and
// body length.
func ProbeHeader(data []byte) (lit byte, hdrlen, bodylen int) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	dlit := data[0]
	switch {
	case dlit >= '0' && dlit <= '9':
		lit = '0'
		bodylen = int(dlit - '0')
		hdrlen = 1
	case dlit >= 'a' && dlit <= 'z':
		if len(data) < 2 {
			return
		}
		lit = dlit - CaseBit
		hdrlen = 2
		bodylen = int(data[1])
	case dlit >= 'A' && dlit <= 'Z':
		if len(data) < 5 {
			return
		}
		bl := binary.LittleEndian.Uint32(data[1:5])
		if bl > 0x7fffffff {
			lit = '-'
			return
		}
		lit = dlit
		bodylen = int(bl)
		hdrlen = 5
	default:
		lit = '-'
	}
	return
}

// Split cuts whole records off the buffer. An incomplete trailing
// record stays in the buffer.
func Split(data *bytes.Buffer) (recs Records, err error) {
	for data.Len() > 0 {
		lit, hlen, blen := ProbeHeader(data.Bytes())
		if lit == '-' {
			if len(recs) == 0 {
				err = ErrBadRecord
			}
			return
		}
		if lit == 0 {
			return
		}
		if hlen+blen > data.Len() {
			err = errors.Join(ErrIncomplete, fmt.Errorf("record size %d, have %d", hlen+blen, data.Len()))
			return
		}
		record := make([]byte, hlen+blen)
		if _, err = data.Read(record); err != nil {
			return recs, err
		}
		recs = append(recs, record)
	}
	return
}

// AppendHeader picks the shortest header for the body length.
// A lowercase literal allows the tiny form.
func AppendHeader(into []byte, lit byte, bodylen int) (ret []byte) {
	biglit := lit &^ CaseBit
	if biglit < 'A' || biglit > 'Z' {
		panic("TLV record type is A..Z")
	}
	switch {
	case bodylen < 10 && (lit&CaseBit) != 0:
		ret = append(into, byte('0'+bodylen))
	case bodylen > 0xff:
		if bodylen > 0x7fffffff {
			panic("oversized TLV record")
		}
		ret = append(into, biglit)
		ret = binary.LittleEndian.AppendUint32(ret, uint32(bodylen))
	default:
		ret = append(into, lit|CaseBit, byte(bodylen))
	}
	return ret
}

// Take reads a record of the given type; a tiny record matches any
// type. Returns nil body on a type mismatch, the data unchanged if
// the record is incomplete.
func Take(lit byte, data []byte) (body, rest []byte) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data
	}
	if flit != lit && flit != '0' {
		return nil, nil
	}
	body = data[hdrlen : hdrlen+bodylen]
	rest = data[hdrlen+bodylen:]
	return
}

func TakeWary(lit byte, data []byte) (body, rest []byte, err error) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data, ErrIncomplete
	}
	if flit != lit && flit != '0' {
		return nil, nil, ErrBadRecord
	}
	body = data[hdrlen : hdrlen+bodylen]
	rest = data[hdrlen+bodylen:]
	return
}

// TakeAnyWary reads a record of whatever type comes first.
func TakeAnyWary(data []byte) (lit byte, body, rest []byte, err error) {
	if len(data) == 0 {
		return 0, nil, nil, ErrIncomplete
	}
	lit = data[0] & ^CaseBit
	body, rest, err = TakeWary(lit, data)
	return
}

func TotalLen(inputs [][]byte) (sum int) {
	for _, input := range inputs {
		sum += len(input)
	}
	return
}

// Lit is the record type by the first header byte.
func Lit(rec []byte) byte {
	b := rec[0]
	switch {
	case b >= 'a' && b <= 'z':
		return b - CaseBit
	case b >= 'A' && b <= 'Z':
		return b
	case b >= '0' && b <= '9':
		return '0'
	default:
		return '-'
	}
}

func Append(into []byte, lit byte, body ...[]byte) (res []byte) {
	res = AppendHeader(into, lit, TotalLen(body))
	for _, b := range body {
		res = append(res, b...)
	}
	return res
}

func Record(lit byte, body ...[]byte) []byte {
	total := TotalLen(body)
	ret := make([]byte, 0, total+5)
	return Append(ret, lit, body...)
}

func Join(records ...[]byte) []byte {
	ret := make([]byte, 0, TotalLen(records))
	for _, rec := range records {
		ret = append(ret, rec...)
	}
	return ret
}

// OpenHeader starts a long-form record of unknown length.
// Append the body, then call CloseHeader with the bookmark.
//
//	bookmark, buf := OpenHeader(buf, 'O')
//	buf = append(buf, body...)
//	CloseHeader(buf, bookmark)
func OpenHeader(buf []byte, lit byte) (bookmark int, res []byte) {
	lit &= ^CaseBit
	if lit < 'A' || lit > 'Z' {
		panic("TLV liters are uppercase A-Z")
	}
	res = append(buf, lit, 0, 0, 0, 0)
	return len(res), res
}

func CloseHeader(buf []byte, bookmark int) {
	if bookmark < 5 || len(buf) < bookmark {
		panic("check the API docs")
	}
	binary.LittleEndian.PutUint32(buf[bookmark-4:bookmark], uint32(len(buf)-bookmark))
}
