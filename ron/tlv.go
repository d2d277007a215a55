package ron

import (
	"math"

	"github.com/drpcorg/ron/protocol"
	"github.com/drpcorg/ron/rdx"
)

// Op TLV layout: an 'O' record holding, in order,
//
//	k  the terminator symbol (tiny)
//	4x the ZipBytes of type, object, event, location (tiny)
//	one record per atom, literal I F S R T, body as below
//
// Integers are zigzag-zipped, floats zipped, references are ZipBytes,
// strings and term names are raw bytes.
const OpLit = 'O'

func (op Op) AppendTLV(into []byte) []byte {
	bm, res := protocol.OpenHeader(into, OpLit)
	res = protocol.Append(res, 'k', []byte{op.Term.Symbol()})
	res = protocol.Append(res, 'r', op.Type.ZipBytes())
	res = protocol.Append(res, 'r', op.Object.ZipBytes())
	res = protocol.Append(res, 'r', op.Event.ZipBytes())
	res = protocol.Append(res, 'r', op.Location.ZipBytes())
	for i := 0; i < op.Atoms.Len(); i++ {
		a := op.Atoms.At(i)
		res = protocol.Append(res, a.Type(), atomBody(a))
	}
	protocol.CloseHeader(res, bm)
	return res
}

func (op Op) TLV() []byte {
	return op.AppendTLV(make([]byte, 0, 64))
}

func atomBody(a rdx.Atom) []byte {
	switch a.Type() {
	case rdx.Integer:
		return rdx.ZipInt64(a.Integer())
	case rdx.Float:
		return rdx.ZipFloat64(a.Float())
	case rdx.Reference:
		return a.Reference().ZipBytes()
	default:
		return []byte(a.Str())
	}
}

func atomFromBody(lit byte, body []byte) (rdx.Atom, error) {
	switch lit {
	case rdx.Integer:
		if len(body) > 8 {
			return rdx.Atom{}, ErrBadOpRecord
		}
		return rdx.NewInteger(rdx.UnzipInt64(body)), nil
	case rdx.Float:
		if len(body) > 8 {
			return rdx.Atom{}, ErrBadOpRecord
		}
		f := rdx.UnzipFloat64(body)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return rdx.Atom{}, ErrBadOpRecord
		}
		return rdx.NewFloat(f), nil
	case rdx.Reference:
		id := rdx.IDFromZipBytes(body)
		if id == rdx.BadId {
			return rdx.Atom{}, ErrBadOpRecord
		}
		return rdx.NewReference(id), nil
	case rdx.String:
		return rdx.NewString(string(body)), nil
	case rdx.Term:
		a, err := rdx.NewTerm(string(body))
		if err != nil {
			return rdx.Atom{}, ErrBadOpRecord
		}
		return a, nil
	default:
		return rdx.Atom{}, ErrBadOpRecord
	}
}

// OpFromTLV decodes one 'O' record from the front of data.
func OpFromTLV(data []byte) (op Op, rest []byte, err error) {
	var body []byte
	body, rest, err = protocol.TakeWary(OpLit, data)
	if err != nil {
		return Op{}, data, err
	}
	sym, body, err := protocol.TakeWary('K', body)
	if err != nil || len(sym) != 1 {
		return Op{}, data, ErrBadOpRecord
	}
	term, ok := terminatorOf(sym[0])
	if !ok {
		return Op{}, data, ErrInvalidTerminator
	}
	var ids [4]rdx.ID
	for i := range ids {
		var zip []byte
		zip, body, err = protocol.TakeWary('R', body)
		if err != nil || len(zip) > 16 {
			return Op{}, data, ErrBadOpRecord
		}
		ids[i] = rdx.IDFromZipBytes(zip)
		if ids[i] == rdx.BadId {
			return Op{}, data, ErrBadOpRecord
		}
	}
	var inline [inlineAtoms]rdx.Atom
	atoms := inline[:0]
	for len(body) > 0 {
		lit, abody, arest, aerr := protocol.TakeAnyWary(body)
		if aerr != nil || abody == nil {
			return Op{}, data, ErrBadOpRecord
		}
		var a rdx.Atom
		a, err = atomFromBody(lit, abody)
		if err != nil {
			return Op{}, data, err
		}
		atoms = append(atoms, a)
		body = arest
	}
	op = Op{
		Type:     ids[0],
		Object:   ids[1],
		Event:    ids[2],
		Location: ids[3],
		Atoms:    MakeAtoms(atoms...),
		Term:     term,
	}
	return op, rest, nil
}

// FrameRecords encodes every op as its own record.
func FrameRecords(frame Frame) protocol.Records {
	recs := make(protocol.Records, 0, len(frame))
	for _, op := range frame {
		recs = append(recs, op.TLV())
	}
	return recs
}

// FrameFromRecords decodes records made by FrameRecords. A record may
// hold several ops back to back.
func FrameFromRecords(recs protocol.Records) (frame Frame, err error) {
	for _, rec := range recs {
		for len(rec) > 0 {
			var op Op
			op, rec, err = OpFromTLV(rec)
			if err != nil {
				return nil, err
			}
			frame = append(frame, op)
		}
	}
	return frame, nil
}
