package protocol

// Records is a batch of byte blobs: TLV records, ops, packets.
// Batching allows writev() and friends; converts to net.Buffers.
type Records [][]byte

func (recs Records) TotalLen() (total int64) {
	for _, r := range recs {
		total += int64(len(r))
	}
	return
}

// WholeRecordPrefix is the longest prefix that fits into limit bytes.
func (recs Records) WholeRecordPrefix(limit int64) (prefix Records, remainder int64) {
	n := 0
	for n < len(recs) && int64(len(recs[n])) <= limit {
		limit -= int64(len(recs[n]))
		n++
	}
	return recs[:n], limit
}
