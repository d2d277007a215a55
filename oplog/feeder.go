package oplog

import (
	"context"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/drpcorg/ron/protocol"
)

const DefaultFeedBatch = 64

// Feeder replays stored chunks as op records, batch chunks per Feed,
// in key order. Each record holds one whole chunk.
type Feeder struct {
	it    *pebble.Iterator
	batch int
	err   error
}

var _ protocol.FeedCloser = (*Feeder)(nil)

func (s *Store) NewFeeder(batch int) (*Feeder, error) {
	if batch <= 0 {
		batch = DefaultFeedBatch
	}
	it, err := s.chunkIter()
	if err != nil {
		return nil, err
	}
	it.First()
	return &Feeder{it: it, batch: batch}, nil
}

func (f *Feeder) Feed(ctx context.Context) (recs protocol.Records, err error) {
	if f.err != nil {
		return nil, f.err
	}
	for len(recs) < f.batch && f.it.Valid() {
		if err = ctx.Err(); err != nil {
			return recs, err
		}
		recs = append(recs, append([]byte(nil), f.it.Value()...))
		f.it.Next()
	}
	if !f.it.Valid() {
		f.err = f.it.Error()
		if f.err == nil {
			f.err = io.EOF
		}
		return recs, f.err
	}
	return recs, nil
}

func (f *Feeder) Close() error {
	if f.it == nil {
		return nil
	}
	err := f.it.Close()
	f.it = nil
	if f.err == nil {
		f.err = io.EOF
	}
	return err
}
