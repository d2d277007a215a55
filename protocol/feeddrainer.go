package protocol

import (
	"context"
	"io"
)

// Feeder produces batches of records. The EOF convention follows
// io.Reader: either `records, EOF` or `records, nil` then `nil, EOF`.
type Feeder interface {
	Feed(ctx context.Context) (recs Records, err error)
}

type FeedCloser interface {
	Feeder
	io.Closer
}

// Drainer consumes batches of records.
type Drainer interface {
	Drain(ctx context.Context, recs Records) error
}

type DrainCloser interface {
	Drainer
	io.Closer
}

// Relay moves one batch from the feeder to the drainer. Records fed
// together with an error are still drained.
func Relay(ctx context.Context, feeder Feeder, drainer Drainer) error {
	recs, err := feeder.Feed(ctx)
	if len(recs) > 0 {
		derr := drainer.Drain(ctx, recs)
		if err == nil {
			err = derr
		}
	}
	return err
}

// Pump relays until the feeder or the drainer fails, or ctx is done.
// A clean end of feed returns nil.
func Pump(ctx context.Context, feeder Feeder, drainer Drainer) (err error) {
	for err == nil && ctx.Err() == nil {
		err = Relay(ctx, feeder, drainer)
	}
	if err == io.EOF {
		return nil
	}
	if err == nil {
		err = ctx.Err()
	}
	return
}
