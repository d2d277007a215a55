// Package oplog keeps chunks of ops in a pebble database, keyed by the
// event and object of each chunk's heading op. A frame is chunked
// before anything is written; a frame that does not chunk is rejected
// as a whole. Storing the same chunk again overwrites it.
package oplog

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/pebble"
	"github.com/drpcorg/ron/protocol"
	"github.com/drpcorg/ron/rdx"
	"github.com/drpcorg/ron/ron"
	"github.com/drpcorg/ron/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const ChunkLit = 'C'

const chunkKeyLen = 1 + 16 + 16

var (
	ErrChunkNotFound = errors.New("oplog: chunk not found")
	ErrClosed        = errors.New("oplog: store is closed")
	ErrBadChunk      = errors.New("oplog: bad stored chunk")
)

type Options struct {
	Logger utils.Logger
	// Sync makes every frame commit fsync the WAL.
	Sync bool
	// Pebble options, nil for defaults.
	Pebble *pebble.Options
}

func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = utils.NewDefaultLogger(slog.LevelInfo)
	}
	if o.Pebble == nil {
		o.Pebble = &pebble.Options{}
	}
}

type Store struct {
	db      *pebble.DB
	dir     string
	log     utils.Logger
	opts    Options
	metrics *Metrics
}

func Open(dir string, opts Options) (*Store, error) {
	opts.SetDefaults()
	db, err := pebble.Open(dir, opts.Pebble)
	if err != nil {
		return nil, errors.Wrapf(err, "oplog: open %s", dir)
	}
	opts.Logger.Info("oplog: open", "dir", dir)
	return &Store{
		db:      db,
		dir:     dir,
		log:     opts.Logger,
		opts:    opts,
		metrics: NewMetrics(),
	}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	s.log.Info("oplog: closed", "dir", s.dir)
	return err
}

// ChunkKey is 'C', the event id, the object id; both big-endian, so
// keys sort in id order.
func ChunkKey(event, object rdx.ID) []byte {
	key := make([]byte, 0, chunkKeyLen)
	key = append(key, ChunkLit)
	key = append(key, event.Bytes()...)
	return append(key, object.Bytes()...)
}

func chunkKeyIDs(key []byte) (event, object rdx.ID) {
	if len(key) != chunkKeyLen || key[0] != ChunkLit {
		return rdx.BadId, rdx.BadId
	}
	return rdx.IDFromBytes(key[1:17]), rdx.IDFromBytes(key[17:])
}

func (s *Store) writeOptions() *pebble.WriteOptions {
	if s.opts.Sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// AppendFrame chunks the frame and writes all of its chunks in one
// batch. Returns the number of chunks written.
func (s *Store) AppendFrame(ctx context.Context, frame ron.Frame) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	chunks, err := ron.Chunks(frame)
	if err != nil {
		s.metrics.RejectedFrames.Inc()
		s.log.WarnCtx(ctx, "oplog: frame rejected", "ops", len(frame), "err", err)
		return 0, err
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, chunk := range chunks {
		head := chunk.Head()
		var val []byte
		for _, op := range chunk {
			val = op.AppendTLV(val)
		}
		if err = batch.Set(ChunkKey(head.Event, head.Object), val, nil); err != nil {
			return 0, errors.Wrap(err, "oplog: batch set")
		}
	}
	if err = batch.Commit(s.writeOptions()); err != nil {
		return 0, errors.Wrap(err, "oplog: batch commit")
	}
	s.metrics.Frames.Inc()
	s.metrics.Chunks.Add(float64(len(chunks)))
	s.metrics.Ops.Add(float64(len(frame)))
	s.log.DebugCtx(ctx, "oplog: frame stored", "chunks", len(chunks), "ops", len(frame))
	return len(chunks), nil
}

// Drain takes op records, see ron.FrameRecords, as one frame.
func (s *Store) Drain(ctx context.Context, recs protocol.Records) error {
	frame, err := ron.FrameFromRecords(recs)
	if err != nil {
		s.metrics.RejectedFrames.Inc()
		return err
	}
	_, err = s.AppendFrame(ctx, frame)
	return err
}

func decodeChunk(val []byte) (ron.Chunk, error) {
	frame, err := ron.FrameFromRecords(protocol.Records{val})
	if err != nil || len(frame) == 0 {
		return nil, ErrBadChunk
	}
	return ron.Chunk(frame), nil
}

// Get returns the chunk headed by the op with the given event and object.
func (s *Store) Get(event, object rdx.ID) (ron.Chunk, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	val, closer, err := s.db.Get(ChunkKey(event, object))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "oplog: get")
	}
	defer closer.Close()
	return decodeChunk(val)
}

func (s *Store) chunkIter() (*pebble.Iterator, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{ChunkLit},
		UpperBound: []byte{ChunkLit + 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "oplog: iterator")
	}
	return it, nil
}

// Scan calls fn for every stored chunk in key order. An error from
// fn stops the scan and is returned.
func (s *Store) Scan(ctx context.Context, fn func(ron.Chunk) error) (err error) {
	it, err := s.chunkIter()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}()
	for it.First(); it.Valid(); it.Next() {
		if err = ctx.Err(); err != nil {
			return err
		}
		var chunk ron.Chunk
		chunk, err = decodeChunk(it.Value())
		if err != nil {
			event, object := chunkKeyIDs(it.Key())
			s.log.ErrorCtx(ctx, "oplog: bad chunk", "event", event.String(), "object", object.String())
			return err
		}
		if err = fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns the store metrics and the pebble internals
// collector, ready for prometheus.Registerer.MustRegister.
func (s *Store) Collectors() []prometheus.Collector {
	return append(s.metrics.Collectors(), NewPebbleCollector(s.db))
}
