package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/drpcorg/ron/oplog"
	"github.com/drpcorg/ron/protocol"
	"github.com/drpcorg/ron/rdx"
	"github.com/drpcorg/ron/ron"
	"github.com/drpcorg/ron/utils"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeTLV  = "application/x-ron-tlv"
	ContentTypeJSON = "application/json"

	MaxFrameBytes = 1 << 24
)

// Server takes frames over HTTP, as op text one per line or as op
// TLV records, and serves the stored chunks back as text.
type Server struct {
	store    *oplog.Store
	parser   *ron.Parser
	log      utils.Logger
	registry *prometheus.Registry
	maxBody  int64
}

func NewServer(store *oplog.Store, parser *ron.Parser, logger utils.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(store.Collectors()...)
	return &Server{store: store, parser: parser, log: logger, registry: registry, maxBody: MaxFrameBytes}
}

type FrameReply struct {
	Ops    int `json:"ops"`
	Chunks int `json:"chunks"`
}

type ErrorReply struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Op     *int   `json:"op,omitempty"`
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/frames", s.PostFrame)
	r.Get("/chunks", s.ListChunks)
	r.Get("/chunks/{event}/{object}", s.GetChunk)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shut)
	}()
	s.log.InfoCtx(ctx, "http: listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		s.log.InfoCtx(ctx, "http: stopped", "addr", addr)
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps op syntax faults to 400, oversized bodies to 413,
// chunking faults to 422.
func writeError(w http.ResponseWriter, err error) {
	reply := ErrorReply{Error: err.Error()}
	status := http.StatusBadRequest
	var perr *ron.ParseError
	var cerr *ron.ChunkError
	var merr *http.MaxBytesError
	switch {
	case errors.As(err, &merr):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &perr):
		reply.Line = perr.Line
		reply.Offset = &perr.Offset
	case errors.As(err, &cerr):
		status = http.StatusUnprocessableEntity
		reply.Op = &cerr.Index
	case errors.Is(err, oplog.ErrChunkNotFound):
		status = http.StatusNotFound
	case errors.Is(err, oplog.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, reply)
}

// isTLV compares media types only, parameters are ignored.
func isTLV(ctype string) bool {
	if ctype == "" {
		return false
	}
	media, _, err := mime.ParseMediaType(ctype)
	return err == nil && media == ContentTypeTLV
}

func (s *Server) readFrame(w http.ResponseWriter, r *http.Request) (ron.Frame, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, err
	}
	if !isTLV(r.Header.Get("Content-Type")) {
		return s.parser.ParseFrame(string(body))
	}
	buf := bytes.NewBuffer(body)
	recs, err := protocol.Split(buf)
	if err == nil && buf.Len() != 0 {
		err = protocol.ErrIncomplete
	}
	if err != nil {
		return nil, err
	}
	return ron.FrameFromRecords(recs)
}

func (s *Server) PostFrame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	frame, err := s.readFrame(w, r)
	if err != nil {
		s.log.WarnCtx(ctx, "http: bad frame", "remote", r.RemoteAddr, "err", err)
		writeError(w, err)
		return
	}
	n, err := s.store.AppendFrame(ctx, frame)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FrameReply{Ops: len(frame), Chunks: n})
}

func (s *Server) ListChunks(w http.ResponseWriter, r *http.Request) {
	var out []byte
	err := s.store.Scan(r.Context(), func(chunk ron.Chunk) error {
		out = chunk.Frame().AppendText(out)
		return nil
	})
	if err != nil {
		s.log.ErrorCtx(r.Context(), "http: scan failed", "err", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", ContentTypeText)
	_, _ = w.Write(out)
}

func (s *Server) GetChunk(w http.ResponseWriter, r *http.Request) {
	event, err := rdx.ParseID(chi.URLParam(r, "event"))
	if err != nil {
		writeError(w, err)
		return
	}
	object, err := rdx.ParseID(chi.URLParam(r, "object"))
	if err != nil {
		writeError(w, err)
		return
	}
	chunk, err := s.store.Get(event, object)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", ContentTypeText)
	_, _ = w.Write(chunk.Frame().AppendText(nil))
}
