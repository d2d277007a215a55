package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drpcorg/ron/oplog"
	"github.com/drpcorg/ron/protocol"
	"github.com/drpcorg/ron/rdx"
	"github.com/drpcorg/ron/ron"
	"github.com/drpcorg/ron/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	queryOp   = "*0-1a#ae-32@ae-35:0-0?\n"
	reducedOp = "*0-1a#ae-32@ae-36:0-0=5, \"five\",\n"
	rawOp     = "*0-1a#ae-40@ae-37:0-0$true;\n"
)

func testServer(t *testing.T) (*Server, *oplog.Store) {
	logger := utils.NewDefaultLogger(slog.LevelError)
	store, err := oplog.Open(t.TempDir(), oplog.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	parser, err := ron.NewParser(16)
	require.NoError(t, err)
	return NewServer(store, parser, logger), store
}

func do(srv *Server, method, path, ctype, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if ctype != "" {
		req.Header.Set("Content-Type", ctype)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPostFrameText(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(srv, http.MethodPost, "/frames", ContentTypeText, queryOp+reducedOp+rawOp)
	require.Equal(t, http.StatusOK, rec.Code)
	var reply FrameReply
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, FrameReply{Ops: 3, Chunks: 2}, reply)

	rec = do(srv, http.MethodGet, "/chunks/ae-35/ae-32", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, queryOp+reducedOp, rec.Body.String())

	rec = do(srv, http.MethodGet, "/chunks", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, queryOp+reducedOp+rawOp, rec.Body.String())
}

func TestPostFrameTLV(t *testing.T) {
	srv, store := testServer(t)
	frame, err := ron.ParseFrame(queryOp + reducedOp + rawOp)
	require.NoError(t, err)
	body := protocol.Join(ron.FrameRecords(frame)...)

	rec := do(srv, http.MethodPost, "/frames", ContentTypeTLV, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	chunk, err := store.Get(frame[2].Event, frame[2].Object)
	assert.Nil(t, err)
	assert.True(t, chunk.IsRaw())

	rec = do(srv, http.MethodPost, "/frames", ContentTypeTLV, string(body[:len(body)-1]))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var op []byte
	op = protocol.Append(op, 'k', []byte{';'})
	op = protocol.Append(op, 'r', rdx.ZipUint64Pair(1<<40, 1))
	for i := 0; i < 3; i++ {
		op = protocol.Append(op, 'r', nil)
	}
	rec = do(srv, http.MethodPost, "/frames", ContentTypeTLV, string(protocol.Record(ron.OpLit, op)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostFrameErrors(t *testing.T) {
	srv, store := testServer(t)

	rec := do(srv, http.MethodPost, "/frames", ContentTypeText, queryOp+"*0-1a#ae-32@ae-36:0-0=5\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var reply ErrorReply
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, 2, reply.Line)
	assert.NotNil(t, reply.Offset)

	rec = do(srv, http.MethodPost, "/frames", ContentTypeText, rawOp+reducedOp)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	reply = ErrorReply{}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.NotNil(t, reply.Op)
	assert.Equal(t, 1, *reply.Op)

	n := 0
	assert.Nil(t, store.Scan(context.Background(), func(ron.Chunk) error {
		n++
		return nil
	}))
	assert.Zero(t, n)
}

func TestGetChunkErrors(t *testing.T) {
	srv, _ := testServer(t)

	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/chunks/ae-35/ae-32", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/chunks/zz/ae-32", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(srv, http.MethodDelete, "/chunks", "", "").Code)
}

func TestMetrics(t *testing.T) {
	srv, _ := testServer(t)
	require.Equal(t, http.StatusOK, do(srv, http.MethodPost, "/frames", ContentTypeText, rawOp).Code)

	rec := do(srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ron_oplog_frames_total 1")
	assert.Contains(t, rec.Body.String(), "ron_oplog_ops_total 1")
	assert.Contains(t, rec.Body.String(), "ron_pebble_memtable_size_bytes")
}

func TestPostFrameContentType(t *testing.T) {
	srv, store := testServer(t)
	frame, err := ron.ParseFrame(rawOp)
	require.NoError(t, err)
	body := string(protocol.Join(ron.FrameRecords(frame)...))

	rec := do(srv, http.MethodPost, "/frames", ContentTypeTLV+"; charset=binary", body)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = store.Get(frame[0].Event, frame[0].Object)
	assert.Nil(t, err)

	assert.True(t, isTLV("Application/X-RON-TLV"))
	assert.False(t, isTLV("text/plain"))
	assert.False(t, isTLV(";;"))
}

func TestPostFrameTooLarge(t *testing.T) {
	srv, _ := testServer(t)
	srv.maxBody = 16

	rec := do(srv, http.MethodPost, "/frames", ContentTypeText, queryOp+reducedOp)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	rec = do(srv, http.MethodPost, "/frames", ContentTypeText, "\n")
	assert.Equal(t, http.StatusOK, rec.Code)
}
