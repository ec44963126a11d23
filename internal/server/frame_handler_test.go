package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framewatch/internal/dao"
	"framewatch/internal/model"
	"framewatch/pkg/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memIndex implements the FrameIndex query contract in memory: partition
// membership, strict > horizon bound, descending order, limit.
type memIndex struct {
	records  []model.FrameRecord
	queryErr error
}

func (m *memIndex) Insert(rec *model.FrameRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memIndex) RecentFrames(partitions []string, horizonTs float64, limit int) ([]model.FrameRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	parts := map[string]bool{}
	for _, p := range partitions {
		parts[p] = true
	}
	var out []model.FrameRecord
	for _, rec := range m.records {
		if parts[rec.ProcessedYearMonth] && rec.ProcessedTimestamp > horizonTs {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProcessedTimestamp > out[j].ProcessedTimestamp
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memStore struct {
	presignErr error
	presigned  []string
}

func (m *memStore) Bucket() string { return "framewatch-test" }

func (m *memStore) PutFrame(ctx context.Context, key string, data []byte) error { return nil }

func (m *memStore) PresignFrame(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if m.presignErr != nil {
		return "", m.presignErr
	}
	m.presigned = append(m.presigned, key)
	return "https://example.test/" + bucket + "/" + key + "?expires=300", nil
}

type recordingNotifier struct {
	configured bool
	calls      int
}

func (n *recordingNotifier) Configured() bool { return n.configured }
func (n *recordingNotifier) Dispatch(ctx context.Context, message string, labels []dao.DetectedLabel) {
	n.calls++
}

func newTestServer(t *testing.T, index *memIndex, store *memStore, notifier *recordingNotifier) *Server {
	t.Helper()
	conf := DefaultConfig()
	conf.Fetch.HorizonHours = 1
	conf.Fetch.Limit = 10
	return &Server{
		conf:     conf,
		logger:   log.NewLogger(),
		index:    index,
		store:    store,
		notifier: notifier,
		loc:      time.UTC,
	}
}

func record(ts float64, month, frameId string) model.FrameRecord {
	return model.FrameRecord{
		FrameId:            frameId,
		ProcessedTimestamp: ts,
		ProcessedYearMonth: month,
		ObjectBucket:       "framewatch-test",
		ObjectKey:          "frames/2026/08/31/10/" + frameId + ".jpg",
	}
}

func doRequest(s *Server, method, target string, body string) *httptest.ResponseRecorder {
	router := s.SetUpRouter()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListFramesMostRecentFirst(t *testing.T) {
	now := time.Now()
	month := model.YearMonth(now, time.UTC)
	index := &memIndex{}
	for i, offset := range []time.Duration{-30 * time.Minute, -10 * time.Minute, -20 * time.Minute} {
		rec := record(model.TimeToTs(now.Add(offset)), month, fmt.Sprintf("frame-%d", i))
		index.records = append(index.records, rec)
	}
	store := &memStore{}
	s := newTestServer(t, index, store, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")

	require.Equal(t, http.StatusOK, w.Code)
	var items []FrameItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "frame-1", items[0].FrameId)
	assert.Equal(t, "frame-2", items[1].FrameId)
	assert.Equal(t, "frame-0", items[2].FrameId)
	for _, item := range items {
		assert.NotEmpty(t, item.PresignedUrl)
		assert.Contains(t, item.PresignedUrl, item.ObjectKey)
	}
}

func TestListFramesPresignsRecordBucket(t *testing.T) {
	// A record keeps the bucket it was written under; the link must point
	// there even when the store is now configured with a different bucket.
	now := time.Now()
	month := model.YearMonth(now, time.UTC)
	old := record(model.TimeToTs(now.Add(-20*time.Minute)), month, "frame-old")
	old.ObjectBucket = "framewatch-archive"
	index := &memIndex{records: []model.FrameRecord{
		record(model.TimeToTs(now.Add(-10*time.Minute)), month, "frame-new"),
		old,
	}}
	s := newTestServer(t, index, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")

	require.Equal(t, http.StatusOK, w.Code)
	var items []FrameItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Contains(t, items[0].PresignedUrl, "/framewatch-test/")
	assert.Contains(t, items[1].PresignedUrl, "/framewatch-archive/")
}

func TestListFramesHorizonExcludesOldRecords(t *testing.T) {
	now := time.Now()
	month := model.YearMonth(now, time.UTC)
	index := &memIndex{records: []model.FrameRecord{
		record(model.TimeToTs(now.Add(-30*time.Minute)), month, "fresh"),
		record(model.TimeToTs(now.Add(-2*time.Hour)), month, "stale"),
	}}
	s := newTestServer(t, index, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")

	require.Equal(t, http.StatusOK, w.Code)
	var items []FrameItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].FrameId)
}

func TestRecentFramesExactBoundaryExcluded(t *testing.T) {
	index := &memIndex{records: []model.FrameRecord{
		record(1000.0, "202608", "boundary"),
		record(1000.000001, "202608", "just-inside"),
	}}

	out, err := index.RecentFrames([]string{"202608"}, 1000.0, 10)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "just-inside", out[0].FrameId)
}

func TestListFramesLimit(t *testing.T) {
	now := time.Now()
	month := model.YearMonth(now, time.UTC)
	index := &memIndex{}
	for i := 0; i < 5; i++ {
		index.records = append(index.records,
			record(model.TimeToTs(now.Add(-time.Duration(i)*time.Minute)), month, fmt.Sprintf("frame-%d", i)))
	}
	s := newTestServer(t, index, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames?limit=2", "")

	require.Equal(t, http.StatusOK, w.Code)
	var items []FrameItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestListFramesEmptyWindowReturnsEmptyList(t *testing.T) {
	s := newTestServer(t, &memIndex{}, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestListFramesIndexErrorReturns400(t *testing.T) {
	s := newTestServer(t, &memIndex{queryErr: errors.New("index unavailable")}, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestListFramesPresignErrorReturns400(t *testing.T) {
	now := time.Now()
	month := model.YearMonth(now, time.UTC)
	index := &memIndex{records: []model.FrameRecord{
		record(model.TimeToTs(now.Add(-5*time.Minute)), month, "frame-0"),
	}}
	s := newTestServer(t, index, &memStore{presignErr: errors.New("credentials expired")}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFramesInvalidQueryReturns400(t *testing.T) {
	s := newTestServer(t, &memIndex{}, &memStore{}, nil)

	assert.Equal(t, http.StatusBadRequest, doRequest(s, http.MethodGet, "/api/v1/frames?hours=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(s, http.MethodGet, "/api/v1/frames?month=2026", "").Code)
}

func TestListFramesArchiveMonth(t *testing.T) {
	index := &memIndex{records: []model.FrameRecord{
		record(500, "202601", "old-frame"),
		record(model.TimeToTs(time.Now()), model.YearMonth(time.Now(), time.UTC), "current"),
	}}
	s := newTestServer(t, index, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames?month=202601", "")

	require.Equal(t, http.StatusOK, w.Code)
	var items []FrameItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "old-frame", items[0].FrameId)
}

func TestCorsHeaders(t *testing.T) {
	s := newTestServer(t, &memIndex{}, &memStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/frames", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = doRequest(s, http.MethodOptions, "/api/v1/frames", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTestAlertRequiresConfiguredChannel(t *testing.T) {
	s := newTestServer(t, &memIndex{}, &memStore{}, &recordingNotifier{configured: false})

	w := doRequest(s, http.MethodPost, "/api/v1/alerts/test", `{"message":"ping"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestAlertDispatches(t *testing.T) {
	n := &recordingNotifier{configured: true}
	s := newTestServer(t, &memIndex{}, &memStore{}, n)

	w := doRequest(s, http.MethodPost, "/api/v1/alerts/test", `{"message":"ping"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, n.calls)
}
