package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/actionviz/pkg/cache"
	"github.com/matzehuels/actionviz/pkg/store"
)

const payload = `{"graph":{"nodes":[{"action":"sync-workspace"},{"action":"run-task","params":{"target":"app:build"}}],"edges":[[1,0,null]]}}`

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Source == nil {
		cfg.Source = StaticSource(payload)
	}
	cfg.Logger = quietLogger()
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPage(t *testing.T) {
	ts := newTestServer(t, Config{Title: "nightly"})

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "nightly")
	assert.Contains(t, body, "RunTask(app:build)")
	assert.Contains(t, body, "2 nodes, 1 edges")
	assert.NotContains(t, body, "data-init", "static sources do not reload")
}

func TestPage_InvalidPayload(t *testing.T) {
	ts := newTestServer(t, Config{Source: StaticSource(`{"graph":{"nodes":[{"action":"deploy"}],"edges":[]}}`)})

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e errorBody
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	assert.Equal(t, "UNKNOWN_ACTION", string(e.Code))
	assert.Contains(t, e.Message, "deploy")
}

func TestPage_InvalidLayout(t *testing.T) {
	ts := newTestServer(t, Config{Layout: "spiral"})

	resp, _ := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGraphData(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/graph-data")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, payload, body)
}

func TestElements(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	ts := newTestServer(t, Config{Cache: c})

	resp, body := get(t, ts.URL+"/elements")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"nodes": [
			{"id": "0", "label": "SyncWorkspace", "type": "sync-workspace"},
			{"id": "1", "label": "RunTask(app:build)", "type": "run-task"}
		],
		"edges": [
			{"id": "1 -> 0", "source": "1", "target": "0", "label": ""}
		]
	}`, body)

	cached, ok, err := c.Get(context.Background(), cache.NewDefaultKeyer().ElementsKey(cache.Hash([]byte(payload))))
	require.NoError(t, err)
	require.True(t, ok, "elements should be cached")
	assert.JSONEq(t, body, string(cached))
}

func TestDOT(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/graph.dot?layout=circle")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/vnd.graphviz")
	assert.Contains(t, body, `digraph "actions"`)
	assert.Contains(t, body, "layout=circo")
	assert.Contains(t, body, `xlabel="SyncWorkspace"`)
}

func TestDOT_InvalidLayout(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/graph.dot?layout=spiral")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "INVALID_LAYOUT")
}

func TestSVG(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/graph.svg")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<svg")
}

func TestSnapshotsDisabledWithoutStore(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, _ := get(t, ts.URL+"/snapshots/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSnapshots(t *testing.T) {
	ts := newTestServer(t, Config{Store: store.NewMemoryStore()})

	resp, err := http.Post(ts.URL+"/snapshots/?title=nightly", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created snapshotCreated
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "/snapshots/"+created.ID, created.URL)
	assert.Equal(t, created.URL, resp.Header.Get("Location"))

	t.Run("page", func(t *testing.T) {
		resp, body := get(t, ts.URL+created.URL)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "nightly")
		assert.NotContains(t, body, "data-init")
	})

	t.Run("data", func(t *testing.T) {
		resp, body := get(t, ts.URL+created.URL+"/graph-data")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, payload, body)
	})

	t.Run("list", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/snapshots/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list []store.Snapshot
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
		assert.Equal(t, 2, list[0].Nodes)
		assert.Empty(t, list[0].Payload)
	})

	t.Run("missing", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/snapshots/00000000-0000-0000-0000-000000000000")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "SNAPSHOT_NOT_FOUND")
	})

	t.Run("bad limit", func(t *testing.T) {
		resp, _ := get(t, ts.URL+"/snapshots/?limit=lots")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateSnapshot_InvalidPayload(t *testing.T) {
	ts := newTestServer(t, Config{Store: store.NewMemoryStore()})

	resp, err := http.Post(ts.URL+"/snapshots/", "application/json", strings.NewReader(`{"edges":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdates(t *testing.T) {
	dir := t.TempDir()
	path := writePayload(t, dir, payload)
	src, err := NewFileSource(path, quietLogger())
	require.NoError(t, err)

	srv := New(Config{Source: src, Watch: true, Logger: quietLogger()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	_, page := get(t, ts.URL+"/")
	assert.Contains(t, page, "data-init")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/updates", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return srv.Notifier().Len() == 1 }, time.Second, 10*time.Millisecond)
	srv.Notifier().Broadcast()

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "window.location.reload()")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_INPUT", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"FILE_NOT_FOUND", http.StatusNotFound},
		{"SNAPSHOT_NOT_FOUND", http.StatusNotFound},
		{"INVALID_PAYLOAD", http.StatusUnprocessableEntity},
		{"UNKNOWN_ACTION", http.StatusUnprocessableEntity},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(codeErr(tt.code)))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
