package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/matzehuels/actionviz/pkg/cache"
	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/observability"
	"github.com/matzehuels/actionviz/pkg/render"
	"github.com/matzehuels/actionviz/pkg/render/cytoscape"
	"github.com/matzehuels/actionviz/pkg/render/nodelink"
	"github.com/matzehuels/actionviz/pkg/store"
)

// maxUploadBytes bounds snapshot uploads.
const maxUploadBytes = 32 << 20

// =============================================================================
// Current Graph
// =============================================================================

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data, err := s.cfg.Source.Payload(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	reload := ""
	if s.live() {
		reload = "/updates"
	}
	s.writePage(w, r, data, s.cfg.Title, reload)
}

func (s *Server) handleGraphData(w http.ResponseWriter, r *http.Request) {
	data, err := s.cfg.Source.Payload(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeRaw(w, "application/json", data)
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	data, err := s.cfg.Source.Payload(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := s.keyer.ElementsKey(cache.Hash(data))
	if cached, ok := s.cacheGet(r.Context(), observability.KeyElements, key); ok {
		writeRaw(w, "application/json", cached)
		return
	}

	elements, err := normalize(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := graph.MarshalElements(elements)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.cachePut(r.Context(), observability.KeyElements, key, out, cache.ElementsTTL)
	writeRaw(w, "application/json", out)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.writeGraphviz(w, r, nodelink.FormatSVG, "image/svg+xml")
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.writeGraphviz(w, r, nodelink.FormatDOT, "text/vnd.graphviz; charset=utf-8")
}

// writeGraphviz renders the current payload with the graphviz engine. The
// layout comes from ?layout= and defaults to the configured one.
func (s *Server) writeGraphviz(w http.ResponseWriter, r *http.Request, format nodelink.Format, contentType string) {
	data, err := s.cfg.Source.Payload(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	layout := r.URL.Query().Get("layout")
	if layout == "" {
		layout = s.cfg.Layout
	}
	eng := nodelink.Engine{Format: format}

	key := s.keyer.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{
		Engine: eng.Name(),
		Layout: layout,
		Format: string(format),
		Theme:  s.cfg.ThemeHash,
	})
	if cached, ok := s.cacheGet(r.Context(), observability.KeyArtifact, key); ok {
		writeRaw(w, contentType, cached)
		return
	}

	p, err := graph.Decode(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if _, err := render.RenderWithTable(eng, render.Target{Writer: &buf}, p, layout, s.cfg.Table); err != nil {
		s.writeError(w, err)
		return
	}

	s.cachePut(r.Context(), observability.KeyArtifact, key, buf.Bytes(), cache.ArtifactTTL)
	writeRaw(w, contentType, buf.Bytes())
}

// handleUpdates streams a reload script to the page whenever the source
// changes.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	sse := datastar.NewSSE(w, r)
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			if err := sse.ExecuteScript("window.location.reload()"); err != nil {
				s.logger.Debug("reload stream closed", "err", err)
				return
			}
		}
	}
}

// =============================================================================
// Snapshots
// =============================================================================

type snapshotCreated struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidPayload, err, "read upload"))
		return
	}

	snap, err := s.cfg.Store.Save(r.Context(), store.Snapshot{
		Title:   r.URL.Query().Get("title"),
		Payload: body,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("snapshot saved", "id", snap.ID, "nodes", snap.Nodes, "edges", snap.Edges)

	url := "/snapshots/" + snap.ID
	w.Header().Set("Location", url)
	writeJSON(w, http.StatusCreated, snapshotCreated{ID: snap.ID, URL: url})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	snaps, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleSnapshotPage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	title := snap.Title
	if title == "" {
		title = s.cfg.Title
	}
	s.writePage(w, r, snap.Payload, title, "")
}

func (s *Server) handleSnapshotData(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeRaw(w, "application/json", snap.Payload)
}

// =============================================================================
// Helpers
// =============================================================================

// writePage renders payload with the cytoscape engine.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, payload []byte, title, reload string) {
	p, err := graph.Decode(payload)
	if err != nil {
		s.writeError(w, err)
		return
	}

	eng := &cytoscape.Engine{Title: title, CDN: s.cfg.CDN, ReloadURL: reload}
	var buf bytes.Buffer
	h, err := render.RenderWithTable(eng, render.Target{Writer: &buf}, p, s.cfg.Layout, s.cfg.Table)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("rendered page", "handle", h.ID, "nodes", h.Nodes, "edges", h.Edges, "layout", h.Layout)
	writeRaw(w, "text/html; charset=utf-8", buf.Bytes())
}

// cacheGet reads key from the cache. Cache errors count as misses.
func (s *Server) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read", "key", keyType, "err", err)
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

// cachePut writes key to the cache; failures only lose the cached copy.
func (s *Server) cachePut(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("cache write", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func normalize(data []byte) (graph.Elements, error) {
	p, err := graph.Decode(data)
	if err != nil {
		return graph.Elements{}, err
	}
	return graph.Normalize(p)
}

// errorBody is the JSON error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps error codes to HTTP statuses. Bad payloads are well-formed
// requests the server cannot process, so they get 422.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeFileNotFound, code == errors.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case errors.IsClientError(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}
