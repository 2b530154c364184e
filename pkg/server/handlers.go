package server

import (
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/skilltree/pkg/buildinfo"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/render"
	"github.com/matzehuels/skilltree/pkg/session"
)

// contentTypes maps output formats to media types for raw responses.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

// request is the body of the layout, render and session endpoints: the
// pipeline options plus an optional precomputed layout.
type request struct {
	pipeline.Options
	Graph *graph.Layout `json:"graph,omitempty"`
}

type layoutResponse struct {
	Layout graph.Layout `json:"layout"`
	Cached bool         `json:"cached"`
}

type renderResponse struct {
	Layout    *graph.Layout     `json:"layout,omitempty"`
	Artifacts map[string][]byte `json:"artifacts"`
	Stats     *statsResponse    `json:"stats,omitempty"`
	Cached    bool              `json:"cached"`
}

type statsResponse struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	Dangling  int     `json:"dangling"`
	LayoutMS  float64 `json:"layout_ms"`
	RenderMS  float64 `json:"render_ms"`
	LayoutHit bool    `json:"layout_hit"`
	RenderHit bool    `json:"render_hit"`
}

type sessionResponse struct {
	*session.Session
	Transform string `json:"transform"`
	Zoom      int    `json:"zoom"`
	Changed   *bool  `json:"changed,omitempty"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		Session:   sess,
		Transform: sess.Viewport.SVGTransform(),
		Zoom:      sess.Viewport.Percent(),
	}
}

// baseOptions returns a copy of the server defaults that a request may
// overwrite without touching shared maps.
func (s *Server) baseOptions() pipeline.Options {
	o := s.defaults
	o.Connector.Palette = maps.Clone(o.Connector.Palette)
	o.States = maps.Clone(o.States)
	o.Records = nil
	o.Input = ""
	o.Logger = s.logger
	return o
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := request{Options: s.baseOptions()}
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if len(req.Records) == 0 {
		s.respondError(w, r, errors.New(errors.ErrCodeEmptyInput, "no records given"))
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Records, req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, layoutResponse{Layout: l, Cached: hit})
}

// handleRender renders records or a posted layout. With ?raw=true and a
// single format the artifact is written as-is instead of wrapped in JSON.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req := request{Options: s.baseOptions()}
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	var resp renderResponse
	if req.Graph != nil {
		if err := req.Graph.Validate(); err != nil {
			s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout"))
			return
		}
		artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), *req.Graph, req.Options)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		resp = renderResponse{Artifacts: artifacts, Cached: hit}
	} else {
		res, err := s.runner.Execute(r.Context(), req.Options)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		resp = renderResponse{
			Layout:    &res.Layout,
			Artifacts: res.Artifacts,
			Cached:    res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
			Stats: &statsResponse{
				Nodes:     res.Stats.NodeCount,
				Edges:     res.Stats.EdgeCount,
				Dangling:  res.Stats.Dangling,
				LayoutMS:  ms(res.Stats.LayoutTime),
				RenderMS:  ms(res.Stats.RenderTime),
				LayoutHit: res.CacheInfo.LayoutHit,
				RenderHit: res.CacheInfo.RenderHit,
			},
		}
	}

	if raw, _ := strconv.ParseBool(r.URL.Query().Get("raw")); raw && len(resp.Artifacts) == 1 {
		for format, data := range resp.Artifacts {
			w.Header().Set("Content-Type", contentTypes[format])
			w.WriteHeader(http.StatusOK)
			w.Write(data)
		}
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req := request{Options: s.baseOptions()}
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	var l graph.Layout
	if req.Graph != nil {
		l = *req.Graph
	} else {
		if len(req.Records) == 0 {
			s.respondError(w, r, errors.New(errors.ErrCodeEmptyInput, "no records or layout given"))
			return
		}
		var err error
		if l, err = s.runner.Layout(r.Context(), req.Records, req.Options); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = render.DefaultWidth
	}
	if height == 0 {
		height = render.DefaultHeight
	}
	sess, err := s.sessions.Create(r.Context(), l, session.CreateOptions{
		Canvas:  geom.Size{Width: width, Height: height},
		Padding: req.Padding,
		Limits:  req.ViewportConfig,
		State:   req.Viewport,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	s.respondJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newSessionResponse(sess))
}

// handleSessionSVG renders the session layout at its current viewport.
// The highlight query parameter overrides the selected node.
func (s *Server) handleSessionSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := s.baseOptions()
	opts.UseLayoutNodeSize(sess.Layout)
	opts.SetRenderDefaults()

	highlight := sess.Selected
	if h := r.URL.Query().Get("highlight"); h != "" {
		if err := errors.ValidateNodeID(h); err != nil {
			s.respondError(w, r, err)
			return
		}
		highlight = h
	}
	svgOpts := []render.SVGOption{
		render.WithConnectorConfig(opts.Connector),
		render.WithStates(opts.StateFunc()),
		render.WithCanvas(sess.Canvas),
		render.WithViewport(sess.Viewport),
		render.WithHighlight(highlight),
		render.WithLogger(s.logger),
	}
	if popups, _ := strconv.ParseBool(r.URL.Query().Get("popups")); popups {
		svgOpts = append(svgOpts, render.WithPopups())
	}
	data, err := render.RenderSVG(sess.Layout.Result(), svgOpts...)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render session"))
		return
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd session.Command
	if err := s.decode(w, r, &cmd); err != nil {
		s.respondError(w, r, err)
		return
	}
	sess, changed, err := s.sessions.Apply(r.Context(), chi.URLParam(r, "id"), cmd)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := newSessionResponse(sess)
	resp.Changed = &changed
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
