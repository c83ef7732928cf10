package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/graph/compact"
	nio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/pipeline"
	"github.com/matzehuels/nodegraph/pkg/store"
)

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// compactResponse is the body of a successful compaction.
type compactResponse struct {
	Document nio.Document      `json:"document"`
	Groups   map[string]string `json:"groups"`
	Stats    compactStats      `json:"stats"`
	Topology topologyReport    `json:"topology"`
}

type compactStats struct {
	GroupsCompacted int `json:"groups_compacted"`
	LeavesCopied    int `json:"leaves_copied"`
	LinksConsidered int `json:"links_considered"`
	LinksCopied     int `json:"links_copied"`
	LinksDropped    int `json:"links_dropped"`
}

type topologyReport struct {
	Components int      `json:"components"`
	Acyclic    bool     `json:"acyclic"`
	Order      []string `json:"order,omitempty"`
	Sources    int      `json:"sources"`
	Sinks      int      `json:"sinks"`
}

// graphSummary describes a stored document without its body.
type graphSummary struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
	Leaves    int       `json:"leaves"`
	Groups    int       `json:"groups"`
	Links     int       `json:"links"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.compact(w, r, doc)
}

func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Reject documents that would fail later on every compaction or render.
	if _, err := s.runner.Build(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Save(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/graphs/"+rec.ID)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]graphSummary, 0, len(recs))
	for _, rec := range recs {
		leaves, groups, links := rec.Document.Stats()
		out = append(out, graphSummary{
			ID:        rec.ID,
			Hash:      rec.Hash,
			CreatedAt: rec.CreatedAt,
			Leaves:    leaves,
			Groups:    groups,
			Links:     links,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompactGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.compact(w, r, rec.Document)
}

func (s *Server) handleRenderGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	res, err := s.runner.Render(r.Context(), rec.Document, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", opts.ContentType())
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.Hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

func (s *Server) compact(w http.ResponseWriter, r *http.Request, doc nio.Document) {
	res, err := s.runner.Compact(r.Context(), doc, pipeline.CompactOptions{
		Group:  r.URL.Query().Get("group"),
		Logger: s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newCompactResponse(res))
}

func (s *Server) load(r *http.Request) (store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := nerrors.ValidateID(id); err != nil {
		return store.Record{}, err
	}
	return s.store.Load(r.Context(), id)
}

func newCompactResponse(res *pipeline.CompactResult) compactResponse {
	ids := graph.AssignIDs(res.Compacter.Graph())
	var order []string
	for _, leaf := range res.Topology.Order {
		order = append(order, ids.Leaves[leaf])
	}
	return compactResponse{
		Document: res.Document,
		Groups:   res.Groups,
		Stats:    newCompactStats(res.Stats),
		Topology: topologyReport{
			Components: res.Topology.Components,
			Acyclic:    res.Topology.Acyclic,
			Order:      order,
			Sources:    res.Topology.Sources,
			Sinks:      res.Topology.Sinks,
		},
	}
}

func newCompactStats(st compact.Stats) compactStats {
	return compactStats{
		GroupsCompacted: st.GroupsCompacted,
		LeavesCopied:    st.LeavesCopied,
		LinksConsidered: st.LinksConsidered,
		LinksCopied:     st.LinksCopied,
		LinksDropped:    st.LinksDropped,
	}
}

// renderOptions reads render options from the query string.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Group:  q.Get("group"),
		Format: q.Get("format"),
	}
	flags := []struct {
		name string
		dst  *bool
	}{
		{"compact", &opts.Compact},
		{"detailed", &opts.Detailed},
		{"clusters", &opts.Clusters},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, nerrors.New(nerrors.ErrCodeInvalidInput, "invalid %s: %q", f.name, v)
		}
		*f.dst = b
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, nerrors.New(nerrors.ErrCodeInvalidInput, "invalid scale: %q", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

// decodeDocument reads a JSON or TOML document from the request body.
func decodeDocument(w http.ResponseWriter, r *http.Request) (nio.Document, error) {
	format := nio.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nio.Document{}, nerrors.New(nerrors.ErrCodeInvalidInput, "invalid content type %q", ct)
		}
		switch mt {
		case "application/json":
		case "application/toml":
			format = nio.FormatTOML
		default:
			return nio.Document{}, nerrors.New(nerrors.ErrCodeInvalidInput, "unsupported content type %q", mt)
		}
	}
	return nio.Decode(http.MaxBytesReader(w, r.Body, MaxBodySize), format)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := nerrors.HTTPStatus(err)
	code := nerrors.GetCode(err)
	if errors.Is(err, store.ErrNotFound) {
		status, code = http.StatusNotFound, nerrors.ErrCodeNotFound
	}
	if code == "" {
		code = nerrors.ErrCodeInternal
	}

	msg := nerrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", "path", r.URL.Path, "error", err)
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	s.writeJSON(w, status, errorResponse{
		Code:      string(code),
		Error:     msg,
		RequestID: RequestID(r.Context()),
	})
}
