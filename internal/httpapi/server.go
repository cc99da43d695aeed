// Package httpapi exposes the catalog filter pipeline over HTTP. It is the
// presentation collaborator: the core hands it counts and a text blob, and
// it offers that blob as a downloadable artifact.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/leo-catalog/core"
	"github.com/signalsfoundry/leo-catalog/internal/catalog"
	"github.com/signalsfoundry/leo-catalog/internal/export"
	"github.com/signalsfoundry/leo-catalog/internal/fetch"
	"github.com/signalsfoundry/leo-catalog/internal/logging"
	"github.com/signalsfoundry/leo-catalog/internal/observability"
)

// Defaults mirror the config package; flags and query parameters override.
type Defaults struct {
	Group        string
	MaxPerigeeKm float64
	Basename     string
	CacheTTL     time.Duration
}

// Server wires the fetch client, snapshot store, and core pipeline behind
// the JSON/download API.
type Server struct {
	log       logging.Logger
	client    *fetch.Client
	store     *catalog.Store
	collector *observability.Collector
	defaults  Defaults

	now func() time.Time
}

// NewServer constructs the API server. collector may be nil in tests.
func NewServer(client *fetch.Client, store *catalog.Store, collector *observability.Collector, log logging.Logger, defaults Defaults) *Server {
	if log == nil {
		log = logging.Noop()
	}
	if defaults.Group == "" {
		defaults.Group = "active"
	}
	if defaults.MaxPerigeeKm <= 0 {
		defaults.MaxPerigeeKm = 2000
	}
	if defaults.Basename == "" {
		defaults.Basename = export.DefaultBasename
	}
	return &Server{
		log:       log,
		client:    client,
		store:     store,
		collector: collector,
		defaults:  defaults,
		now:       time.Now,
	}
}

// Handler returns the full API handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/v1/filter", s.route("/api/v1/filter", http.HandlerFunc(s.handleFilter)))
	mux.Handle("/api/v1/filter/export", s.route("/api/v1/filter/export", http.HandlerFunc(s.handleExport)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return otelhttp.NewHandler(mux, "leo-catalog-api")
}

func (s *Server) route(route string, h http.Handler) http.Handler {
	wrapped := RequestIDMiddleware(s.log, route, h)
	if s.collector != nil {
		wrapped = s.collector.InstrumentHandler(route, wrapped)
	}
	return wrapped
}

// filterResponse is the JSON summary handed to the presentation side.
type filterResponse struct {
	Source      string  `json:"source"`
	Total       int     `json:"total"`
	Matched     int     `json:"matched"`
	Excluded    int     `json:"excluded"`
	MaxPerigee  float64 `json:"max_perigee_km"`
	Name        string  `json:"name_contains,omitempty"`
	Filename    string  `json:"filename"`
	GeneratedAt string  `json:"generated_at"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	artifact, source, params, ok := s.runPipeline(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, filterResponse{
		Source:      source,
		Total:       artifact.Total,
		Matched:     artifact.Matched,
		Excluded:    artifact.Excluded,
		MaxPerigee:  params.maxPerigeeKm,
		Name:        params.nameContains,
		Filename:    artifact.Filename,
		GeneratedAt: artifact.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	artifact, _, _, ok := s.runPipeline(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, artifact.Content)
}

type filterParams struct {
	group        string
	url          string
	maxPerigeeKm float64
	nameContains string
	basename     string
}

// source returns the snapshot store key for these parameters.
func (p filterParams) source() string {
	if p.url != "" {
		return p.url
	}
	return p.group
}

func (s *Server) parseParams(r *http.Request) (filterParams, error) {
	q := r.URL.Query()
	p := filterParams{
		group:        q.Get("group"),
		url:          q.Get("url"),
		nameContains: q.Get("name"),
		basename:     q.Get("basename"),
		maxPerigeeKm: s.defaults.MaxPerigeeKm,
	}
	if p.group == "" && p.url == "" {
		p.group = s.defaults.Group
	}
	if p.basename == "" {
		p.basename = s.defaults.Basename
	}
	if raw := q.Get("max_perigee_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("max_perigee_km %q is not a number", raw)
		}
		p.maxPerigeeKm = v
	}
	return p, nil
}

// runPipeline executes fetch -> parse -> filter -> export for one request.
// It writes the error response itself and reports ok=false on failure.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) (export.Artifact, string, filterParams, bool) {
	ctx := r.Context()
	log := logging.LoggerFromContext(ctx)
	if log == nil {
		log = s.log
	}

	params, err := s.parseParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return export.Artifact{}, "", params, false
	}
	source := params.source()

	snap, ok := s.store.Fresh(source, s.now(), s.defaults.CacheTTL)
	if !ok {
		raw, err := s.fetchSource(r, params)
		if err != nil {
			log.Error(ctx, "catalog fetch failed", logging.String("source", source), logging.String("error", err.Error()))
			writeJSONError(w, http.StatusBadGateway, err.Error())
			return export.Artifact{}, "", params, false
		}

		_, span := observability.StartSpan(ctx, "parse", attribute.String("source", source))
		records := core.ParseCatalog(raw)
		span.End()

		snap = catalog.Snapshot{Source: source, FetchedAt: s.now(), Raw: raw, Records: records}
		s.store.Put(snap)
	}

	_, span := observability.StartSpan(ctx, "filter",
		attribute.String("source", source),
		attribute.Float64("max_perigee_km", params.maxPerigeeKm),
	)
	result := core.Filter(snap.Records, params.maxPerigeeKm, params.nameContains)
	span.End()

	s.collector.AddExcluded(result.ExcludedMalformed, result.ExcludedInvalid)
	s.store.RecordMatches(result.Matches())

	artifact := export.BuildArtifact(params.basename, s.now(), result)

	log.Info(ctx, "filter run complete",
		logging.String("source", source),
		logging.Int("total", result.Total),
		logging.Int("matched", result.Matches()),
		logging.Int("excluded", result.Excluded()),
		logging.Float64("max_perigee_km", params.maxPerigeeKm),
	)
	return artifact, source, params, true
}

func (s *Server) fetchSource(r *http.Request, params filterParams) (string, error) {
	ctx, span := observability.StartSpan(r.Context(), "fetch", attribute.String("source", params.source()))
	defer span.End()

	start := time.Now()
	var raw string
	var err error
	if params.url != "" {
		raw, err = s.client.FetchURL(ctx, params.url)
	} else {
		raw, err = s.client.FetchGroup(ctx, params.group)
	}
	s.collector.ObserveFetch(params.source(), time.Since(start), err)
	if err != nil {
		span.RecordError(err)
	}
	return raw, err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
