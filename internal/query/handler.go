package query

import (
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/tracing"
)

const tracerName = "github.com/zjrosen/acro/internal/query"

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-ID"

// CodeUnknownAcronym is the error code returned with 404 on resolution.
const CodeUnknownAcronym = "unknown_acronym"

// Handler serves a Querier over HTTP.
type Handler struct {
	q      Querier
	tracer trace.Tracer
}

// NewHandler wraps q.
func NewHandler(q Querier) *Handler {
	return &Handler{q: q, tracer: otel.Tracer(tracerName)}
}

// Routes returns an http.Handler with all routes registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /acronyms", h.traced("query.list_acronyms", h.ListAcronyms))
	mux.HandleFunc("GET /acronyms/{id}", h.traced("query.resolve", h.Resolve))
	mux.HandleFunc("GET /classes", h.traced("query.list_classes", h.ListClasses))
	mux.HandleFunc("GET /health", h.traced("query.health", h.Health))

	return mux
}

// ResolveResponse is the body of a successful resolution.
type ResolveResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ListAcronymsResponse is the body of GET /acronyms.
type ListAcronymsResponse struct {
	Acronyms []glossary.Summary `json:"acronyms"`
	Total    int                `json:"total"`
}

// ListClassesResponse is the body of GET /classes.
type ListClassesResponse struct {
	Classes []string `json:"classes"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
}

// ErrorResponse is the response body for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// traced assigns a request id and wraps next in a server span.
func (h *Handler) traced(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = tracing.NewRequestID()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := tracing.ContextWithRequestID(r.Context(), id)
		ctx, span := h.tracer.Start(ctx, name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String(tracing.AttrRequestID, id)))
		defer span.End()

		start := time.Now()
		next(w, r.WithContext(ctx))
		log.Debug(log.CatServer, "Handled request", "route", name, "path", r.URL.Path,
			"request_id", id, "duration", time.Since(start))
	}
}

// Resolve handles GET /acronyms/{id}?class=a&class=b.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	classes := r.URL.Query()["class"]

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String(tracing.AttrAcronymID, id),
		attribute.StringSlice(tracing.AttrAcronymClasses, classes),
	)

	text, ok := h.q.Resolve(id, classes)
	span.SetAttributes(attribute.Bool(tracing.AttrAcronymFound, ok))
	if !ok {
		span.SetStatus(codes.Error, ErrUnknownAcronym.Error())
		h.writeError(w, http.StatusNotFound, CodeUnknownAcronym, ErrUnknownAcronym.Error()+": "+id)
		return
	}

	h.writeJSON(w, http.StatusOK, ResolveResponse{ID: id, Text: text})
}

// ListAcronyms handles GET /acronyms.
func (h *Handler) ListAcronyms(w http.ResponseWriter, _ *http.Request) {
	items := h.q.ListAcronyms()
	if items == nil {
		items = []glossary.Summary{}
	}
	h.writeJSON(w, http.StatusOK, ListAcronymsResponse{Acronyms: items, Total: len(items)})
}

// ListClasses handles GET /classes.
func (h *Handler) ListClasses(w http.ResponseWriter, _ *http.Request) {
	classes := h.q.ListClasses()
	if classes == nil {
		classes = []string{}
	}
	h.writeJSON(w, http.StatusOK, ListClassesResponse{Classes: classes})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Items: len(h.q.ListAcronyms())})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.ErrorErr(log.CatServer, "Failed to encode JSON response", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
