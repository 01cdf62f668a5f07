package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	redicalsearch "github.com/atatsu/redical-search"
	"github.com/atatsu/redical-search/internal/metrics"
)

// Searcher is the client surface the HTTP layer depends on.
type Searcher interface {
	Index() string
	Ping(ctx context.Context) error
	CreateIndex(ctx context.Context, schema *redicalsearch.Schema, opts redicalsearch.CreateIndexOptions) error
	AlterSchemaAdd(ctx context.Context, fields ...redicalsearch.Field) error
	DropIndex(ctx context.Context) error
	AddDocument(ctx context.Context, docID string, fields []redicalsearch.FieldValue, opts redicalsearch.AddDocumentOptions) error
	GetDocument(ctx context.Context, docID string) (*redicalsearch.Document, error)
	Info(ctx context.Context) (*redicalsearch.IndexInfo, error)
	Search(ctx context.Context, query string, opts redicalsearch.SearchOptions) (*redicalsearch.SearchResult, error)
	Count(ctx context.Context, query string) (int, error)
}

// errorHandler tries to handle a known error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes one search index over HTTP.
type Server struct {
	client          Searcher
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server over client. defaultPageSize is
// the page size used when a search request carries no limit parameter.
func NewServer(client Searcher, defaultPageSize, maxPageSize int, logger *zap.Logger) *Server {
	s := &Server{
		client:          client,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(redicalsearch.ErrIndexExists, http.StatusConflict, "index_already_exists"),
		sentinelHandler(redicalsearch.ErrDocumentExists, http.StatusConflict, "document_already_exists"),
		sentinelHandler(redicalsearch.ErrUnknownIndex, http.StatusNotFound, "unknown_index"),
		sentinelHandler(redicalsearch.ErrDocumentNotFound, http.StatusNotFound, "document_not_found"),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Put("/index", s.createIndex)
	r.Get("/index", s.indexInfo)
	r.Delete("/index", s.dropIndex)
	r.Post("/index/fields", s.addFields)
	r.Put("/documents/{id}", s.addDocument)
	r.Get("/documents/{id}", s.getDocument)
	r.Get("/search", s.search)
	r.Get("/count", s.count)
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type fieldRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Sortable  bool    `json:"sortable,omitempty"`
	NoIndex   bool    `json:"no_index,omitempty"`
	NoStem    bool    `json:"no_stem,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Separator string  `json:"separator,omitempty"`
	Phonetic  string  `json:"phonetic,omitempty"`
}

type createIndexRequest struct {
	Fields    []fieldRequest `json:"fields"`
	Prefixes  []string       `json:"prefixes,omitempty"`
	Language  string         `json:"language,omitempty"`
	Stopwords []string       `json:"stopwords,omitempty"`
	Temporary int            `json:"temporary_sec,omitempty"`
}

func (s *Server) createIndex(w http.ResponseWriter, r *http.Request) {
	var req createIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "At least one field is required")
		return
	}

	schema := redicalsearch.NewSchema()
	for _, f := range req.Fields {
		schema.Add(fieldFromRequest(f))
	}

	opts := redicalsearch.CreateIndexOptions{
		On:        redicalsearch.StructureHash,
		Prefixes:  req.Prefixes,
		Language:  redicalsearch.Language(req.Language),
		Stopwords: req.Stopwords,
		Temporary: req.Temporary,
	}

	start := time.Now()
	err := s.client.CreateIndex(r.Context(), schema, opts)
	metrics.ObserveCommand(redicalsearch.OpCreateIndex, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"index": s.client.Index()})
}

func (s *Server) addFields(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fields []fieldRequest `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "At least one field is required")
		return
	}

	fields := make([]redicalsearch.Field, len(req.Fields))
	for i, f := range req.Fields {
		fields[i] = fieldFromRequest(f)
	}

	start := time.Now()
	err := s.client.AlterSchemaAdd(r.Context(), fields...)
	metrics.ObserveCommand(redicalsearch.OpAlterIndex, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dropIndex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.client.DropIndex(r.Context())
	metrics.ObserveCommand(redicalsearch.OpDropIndex, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type indexInfoResponse struct {
	Name       string              `json:"name"`
	Options    []string            `json:"options,omitempty"`
	Fields     []indexFieldInfo    `json:"fields"`
	Definition indexDefinitionInfo `json:"definition"`
	NumDocs    int64               `json:"num_docs"`
	NumTerms   int64               `json:"num_terms"`
	NumRecords int64               `json:"num_records"`
	Indexing   bool                `json:"indexing"`
}

type indexFieldInfo struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

type indexDefinitionInfo struct {
	KeyType  string   `json:"key_type,omitempty"`
	Prefixes []string `json:"prefixes,omitempty"`
	Filter   string   `json:"filter,omitempty"`
}

func (s *Server) indexInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	info, err := s.client.Info(r.Context())
	metrics.ObserveCommand(redicalsearch.OpIndexInfo, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := indexInfoResponse{
		Name:    info.Name,
		Options: info.Options,
		Definition: indexDefinitionInfo{
			KeyType:  info.Definition.KeyType,
			Prefixes: info.Definition.Prefixes,
			Filter:   info.Definition.Filter,
		},
		NumDocs:    info.NumDocs,
		NumTerms:   info.NumTerms,
		NumRecords: info.NumRecords,
		Indexing:   info.Indexing,
	}
	resp.Fields = make([]indexFieldInfo, len(info.Fields))
	for i, f := range info.Fields {
		resp.Fields[i] = indexFieldInfo{Name: f.Name, Type: string(f.Type), Options: f.Options}
	}
	writeJSON(w, http.StatusOK, resp)
}

type addDocumentRequest struct {
	Fields   map[string]string `json:"fields"`
	Score    float64           `json:"score,omitempty"`
	Replace  bool              `json:"replace,omitempty"`
	Partial  bool              `json:"partial,omitempty"`
	Language string            `json:"language,omitempty"`
}

func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "Field/value pairs must be supplied")
		return
	}

	fields := make([]redicalsearch.FieldValue, 0, len(req.Fields))
	for name, value := range req.Fields {
		fields = append(fields, redicalsearch.FieldValue{Name: name, Value: value})
	}

	opts := redicalsearch.AddDocumentOptions{
		Score:    req.Score,
		Language: redicalsearch.Language(req.Language),
	}
	if req.Replace {
		opts.Replace = redicalsearch.ReplaceDefault
		if req.Partial {
			opts.Replace |= redicalsearch.ReplacePartial
		}
	}

	start := time.Now()
	err := s.client.AddDocument(r.Context(), id, fields, opts)
	metrics.ObserveCommand(redicalsearch.OpAddDocument, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if req.Replace {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]string{"id": id})
}

type documentResponse struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	doc, err := s.client.GetDocument(r.Context(), id)
	metrics.ObserveCommand(redicalsearch.OpGetDocument, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{ID: doc.ID, Fields: doc.Fields})
}

type searchResponse struct {
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Items  []searchItem `json:"items"`
}

type searchItem struct {
	ID     string            `json:"id"`
	Score  float64           `json:"score,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query parameter q is required")
		return
	}

	opts := redicalsearch.SearchOptions{
		Flags: redicalsearch.WithScores,
		Limit: s.defaultPageSize,
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "offset must be a non-negative integer")
			return
		}
		opts.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.maxPageSize {
			writeError(w, http.StatusBadRequest, "validation_failed",
				"limit must be between 1 and "+strconv.Itoa(s.maxPageSize))
			return
		}
		opts.Limit = n
	}
	if v := q.Get("sort_by"); v != "" {
		opts.SortBy = v
		if q.Get("order") == "desc" {
			opts.Flags |= redicalsearch.SortDesc
		} else {
			opts.Flags |= redicalsearch.SortAsc
		}
	}
	if q.Get("verbatim") == "true" {
		opts.Flags |= redicalsearch.Verbatim
	}
	if lang := q.Get("language"); lang != "" {
		opts.Language = redicalsearch.Language(lang)
	}
	opts.InFields = q["in_field"]

	start := time.Now()
	res, err := s.client.Search(r.Context(), query, opts)
	metrics.ObserveCommand(redicalsearch.OpSearch, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	items := make([]searchItem, len(res.Documents))
	for i, doc := range res.Documents {
		items[i] = searchItem{ID: doc.ID, Score: doc.Score, Fields: doc.Fields}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Total:  res.Total,
		Offset: res.Offset,
		Limit:  res.Limit,
		Items:  items,
	})
}

func (s *Server) count(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = "*"
	}

	start := time.Now()
	n, err := s.client.Count(r.Context(), query)
	metrics.ObserveCommand(redicalsearch.OpSearch, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total": n})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK
	if err := s.client.Ping(r.Context()); err != nil {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]string{"status": status})
}

func fieldFromRequest(f fieldRequest) redicalsearch.Field {
	var flags redicalsearch.FieldFlags
	if f.Sortable {
		flags |= redicalsearch.Sortable
	}
	if f.NoIndex {
		flags |= redicalsearch.NoIndex
	}
	if f.NoStem {
		flags |= redicalsearch.NoStem
	}
	return redicalsearch.Field{
		Name:      f.Name,
		Type:      redicalsearch.FieldType(f.Type),
		Flags:     flags,
		Weight:    f.Weight,
		Separator: f.Separator,
		Phonetic:  redicalsearch.PhoneticMatcher(f.Phonetic),
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("command error", zap.Error(err), zap.String("path", r.URL.Path))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}

	// Errors raised before dispatch are malformed input, not server
	// failures.
	var cmdErr *redicalsearch.CommandError
	if !errors.As(err, &cmdErr) {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
