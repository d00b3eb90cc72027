// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/wptable/rankmatrix/pkg/logger"
)

// cacheControl is sent with every successful response.
const cacheControl = "public, max-age=3600, s-maxage=3600, stale-while-revalidate=7200"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatrixDependencies
	MatchesDependencies
	RankingsDependencies
	TeamsDependencies
	HealthDependencies
	CacheDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	matrixHandler   *MatrixHandler
	matchesHandler  *MatchesHandler
	rankingsHandler *RankingsHandler
	teamsHandler    *TeamsHandler
	healthHandler   *HealthHandler
	cacheHandler    *CacheHandler
	log             logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		matrixHandler:   NewMatrixHandler(deps),
		matchesHandler:  NewMatchesHandler(deps),
		rankingsHandler: NewRankingsHandler(deps),
		teamsHandler:    NewTeamsHandler(deps),
		healthHandler:   NewHealthHandler(deps),
		cacheHandler:    NewCacheHandler(deps),
		log:             log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/matrix", MetricsMiddleware(s.matrixHandler.HandleGetMatrix, "matrix"))
	mux.HandleFunc("GET /api/matches/{rowRank}/{colRank}", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("GET /rankings/{teamNames}/{startDate}/{endDate}", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("GET /api/teams", MetricsMiddleware(s.teamsHandler.HandleGetTeams, "teams"))
	mux.HandleFunc("GET /api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /api/cache/info", MetricsMiddleware(s.cacheHandler.HandleInfo, "cache_info"))
	mux.HandleFunc("POST /api/cache/clear", MetricsMiddleware(s.cacheHandler.HandleClear, "cache_clear"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
}

// Handler returns mux wrapped with request id assignment and access logging.
func (s *Server) Handler(mux *http.ServeMux) http.Handler {
	return RequestIDMiddleware(mux, s.log)
}

type errorResponse struct {
	Error string `json:"error"`
}

// ETag returns the quoted xxhash64 digest of body.
func ETag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// writeJSON encodes v, tags it with an ETag and cache headers, and answers
// 304 when the client already holds the same representation.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", ErrEncode, err))
		return
	}

	etag := ETag(body)
	h := w.Header()
	h.Set("Cache-Control", cacheControl)
	h.Set("ETag", etag)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		c := strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if c == "*" || c == etag {
			return true
		}
	}
	return false
}

// writeError reports any failure as 500 with the error text.
func writeError(w http.ResponseWriter, err error) {
	msg := http.StatusText(http.StatusInternalServerError)
	if err != nil {
		msg = err.Error()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
