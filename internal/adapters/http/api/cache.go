package api

import (
	"context"
	"net/http"

	"github.com/wptable/rankmatrix/internal/adapters/cache"
	"github.com/wptable/rankmatrix/internal/domain/types"
)

// CacheDependencies defines the interface for cache administration.
type CacheDependencies interface {
	CacheInfo(ctx context.Context) cache.Info
	ClearCache(ctx context.Context) types.CacheCleared
}

// CacheHandler handles cache introspection and flush requests.
type CacheHandler struct {
	deps CacheDependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps CacheDependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

// HandleInfo handles GET /api/cache/info requests.
func (h *CacheHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.deps.CacheInfo(r.Context()))
}

// HandleClear handles POST /api/cache/clear requests.
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.deps.ClearCache(r.Context()))
}
