package api

import (
	"context"
	"net/http"

	"github.com/wptable/rankmatrix/internal/domain/types"
)

// MatchesDependencies defines the interface for pairwise match history.
type MatchesDependencies interface {
	Matches(ctx context.Context, rowRank, colRank string) (types.Matches, error)
}

// MatchesHandler handles match history requests.
type MatchesHandler struct {
	deps MatchesDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleGetMatches handles GET /api/matches/{rowRank}/{colRank} requests.
// Non-numeric ranks and missing pairs both fail with 500.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Matches(r.Context(), r.PathValue("rowRank"), r.PathValue("colRank"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, m)
}
