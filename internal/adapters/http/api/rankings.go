package api

import (
	"context"
	"net/http"

	"github.com/wptable/rankmatrix/internal/domain/types"
)

// RankingsDependencies defines the interface for ranking history queries.
type RankingsDependencies interface {
	Rankings(ctx context.Context, teamNames, startDate, endDate string) (types.Rankings, error)
}

// RankingsHandler handles ranking history requests.
type RankingsHandler struct {
	deps RankingsDependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleGetRankings handles GET /rankings/{teamNames}/{startDate}/{endDate}.
// teamNames is a comma-separated list of names or numeric identifiers.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Rankings(r.Context(),
		r.PathValue("teamNames"), r.PathValue("startDate"), r.PathValue("endDate"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}
