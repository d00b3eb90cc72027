package api

import (
	"context"
	"net/http"

	"github.com/wptable/rankmatrix/internal/domain/types"
)

// TeamsDependencies defines the interface for the team table dump.
type TeamsDependencies interface {
	Teams(ctx context.Context) types.Teams
}

// TeamsHandler handles team listing requests.
type TeamsHandler struct {
	deps TeamsDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamsDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleGetTeams handles GET /api/teams requests.
func (h *TeamsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.deps.Teams(r.Context()))
}
