// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/wptable/rankmatrix/internal/domain/types"
)

// MatrixDependencies defines the interface for matrix reads.
type MatrixDependencies interface {
	Matrix(ctx context.Context) (types.Matrix, error)
}

// MatrixHandler handles matrix requests.
type MatrixHandler struct {
	deps MatrixDependencies
}

// NewMatrixHandler creates a new matrix handler.
func NewMatrixHandler(deps MatrixDependencies) *MatrixHandler {
	return &MatrixHandler{deps: deps}
}

// HandleGetMatrix handles GET /api/matrix requests.
func (h *MatrixHandler) HandleGetMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Matrix(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, m)
}
