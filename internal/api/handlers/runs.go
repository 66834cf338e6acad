package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerlens/statement-backend/internal/api/dto"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

// RunsHandler exposes analysis run history.
type RunsHandler struct {
	repo storage.RunRepository
}

// NewRunsHandler creates a runs handler.
func NewRunsHandler(repo storage.RunRepository) *RunsHandler {
	return &RunsHandler{repo: repo}
}

// List handles GET /api/runs.
func (h *RunsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}

	runs, err := h.repo.ListAnalysisRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if runs == nil {
		runs = []storage.AnalysisRun{}
	}
	c.JSON(http.StatusOK, dto.RunListResponse{Runs: runs, Count: len(runs)})
}

// Get handles GET /api/runs/:id.
func (h *RunsHandler) Get(c *gin.Context) {
	run, err := h.repo.GetAnalysisRun(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("analysis run"))
		return
	}
	c.JSON(http.StatusOK, run)
}
