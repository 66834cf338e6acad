package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerlens/statement-backend/internal/api/dto"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	repo storage.RunRepository
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.RunRepository) *StatsHandler {
	return &StatsHandler{repo: repo}
}

// Get handles GET /api/stats - returns aggregate statistics.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalRuns:         stats.TotalRuns,
		TotalTransactions: stats.TotalTransactions,
		TotalMatched:      stats.TotalMatched,
		TotalUncertain:    stats.TotalUncertain,
		TotalCollisions:   stats.TotalCollisions,
		TotalExcluded:     stats.TotalExcluded,
	})
}
