package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerlens/statement-backend/internal/api/dto"
	"github.com/ledgerlens/statement-backend/internal/application/analysis"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
)

// AnalyzeHandler runs transfer-matching analyses.
type AnalyzeHandler struct {
	service  *analysis.Service
	defaults matcher.Config
}

// NewAnalyzeHandler creates an analyze handler.
func NewAnalyzeHandler(service *analysis.Service, defaults matcher.Config) *AnalyzeHandler {
	return &AnalyzeHandler{service: service, defaults: defaults.Clamped()}
}

// Analyze handles POST /api/analyze - runs the engine over one scope.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if len(req.Transactions) == 0 {
		c.JSON(http.StatusBadRequest, dto.ValidationError("transactions must not be empty"))
		return
	}
	for _, tx := range req.Transactions {
		if tx.ID == "" {
			c.JSON(http.StatusBadRequest, dto.ValidationError("every transaction needs an id"))
			return
		}
	}

	report, err := h.service.Analyze(c.Request.Context(), req.ToAnalysisRequest(h.defaults))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.FromReport(report))
}
