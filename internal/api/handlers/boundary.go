package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerlens/statement-backend/internal/api/dto"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

// BoundaryHandler manages the stored boundary account set.
type BoundaryHandler struct {
	repo storage.BoundaryRepository
}

// NewBoundaryHandler creates a boundary handler.
func NewBoundaryHandler(repo storage.BoundaryRepository) *BoundaryHandler {
	return &BoundaryHandler{repo: repo}
}

// List handles GET /api/boundary-accounts.
func (h *BoundaryHandler) List(c *gin.Context) {
	accounts, err := h.repo.ListBoundaryAccounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if accounts == nil {
		accounts = []storage.BoundaryAccount{}
	}
	c.JSON(http.StatusOK, dto.BoundaryListResponse{
		Accounts: accounts,
		Count:    len(accounts),
	})
}

// Put handles PUT /api/boundary-accounts - adds or updates one member.
func (h *BoundaryHandler) Put(c *gin.Context) {
	var req dto.BoundaryAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if err := h.repo.AddBoundaryAccount(req.AccountID, req.Alias); err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/boundary-accounts/:accountId.
func (h *BoundaryHandler) Delete(c *gin.Context) {
	accountID := c.Param("accountId")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, dto.ValidationError("account id required"))
		return
	}
	if err := h.repo.RemoveBoundaryAccount(accountID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.Status(http.StatusNoContent)
}
