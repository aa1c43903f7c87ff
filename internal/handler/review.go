package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewServicer
}

func NewReviewHandler(svc service.ReviewServicer) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// List returns the approved reviews as JSON, newest first. Unapproved
// reviews are filtered at the service layer and never leave it.
func (h *ReviewHandler) List(c *gin.Context) {
	items, err := h.svc.ListApproved(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": items, "total": len(items)})
}
