package handlers

import (
	"biolink/internal/middleware"
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	moderation *services.ModerationService
}

func NewAdminHandler(moderation *services.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

// Flagged GET /api/admin/comments/flagged
func (h *AdminHandler) Flagged(c *gin.Context) {
	limit, offset, err := pageParams(c, defaultPageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.moderation.ListFlagged(c.Request.Context(), middleware.CurrentUser(c), services.ListFlaggedInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, page)
}

// Reports GET /api/admin/comments/:id/reports
func (h *AdminHandler) Reports(c *gin.Context) {
	reports, err := h.moderation.ListReports(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"reports": reports})
}

type moderateRequest struct {
	Action services.ModerationAction `json:"action"`
}

// Moderate POST /api/admin/comments/:id/moderate
func (h *AdminHandler) Moderate(c *gin.Context) {
	var req moderateRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.moderation.Moderate(c.Request.Context(), middleware.CurrentUser(c), services.ModerateInput{
		CommentID: c.Param("id"),
		Action:    req.Action,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"commentId": c.Param("id"), "action": req.Action})
}

// Filter GET /api/admin/filter
func (h *AdminHandler) Filter(c *gin.Context) {
	info, err := h.moderation.FilterInfo(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, info)
}
