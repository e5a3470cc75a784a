package handlers

import (
	"net/http"

	"biolink/internal/middleware"
	"biolink/internal/models"
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List GET /api/profiles/:userId/comments
func (h *CommentHandler) List(c *gin.Context) {
	limit, offset, err := pageParams(c, defaultPageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.comments.ListComments(c.Request.Context(), services.ListCommentsInput{
		ProfileUserID: c.Param("userId"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, page)
}

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

// Create POST /api/profiles/:userId/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.comments.CreateComment(c.Request.Context(), middleware.CurrentUser(c), services.CreateCommentInput{
		ProfileUserID: c.Param("userId"),
		Content:       req.Content,
		ParentID:      req.ParentID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get GET /api/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	view, err := h.comments.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, view)
}

// Replies GET /api/comments/:id/replies
func (h *CommentHandler) Replies(c *gin.Context) {
	limit, offset, err := pageParams(c, defaultPageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.comments.ListReplies(c.Request.Context(), services.ListRepliesInput{
		ParentID: c.Param("id"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, page)
}

// Delete DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.DeleteComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"success": true})
}

// ToggleLike POST /api/comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	res, err := h.comments.ToggleCommentLike(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, res)
}

type reportRequest struct {
	Reason      models.ReportReason `json:"reason"`
	Description string              `json:"description"`
}

// Report POST /api/comments/:id/report
func (h *CommentHandler) Report(c *gin.Context) {
	var req reportRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.comments.ReportComment(c.Request.Context(), middleware.CurrentUser(c), services.ReportCommentInput{
		CommentID:   c.Param("id"),
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, res)
}

// TogglePin POST /api/comments/:id/pin
func (h *CommentHandler) TogglePin(c *gin.Context) {
	res, err := h.comments.TogglePinComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, res)
}

type checkLikesRequest struct {
	CommentIDs []string `json:"commentIds"`
}

// CheckLikes POST /api/comment-likes/check
func (h *CommentHandler) CheckLikes(c *gin.Context) {
	var req checkLikesRequest
	if !bindJSON(c, &req) {
		return
	}
	liked, err := h.comments.CheckCommentLikes(c.Request.Context(), middleware.CurrentUser(c), req.CommentIDs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"likedCommentIds": liked})
}
