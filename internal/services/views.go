package services

import (
	"time"

	"biolink/internal/models"
	"biolink/internal/utils"
)

// AuthorView is the public part of a comment author.
type AuthorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Tier     string `json:"tier"`
}

type CommentView struct {
	ID            string     `json:"id"`
	ProfileUserID string     `json:"profileUserId"`
	ParentID      *string    `json:"parentId"`
	Content       string     `json:"content"`
	ContentHTML   string     `json:"contentHtml"`
	Likes         int        `json:"likes"`
	IsPinned      bool       `json:"isPinned"`
	Author        AuthorView `json:"author"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CommentPage struct {
	Comments []CommentView `json:"comments"`
	Total    int64         `json:"total"`
	HasMore  bool          `json:"hasMore"`
}

// FlaggedComment is a comment as seen by moderators.
type FlaggedComment struct {
	CommentView
	IsHidden         bool                    `json:"isHidden"`
	ModerationStatus models.ModerationStatus `json:"moderationStatus"`
	ReportCount      int                     `json:"reportCount"`
}

type FlaggedPage struct {
	Comments []FlaggedComment `json:"comments"`
	Total    int64            `json:"total"`
	HasMore  bool             `json:"hasMore"`
}

type ReportView struct {
	ID          uint                `json:"id"`
	Reason      models.ReportReason `json:"reason"`
	Description string              `json:"description,omitempty"`
	Reporter    AuthorView          `json:"reporter"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func newAuthorView(u models.User) AuthorView {
	return AuthorView{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Tier:     u.Tier,
	}
}

func newCommentView(c models.Comment) CommentView {
	return CommentView{
		ID:            c.ID,
		ProfileUserID: c.ProfileUserID,
		ParentID:      c.ParentID,
		Content:       c.Content,
		ContentHTML:   utils.RenderMarkdown(c.Content),
		Likes:         c.Likes,
		IsPinned:      c.IsPinned,
		Author:        newAuthorView(c.Author),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func newCommentPage(comments []models.Comment, total int64, offset int) *CommentPage {
	page := &CommentPage{
		Comments: make([]CommentView, 0, len(comments)),
		Total:    total,
		HasMore:  int64(offset+len(comments)) < total,
	}
	for _, c := range comments {
		page.Comments = append(page.Comments, newCommentView(c))
	}
	return page
}
