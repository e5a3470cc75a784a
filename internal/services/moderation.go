package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"biolink/internal/contentfilter"
	"biolink/internal/models"
	"biolink/internal/utils"

	"gorm.io/gorm"
)

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionRemove  ModerationAction = "remove"
)

type ListFlaggedInput struct {
	Limit  int `json:"limit" validate:"min=1,max=50"`
	Offset int `json:"offset" validate:"min=0"`
}

type ModerateInput struct {
	CommentID string           `json:"commentId" validate:"required"`
	Action    ModerationAction `json:"action" validate:"required,oneof=approve remove"`
}

// FilterInfo describes the loaded content filter for admins.
type FilterInfo struct {
	Version           string                 `json:"version"`
	AutoHideThreshold int                    `json:"autoHideThreshold"`
	Categories        []string               `json:"categories"`
	BlockedWords      []string               `json:"blockedWords"`
	Settings          contentfilter.Settings `json:"settings"`
}

// ModerationService is the admin side of reports: reviewing flagged
// comments and resolving them.
type ModerationService struct {
	db            *gorm.DB
	filter        *contentfilter.Filter
	notifications *NotificationService
	logger        *slog.Logger
}

func NewModerationService(db *gorm.DB, filter *contentfilter.Filter, notifications *NotificationService, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		db:            db,
		filter:        filter,
		notifications: notifications,
		logger:        logger,
	}
}

func requireAdmin(caller *models.User) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return NewError(ErrForbidden, "Admin access required")
	}
	return nil
}

// ListFlagged returns comments waiting for review, most recently flagged
// first.
func (s *ModerationService) ListFlagged(ctx context.Context, caller *models.User, in ListFlaggedInput) (*FlaggedPage, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	flagged := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Comment{}).
			Where("moderation_status = ? AND is_deleted = ?", models.ModerationPendingReview, false)
	}

	var total int64
	if err := flagged().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count flagged comments: %w", err)
	}

	var comments []models.Comment
	if int64(in.Offset) < total {
		err := flagged().
			Preload("Author").
			Order("updated_at DESC, id DESC").
			Limit(in.Limit).
			Offset(in.Offset).
			Find(&comments).Error
		if err != nil {
			return nil, fmt.Errorf("list flagged comments: %w", err)
		}
	}

	page := &FlaggedPage{
		Comments: make([]FlaggedComment, 0, len(comments)),
		Total:    total,
		HasMore:  int64(in.Offset+len(comments)) < total,
	}
	for _, c := range comments {
		page.Comments = append(page.Comments, FlaggedComment{
			CommentView:      newCommentView(c),
			IsHidden:         c.IsHidden,
			ModerationStatus: c.ModerationStatus,
			ReportCount:      c.ReportCount,
		})
	}
	return page, nil
}

// ListReports returns every report filed against a comment, newest first.
func (s *ModerationService) ListReports(ctx context.Context, caller *models.User, commentID string) ([]ReportView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	gdb := s.db.WithContext(ctx)
	if _, err := findComment(gdb, commentID); err != nil {
		return nil, err
	}

	var reports []models.CommentReport
	err := gdb.Preload("Reporter").
		Where("comment_id = ?", commentID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, ReportView{
			ID:          r.ID,
			Reason:      r.Reason,
			Description: r.Description,
			Reporter:    newAuthorView(r.Reporter),
			CreatedAt:   r.CreatedAt,
		})
	}
	return views, nil
}

// Moderate resolves a flagged comment. Approve clears its reports and puts it
// back on the wall; remove soft-deletes it and tells the author.
func (s *ModerationService) Moderate(ctx context.Context, caller *models.User, in ModerateInput) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}

	var comment *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		comment, err = findLiveComment(tx, in.CommentID)
		if err != nil {
			return err
		}

		switch in.Action {
		case ActionApprove:
			if err := tx.Where("comment_id = ?", in.CommentID).Delete(&models.CommentReport{}).Error; err != nil {
				return fmt.Errorf("clear reports: %w", err)
			}
			err = tx.Model(&models.Comment{}).Where("id = ?", in.CommentID).Updates(map[string]any{
				"report_count":      0,
				"is_hidden":         false,
				"moderation_status": models.ModerationApproved,
			}).Error
			if err != nil {
				return fmt.Errorf("approve comment: %w", err)
			}
		case ActionRemove:
			if err := tx.Model(&models.Comment{}).Where("id = ?", in.CommentID).Update("is_deleted", true).Error; err != nil {
				return fmt.Errorf("remove comment: %w", err)
			}
		default:
			return errors.New("unhandled moderation action")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "comment moderated",
		"comment_id", in.CommentID,
		"action", in.Action,
		"admin_id", caller.ID,
	)

	if in.Action == ActionRemove {
		msg := fmt.Sprintf("Your comment was removed by a moderator: %q", utils.Excerpt(comment.Content, 80))
		if err := s.notifications.NotifyUser(ctx, comment.AuthorID, models.NotificationTypeCommentRemoved, comment.ID, msg); err != nil {
			s.logger.ErrorContext(ctx, "notify author of removed comment", "comment_id", comment.ID, "error", err)
		}
	}
	return nil
}

func (s *ModerationService) FilterInfo(ctx context.Context, caller *models.User) (*FilterInfo, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return &FilterInfo{
		Version:           s.filter.Version(),
		AutoHideThreshold: s.filter.AutoHideThreshold(),
		Categories:        s.filter.Categories(),
		BlockedWords:      s.filter.AllBlockedWords(),
		Settings:          s.filter.Settings(),
	}, nil
}
