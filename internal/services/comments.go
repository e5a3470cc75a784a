package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"biolink/internal/contentfilter"
	"biolink/internal/models"
	"biolink/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxLikeCheckIDs = 100

type ListCommentsInput struct {
	ProfileUserID string `json:"profileUserId" validate:"required"`
	Limit         int    `json:"limit" validate:"min=1,max=50"`
	Offset        int    `json:"offset" validate:"min=0"`
}

type ListRepliesInput struct {
	ParentID string `json:"parentId" validate:"required"`
	Limit    int    `json:"limit" validate:"min=1,max=50"`
	Offset   int    `json:"offset" validate:"min=0"`
}

type CreateCommentInput struct {
	ProfileUserID string  `json:"profileUserId" validate:"required"`
	Content       string  `json:"content" validate:"required,max=500"`
	ParentID      *string `json:"parentId"`
}

type ReportCommentInput struct {
	CommentID   string              `json:"commentId" validate:"required"`
	Reason      models.ReportReason `json:"reason" validate:"required,oneof=spam harassment hate_speech inappropriate other"`
	Description string              `json:"description" validate:"max=500"`
}

type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type ReportResult struct {
	ReportCount int  `json:"reportCount"`
	Hidden      bool `json:"hidden"`
}

type PinResult struct {
	Pinned bool `json:"pinned"`
}

// CommentService owns the comments on profile walls together with their
// likes and reports.
type CommentService struct {
	db            *gorm.DB
	filter        *contentfilter.Filter
	notifications *NotificationService
	logger        *slog.Logger
}

func NewCommentService(db *gorm.DB, filter *contentfilter.Filter, notifications *NotificationService, logger *slog.Logger) *CommentService {
	return &CommentService{
		db:            db,
		filter:        filter,
		notifications: notifications,
		logger:        logger,
	}
}

// visibleComments limits a query to comments shown to ordinary readers.
func visibleComments(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_deleted = ? AND is_hidden = ? AND moderation_status = ?",
		false, false, models.ModerationApproved)
}

func findComment(tx *gorm.DB, id string) (*models.Comment, error) {
	var comment models.Comment
	err := tx.Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	return &comment, nil
}

// findLiveComment is findComment for operations that treat soft-deleted
// comments as gone.
func findLiveComment(tx *gorm.DB, id string) (*models.Comment, error) {
	comment, err := findComment(tx, id)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func canDeleteComment(caller *models.User, c *models.Comment) bool {
	return c.AuthorID == caller.ID || c.ProfileUserID == caller.ID || caller.IsAdmin()
}

func canPinComment(caller *models.User, c *models.Comment) bool {
	return c.ProfileUserID == caller.ID || caller.IsAdmin()
}

// ListComments returns one page of visible top-level comments on a wall.
// Pinned comments always come first.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) (*CommentPage, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	wall := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Comment{}).
			Scopes(visibleComments).
			Where("profile_user_id = ? AND parent_id IS NULL", in.ProfileUserID)
	}

	var total int64
	if err := wall().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	comments := []models.Comment{}
	if int64(in.Offset) < total {
		err := wall().
			Preload("Author").
			Order("is_pinned DESC, created_at DESC, id DESC").
			Limit(in.Limit).
			Offset(in.Offset).
			Find(&comments).Error
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
	}
	return newCommentPage(comments, total, in.Offset), nil
}

// GetComment returns a single visible comment, top-level or reply.
func (s *CommentService) GetComment(ctx context.Context, id string) (*CommentView, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).
		Scopes(visibleComments).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	view := newCommentView(comment)
	return &view, nil
}

// ListReplies returns the visible replies to a comment, oldest first. The
// parent itself may already be deleted.
func (s *CommentService) ListReplies(ctx context.Context, in ListRepliesInput) (*CommentPage, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := findComment(s.db.WithContext(ctx), in.ParentID); err != nil {
		return nil, err
	}

	replies := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Comment{}).
			Scopes(visibleComments).
			Where("parent_id = ?", in.ParentID)
	}

	var total int64
	if err := replies().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}

	comments := []models.Comment{}
	if int64(in.Offset) < total {
		err := replies().
			Preload("Author").
			Order("created_at ASC, id ASC").
			Limit(in.Limit).
			Offset(in.Offset).
			Find(&comments).Error
		if err != nil {
			return nil, fmt.Errorf("list replies: %w", err)
		}
	}
	return newCommentPage(comments, total, in.Offset), nil
}

// CreateComment posts a comment (or a reply when ParentID is set) on a wall.
func (s *CommentService) CreateComment(ctx context.Context, caller *models.User, in CreateCommentInput) (*CommentView, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.ParentID != nil && strings.TrimSpace(*in.ParentID) == "" {
		in.ParentID = nil
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if res := s.filter.Check(in.Content); !res.IsClean {
		s.logger.InfoContext(ctx, "comment rejected by content filter",
			"author_id", caller.ID,
			"profile_user_id", in.ProfileUserID,
			"reason", res.Reason,
			"category", res.Category,
		)
		return nil, ErrContentPolicy
	}

	gdb := s.db.WithContext(ctx)

	var profiles int64
	if err := gdb.Model(&models.User{}).Where("id = ?", in.ProfileUserID).Count(&profiles).Error; err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profiles == 0 {
		return nil, ErrProfileNotFound
	}

	if in.ParentID != nil {
		parent, err := findLiveComment(gdb, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.IsHidden {
			return nil, ErrCommentNotFound
		}
		if parent.ProfileUserID != in.ProfileUserID {
			return nil, NewError(ErrValidation, "parentId must reference a comment on the same profile")
		}
	}

	comment := models.Comment{
		ProfileUserID:    in.ProfileUserID,
		AuthorID:         caller.ID,
		ParentID:         in.ParentID,
		Content:          in.Content,
		ModerationStatus: models.ModerationApproved,
	}
	if err := gdb.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if err := gdb.Preload("Author").Where("id = ?", comment.ID).First(&comment).Error; err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		"comment_id", comment.ID,
		"author_id", caller.ID,
		"profile_user_id", comment.ProfileUserID,
	)
	view := newCommentView(comment)
	return &view, nil
}

// DeleteComment soft-deletes a comment. Likes, reports and replies are left
// untouched. Deleting an already deleted comment succeeds.
func (s *CommentService) DeleteComment(ctx context.Context, caller *models.User, id string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	gdb := s.db.WithContext(ctx)
	comment, err := findComment(gdb, id)
	if err != nil {
		return err
	}
	if !canDeleteComment(caller, comment) {
		return NewError(ErrForbidden, "You do not have permission to delete this comment")
	}
	if comment.IsDeleted {
		return nil
	}

	if err := gdb.Model(&models.Comment{}).Where("id = ?", id).Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.logger.InfoContext(ctx, "comment deleted", "comment_id", id, "user_id", caller.ID)
	return nil
}

// ToggleCommentLike likes the comment for caller, or removes the like when
// one exists. The counter moves only with relative updates, in the same
// transaction as the like row.
func (s *CommentService) ToggleCommentLike(ctx context.Context, caller *models.User, id string) (*LikeResult, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	result := &LikeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findLiveComment(tx, id); err != nil {
			return err
		}

		del := tx.Where("comment_id = ? AND user_id = ?", id, caller.ID).Delete(&models.CommentLike{})
		if del.Error != nil {
			return fmt.Errorf("remove like: %w", del.Error)
		}

		if del.RowsAffected > 0 {
			err := tx.Model(&models.Comment{}).Where("id = ?", id).
				UpdateColumn("likes", gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")).Error
			if err != nil {
				return fmt.Errorf("decrement likes: %w", err)
			}
			result.Liked = false
		} else {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.CommentLike{CommentID: id, UserID: caller.ID})
			if ins.Error != nil {
				return fmt.Errorf("add like: %w", ins.Error)
			}
			// A concurrent request may have inserted the same pair; only the
			// insert that landed counts.
			if ins.RowsAffected > 0 {
				err := tx.Model(&models.Comment{}).Where("id = ?", id).
					UpdateColumn("likes", gorm.Expr("likes + 1")).Error
				if err != nil {
					return fmt.Errorf("increment likes: %w", err)
				}
			}
			result.Liked = true
		}

		var fresh models.Comment
		if err := tx.Select("likes").Where("id = ?", id).Take(&fresh).Error; err != nil {
			return fmt.Errorf("read likes: %w", err)
		}
		result.Likes = fresh.Likes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReportComment records caller's report. The report that takes the count to
// the auto-hide threshold hides the comment for review and alerts admins.
func (s *CommentService) ReportComment(ctx context.Context, caller *models.User, in ReportCommentInput) (*ReportResult, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	threshold := s.filter.AutoHideThreshold()
	result := &ReportResult{}
	crossed := false
	var comment *models.Comment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		comment, err = findLiveComment(tx, in.CommentID)
		if err != nil {
			return err
		}

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CommentReport{
			CommentID:   in.CommentID,
			ReporterID:  caller.ID,
			Reason:      in.Reason,
			Description: in.Description,
		})
		if ins.Error != nil {
			return fmt.Errorf("insert report: %w", ins.Error)
		}
		if ins.RowsAffected == 0 {
			return ErrAlreadyReported
		}

		err = tx.Model(&models.Comment{}).Where("id = ?", in.CommentID).
			UpdateColumn("report_count", gorm.Expr("report_count + 1")).Error
		if err != nil {
			return fmt.Errorf("increment report count: %w", err)
		}

		var fresh models.Comment
		if err := tx.Select("report_count", "is_hidden").Where("id = ?", in.CommentID).Take(&fresh).Error; err != nil {
			return fmt.Errorf("read report count: %w", err)
		}
		result.ReportCount = fresh.ReportCount
		result.Hidden = fresh.IsHidden

		if fresh.ReportCount >= threshold && !fresh.IsHidden {
			err := tx.Model(&models.Comment{}).Where("id = ?", in.CommentID).Updates(map[string]any{
				"is_hidden":         true,
				"moderation_status": models.ModerationPendingReview,
			}).Error
			if err != nil {
				return fmt.Errorf("hide comment: %w", err)
			}
			result.Hidden = true
			crossed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "comment reported",
		"comment_id", in.CommentID,
		"reporter_id", caller.ID,
		"reason", in.Reason,
		"report_count", result.ReportCount,
	)

	if crossed {
		s.logger.WarnContext(ctx, "comment auto-hidden pending review",
			"comment_id", in.CommentID,
			"report_count", result.ReportCount,
			"threshold", threshold,
		)
		msg := fmt.Sprintf("A comment was hidden after %d reports: %q", result.ReportCount, utils.Excerpt(comment.Content, 80))
		if err := s.notifications.NotifyAdmins(ctx, caller.ID, in.CommentID, msg); err != nil {
			s.logger.ErrorContext(ctx, "notify admins of hidden comment", "comment_id", in.CommentID, "error", err)
		}
	}
	return result, nil
}

// CheckCommentLikes returns which of ids caller has liked. Anonymous callers
// get an empty list.
func (s *CommentService) CheckCommentLikes(ctx context.Context, caller *models.User, ids []string) ([]string, error) {
	liked := []string{}
	if caller == nil || len(ids) == 0 {
		return liked, nil
	}
	if len(ids) > maxLikeCheckIDs {
		return nil, NewError(ErrValidation, fmt.Sprintf("commentIds must contain at most %d items", maxLikeCheckIDs))
	}

	err := s.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", caller.ID, ids).
		Pluck("comment_id", &liked).Error
	if err != nil {
		return nil, fmt.Errorf("check likes: %w", err)
	}
	return liked, nil
}

// TogglePinComment flips the pinned flag of a comment.
func (s *CommentService) TogglePinComment(ctx context.Context, caller *models.User, id string) (*PinResult, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	result := &PinResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := findLiveComment(tx, id)
		if err != nil {
			return err
		}
		if !canPinComment(caller, comment) {
			return NewError(ErrForbidden, "Only the profile owner can pin comments")
		}

		if err := tx.Model(&models.Comment{}).Where("id = ?", id).
			Update("is_pinned", gorm.Expr("NOT is_pinned")).Error; err != nil {
			return fmt.Errorf("toggle pin: %w", err)
		}

		var fresh models.Comment
		if err := tx.Select("is_pinned").Where("id = ?", id).Take(&fresh).Error; err != nil {
			return fmt.Errorf("read pin: %w", err)
		}
		result.Pinned = fresh.IsPinned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
