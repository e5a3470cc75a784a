package services

import (
	"context"
	"fmt"
	"log/slog"

	"biolink/internal/models"

	"gorm.io/gorm"
)

const maxNotifications = 50

type NotificationService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewNotificationService(db *gorm.DB, logger *slog.Logger) *NotificationService {
	return &NotificationService{db: db, logger: logger}
}

// NotifyAdmins sends message to every admin account.
func (s *NotificationService) NotifyAdmins(ctx context.Context, actorID, commentID, message string) error {
	var adminIDs []string
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Pluck("id", &adminIDs).Error
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}
	if len(adminIDs) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(adminIDs))
	for _, id := range adminIDs {
		n := models.Notification{
			UserID:  id,
			Type:    models.NotificationTypeCommentHidden,
			Message: message,
		}
		if actorID != "" {
			n.ActorID = &actorID
		}
		if commentID != "" {
			n.CommentID = &commentID
		}
		notifications = append(notifications, n)
	}
	if err := s.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return fmt.Errorf("create admin notifications: %w", err)
	}
	return nil
}

// NotifyUser sends a single notification to userID.
func (s *NotificationService) NotifyUser(ctx context.Context, userID string, typ models.NotificationType, commentID, message string) error {
	n := models.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
	}
	if commentID != "" {
		n.CommentID = &commentID
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns caller's most recent notifications, newest first.
func (s *NotificationService) List(ctx context.Context, caller *models.User, limit int) ([]models.Notification, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if limit < 1 || limit > maxNotifications {
		return nil, NewError(ErrValidation, fmt.Sprintf("limit must be between 1 and %d", maxNotifications))
	}

	notifications := []models.Notification{}
	err := s.db.WithContext(ctx).
		Preload("Actor").
		Where("user_id = ?", caller.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, caller *models.User, id uint) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	gdb := s.db.WithContext(ctx)

	var count int64
	if err := gdb.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, caller.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("load notification: %w", err)
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	if err := gdb.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, caller.ID).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller *models.User) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", caller.ID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, caller.ID).Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("delete notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
