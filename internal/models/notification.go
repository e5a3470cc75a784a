package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeCommentHidden  NotificationType = "comment_hidden"  // sent to admins
	NotificationTypeCommentRemoved NotificationType = "comment_removed" // sent to the author
	NotificationTypeSystem         NotificationType = "system"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"userId"` // Receiver
	ActorID   *string          `gorm:"size:36;index" json:"actorId"`         // Sender
	Actor     *User            `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"actor,omitempty"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	CommentID *string          `gorm:"size:36" json:"commentId,omitempty"`
	Message   string           `gorm:"type:text" json:"message"`
	IsRead    bool             `gorm:"default:false;index" json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}

// All lists every model owned by this service, in migration order.
func All() []any {
	return []any{
		&User{},
		&Comment{},
		&CommentLike{},
		&CommentReport{},
		&Notification{},
	}
}
