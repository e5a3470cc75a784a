package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationStatus string

const (
	ModerationApproved      ModerationStatus = "approved"
	ModerationPendingReview ModerationStatus = "pending_review"
)

// Comment is one entry on a profile wall. ProfileUserID never changes after
// insert; Likes and ReportCount are only touched with relative updates.
type Comment struct {
	ID               string           `gorm:"primaryKey;size:36" json:"id"`
	ProfileUserID    string           `gorm:"size:36;not null;index:idx_comments_wall" json:"profileUserId"`
	AuthorID         string           `gorm:"size:36;not null;index" json:"authorId"`
	Author           User             `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	ParentID         *string          `gorm:"size:36;index" json:"parentId"` // nil for top-level comments
	Content          string           `gorm:"type:text;not null" json:"content"`
	Likes            int              `gorm:"not null;default:0" json:"likes"`
	IsPinned         bool             `gorm:"not null;default:false" json:"isPinned"`
	IsDeleted        bool             `gorm:"not null;default:false;index" json:"isDeleted"`
	IsHidden         bool             `gorm:"not null;default:false" json:"isHidden"`
	ModerationStatus ModerationStatus `gorm:"type:varchar(20);not null;default:'approved';index" json:"moderationStatus"`
	ReportCount      int              `gorm:"not null;default:0" json:"reportCount"`
	CreatedAt        time.Time        `gorm:"index:idx_comments_wall" json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ModerationStatus == "" {
		c.ModerationStatus = ModerationApproved
	}
	return nil
}

// CommentLike records that a user liked a comment. At most one row exists
// per (comment, user).
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID string    `gorm:"size:36;not null;uniqueIndex:idx_comment_likes_pair" json:"commentId"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_comment_likes_pair;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReportReason string

const (
	ReportSpam          ReportReason = "spam"
	ReportHarassment    ReportReason = "harassment"
	ReportHateSpeech    ReportReason = "hate_speech"
	ReportInappropriate ReportReason = "inappropriate"
	ReportOther         ReportReason = "other"
)

// CommentReport is one user's report against a comment. At most one row
// exists per (comment, reporter).
type CommentReport struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CommentID   string       `gorm:"size:36;not null;uniqueIndex:idx_comment_reports_pair" json:"commentId"`
	ReporterID  string       `gorm:"size:36;not null;uniqueIndex:idx_comment_reports_pair;index" json:"reporterId"`
	Reporter    User         `gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reporter"`
	Reason      ReportReason `gorm:"size:20;not null" json:"reason"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
