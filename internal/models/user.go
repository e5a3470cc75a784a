package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	TierFree    = "free"
	TierPro     = "pro"
	TierCreator = "creator"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"-"`
	Password  string    `gorm:"not null" json:"-"`                            // bcrypt hash
	Avatar    string    `gorm:"default:'🌱'" json:"avatar"`                    // emoji or image url
	Tier      string    `gorm:"size:20;default:'free';not null" json:"tier"`  // free, pro, creator
	Role      string    `gorm:"size:20;default:'user';not null" json:"role"`  // user, admin
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
