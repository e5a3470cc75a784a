// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"biolink/internal/db"
	"biolink/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated SQLite database private to t. The pool is capped
// at a single connection so that code touching the outer handle while a
// transaction is open deadlocks the test instead of passing by accident.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// CreateUser inserts a user with a unique username and email.
func CreateUser(t *testing.T, gdb *gorm.DB, username, role string) *models.User {
	t.Helper()
	if role == "" {
		role = models.RoleUser
	}
	u := &models.User{
		Username: username,
		Name:     strings.ToUpper(username[:1]) + username[1:],
		Email:    username + "@example.com",
		Password: "x",
		Avatar:   "🌿",
		Tier:     models.TierFree,
		Role:     role,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateComment inserts a visible top-level comment on profile's wall.
func CreateComment(t *testing.T, gdb *gorm.DB, profile, author *models.User, content string, at time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{
		ProfileUserID:    profile.ID,
		AuthorID:         author.ID,
		Content:          content,
		ModerationStatus: models.ModerationApproved,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}
