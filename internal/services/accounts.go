package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"biolink/internal/auth"
	"biolink/internal/models"
	"biolink/internal/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=100"`
}

type AccountService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAccountService(db *gorm.DB, logger *slog.Logger) *AccountService {
	return &AccountService{db: db, logger: logger}
}

// Register creates a user with a bcrypt password and a random emoji avatar.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	gdb := s.db.WithContext(ctx)
	var taken int64
	err := gdb.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR email = ?", in.Username, in.Email).
		Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if taken > 0 {
		return nil, NewError(ErrConflict, "Username or email is already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	name := in.Name
	if name == "" {
		name = in.Username
	}
	user := models.User{
		Username: in.Username,
		Name:     name,
		Email:    in.Email,
		Password: hash,
		Avatar:   utils.GetRandomEmoji(),
		Tier:     models.TierFree,
		Role:     models.RoleUser,
	}
	if err := gdb.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(ErrConflict, "Username or email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

// Authenticate checks an email and password pair.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser returns a user by id.
func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin makes sure an admin account exists for email, creating it
// with password when missing and promoting it otherwise. A blank email is
// a no-op.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	gdb := s.db.WithContext(ctx)

	var user models.User
	err := gdb.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin {
			return nil
		}
		if err := gdb.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		s.logger.InfoContext(ctx, "promoted existing user to admin", "user_id", user.ID)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("load admin: %w", err)
	}

	if len(password) < 8 {
		return NewError(ErrValidation, "admin password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	username, _, _ := strings.Cut(email, "@")
	username = sanitizeUsername(username)
	user = models.User{
		Username: username,
		Name:     "Admin",
		Email:    email,
		Password: hash,
		Avatar:   utils.GetRandomEmoji(),
		Tier:     models.TierFree,
		Role:     models.RoleAdmin,
	}
	if err := gdb.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.InfoContext(ctx, "created admin account", "user_id", user.ID, "username", user.Username)
	return nil
}

// sanitizeUsername turns an email local part into a valid username.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 32 {
		out = out[:32]
	}
	if len(out) < 3 {
		out = "admin"
	}
	return out
}
