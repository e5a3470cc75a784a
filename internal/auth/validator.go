package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biolink/internal/models"
	"biolink/internal/utils"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const userCacheTTL = 30 * time.Second

// Validator resolves a session token to the user it belongs to.
type Validator struct {
	db     *gorm.DB
	tokens *TokenIssuer
	users  *utils.Cache[models.User]
	loads  singleflight.Group
}

func NewValidator(db *gorm.DB, tokens *TokenIssuer) (*Validator, error) {
	cache, err := utils.NewCache[models.User](1024, userCacheTTL)
	if err != nil {
		return nil, err
	}
	return &Validator{db: db, tokens: tokens, users: cache}, nil
}

// ValidateSession returns the user for token. An empty, malformed or expired
// token, or one whose user no longer exists, yields a nil user and no error.
// Only storage failures are returned as errors.
func (v *Validator) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := v.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}

	if u, ok := v.users.Get(userID); ok {
		return &u, nil
	}

	// Concurrent requests for the same user share one query.
	res, err, _ := v.loads.Do(userID, func() (any, error) {
		var user models.User
		err := v.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load session user: %w", err)
		}
		v.users.Set(userID, user)
		return user, nil
	})
	if err != nil || res == nil {
		return nil, err
	}
	user := res.(models.User)
	return &user, nil
}

// Forget drops a cached user so the next lookup reads storage again.
func (v *Validator) Forget(userID string) {
	v.users.Delete(userID)
}
