package handlers

import (
	"net/http"
	"time"

	"biolink/internal/auth"
	"biolink/internal/middleware"
	"biolink/internal/models"
	"biolink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts      *services.AccountService
	notifications *services.NotificationService
	tokens        *auth.TokenIssuer
	sessions      *auth.Validator
}

func NewAuthHandler(accounts *services.AccountService, notifications *services.NotificationService, tokens *auth.TokenIssuer, validator *auth.Validator) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		notifications: notifications,
		tokens:        tokens,
		sessions:      validator,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// startSession issues a token for user and stores it in the cookie session.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (*sessionResponse, error) {
	token, exp, err := h.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	session := sessions.Default(c)
	session.Set(middleware.SessionTokenKey, token)
	if err := session.Save(); err != nil {
		return nil, err
	}
	return &sessionResponse{User: user, Token: token, ExpiresAt: exp}, nil
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp, err := h.startSession(c, user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp, err := h.startSession(c, user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, resp)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		h.sessions.Forget(user.ID)
	}
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"success": true})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	unread, err := h.notifications.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"user": user, "unreadCount": unread})
}
