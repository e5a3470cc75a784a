package handlers

import (
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	accounts *services.AccountService
}

func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Profile GET /api/profiles/:userId
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.accounts.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"name":      user.Name,
		"avatar":    user.Avatar,
		"tier":      user.Tier,
		"createdAt": user.CreatedAt,
	})
}
