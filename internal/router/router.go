package router

import (
	"log/slog"
	"net/http"
	"time"

	"biolink/internal/auth"
	"biolink/internal/handlers"
	"biolink/internal/middleware"
	"biolink/internal/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionName = "biolink_session"

// Deps carries everything the HTTP layer needs.
type Deps struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	Validator     *auth.Validator
	Tokens        *auth.TokenIssuer
	Accounts      *services.AccountService
	Comments      *services.CommentService
	Moderation    *services.ModerationService
	Notifications *services.NotificationService

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	CORSOrigins   []string
}

// New builds the engine with the middleware chain and every route.
func New(d Deps) *gin.Engine {
	r := gin.New()

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(d.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
		sessions.Sessions(sessionName, store),
		middleware.ErrorHandler(d.Logger),
		middleware.LoadUser(d.Validator),
	)

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	commentHandler := handlers.NewCommentHandler(d.Comments)
	authHandler := handlers.NewAuthHandler(d.Accounts, d.Notifications, d.Tokens, d.Validator)
	userHandler := handlers.NewUserHandler(d.Accounts)
	notificationHandler := handlers.NewNotificationHandler(d.Notifications)
	adminHandler := handlers.NewAdminHandler(d.Moderation)

	r.GET("/healthz", health(d.DB))

	api := r.Group("/api")

	// Public routes
	api.GET("/profiles/:userId", userHandler.Profile)
	api.GET("/profiles/:userId/comments", commentHandler.List)
	api.GET("/comments/:id", commentHandler.Get)
	api.GET("/comments/:id/replies", commentHandler.Replies)
	api.POST("/comment-likes/check", commentHandler.CheckLikes)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/profiles/:userId/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
		authorized.POST("/comments/:id/like", commentHandler.ToggleLike)
		authorized.POST("/comments/:id/report", commentHandler.Report)
		authorized.POST("/comments/:id/pin", commentHandler.TogglePin)

		authorized.GET("/auth/me", authHandler.Me)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/comments/flagged", adminHandler.Flagged)
		admin.GET("/comments/:id/reports", adminHandler.Reports)
		admin.POST("/comments/:id/moderate", adminHandler.Moderate)
		admin.GET("/filter", adminHandler.Filter)
	}
}

func health(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
