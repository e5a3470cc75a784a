package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the browser front end at origins to call the API with
// credentials.
func CORS(origins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AddAllowHeaders("Authorization", RequestIDHeader)
	config.AddExposeHeaders(RequestIDHeader)
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour
	return cors.New(config)
}
