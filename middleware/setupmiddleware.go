package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetUpMiddleware installs the global middleware chain. Browser clients
// connect from arbitrary origins, so CORS is wide open by default and
// narrowed with ALLOWED_ORIGIN in production.
func SetUpMiddleware(r *gin.Engine, allowedOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
}
