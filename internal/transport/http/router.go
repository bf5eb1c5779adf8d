package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/magic-auth/internal/transport/http/handler"
	"github.com/ErlanBelekov/magic-auth/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/api/auth")
	auth.POST("/send_magic_link", authHandler.SendMagicLink)
	auth.GET("/token", authHandler.Token)
	auth.GET("/user", middleware.Auth(jwtKey), authHandler.User)

	return r
}
