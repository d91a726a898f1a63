package router

import (
	"github.com/labstack/echo/v4"

	"pawScout/internal/middleware"
	"pawScout/internal/rest"
)

func SetupSessionRoutes(api *echo.Group, handler *rest.InterviewHandler, authRequired echo.MiddlewareFunc) {
	sessions := api.Group("/sessions")

	sessions.POST("", handler.StartSession)
	sessions.POST("/import", handler.ImportProfile)
	sessions.POST("/restore", handler.Restore)

	owned := sessions.Group("/:id", authRequired, middleware.SessionOwnerOnly())
	owned.POST("/answers", handler.Answer)
	owned.GET("/question", handler.NextQuestion)
	owned.GET("/questions", handler.QuestionRankings)
	owned.GET("/matches", handler.Matches)
	owned.GET("/matches/detailed", handler.MatchesDetailed)
	owned.GET("/explanation", handler.Explanation)
	owned.GET("/profile", handler.ExportProfile)
	owned.GET("/share", handler.ShareCode)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler) {
	admin := api.Group("/admin")

	admin.POST("/reload", handler.Reload)
	admin.GET("/stats", handler.Stats)
}
