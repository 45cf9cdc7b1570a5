package router

import (
	"github.com/draftpress/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("draftpress_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/backlog", api.ListBacklog)
			auth.POST("/backlog", api.CreateBacklogIdea)
			auth.PUT("/backlog/:id/schedule", api.ScheduleBacklogIdea)
			auth.PUT("/backlog/:id/archive", api.ArchiveBacklogIdea)
			auth.POST("/backlog/:id/draft", api.GenerateDraft)

			auth.GET("/content", api.ListContent)
			auth.PUT("/content/:id/status", api.UpdateContentStatus)

			auth.GET("/publish-settings", api.GetPublishSettings)
			auth.PUT("/publish-settings", api.UpdatePublishSettings)
			auth.POST("/publish/run", api.RunAutoPublish)
			auth.GET("/publish/runs", api.ListPublishRuns)

			auth.GET("/settings", api.GetSystemSettings)
			auth.PUT("/settings", api.UpdateSystemSettings)
			auth.POST("/settings/test-ai", api.TestAIConnection)
		}
	}

	return r
}
