package main

import (
	"context"
	"log"

	"github.com/draftpress/internal/config"
	"github.com/draftpress/internal/db"
	"github.com/draftpress/internal/handler"
	"github.com/draftpress/internal/router"
	"github.com/draftpress/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 确保超级管理员存在
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	system := service.NewSystemSettingService(db.DB)
	drafts := service.NewAIDraftService(system)

	autoPublish := service.NewAutoPublishService(db.DB, service.NewWordPressGateway())
	autoPublish.SetCallTimeout(cfg.PublishCallTimeout)

	// 启动自动发布调度循环
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service.StartAutoPublishScheduler(ctx, autoPublish, cfg.AutoPublishInterval)

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, drafts, autoPublish)
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
