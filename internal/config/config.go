package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr          string
	Port                string
	DatabasePath        string
	SessionSecret       string
	GinMode             string
	SuperRootUserName   string
	SuperRootPassword   string
	AutoPublishInterval time.Duration
	PublishCallTimeout  time.Duration
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "draftpress.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "draftpress-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	superRootUserName := strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME"))
	superRootPassword := strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD"))

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabasePath:        databasePath,
		SessionSecret:       sessionSecret,
		GinMode:             ginMode,
		SuperRootUserName:   superRootUserName,
		SuperRootPassword:   superRootPassword,
		AutoPublishInterval: durationFromEnv("AUTO_PUBLISH_INTERVAL_MINUTES", 15*time.Minute),
		PublishCallTimeout:  durationFromEnv("PUBLISH_CALL_TIMEOUT_SECONDS", 30*time.Second),
	}
}

// durationFromEnv 按环境变量名的单位后缀解析时长，非法或非正值回退默认。
func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}

	if strings.HasSuffix(key, "_SECONDS") {
		return time.Duration(value) * time.Second
	}
	return time.Duration(value) * time.Minute
}
