package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 draftpress.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "draftpress.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&User{},
		&Project{},
		&Hypothesis{},
		&CustomerProfile{},
		&KeywordCluster{},
		&LeanCanvas{},
		&BacklogIdea{},
		&ContentItem{},
		&PublishSetting{},
		&PublishRun{},
		&SystemSetting{},
	); err != nil {
		return err
	}

	// 历史库中 status 存在大小写混用，统一收敛为小写枚举值
	if err := DB.Model(&BacklogIdea{}).
		Where("status != lower(status)").
		Update("status", gorm.Expr("lower(status)")).Error; err != nil {
		return err
	}
	if err := DB.Model(&ContentItem{}).
		Where("status != lower(status)").
		Update("status", gorm.Expr("lower(status)")).Error; err != nil {
		return err
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
