package db

import (
	"time"

	"gorm.io/gorm"
)

// ContentItem 定义了稿件模型
// BacklogIdeaID 可为空：稿件允许脱离选题单独存在
// Content 存放渲染后的 Markdown 正文；结构化草稿不落库
// Status=published 只能由自动发布任务在收到 CMS 确认后写入
type ContentItem struct {
	gorm.Model
	ProjectID     uint `gorm:"index:idx_content_project_hypothesis"`
	HypothesisID  uint `gorm:"index:idx_content_project_hypothesis"`
	BacklogIdeaID *uint `gorm:"index"`
	Title         string
	Category      IdeaCategory  `gorm:"size:20"`
	Format        ContentFormat `gorm:"size:20"`
	Outline       string        `gorm:"type:text"`
	Content       string        `gorm:"type:text"`
	ImageURL      string
	Status        ContentStatus `gorm:"size:20;index"`
	DueDate       *time.Time
	CreatedBy     uint
	UpdatedBy     uint
}
