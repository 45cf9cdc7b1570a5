package db

import "gorm.io/gorm"

// PublishRun 记录自动发布任务的一次运行结果，供运维侧追溯
// Errors 为逐条错误串接的文本，明细以 idea id 前缀标注
type PublishRun struct {
	gorm.Model
	RunID          string `gorm:"size:36;uniqueIndex"`
	PublishedCount int
	FailedCount    int
	Errors         string `gorm:"type:text"`
	DurationMillis int64
}
