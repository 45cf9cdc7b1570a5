package db

import (
	"time"

	"gorm.io/gorm"
)

// BacklogIdea 定义了内容选题模型
// ScheduledDate 仅在 status=scheduled 时存在，由 BacklogService 负责维护该不变量
type BacklogIdea struct {
	gorm.Model
	ProjectID     uint `gorm:"index:idx_backlog_project_hypothesis"`
	HypothesisID  uint `gorm:"index:idx_backlog_project_hypothesis"`
	Title         string
	Description   string
	Category      IdeaCategory  `gorm:"size:20"`
	Status        BacklogStatus `gorm:"size:20;index"`
	ScheduledDate *time.Time    `gorm:"index"`
	CreatedBy     uint
	UpdatedBy     uint
}
