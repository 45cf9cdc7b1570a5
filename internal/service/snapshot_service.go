package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/draftpress/internal/db"
	"gorm.io/gorm"
)

// ErrProjectNotFound 表示快照缺少必需的项目记录。
var ErrProjectNotFound = errors.New("project not found")

// Snapshot 是生成上下文的只读快照，缺失的可选部分保持零值。
type Snapshot struct {
	Project    db.Project
	Hypothesis db.Hypothesis
	ICP        db.CustomerProfile
	LeanCanvas db.LeanCanvas
	Clusters   []string
	Language   string
}

// SnapshotService 负责为指定的项目/假设组合拼装生成上下文。
type SnapshotService struct {
	db *gorm.DB
}

// NewSnapshotService 构造 SnapshotService。
func NewSnapshotService(gdb *gorm.DB) *SnapshotService {
	return &SnapshotService{db: gdb}
}

// LoadSnapshot 读取项目、假设、ICP 与精益画布数据。
// 项目是唯一的硬性依赖；其余部分缺失时容忍为空，由上游以占位符处理。
func (s *SnapshotService) LoadSnapshot(projectID, hypothesisID uint) (Snapshot, error) {
	var snapshot Snapshot

	if err := s.db.First(&snapshot.Project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ErrProjectNotFound
		}
		return Snapshot{}, fmt.Errorf("load project: %w", err)
	}

	if hypothesisID != 0 {
		if err := s.db.First(&snapshot.Hypothesis, hypothesisID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, fmt.Errorf("load hypothesis: %w", err)
		}
	}

	if err := s.db.Where("project_id = ? AND hypothesis_id = ?", projectID, hypothesisID).
		First(&snapshot.ICP).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{}, fmt.Errorf("load customer profile: %w", err)
	}

	if err := s.db.Where("project_id = ? AND hypothesis_id = ?", projectID, hypothesisID).
		First(&snapshot.LeanCanvas).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{}, fmt.Errorf("load lean canvas: %w", err)
	}

	if err := s.db.Model(&db.KeywordCluster{}).
		Where("project_id = ? AND hypothesis_id = ?", projectID, hypothesisID).
		Order("name asc").
		Pluck("name", &snapshot.Clusters).Error; err != nil {
		return Snapshot{}, fmt.Errorf("load keyword clusters: %w", err)
	}

	snapshot.Language = strings.TrimSpace(snapshot.Project.Language)
	return snapshot, nil
}
