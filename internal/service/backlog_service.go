package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/draftpress/internal/db"
	"gorm.io/gorm"
)

var (
	ErrIdeaNotFound       = errors.New("backlog idea not found")
	ErrScheduleDateNeeded = errors.New("a schedule date is required")
)

// BacklogService wraps backlog idea related database operations.
type BacklogService struct {
	db *gorm.DB
}

// BacklogIdeaInput represents fields accepted when creating a backlog idea.
type BacklogIdeaInput struct {
	ProjectID    uint
	HypothesisID uint
	Title        string
	Description  string
	Category     db.IdeaCategory
	UserID       uint
}

// NewBacklogService creates a BacklogService instance.
func NewBacklogService(gdb *gorm.DB) *BacklogService {
	return &BacklogService{db: gdb}
}

// Create persists a new idea in backlog status.
func (s *BacklogService) Create(input BacklogIdeaInput) (*db.BacklogIdea, error) {
	idea := db.BacklogIdea{
		ProjectID:    input.ProjectID,
		HypothesisID: input.HypothesisID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Status:       db.BacklogStatusBacklog,
		CreatedBy:    input.UserID,
		UpdatedBy:    input.UserID,
	}
	if err := s.db.Create(&idea).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

// Get fetches an idea by id.
func (s *BacklogService) Get(id uint) (*db.BacklogIdea, error) {
	var idea db.BacklogIdea
	if err := s.db.First(&idea, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	return &idea, nil
}

// List returns ideas ordered by scheduled date first, then creation time.
func (s *BacklogService) List(projectID, hypothesisID uint) ([]db.BacklogIdea, error) {
	var ideas []db.BacklogIdea
	query := s.db.Order("scheduled_date asc, created_at desc")
	if projectID != 0 {
		query = query.Where("project_id = ?", projectID)
	}
	if hypothesisID != 0 {
		query = query.Where("hypothesis_id = ?", hypothesisID)
	}
	if err := query.Find(&ideas).Error; err != nil {
		return nil, err
	}
	return ideas, nil
}

// Schedule 设置发布日期并迁移至 scheduled 状态。
// 不变量：scheduled_date 与 status=scheduled 同生同灭，在同一次更新里写入。
func (s *BacklogService) Schedule(id uint, when time.Time, userID uint) (*db.BacklogIdea, error) {
	if when.IsZero() {
		return nil, ErrScheduleDateNeeded
	}

	idea, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":         db.BacklogStatusScheduled,
		"scheduled_date": when,
		"updated_by":     userID,
	}
	if err := s.db.Model(idea).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Archive 将选题归档并清空排期，操作者可在任意状态执行。
func (s *BacklogService) Archive(id uint, userID uint) (*db.BacklogIdea, error) {
	idea, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":         db.BacklogStatusArchived,
		"scheduled_date": nil,
		"updated_by":     userID,
	}
	if err := s.db.Model(idea).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// ScheduledDates 返回某项目/假设下所有已占用的排期日期，供排期推算使用。
func (s *BacklogService) ScheduledDates(projectID, hypothesisID uint) ([]time.Time, error) {
	var dates []time.Time
	if err := s.db.Model(&db.BacklogIdea{}).
		Where("project_id = ? AND hypothesis_id = ? AND status = ? AND scheduled_date IS NOT NULL",
			projectID, hypothesisID, db.BacklogStatusScheduled).
		Pluck("scheduled_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// FindDueScheduled 返回所有已到排期时间的 scheduled 选题。
func (s *BacklogService) FindDueScheduled(now time.Time) ([]db.BacklogIdea, error) {
	var ideas []db.BacklogIdea
	if err := s.db.
		Where("status = ? AND scheduled_date IS NOT NULL AND scheduled_date <= ?", db.BacklogStatusScheduled, now).
		Order("scheduled_date asc").
		Find(&ideas).Error; err != nil {
		return nil, fmt.Errorf("select due backlog ideas: %w", err)
	}
	return ideas, nil
}

// MarkInProgress 在发布确认后把选题置为 in_progress 并清空排期。
// scheduled_date 只在 status=scheduled 时存在，离开该状态必须同步清掉；
// 刻意不归档：发布完成的选题仍要出现在 backlog 视图里。
func (s *BacklogService) MarkInProgress(id uint) error {
	result := s.db.Model(&db.BacklogIdea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         db.BacklogStatusInProgress,
			"scheduled_date": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIdeaNotFound
	}
	return nil
}
