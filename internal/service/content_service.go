package service

import (
	"errors"
	"fmt"

	"github.com/draftpress/internal/db"
	"gorm.io/gorm"
)

var (
	ErrContentNotFound = errors.New("content item not found")
	// ErrPublishedReserved 表示 published 状态只能由自动发布任务写入。
	ErrPublishedReserved = errors.New("published status is reserved for the publish job")
	// ErrStatusWriteNotVerified 表示发布后的状态落库校验失败。
	ErrStatusWriteNotVerified = errors.New("status write could not be verified")
)

// ContentService wraps content item related database operations.
type ContentService struct {
	db *gorm.DB
}

// ContentItemInput represents fields accepted when storing a generated draft.
type ContentItemInput struct {
	ProjectID     uint
	HypothesisID  uint
	BacklogIdeaID *uint
	Title         string
	Category      db.IdeaCategory
	Format        db.ContentFormat
	Outline       string
	Content       string
	ImageURL      string
	UserID        uint
}

// NewContentService creates a ContentService instance.
func NewContentService(gdb *gorm.DB) *ContentService {
	return &ContentService{db: gdb}
}

// CreateDraft 以 draft 状态落库一份渲染完成的稿件。
func (s *ContentService) CreateDraft(input ContentItemInput) (*db.ContentItem, error) {
	item := db.ContentItem{
		ProjectID:     input.ProjectID,
		HypothesisID:  input.HypothesisID,
		BacklogIdeaID: input.BacklogIdeaID,
		Title:         input.Title,
		Category:      input.Category,
		Format:        input.Format,
		Outline:       input.Outline,
		Content:       input.Content,
		ImageURL:      input.ImageURL,
		Status:        db.ContentStatusDraft,
		CreatedBy:     input.UserID,
		UpdatedBy:     input.UserID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Get fetches a content item by id.
func (s *ContentService) Get(id uint) (*db.ContentItem, error) {
	var item db.ContentItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List returns content items for a project/hypothesis scope.
func (s *ContentService) List(projectID, hypothesisID uint) ([]db.ContentItem, error) {
	var items []db.ContentItem
	query := s.db.Order("created_at desc")
	if projectID != 0 {
		query = query.Where("project_id = ?", projectID)
	}
	if hypothesisID != 0 {
		query = query.Where("hypothesis_id = ?", hypothesisID)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindReadyByBacklogID 返回选题关联的 ready 稿件，没有则报 ErrContentNotFound。
func (s *ContentService) FindReadyByBacklogID(backlogIdeaID uint) (*db.ContentItem, error) {
	var item db.ContentItem
	if err := s.db.
		Where("backlog_idea_id = ? AND status = ?", backlogIdeaID, db.ContentStatusReady).
		Order("updated_at desc").
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateStatus 执行编辑侧状态流转（draft/review/ready/archived）。
// published 被显式拒绝：该值只允许 MarkPublished 在发布确认后写入。
func (s *ContentService) UpdateStatus(id uint, status db.ContentStatus, userID uint) (*db.ContentItem, error) {
	if status == db.ContentStatusPublished {
		return nil, ErrPublishedReserved
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_by": userID,
	}
	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// MarkPublished 在收到发布网关确认后写入 published 状态，并回读校验写入确实生效。
// 回读失败视为该条目发布失败，防止丢失更新后误报成功。
func (s *ContentService) MarkPublished(id uint) error {
	if err := s.db.Model(&db.ContentItem{}).
		Where("id = ?", id).
		Update("status", db.ContentStatusPublished).Error; err != nil {
		return fmt.Errorf("write published status: %w", err)
	}

	var check db.ContentItem
	if err := s.db.Select("id", "status").First(&check, id).Error; err != nil {
		return fmt.Errorf("verify published status: %w", err)
	}
	if check.Status != db.ContentStatusPublished {
		return ErrStatusWriteNotVerified
	}
	return nil
}
