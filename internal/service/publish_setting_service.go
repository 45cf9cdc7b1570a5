package service

import (
	"errors"
	"strings"

	"github.com/draftpress/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPublishSettingNotFound 表示该项目/假设还没有发布配置。
var ErrPublishSettingNotFound = errors.New("publish settings not found")

// PublishSettingService 提供 CMS 发布配置的读取与更新能力。
type PublishSettingService struct {
	db *gorm.DB
}

// PublishSettingInput 用于更新发布配置。
type PublishSettingInput struct {
	ProjectID          uint
	HypothesisID       uint
	AutoPublishEnabled bool
	BaseURL            string
	Username           string
	AppPassword        string
	PostType           string
	DefaultCategoryIDs string
	DefaultTagIDs      string
	WeeklyCadence      int
	PublishDays        string
}

// NewPublishSettingService 构造 PublishSettingService。
func NewPublishSettingService(gdb *gorm.DB) *PublishSettingService {
	return &PublishSettingService{db: gdb}
}

// Get 读取某个项目/假设组合的发布配置。
func (s *PublishSettingService) Get(projectID, hypothesisID uint) (*db.PublishSetting, error) {
	var setting db.PublishSetting
	if err := s.db.
		Where("project_id = ? AND hypothesis_id = ?", projectID, hypothesisID).
		First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublishSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert 写入发布配置，同一项目/假设组合只保留一条。
func (s *PublishSettingService) Upsert(input PublishSettingInput) (*db.PublishSetting, error) {
	postType := strings.TrimSpace(input.PostType)
	if postType == "" {
		postType = "posts"
	}

	setting := db.PublishSetting{
		ProjectID:          input.ProjectID,
		HypothesisID:       input.HypothesisID,
		AutoPublishEnabled: input.AutoPublishEnabled,
		BaseURL:            strings.TrimRight(strings.TrimSpace(input.BaseURL), "/"),
		Username:           strings.TrimSpace(input.Username),
		AppPassword:        strings.TrimSpace(input.AppPassword),
		PostType:           postType,
		DefaultCategoryIDs: strings.TrimSpace(input.DefaultCategoryIDs),
		DefaultTagIDs:      strings.TrimSpace(input.DefaultTagIDs),
		WeeklyCadence:      input.WeeklyCadence,
		PublishDays:        strings.TrimSpace(input.PublishDays),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "hypothesis_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"auto_publish_enabled", "base_url", "username", "app_password",
			"post_type", "default_category_ids", "default_tag_ids",
			"weekly_cadence", "publish_days", "updated_at",
		}),
	}).Create(&setting).Error; err != nil {
		return nil, err
	}

	return s.Get(input.ProjectID, input.HypothesisID)
}
