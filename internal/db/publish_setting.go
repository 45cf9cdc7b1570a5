package db

import "gorm.io/gorm"

// PublishSetting 存储某个项目/假设组合的 CMS 发布配置
// BaseURL/Username/AppPassword 三者齐全才允许触达发布网关
// DefaultCategoryIDs/DefaultTagIDs 以逗号分隔存储远端分类法 ID
type PublishSetting struct {
	gorm.Model
	ProjectID          uint `gorm:"index:idx_publish_setting_scope,unique"`
	HypothesisID       uint `gorm:"index:idx_publish_setting_scope,unique"`
	AutoPublishEnabled bool
	BaseURL            string
	Username           string
	AppPassword        string
	PostType           string `gorm:"size:50"`
	DefaultCategoryIDs string
	DefaultTagIDs      string
	WeeklyCadence      int
	PublishDays        string `gorm:"size:100"`
}

// ConnectionComplete 判断 CMS 连接字段是否齐全。
func (s PublishSetting) ConnectionComplete() bool {
	return s.BaseURL != "" && s.Username != "" && s.AppPassword != ""
}
