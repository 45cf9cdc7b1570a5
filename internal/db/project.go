package db

import "gorm.io/gorm"

// Project 定义了项目模型，承载生成上下文所需的产品事实
type Project struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Pitch    string `gorm:"type:text"`
	URL      string
	Language string `gorm:"size:10"`
}

// Hypothesis 定义了项目下的增长假设
type Hypothesis struct {
	gorm.Model
	ProjectID uint `gorm:"index"`
	Statement string `gorm:"type:text"`
	Audience  string
	Channel   string
}

// CustomerProfile 描述理想客户画像（ICP）
type CustomerProfile struct {
	gorm.Model
	ProjectID    uint `gorm:"index:idx_customer_profile_scope"`
	HypothesisID uint `gorm:"index:idx_customer_profile_scope"`
	Persona      string
	Pains        string `gorm:"type:text"`
	Goals        string `gorm:"type:text"`
	Triggers     string `gorm:"type:text"`
}

// KeywordCluster 是假设下的关键词簇，仅以名称参与生成上下文
type KeywordCluster struct {
	gorm.Model
	ProjectID    uint `gorm:"index:idx_keyword_cluster_scope"`
	HypothesisID uint `gorm:"index:idx_keyword_cluster_scope"`
	Name         string `gorm:"not null"`
}

// LeanCanvas 存储精益画布的关键格子
type LeanCanvas struct {
	gorm.Model
	ProjectID       uint `gorm:"index:idx_lean_canvas_scope"`
	HypothesisID    uint `gorm:"index:idx_lean_canvas_scope"`
	Problem         string `gorm:"type:text"`
	Solution        string `gorm:"type:text"`
	UniqueValue     string `gorm:"type:text"`
	CustomerSegment string `gorm:"type:text"`
	Channels        string `gorm:"type:text"`
}
