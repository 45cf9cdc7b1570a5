package db

import "strings"

// BacklogStatus 是选题生命周期的封闭枚举。
type BacklogStatus string

const (
	BacklogStatusBacklog    BacklogStatus = "backlog"
	BacklogStatusScheduled  BacklogStatus = "scheduled"
	BacklogStatusArchived   BacklogStatus = "archived"
	BacklogStatusPending    BacklogStatus = "pending"
	BacklogStatusInProgress BacklogStatus = "in_progress"
	BacklogStatusCompleted  BacklogStatus = "completed"
	BacklogStatusPublished  BacklogStatus = "published"
)

// ContentStatus 是内容稿件生命周期的封闭枚举。
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusReview    ContentStatus = "review"
	ContentStatusReady     ContentStatus = "ready"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// ContentFormat 标识稿件的目标形态。
type ContentFormat string

const (
	ContentFormatBlog       ContentFormat = "blog"
	ContentFormatCommercial ContentFormat = "commercial"
	ContentFormatFAQ        ContentFormat = "faq"
)

// IdeaCategory 是选题意图分类的封闭枚举。
type IdeaCategory string

const (
	IdeaCategoryPain    IdeaCategory = "pain"
	IdeaCategoryGoal    IdeaCategory = "goal"
	IdeaCategoryTrigger IdeaCategory = "trigger"
	IdeaCategoryFeature IdeaCategory = "feature"
	IdeaCategoryBenefit IdeaCategory = "benefit"
	IdeaCategoryFAQ     IdeaCategory = "faq"
	IdeaCategoryInfo    IdeaCategory = "info"
)

// ParseBacklogStatus 将外部字符串翻译为枚举值。
// 翻译是全函数：未知输入返回 ok=false，不做大小写以外的猜测。
// 外部字符串与枚举的互转只允许发生在仓储边界，业务层一律使用枚举。
func ParseBacklogStatus(raw string) (BacklogStatus, bool) {
	switch BacklogStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case BacklogStatusBacklog:
		return BacklogStatusBacklog, true
	case BacklogStatusScheduled:
		return BacklogStatusScheduled, true
	case BacklogStatusArchived:
		return BacklogStatusArchived, true
	case BacklogStatusPending:
		return BacklogStatusPending, true
	case BacklogStatusInProgress:
		return BacklogStatusInProgress, true
	case BacklogStatusCompleted:
		return BacklogStatusCompleted, true
	case BacklogStatusPublished:
		return BacklogStatusPublished, true
	}
	return "", false
}

// ParseContentStatus 将外部字符串翻译为稿件状态枚举，规则同 ParseBacklogStatus。
func ParseContentStatus(raw string) (ContentStatus, bool) {
	switch ContentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentStatusDraft:
		return ContentStatusDraft, true
	case ContentStatusReview:
		return ContentStatusReview, true
	case ContentStatusReady:
		return ContentStatusReady, true
	case ContentStatusPublished:
		return ContentStatusPublished, true
	case ContentStatusArchived:
		return ContentStatusArchived, true
	}
	return "", false
}

// ParseContentFormat 将外部字符串翻译为稿件形态枚举。
func ParseContentFormat(raw string) (ContentFormat, bool) {
	switch ContentFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentFormatBlog:
		return ContentFormatBlog, true
	case ContentFormatCommercial:
		return ContentFormatCommercial, true
	case ContentFormatFAQ:
		return ContentFormatFAQ, true
	}
	return "", false
}

// ParseIdeaCategory 将外部字符串翻译为选题分类枚举。
func ParseIdeaCategory(raw string) (IdeaCategory, bool) {
	switch IdeaCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case IdeaCategoryPain:
		return IdeaCategoryPain, true
	case IdeaCategoryGoal:
		return IdeaCategoryGoal, true
	case IdeaCategoryTrigger:
		return IdeaCategoryTrigger, true
	case IdeaCategoryFeature:
		return IdeaCategoryFeature, true
	case IdeaCategoryBenefit:
		return IdeaCategoryBenefit, true
	case IdeaCategoryFAQ:
		return IdeaCategoryFAQ, true
	case IdeaCategoryInfo:
		return IdeaCategoryInfo, true
	}
	return "", false
}
