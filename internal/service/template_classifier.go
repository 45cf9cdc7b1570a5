package service

import (
	"strings"

	"github.com/draftpress/internal/db"
)

// TemplateVariant 是内容模板分类的封闭枚举。
type TemplateVariant string

const (
	VariantTrigger    TemplateVariant = "trigger"
	VariantPainPoint  TemplateVariant = "pain_point"
	VariantFeature    TemplateVariant = "feature"
	VariantOnboarding TemplateVariant = "onboarding"
	VariantSolution   TemplateVariant = "solution"
	VariantBenefit    TemplateVariant = "benefit"
	VariantFAQ        TemplateVariant = "faq"
	VariantGeneral    TemplateVariant = "general"
)

// variantPriority 固定候选变体的裁决顺序，命中多个信号时取排位靠前者。
var variantPriority = []TemplateVariant{
	VariantTrigger,
	VariantPainPoint,
	VariantFeature,
	VariantOnboarding,
	VariantSolution,
	VariantBenefit,
	VariantFAQ,
	VariantGeneral,
}

// categoryVariants 描述 category 直接映射的变体。
// goal/info 不直接定类，交由关键词启发式兜底。
var categoryVariants = map[db.IdeaCategory]TemplateVariant{
	db.IdeaCategoryTrigger: VariantTrigger,
	db.IdeaCategoryPain:    VariantPainPoint,
	db.IdeaCategoryFeature: VariantFeature,
	db.IdeaCategoryBenefit: VariantBenefit,
	db.IdeaCategoryFAQ:     VariantFAQ,
}

// variantKeywords 是标题/描述中的弱信号词表，全部小写匹配。
var variantKeywords = map[TemplateVariant][]string{
	VariantTrigger:    {"trigger", "when to", "signs you", "time to", "触发", "时机"},
	VariantPainPoint:  {"pain", "problem", "struggle", "frustrat", "challenge", "痛点", "难题"},
	VariantFeature:    {"feature", "capability", "how it works", "功能", "特性"},
	VariantOnboarding: {"getting started", "get started", "onboarding", "setup", "set up", "first steps", "quick start", "上手", "入门"},
	VariantSolution:   {"solution", "how to solve", "fix", "approach", "解决", "方案"},
	VariantBenefit:    {"benefit", "advantage", "why use", "value of", "收益", "优势"},
	VariantFAQ:        {"faq", "question", "what is", "frequently asked", "常见问题"},
}

// ClassifyIdea 把选题归入一个内容模板变体。
// 纯函数：category 是强信号，能直接定类就直接返回；
// goal/info/未知分类视为模糊，回退到标题/描述的关键词启发式，
// 多个关键词命中时按 variantPriority 固定顺序裁决；全部落空返回 general。
func ClassifyIdea(idea db.BacklogIdea) TemplateVariant {
	if variant, ok := categoryVariants[idea.Category]; ok {
		return variant
	}

	matched := make(map[TemplateVariant]bool)
	text := strings.ToLower(idea.Title + " " + idea.Description)
	for variant, keywords := range variantKeywords {
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				matched[variant] = true
				break
			}
		}
	}

	// goal 类选题文本若未命中任何变体，按收益导向处理
	if len(matched) == 0 && idea.Category == db.IdeaCategoryGoal {
		matched[VariantBenefit] = true
	}

	for _, variant := range variantPriority {
		if matched[variant] {
			return variant
		}
	}
	return VariantGeneral
}
