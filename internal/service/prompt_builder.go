package service

import (
	"fmt"
	"strings"

	"github.com/draftpress/internal/db"
)

const (
	defaultFunnelStage    = "awareness"
	defaultContentGoal    = "organic-traffic"
	defaultTargetLanguage = "en"

	defaultDraftMaxTokens    = 4096
	defaultDraftTemperature  = 0.4
	maxProductReferenceCount = 10
)

// GenerationOptions 是构建生成请求时的可选参数，零值使用文档化默认。
type GenerationOptions struct {
	// Language 目标语言，默认取快照语言，快照为空时为 en。
	Language string
	// FunnelStage 漏斗阶段，默认 awareness。
	FunnelStage string
	// ContentGoal 内容目标，默认 organic-traffic。
	ContentGoal string
	// SpecialRequirements 自由文本附加要求，默认为空。
	SpecialRequirements string
}

// GenerationRequest 是投递给生成后端的结构化请求。
type GenerationRequest struct {
	SystemRole   string
	UserPrompt   string
	OutputSchema string

	Variant TemplateVariant
	// TopicSharePercent 与 MaxPromotionalMentions 同时作为硬性指令写入 UserPrompt，
	// 这里保留结构化副本供校验与测试使用。
	TopicSharePercent      int
	MaxPromotionalMentions int
	ProductReferences      []string

	MaxTokens   int
	Temperature float64
}

// variantProfile 固定每个模板变体的写作侧重与内容/推广配比。
type variantProfile struct {
	// TopicShare 正文聚焦主题本身的最低占比（百分数），剩余才允许涉及产品。
	TopicShare int
	// MaxMentions 全文允许的产品提及次数上限。
	MaxMentions int
	// Angle 变体专属的写作角度说明。
	Angle string
	// SectionCount 建议的大纲小节数量。
	SectionCount int
}

var variantProfiles = map[TemplateVariant]variantProfile{
	VariantTrigger: {
		TopicShare: 85, MaxMentions: 3, SectionCount: 5,
		Angle: "Describe the real-life moments and signals that make the reader start looking for a solution. Open with the situation, not the product.",
	},
	VariantPainPoint: {
		TopicShare: 85, MaxMentions: 3, SectionCount: 5,
		Angle: "Explore the reader's pain in depth: symptoms, root causes, cost of inaction. Empathy first, remedies second.",
	},
	VariantFeature: {
		TopicShare: 85, MaxMentions: 3, SectionCount: 5,
		Angle: "Explain the underlying job the feature does and the workflow around it. Teach the task; the product appears as one way to do it.",
	},
	VariantOnboarding: {
		TopicShare: 90, MaxMentions: 2, SectionCount: 6,
		Angle: "A practical getting-started walkthrough: prerequisites, first steps, common early mistakes, what good looks like after a week.",
	},
	VariantSolution: {
		TopicShare: 85, MaxMentions: 3, SectionCount: 5,
		Angle: "Compare approaches to solving the problem neutrally, including manual options, before positioning any tool.",
	},
	VariantBenefit: {
		TopicShare: 90, MaxMentions: 2, SectionCount: 5,
		Angle: "Quantify outcomes and the path to them. Lead with the result the reader wants, evidence over adjectives.",
	},
	VariantFAQ: {
		TopicShare: 95, MaxMentions: 1, SectionCount: 7,
		Angle: "Answer the most common questions plainly and completely. Each outline section is one question and its answer.",
	},
	VariantGeneral: {
		TopicShare: 95, MaxMentions: 1, SectionCount: 5,
		Angle: "An informational article that stands on its own merit. The product may be mentioned once, in passing, if relevant.",
	},
}

// draftOutputSchema 是固定的结构化草稿输出格式，嵌入每个生成请求。
const draftOutputSchema = `{
  "title": "string",
  "summary": "string, 2-3 sentences",
  "outline": [
    {"heading": "string", "body": "string, markdown allowed", "notes": "string, editorial notes, may be empty"}
  ],
  "cta": {"headline": "string", "body": "string", "buttonLabel": "string", "urlHint": "string, may be empty"},
  "seo": {
    "keywords": ["string"],
    "internalLinks": ["string"],
    "externalLinks": ["string"],
    "metaDescription": "string, <=160 chars",
    "slugHint": "string, lowercase-hyphenated"
  },
  "compliance": ["string, claims that need verification, may be empty"]
}`

// missingInfo 生成带标签的占位符：上下文缺失时绝不编造事实，
// 而是让生成端在稿件中显式标记待补信息。
func missingInfo(label string) string {
	return fmt.Sprintf("[information needed: %s]", label)
}

// factOr 返回快照中的事实原文，空值以占位符代替。
func factOr(value, label string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return missingInfo(label)
	}
	return trimmed
}

// ProductReferences 从产品名与一句话定位推导至多 10 个互不重复的产品指称。
// 纯函数：相同输入永远得到相同的有序列表，不做任何跨请求缓存。
func ProductReferences(name, pitch string) []string {
	name = strings.TrimSpace(name)
	pitch = strings.TrimSpace(pitch)

	var candidates []string
	if name != "" {
		candidates = append(candidates, name)

		words := strings.Fields(name)
		if len(words) > 1 {
			candidates = append(candidates, words[0])
		}

		lower := strings.ToLower(name)
		candidates = append(candidates,
			"the "+lower+" platform",
			lower,
		)
	}

	if pitch != "" {
		descriptor := pitch
		if idx := strings.IndexAny(descriptor, ".;,"); idx > 0 {
			descriptor = descriptor[:idx]
		}
		descriptor = strings.ToLower(strings.TrimSpace(descriptor))
		for _, article := range []string{"a ", "an ", "the "} {
			if strings.HasPrefix(descriptor, article) {
				descriptor = strings.TrimPrefix(descriptor, article)
				break
			}
		}
		if descriptor != "" {
			candidates = append(candidates, "this "+descriptor)
		}
	}

	candidates = append(candidates, "the platform", "this tool", "the product")

	seen := make(map[string]bool)
	references := make([]string, 0, maxProductReferenceCount)
	for _, candidate := range candidates {
		key := strings.ToLower(strings.TrimSpace(candidate))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		references = append(references, strings.TrimSpace(candidate))
		if len(references) == maxProductReferenceCount {
			break
		}
	}
	return references
}

// BuildGenerationRequest 根据快照、选题与模板变体构建结构化生成请求。
// 缺失的上下文字段以占位符带入，构建过程本身不会失败。
func BuildGenerationRequest(snapshot Snapshot, idea db.BacklogIdea, variant TemplateVariant, opts GenerationOptions) GenerationRequest {
	profile, ok := variantProfiles[variant]
	if !ok {
		profile = variantProfiles[VariantGeneral]
	}

	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = snapshot.Language
	}
	if language == "" {
		language = defaultTargetLanguage
	}

	funnelStage := strings.TrimSpace(opts.FunnelStage)
	if funnelStage == "" {
		funnelStage = defaultFunnelStage
	}

	contentGoal := strings.TrimSpace(opts.ContentGoal)
	if contentGoal == "" {
		contentGoal = defaultContentGoal
	}

	references := ProductReferences(snapshot.Project.Name, snapshot.Project.Pitch)

	var b strings.Builder

	b.WriteString("## Context (verbatim facts, do not invent anything beyond them)\n")
	fmt.Fprintf(&b, "Product name: %s\n", factOr(snapshot.Project.Name, "product name"))
	fmt.Fprintf(&b, "Product pitch: %s\n", factOr(snapshot.Project.Pitch, "product pitch"))
	fmt.Fprintf(&b, "Product URL: %s\n", factOr(snapshot.Project.URL, "product url"))
	fmt.Fprintf(&b, "Growth hypothesis: %s\n", factOr(snapshot.Hypothesis.Statement, "growth hypothesis"))
	fmt.Fprintf(&b, "Target audience: %s\n", factOr(snapshot.Hypothesis.Audience, "target audience"))
	fmt.Fprintf(&b, "ICP persona: %s\n", factOr(snapshot.ICP.Persona, "customer persona"))
	fmt.Fprintf(&b, "ICP pains: %s\n", factOr(snapshot.ICP.Pains, "customer pains"))
	fmt.Fprintf(&b, "ICP goals: %s\n", factOr(snapshot.ICP.Goals, "customer goals"))
	fmt.Fprintf(&b, "ICP triggers: %s\n", factOr(snapshot.ICP.Triggers, "customer triggers"))
	fmt.Fprintf(&b, "Canvas problem: %s\n", factOr(snapshot.LeanCanvas.Problem, "problem statement"))
	fmt.Fprintf(&b, "Canvas solution: %s\n", factOr(snapshot.LeanCanvas.Solution, "solution description"))
	fmt.Fprintf(&b, "Unique value proposition: %s\n", factOr(snapshot.LeanCanvas.UniqueValue, "unique value proposition"))
	if len(snapshot.Clusters) > 0 {
		fmt.Fprintf(&b, "Keyword clusters: %s\n", strings.Join(snapshot.Clusters, "; "))
	}

	b.WriteString("\n## Topic\n")
	fmt.Fprintf(&b, "Title idea: %s\n", factOr(idea.Title, "topic title"))
	fmt.Fprintf(&b, "Description: %s\n", factOr(idea.Description, "topic description"))
	fmt.Fprintf(&b, "Category: %s\n", factOr(string(idea.Category), "topic category"))
	fmt.Fprintf(&b, "Template variant: %s\n", variant)
	fmt.Fprintf(&b, "Funnel stage: %s\n", funnelStage)
	fmt.Fprintf(&b, "Content goal: %s\n", contentGoal)
	fmt.Fprintf(&b, "Target language: %s\n", language)

	b.WriteString("\n## Writing instructions\n")
	fmt.Fprintf(&b, "%s\n", profile.Angle)
	fmt.Fprintf(&b, "Produce about %d outline sections.\n", profile.SectionCount)
	fmt.Fprintf(&b, "HARD CONSTRAINT: at least %d%% of the article must be about the topic itself. ", profile.TopicShare)
	fmt.Fprintf(&b, "Promotional content about the product must stay within the remaining %d%%. ", 100-profile.TopicShare)
	b.WriteString("This is not a suggestion; drafts that read like advertising copy are rejected.\n")
	fmt.Fprintf(&b, "HARD CONSTRAINT: mention the product at most %d time(s) across body and CTA.\n", profile.MaxMentions)

	if len(references) > 0 {
		b.WriteString("HARD CONSTRAINT: when you do mention the product, pick a DIFFERENT phrase from this list for each mention and never reuse one within the draft:\n")
		for i, ref := range references {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, ref)
		}
	}

	if opts.SpecialRequirements != "" {
		b.WriteString("\n## Special requirements\n")
		b.WriteString(strings.TrimSpace(opts.SpecialRequirements))
		b.WriteString("\n")
	}

	b.WriteString("\n## Output format\n")
	b.WriteString("Respond with a single JSON object matching exactly this schema, no prose around it:\n")
	b.WriteString(draftOutputSchema)
	b.WriteString("\n")
	b.WriteString("If any context fact above is an [information needed: ...] placeholder, carry the placeholder into the draft instead of inventing the fact.\n")

	systemRole := fmt.Sprintf(
		"You are a senior SEO content writer producing structured article drafts in %s. "+
			"You write for readers first and search engines second, you never fabricate product facts, "+
			"and you always answer with valid JSON only.",
		language,
	)

	return GenerationRequest{
		SystemRole:             systemRole,
		UserPrompt:             b.String(),
		OutputSchema:           draftOutputSchema,
		Variant:                variant,
		TopicSharePercent:      profile.TopicShare,
		MaxPromotionalMentions: profile.MaxMentions,
		ProductReferences:      references,
		MaxTokens:              defaultDraftMaxTokens,
		Temperature:            defaultDraftTemperature,
	}
}
