package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultOpenAIDraftModel   = "gpt-4o-mini"
	defaultDeepSeekDraftModel = "deepseek-chat"
)

// ErrGeneration 表示生成后端返回了空响应或无法解析的结构化草稿。
// 组件内部不做重试，由调用方决定重试或回退到占位草稿。
var ErrGeneration = errors.New("draft generation returned unusable content")

// OutlineSection 是结构化草稿的一个正文小节。
type OutlineSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Notes   string `json:"notes"`
}

// DraftCTA 是草稿的行动号召块。
type DraftCTA struct {
	Headline    string `json:"headline"`
	Body        string `json:"body"`
	ButtonLabel string `json:"buttonLabel"`
	URLHint     string `json:"urlHint"`
}

// DraftSEO 汇总草稿的 SEO 元数据。
type DraftSEO struct {
	Keywords        []string `json:"keywords"`
	InternalLinks   []string `json:"internalLinks"`
	ExternalLinks   []string `json:"externalLinks"`
	MetaDescription string   `json:"metaDescription"`
	SlugHint        string   `json:"slugHint"`
}

// GeneratedDraft 是生成后端返回的结构化草稿，只在内存中存在，
// 入库前一律压平为 Markdown。
type GeneratedDraft struct {
	Title      string           `json:"title"`
	Summary    string           `json:"summary"`
	Outline    []OutlineSection `json:"outline"`
	CTA        DraftCTA         `json:"cta"`
	SEO        DraftSEO         `json:"seo"`
	Compliance []string         `json:"compliance"`
}

// DraftGenerator 定义结构化草稿生成能力，便于在业务层注入不同实现。
type DraftGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (GeneratedDraft, error)
}

// AIDraftService 基于大模型接口生成结构化内容草稿。
type AIDraftService struct {
	client *aiChatClient
}

// NewAIDraftService 构造默认的 AIDraftService。
func NewAIDraftService(settings *SystemSettingService) *AIDraftService {
	return &AIDraftService{
		client: newAIChatClient(settings, defaultOpenAIDraftModel, defaultDeepSeekDraftModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIDraftService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIDraftService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIDraftService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// SetOpenAIModel 指定 OpenAI 草稿生成所使用的模型名称。
func (s *AIDraftService) SetOpenAIModel(model string) {
	s.client.SetOpenAIModel(model)
}

// SetDeepSeekModel 指定 DeepSeek 草稿生成所使用的模型名称。
func (s *AIDraftService) SetDeepSeekModel(model string) {
	s.client.SetDeepSeekModel(model)
}

// Generate 调用生成后端并解析结构化草稿。
// 响应不是合法 JSON 或缺少必需字段时返回包装后的 ErrGeneration，绝不静默编造数据。
func (s *AIDraftService) Generate(ctx context.Context, req GenerationRequest) (GeneratedDraft, error) {
	logAIExchange("DRAFT", "prompt", req.UserPrompt)

	settings, err := s.client.settings.GetSettings()
	if err != nil {
		return GeneratedDraft{}, fmt.Errorf("读取系统设置失败: %w", err)
	}

	systemPrompt := strings.TrimSpace(settings.DraftSystemPrompt)
	if systemPrompt == "" {
		systemPrompt = req.SystemRole
	}

	result, err := s.client.callWithSettings(ctx, settings, aiChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   req.UserPrompt,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		JSONMode:     true,
	})
	if err != nil {
		return GeneratedDraft{}, err
	}

	logAIExchange("DRAFT", "response", result.Content)

	draft, err := parseDraftJSON(result.Content)
	if err != nil {
		return GeneratedDraft{}, err
	}
	return draft, nil
}

// parseDraftJSON 剥离可能的代码围栏后严格解析草稿 JSON 并校验必需字段。
func parseDraftJSON(raw string) (GeneratedDraft, error) {
	payload := stripJSONFence(raw)
	if payload == "" {
		return GeneratedDraft{}, fmt.Errorf("%w: empty response", ErrGeneration)
	}

	var draft GeneratedDraft
	decoder := json.NewDecoder(strings.NewReader(payload))
	if err := decoder.Decode(&draft); err != nil {
		return GeneratedDraft{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if strings.TrimSpace(draft.Title) == "" {
		return GeneratedDraft{}, fmt.Errorf("%w: missing title", ErrGeneration)
	}
	if len(draft.Outline) == 0 {
		return GeneratedDraft{}, fmt.Errorf("%w: missing outline", ErrGeneration)
	}
	for i, section := range draft.Outline {
		if strings.TrimSpace(section.Heading) == "" {
			return GeneratedDraft{}, fmt.Errorf("%w: outline section %d has no heading", ErrGeneration, i+1)
		}
	}

	return draft, nil
}

// stripJSONFence 容忍模型把 JSON 包在 ``` 围栏里的常见行为。
func stripJSONFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// PlaceholderDraft 构造降级草稿：后端不可用或输出不可解析时，
// 调用方仍能拿到一份结构完整、可渲染的低质量稿件。
func PlaceholderDraft(title, description string) GeneratedDraft {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled draft"
	}

	body := strings.TrimSpace(description)
	if body == "" {
		body = "Draft body pending. Automatic generation was unavailable for this idea."
	}

	return GeneratedDraft{
		Title:   title,
		Summary: "This draft was produced in degraded mode and needs manual editing before review.",
		Outline: []OutlineSection{
			{Heading: "Overview", Body: body, Notes: "placeholder section"},
			{Heading: "Next steps", Body: "Expand this outline manually or re-run generation.", Notes: "placeholder section"},
		},
		CTA: DraftCTA{Headline: "Learn more", Body: "", ButtonLabel: "", URLHint: ""},
	}
}
