package service

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()

	// markupPattern 识别文本里已有的 Markdown/HTML 结构，命中的文本原样透传。
	markupPattern = regexp.MustCompile("(^|\n)\\s*(#{1,6} |[-*] |\\d+\\. |> )|\\[[^\\]]*\\]\\([^)]*\\)|```|</?[a-zA-Z][^>]*>|\\*\\*[^*]+\\*\\*")

	markdownEscaper = strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
		"<", "&lt;",
		">", "&gt;",
	)
)

// escapePlainText 转义将以纯文本身份插入 Markdown 的内容，避免破坏渲染结构。
// 已含可识别标记的文本视为作者有意为之，不做转义。
func escapePlainText(text string) string {
	if markupPattern.MatchString(text) {
		return text
	}
	return markdownEscaper.Replace(text)
}

// RenderDraftMarkdown 将结构化草稿确定性地压平为 Markdown：
// 草稿标题为一级标题，每个大纲小节与 CTA 标题为二级标题，
// CTA 带链接时渲染为加粗的动作链接。
func RenderDraftMarkdown(draft GeneratedDraft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapePlainText(strings.TrimSpace(draft.Title)))

	if summary := strings.TrimSpace(draft.Summary); summary != "" {
		fmt.Fprintf(&b, "%s\n\n", escapePlainText(summary))
	}

	for _, section := range draft.Outline {
		heading := strings.TrimSpace(section.Heading)
		if heading == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", escapePlainText(heading))
		if body := strings.TrimSpace(section.Body); body != "" {
			fmt.Fprintf(&b, "%s\n\n", escapePlainText(body))
		}
	}

	if headline := strings.TrimSpace(draft.CTA.Headline); headline != "" {
		fmt.Fprintf(&b, "## %s\n\n", escapePlainText(headline))
		if body := strings.TrimSpace(draft.CTA.Body); body != "" {
			fmt.Fprintf(&b, "%s\n\n", escapePlainText(body))
		}

		label := strings.TrimSpace(draft.CTA.ButtonLabel)
		url := strings.TrimSpace(draft.CTA.URLHint)
		if url != "" {
			if label == "" {
				label = "Learn more"
			}
			fmt.Fprintf(&b, "**[%s](%s)**\n\n", escapePlainText(label), url)
		} else if label != "" {
			fmt.Fprintf(&b, "**%s**\n\n", escapePlainText(label))
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// OutlineSummary 把大纲标题串为一行，存入 ContentItem.Outline 供列表页展示。
func OutlineSummary(draft GeneratedDraft) string {
	headings := make([]string, 0, len(draft.Outline))
	for _, section := range draft.Outline {
		if heading := strings.TrimSpace(section.Heading); heading != "" {
			headings = append(headings, heading)
		}
	}
	return strings.Join(headings, " / ")
}

// RenderHTML 将 Markdown 正文渲染为净化后的 HTML，供发布载荷使用。
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}
