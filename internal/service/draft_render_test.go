package service

import (
	"strings"
	"testing"
)

func TestRenderDraftMarkdownHeadingMapping(t *testing.T) {
	draft := GeneratedDraft{
		Title:   "Why meetings pile up",
		Summary: "A short summary.",
		Outline: []OutlineSection{
			{Heading: "The overload pattern", Body: "Some body text."},
			{Heading: "Root causes", Body: "More body text."},
		},
		CTA: DraftCTA{Headline: "Try async decisions", Body: "Closing pitch.", ButtonLabel: "Start free", URLHint: "https://example.com/start"},
	}

	markdown := RenderDraftMarkdown(draft)

	if !strings.HasPrefix(markdown, "# Why meetings pile up\n") {
		t.Fatalf("draft title must become the top-level heading: %q", markdown)
	}
	for _, heading := range []string{"## The overload pattern", "## Root causes", "## Try async decisions"} {
		if !strings.Contains(markdown, heading) {
			t.Fatalf("missing second-level heading %q in %q", heading, markdown)
		}
	}
	if !strings.Contains(markdown, "**[Start free](https://example.com/start)**") {
		t.Fatalf("expected styled action link, got %q", markdown)
	}
}

func TestRenderDraftMarkdownCTAWithoutURL(t *testing.T) {
	draft := GeneratedDraft{
		Title:   "Title",
		Outline: []OutlineSection{{Heading: "Section", Body: "Body."}},
		CTA:     DraftCTA{Headline: "Act now", ButtonLabel: "Sign up"},
	}

	markdown := RenderDraftMarkdown(draft)
	if strings.Contains(markdown, "](") {
		t.Fatalf("no link expected without a URL: %q", markdown)
	}
	if !strings.Contains(markdown, "**Sign up**") {
		t.Fatalf("button label should still render: %q", markdown)
	}
}

func TestRenderDraftMarkdownEscapesPlainText(t *testing.T) {
	draft := GeneratedDraft{
		Title:   "Pricing #1 [updated]",
		Outline: []OutlineSection{{Heading: "Plain section", Body: "5 * 3 < 20 and _underscores_ stay literal"}},
	}

	markdown := RenderDraftMarkdown(draft)
	if !strings.Contains(markdown, `\#1 \[updated\]`) {
		t.Fatalf("title specials must be escaped: %q", markdown)
	}
	if !strings.Contains(markdown, `5 \* 3 &lt; 20`) {
		t.Fatalf("body specials must be escaped: %q", markdown)
	}
}

func TestRenderDraftMarkdownPassesThroughExistingMarkup(t *testing.T) {
	body := "Use the checklist:\n- first step\n- second step\n\nSee [the docs](https://example.com)."
	draft := GeneratedDraft{
		Title:   "Title",
		Outline: []OutlineSection{{Heading: "With markup", Body: body}},
	}

	markdown := RenderDraftMarkdown(draft)
	if !strings.Contains(markdown, "- first step") {
		t.Fatalf("markdown lists must pass through unescaped: %q", markdown)
	}
	if !strings.Contains(markdown, "[the docs](https://example.com)") {
		t.Fatalf("existing links must pass through unescaped: %q", markdown)
	}
}

func TestRenderHTMLSanitizes(t *testing.T) {
	html, err := RenderHTML("# Heading\n\nParagraph with <script>alert(1)</script> inline.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("script tags must be stripped: %q", html)
	}
	if !strings.Contains(html, "<h1") {
		t.Fatalf("expected rendered heading: %q", html)
	}
}

func TestOutlineSummary(t *testing.T) {
	draft := GeneratedDraft{Outline: []OutlineSection{
		{Heading: "One"}, {Heading: ""}, {Heading: "Two"},
	}}
	if got := OutlineSummary(draft); got != "One / Two" {
		t.Fatalf("unexpected outline summary %q", got)
	}
}
