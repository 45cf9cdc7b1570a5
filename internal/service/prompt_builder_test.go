package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/draftpress/internal/db"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Project: db.Project{
			Name:     "Orbit Notes",
			Pitch:    "a calm note workspace for remote teams",
			URL:      "https://orbitnotes.example.com",
			Language: "en",
		},
		Hypothesis: db.Hypothesis{
			Statement: "Remote leads will adopt async notes over meetings",
			Audience:  "remote team leads",
		},
		ICP: db.CustomerProfile{
			Persona:  "Head of Operations at a 30-person startup",
			Pains:    "meeting overload; lost decisions",
			Goals:    "fewer meetings; searchable decisions",
			Triggers: "new funding round; team doubling",
		},
		LeanCanvas: db.LeanCanvas{
			Problem:     "decisions live in meeting calls nobody rewatches",
			Solution:    "async structured notes with decision log",
			UniqueValue: "decisions you can search a year later",
		},
		Language: "en",
	}
}

func TestBuildGenerationRequestRestatesFactsVerbatim(t *testing.T) {
	snapshot := sampleSnapshot()
	idea := db.BacklogIdea{Title: "Meeting overload at scale", Description: "why it happens", Category: db.IdeaCategoryPain}

	req := BuildGenerationRequest(snapshot, idea, VariantPainPoint, GenerationOptions{})

	for _, fact := range []string{
		snapshot.Project.Name,
		snapshot.Project.Pitch,
		snapshot.Hypothesis.Statement,
		snapshot.ICP.Persona,
		snapshot.LeanCanvas.UniqueValue,
		idea.Title,
		idea.Description,
	} {
		if !strings.Contains(req.UserPrompt, fact) {
			t.Fatalf("prompt does not restate fact %q", fact)
		}
	}
}

func TestBuildGenerationRequestMissingDataBecomesPlaceholder(t *testing.T) {
	idea := db.BacklogIdea{Title: "Some topic", Category: db.IdeaCategoryInfo}

	req := BuildGenerationRequest(Snapshot{}, idea, VariantGeneral, GenerationOptions{})

	if !strings.Contains(req.UserPrompt, "[information needed: product name]") {
		t.Fatal("expected labeled placeholder for missing product name")
	}
	if !strings.Contains(req.UserPrompt, "[information needed: growth hypothesis]") {
		t.Fatal("expected labeled placeholder for missing hypothesis")
	}
	if strings.Contains(req.UserPrompt, "topic title]") {
		t.Fatal("present fields must not be replaced by placeholders")
	}
}

func TestBuildGenerationRequestDefaults(t *testing.T) {
	req := BuildGenerationRequest(sampleSnapshot(), db.BacklogIdea{Title: "t"}, VariantGeneral, GenerationOptions{})

	if !strings.Contains(req.UserPrompt, "Funnel stage: awareness") {
		t.Fatal("expected default funnel stage")
	}
	if !strings.Contains(req.UserPrompt, "Content goal: organic-traffic") {
		t.Fatal("expected default content goal")
	}
	if !strings.Contains(req.UserPrompt, "Target language: en") {
		t.Fatal("expected language from snapshot")
	}
	if req.MaxTokens != defaultDraftMaxTokens {
		t.Fatalf("unexpected max tokens %d", req.MaxTokens)
	}

	custom := BuildGenerationRequest(sampleSnapshot(), db.BacklogIdea{Title: "t"}, VariantGeneral, GenerationOptions{
		Language:            "de",
		FunnelStage:         "decision",
		SpecialRequirements: "mention GDPR compliance",
	})
	if !strings.Contains(custom.UserPrompt, "Target language: de") {
		t.Fatal("expected explicit language to win")
	}
	if !strings.Contains(custom.UserPrompt, "mention GDPR compliance") {
		t.Fatal("expected special requirements section")
	}
	if !strings.Contains(custom.SystemRole, "de") {
		t.Fatal("expected system role to carry the target language")
	}
}

func TestBuildGenerationRequestTopicShareIsHardInstruction(t *testing.T) {
	cases := []struct {
		variant TemplateVariant
		share   int
	}{
		{VariantTrigger, 85},
		{VariantPainPoint, 85},
		{VariantFeature, 85},
		{VariantSolution, 85},
		{VariantOnboarding, 90},
		{VariantBenefit, 90},
		{VariantFAQ, 95},
		{VariantGeneral, 95},
	}

	for _, tc := range cases {
		req := BuildGenerationRequest(sampleSnapshot(), db.BacklogIdea{Title: "t"}, tc.variant, GenerationOptions{})
		if req.TopicSharePercent != tc.share {
			t.Fatalf("%s: got share %d want %d", tc.variant, req.TopicSharePercent, tc.share)
		}
		want := fmt.Sprintf("HARD CONSTRAINT: at least %d%%", tc.share)
		if !strings.Contains(req.UserPrompt, want) {
			t.Fatalf("%s: prompt missing hard ratio instruction %q", tc.variant, want)
		}
		if req.MaxPromotionalMentions < 1 || req.MaxPromotionalMentions > 3 {
			t.Fatalf("%s: mention budget %d outside 1-3", tc.variant, req.MaxPromotionalMentions)
		}
	}
}

func TestProductReferencesDistinctAndBounded(t *testing.T) {
	refs := ProductReferences("Orbit Notes", "a calm note workspace for remote teams")

	if len(refs) == 0 {
		t.Fatal("expected at least one reference")
	}
	if len(refs) > 10 {
		t.Fatalf("expected at most 10 references, got %d", len(refs))
	}

	seen := make(map[string]bool)
	for _, ref := range refs {
		key := strings.ToLower(ref)
		if seen[key] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[key] = true
	}

	if refs[0] != "Orbit Notes" {
		t.Fatalf("full product name must come first, got %q", refs[0])
	}
}

func TestProductReferencesIsPure(t *testing.T) {
	first := ProductReferences("Orbit Notes", "a calm note workspace")
	second := ProductReferences("Orbit Notes", "a calm note workspace")

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order mismatch at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestBuildGenerationRequestEmbedsAntiRepetitionList(t *testing.T) {
	req := BuildGenerationRequest(sampleSnapshot(), db.BacklogIdea{Title: "t"}, VariantFeature, GenerationOptions{})

	if len(req.ProductReferences) == 0 {
		t.Fatal("expected derived product references")
	}
	if !strings.Contains(req.UserPrompt, "never reuse one within the draft") {
		t.Fatal("prompt missing anti-repetition constraint")
	}
	for _, ref := range req.ProductReferences {
		if !strings.Contains(req.UserPrompt, ref) {
			t.Fatalf("prompt missing reference %q", ref)
		}
	}
	if !strings.Contains(req.UserPrompt, req.OutputSchema) {
		t.Fatal("prompt must embed the output schema")
	}
}
