package service

import (
	"errors"
	"testing"

	"github.com/draftpress/internal/db"
)

func TestLoadSnapshotRequiresProject(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewSnapshotService(db.DB)
	if _, err := svc.LoadSnapshot(42, 1); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestLoadSnapshotToleratesMissingOptionalParts(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	project := db.Project{Name: "Orbit Notes", Pitch: "a calm note workspace", Language: "en"}
	if err := db.DB.Create(&project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	svc := NewSnapshotService(db.DB)
	snapshot, err := svc.LoadSnapshot(project.ID, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Project.Name != "Orbit Notes" {
		t.Fatalf("unexpected project %+v", snapshot.Project)
	}
	if snapshot.Hypothesis.ID != 0 || snapshot.ICP.ID != 0 || snapshot.LeanCanvas.ID != 0 {
		t.Fatal("optional parts must stay zero when missing")
	}
	if len(snapshot.Clusters) != 0 {
		t.Fatalf("expected no clusters, got %v", snapshot.Clusters)
	}
	if snapshot.Language != "en" {
		t.Fatalf("unexpected language %q", snapshot.Language)
	}
}

func TestLoadSnapshotAssemblesFullContext(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	project := db.Project{Name: "Orbit Notes", Language: "de"}
	if err := db.DB.Create(&project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	hypothesis := db.Hypothesis{ProjectID: project.ID, Statement: "Solo founders will pay for async notes"}
	if err := db.DB.Create(&hypothesis).Error; err != nil {
		t.Fatalf("failed to seed hypothesis: %v", err)
	}
	profile := db.CustomerProfile{ProjectID: project.ID, HypothesisID: hypothesis.ID, Persona: "Solo founder", Pains: "context switching"}
	if err := db.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	canvas := db.LeanCanvas{ProjectID: project.ID, HypothesisID: hypothesis.ID, Problem: "notes scattered across tools"}
	if err := db.DB.Create(&canvas).Error; err != nil {
		t.Fatalf("failed to seed canvas: %v", err)
	}
	for _, name := range []string{"note taking", "async work"} {
		cluster := db.KeywordCluster{ProjectID: project.ID, HypothesisID: hypothesis.ID, Name: name}
		if err := db.DB.Create(&cluster).Error; err != nil {
			t.Fatalf("failed to seed cluster: %v", err)
		}
	}

	svc := NewSnapshotService(db.DB)
	snapshot, err := svc.LoadSnapshot(project.ID, hypothesis.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Hypothesis.Statement != "Solo founders will pay for async notes" {
		t.Fatalf("unexpected hypothesis %+v", snapshot.Hypothesis)
	}
	if snapshot.ICP.Persona != "Solo founder" {
		t.Fatalf("unexpected profile %+v", snapshot.ICP)
	}
	if snapshot.LeanCanvas.Problem != "notes scattered across tools" {
		t.Fatalf("unexpected canvas %+v", snapshot.LeanCanvas)
	}
	if len(snapshot.Clusters) != 2 || snapshot.Clusters[0] != "async work" {
		t.Fatalf("unexpected clusters %v", snapshot.Clusters)
	}
	if snapshot.Language != "de" {
		t.Fatalf("unexpected language %q", snapshot.Language)
	}
}
