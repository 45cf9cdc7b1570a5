package service

import (
	"errors"
	"testing"
	"time"

	"github.com/draftpress/internal/db"
)

func TestBacklogScheduleSetsDateAndStatusTogether(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBacklogService(db.DB)
	idea, err := svc.Create(BacklogIdeaInput{
		ProjectID: 1, HypothesisID: 1,
		Title: "Fix onboarding drop-off", Category: db.IdeaCategoryPain, UserID: 1,
	})
	if err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}
	if idea.Status != db.BacklogStatusBacklog {
		t.Fatalf("new idea must start in backlog, got %s", idea.Status)
	}
	if idea.ScheduledDate != nil {
		t.Fatal("new idea must have no scheduled date")
	}

	when := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	scheduled, err := svc.Schedule(idea.ID, when, 2)
	if err != nil {
		t.Fatalf("failed to schedule idea: %v", err)
	}
	if scheduled.Status != db.BacklogStatusScheduled {
		t.Fatalf("expected scheduled status, got %s", scheduled.Status)
	}
	if scheduled.ScheduledDate == nil || !scheduled.ScheduledDate.Equal(when) {
		t.Fatalf("unexpected scheduled date %v", scheduled.ScheduledDate)
	}
	if scheduled.UpdatedBy != 2 {
		t.Fatalf("expected updated_by 2, got %d", scheduled.UpdatedBy)
	}
}

func TestBacklogScheduleRequiresDate(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBacklogService(db.DB)
	idea, err := svc.Create(BacklogIdeaInput{ProjectID: 1, HypothesisID: 1, Title: "x", UserID: 1})
	if err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}

	if _, err := svc.Schedule(idea.ID, time.Time{}, 1); !errors.Is(err, ErrScheduleDateNeeded) {
		t.Fatalf("expected ErrScheduleDateNeeded, got %v", err)
	}
}

func TestBacklogArchiveClearsSchedule(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBacklogService(db.DB)
	idea, err := svc.Create(BacklogIdeaInput{ProjectID: 1, HypothesisID: 1, Title: "Old idea", UserID: 1})
	if err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}
	if _, err := svc.Schedule(idea.ID, time.Now().Add(24*time.Hour), 1); err != nil {
		t.Fatalf("failed to schedule idea: %v", err)
	}

	archived, err := svc.Archive(idea.ID, 1)
	if err != nil {
		t.Fatalf("failed to archive idea: %v", err)
	}
	if archived.Status != db.BacklogStatusArchived {
		t.Fatalf("expected archived status, got %s", archived.Status)
	}
	if archived.ScheduledDate != nil {
		t.Fatalf("archive must clear the scheduled date, got %v", archived.ScheduledDate)
	}
}

func TestBacklogFindDueScheduled(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBacklogService(db.DB)
	now := time.Now()

	due, err := svc.Create(BacklogIdeaInput{ProjectID: 1, HypothesisID: 1, Title: "due", UserID: 1})
	if err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}
	if _, err := svc.Schedule(due.ID, now.Add(-time.Hour), 1); err != nil {
		t.Fatalf("failed to schedule idea: %v", err)
	}

	future, err := svc.Create(BacklogIdeaInput{ProjectID: 1, HypothesisID: 1, Title: "future", UserID: 1})
	if err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}
	if _, err := svc.Schedule(future.ID, now.Add(time.Hour), 1); err != nil {
		t.Fatalf("failed to schedule idea: %v", err)
	}

	// 未排期的 backlog 选题不入选
	if _, err := svc.Create(BacklogIdeaInput{ProjectID: 1, HypothesisID: 1, Title: "unscheduled", UserID: 1}); err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}

	ideas, err := svc.FindDueScheduled(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ideas) != 1 || ideas[0].ID != due.ID {
		t.Fatalf("expected only the due idea, got %d item(s)", len(ideas))
	}
}

func TestBacklogMarkInProgress(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBacklogService(db.DB)
	idea, err := svc.Create(BacklogIdeaInput{ProjectID: 1, HypothesisID: 1, Title: "x", UserID: 1})
	if err != nil {
		t.Fatalf("failed to create idea: %v", err)
	}
	if _, err := svc.Schedule(idea.ID, time.Now().Add(-time.Hour), 1); err != nil {
		t.Fatalf("failed to schedule idea: %v", err)
	}

	if err := svc.MarkInProgress(idea.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reloaded, err := svc.Get(idea.ID)
	if err != nil {
		t.Fatalf("failed to reload idea: %v", err)
	}
	if reloaded.Status != db.BacklogStatusInProgress {
		t.Fatalf("expected in_progress, got %s", reloaded.Status)
	}
	if reloaded.ScheduledDate != nil {
		t.Fatalf("scheduled date must be cleared when leaving scheduled, got %v", reloaded.ScheduledDate)
	}

	if err := svc.MarkInProgress(9999); !errors.Is(err, ErrIdeaNotFound) {
		t.Fatalf("expected ErrIdeaNotFound, got %v", err)
	}
}
