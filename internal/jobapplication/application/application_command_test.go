package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
)

func seedApplication(t *testing.T, repo *fakeRepo) string {
	t.Helper()
	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)
	dto, err := svc.SubmitApplication(context.Background(), SubmitApplicationCommand{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Locale:   "en",
	})
	if err != nil {
		t.Fatalf("SubmitApplication failed: %v", err)
	}
	return dto.ApplicationID
}

func TestSubmitApplication(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	svc := NewApplicationCommandService(repo, publisher, nil, nil, nil, "", 0)

	dto, err := svc.SubmitApplication(context.Background(), SubmitApplicationCommand{
		FullName: "  Jane Doe  ",
		Email:    "jane@example.com",
	})
	if err != nil {
		t.Fatalf("SubmitApplication failed: %v", err)
	}

	if dto.Status != domain.StatusSubmitted {
		t.Errorf("status = %s, want SUBMITTED", dto.Status)
	}
	if dto.FullName != "Jane Doe" {
		t.Errorf("full name not trimmed: %q", dto.FullName)
	}
	if dto.Locale != "en" {
		t.Errorf("locale should default to en, got %q", dto.Locale)
	}
	if len(dto.History) != 1 || dto.History[0].Status != domain.StatusSubmitted {
		t.Errorf("expected a single SUBMITTED history entry, got %+v", dto.History)
	}
	if !strings.HasPrefix(dto.ApplicationNo, "APP-") {
		t.Errorf("unexpected application number format: %q", dto.ApplicationNo)
	}
	if len(publisher.submitted) != 1 {
		t.Errorf("expected one submitted event, got %d", len(publisher.submitted))
	}
}

func TestSubmitApplicationValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)

	_, err := svc.SubmitApplication(context.Background(), SubmitApplicationCommand{
		FullName: "  ",
		Email:    "not-an-email",
	})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %+v", vErr.Fields)
	}
	if len(repo.apps) != 0 {
		t.Error("no application should be created on validation failure")
	}
}

func TestTransitionStatus(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	cache := newFakeCache()
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, publisher, nil, cache, nil, "", 0)
	dto, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "INTERVIEW_SCHEDULED",
		Notes:         "Call at 3pm",
		ChangedBy:     "hr_jane",
	})
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}

	if dto.Status != domain.StatusInterviewScheduled {
		t.Errorf("status = %s, want INTERVIEW_SCHEDULED", dto.Status)
	}
	if dto.AdminNotes != "Call at 3pm" {
		t.Errorf("admin notes = %q, want %q", dto.AdminNotes, "Call at 3pm")
	}
	if len(dto.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(dto.History))
	}
	latest := dto.History[0]
	if latest.Status != domain.StatusInterviewScheduled || latest.Notes != "Call at 3pm" || latest.ChangedBy != "hr_jane" {
		t.Errorf("unexpected latest history entry: %+v", latest)
	}

	if events := publisher.changedEvents(); len(events) != 1 {
		t.Errorf("expected one status changed event, got %d", len(events))
	} else if events[0].Status != domain.StatusInterviewScheduled {
		t.Errorf("event status = %s, want INTERVIEW_SCHEDULED", events[0].Status)
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != id {
		t.Errorf("cache should be invalidated for %s, got %v", id, cache.invalidated)
	}
}

func TestTransitionStatusDefaultActor(t *testing.T) {
	repo := newFakeRepo()
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)
	dto, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "UNDER_REVIEW",
	})
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}
	if dto.History[0].ChangedBy != "admin" {
		t.Errorf("changed_by = %q, want admin", dto.History[0].ChangedBy)
	}
}

func TestTransitionStatusInvalidStatus(t *testing.T) {
	repo := newFakeRepo()
	notifier := newFakeNotifier()
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, nil, notifier, nil, nil, "", 0)
	_, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "APPROVED",
	})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Fields[0].Field != "status" {
		t.Errorf("expected status field error, got %+v", vErr.Fields)
	}
	if repo.updates != 0 {
		t.Error("no write should happen on validation failure")
	}
	select {
	case <-notifier.calls:
		t.Error("no notification should be dispatched on validation failure")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransitionStatusMalformedID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)

	_, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: "not-a-uuid",
		Status:        "HIRED",
	})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Fields[0].Field != "application_id" {
		t.Errorf("expected application_id field error, got %+v", vErr.Fields)
	}
}

func TestTransitionStatusNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)

	_, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: "6d1f6e0a-3c8f-4c5e-9f27-0a4b8a2f9e11",
		Status:        "HIRED",
	})
	if !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestTransitionStatusDispatchesNotification(t *testing.T) {
	repo := newFakeRepo()
	notifier := newFakeNotifier()
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, nil, notifier, nil, nil, "", 0)
	_, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "OFFER_EXTENDED",
		Notes:         "Congrats",
	})
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}

	select {
	case entry := <-notifier.calls:
		if entry.Status != domain.StatusOfferExtended || entry.Notes != "Congrats" {
			t.Errorf("unexpected notification entry: %+v", entry)
		}
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
	}
}

func TestTransitionStatusNotifierFailureStillSucceeds(t *testing.T) {
	repo := newFakeRepo()
	notifier := newFakeNotifier()
	notifier.err = errors.New("smtp down")
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, nil, notifier, nil, nil, "", 0)
	dto, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "REJECTED",
	})
	if err != nil {
		t.Fatalf("transition should succeed despite notifier failure: %v", err)
	}
	if dto.Status != domain.StatusRejected {
		t.Errorf("status = %s, want REJECTED", dto.Status)
	}

	select {
	case <-notifier.calls:
	case <-time.After(time.Second):
		t.Fatal("notification attempt was not made")
	}
}

func TestTransitionStatusPublisherFailureStillSucceeds(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, publisher, nil, nil, nil, "", 0)
	if _, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "HIRED",
	}); err != nil {
		t.Fatalf("transition should succeed despite publisher failure: %v", err)
	}
}

func TestTransitionStatusRepeatStatusAppendsEntry(t *testing.T) {
	repo := newFakeRepo()
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)
	for _, notes := range []string{"first pass", "second pass"} {
		if _, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
			ApplicationID: id,
			Status:        "UNDER_REVIEW",
			Notes:         notes,
		}); err != nil {
			t.Fatalf("TransitionStatus failed: %v", err)
		}
	}

	app, _ := repo.GetWithHistory(context.Background(), id)
	if len(app.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(app.History))
	}
	if app.History[0].Notes != "second pass" || app.History[1].Notes != "first pass" {
		t.Errorf("history entries out of order: %+v", app.History)
	}
}

func TestTransitionStatusEmptyNotesOverwrite(t *testing.T) {
	repo := newFakeRepo()
	id := seedApplication(t, repo)

	svc := NewApplicationCommandService(repo, nil, nil, nil, nil, "", 0)
	if _, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "UNDER_REVIEW",
		Notes:         "some notes",
	}); err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}

	dto, err := svc.TransitionStatus(context.Background(), TransitionStatusCommand{
		ApplicationID: id,
		Status:        "INTERVIEWED",
	})
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}
	if dto.AdminNotes != "" {
		t.Errorf("admin notes should be overwritten with empty value, got %q", dto.AdminNotes)
	}
}
