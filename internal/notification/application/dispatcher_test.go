package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/wyfcoding/recruiting/internal/notification/domain"
)

type fakeSender struct {
	mu    sync.Mutex
	err   error
	sent  []string
	calls int
}

func (s *fakeSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, recipient)
	return nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	err   error
	saved []*domain.Notification
}

func (r *fakeNotificationRepo) Save(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, notification)
	return nil
}

func (r *fakeNotificationRepo) ListByApplication(ctx context.Context, applicationID string) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Notification
	for _, n := range r.saved {
		if n.ApplicationID == applicationID {
			result = append(result, n)
		}
	}
	return result, nil
}

func testUpdate() StatusUpdate {
	return StatusUpdate{
		ApplicationID: "6d1f6e0a-3c8f-4c5e-9f27-0a4b8a2f9e11",
		ApplicationNo: "APP-20260828-ABCDEF12",
		FullName:      "Jane Doe",
		Recipient:     "jane@example.com",
		Locale:        "en",
		Status:        "INTERVIEW_SCHEDULED",
		Notes:         "Call at 3pm",
	}
}

func TestDispatchStatusUpdate(t *testing.T) {
	sender := &fakeSender{}
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(sender, repo, nil, 0)

	if err := d.DispatchStatusUpdate(context.Background(), testUpdate()); err != nil {
		t.Fatalf("DispatchStatusUpdate failed: %v", err)
	}

	if len(sender.sent) != 1 || sender.sent[0] != "jane@example.com" {
		t.Errorf("unexpected recipients: %v", sender.sent)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one saved record, got %d", len(repo.saved))
	}
	record := repo.saved[0]
	if record.Status != domain.DeliverySent {
		t.Errorf("record status = %s, want SENT", record.Status)
	}
	if record.SentAt == nil {
		t.Error("SentAt should be set on success")
	}
	if !strings.Contains(record.Body, "APP-20260828-ABCDEF12") {
		t.Errorf("body should reference the application number: %q", record.Body)
	}
	if !strings.Contains(record.Body, "Call at 3pm") {
		t.Errorf("body should include the notes: %q", record.Body)
	}
}

func TestDispatchStatusUpdateSenderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(sender, repo, nil, 0)

	err := d.DispatchStatusUpdate(context.Background(), testUpdate())
	if err == nil {
		t.Fatal("expected an error when delivery fails")
	}
	if !strings.Contains(err.Error(), "smtp down") {
		t.Errorf("error should wrap the cause: %v", err)
	}

	if sender.calls != 1 {
		t.Errorf("delivery must be attempted exactly once, got %d attempts", sender.calls)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one saved record, got %d", len(repo.saved))
	}
	record := repo.saved[0]
	if record.Status != domain.DeliveryFailed {
		t.Errorf("record status = %s, want FAILED", record.Status)
	}
	if record.ErrorMessage == "" {
		t.Error("failure record should carry the error message")
	}
	if record.SentAt != nil {
		t.Error("SentAt should be nil on failure")
	}
}

func TestDispatchStatusUpdateRepoFailureIgnored(t *testing.T) {
	sender := &fakeSender{}
	repo := &fakeNotificationRepo{err: errors.New("db down")}
	d := NewDispatcher(sender, repo, nil, 0)

	if err := d.DispatchStatusUpdate(context.Background(), testUpdate()); err != nil {
		t.Fatalf("record persistence failure must not fail the dispatch: %v", err)
	}
}

func TestDispatchStatusUpdateWithoutRepo(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, nil, nil, 0)

	if err := d.DispatchStatusUpdate(context.Background(), testUpdate()); err != nil {
		t.Fatalf("DispatchStatusUpdate failed: %v", err)
	}
}
