package application

import (
	"context"
	"sync"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
)

// fakeRepo 内存仓储，按接口语义维护申请与历史
type fakeRepo struct {
	mu      sync.Mutex
	apps    map[string]*domain.JobApplication
	err     error
	updates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{apps: make(map[string]*domain.JobApplication)}
}

func (r *fakeRepo) Create(ctx context.Context, app *domain.JobApplication, entry *domain.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	stored := *app
	stored.History = []domain.StatusHistoryEntry{*entry}
	r.apps[app.ApplicationID] = &stored
	return nil
}

func (r *fakeRepo) UpdateStatusWithHistory(ctx context.Context, applicationID string, status domain.Status, notes, actor string) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	app, ok := r.apps[applicationID]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	r.updates++
	app.Status = status
	app.AdminNotes = notes
	entry := domain.StatusHistoryEntry{
		ApplicationID: applicationID,
		Status:        status,
		Notes:         notes,
		ChangedBy:     actor,
	}
	app.History = append([]domain.StatusHistoryEntry{entry}, app.History...)
	result := *app
	result.History = append([]domain.StatusHistoryEntry(nil), app.History...)
	return &result, nil
}

func (r *fakeRepo) GetWithHistory(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	app, ok := r.apps[applicationID]
	if !ok {
		return nil, nil
	}
	result := *app
	result.History = append([]domain.StatusHistoryEntry(nil), app.History...)
	return &result, nil
}

func (r *fakeRepo) List(ctx context.Context, status *domain.Status, limit, offset int) ([]*domain.JobApplication, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	var apps []*domain.JobApplication
	for _, app := range r.apps {
		if status != nil && app.Status != *status {
			continue
		}
		result := *app
		apps = append(apps, &result)
	}
	return apps, int64(len(apps)), nil
}

// fakePublisher 记录发布的事件
type fakePublisher struct {
	mu        sync.Mutex
	err       error
	submitted []domain.ApplicationSubmittedEvent
	changed   []domain.ApplicationStatusChangedEvent
}

func (p *fakePublisher) PublishApplicationSubmitted(ctx context.Context, event domain.ApplicationSubmittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.submitted = append(p.submitted, event)
	return nil
}

func (p *fakePublisher) PublishApplicationStatusChanged(ctx context.Context, event domain.ApplicationStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.changed = append(p.changed, event)
	return nil
}

func (p *fakePublisher) changedEvents() []domain.ApplicationStatusChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ApplicationStatusChangedEvent(nil), p.changed...)
}

// fakeNotifier 通过 channel 暴露每次通知调用，便于测试同步
type fakeNotifier struct {
	err   error
	calls chan *domain.StatusHistoryEntry
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan *domain.StatusHistoryEntry, 8)}
}

func (n *fakeNotifier) NotifyStatusChanged(ctx context.Context, app *domain.JobApplication, entry *domain.StatusHistoryEntry) error {
	n.calls <- entry
	return n.err
}

// fakeCache 记录失效调用
type fakeCache struct {
	mu          sync.Mutex
	err         error
	stored      map[string]*domain.JobApplication
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]*domain.JobApplication)}
}

func (c *fakeCache) Get(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.stored[applicationID], nil
}

func (c *fakeCache) Set(ctx context.Context, app *domain.JobApplication) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.stored[app.ApplicationID] = app
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, applicationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.invalidated = append(c.invalidated, applicationID)
	delete(c.stored, applicationID)
	return nil
}
