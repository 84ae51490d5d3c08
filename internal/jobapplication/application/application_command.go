package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/pkg/logger"
	"github.com/wyfcoding/recruiting/pkg/metrics"
)

// defaultActorLabel 未配置操作者标签时的兜底值
const defaultActorLabel = "admin"

// ApplicationCommandService 处理申请相关的命令操作
type ApplicationCommandService struct {
	repo          domain.ApplicationRepository
	publisher     domain.EventPublisher
	notifier      domain.StatusNotifier
	cache         domain.ApplicationCache
	metrics       *metrics.Metrics
	defaultActor  string
	notifyTimeout time.Duration
}

// NewApplicationCommandService 创建申请命令服务实例。
// publisher、notifier、cache、m 均可为 nil（对应能力关闭）。
func NewApplicationCommandService(
	repo domain.ApplicationRepository,
	publisher domain.EventPublisher,
	notifier domain.StatusNotifier,
	cache domain.ApplicationCache,
	m *metrics.Metrics,
	defaultActor string,
	notifyTimeout time.Duration,
) *ApplicationCommandService {
	if defaultActor == "" {
		defaultActor = defaultActorLabel
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &ApplicationCommandService{
		repo:          repo,
		publisher:     publisher,
		notifier:      notifier,
		cache:         cache,
		metrics:       m,
		defaultActor:  defaultActor,
		notifyTimeout: notifyTimeout,
	}
}

// SubmitApplication 提交申请：在一个事务内创建申请与首条历史记录
func (s *ApplicationCommandService) SubmitApplication(ctx context.Context, cmd SubmitApplicationCommand) (*ApplicationDTO, error) {
	var fields []domain.FieldError
	if strings.TrimSpace(cmd.FullName) == "" {
		fields = append(fields, domain.FieldError{Field: "full_name", Message: "full name is required"})
	}
	if !strings.Contains(cmd.Email, "@") {
		fields = append(fields, domain.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	locale := cmd.Locale
	if locale == "" {
		locale = "en"
	}

	id := uuid.NewString()
	app := &domain.JobApplication{
		ApplicationID: id,
		ApplicationNo: generateApplicationNo(id),
		FullName:      strings.TrimSpace(cmd.FullName),
		Email:         strings.TrimSpace(cmd.Email),
		Locale:        locale,
		Status:        domain.StatusSubmitted,
	}
	entry := &domain.StatusHistoryEntry{
		ApplicationID: id,
		Status:        domain.StatusSubmitted,
		ChangedBy:     "applicant",
	}

	if err := s.repo.Create(ctx, app, entry); err != nil {
		logger.Error(ctx, "failed to create application", "application_id", id, "error", err)
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	app.History = []domain.StatusHistoryEntry{*entry}

	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}

	if s.publisher != nil {
		event := domain.ApplicationSubmittedEvent{
			ApplicationID: app.ApplicationID,
			ApplicationNo: app.ApplicationNo,
			FullName:      app.FullName,
			Email:         app.Email,
			Locale:        app.Locale,
			Status:        app.Status,
			Timestamp:     time.Now(),
		}
		if err := s.publisher.PublishApplicationSubmitted(ctx, event); err != nil {
			logger.Error(ctx, "failed to publish application submitted event",
				"application_id", app.ApplicationID, "error", err)
		}
	}

	return toApplicationDTO(app), nil
}

// TransitionStatus 执行状态变更：校验输入，原子地更新状态并追加历史，
// 提交后尽力发布事件并触发通知。事件与通知的失败只记录，不影响结果。
func (s *ApplicationCommandService) TransitionStatus(ctx context.Context, cmd TransitionStatusCommand) (*ApplicationDTO, error) {
	var fields []domain.FieldError
	if cmd.ApplicationID == "" {
		fields = append(fields, domain.FieldError{Field: "application_id", Message: "application id is required"})
	} else if _, err := uuid.Parse(cmd.ApplicationID); err != nil {
		fields = append(fields, domain.FieldError{Field: "application_id", Message: "application id must be a valid UUID"})
	}

	status, ok := domain.ParseStatus(cmd.Status)
	if !ok {
		fields = append(fields, domain.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of %s", statusList()),
		})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	actor := cmd.ChangedBy
	if actor == "" {
		actor = s.defaultActor
	}

	app, err := s.repo.UpdateStatusWithHistory(ctx, cmd.ApplicationID, status, cmd.Notes, actor)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(string(status)).Inc()
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, app.ApplicationID); err != nil {
			logger.Warn(ctx, "failed to invalidate application cache",
				"application_id", app.ApplicationID, "error", err)
		}
	}

	entry := app.CurrentEntry()

	if s.publisher != nil && entry != nil {
		event := domain.ApplicationStatusChangedEvent{
			ApplicationID: app.ApplicationID,
			ApplicationNo: app.ApplicationNo,
			FullName:      app.FullName,
			Email:         app.Email,
			Locale:        app.Locale,
			Status:        entry.Status,
			Notes:         entry.Notes,
			ChangedBy:     entry.ChangedBy,
			Timestamp:     time.Now(),
		}
		if err := s.publisher.PublishApplicationStatusChanged(ctx, event); err != nil {
			logger.Error(ctx, "failed to publish status changed event",
				"application_id", app.ApplicationID, "status", status, "error", err)
		}
	}

	if s.notifier != nil && entry != nil {
		// 通知与请求生命周期解耦：状态已落库，投递结果只进日志
		appCopy := *app
		entryCopy := *entry
		go s.dispatchNotification(&appCopy, &entryCopy)
	}

	return toApplicationDTO(app), nil
}

// dispatchNotification 在独立 goroutine 中执行单次通知尝试
func (s *ApplicationCommandService) dispatchNotification(app *domain.JobApplication, entry *domain.StatusHistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyStatusChanged(ctx, app, entry); err != nil {
		logger.Error(ctx, "status notification dispatch failed",
			"application_id", app.ApplicationID,
			"recipient", app.Email,
			"status", entry.Status,
			"error", err,
		)
	}
}

// generateApplicationNo 生成人类可读申请编号
func generateApplicationNo(id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("APP-%s-%s", time.Now().UTC().Format("20060102"), short)
}

// statusList 拼接合法状态列表，用于校验消息
func statusList() string {
	parts := make([]string, len(domain.AllStatuses))
	for i, s := range domain.AllStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
