// Package application 通知上下文的应用服务
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/recruiting/internal/notification/domain"
	"github.com/wyfcoding/recruiting/pkg/logger"
	"github.com/wyfcoding/recruiting/pkg/metrics"
)

// StatusUpdate 一次状态变更的通知输入
type StatusUpdate struct {
	ApplicationID string
	ApplicationNo string
	FullName      string
	Recipient     string
	Locale        string
	Status        string
	Notes         string
}

// Dispatcher 状态变更通知分发器。
// 单次尝试、不重试；投递结果落库与指标均为尽力而为。
type Dispatcher struct {
	sender  domain.Sender
	repo    domain.NotificationRepository
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewDispatcher 创建通知分发器实例，repo 与 m 可为 nil
func NewDispatcher(sender domain.Sender, repo domain.NotificationRepository, m *metrics.Metrics, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		repo:    repo,
		metrics: m,
		timeout: timeout,
	}
}

// DispatchStatusUpdate 渲染本地化消息并执行单次投递尝试。
// 失败时返回包装后的错误，由调用方决定记日志还是进死信，绝不重试。
func (d *Dispatcher) DispatchStatusUpdate(ctx context.Context, update StatusUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	defer logger.LogDuration(ctx, "status notification processed",
		"application_id", update.ApplicationID)()

	subject, body := composeMessage(update.Locale, update.FullName, update.ApplicationNo, update.Status, update.Notes)

	record := &domain.Notification{
		NotificationID: uuid.NewString(),
		ApplicationID:  update.ApplicationID,
		Recipient:      update.Recipient,
		Subject:        subject,
		Body:           body,
		Locale:         normalizeLocale(update.Locale),
	}

	sendErr := d.sender.Send(ctx, update.Recipient, subject, body)
	if sendErr != nil {
		record.Status = domain.DeliveryFailed
		record.ErrorMessage = sendErr.Error()
		logger.Error(ctx, "notification delivery failed",
			"application_id", update.ApplicationID,
			"recipient", update.Recipient,
			"status", update.Status,
			"error", sendErr,
		)
		if d.metrics != nil {
			d.metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		}
	} else {
		now := time.Now()
		record.Status = domain.DeliverySent
		record.SentAt = &now
		logger.Info(ctx, "notification delivered",
			"application_id", update.ApplicationID,
			"recipient", update.Recipient,
			"status", update.Status,
		)
		if d.metrics != nil {
			d.metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}

	if d.repo != nil {
		if err := d.repo.Save(ctx, record); err != nil {
			logger.Warn(ctx, "failed to persist notification record",
				"application_id", update.ApplicationID, "error", err)
		}
	}

	if sendErr != nil {
		return fmt.Errorf("failed to deliver status notification: %w", sendErr)
	}
	return nil
}

// ListByApplication 按申请倒序列出投递记录
func (d *Dispatcher) ListByApplication(ctx context.Context, applicationID string) ([]*domain.Notification, error) {
	if d.repo == nil {
		return nil, nil
	}
	return d.repo.ListByApplication(ctx, applicationID)
}
