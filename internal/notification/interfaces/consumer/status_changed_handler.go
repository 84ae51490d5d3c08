// Package consumer 通知上下文的 Kafka 消费入口
package consumer

import (
	"context"

	jobdomain "github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/internal/notification/application"
	"github.com/wyfcoding/recruiting/pkg/logger"
	"github.com/wyfcoding/recruiting/pkg/metrics"
	"github.com/wyfcoding/recruiting/pkg/mq"
)

// DeadLetter 死信投递接口
type DeadLetter interface {
	Send(ctx context.Context, originalMessage *mq.Message, reason string, cause error) error
}

// StatusChangedHandler 消费申请状态变更事件并触发通知投递
type StatusChangedHandler struct {
	dispatcher *application.Dispatcher
	dlq        DeadLetter
	metrics    *metrics.Metrics
}

// NewStatusChangedHandler 创建状态变更事件处理器，dlq 与 m 可为 nil
func NewStatusChangedHandler(dispatcher *application.Dispatcher, dlq DeadLetter, m *metrics.Metrics) *StatusChangedHandler {
	return &StatusChangedHandler{
		dispatcher: dispatcher,
		dlq:        dlq,
		metrics:    m,
	}
}

// Handle 处理单条事件：解析、投递，失败进死信。
// 始终返回 nil，避免消费循环对同一条消息反复告警。
func (h *StatusChangedHandler) Handle(ctx context.Context, msg *mq.Message) error {
	var event jobdomain.ApplicationStatusChangedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		logger.Error(ctx, "failed to decode status changed event",
			"topic", msg.Topic, "offset", msg.Offset, "error", err)
		h.deadLetter(ctx, msg, "malformed event payload", err)
		return nil
	}

	update := application.StatusUpdate{
		ApplicationID: event.ApplicationID,
		ApplicationNo: event.ApplicationNo,
		FullName:      event.FullName,
		Recipient:     event.Email,
		Locale:        event.Locale,
		Status:        string(event.Status),
		Notes:         event.Notes,
	}

	if err := h.dispatcher.DispatchStatusUpdate(ctx, update); err != nil {
		// 单次尝试语义：失败不重投，进死信留痕
		h.deadLetter(ctx, msg, "notification dispatch failed", err)
	}

	return nil
}

// deadLetter 尽力投递死信，失败只记日志
func (h *StatusChangedHandler) deadLetter(ctx context.Context, msg *mq.Message, reason string, cause error) {
	if h.dlq == nil {
		return
	}
	if err := h.dlq.Send(ctx, msg, reason, cause); err != nil {
		logger.Error(ctx, "failed to send message to dead letter queue",
			"topic", msg.Topic, "offset", msg.Offset, "error", err)
		return
	}
	if h.metrics != nil {
		h.metrics.DeadLetteredTotal.Inc()
	}
}
