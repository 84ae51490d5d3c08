// Package notify 直连模式下的状态变更通知适配器
package notify

import (
	"context"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/internal/notification/application"
)

// DispatcherNotifier 将状态变更直接交给通知分发器（不经 Kafka）
type DispatcherNotifier struct {
	dispatcher *application.Dispatcher
}

// NewDispatcherNotifier 创建直连通知适配器
func NewDispatcherNotifier(dispatcher *application.Dispatcher) *DispatcherNotifier {
	return &DispatcherNotifier{dispatcher: dispatcher}
}

// NotifyStatusChanged 执行单次通知尝试
func (n *DispatcherNotifier) NotifyStatusChanged(ctx context.Context, app *domain.JobApplication, entry *domain.StatusHistoryEntry) error {
	return n.dispatcher.DispatchStatusUpdate(ctx, application.StatusUpdate{
		ApplicationID: app.ApplicationID,
		ApplicationNo: app.ApplicationNo,
		FullName:      app.FullName,
		Recipient:     app.Email,
		Locale:        app.Locale,
		Status:        string(entry.Status),
		Notes:         entry.Notes,
	})
}
