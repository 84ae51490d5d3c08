package sender

import (
	"context"

	"github.com/wyfcoding/recruiting/internal/notification/domain"
	"github.com/wyfcoding/recruiting/pkg/logger"
)

// MockSender 开发环境的日志通道，只打印不投递
type MockSender struct{}

// NewMockSender 创建日志通道
func NewMockSender() domain.Sender {
	return &MockSender{}
}

// Send 打印通知内容并返回成功
func (s *MockSender) Send(ctx context.Context, recipient, subject, body string) error {
	logger.Info(ctx, "mock notification",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
