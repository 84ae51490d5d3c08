// Package domain 通知上下文的领域模型
package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DeliveryStatus 通知投递结果
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

// Notification 通知投递记录。
// 每次投递尝试落一条记录，成功失败都记，用于排查与审计。
type Notification struct {
	gorm.Model
	// NotificationID 通知 ID
	NotificationID string `gorm:"column:notification_id;type:varchar(36);uniqueIndex;not null" json:"notification_id"`
	// ApplicationID 关联申请的对外 ID
	ApplicationID string `gorm:"column:application_id;type:varchar(36);index;not null" json:"application_id"`
	// Recipient 收件人邮箱
	Recipient string `gorm:"column:recipient;type:varchar(255);not null" json:"recipient"`
	// Subject 通知主题
	Subject string `gorm:"column:subject;type:varchar(255)" json:"subject"`
	// Body 通知正文
	Body string `gorm:"column:body;type:text" json:"body"`
	// Locale 渲染消息使用的语言
	Locale string `gorm:"column:locale;type:varchar(8)" json:"locale"`
	// Status 投递结果
	Status DeliveryStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	// ErrorMessage 失败原因，成功时为空
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message"`
	// SentAt 投递成功时间，失败时为 nil
	SentAt *time.Time `gorm:"column:sent_at;type:datetime" json:"sent_at"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}

// Sender 通知投递通道
type Sender interface {
	// Send 执行单次投递尝试
	Send(ctx context.Context, recipient, subject, body string) error
}

// NotificationRepository 通知记录仓储接口
type NotificationRepository interface {
	// Save 保存一条投递记录
	Save(ctx context.Context, notification *Notification) error

	// ListByApplication 按申请倒序列出投递记录
	ListByApplication(ctx context.Context, applicationID string) ([]*Notification, error)
}
