package domain

import (
	"context"
	"time"
)

// 事件主题
const (
	ApplicationSubmittedEventType     = "recruiting.application.submitted"
	ApplicationStatusChangedEventType = "recruiting.application.status_changed"
)

// ApplicationSubmittedEvent 申请提交事件
type ApplicationSubmittedEvent struct {
	ApplicationID string    `json:"application_id"`
	ApplicationNo string    `json:"application_no"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Locale        string    `json:"locale"`
	Status        Status    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// ApplicationStatusChangedEvent 申请状态变更事件。
// 自带申请人信息与编号，消费方无需回查即可构造通知。
type ApplicationStatusChangedEvent struct {
	ApplicationID string    `json:"application_id"`
	ApplicationNo string    `json:"application_no"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Locale        string    `json:"locale"`
	Status        Status    `json:"status"`
	Notes         string    `json:"notes"`
	ChangedBy     string    `json:"changed_by"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishApplicationSubmitted 发布申请提交事件
	PublishApplicationSubmitted(ctx context.Context, event ApplicationSubmittedEvent) error

	// PublishApplicationStatusChanged 发布申请状态变更事件
	PublishApplicationStatusChanged(ctx context.Context, event ApplicationStatusChangedEvent) error
}
