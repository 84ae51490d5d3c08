// Package mysql 通知上下文的 MySQL 仓储实现
package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wyfcoding/recruiting/internal/notification/domain"
)

// NotificationRepository 基于 GORM 的通知记录仓储
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知记录仓储实例
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Save 保存一条投递记录
func (r *NotificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// ListByApplication 按申请倒序列出投递记录
func (r *NotificationRepository) ListByApplication(ctx context.Context, applicationID string) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
