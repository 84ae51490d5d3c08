// Package mysql 求职申请上下文的 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/pkg/db"
)

// ApplicationRepository 基于 GORM 的申请仓储
type ApplicationRepository struct {
	db *db.DB
}

// NewApplicationRepository 创建申请仓储实例
func NewApplicationRepository(database *db.DB) *ApplicationRepository {
	return &ApplicationRepository{db: database}
}

// Create 在一个事务内创建申请与首条历史记录
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.JobApplication, entry *domain.StatusHistoryEntry) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create status history entry: %w", err)
		}
		return nil
	})
}

// UpdateStatusWithHistory 在一个事务内更新申请状态并追加历史记录。
// 申请行加排它锁，保证状态与最新历史记录始终一致。
func (r *ApplicationRepository) UpdateStatusWithHistory(ctx context.Context, applicationID string, status domain.Status, notes, actor string) (*domain.JobApplication, error) {
	var app domain.JobApplication

	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ?", applicationID).
			First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrApplicationNotFound
			}
			return fmt.Errorf("failed to load application: %w", err)
		}

		app.Status = status
		app.AdminNotes = notes
		app.Touch()

		if err := tx.Model(&app).
			Updates(map[string]interface{}{
				"status":      app.Status,
				"admin_notes": app.AdminNotes,
				"updated_at":  app.UpdatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update application status: %w", err)
		}

		entry := &domain.StatusHistoryEntry{
			ApplicationID: applicationID,
			Status:        status,
			Notes:         notes,
			ChangedBy:     actor,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}

		return loadHistory(tx, &app)
	})
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// GetWithHistory 读取申请及其倒序历史，不存在时返回 (nil, nil)。
// 申请与历史在同一事务快照内读取，并发提交的变更不会造成两者不一致。
func (r *ApplicationRepository) GetWithHistory(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	var app domain.JobApplication
	found := false

	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", applicationID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to query application: %w", err)
		}
		found = true
		return loadHistory(tx, &app)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return &app, nil
}

// List 分页列出申请（不含历史），status 为 nil 时不过滤
func (r *ApplicationRepository) List(ctx context.Context, status *domain.Status, limit, offset int) ([]*domain.JobApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.JobApplication{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	var apps []*domain.JobApplication
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, total, nil
}

// loadHistory 在给定事务内填充倒序历史（最新在前）
func loadHistory(tx *gorm.DB, app *domain.JobApplication) error {
	var entries []domain.StatusHistoryEntry
	if err := tx.
		Where("application_id = ?", app.ApplicationID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to load status history: %w", err)
	}
	app.History = entries
	return nil
}
