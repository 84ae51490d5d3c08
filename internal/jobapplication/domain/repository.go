package domain

import "context"

// ApplicationRepository 求职申请仓储接口
type ApplicationRepository interface {
	// Create 在一个事务内创建申请与首条历史记录
	Create(ctx context.Context, app *JobApplication, entry *StatusHistoryEntry) error

	// UpdateStatusWithHistory 在一个事务内更新申请状态、覆盖管理备注并追加一条历史记录，
	// 返回带完整历史（倒序）的最新申请。申请不存在时返回 ErrApplicationNotFound。
	UpdateStatusWithHistory(ctx context.Context, applicationID string, status Status, notes, actor string) (*JobApplication, error)

	// GetWithHistory 读取申请及其倒序历史，不存在时返回 (nil, nil)
	GetWithHistory(ctx context.Context, applicationID string) (*JobApplication, error)

	// List 分页列出申请（不含历史），status 为 nil 时不过滤
	List(ctx context.Context, status *Status, limit, offset int) ([]*JobApplication, int64, error)
}

// ApplicationCache 申请详情读缓存
type ApplicationCache interface {
	// Get 读取缓存，未命中时返回 (nil, nil)
	Get(ctx context.Context, applicationID string) (*JobApplication, error)
	// Set 写入缓存
	Set(ctx context.Context, app *JobApplication) error
	// Invalidate 失效缓存
	Invalidate(ctx context.Context, applicationID string) error
}

// StatusNotifier 状态变更通知回调。
// 投递失败只影响通知自身，绝不反向影响状态变更结果。
type StatusNotifier interface {
	NotifyStatusChanged(ctx context.Context, app *JobApplication, entry *StatusHistoryEntry) error
}
