package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/pkg/logger"
	"github.com/wyfcoding/recruiting/pkg/metrics"
)

// ApplicationQueryService 处理申请相关的查询操作
type ApplicationQueryService struct {
	repo    domain.ApplicationRepository
	cache   domain.ApplicationCache
	metrics *metrics.Metrics
}

// NewApplicationQueryService 创建申请查询服务实例，cache 与 m 可为 nil
func NewApplicationQueryService(repo domain.ApplicationRepository, cache domain.ApplicationCache, m *metrics.Metrics) *ApplicationQueryService {
	return &ApplicationQueryService{repo: repo, cache: cache, metrics: m}
}

// GetApplication 读取申请及其倒序历史。
// 申请不存在时返回 (nil, nil)，这是正常结果而非错误。
func (s *ApplicationQueryService) GetApplication(ctx context.Context, applicationID string) (*ApplicationDTO, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, applicationID)
		if err != nil {
			// 缓存故障降级为直查
			logger.Warn(ctx, "application cache read failed", "application_id", applicationID, "error", err)
		} else if cached != nil {
			if s.metrics != nil {
				s.metrics.CacheHitsTotal.Inc()
			}
			return toApplicationDTO(cached), nil
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
	}

	app, err := s.repo.GetWithHistory(ctx, applicationID)
	if err != nil {
		logger.Error(ctx, "failed to load application", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, nil
	}

	if s.cache != nil {
		// 回填可能与并发变更的失效操作交错，旧值最多存活一个 TTL
		if err := s.cache.Set(ctx, app); err != nil {
			logger.Warn(ctx, "application cache write failed", "application_id", applicationID, "error", err)
		}
	}

	return toApplicationDTO(app), nil
}

// ListApplications 分页列出申请，statusFilter 为空时不过滤
func (s *ApplicationQueryService) ListApplications(ctx context.Context, statusFilter string, limit, offset int) ([]*ApplicationDTO, int64, error) {
	var status *domain.Status
	if statusFilter != "" {
		parsed, ok := domain.ParseStatus(statusFilter)
		if !ok {
			return nil, 0, domain.NewValidationError(domain.FieldError{
				Field:   "status",
				Message: fmt.Sprintf("status must be one of %s", statusList()),
			})
		}
		status = &parsed
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	apps, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		logger.Error(ctx, "failed to list applications", "error", err)
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}

	return toApplicationDTOs(apps), total, nil
}
