package application

import (
	"context"
	"time"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/pkg/metrics"
)

// ApplicationService 求职申请应用服务，聚合命令与查询能力
type ApplicationService struct {
	command *ApplicationCommandService
	query   *ApplicationQueryService
}

// NewApplicationService 创建申请应用服务实例
func NewApplicationService(
	repo domain.ApplicationRepository,
	publisher domain.EventPublisher,
	notifier domain.StatusNotifier,
	cache domain.ApplicationCache,
	m *metrics.Metrics,
	defaultActor string,
	notifyTimeout time.Duration,
) *ApplicationService {
	return &ApplicationService{
		command: NewApplicationCommandService(repo, publisher, notifier, cache, m, defaultActor, notifyTimeout),
		query:   NewApplicationQueryService(repo, cache, m),
	}
}

// SubmitApplication 提交新申请
func (s *ApplicationService) SubmitApplication(ctx context.Context, cmd SubmitApplicationCommand) (*ApplicationDTO, error) {
	return s.command.SubmitApplication(ctx, cmd)
}

// TransitionStatus 变更申请状态
func (s *ApplicationService) TransitionStatus(ctx context.Context, cmd TransitionStatusCommand) (*ApplicationDTO, error) {
	return s.command.TransitionStatus(ctx, cmd)
}

// GetApplication 查询申请详情
func (s *ApplicationService) GetApplication(ctx context.Context, applicationID string) (*ApplicationDTO, error) {
	return s.query.GetApplication(ctx, applicationID)
}

// ListApplications 分页查询申请列表
func (s *ApplicationService) ListApplications(ctx context.Context, statusFilter string, limit, offset int) ([]*ApplicationDTO, int64, error) {
	return s.query.ListApplications(ctx, statusFilter, limit, offset)
}
