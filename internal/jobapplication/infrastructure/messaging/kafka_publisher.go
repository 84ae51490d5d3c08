// Package messaging 求职申请上下文的事件发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的事件发布者
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建事件发布者实例
func NewKafkaEventPublisher(producer *mq.KafkaProducer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// PublishApplicationSubmitted 发布申请提交事件，以申请 ID 作为分区键
func (p *KafkaEventPublisher) PublishApplicationSubmitted(ctx context.Context, event domain.ApplicationSubmittedEvent) error {
	return p.producer.SendMessage(ctx, domain.ApplicationSubmittedEventType, event.ApplicationID, event)
}

// PublishApplicationStatusChanged 发布申请状态变更事件，以申请 ID 作为分区键。
// 同一申请的事件落在同一分区，消费端按变更顺序处理。
func (p *KafkaEventPublisher) PublishApplicationStatusChanged(ctx context.Context, event domain.ApplicationStatusChangedEvent) error {
	return p.producer.SendMessage(ctx, domain.ApplicationStatusChangedEventType, event.ApplicationID, event)
}
