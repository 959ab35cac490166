package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fypcollabor8/backend/config"
)

// 事件类型
const (
	TypeGroupCreated        = "group.created"
	TypeGroupDeleted        = "group.deleted"
	TypeGroupApproved       = "group.approved"
	TypeGroupMemberAssigned = "group.member_assigned"
	TypeGroupRoleAssigned   = "group.role_assigned"
	TypeTitleReviewed       = "project.title_reviewed"
	TypeMeetingStatus       = "meeting.status_changed"
)

// Event 领域事件
type Event struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	AggregateID uint                   `json:"aggregate_id"`
	ActorID     uint                   `json:"actor_id"`
	ActorRole   string                 `json:"actor_role"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
}

// New 构造事件并补齐 ID 与时间
func New(eventType string, aggregateID, actorID uint, actorRole string, payload map[string]interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		ActorRole:   actorRole,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// Publisher 领域事件发布接口
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NopPublisher 未启用 Kafka 时的空实现
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// KafkaPublisher 基于 sarama 同步生产者的实现
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewPublisher 按配置创建发布器；未启用时返回 NopPublisher
func NewPublisher(cfg *config.KafkaConfig, logger *zap.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Retry.Backoff = 200 * time.Millisecond
	sc.Net.DialTimeout = 5 * time.Second
	sc.Net.WriteTimeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("创建 Kafka 生产者失败: %w", err)
	}

	logger.Info("Kafka 事件发布器已启用",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)

	return NewKafkaPublisher(producer, cfg.Topic, logger), nil
}

// NewKafkaPublisher 包装已有的同步生产者
func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish 以聚合 ID 作为分区键发送事件，保证同一聚合内事件有序
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", evt.AggregateID)),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(evt.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("发送事件失败: %w", err)
	}

	p.logger.Debug("事件已发送",
		zap.String("type", evt.Type),
		zap.Uint("aggregate_id", evt.AggregateID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close 关闭生产者
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
