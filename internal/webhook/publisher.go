package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporting_service/internal/models"
)

const (
	eventQueueKey = "incident_events"
)

// EventType - тип события жизненного цикла инцидента
type EventType string

const (
	EventIncidentCreated EventType = "incident.created"
	EventIncidentUpdated EventType = "incident.updated"
	EventIncidentDeleted EventType = "incident.deleted"
)

// IncidentEvent - данные вебхука
type IncidentEvent struct {
	Event      EventType        `json:"event"`
	IncidentID int64            `json:"incident_id"`
	Incident   *models.Incident `json:"incident,omitempty"` // отсутствует для incident.deleted
	Timestamp  time.Time        `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в паре с BRPOP воркера дает FIFO
	if err := p.redisClient.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
