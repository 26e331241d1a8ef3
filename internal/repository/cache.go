package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/shenikar/incident_reporting_service/internal/service"
)

type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(redisClient *redis.Client, ttl time.Duration) service.IncidentCache {
	return &IncidentCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// deletedMarker не может совпасть с JSON объектом инцидента
const deletedMarker = "deleted"

// setUnlessDeleted не перезаписывает маркер удаления
var setUnlessDeleted = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

func incidentCacheKey(id int64) string {
	return fmt.Sprintf("incident:%d", id)
}

// Get пытается получить инцидент из Redis; промах кеша возвращает nil, nil
func (c *IncidentCache) Get(ctx context.Context, id int64) (*models.Incident, error) {
	val, err := c.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}
	if string(val) == deletedMarker {
		return nil, nil
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// Set сохраняет инцидент в Redis, если id не помечен как удаленный
func (c *IncidentCache) Set(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	err = setUnlessDeleted.Run(ctx, c.redisClient, []string{incidentCacheKey(incident.ID)},
		val, deletedMarker, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// Invalidate удаляет инцидент из Redis кеша
func (c *IncidentCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

// MarkDeleted записывает маркер удаления; id не переиспользуются, поэтому маркер живет весь TTL
func (c *IncidentCache) MarkDeleted(ctx context.Context, id int64) error {
	if err := c.redisClient.Set(ctx, incidentCacheKey(id), deletedMarker, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark incident as deleted in cache: %w", err)
	}
	return nil
}
