package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/incident_reporting_service/internal/config"
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/shenikar/incident_reporting_service/internal/webhook"
	"github.com/sirupsen/logrus"
)

const (
	DefaultListLimit = 100
	DefaultMaxLimit  = 1000
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, fields models.IncidentFields) (*models.Incident, error)
	GetByID(ctx context.Context, id int64) (*models.Incident, error)
	List(ctx context.Context, offset, limit int) ([]*models.Incident, error)
	Update(ctx context.Context, id int64, patch models.IncidentPatch) (*models.Incident, error)
	Delete(ctx context.Context, id int64) error
}

// IncidentCache определяет контракт кеша инцидентов по id
type IncidentCache interface {
	Get(ctx context.Context, id int64) (*models.Incident, error)
	Set(ctx context.Context, incident *models.Incident) error
	Invalidate(ctx context.Context, id int64) error
	// MarkDeleted заменяет запись маркером удаления, чтобы запоздавший Set не вернул удаленный инцидент
	MarkDeleted(ctx context.Context, id int64) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, input CreateIncidentInput) (*models.Incident, error)
	GetIncident(ctx context.Context, id int64) (*models.Incident, error)
	ListIncidents(ctx context.Context, skip, limit int) ([]*models.Incident, error)
	UpdateIncident(ctx context.Context, id int64, input UpdateIncidentInput) (*models.Incident, error)
	DeleteIncident(ctx context.Context, id int64) error
}

type incidentService struct {
	repo      IncidentRepository
	cache     IncidentCache
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger
	validate  *validator.Validate
	maxLimit  int
}

// NewIncidentService создает сервис; cache и publisher могут быть nil
func NewIncidentService(repo IncidentRepository, cache IncidentCache, logger *logrus.Logger, cfg *config.Config, publisher webhook.WebhookPublisher) IncidentService {
	maxLimit := DefaultMaxLimit
	if cfg != nil && cfg.ListMaxLimit > 0 {
		maxLimit = cfg.ListMaxLimit
	}
	return &incidentService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		validate:  newValidator(),
		maxLimit:  maxLimit,
	}
}

// CreateIncident проверяет запрос и создает инцидент
func (s *incidentService) CreateIncident(ctx context.Context, input CreateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "incident",
		"method":        "CreateIncident",
		"incident_type": input.IncidentType,
	})
	log.Info("Attempting to create a new incident")

	fields, err := s.prepareCreate(input)
	if err != nil {
		log.WithError(err).Warn("Incident create request is invalid")
		return nil, fmt.Errorf("service: invalid incident: %w", err)
	}

	incident, err := s.repo.Create(ctx, fields)
	if err != nil {
		logFailure(log, err, "Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	s.publish(ctx, log, webhook.EventIncidentCreated, incident.ID, incident)
	return incident, nil
}

// GetIncident получает инцидент по ID
func (s *incidentService) GetIncident(ctx context.Context, id int64) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to read incident from cache")
		} else if cached != nil {
			log.Debug("Incident served from cache")
			return cached, nil
		}
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFailure(log, err, "Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, incident); err != nil {
			log.WithError(err).Warn("Failed to store incident in cache")
		}
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// ListIncidents возвращает инциденты по возрастанию id
func (s *incidentService) ListIncidents(ctx context.Context, skip, limit int) ([]*models.Incident, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"skip":    skip,
		"limit":   limit,
	})
	log.Info("Listing incidents")

	incidents, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// UpdateIncident применяет разреженный патч к инциденту
func (s *incidentService) UpdateIncident(ctx context.Context, id int64, input UpdateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": id,
	})
	log.Info("Attempting to update incident")

	patch, err := s.preparePatch(input)
	if err != nil {
		log.WithError(err).Warn("Incident update request is invalid")
		return nil, fmt.Errorf("service: invalid incident patch: %w", err)
	}

	incident, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		logFailure(log, err, "Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}

	s.invalidate(ctx, log, id)
	log.Info("Incident updated successfully")
	s.publish(ctx, log, webhook.EventIncidentUpdated, incident.ID, incident)
	return incident, nil
}

// DeleteIncident безвозвратно удаляет инцидент
func (s *incidentService) DeleteIncident(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
	})
	log.Info("Attempting to delete incident")

	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(log, err, "Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}

	s.markDeleted(ctx, log, id)
	log.Info("Incident deleted successfully")
	s.publish(ctx, log, webhook.EventIncidentDeleted, id, nil)
	return nil
}

func (s *incidentService) invalidate(ctx context.Context, log *logrus.Entry, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

func (s *incidentService) markDeleted(ctx context.Context, log *logrus.Entry, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkDeleted(context.WithoutCancel(ctx), id); err != nil {
		log.WithError(err).Warn("Failed to mark incident as deleted in cache")
	}
}

// publish отправляет событие; ошибка публикации не влияет на результат операции
func (s *incidentService) publish(ctx context.Context, log *logrus.Entry, event webhook.EventType, id int64, incident *models.Incident) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(context.WithoutCancel(ctx), webhook.IncidentEvent{
		Event:      event,
		IncidentID: id,
		Incident:   incident,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		log.WithError(err).WithField("event", event).Warn("Failed to publish incident event")
	}
}

// logFailure пишет доменные ошибки в Warn, инфраструктурные в Error
func logFailure(log *logrus.Entry, err error, msg string) {
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrDuplicateContact) {
		log.WithError(err).Warn(msg)
		return
	}
	log.WithError(err).Error(msg)
}
