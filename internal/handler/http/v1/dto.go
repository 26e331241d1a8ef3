package v1

import (
	"time"
)

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	IncidentType       string  `json:"incident_type" example:"Fire"`
	Description        string  `json:"description" example:"Kitchen fire"`
	Location           string  `json:"location" example:"Bldg A"`
	DateTime           *string `json:"date_time" example:"2025-01-01T10:00:00Z"`
	SeverityLevel      string  `json:"severity_level" example:"high"`
	ContactInformation *string `json:"contact_information" example:"a@x.com"`
}

// UpdateIncidentRequest DTO для частичного обновления инцидента; отсутствующие и null поля не меняются
// @Description DTO для частичного обновления инцидента
type UpdateIncidentRequest struct {
	IncidentType       *string `json:"incident_type,omitempty"`
	Description        *string `json:"description,omitempty"`
	Location           *string `json:"location,omitempty"`
	DateTime           *string `json:"date_time,omitempty"`
	SeverityLevel      *string `json:"severity_level,omitempty" example:"low"`
	ContactInformation *string `json:"contact_information,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                 int64      `json:"id" example:"1"`
	IncidentType       string     `json:"incident_type"`
	Description        string     `json:"description"`
	Location           string     `json:"location"`
	DateTime           *time.Time `json:"date_time"`
	SeverityLevel      string     `json:"severity_level"`
	ContactInformation *string    `json:"contact_information"`
}

// FieldErrorResponse описывает ошибку одного поля
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse DTO для ответа с ошибкой
// @Description DTO для ответа с ошибкой
type ErrorResponse struct {
	Code    string               `json:"code" example:"not_found"`
	Message string               `json:"message" example:"Incident not found"`
	Details []FieldErrorResponse `json:"details,omitempty"`
}

// MessageResponse DTO для подтверждения операции
type MessageResponse struct {
	Message string `json:"message" example:"Incident deleted successfully"`
}
