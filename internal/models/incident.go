package models

import (
	"time"
)

// Максимальные длины текстовых полей инцидента (в символах)
const (
	MaxIncidentTypeLen       = 100
	MaxDescriptionLen        = 1000
	MaxLocationLen           = 255
	MaxSeverityLevelLen      = 50
	MaxContactInformationLen = 150
)

// Incident - сохраненный инцидент
type Incident struct {
	ID                 int64      `json:"id"`
	IncidentType       string     `json:"incident_type"`
	Description        string     `json:"description"`
	Location           string     `json:"location"`
	DateTime           *time.Time `json:"date_time"`
	SeverityLevel      string     `json:"severity_level"`
	ContactInformation *string    `json:"contact_information"`
}

// IncidentFields - проверенные данные для создания инцидента
type IncidentFields struct {
	IncidentType       string
	Description        string
	Location           string
	DateTime           *time.Time
	SeverityLevel      string
	ContactInformation *string
}

// IncidentPatch - частичное обновление инцидента.
// nil-поле означает, что сохраненное значение не меняется.
// ContactInformation, указывающий на пустую строку, очищает контакт.
type IncidentPatch struct {
	IncidentType       *string
	Description        *string
	Location           *string
	DateTime           *time.Time
	SeverityLevel      *string
	ContactInformation *string
}

// IsEmpty сообщает, что патч не меняет ни одного поля
func (p IncidentPatch) IsEmpty() bool {
	return p.IncidentType == nil &&
		p.Description == nil &&
		p.Location == nil &&
		p.DateTime == nil &&
		p.SeverityLevel == nil &&
		p.ContactInformation == nil
}
