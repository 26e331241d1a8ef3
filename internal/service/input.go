package service

// CreateIncidentInput - данные запроса на создание инцидента до нормализации
type CreateIncidentInput struct {
	IncidentType       string  `json:"incident_type" validate:"required,max=100"`
	Description        string  `json:"description" validate:"required,max=1000"`
	Location           string  `json:"location" validate:"required,max=255"`
	DateTime           *string `json:"date_time" validate:"omitnil,timestamp"`
	SeverityLevel      string  `json:"severity_level" validate:"required,max=50"`
	ContactInformation *string `json:"contact_information" validate:"omitnil,max=150"`
}

// UpdateIncidentInput - разреженный патч; nil-поля не меняются
type UpdateIncidentInput struct {
	IncidentType       *string `json:"incident_type" validate:"omitnil,min=1,max=100"`
	Description        *string `json:"description" validate:"omitnil,min=1,max=1000"`
	Location           *string `json:"location" validate:"omitnil,min=1,max=255"`
	DateTime           *string `json:"date_time" validate:"omitnil,timestamp"`
	SeverityLevel      *string `json:"severity_level" validate:"omitnil,min=1,max=50"`
	ContactInformation *string `json:"contact_information" validate:"omitnil,max=150"`
}
