package v1

import (
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/shenikar/incident_reporting_service/internal/service"
)

// CreateDTOToInput преобразует DTO создания во входные данные сервиса
func CreateDTOToInput(dto CreateIncidentRequest) service.CreateIncidentInput {
	return service.CreateIncidentInput{
		IncidentType:       dto.IncidentType,
		Description:        dto.Description,
		Location:           dto.Location,
		DateTime:           dto.DateTime,
		SeverityLevel:      dto.SeverityLevel,
		ContactInformation: dto.ContactInformation,
	}
}

// UpdateDTOToInput преобразует DTO обновления в разреженный патч сервиса
func UpdateDTOToInput(dto UpdateIncidentRequest) service.UpdateIncidentInput {
	return service.UpdateIncidentInput{
		IncidentType:       dto.IncidentType,
		Description:        dto.Description,
		Location:           dto.Location,
		DateTime:           dto.DateTime,
		SeverityLevel:      dto.SeverityLevel,
		ContactInformation: dto.ContactInformation,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                 model.ID,
		IncidentType:       model.IncidentType,
		Description:        model.Description,
		Location:           model.Location,
		DateTime:           model.DateTime,
		SeverityLevel:      model.SeverityLevel,
		ContactInformation: model.ContactInformation,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}
