package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/incident_reporting_service/internal/models"
)

// Поддерживаемые форматы date_time; значения без зоны считаются UTC
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseDateTime разбирает ISO-8601 метку времени и приводит ее к UTC
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseDateTime(fl.Field().String())
		return err == nil
	})
	return v
}

// toValidationError переводит ошибки validator в models.ValidationError
func toValidationError(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	fields := make([]models.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, models.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return models.NewValidationError(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "timestamp":
		return "must be a valid ISO-8601 timestamp"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// emptyToNil считает пустую строку отсутствующим значением
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *incidentService) prepareCreate(input CreateIncidentInput) (models.IncidentFields, error) {
	input.IncidentType = strings.TrimSpace(input.IncidentType)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.SeverityLevel = strings.TrimSpace(input.SeverityLevel)
	input.DateTime = emptyToNil(trimPtr(input.DateTime))
	input.ContactInformation = emptyToNil(trimPtr(input.ContactInformation))

	if err := s.validate.Struct(input); err != nil {
		return models.IncidentFields{}, toValidationError(err)
	}

	fields := models.IncidentFields{
		IncidentType:       input.IncidentType,
		Description:        input.Description,
		Location:           input.Location,
		SeverityLevel:      input.SeverityLevel,
		ContactInformation: input.ContactInformation,
	}
	if input.DateTime != nil {
		t, err := ParseDateTime(*input.DateTime)
		if err != nil {
			return models.IncidentFields{}, models.NewValidationError(models.FieldError{Field: "date_time", Message: err.Error()})
		}
		fields.DateTime = &t
	}
	return fields, nil
}

func (s *incidentService) preparePatch(input UpdateIncidentInput) (models.IncidentPatch, error) {
	input.IncidentType = trimPtr(input.IncidentType)
	input.Description = trimPtr(input.Description)
	input.Location = trimPtr(input.Location)
	input.SeverityLevel = trimPtr(input.SeverityLevel)
	input.DateTime = emptyToNil(trimPtr(input.DateTime))
	// пустой контакт сохраняется как "" и очищает значение в хранилище
	input.ContactInformation = trimPtr(input.ContactInformation)

	if err := s.validate.Struct(input); err != nil {
		return models.IncidentPatch{}, toValidationError(err)
	}

	patch := models.IncidentPatch{
		IncidentType:       input.IncidentType,
		Description:        input.Description,
		Location:           input.Location,
		SeverityLevel:      input.SeverityLevel,
		ContactInformation: input.ContactInformation,
	}
	if input.DateTime != nil {
		t, err := ParseDateTime(*input.DateTime)
		if err != nil {
			return models.IncidentPatch{}, models.NewValidationError(models.FieldError{Field: "date_time", Message: err.Error()})
		}
		patch.DateTime = &t
	}
	return patch, nil
}
