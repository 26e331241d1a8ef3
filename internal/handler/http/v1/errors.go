package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/sirupsen/logrus"
)

// Стабильные идентификаторы ошибок API
const (
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeDuplicateContact = "duplicate_contact"
	CodeTimeout          = "timeout"
	CodeInternal         = "internal_error"
)

var codeStatus = map[string]int{
	CodeValidation:       http.StatusUnprocessableEntity,
	CodeNotFound:         http.StatusNotFound,
	CodeDuplicateContact: http.StatusConflict,
	CodeTimeout:          http.StatusGatewayTimeout,
	CodeInternal:         http.StatusInternalServerError,
}

var codeMessage = map[string]string{
	CodeValidation:       "Request validation failed",
	CodeNotFound:         "Incident not found",
	CodeDuplicateContact: "Contact information is already used by another incident",
	CodeTimeout:          "Request timed out",
	CodeInternal:         "Internal server error",
}

// ErrorCode сопоставляет ошибку сервиса со стабильным идентификатором
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return CodeValidation
	case errors.Is(err, models.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, models.ErrDuplicateContact):
		return CodeDuplicateContact
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	}
	return CodeInternal
}

// respondError пишет структурированную ошибку; внутренний текст ошибки клиенту не отдается
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	code := ErrorCode(err)
	resp := ErrorResponse{Code: code, Message: codeMessage[code]}

	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		for _, f := range vErr.Fields {
			resp.Details = append(resp.Details, FieldErrorResponse{Field: f.Field, Message: f.Message})
		}
	}

	if code == CodeInternal || code == CodeTimeout {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Warn("Request rejected")
	}
	c.AbortWithStatusJSON(codeStatus[code], resp)
}

func respondValidation(c *gin.Context, log *logrus.Entry, field, message string) {
	respondError(c, log, models.NewValidationError(models.FieldError{Field: field, Message: message}))
}
