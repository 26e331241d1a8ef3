package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/shenikar/incident_reporting_service/internal/service"
	"github.com/shenikar/incident_reporting_service/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*mocks.MockIncidentService, *gin.Engine, *Metrics) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)
	logger := newTestLogger()

	gin.SetMode(gin.TestMode)
	metrics := NewMetrics(prometheus.NewRegistry())
	router := NewRouter(NewHandler(mockService, logger), logger, metrics, []string{"*"})

	return mockService, router, metrics
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func strPtr(s string) *string { return &s }

func TestCreateIncident_Success(t *testing.T) {
	mockService, router, _ := newTestHandler(t)
	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	reqBody := CreateIncidentRequest{
		IncidentType:       "Fire",
		Description:        "Kitchen fire",
		Location:           "Bldg A",
		DateTime:           strPtr("2025-01-01T10:00:00Z"),
		SeverityLevel:      "high",
		ContactInformation: strPtr("a@x.com"),
	}

	mockService.EXPECT().
		CreateIncident(gomock.Any(), CreateDTOToInput(reqBody)).
		Return(&models.Incident{
			ID:                 1,
			IncidentType:       "Fire",
			Description:        "Kitchen fire",
			Location:           "Bldg A",
			DateTime:           &ts,
			SeverityLevel:      "high",
			ContactInformation: strPtr("a@x.com"),
		}, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"incident_type": "Fire",
		"description": "Kitchen fire",
		"location": "Bldg A",
		"date_time": "2025-01-01T10:00:00Z",
		"severity_level": "high",
		"contact_information": "a@x.com"
	}`, w.Body.String())
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"incident_type": "Fire"`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeValidation, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "body", resp.Details[0].Field)
}

func TestCreateIncident_ValidationError(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: invalid incident: %w", models.NewValidationError(
			models.FieldError{Field: "incident_type", Message: "is required"},
		))).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"description": "d"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeValidation, resp.Code)
	assert.Equal(t, []FieldErrorResponse{{Field: "incident_type", Message: "is required"}}, resp.Details)
}

func TestCreateIncident_Duplicate(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: could not create incident: %w", models.ErrDuplicateContact)).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeDuplicateContact, decodeError(t, w).Code)
}

func TestCreateIncident_ServiceError(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("pq: connection refused on 10.0.0.5")).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeInternal, resp.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestGetIncident_Success(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		GetIncident(gomock.Any(), int64(7)).
		Return(&models.Incident{ID: 7, IncidentType: "Flood"}, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Nil(t, resp.DateTime)
	assert.Contains(t, w.Body.String(), `"contact_information":null`)
}

func TestGetIncident_InvalidID(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/abc", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, CodeValidation, decodeError(t, w).Code)
}

func TestGetIncident_NotFound(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		GetIncident(gomock.Any(), int64(42)).
		Return(nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeNotFound, resp.Code)
	assert.Equal(t, "Incident not found", resp.Message)
}

func TestGetIncident_Timeout(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		GetIncident(gomock.Any(), int64(1)).
		Return(nil, fmt.Errorf("failed to get incident by id: %w", context.DeadlineExceeded)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/1", nil)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, CodeTimeout, decodeError(t, w).Code)
}

func TestListIncidents_Success(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		ListIncidents(gomock.Any(), 5, 10).
		Return([]*models.Incident{{ID: 6}, {ID: 7}}, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?skip=5&limit=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(6), resp[0].ID)
}

func TestListIncidents_Defaults(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		ListIncidents(gomock.Any(), 0, service.DefaultListLimit).
		Return([]*models.Incident{}, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListIncidents_InvalidQuery(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().ListIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents?limit=ten", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "limit", decodeError(t, w).Details[0].Field)
}

func TestUpdateIncident_Success(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		UpdateIncident(gomock.Any(), int64(3), service.UpdateIncidentInput{SeverityLevel: strPtr("low")}).
		Return(&models.Incident{ID: 3, SeverityLevel: "low"}, nil).
		Times(1)

	w := makeRequest(router, "PUT", "/api/v1/incidents/3", bytes.NewBufferString(`{"severity_level": "low", "location": null}`))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "low", resp.SeverityLevel)
}

func TestUpdateIncident_NotFound(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		UpdateIncident(gomock.Any(), int64(3), gomock.Any()).
		Return(nil, fmt.Errorf("service: could not update incident: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "PUT", "/api/v1/incidents/3", bytes.NewBufferString(`{"severity_level": "low"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateIncident_InvalidBody(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", "/api/v1/incidents/3", bytes.NewBufferString(`{"severity_level": 5}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteIncident_Success(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().DeleteIncident(gomock.Any(), int64(9)).Return(nil).Times(1)

	w := makeRequest(router, "DELETE", "/api/v1/incidents/9", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Incident deleted successfully"}`, w.Body.String())
}

func TestDeleteIncident_NotFound(t *testing.T) {
	mockService, router, _ := newTestHandler(t)

	mockService.EXPECT().
		DeleteIncident(gomock.Any(), int64(9)).
		Return(fmt.Errorf("service: could not delete incident: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "DELETE", "/api/v1/incidents/9", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	_, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/health", nil, map[string]string{requestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))

	w = makeRequest(router, "GET", "/api/v1/health", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware_AllowsAnyOrigin(t *testing.T) {
	_, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/health", nil, map[string]string{"Origin": "http://frontend.local"})

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware_CountsByRoute(t *testing.T) {
	mockService, router, metrics := newTestHandler(t)

	mockService.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Return(&models.Incident{ID: 1}, nil).Times(2)

	makeRequest(router, "GET", "/api/v1/incidents/1", nil)
	makeRequest(router, "GET", "/api/v1/incidents/2", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "/api/v1/incidents/:id", "200")))
}
