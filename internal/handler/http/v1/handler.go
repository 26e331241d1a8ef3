package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/incident_reporting_service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
	}
}

func (h *Handler) requestLog(c *gin.Context, method string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"method":     method,
		"request_id": c.GetString(requestIDKey),
	})
}

// @Summary Create a new incident
// @Description Create a new incident report.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 409 {object} ErrorResponse "Contact information already in use"
// @Failure 422 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.requestLog(c, "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, log, "body", "invalid request body")
		return
	}

	incident, err := h.incidentService.CreateIncident(c.Request.Context(), CreateDTOToInput(input))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Get a list of incidents
// @Description Get incidents ordered by id with offset pagination.
// @Tags Incidents
// @Produce json
// @Param skip query int false "Number of incidents to skip" default(0)
// @Param limit query int false "Maximum number of incidents" default(100)
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.requestLog(c, "listIncidents")
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		respondValidation(c, log, "skip", "must be an integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultListLimit)))
	if err != nil {
		respondValidation(c, log, "limit", "must be an integer")
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 422 {object} ErrorResponse "Invalid incident ID"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	log := h.requestLog(c, "getIncident")
	id, ok := parseID(c, log)
	if !ok {
		return
	}

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		respondError(c, log.WithField("id", id), err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update an existing incident
// @Description Apply a partial update; absent or null fields keep their stored values.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Contact information already in use"
// @Failure 422 {object} ErrorResponse "Invalid incident ID or request body"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	log := h.requestLog(c, "updateIncident")
	id, ok := parseID(c, log)
	if !ok {
		return
	}
	log = log.WithField("id", id)

	var input UpdateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, log, "body", "invalid request body")
		return
	}

	incident, err := h.incidentService.UpdateIncident(c.Request.Context(), id, UpdateDTOToInput(input))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Delete an incident
// @Description Permanently delete an incident by its ID.
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 422 {object} ErrorResponse "Invalid incident ID"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	log := h.requestLog(c, "deleteIncident")
	id, ok := parseID(c, log)
	if !ok {
		return
	}

	if err := h.incidentService.DeleteIncident(c.Request.Context(), id); err != nil {
		respondError(c, log.WithField("id", id), err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Incident deleted successfully"})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseID(c *gin.Context, log *logrus.Entry) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, log, "id", "must be an integer")
		return 0, false
	}
	return id, true
}
