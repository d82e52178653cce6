package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/askarbek/maintdesk/internal/excel"
	"github.com/askarbek/maintdesk/internal/http/middleware"
	"github.com/askarbek/maintdesk/internal/model"
	"github.com/askarbek/maintdesk/internal/service"
)

type createRequestBody struct {
	Subject              string `json:"subject" binding:"required"`
	Description          string `json:"description"`
	RequestType          string `json:"request_type" binding:"required"`
	EquipmentID          string `json:"equipment_id" binding:"required"`
	ScheduledDate        string `json:"scheduled_date"`
	AssignedTechnicianID string `json:"assigned_technician_id"`
	Notes                string `json:"notes"`
}

func (h *Handler) createRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipmentID, err := uuid.Parse(body.EquipmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment_id"})
		return
	}

	input := service.CreateRequestInput{
		Subject:     body.Subject,
		Description: body.Description,
		RequestType: model.RequestType(body.RequestType),
		EquipmentID: equipmentID,
		Notes:       body.Notes,
	}
	if body.ScheduledDate != "" {
		date, err := parseDate(body.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_date"})
			return
		}
		input.ScheduledDate = &date
	}
	technicianID, err := parseOptionalUUID(body.AssignedTechnicianID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_technician_id"})
		return
	}
	input.AssignedTechnicianID = technicianID

	if principal, ok := middleware.MustPrincipal(c); ok {
		input.CreatedBy = &principal.UserID
	}

	request, err := h.requests.CreateRequest(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRequestResponse(*request))
}

func (h *Handler) listRequests(c *gin.Context) {
	var filter model.RequestFilter
	if raw := c.Query("stage"); raw != "" {
		stage := model.Stage(raw)
		if !stage.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage"})
			return
		}
		filter.Stage = &stage
	}
	if raw := c.Query("type"); raw != "" {
		requestType := model.RequestType(raw)
		if !requestType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
			return
		}
		filter.RequestType = &requestType
	}
	equipmentID, err := parseOptionalUUID(c.Query("equipment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment_id"})
		return
	}
	filter.EquipmentID = equipmentID
	teamID, err := parseOptionalUUID(c.Query("team_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	filter.TeamID = teamID

	requests, err := h.requests.ListRequests(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": toRequestResponses(requests)})
}

func (h *Handler) getRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	request, err := h.requests.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(*request))
}

type updateRequestBody struct {
	Subject              *string `json:"subject"`
	Description          *string `json:"description"`
	Notes                *string `json:"notes"`
	ScheduledDate        *string `json:"scheduled_date"`
	AssignedTechnicianID *string `json:"assigned_technician_id"`
}

func (h *Handler) updateRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body updateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := model.RequestUpdate{
		Subject:     body.Subject,
		Description: body.Description,
		Notes:       body.Notes,
	}
	if body.ScheduledDate != nil {
		date, err := parseDate(*body.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_date"})
			return
		}
		update.ScheduledDate = &date
	}
	if body.AssignedTechnicianID != nil {
		technicianID, err := uuid.Parse(*body.AssignedTechnicianID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_technician_id"})
			return
		}
		update.AssignedTechnicianID = &technicianID
	}

	request, err := h.requests.UpdateRequest(c.Request.Context(), id, update)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(*request))
}

type statusUpdateBody struct {
	Stage         string   `json:"stage" binding:"required"`
	DurationHours *float64 `json:"duration_hours"`
}

func (h *Handler) updateRequestStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body statusUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requests.TransitionStage(c.Request.Context(), id, model.Stage(body.Stage), body.DurationHours)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(*request))
}

func (h *Handler) deleteRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.requests.DeleteRequest(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "maintenance request deleted"})
}

func (h *Handler) calendarParams(c *gin.Context) (int, int, bool) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	return month, year, true
}

func (h *Handler) getCalendar(c *gin.Context) {
	month, year, ok := h.calendarParams(c)
	if !ok {
		return
	}
	page, err := h.requests.GetCalendar(c.Request.Context(), month, year)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month":    page.Month,
		"year":     page.Year,
		"count":    page.Count,
		"requests": toRequestResponses(page.Requests),
	})
}

func (h *Handler) exportCalendar(c *gin.Context) {
	month, year, ok := h.calendarParams(c)
	if !ok {
		return
	}
	result, err := h.requests.ExportCalendar(c.Request.Context(), month, year)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) workOrderPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.requests.BuildWorkOrder(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) importRequests(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	rows, problems, err := excel.ParseRequestRows(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.requests.ImportRequests(c.Request.Context(), rows)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": result.Imported,
		"skipped":  result.Skipped + len(problems),
		"errors":   append(problems, result.Errors...),
	})
}

func (h *Handler) listEquipmentRequests(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	requests, err := h.requests.ListByEquipment(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": toRequestResponses(requests)})
}
