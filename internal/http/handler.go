package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/askarbek/maintdesk/internal/model"
	"github.com/askarbek/maintdesk/internal/service"
)

type Handler struct {
	requests  *service.RequestService
	equipment *service.EquipmentService
	teams     *service.TeamService
	log       zerolog.Logger
}

func NewHandler(
	requests *service.RequestService,
	equipment *service.EquipmentService,
	teams *service.TeamService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		requests:  requests,
		equipment: equipment,
		teams:     teams,
		log:       log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var transitionErr *service.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		allowed := make([]string, 0, len(transitionErr.Allowed))
		for _, stage := range transitionErr.Allowed {
			allowed = append(allowed, string(stage))
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         transitionErr.Error(),
			"current_stage": string(transitionErr.From),
			"target_stage":  string(transitionErr.To),
			"allowed":       allowed,
		})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrEquipmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSerialTaken),
		errors.Is(err, service.ErrTechnicianTaken),
		errors.Is(err, service.ErrEquipmentInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrEquipmentScrapped),
		errors.Is(err, service.ErrDurationRequired),
		errors.Is(err, service.ErrIllegalDelete),
		errors.Is(err, service.ErrInvalidCalendarRange),
		errors.Is(err, service.ErrTechnicianNotInTeam),
		errors.Is(err, service.ErrCannotUnscrap):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

type requestResponse struct {
	ID                   string   `json:"id"`
	Subject              string   `json:"subject"`
	Description          string   `json:"description,omitempty"`
	RequestType          string   `json:"request_type"`
	EquipmentID          string   `json:"equipment_id"`
	Category             string   `json:"category"`
	TeamID               *string  `json:"team_id"`
	AssignedTechnicianID *string  `json:"assigned_technician_id"`
	ScheduledDate        *string  `json:"scheduled_date"`
	DurationHours        *float64 `json:"duration_hours"`
	Stage                string   `json:"stage"`
	Overdue              bool     `json:"overdue"`
	Notes                string   `json:"notes,omitempty"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
	CompletedAt          *string  `json:"completed_at"`
}

func toRequestResponse(request model.MaintenanceRequest) requestResponse {
	resp := requestResponse{
		ID:            request.ID.String(),
		Subject:       request.Subject,
		Description:   request.Description,
		RequestType:   string(request.RequestType),
		EquipmentID:   request.EquipmentID.String(),
		Category:      request.Category,
		DurationHours: request.DurationHours,
		Stage:         string(request.Stage),
		Overdue:       request.Overdue,
		Notes:         request.Notes,
		CreatedAt:     request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     request.UpdatedAt.Format(time.RFC3339),
	}
	if request.TeamID != nil {
		s := request.TeamID.String()
		resp.TeamID = &s
	}
	if request.AssignedTechnicianID != nil {
		s := request.AssignedTechnicianID.String()
		resp.AssignedTechnicianID = &s
	}
	if request.ScheduledDate != nil {
		s := request.ScheduledDate.Format("2006-01-02")
		resp.ScheduledDate = &s
	}
	if request.CompletedAt != nil {
		s := request.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

func toRequestResponses(requests []model.MaintenanceRequest) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, toRequestResponse(request))
	}
	return out
}

type equipmentResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	SerialNumber     string  `json:"serial_number"`
	Category         string  `json:"category"`
	PurchaseDate     string  `json:"purchase_date"`
	WarrantyExpiry   string  `json:"warranty_expiry"`
	Department       string  `json:"department"`
	AssignedEmployee *string `json:"assigned_employee"`
	TeamID           *string `json:"team_id"`
	Location         string  `json:"location"`
	IsScrapped       bool    `json:"is_scrapped"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toEquipmentResponse(eq model.Equipment) equipmentResponse {
	resp := equipmentResponse{
		ID:               eq.ID.String(),
		Name:             eq.Name,
		SerialNumber:     eq.SerialNumber,
		Category:         eq.Category,
		PurchaseDate:     eq.PurchaseDate.Format("2006-01-02"),
		WarrantyExpiry:   eq.WarrantyExpiry.Format("2006-01-02"),
		Department:       eq.Department,
		AssignedEmployee: eq.AssignedEmployee,
		Location:         eq.Location,
		IsScrapped:       eq.IsScrapped,
		CreatedAt:        eq.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        eq.UpdatedAt.Format(time.RFC3339),
	}
	if eq.TeamID != nil {
		s := eq.TeamID.String()
		resp.TeamID = &s
	}
	return resp
}

type teamResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Technicians []string `json:"technicians"`
	TeamSize    int      `json:"team_size"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toTeamResponse(team model.MaintenanceTeam) teamResponse {
	technicians := make([]string, 0, len(team.Technicians))
	for _, id := range team.Technicians {
		technicians = append(technicians, id.String())
	}
	return teamResponse{
		ID:          team.ID.String(),
		Name:        team.Name,
		Technicians: technicians,
		TeamSize:    len(technicians),
		CreatedAt:   team.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   team.UpdatedAt.Format(time.RFC3339),
	}
}
