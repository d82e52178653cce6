package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/askarbek/maintdesk/internal/model"
	"github.com/askarbek/maintdesk/internal/service"
)

type createEquipmentBody struct {
	Name             string `json:"name" binding:"required"`
	SerialNumber     string `json:"serial_number" binding:"required"`
	Category         string `json:"category" binding:"required"`
	PurchaseDate     string `json:"purchase_date" binding:"required"`
	WarrantyExpiry   string `json:"warranty_expiry" binding:"required"`
	Department       string `json:"department" binding:"required"`
	AssignedEmployee string `json:"assigned_employee"`
	TeamID           string `json:"team_id"`
	Location         string `json:"location" binding:"required"`
}

func (h *Handler) createEquipment(c *gin.Context) {
	var body createEquipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := parseDate(body.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase_date"})
		return
	}
	warrantyExpiry, err := parseDate(body.WarrantyExpiry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid warranty_expiry"})
		return
	}
	teamID, err := parseOptionalUUID(body.TeamID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}

	input := service.CreateEquipmentInput{
		Name:           body.Name,
		SerialNumber:   body.SerialNumber,
		Category:       body.Category,
		PurchaseDate:   purchaseDate,
		WarrantyExpiry: warrantyExpiry,
		Department:     body.Department,
		TeamID:         teamID,
		Location:       body.Location,
	}
	if body.AssignedEmployee != "" {
		input.AssignedEmployee = &body.AssignedEmployee
	}

	equipment, err := h.equipment.CreateEquipment(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEquipmentResponse(*equipment))
}

func (h *Handler) listEquipment(c *gin.Context) {
	var filter model.EquipmentFilter
	if raw := c.Query("department"); raw != "" {
		filter.Department = &raw
	}
	if raw := c.Query("category"); raw != "" {
		filter.Category = &raw
	}
	if raw := c.Query("scrapped"); raw != "" {
		scrapped, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scrapped"})
			return
		}
		filter.Scrapped = &scrapped
	}
	teamID, err := parseOptionalUUID(c.Query("team_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	filter.TeamID = teamID

	equipment, err := h.equipment.ListEquipment(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]equipmentResponse, 0, len(equipment))
	for _, eq := range equipment {
		out = append(out, toEquipmentResponse(eq))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "equipment": out})
}

func (h *Handler) getEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	equipment, err := h.equipment.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEquipmentResponse(*equipment))
}

type updateEquipmentBody struct {
	Name             *string `json:"name"`
	SerialNumber     *string `json:"serial_number"`
	Category         *string `json:"category"`
	PurchaseDate     *string `json:"purchase_date"`
	WarrantyExpiry   *string `json:"warranty_expiry"`
	Department       *string `json:"department"`
	AssignedEmployee *string `json:"assigned_employee"`
	TeamID           *string `json:"team_id"`
	Location         *string `json:"location"`
	IsScrapped       *bool   `json:"is_scrapped"`
}

func (h *Handler) updateEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body updateEquipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := model.EquipmentUpdate{
		Name:             body.Name,
		SerialNumber:     body.SerialNumber,
		Category:         body.Category,
		Department:       body.Department,
		AssignedEmployee: body.AssignedEmployee,
		Location:         body.Location,
		IsScrapped:       body.IsScrapped,
	}
	var err error
	if update.PurchaseDate, err = parseDateField(c, body.PurchaseDate, "purchase_date"); err != nil {
		return
	}
	if update.WarrantyExpiry, err = parseDateField(c, body.WarrantyExpiry, "warranty_expiry"); err != nil {
		return
	}
	if body.TeamID != nil {
		teamID, err := uuid.Parse(*body.TeamID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
			return
		}
		update.TeamID = &teamID
	}

	equipment, err := h.equipment.UpdateEquipment(c.Request.Context(), id, update)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEquipmentResponse(*equipment))
}

func parseDateField(c *gin.Context, raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	date, err := parseDate(*raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return nil, err
	}
	return &date, nil
}

func (h *Handler) deleteEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.equipment.DeleteEquipment(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "equipment deleted"})
}

func (h *Handler) warrantyStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	status, err := h.equipment.WarrantyStatus(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"equipment_id":    status.EquipmentID.String(),
		"warranty_expiry": status.WarrantyExpiry.Format("2006-01-02"),
		"expired":         status.Expired,
		"days_remaining":  status.DaysRemaining,
	})
}
