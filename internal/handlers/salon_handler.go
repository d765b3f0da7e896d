package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type SalonHandler struct {
	db *gorm.DB
}

func NewSalonHandler(db *gorm.DB) *SalonHandler {
	return &SalonHandler{db: db}
}

type UpdateSalonRequest struct {
	Name                *string `json:"name"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	Timezone            *string `json:"timezone"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes"`
	MinAdvanceMinutes   *int    `json:"min_advance_minutes"`
	SMSNumber           *string `json:"sms_number"`
}

func (h *SalonHandler) load(c *gin.Context) (*models.Salon, bool) {
	var salon models.Salon
	if err := h.db.WithContext(c.Request.Context()).First(&salon, salonID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "salon_not_found", "Salon not found.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &salon, true
}

func (h *SalonHandler) GetMeSalon(c *gin.Context) {
	salon, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, salon)
}

func (h *SalonHandler) UpdateMeSalon(c *gin.Context) {
	salon, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		salon.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		salon.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		salon.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Invalid timezone.")
			return
		}
		salon.Timezone = *req.Timezone
	}
	if req.SlotDurationMinutes != nil {
		if *req.SlotDurationMinutes < 5 || *req.SlotDurationMinutes > 240 {
			httperr.BadRequest(c, "invalid_slot_duration", "Invalid slot duration.")
			return
		}
		salon.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive.")
			return
		}
		salon.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.SMSNumber != nil {
		salon.SMSNumber = validators.NormalizePhone(*req.SMSNumber)
		if salon.SMSNumber == "" && strings.TrimSpace(*req.SMSNumber) != "" {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(salon).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, salon)
}
