package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	DurationMinutes  int    `json:"duration_minutes" binding:"required,min=1"`
	BufferMinutes    int    `json:"buffer_minutes" binding:"min=0"`
	PriceCents       int64  `json:"price_cents" binding:"min=0"`
	DepositCents     int64  `json:"deposit_cents" binding:"min=0"`
	DepositPercent   int    `json:"deposit_percent" binding:"min=0,max=100"`
	EligibleStaffIDs []uint `json:"eligible_staff_ids"`
}

type UpdateServiceRequest struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	Category         *string `json:"category,omitempty"`
	DurationMinutes  *int    `json:"duration_minutes,omitempty"`
	BufferMinutes    *int    `json:"buffer_minutes,omitempty"`
	PriceCents       *int64  `json:"price_cents,omitempty"`
	DepositCents     *int64  `json:"deposit_cents,omitempty"`
	DepositPercent   *int    `json:"deposit_percent,omitempty"`
	EligibleStaffIDs *[]uint `json:"eligible_staff_ids,omitempty"`
	Active           *bool   `json:"active,omitempty"`
}

// validStaffIDs reports whether every id is a staff member of the salon.
func (h *ServiceHandler) validStaffIDs(c *gin.Context, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Staff{}).
		Where("salon_id = ? AND id IN ?", salonID(c), ids).
		Count(&count).Error
	return count == int64(len(ids)), err
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID(c))

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	ok, err := h.validStaffIDs(c, req.EligibleStaffIDs)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !ok {
		httperr.NotFound(c, "staff_not_found", "Staff member not found.")
		return
	}

	eligible := req.EligibleStaffIDs
	if eligible == nil {
		eligible = []uint{}
	}

	service := models.Service{
		SalonID:          salonID(c),
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		Category:         strings.ToLower(req.Category),
		DurationMinutes:  req.DurationMinutes,
		BufferMinutes:    req.BufferMinutes,
		PriceCents:       req.PriceCents,
		DepositCents:     req.DepositCents,
		DepositPercent:   req.DepositPercent,
		EligibleStaffIDs: datatypes.NewJSONType(eligible),
		Active:           true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID(c)).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Category != nil {
		service.Category = strings.ToLower(*req.Category)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 1 {
			httperr.BadRequest(c, "invalid_duration", "Invalid service duration.")
			return
		}
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.BufferMinutes != nil {
		if *req.BufferMinutes < 0 {
			httperr.BadRequest(c, "invalid_duration", "Invalid service duration.")
			return
		}
		service.BufferMinutes = *req.BufferMinutes
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			httperr.BadRequest(c, "invalid_price", "Invalid price.")
			return
		}
		service.PriceCents = *req.PriceCents
	}
	if req.DepositCents != nil {
		service.DepositCents = *req.DepositCents
	}
	if req.DepositPercent != nil {
		if *req.DepositPercent < 0 || *req.DepositPercent > 100 {
			httperr.BadRequest(c, "invalid_price", "Invalid price.")
			return
		}
		service.DepositPercent = *req.DepositPercent
	}
	if req.EligibleStaffIDs != nil {
		ok, err := h.validStaffIDs(c, *req.EligibleStaffIDs)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if !ok {
			httperr.NotFound(c, "staff_not_found", "Staff member not found.")
			return
		}
		service.EligibleStaffIDs = datatypes.NewJSONType(*req.EligibleStaffIDs)
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}
