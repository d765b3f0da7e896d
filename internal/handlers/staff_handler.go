package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}

type UpdateStaffRequest struct {
	Name        *string `json:"name,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Role        *string `json:"role,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *StaffHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID(c))

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var staff []models.Staff
	if err := q.Order("id ASC").Find(&staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	phone := ""
	if strings.TrimSpace(req.Phone) != "" {
		if phone = validators.NormalizePhone(req.Phone); phone == "" {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
	}

	staff := models.Staff{
		SalonID:     salonID(c),
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       phone,
		Role:        strings.ToLower(strings.TrimSpace(req.Role)),
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, staff)
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	var staff models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID(c)).
		First(&staff).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Staff member not found.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	if req.Name != nil {
		staff.Name = strings.TrimSpace(*req.Name)
	}
	if req.DisplayName != nil {
		staff.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Email != nil {
		staff.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		staff.Phone = validators.NormalizePhone(*req.Phone)
		if staff.Phone == "" && strings.TrimSpace(*req.Phone) != "" {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
	}
	if req.Role != nil {
		staff.Role = strings.ToLower(strings.TrimSpace(*req.Role))
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if staff.Name == "" {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}
