package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/dbtest"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func catalogRouter(conn *gorm.DB, salonID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSalonID, salonID)
		c.Set(middleware.ContextUserID, uint(1))
		c.Next()
	})

	staff := NewStaffHandler(conn)
	services := NewServiceHandler(conn)
	r.GET("/staff", staff.List)
	r.POST("/staff", staff.Create)
	r.PATCH("/staff/:id", staff.Update)
	r.GET("/services", services.List)
	r.POST("/services", services.Create)
	r.PATCH("/services/:id", services.Update)
	return r
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error_code"]
}

func TestStaffCreateNormalizesPhone(t *testing.T) {
	conn := dbtest.Open(t)
	salon := dbtest.Salon(t, conn, "s1")
	r := catalogRouter(conn, salon.ID)

	w := send(r, http.MethodPost, "/staff", map[string]any{"name": "Ana", "phone": "+1 (555) 010-2030"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var staff models.Staff
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &staff))
	assert.Equal(t, "+15550102030", staff.Phone)
	assert.True(t, staff.Active)
	assert.Equal(t, salon.ID, staff.SalonID)

	w = send(r, http.MethodPost, "/staff", map[string]any{"name": "Bruno", "phone": "call me"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_phone", errorCode(t, w))
}

func TestStaffEmailIsValidatedOnBind(t *testing.T) {
	conn := dbtest.Open(t)
	salon := dbtest.Salon(t, conn, "s1")
	r := catalogRouter(conn, salon.ID)

	w := send(r, http.MethodPost, "/staff", map[string]any{"name": "Ana", "email": "ana@salon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(t, w))

	w = send(r, http.MethodPost, "/staff", map[string]any{"name": "Ana", "email": "ana@salon.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var staff models.Staff
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &staff))
	assert.Equal(t, "ana@salon.com", staff.Email)

	path := fmt.Sprintf("/staff/%d", staff.ID)
	w = send(r, http.MethodPatch, path, map[string]any{"email": "not an email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(t, w))

	w = send(r, http.MethodPatch, path, map[string]any{"email": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Staff
	require.NoError(t, conn.First(&stored, staff.ID).Error)
	assert.Empty(t, stored.Email)
}

func TestStaffUpdateScopedToSalon(t *testing.T) {
	conn := dbtest.Open(t)
	mine := dbtest.Salon(t, conn, "s1")
	other := dbtest.Salon(t, conn, "s2")
	foreign := dbtest.Staff(t, conn, other.ID, "Carla")
	r := catalogRouter(conn, mine.ID)

	w := send(r, http.MethodPatch, fmt.Sprintf("/staff/%d", foreign.ID), map[string]any{"active": false})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Staff
	require.NoError(t, conn.First(&stored, foreign.ID).Error)
	assert.True(t, stored.Active)
}

func TestServiceEligibleStaffMustBelongToSalon(t *testing.T) {
	conn := dbtest.Open(t)
	mine := dbtest.Salon(t, conn, "s1")
	other := dbtest.Salon(t, conn, "s2")
	ana := dbtest.Staff(t, conn, mine.ID, "Ana")
	foreign := dbtest.Staff(t, conn, other.ID, "Carla")
	r := catalogRouter(conn, mine.ID)

	w := send(r, http.MethodPost, "/services", map[string]any{
		"name": "Color", "duration_minutes": 90, "eligible_staff_ids": []uint{ana.ID, foreign.ID},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "staff_not_found", errorCode(t, w))

	w = send(r, http.MethodPost, "/services", map[string]any{
		"name": "Color", "duration_minutes": 90, "buffer_minutes": 15, "eligible_staff_ids": []uint{ana.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var svc models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &svc))
	assert.Equal(t, []uint{ana.ID}, svc.EligibleStaff())

	w = send(r, http.MethodPatch, fmt.Sprintf("/services/%d", svc.ID), map[string]any{"duration_minutes": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_duration", errorCode(t, w))
}

func TestServiceListFilters(t *testing.T) {
	conn := dbtest.Open(t)
	salon := dbtest.Salon(t, conn, "s1")
	dbtest.Service(t, conn, salon.ID, 30, 0)
	inactive := dbtest.Service(t, conn, salon.ID, 60, 0)
	require.NoError(t, conn.Model(inactive).Update("active", false).Error)
	r := catalogRouter(conn, salon.ID)

	w := send(r, http.MethodGet, "/services?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var services []models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &services))
	require.Len(t, services, 1)
	assert.Equal(t, 30, services[0].DurationMinutes)
}
