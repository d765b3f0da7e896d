package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/dbtest"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

const (
	secret       = "test-secret"
	webhookToken = "hook-token"
)

type server struct {
	t      *testing.T
	engine *gin.Engine
}

func newServer(t *testing.T) (*server, uint, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := dbtest.Open(t)
	salonA := dbtest.Salon(t, conn, "a")
	salonB := dbtest.Salon(t, conn, "b")

	cfg := &config.Config{
		JWTSecret:       secret,
		SMSWebhookToken: webhookToken,
		LockTTLSeconds:  300,
	}

	// Monday 2024-06-03, 08:00 UTC.
	clock := func() time.Time { return time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC) }

	a, err := app.New(cfg, conn, logging.Nop(), clock)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	r := gin.New()
	RegisterRoutes(r, a)
	return &server{t: t, engine: r}, salonA.ID, salonB.ID
}

func token(t *testing.T, salonID uint) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     1,
		"salonId": salonID,
		"role":    "owner",
	})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func (s *server) do(method, path, bearer string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type idBody struct {
	ID uint `json:"id"`
}

func (s *server) seedStaffAndService(bearer string) (uint, uint) {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/staff", bearer, map[string]any{"name": "Ana Souza"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	staff := decode[idBody](s.t, w)

	w = s.do(http.MethodPost, "/api/services", bearer, map[string]any{
		"name":             "Cut",
		"duration_minutes": 30,
		"price_cents":      4500,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	service := decode[idBody](s.t, w)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/staff/%d/working-hours", staff.ID), bearer, map[string]any{
		"days": []map[string]any{
			{"weekday": 0, "working": true, "slots": []map[string]string{{"start": "09:00", "end": "17:00"}}},
		},
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	return staff.ID, service.ID
}

func TestHealthIsPublic(t *testing.T) {
	s, _, _ := newServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	s, _, _ := newServer(t)

	w := s.do(http.MethodGet, "/api/staff", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/staff", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s, salonA, _ := newServer(t)
	bearer := token(t, salonA)
	staffID, serviceID := s.seedStaffAndService(bearer)

	// availability
	w := s.do(http.MethodGet,
		fmt.Sprintf("/api/calendar/availability?date=2024-06-03&service_id=%d", serviceID), bearer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	slots := decode[struct {
		Data []struct {
			Start   time.Time `json:"start"`
			StaffID uint      `json:"staff_id"`
		} `json:"data"`
		Total int `json:"total"`
	}](t, w)
	require.NotEmpty(t, slots.Data)
	assert.True(t, slots.Data[0].Start.Equal(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, staffID, slots.Data[0].StaffID)
	assert.Equal(t, len(slots.Data), slots.Total)

	// lock, then book with the lock
	w = s.do(http.MethodPost, "/api/appointments/lock", bearer, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lk := decode[struct {
		ID string `json:"id"`
	}](t, w)
	require.NotEmpty(t, lk.ID)

	w = s.do(http.MethodPost, "/api/appointments", bearer, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "10:00",
		"client_name": "Maria", "client_phone": "+15550001", "lock_id": lk.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[struct {
		ID      uint   `json:"id"`
		Status  string `json:"status"`
		Version int    `json:"version"`
	}](t, w)
	assert.Equal(t, "confirmed", ap.Status)
	assert.Equal(t, 1, ap.Version)

	// overlapping booking
	w = s.do(http.MethodPost, "/api/appointments", bearer, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "10:15",
		"client_name": "Joana", "client_phone": "+15550002",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_conflict", decode[map[string]string](t, w)["error_code"])

	// stale version
	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/check-in", ap.ID), bearer,
		map[string]any{"expected_version": 7})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "version_mismatch", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/check-in", ap.ID), bearer,
		map[string]any{"expected_version": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// check-in cannot go back to confirmed
	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", ap.ID), bearer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_transition", decode[map[string]string](t, w)["error_code"])

	// day view
	w = s.do(http.MethodGet, "/api/calendar?date=2024-06-03", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[struct {
		Total int `json:"total"`
	}](t, w)
	assert.Equal(t, 1, day.Total)
}

func TestTenantIsolation(t *testing.T) {
	s, salonA, salonB := newServer(t)
	bearerA := token(t, salonA)
	bearerB := token(t, salonB)
	staffID, serviceID := s.seedStaffAndService(bearerA)

	w := s.do(http.MethodPost, "/api/appointments", bearerA, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "11:00",
		"client_name": "Maria", "client_phone": "+15550001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[idBody](t, w)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/appointments/%d", ap.ID), bearerB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/staff/%d/working-hours", staffID), bearerB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/appointments", bearerB, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "12:00",
		"client_name": "Eve", "client_phone": "+15550009",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/clients", bearerB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSMSWebhookRequiresToken(t *testing.T) {
	s, salonA, _ := newServer(t)
	bearer := token(t, salonA)
	staffID, serviceID := s.seedStaffAndService(bearer)

	w := s.do(http.MethodPost, "/api/appointments", bearer, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "11:00",
		"client_name": "Maria", "client_phone": "(555) 000-1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	msg := map[string]string{"to": dbtest.SMSNumber("a"), "from": "5550001234", "body": "hello"}

	w = s.do(http.MethodPost, "/api/sms/inbound", "", msg)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/sms/inbound", "", msg, middleware.WebhookTokenHeader, webhookToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "unknown", decode[map[string]any](t, w)["action"])

	msg["body"] = "CONFIRM"
	w = s.do(http.MethodPost, "/api/sms/inbound", "", msg, middleware.WebhookTokenHeader, webhookToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirm", decode[map[string]any](t, w)["action"])
}

func TestClientEmailIsValidatedOnBind(t *testing.T) {
	s, salonA, _ := newServer(t)
	bearer := token(t, salonA)
	staffID, serviceID := s.seedStaffAndService(bearer)

	w := s.do(http.MethodPost, "/api/appointments", bearer, map[string]any{
		"staff_id": staffID, "service_id": serviceID, "date": "2024-06-03", "time": "11:00",
		"client_name": "Maria", "client_phone": "+15550001", "client_email": "maria@",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/waitlist", bearer, map[string]any{
		"service_id": serviceID, "client_name": "Maria", "client_phone": "+15550001",
		"client_email": "maria at home", "availability_description": "mondays",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/waitlist", bearer, map[string]any{
		"service_id": serviceID, "client_name": "Maria", "client_phone": "+15550001",
		"client_email": "maria@example.com", "availability_description": "mondays",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSalonSettingsValidation(t *testing.T) {
	s, salonA, _ := newServer(t)
	bearer := token(t, salonA)

	w := s.do(http.MethodPatch, "/api/me/salon", bearer, map[string]any{"timezone": "Mars/Olympus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_timezone", decode[map[string]string](t, w)["error_code"])

	w = s.do(http.MethodPatch, "/api/me/salon", bearer, map[string]any{
		"timezone":              "America/Sao_Paulo",
		"slot_duration_minutes": 30,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	salon := decode[map[string]any](t, w)
	assert.Equal(t, "America/Sao_Paulo", salon["timezone"])
	assert.EqualValues(t, 30, salon["slot_duration_minutes"])
}
