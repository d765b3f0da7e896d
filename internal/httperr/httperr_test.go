package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", ErrValidation("invalid_date"), http.StatusBadRequest},
		{"legacy business", ErrBusiness("invalid_state"), http.StatusBadRequest},
		{"not found", ErrNotFound("appointment_not_found"), http.StatusNotFound},
		{"conflict", ErrConflict("slot_locked"), http.StatusConflict},
		{"forbidden", ErrForbidden("nope"), http.StatusForbidden},
		{"transition", ErrInvalidTransition("confirmed", "in_progress"), http.StatusBadRequest},
		{"wrapped conflict", fmt.Errorf("create: %w", ErrConflict("time_conflict")), http.StatusConflict},
		{"pg unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"gorm duplicate", gorm.ErrDuplicatedKey, http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestRespondInvalidTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, ErrInvalidTransition("confirmed", "in_progress"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_transition", body.Code)
	assert.Contains(t, body.Message, "confirmed")
	assert.Contains(t, body.Message, "in_progress")
}

func TestRespondHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestNotFoundOr(t *testing.T) {
	err := NotFoundOr(gorm.ErrRecordNotFound, "staff_not_found")
	assert.True(t, IsKind(err, KindNotFound))
	assert.True(t, IsBusiness(err, "staff_not_found"))

	other := errors.New("x")
	assert.Equal(t, other, NotFoundOr(other, "staff_not_found"))
}
