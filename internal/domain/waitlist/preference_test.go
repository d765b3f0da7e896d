package waitlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var wednesday = time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

func TestDayAllowed(t *testing.T) {
	pref := models.AvailabilityPreference{PreferredDays: []int{2}}
	assert.True(t, DayAllowed(pref, wednesday))
	assert.False(t, DayAllowed(pref, wednesday.AddDate(0, 0, 1)))

	window := models.AvailabilityPreference{EarliestDate: "2024-06-06", LatestDate: "2024-06-08"}
	assert.False(t, DayAllowed(window, wednesday))
	assert.True(t, DayAllowed(window, wednesday.AddDate(0, 0, 1)))
	assert.False(t, DayAllowed(window, wednesday.AddDate(0, 0, 4)))

	assert.True(t, DayAllowed(models.AvailabilityPreference{}, wednesday))
}

func TestWindowsClipToPreference(t *testing.T) {
	open := schedule.Intervals(wednesday, []models.TimeRange{
		{Start: "09:00", End: "12:00"},
		{Start: "13:00", End: "18:00"},
	})
	pref := models.AvailabilityPreference{
		PreferredTimeRanges: []models.TimeRange{{Start: "11:00", End: "15:00"}},
	}

	got := Windows(pref, wednesday, open)
	require.Len(t, got, 2)
	assert.Equal(t, "11:00", got[0].Start.Format("15:04"))
	assert.Equal(t, "12:00", got[0].End.Format("15:04"))
	assert.Equal(t, "13:00", got[1].Start.Format("15:04"))
	assert.Equal(t, "15:00", got[1].End.Format("15:04"))

	assert.Equal(t, open, Windows(models.AvailabilityPreference{}, wednesday, open))
}

func TestContainedRequiresWholeInterval(t *testing.T) {
	open := schedule.Intervals(wednesday, []models.TimeRange{
		{Start: "09:00", End: "12:00"},
		{Start: "14:00", End: "15:00"},
	})
	pref := models.AvailabilityPreference{
		PreferredTimeRanges: []models.TimeRange{{Start: "13:00", End: "16:00"}},
	}

	got := Contained(pref, wednesday, open)
	require.Len(t, got, 1)
	assert.Equal(t, "14:00", got[0].Start.Format("15:04"))
	assert.Equal(t, "15:00", got[0].End.Format("15:04"))

	wide := schedule.Intervals(wednesday, []models.TimeRange{{Start: "09:00", End: "17:00"}})
	narrow := models.AvailabilityPreference{
		PreferredTimeRanges: []models.TimeRange{{Start: "14:00", End: "16:00"}},
	}
	assert.Empty(t, Contained(narrow, wednesday, wide))

	assert.Equal(t, open, Contained(models.AvailabilityPreference{}, wednesday, open))
}

func TestFreeSlotChecksWholeSlot(t *testing.T) {
	slots := schedule.Intervals(wednesday, []models.TimeRange{
		{Start: "09:00", End: "12:00"},
		{Start: "14:00", End: "16:00"},
	})
	booked := []models.Appointment{{
		StartTime: wednesday.Add(11*time.Hour + 30*time.Minute),
		EndTime:   wednesday.Add(12 * time.Hour),
		Status:    "confirmed",
	}}

	slot, ok := FreeSlot(slots, booked, 30*time.Minute, time.Time{})
	require.True(t, ok)
	assert.Equal(t, "14:00", slot.Start.Format("15:04"))
	assert.Equal(t, "16:00", slot.End.Format("15:04"))

	_, ok = FreeSlot(slots, booked, 3*time.Hour, time.Time{})
	assert.False(t, ok)

	_, ok = FreeSlot(slots, booked, 30*time.Minute, wednesday.Add(14*time.Hour+time.Minute))
	assert.False(t, ok)
}

func TestFirstFit(t *testing.T) {
	windows := schedule.Intervals(wednesday, []models.TimeRange{{Start: "14:00", End: "16:00"}})
	booked := []models.Appointment{{
		StartTime: wednesday.Add(14 * time.Hour),
		EndTime:   wednesday.Add(14*time.Hour + 30*time.Minute),
		Status:    "confirmed",
	}}

	slot, ok := FirstFit(windows, booked, 15*time.Minute, time.Hour, time.Time{})
	require.True(t, ok)
	assert.Equal(t, "14:30", slot.Start.Format("15:04"))
	assert.Equal(t, "15:30", slot.End.Format("15:04"))

	_, ok = FirstFit(windows, booked, 15*time.Minute, 2*time.Hour, time.Time{})
	assert.False(t, ok)

	slot, ok = FirstFit(windows, nil, 15*time.Minute, time.Hour, wednesday.Add(14*time.Hour+5*time.Minute))
	require.True(t, ok)
	assert.Equal(t, "14:15", slot.Start.Format("15:04"))
}

func TestEligibleStaffForEntry(t *testing.T) {
	active := []models.Staff{{ID: 1}, {ID: 2}, {ID: 3}}
	service := models.Service{EligibleStaffIDs: datatypes.NewJSONType([]uint{2, 3})}

	assert.Len(t, EligibleStaff(models.AvailabilityPreference{}, models.Service{}, active), 3)
	assert.Len(t, EligibleStaff(models.AvailabilityPreference{}, service, active), 2)

	pref := models.AvailabilityPreference{PreferredStaffIDs: []uint{1}}
	got := EligibleStaff(pref, service, active)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].ID)
}

func TestOpen(t *testing.T) {
	now := wednesday
	assert.True(t, Open(&models.WaitlistEntry{Status: models.WaitlistActive, ExpiresAt: now.Add(time.Hour)}, now))
	assert.False(t, Open(&models.WaitlistEntry{Status: models.WaitlistActive, ExpiresAt: now.Add(-time.Hour)}, now))
	assert.False(t, Open(&models.WaitlistEntry{Status: models.WaitlistBooked}, now))
}
