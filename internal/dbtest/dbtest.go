// Package dbtest opens migrated sqlite databases for tests and seeds
// the records most tests need.
package dbtest

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "salon.db") + "?_busy_timeout=5000"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func Salon(t *testing.T, conn *gorm.DB, slug string) *models.Salon {
	t.Helper()
	s := &models.Salon{
		Name:                slug,
		Slug:                slug,
		Timezone:            "UTC",
		SlotDurationMinutes: 15,
		SMSNumber:           SMSNumber(slug),
	}
	require.NoError(t, conn.Create(s).Error)
	return s
}

// SMSNumber is the inbound number Salon assigns to slug.
func SMSNumber(slug string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(slug))
	return fmt.Sprintf("+1555%07d", h.Sum32()%10000000)
}

func Staff(t *testing.T, conn *gorm.DB, salonID uint, name string) *models.Staff {
	t.Helper()
	s := &models.Staff{SalonID: salonID, Name: name, DisplayName: name, Active: true}
	require.NoError(t, conn.Create(s).Error)
	return s
}

func Service(t *testing.T, conn *gorm.DB, salonID uint, minutes, buffer int, eligible ...uint) *models.Service {
	t.Helper()
	s := &models.Service{
		SalonID:          salonID,
		Name:             fmt.Sprintf("service %d", minutes),
		DurationMinutes:  minutes,
		BufferMinutes:    buffer,
		PriceCents:       4500,
		DepositPercent:   20,
		DepositCents:     900,
		EligibleStaffIDs: datatypes.NewJSONType(eligible),
		Active:           true,
	}
	require.NoError(t, conn.Create(s).Error)
	return s
}

func Client(t *testing.T, conn *gorm.DB, salonID uint, phone string) *models.Client {
	t.Helper()
	c := &models.Client{SalonID: salonID, Name: "Client " + phone, Phone: phone}
	require.NoError(t, conn.Create(c).Error)
	return c
}

// Week gives the staff member the same hours on every weekday (0..6).
func Week(t *testing.T, conn *gorm.DB, salonID, staffID uint, start, end string) {
	t.Helper()
	for day := 0; day < 7; day++ {
		wh := &models.WorkingHours{
			SalonID: salonID,
			StaffID: staffID,
			Weekday: day,
			Working: true,
			Slots:   datatypes.NewJSONType([]models.TimeRange{{Start: start, End: end}}),
		}
		require.NoError(t, conn.Create(wh).Error)
	}
}
