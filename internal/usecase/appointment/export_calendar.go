package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const (
	exportSheet   = "Appointments"
	maxExportDays = 62
)

var exportHeaders = []string{
	"Date", "Start", "End", "Staff", "Client", "Phone", "Service", "Status", "Price", "Notes",
}

type ExportCalendar struct {
	repo domain.Repository
}

func NewExportCalendar(repo domain.Repository) *ExportCalendar {
	return &ExportCalendar{repo: repo}
}

// Execute renders every appointment between from and to (both dates
// inclusive, salon timezone) as an xlsx workbook.
func (uc *ExportCalendar) Execute(
	ctx context.Context,
	salonID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]byte, string, error) {

	salon, err := uc.repo.GetSalon(ctx, salonID)
	if err != nil {
		return nil, "", err
	}
	loc := timezone.Location(salon.Timezone)

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if !end.After(start) {
		return nil, "", httperr.ErrValidation("invalid_date_range")
	}
	if end.Sub(start) > maxExportDays*24*time.Hour {
		return nil, "", httperr.ErrValidation("date_range_too_large")
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, salonID, staffID, start, end)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, entry := range toCalendar(appointments, loc) {
		row := []any{
			entry.StartTime.Format("2006-01-02"),
			entry.StartTime.Format("15:04"),
			entry.EndTime.Format("15:04"),
			entry.StaffName,
			entry.ClientName,
			entry.ClientPhone,
			entry.ServiceName,
			entry.Status,
			float64(entry.PriceCents) / 100,
			entry.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("write row: %w", err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 12)
	_ = f.SetColWidth(exportSheet, "D", "G", 20)
	_ = f.SetColWidth(exportSheet, "J", "J", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	name := fmt.Sprintf("appointments_%s_to_%s.xlsx",
		start.Format("2006-01-02"),
		end.AddDate(0, 0, -1).Format("2006-01-02"))
	return buf.Bytes(), name, nil
}
