package waitlist

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/waitlist"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// CheckMatches scans the coming days for open slots that fit active
// waitlist entries. Each entry yields at most one match per scan.
type CheckMatches struct {
	Deps
}

func NewCheckMatches(deps Deps) *CheckMatches {
	return &CheckMatches{Deps: deps}
}

type dayKey struct {
	staffID uint
	date    string
}

type staffDay struct {
	intervals []schedule.Interval
	booked    []models.Appointment
}

// scan holds per-run lookups so entries sharing a staff day reuse them.
type scan struct {
	uc    *CheckMatches
	salon *models.Salon
	days  map[dayKey]*staffDay
}

func (uc *CheckMatches) Execute(ctx context.Context, salonID uint) ([]domain.Match, error) {
	salon, err := uc.Appointments.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	expired, err := uc.Repo.ExpireBefore(ctx, salonID, now)
	if err != nil {
		return nil, err
	}
	if expired > 0 {
		uc.logger().Info().Uint("salon_id", salonID).Int64("count", expired).Msg("waitlist entries expired")
	}

	entries, err := uc.Repo.ListActive(ctx, salonID)
	if err != nil {
		return nil, err
	}
	active, err := uc.Appointments.ListActiveStaff(ctx, salonID)
	if err != nil {
		return nil, err
	}

	s := &scan{uc: uc, salon: salon, days: map[dayKey]*staffDay{}}
	matches := make([]domain.Match, 0)

	for i := range entries {
		entry := &entries[i]
		match, ok, err := s.entry(ctx, entry, active, now)
		if err != nil {
			uc.logger().Error().Err(err).
				Uint("salon_id", salonID).
				Uint("entry_id", entry.ID).
				Msg("waitlist scan failed for entry")
			continue
		}
		if ok {
			matches = append(matches, match)
			uc.broadcast(salonID, realtime.EventWaitlistMatched, match)
		}
	}

	metrics.AddWaitlistMatches(len(matches))
	uc.logger().Info().
		Uint("salon_id", salonID).
		Int("entries", len(entries)).
		Int("matches", len(matches)).
		Msg("waitlist scan finished")
	return matches, nil
}

func (uc *CheckMatches) scanDays() int {
	if uc.ScanDays > 0 {
		return uc.ScanDays
	}
	return DefaultScanDays
}

func (uc *CheckMatches) fit(
	pref models.AvailabilityPreference,
	day time.Time,
	sd *staffDay,
	step, length time.Duration,
	now time.Time,
) (schedule.Interval, bool) {
	if uc.MatchMode == MatchIntersect {
		windows := domain.Windows(pref, day, sd.intervals)
		return domain.FirstFit(windows, sd.booked, step, length, now)
	}
	slots := domain.Contained(pref, day, sd.intervals)
	return domain.FreeSlot(slots, sd.booked, length, now)
}

func (s *scan) entry(
	ctx context.Context,
	entry *models.WaitlistEntry,
	active []models.Staff,
	now time.Time,
) (domain.Match, bool, error) {

	pref := entry.Preference.Data()
	staff := domain.EligibleStaff(pref, entry.Service, active)
	length := entry.Service.Length()
	if len(staff) == 0 || length <= 0 {
		return domain.Match{}, false, nil
	}

	step := time.Duration(s.salon.SlotDurationMinutes) * time.Minute
	today := timezone.StartOfDay(now.In(timezone.Location(s.salon.Timezone)))

	for d := 0; d < s.uc.scanDays(); d++ {
		day := today.AddDate(0, 0, d)
		if !domain.DayAllowed(pref, day) {
			continue
		}

		for _, member := range staff {
			sd, err := s.staffDay(ctx, member.ID, day)
			if err != nil {
				return domain.Match{}, false, err
			}

			slot, ok := s.uc.fit(pref, day, sd, step, length, now)
			if !ok {
				continue
			}

			return domain.Match{
				EntryID:   entry.ID,
				ClientID:  entry.ClientID,
				ServiceID: entry.ServiceID,
				StaffID:   member.ID,
				StaffName: member.Label(),
				Start:     slot.Start,
				End:       slot.End,
			}, true, nil
		}
	}
	return domain.Match{}, false, nil
}

func (s *scan) staffDay(ctx context.Context, staffID uint, day time.Time) (*staffDay, error) {
	key := dayKey{staffID: staffID, date: day.Format(schedule.DateLayout)}
	if sd, ok := s.days[key]; ok {
		return sd, nil
	}

	intervals, err := schedule.Resolve(ctx, s.uc.Schedules, s.salon.ID, staffID, day)
	if err != nil {
		return nil, err
	}

	sd := &staffDay{intervals: intervals}
	if len(intervals) > 0 {
		sd.booked, err = s.uc.Appointments.ListAppointmentsForStaff(
			ctx, s.salon.ID, staffID,
			intervals[0].Start, intervals[len(intervals)-1].End,
		)
		if err != nil {
			return nil, err
		}
	}

	s.days[key] = sd
	return sd, nil
}
