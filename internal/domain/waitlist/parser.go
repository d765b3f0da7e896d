package waitlist

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Parser turns a client's free-text availability into a preference.
type Parser interface {
	Parse(text string, staff []models.Staff) models.AvailabilityPreference
}

// KeywordParser is a best-effort keyword matcher. It does not score
// confidence; when the text carries an explicit hour range the named
// buckets are ignored.
type KeywordParser struct{}

var _ Parser = KeywordParser{}

var dayWords = map[string][]int{
	"mon": {0}, "monday": {0}, "mondays": {0},
	"tue": {1}, "tues": {1}, "tuesday": {1}, "tuesdays": {1},
	"wed": {2}, "weds": {2}, "wednesday": {2}, "wednesdays": {2},
	"thu": {3}, "thur": {3}, "thurs": {3}, "thursday": {3}, "thursdays": {3},
	"fri": {4}, "friday": {4}, "fridays": {4},
	"sat": {5}, "saturday": {5}, "saturdays": {5},
	"sun": {6}, "sunday": {6}, "sundays": {6},
	"weekday": {0, 1, 2, 3, 4}, "weekdays": {0, 1, 2, 3, 4},
	"weekend": {5, 6}, "weekends": {5, 6},
}

var buckets = []struct {
	word  string
	start string
	end   string
}{
	{"early", "07:00", "10:00"},
	{"morning", "08:00", "12:00"},
	{"lunch", "11:30", "13:30"},
	{"afternoon", "12:00", "17:00"},
	{"evening", "17:00", "21:00"},
	{"late", "18:00", "21:00"},
}

var (
	urgentWords   = []string{"asap", "urgent", "urgently", "soon", "soonest", "emergency", "today", "tomorrow"}
	flexibleWords = []string{"flexible", "anytime", "whenever", "any time", "open"}
	anyStaffWords = []string{"any", "anyone", "anybody", "whoever"}
)

var (
	rangeRe = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|–|to|until|till)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	wordRe  = regexp.MustCompile(`[a-z]+`)
)

func (KeywordParser) Parse(text string, staff []models.Staff) models.AvailabilityPreference {
	lower := strings.ToLower(text)
	words := make(map[string]bool)
	for _, w := range wordRe.FindAllString(lower, -1) {
		words[w] = true
	}

	var pref models.AvailabilityPreference

	days := make(map[int]bool)
	for w := range words {
		for _, d := range dayWords[w] {
			days[d] = true
		}
	}
	for d := range days {
		pref.PreferredDays = append(pref.PreferredDays, d)
	}
	sort.Ints(pref.PreferredDays)

	pref.PreferredTimeRanges = numericRanges(lower)
	if len(pref.PreferredTimeRanges) == 0 {
		for _, b := range buckets {
			if words[b.word] {
				pref.PreferredTimeRanges = append(pref.PreferredTimeRanges, models.TimeRange{Start: b.start, End: b.end})
			}
		}
	}

	for _, s := range staff {
		if mentions(lower, words, s) {
			pref.PreferredStaffIDs = append(pref.PreferredStaffIDs, s.ID)
		}
	}

	pref.Urgent = containsAny(lower, words, urgentWords)
	pref.Flexible = containsAny(lower, words, flexibleWords)
	if containsAny(lower, words, anyStaffWords) {
		pref.Flexible = true
		pref.PreferredStaffIDs = nil
	}

	return pref
}

func numericRanges(text string) []models.TimeRange {
	var out []models.TimeRange
	for _, m := range rangeRe.FindAllStringSubmatch(text, -1) {
		startH, _ := strconv.Atoi(m[1])
		startM, _ := strconv.Atoi(m[2])
		endH, _ := strconv.Atoi(m[4])
		endM, _ := strconv.Atoi(m[5])
		startMer, endMer := m[3], m[6]

		if startH > 12 && startMer != "" || endH > 12 && endMer != "" || startH > 23 || endH > 23 {
			continue
		}

		switch {
		case startMer == "" && endMer != "":
			startMer = endMer
			// "11-2pm" starts in the morning
			if endMer == "pm" && startH != 12 && startH > endH {
				startMer = "am"
			}
		case endMer == "" && startMer != "":
			endMer = startMer
			if startMer == "am" && endH != 12 && endH < startH {
				endMer = "pm"
			}
			if startMer == "am" && endH == 12 {
				endMer = "pm"
			}
		}

		startH = to24(startH, startMer)
		endH = to24(endH, endMer)

		if startMer == "" && endMer == "" {
			if startH < 8 && endH < 8 {
				startH += 12
				endH += 12
			} else if endH < startH && endH < 12 {
				endH += 12
			}
		}

		start := startH*60 + startM
		end := endH*60 + endM
		if end <= start {
			continue
		}
		out = append(out, models.TimeRange{
			Start: schedule.FormatClock(start),
			End:   schedule.FormatClock(end),
		})
	}
	return out
}

func to24(h int, meridiem string) int {
	switch meridiem {
	case "am":
		if h == 12 {
			return 0
		}
	case "pm":
		if h != 12 {
			return h + 12
		}
	}
	return h
}

func mentions(text string, words map[string]bool, s models.Staff) bool {
	names := []string{s.DisplayName}
	if fields := strings.Fields(s.Name); len(fields) > 0 {
		names = append(names, fields[0])
	}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(n, " ") {
			if strings.Contains(text, n) {
				return true
			}
			continue
		}
		if words[n] {
			return true
		}
	}
	return false
}

func containsAny(text string, words map[string]bool, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}
		if words[k] {
			return true
		}
	}
	return false
}
