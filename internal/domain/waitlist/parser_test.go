package waitlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var team = []models.Staff{
	{ID: 1, Name: "Maria Souza", DisplayName: "Mari"},
	{ID: 2, Name: "Joana Lima"},
	{ID: 3, Name: "Ana Paula", DisplayName: "Ana Paula"},
}

func TestParseDays(t *testing.T) {
	p := KeywordParser{}

	assert.Equal(t, []int{0, 2}, p.Parse("Mondays or Wed", nil).PreferredDays)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Parse("any weekday works", nil).PreferredDays)
	assert.Equal(t, []int{5, 6}, p.Parse("weekends only", nil).PreferredDays)
	assert.Empty(t, p.Parse("whenever you can fit me", nil).PreferredDays)
}

func TestParseNumericRanges(t *testing.T) {
	tests := []struct {
		text  string
		start string
		end   string
	}{
		{"2-4pm", "14:00", "16:00"},
		{"9am-12pm", "09:00", "12:00"},
		{"between 11-2pm", "11:00", "14:00"},
		{"10am to 2", "10:00", "14:00"},
		{"from 2 to 4", "14:00", "16:00"},
		{"9-5", "09:00", "17:00"},
		{"9:30am - 11:15am", "09:30", "11:15"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ranges := KeywordParser{}.Parse(tt.text, nil).PreferredTimeRanges
			if assert.Len(t, ranges, 1) {
				assert.Equal(t, tt.start, ranges[0].Start)
				assert.Equal(t, tt.end, ranges[0].End)
			}
		})
	}
}

func TestParseBucketsOnlyWithoutNumbers(t *testing.T) {
	p := KeywordParser{}

	morning := p.Parse("tuesday morning", nil)
	assert.Equal(t, []models.TimeRange{{Start: "08:00", End: "12:00"}}, morning.PreferredTimeRanges)

	both := p.Parse("morning, ideally 9-11am", nil)
	assert.Equal(t, []models.TimeRange{{Start: "09:00", End: "11:00"}}, both.PreferredTimeRanges)

	evening := p.Parse("evening or afternoon", nil)
	assert.Len(t, evening.PreferredTimeRanges, 2)
}

func TestParseStaff(t *testing.T) {
	p := KeywordParser{}

	assert.Equal(t, []uint{1}, p.Parse("with Mari please", team).PreferredStaffIDs)
	assert.Equal(t, []uint{1, 2}, p.Parse("maria or joana", team).PreferredStaffIDs)
	assert.Equal(t, []uint{3}, p.Parse("Ana Paula on friday", team).PreferredStaffIDs)
	assert.Empty(t, p.Parse("banana", team).PreferredStaffIDs)

	anyone := p.Parse("joana or anyone really", team)
	assert.Empty(t, anyone.PreferredStaffIDs)
	assert.True(t, anyone.Flexible)
}

func TestParseFlags(t *testing.T) {
	p := KeywordParser{}

	urgent := p.Parse("ASAP please", nil)
	assert.True(t, urgent.Urgent)
	assert.False(t, urgent.Flexible)

	flex := p.Parse("I'm flexible", nil)
	assert.True(t, flex.Flexible)
	assert.False(t, flex.Urgent)
}
