package workflows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

var reminderNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"exactly seven days", reminderNow.Add(7 * 24 * time.Hour), 7},
		{"six days and one millisecond rounds up", reminderNow.Add(6*24*time.Hour + time.Millisecond), 7},
		{"exactly six days", reminderNow.Add(6 * 24 * time.Hour), 6},
		{"one millisecond away", reminderNow.Add(time.Millisecond), 1},
		{"due this instant", reminderNow, 0},
		{"one millisecond past still reads zero", reminderNow.Add(-time.Millisecond), 0},
		{"exactly one day past", reminderNow.Add(-24 * time.Hour), -1},
		{"one day and one millisecond past", reminderNow.Add(-24*time.Hour - time.Millisecond), -1},
		{"exactly two days past", reminderNow.Add(-48 * time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysUntil(reminderNow, tt.date))
		})
	}
}

func TestHoursUntil(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"exactly 48 hours", reminderNow.Add(48 * time.Hour), 48},
		{"47 hours and one millisecond rounds up", reminderNow.Add(47*time.Hour + time.Millisecond), 48},
		{"one minute away", reminderNow.Add(time.Minute), 1},
		{"due this instant", reminderNow, 0},
		{"one millisecond past still reads zero", reminderNow.Add(-time.Millisecond), 0},
		{"one hour and one millisecond past", reminderNow.Add(-time.Hour - time.Millisecond), -1},
		{"two hours past", reminderNow.Add(-2 * time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hoursUntil(reminderNow, tt.date))
		})
	}
}

func TestEvaluateDeadline(t *testing.T) {
	tests := []struct {
		name         string
		deadline     domain.Deadline
		reminderDays int
		wantRemind   bool
		wantOverdue  bool
	}{
		{
			name:       "inside approach window",
			deadline:   domain.Deadline{Date: reminderNow.Add(5 * 24 * time.Hour)},
			wantRemind: true,
		},
		{
			name:       "at window boundary",
			deadline:   domain.Deadline{Date: reminderNow.Add(7 * 24 * time.Hour)},
			wantRemind: true,
		},
		{
			name:     "outside approach window",
			deadline: domain.Deadline{Date: reminderNow.Add(8 * 24 * time.Hour)},
		},
		{
			name:     "already reminded",
			deadline: domain.Deadline{Date: reminderNow.Add(5 * 24 * time.Hour), Reminded: true},
		},
		{
			name:     "due this instant fires nothing",
			deadline: domain.Deadline{Date: reminderNow},
		},
		{
			name:     "missed by less than a day fires nothing yet",
			deadline: domain.Deadline{Date: reminderNow.Add(-2 * time.Hour)},
		},
		{
			name:        "a full day past due",
			deadline:    domain.Deadline{Date: reminderNow.Add(-25 * time.Hour)},
			wantOverdue: true,
		},
		{
			name:        "past due even when approach reminder already fired",
			deadline:    domain.Deadline{Date: reminderNow.Add(-25 * time.Hour), Reminded: true},
			wantOverdue: true,
		},
		{
			name:     "overdue already notified",
			deadline: domain.Deadline{Date: reminderNow.Add(-25 * time.Hour), OverdueNotified: true},
		},
		{
			name:         "widened window catches a farther deadline",
			deadline:     domain.Deadline{Date: reminderNow.Add(10 * 24 * time.Hour)},
			reminderDays: 14,
			wantRemind:   true,
		},
		{
			name:         "narrowed window skips a near deadline",
			deadline:     domain.Deadline{Date: reminderNow.Add(5 * 24 * time.Hour)},
			reminderDays: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := tt.reminderDays
			if days == 0 {
				days = defaultDeadlineReminderDays
			}
			check := evaluateDeadline(tt.deadline, reminderNow, days)
			assert.Equal(t, tt.wantRemind, check.remind)
			assert.Equal(t, tt.wantOverdue, check.overdue)
		})
	}
}

func TestNextReminderBoundary(t *testing.T) {
	tests := []struct {
		name       string
		deadlines  []domain.Deadline
		courtDates []domain.CourtDate
		want       time.Time
	}{
		{
			name: "nothing scheduled",
		},
		{
			name:      "approach window of a far deadline",
			deadlines: []domain.Deadline{{Date: reminderNow.Add(10 * 24 * time.Hour)}},
			want:      reminderNow.Add(3 * 24 * time.Hour),
		},
		{
			name:      "reminded deadline waits for the overdue boundary",
			deadlines: []domain.Deadline{{Date: reminderNow.Add(2 * 24 * time.Hour), Reminded: true}},
			want:      reminderNow.Add(3 * 24 * time.Hour),
		},
		{
			name:       "48h window of an upcoming hearing",
			courtDates: []domain.CourtDate{{Date: reminderNow.Add(60 * time.Hour)}},
			want:       reminderNow.Add(12 * time.Hour),
		},
		{
			name:       "24h window once the 48h reminder fired",
			courtDates: []domain.CourtDate{{Date: reminderNow.Add(40 * time.Hour), Reminded48h: true}},
			want:       reminderNow.Add(16 * time.Hour),
		},
		{
			name:       "earliest boundary wins across kinds",
			deadlines:  []domain.Deadline{{Date: reminderNow.Add(10 * 24 * time.Hour)}},
			courtDates: []domain.CourtDate{{Date: reminderNow.Add(60 * time.Hour)}},
			want:       reminderNow.Add(12 * time.Hour),
		},
		{
			name: "fully notified items schedule nothing",
			deadlines: []domain.Deadline{
				{Date: reminderNow.Add(-24 * time.Hour), Reminded: true, OverdueNotified: true},
			},
			courtDates: []domain.CourtDate{
				{Date: reminderNow.Add(-2 * time.Hour), Reminded48h: true, Reminded24h: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextReminderBoundary(tt.deadlines, tt.courtDates, reminderNow, defaultDeadlineReminderDays)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateCourtDate(t *testing.T) {
	tests := []struct {
		name       string
		courtDate  domain.CourtDate
		wantWindow string
	}{
		{
			name:       "inside 48h window",
			courtDate:  domain.CourtDate{Date: reminderNow.Add(40 * time.Hour)},
			wantWindow: "48h",
		},
		{
			name:       "at 48h boundary",
			courtDate:  domain.CourtDate{Date: reminderNow.Add(48 * time.Hour)},
			wantWindow: "48h",
		},
		{
			name:      "outside both windows",
			courtDate: domain.CourtDate{Date: reminderNow.Add(49 * time.Hour)},
		},
		{
			name:      "48h window already reminded",
			courtDate: domain.CourtDate{Date: reminderNow.Add(40 * time.Hour), Reminded48h: true},
		},
		{
			name:       "at 24h boundary",
			courtDate:  domain.CourtDate{Date: reminderNow.Add(24 * time.Hour)},
			wantWindow: "24h",
		},
		{
			name:       "inside 24h window",
			courtDate:  domain.CourtDate{Date: reminderNow.Add(12 * time.Hour)},
			wantWindow: "24h",
		},
		{
			name:       "24h fires independently of the 48h flag",
			courtDate:  domain.CourtDate{Date: reminderNow.Add(12 * time.Hour), Reminded48h: true},
			wantWindow: "24h",
		},
		{
			name:      "24h window already reminded",
			courtDate: domain.CourtDate{Date: reminderNow.Add(12 * time.Hour), Reminded24h: true},
		},
		{
			name:      "hearing passed",
			courtDate: domain.CourtDate{Date: reminderNow.Add(-2 * time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := evaluateCourtDate(tt.courtDate, reminderNow)
			assert.Equal(t, tt.wantWindow, check.window)
		})
	}
}
