package workflows

import (
	"time"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Millisecond-based countdown units. Countdowns are computed as ceilings over
// milliseconds so that a deadline 6 days and 1 millisecond away counts as 7
// days out, matching how a paralegal reads "due in N days".
const (
	millisPerDay  int64 = 86_400_000
	millisPerHour int64 = 3_600_000
)

// defaultDeadlineReminderDays is the approach window for deadline reminders
// when the workflow input does not override it: a reminder fires once the
// deadline is this many days away or closer.
const defaultDeadlineReminderDays = 7

// daysUntil returns the whole-day countdown from now to date as a ceiling
// over milliseconds. A date less than one full day past reads as zero days;
// the countdown goes negative only once a whole day has elapsed. Truncating
// division is already the ceiling for negative values.
func daysUntil(now, date time.Time) int {
	ms := date.Sub(now).Milliseconds()
	if ms >= 0 {
		return int((ms + millisPerDay - 1) / millisPerDay)
	}
	return int(ms / millisPerDay)
}

// hoursUntil returns the whole-hour countdown from now to date, with the same
// ceiling semantics as daysUntil.
func hoursUntil(now, date time.Time) int {
	ms := date.Sub(now).Milliseconds()
	if ms >= 0 {
		return int((ms + millisPerHour - 1) / millisPerHour)
	}
	return int(ms / millisPerHour)
}

// deadlineCheck is the outcome of evaluating one deadline at a point in time.
type deadlineCheck struct {
	// remind is true when the approaching-deadline reminder should fire now.
	remind bool

	// overdue is true when the overdue notification should fire now.
	overdue bool

	// days is the whole-day countdown (negative when past due).
	days int
}

// evaluateDeadline decides which deadline notifications are due at now, with
// reminderDays as the approach window. The monotonic Reminded/OverdueNotified
// flags keep each variant to a single firing per deadline.
func evaluateDeadline(d domain.Deadline, now time.Time, reminderDays int) deadlineCheck {
	days := daysUntil(now, d.Date)
	check := deadlineCheck{days: days}

	if days < 0 && !d.OverdueNotified {
		check.overdue = true
		return check
	}
	if days > 0 && days <= reminderDays && !d.Reminded {
		check.remind = true
	}
	return check
}

// nextReminderBoundary returns the earliest future instant at which some
// deadline or court date crosses into a notification window it has not fired
// in yet, or the zero time when nothing is scheduled. The orchestration loop
// caps its sleep at this instant so reminders are not delayed by a full poll
// interval.
func nextReminderBoundary(deadlines []domain.Deadline, courtDates []domain.CourtDate, now time.Time, reminderDays int) time.Time {
	var next time.Time
	consider := func(t time.Time) {
		if t.After(now) && (next.IsZero() || t.Before(next)) {
			next = t
		}
	}

	for _, d := range deadlines {
		if !d.Reminded {
			consider(d.Date.Add(-time.Duration(reminderDays) * 24 * time.Hour))
		}
		if !d.OverdueNotified {
			// The countdown goes negative one full day past the deadline.
			consider(d.Date.Add(24 * time.Hour))
		}
	}
	for _, c := range courtDates {
		if !c.Reminded48h {
			consider(c.Date.Add(-48 * time.Hour))
		}
		if !c.Reminded24h {
			consider(c.Date.Add(-24 * time.Hour))
		}
	}
	return next
}

// courtDateCheck is the outcome of evaluating one court date at a point in
// time.
type courtDateCheck struct {
	// window is "48h", "24h", or "" when no reminder is due now.
	window string

	// hours is the whole-hour countdown to the hearing.
	hours int
}

// evaluateCourtDate decides which court date reminder window fires at now.
// The 48-hour window covers (24h, 48h] before the hearing, the 24-hour window
// (0h, 24h]. Each window has its own monotonic flag, so a hearing observed in
// both windows produces two reminders; one first observed inside 24 hours
// produces only the 24-hour reminder.
func evaluateCourtDate(c domain.CourtDate, now time.Time) courtDateCheck {
	hours := hoursUntil(now, c.Date)
	check := courtDateCheck{hours: hours}

	switch {
	case hours > 24 && hours <= 48 && !c.Reminded48h:
		check.window = "48h"
	case hours > 0 && hours <= 24 && !c.Reminded24h:
		check.window = "24h"
	}
	return check
}
