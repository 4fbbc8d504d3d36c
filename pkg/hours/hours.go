// Package hours computes open/closed state and the next schedule transition
// from weekly opening periods.
package hours

import (
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/model"
)

const overrideDateLayout = "2006-01-02"

// Project computes the open/closed projection of a schedule at the target
// instant. A date-specific override replaces the whole weekly schedule for
// that calendar date. An absent or blank schedule yields HoursUndefined,
// which is distinct from closed.
func Project(h *model.OpeningHours, at time.Time) model.OpenState {
	if h == nil {
		return model.OpenState{State: model.HoursUndefined}
	}

	periods := h.Periods
	if override, ok := h.Overrides[at.Format(overrideDateLayout)]; ok {
		periods = override
	}
	if len(periods) == 0 {
		return model.OpenState{State: model.HoursUndefined}
	}

	day := int(at.Weekday())
	minutes := at.Hour()*60 + at.Minute()

	for _, p := range periods {
		if open, closesAt := within(p, day, minutes, at); open {
			return model.OpenState{State: model.HoursOpen, ClosesAt: closesAt}
		}
	}

	return model.OpenState{State: model.HoursClosed, OpensAt: nextOpening(periods, day, minutes, at)}
}

// within reports whether the instant falls inside the period and, if so,
// the concrete closing time.
func within(p model.OpeningPeriod, day, minutes int, at time.Time) (bool, *time.Time) {
	if p.OpenDay == p.CloseDay {
		if day == p.OpenDay && minutes >= p.OpenMin && minutes < p.CloseMin {
			t := atMinute(at, 0, p.CloseMin)
			return true, &t
		}
		return false, nil
	}

	// Midnight-spanning period.
	switch {
	case day == p.OpenDay && minutes >= p.OpenMin:
		t := atMinute(at, daysAhead(day, p.CloseDay), p.CloseMin)
		return true, &t
	case day == p.CloseDay && minutes < p.CloseMin:
		t := atMinute(at, 0, p.CloseMin)
		return true, &t
	case strictlyBetween(p.OpenDay, p.CloseDay, day):
		t := atMinute(at, daysAhead(day, p.CloseDay), p.CloseMin)
		return true, &t
	}
	return false, nil
}

// nextOpening finds the earliest future opening: same-day periods with a
// later open time first, then the following days in order.
func nextOpening(periods []model.OpeningPeriod, day, minutes int, at time.Time) *time.Time {
	var best *time.Time
	for offset := 0; offset < 7; offset++ {
		targetDay := (day + offset) % 7
		for _, p := range periods {
			if p.OpenDay != targetDay {
				continue
			}
			if offset == 0 && p.OpenMin <= minutes {
				continue
			}
			t := atMinute(at, offset, p.OpenMin)
			if best == nil || t.Before(*best) {
				best = &t
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

// strictlyBetween reports whether day lies strictly inside the open..close
// day span, accounting for week wraparound.
func strictlyBetween(openDay, closeDay, day int) bool {
	span := daysAhead(openDay, closeDay)
	pos := daysAhead(openDay, day)
	return pos > 0 && pos < span
}

func daysAhead(from, to int) int {
	return (to - from + 7) % 7
}

func atMinute(base time.Time, dayOffset, minute int) time.Time {
	d := base.AddDate(0, 0, dayOffset)
	return time.Date(d.Year(), d.Month(), d.Day(), minute/60, minute%60, 0, 0, base.Location())
}
