package resolver

import (
	"regexp"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeZone is the fixed zone all temporal references resolve in.
const DefaultTimeZone = "Europe/Zagreb"

// Temporal parses relative and absolute time expressions into a concrete
// instant in a fixed time zone.
type Temporal struct {
	loc *time.Location
	now func() time.Time
}

type TemporalOption func(*Temporal)

// WithClock injects the wall clock, used by tests.
func WithClock(now func() time.Time) TemporalOption {
	return func(t *Temporal) {
		t.now = now
	}
}

// WithLocation overrides the fixed time zone.
func WithLocation(loc *time.Location) TemporalOption {
	return func(t *Temporal) {
		t.loc = loc
	}
}

// NewTemporal creates a resolver in the default zone.
func NewTemporal(opts ...TemporalOption) (*Temporal, error) {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load time zone", goerr.V("zone", DefaultTimeZone))
	}

	t := &Temporal{
		loc: loc,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Weekday names accepted in nominative and instrumental case, plus English.
// All map to the same weekday index.
var weekdayNames = map[string]time.Weekday{
	"ponedjeljak": time.Monday, "ponedjeljkom": time.Monday, "monday": time.Monday,
	"utorak": time.Tuesday, "utorkom": time.Tuesday, "tuesday": time.Tuesday,
	"srijeda": time.Wednesday, "srijedu": time.Wednesday, "srijedom": time.Wednesday, "wednesday": time.Wednesday,
	"cetvrtak": time.Thursday, "cetvrtkom": time.Thursday, "thursday": time.Thursday,
	"petak": time.Friday, "petkom": time.Friday, "friday": time.Friday,
	"subota": time.Saturday, "subotu": time.Saturday, "subotom": time.Saturday, "saturday": time.Saturday,
	"nedjelja": time.Sunday, "nedjelju": time.Sunday, "nedjeljom": time.Sunday, "sunday": time.Sunday,
}

var (
	clockRe   = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
	dateHRRe  = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})?`)
	dateISORe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

const defaultHour = 12 // noon when only a date is implied

// Now returns the current wall-clock time in the resolver's zone.
func (t *Temporal) Now() time.Time {
	return t.now().In(t.loc)
}

// Resolve parses a free-text time reference. The second return reports
// whether any temporal expression was found; when false the first return is
// the current wall-clock time.
func (t *Temporal) Resolve(text string) (time.Time, bool) {
	now := t.now().In(t.loc)
	tokens := tokenize(text)

	hasToday := false
	for _, tok := range tokens {
		switch tok {
		case "sad", "sada", "odmah", "now", "trenutno":
			return now, true
		case "danas", "today":
			hasToday = true
		}
	}

	hour, minute, hasClock := t.parseClock(text)

	// Literal dates take precedence over relative references.
	if day, ok := t.parseDate(text, now); ok {
		return t.at(day, hour, minute, hasClock), true
	}

	for _, tok := range tokens {
		if wd, ok := weekdayNames[tok]; ok {
			day := t.nextWeekday(now, wd, hasToday)
			return t.at(day, hour, minute, hasClock), true
		}
	}

	for _, tok := range tokens {
		switch tok {
		case "danas", "today":
			return t.at(now, hour, minute, hasClock), true
		case "sutra", "tomorrow":
			return t.at(now.AddDate(0, 0, 1), hour, minute, hasClock), true
		case "prekosutra":
			return t.at(now.AddDate(0, 0, 2), hour, minute, hasClock), true
		case "veceras", "tonight":
			return t.at(now, 20, 0, true), true
		}
	}

	if hasClock {
		return t.at(now, hour, minute, true), true
	}

	return now, false
}

// nextWeekday resolves a weekday name to its next future occurrence. Naming
// today's weekday still advances by a week unless the literal word "today"
// accompanies it.
func (t *Temporal) nextWeekday(now time.Time, wd time.Weekday, hasToday bool) time.Time {
	delta := (int(wd) - int(now.Weekday()) + 7) % 7
	if delta == 0 && !hasToday {
		delta = 7
	}
	return now.AddDate(0, 0, delta)
}

func (t *Temporal) parseClock(text string) (hour, minute int, ok bool) {
	m := clockRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func (t *Temporal) parseDate(text string, now time.Time) (time.Time, bool) {
	if m := dateISORe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.loc), true
	}

	if m := dateHRRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.loc)
		// Without an explicit year a past date means the next occurrence.
		if m[3] == "" && d.Before(now.AddDate(0, 0, -1)) {
			d = d.AddDate(1, 0, 0)
		}
		return d, true
	}

	return time.Time{}, false
}

func (t *Temporal) at(day time.Time, hour, minute int, hasClock bool) time.Time {
	if !hasClock {
		hour, minute = defaultHour, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, t.loc)
}
