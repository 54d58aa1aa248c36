package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is the target timezone all naive times are anchored to
// (UTC+05:30).
const DefaultTimezone = "Asia/Kolkata"

// Default search window bounds, hours of day.
const (
	defaultWindowStartHour = 8
	defaultWindowEndHour   = 20
	defaultWindowSpanDays  = 7
)

// DefaultLocation returns the default target location. Falls back to a
// fixed +05:30 zone when the tz database is unavailable.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// InvalidTimeFormatError reports a time phrase that does not match the
// supported grammar or carries out-of-range components.
type InvalidTimeFormatError struct {
	Phrase string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: expected H:MM (24-hour) or H[:MM] AM/PM", e.Phrase)
}

// Resolver parses the bounded natural-language date and time grammar into
// instants anchored to a single target location. It never reads the wall
// clock: every method takes the reference instant as a parameter.
type Resolver struct {
	loc *time.Location
}

// NewResolver creates a Resolver anchored to loc. A nil loc selects the
// default target timezone.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Resolver{loc: loc}
}

// Location returns the resolver's target location.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	time12Pattern  = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
	time24Pattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	ordinalPattern = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?$`)
)

// ResolveDate resolves a date phrase relative to now. Recognized, in
// priority order: ISO-8601 with a "T" separator, today/tomorrow/yesterday,
// a bare weekday name (today or the next occurrence within 1-6 days),
// "next <weekday>" (7-13 days ahead, always skipping the current week),
// "this <weekday>" (like the bare form but never today), and
// "<month-name> <day>" resolved in now's year. The returned instant is
// midnight of the resolved day in the target location. The boolean is
// false when the phrase matches nothing.
//
// Month/day phrases carry no year; they always resolve against the year
// of now, even when that lands the date in the past.
func (r *Resolver) ResolveDate(phrase string, now time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(phrase)
	if raw == "" {
		return time.Time{}, false
	}
	now = now.In(r.loc)

	// ISO strings are checked before lowercasing preserves nothing else.
	if strings.Contains(raw, "T") {
		if t, err := r.ParseISO(raw); err == nil {
			return t, true
		}
	}

	p := strings.ToLower(raw)

	switch p {
	case "today":
		return midnight(now), true
	case "tomorrow":
		return midnight(now.AddDate(0, 0, 1)), true
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), true
	}

	if wd, ok := weekdayNames[p]; ok {
		return midnight(now.AddDate(0, 0, daysUntil(now.Weekday(), wd))), true
	}

	if rest, ok := strings.CutPrefix(p, "next "); ok {
		if wd, ok := weekdayNames[strings.TrimSpace(rest)]; ok {
			// Always lands in the following week: 7-13 days out.
			return midnight(now.AddDate(0, 0, daysUntil(now.Weekday(), wd)+7)), true
		}
	}

	if rest, ok := strings.CutPrefix(p, "this "); ok {
		if wd, ok := weekdayNames[strings.TrimSpace(rest)]; ok {
			offset := daysUntil(now.Weekday(), wd)
			if offset == 0 {
				offset = 7
			}
			return midnight(now.AddDate(0, 0, offset)), true
		}
	}

	if t, ok := r.resolveMonthDay(p, now); ok {
		return t, true
	}

	return time.Time{}, false
}

// resolveMonthDay parses "<month-name> <day>" in now's year.
func (r *Resolver) resolveMonthDay(p string, now time.Time) (time.Time, bool) {
	fields := strings.Fields(p)
	if len(fields) != 2 {
		return time.Time{}, false
	}
	month, ok := monthNames[fields[0]]
	if !ok {
		return time.Time{}, false
	}
	m := ordinalPattern.FindStringSubmatch(fields[1])
	if m == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(now.Year(), month, day, 0, 0, 0, 0, r.loc)
	// Reject overflowed dates such as "February 30".
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ResolveTime parses a time-of-day phrase onto the given date. Supported:
// 24-hour "H:MM" and 12-hour "H[:MM] am|pm" (minute defaults to 0).
// Out-of-range components or any other shape yield an
// InvalidTimeFormatError. The result is anchored to the target location.
func (r *Resolver) ResolveTime(phrase string, date time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	date = date.In(r.loc)

	if m := time12Pattern.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return time.Time{}, &InvalidTimeFormatError{Phrase: phrase}
		}
		hour = hour % 12
		if m[3] == "pm" {
			hour += 12
		}
		return r.at(date, hour, minute), nil
	}

	if m := time24Pattern.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return time.Time{}, &InvalidTimeFormatError{Phrase: phrase}
		}
		return r.at(date, hour, minute), nil
	}

	return time.Time{}, &InvalidTimeFormatError{Phrase: phrase}
}

// ParseISO parses an ISO-8601 timestamp, with or without a zone offset.
// Offset-less timestamps are interpreted in the target location; anything
// with an offset is converted into it.
func (r *Resolver) ParseISO(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(r.loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO timestamp %q: %w", s, err)
	}
	return t, nil
}

// WindowRequest describes the caller-supplied hints a search window is
// derived from. Precedence: explicit ISO bounds > named day >
// time-of-day preference > defaults.
type WindowRequest struct {
	StartISO       string
	EndISO         string
	Day            string
	TimePreference string
}

// BuildWindow derives the slot-search window from req, relative to now.
// With no hints the window is today 08:00 through 20:00 seven days out.
// A named day narrows the window to 08:00-20:00 of that day; a
// time-of-day preference then rewrites the hours relative to the window's
// start day.
func (r *Resolver) BuildWindow(req WindowRequest, now time.Time) (Interval, error) {
	now = now.In(r.loc)

	w := Interval{
		Start: r.at(now, defaultWindowStartHour, 0),
		End:   r.at(now.AddDate(0, 0, defaultWindowSpanDays), defaultWindowEndHour, 0),
	}

	if req.StartISO != "" {
		t, err := r.ParseISO(req.StartISO)
		if err != nil {
			return Interval{}, fmt.Errorf("window start: %w", err)
		}
		w.Start = t
	}
	if req.EndISO != "" {
		t, err := r.ParseISO(req.EndISO)
		if err != nil {
			return Interval{}, fmt.Errorf("window end: %w", err)
		}
		w.End = t
	}

	if req.Day != "" {
		day, ok := r.ResolveDate(req.Day, now)
		if !ok {
			return Interval{}, fmt.Errorf("unrecognized day %q", req.Day)
		}
		w.Start = r.at(day, defaultWindowStartHour, 0)
		w.End = r.at(day, defaultWindowEndHour, 0)
	}

	if req.TimePreference != "" {
		w = ApplyTimePreference(w, req.TimePreference)
	}

	if !w.IsValid() {
		return Interval{}, fmt.Errorf("invalid search window: start %s is not before end %s",
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return w, nil
}

// DayInterval returns the full-day interval [00:00, next midnight) that
// contains t.
func (r *Resolver) DayInterval(t time.Time) Interval {
	start := midnight(t.In(r.loc))
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// ApplyTimePreference rewrites a window's hours for a textual time-of-day
// preference, relative to the window's existing start day: morning
// 08:00-12:00, afternoon 12:00-17:00, evening 17:00-20:00. Unrecognized
// preferences leave the window unchanged.
func ApplyTimePreference(w Interval, pref string) Interval {
	p := strings.ToLower(pref)
	day := w.Start
	switch {
	case strings.Contains(p, "morning"):
		return Interval{Start: hourOf(day, 8), End: hourOf(day, 12)}
	case strings.Contains(p, "afternoon"):
		return Interval{Start: hourOf(day, 12), End: hourOf(day, 17)}
	case strings.Contains(p, "evening"):
		return Interval{Start: hourOf(day, 17), End: hourOf(day, 20)}
	}
	return w
}

// daysUntil returns how many days ahead the next occurrence of target is,
// where the same weekday counts as today (0).
func daysUntil(from, target time.Weekday) int {
	return (int(target) - int(from) + 7) % 7
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func hourOf(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, t.Location())
}

func (r *Resolver) at(day time.Time, hour, minute int) time.Time {
	y, m, d := day.In(r.loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, r.loc)
}
