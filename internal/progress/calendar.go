package progress

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used in records.
const DateLayout = "2006-01-02"

// Calendar turns instants into calendar days of one time zone.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

func (c Calendar) Day(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// PreviousDay steps back one calendar day, not 24 hours, so DST switches
// do not skip or repeat a day.
func (c Calendar) PreviousDay(t time.Time) string {
	local := t.In(c.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return midnight.AddDate(0, 0, -1).Format(DateLayout)
}

func (c Calendar) Location() *time.Location {
	return c.loc
}

// DaysBetween counts whole calendar days from one day to another.
func DaysBetween(from, to string) (int, error) {
	fromDay, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse day [%s]: %w", from, err)
	}
	toDay, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse day [%s]: %w", to, err)
	}
	return int(toDay.Sub(fromDay).Hours() / 24), nil
}
