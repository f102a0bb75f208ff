package progress_test

import (
	"testing"
	"time"

	"github.com/2beens/fittracker/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_DayUsesLocation(t *testing.T) {
	instant := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", progress.NewCalendar(time.UTC).Day(instant))

	behindUTC := time.FixedZone("UTC-5", -5*60*60)
	cal := progress.NewCalendar(behindUTC)
	assert.Equal(t, "2024-02-29", cal.Day(instant))
	assert.Equal(t, "2024-02-28", cal.PreviousDay(instant))
	assert.Equal(t, behindUTC, cal.Location())
}

func TestCalendar_PreviousDay(t *testing.T) {
	cal := progress.NewCalendar(time.UTC)
	assert.Equal(t, "2023-12-31", cal.PreviousDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", cal.PreviousDay(time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)))
}

func TestCalendar_NilLocationIsLocal(t *testing.T) {
	assert.Equal(t, time.Local, progress.NewCalendar(nil).Location())
}

func TestDaysBetween(t *testing.T) {
	days, err := progress.DaysBetween("2024-01-31", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	days, err = progress.DaysBetween("2024-03-01", "2024-03-01")
	require.NoError(t, err)
	assert.Zero(t, days)

	days, err = progress.DaysBetween("2024-03-02", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, -1, days)

	_, err = progress.DaysBetween("", "2024-03-01")
	assert.Error(t, err)
	_, err = progress.DaysBetween("2024-03-01", "03/01/2024")
	assert.Error(t, err)
}
