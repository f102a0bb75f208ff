package progress_test

import (
	"strings"
	"testing"
	"time"

	"github.com/2beens/fittracker/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificate(t *testing.T) {
	p := testProfile("intermediate")
	p.Name = "jane doe"
	record := progress.Record{TotalWorkouts: 12, DaysActive: 10, CurrentStreak: 4}

	cert := progress.NewCertificate(*p, record, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, progress.Certificate{
		Name:          "jane doe",
		Level:         "Intermediate",
		TotalWorkouts: 12,
		DaysActive:    10,
		CurrentStreak: 4,
		Date:          "March 1, 2024",
	}, cert)

	text := cert.Text()
	assert.Contains(t, text, "CERTIFICATE OF ACHIEVEMENT")
	assert.Contains(t, text, "JANE DOE")
	assert.Contains(t, text, "Intermediate Level")
	assert.Contains(t, text, "Total Workouts: 12")
	assert.Contains(t, text, "Days Active:    10")
	assert.Contains(t, text, "Day Streak:     4")
	assert.Contains(t, text, "Date of Completion: March 1, 2024")
	assert.True(t, strings.HasSuffix(text, "\n"))
}

func TestNewCertificate_UnknownLevelShowsBasic(t *testing.T) {
	cert := progress.NewCertificate(*testProfile("elite"), progress.Record{}, testNow)
	assert.Equal(t, "Basic", cert.Level)
}

func TestNewCertificate_DatedInTrackerZone(t *testing.T) {
	auckland := time.FixedZone("NZDT", 13*60*60)
	tracker := progress.NewTracker(nil, nil, auckland, nil)
	// still the 1st in UTC, already the 2nd in Auckland
	tracker.NowFunc = func() time.Time { return time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC) }

	assert.Equal(t, "2024-03-02", tracker.Today())
	cert := progress.NewCertificate(*testProfile("basic"), progress.Record{TotalWorkouts: 1}, tracker.Now())
	assert.Equal(t, "March 2, 2024", cert.Date)
}

func TestCertificate_TextCentersByCharacters(t *testing.T) {
	p := testProfile("advanced")
	p.Name = "Zoë Łukasiewicz"
	cert := progress.NewCertificate(*p, progress.Record{TotalWorkouts: 3}, testNow)

	var nameLine string
	for _, line := range strings.Split(cert.Text(), "\n") {
		if strings.TrimSpace(line) == "ZOË ŁUKASIEWICZ" {
			nameLine = line
		}
	}
	require.NotEmpty(t, nameLine)

	// 64 wide, 15 characters
	assert.Equal(t, strings.Repeat(" ", 24), nameLine[:24])
	assert.Equal(t, "ZOË ŁUKASIEWICZ", nameLine[24:])
}
