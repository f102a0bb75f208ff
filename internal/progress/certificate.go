package progress

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/fittracker/internal/profile"
)

const (
	certificateTitle      = "CERTIFICATE OF ACHIEVEMENT"
	certificateProgram    = "FitTracker Fitness Program"
	certificateDateLayout = "January 2, 2006"
	certificateWidth      = 64
)

// Certificate is the printable completion certificate data.
type Certificate struct {
	Name          string `json:"name"`
	Level         string `json:"level"`
	TotalWorkouts int    `json:"totalWorkouts"`
	DaysActive    int    `json:"daysActive"`
	CurrentStreak int    `json:"currentStreak"`
	Date          string `json:"date"`
}

// NewCertificate dates the certificate by the calendar day of completedAt in
// its own location.
func NewCertificate(p profile.Profile, record Record, completedAt time.Time) Certificate {
	return Certificate{
		Name:          p.Name,
		Level:         p.Level().Title(),
		TotalWorkouts: record.TotalWorkouts,
		DaysActive:    record.DaysActive,
		CurrentStreak: record.CurrentStreak,
		Date:          completedAt.Format(certificateDateLayout),
	}
}

// Text renders the certificate as plain text, ready to print.
func (c Certificate) Text() string {
	var sb strings.Builder
	rule := strings.Repeat("=", certificateWidth)

	sb.WriteString(rule + "\n")
	sb.WriteString(center(certificateTitle) + "\n")
	sb.WriteString(center(certificateProgram) + "\n")
	sb.WriteString(rule + "\n\n")
	sb.WriteString(center("This is to certify that") + "\n\n")
	sb.WriteString(center(strings.ToUpper(c.Name)) + "\n\n")
	sb.WriteString(center(fmt.Sprintf("has successfully completed the %s Level", c.Level)) + "\n")
	sb.WriteString(center("fitness program with dedication and commitment.") + "\n\n")
	sb.WriteString(fmt.Sprintf("  Total Workouts: %d\n", c.TotalWorkouts))
	sb.WriteString(fmt.Sprintf("  Days Active:    %d\n", c.DaysActive))
	sb.WriteString(fmt.Sprintf("  Day Streak:     %d\n\n", c.CurrentStreak))
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("  Date of Completion: %s\n", c.Date))
	sb.WriteString(rule + "\n")

	return sb.String()
}

func center(s string) string {
	pad := (certificateWidth - utf8.RuneCountInString(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
