package progress

import (
	"errors"
	"slices"
)

var (
	ErrRecordNotFound = errors.New("progress record not found")
	// ErrMalformedRecord is returned by stores for blobs that do not parse.
	// The tracker treats it the same as a missing record.
	ErrMalformedRecord = errors.New("progress record malformed")
)

// Record is the cross-session workout history of one user. The JSON shape is
// the one the web client keeps in local storage.
type Record struct {
	TotalWorkouts   int      `json:"totalWorkouts"`
	DaysActive      int      `json:"daysActive"`
	CurrentStreak   int      `json:"currentStreak"`
	LastWorkoutDate string   `json:"lastWorkoutDate"`
	WorkoutDates    []string `json:"workoutDates"`
	LevelStartDate  string   `json:"levelStartDate"`
}

// NewRecord is the state of a first-time user.
func NewRecord(today string) Record {
	return Record{
		WorkoutDates:   []string{},
		LevelStartDate: today,
	}
}

func (r Record) HasWorkoutOn(day string) bool {
	return slices.Contains(r.WorkoutDates, day)
}

func (r Record) Clone() Record {
	r.WorkoutDates = slices.Clone(r.WorkoutDates)
	if r.WorkoutDates == nil {
		r.WorkoutDates = []string{}
	}
	return r
}

// withWorkoutOn applies one new workout done on today. Callers guarantee
// today differs from LastWorkoutDate.
func (r Record) withWorkoutOn(today, yesterday string) Record {
	updated := r.Clone()
	if !updated.HasWorkoutOn(today) {
		updated.WorkoutDates = append(updated.WorkoutDates, today)
	}
	updated.DaysActive = len(updated.WorkoutDates)

	if r.LastWorkoutDate == yesterday {
		updated.CurrentStreak = r.CurrentStreak + 1
	} else {
		updated.CurrentStreak = 1
	}

	updated.LastWorkoutDate = today
	updated.TotalWorkouts = r.TotalWorkouts + 1
	return updated
}
