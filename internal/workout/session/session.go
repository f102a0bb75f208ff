package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/fittracker/internal/workout/plan"
)

// DefaultTickInterval is the rest countdown resolution.
const DefaultTickInterval = time.Second

const upNextPreviewSize = 2

var (
	ErrEmptyPlan   = errors.New("workout plan is empty")
	ErrNotActive   = errors.New("no set in progress")
	ErrNotResting  = errors.New("not resting")
	ErrNotComplete = errors.New("workout not complete")
	ErrClosed      = errors.New("session closed")
)

// Phase can be one of:
//   - active
//   - resting
//   - complete
type Phase string

const (
	PhaseActive   Phase = "active"
	PhaseResting  Phase = "resting"
	PhaseComplete Phase = "complete"
)

func (p Phase) String() string {
	return string(p)
}

type RestState struct {
	Duration     int     `json:"duration"`
	Remaining    int     `json:"remaining"`
	Elapsed      float64 `json:"elapsed"`
	Paused       bool    `json:"paused"`
	NextExercise string  `json:"nextExercise"`
}

// State is a read-only snapshot of a session.
type State struct {
	Level         plan.FitnessLevel `json:"level"`
	Phase         Phase             `json:"phase"`
	ExerciseIndex int               `json:"exerciseIndex"`
	ExerciseCount int               `json:"exerciseCount"`
	CurrentSet    int               `json:"currentSet"`
	Progress      float64           `json:"progress"`
	Exercise      plan.Exercise     `json:"exercise"`
	VideoURL      string            `json:"videoUrl"`
	Rest          *RestState        `json:"rest,omitempty"`
	UpNext        []plan.Exercise   `json:"upNext"`
}

// Session drives one workout through its plan: which exercise, which set,
// and whether the user is working, resting or done.
type Session struct {
	mu sync.Mutex

	level        plan.FitnessLevel
	exercises    []plan.Exercise
	totalSets    int
	tickInterval time.Duration

	exerciseIdx int
	currentSet  int
	phase       Phase
	progress    float64
	closed      bool

	rest             *RestTimer
	restGen          int
	restNextExercise string
	// set when the rest was entered after moving to the next exercise,
	// so finishing it must not bump the set number
	restAfterAdvance bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a session at the first set of the first exercise. A tickInterval
// <= 0 leaves rest timers unstarted, they only move on explicit Tick calls.
func New(level plan.FitnessLevel, exercises []plan.Exercise, tickInterval time.Duration) (*Session, error) {
	if len(exercises) == 0 {
		return nil, ErrEmptyPlan
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		level:        level,
		exercises:    exercises,
		totalSets:    plan.TotalSets(exercises),
		tickInterval: tickInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
	s.resetLocked()
	return s, nil
}

// NewForLevel looks the plan up in the catalog.
func NewForLevel(level plan.FitnessLevel, tickInterval time.Duration) (*Session, error) {
	return New(level, plan.LookupPlan(level), tickInterval)
}

// CompleteSet marks the current set as done. Within an exercise it starts
// a rest before the next set; at an exercise boundary it moves to the next
// exercise first and then rests; after the final set the workout is complete.
func (s *Session) CompleteSet() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.stateLocked(), ErrClosed
	}
	if s.phase != PhaseActive {
		return s.stateLocked(), ErrNotActive
	}

	current := s.exercises[s.exerciseIdx]
	switch {
	case s.currentSet < current.Sets:
		s.startRestLocked(current.RestTime, current.Name, false)
	case s.exerciseIdx < len(s.exercises)-1:
		s.exerciseIdx++
		s.currentSet = 1
		s.recomputeProgressLocked()
		next := s.exercises[s.exerciseIdx]
		s.startRestLocked(next.RestTime, next.Name, true)
	default:
		s.phase = PhaseComplete
		s.progress = 100
	}

	return s.stateLocked(), nil
}

// SkipRest ends the rest period right away.
func (s *Session) SkipRest() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResting {
		return s.stateLocked(), ErrNotResting
	}
	s.finishRestLocked()
	return s.stateLocked(), nil
}

func (s *Session) PauseRest() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResting {
		return s.stateLocked(), ErrNotResting
	}
	s.rest.Pause()
	return s.stateLocked(), nil
}

func (s *Session) ResumeRest() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResting {
		return s.stateLocked(), ErrNotResting
	}
	s.rest.Resume()
	return s.stateLocked(), nil
}

// Restart begins the same plan again once the workout is complete.
func (s *Session) Restart() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.stateLocked(), ErrClosed
	}
	if s.phase != PhaseComplete {
		return s.stateLocked(), ErrNotComplete
	}
	s.resetLocked()
	return s.stateLocked(), nil
}

// Close stops any running rest timer. The session cannot be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopRestLocked()
	s.closed = true
	s.cancel()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) onRestExpired(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a skip or restart already moved on
	if s.closed || s.phase != PhaseResting || gen != s.restGen {
		return
	}
	s.finishRestLocked()
}

func (s *Session) startRestLocked(duration int, nextExercise string, afterAdvance bool) {
	s.stopRestLocked()

	s.restGen++
	gen := s.restGen
	s.rest = NewRestTimer(duration, func() {
		s.onRestExpired(gen)
	})
	s.restNextExercise = nextExercise
	s.restAfterAdvance = afterAdvance
	s.phase = PhaseResting

	if s.tickInterval > 0 {
		s.rest.Start(s.ctx, s.tickInterval)
	}
}

func (s *Session) finishRestLocked() {
	s.stopRestLocked()
	if !s.restAfterAdvance {
		s.currentSet++
	}
	s.restAfterAdvance = false
	s.restNextExercise = ""
	s.phase = PhaseActive
	s.recomputeProgressLocked()
}

func (s *Session) stopRestLocked() {
	if s.rest != nil {
		s.rest.Stop()
		s.rest = nil
	}
}

func (s *Session) resetLocked() {
	s.stopRestLocked()
	s.exerciseIdx = 0
	s.currentSet = 1
	s.phase = PhaseActive
	s.restAfterAdvance = false
	s.restNextExercise = ""
	s.progress = 0
}

func (s *Session) recomputeProgressLocked() {
	if s.phase == PhaseComplete {
		s.progress = 100
		return
	}

	completed := s.currentSet - 1
	for _, ex := range s.exercises[:s.exerciseIdx] {
		completed += ex.Sets
	}
	s.progress = float64(completed) / float64(s.totalSets) * 100
}

func (s *Session) stateLocked() State {
	current := s.exercises[s.exerciseIdx]
	state := State{
		Level:         s.level,
		Phase:         s.phase,
		ExerciseIndex: s.exerciseIdx,
		ExerciseCount: len(s.exercises),
		CurrentSet:    s.currentSet,
		Progress:      s.progress,
		Exercise:      current,
		VideoURL:      current.VideoEmbedURL(),
		UpNext:        []plan.Exercise{},
	}

	if s.phase == PhaseResting && s.rest != nil {
		state.Rest = &RestState{
			Duration:     s.rest.Duration(),
			Remaining:    s.rest.Remaining(),
			Elapsed:      s.rest.Elapsed(),
			Paused:       s.rest.Paused(),
			NextExercise: s.restNextExercise,
		}
	}

	if s.phase != PhaseComplete && s.exerciseIdx < len(s.exercises)-1 {
		end := min(s.exerciseIdx+1+upNextPreviewSize, len(s.exercises))
		state.UpNext = append(state.UpNext, s.exercises[s.exerciseIdx+1:end]...)
	}

	return state
}
