package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fittracker/internal/telemetry/metrics"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

const sweepRecordTimeout = 10 * time.Second

// Manager holds the dashboards of users with a workout in memory.
type Manager struct {
	mu         sync.Mutex
	dashboards map[string]*Dashboard

	profiles     profilesRepo
	recorder     workoutRecorder
	tickInterval time.Duration
	idleTTL      time.Duration
	metrics      *metrics.Manager
	scheduler    *gocron.Scheduler

	// injectable for tests
	NowFunc func() time.Time
}

func NewManager(
	profiles profilesRepo,
	recorder workoutRecorder,
	tickInterval time.Duration,
	idleTTL time.Duration,
	metricsManager *metrics.Manager,
) *Manager {
	return &Manager{
		dashboards:   make(map[string]*Dashboard),
		profiles:     profiles,
		recorder:     recorder,
		tickInterval: tickInterval,
		idleTTL:      idleTTL,
		metrics:      metricsManager,
		NowFunc:      time.Now,
	}
}

// Get returns the dashboard of a user, creating it on first use.
func (m *Manager) Get(userID string) *Dashboard {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.dashboards[userID]; ok {
		return d
	}

	d := newDashboard(userID, m.profiles, m.recorder, m.tickInterval, m.metrics, m.NowFunc)
	m.dashboards[userID] = d
	m.updateGaugeLocked()
	return d
}

// Lookup returns the dashboard of a user without creating one.
func (m *Manager) Lookup(userID string) (*Dashboard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dashboards[userID]
	return d, ok
}

// Reset drops the dashboard of a user, stopping its workout.
func (m *Manager) Reset(userID string) {
	m.mu.Lock()
	d, ok := m.dashboards[userID]
	delete(m.dashboards, userID)
	m.updateGaugeLocked()
	m.mu.Unlock()

	if ok {
		d.Close()
		log.Debugf("dashboard of %s reset", userID)
	}
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dashboards)
}

// SweepIdle closes the dashboards unused for longer than the idle TTL and
// returns how many were dropped. A dashboard holding a finished workout that
// is not stored yet stays; the sweep retries storing it and a later sweep
// drops it.
func (m *Manager) SweepIdle() int {
	now := m.NowFunc()

	m.mu.Lock()
	var idle, pending []*Dashboard
	for userID, d := range m.dashboards {
		idleFor, recordPending := d.idleState(now)
		if idleFor <= m.idleTTL {
			continue
		}
		if recordPending {
			pending = append(pending, d)
			continue
		}
		idle = append(idle, d)
		delete(m.dashboards, userID)
	}
	m.updateGaugeLocked()
	m.mu.Unlock()

	for _, d := range idle {
		d.Close()
	}
	if len(idle) > 0 {
		log.Debugf("idle sweep: %d dashboards closed", len(idle))
	}

	for _, d := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), sweepRecordTimeout)
		if err := d.flushPendingRecord(ctx); err != nil {
			log.Warnf("idle sweep: dashboard of %s kept, workout still not recorded", d.UserID())
		}
		cancel()
	}

	return len(idle)
}

// StartSweeper runs SweepIdle periodically until Close.
func (m *Manager) StartSweeper(interval time.Duration) error {
	if m.idleTTL <= 0 {
		log.Debugln("session idle ttl not set, idle sweeper off")
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(interval).Do(func() {
		m.SweepIdle()
	}); err != nil {
		return fmt.Errorf("schedule idle sweep: %w", err)
	}
	s.StartAsync()

	m.mu.Lock()
	m.scheduler = s
	m.mu.Unlock()
	return nil
}

// Close stops the sweeper and all running workouts.
func (m *Manager) Close() {
	m.mu.Lock()
	scheduler := m.scheduler
	m.scheduler = nil
	dashboards := m.dashboards
	m.dashboards = make(map[string]*Dashboard)
	m.updateGaugeLocked()
	m.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
	for _, d := range dashboards {
		d.Close()
	}
}

func (m *Manager) updateGaugeLocked() {
	if m.metrics != nil {
		m.metrics.GaugeActiveSessions.Set(float64(len(m.dashboards)))
	}
}
