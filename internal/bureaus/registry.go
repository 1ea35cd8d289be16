package bureaus

import (
	"math"
	"sync"
	"time"

	"credit-backend/internal/scoring"
)

// BureauStatus is the observed availability of one bureau.
type BureauStatus struct {
	Name        scoring.Bureau `json:"name"`
	Status      scoring.Status `json:"status"`
	Uptime      float64        `json:"uptime"`
	Attempts    int            `json:"attempts"`
	LastError   string         `json:"lastError,omitempty"`
	LastUpdated *time.Time     `json:"lastUpdated,omitempty"`
}

type bureauStats struct {
	attempts  int
	successes int
	lastOK    bool
	lastError string
	lastAt    time.Time
}

// Registry tracks fetch outcomes per bureau.
type Registry struct {
	mu    sync.Mutex
	stats map[scoring.Bureau]*bureauStats
	order []scoring.Bureau
}

// NewRegistry creates a registry reporting on the given bureaus.
func NewRegistry(bureaus []scoring.Bureau) *Registry {
	r := &Registry{stats: make(map[scoring.Bureau]*bureauStats, len(bureaus))}
	for _, b := range bureaus {
		r.stats[b] = &bureauStats{lastOK: true}
		r.order = append(r.order, b)
	}
	return r
}

// Record stores the outcome of one fetch.
func (r *Registry) Record(b scoring.Bureau, err error, at time.Time) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[b]
	if !ok {
		s = &bureauStats{}
		r.stats[b] = s
		r.order = append(r.order, b)
	}
	s.attempts++
	s.lastAt = at
	if err != nil {
		s.lastOK = false
		s.lastError = err.Error()
		return
	}
	s.successes++
	s.lastOK = true
	s.lastError = ""
}

// Snapshot returns the status of every known bureau. Bureaus that were never
// queried are reported online with full uptime.
func (r *Registry) Snapshot() []BureauStatus {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BureauStatus, 0, len(r.order))
	for _, b := range r.order {
		s := r.stats[b]
		st := BureauStatus{Name: b, Status: scoring.StatusOnline, Uptime: 100, Attempts: s.attempts}
		if s.attempts > 0 {
			st.Uptime = math.Round(float64(s.successes)/float64(s.attempts)*1000) / 10
			at := s.lastAt
			st.LastUpdated = &at
		}
		if !s.lastOK {
			st.Status = scoring.StatusOffline
			st.LastError = s.lastError
		}
		out = append(out, st)
	}
	return out
}
