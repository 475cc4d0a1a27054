package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	errs "github.com/ducminhle1904/incubator/internal/errors"
)

const maxRecentErrors = 20

var startTime = time.Now()

type HealthChecker struct {
	mu             sync.RWMutex
	lastGeneration time.Time
	generations    map[string]int
	running        bool
	stats          *errs.ErrorStats
	errors         []string
}

type HealthStatus struct {
	Status         string             `json:"status"`
	Timestamp      time.Time          `json:"timestamp"`
	LastGeneration time.Time          `json:"last_generation"`
	Generations    map[string]int     `json:"generations"`
	Running        bool               `json:"running"`
	Uptime         string             `json:"uptime"`
	ErrorCount     int                `json:"error_count"`
	ErrorRates     map[string]float64 `json:"error_rates,omitempty"`
	Errors         []string           `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		generations: make(map[string]int),
		stats:       errs.NewErrorStats(maxRecentErrors),
		errors:      make([]string, 0),
	}
}

// SetRunning marks whether trials are currently being evolved
func (h *HealthChecker) SetRunning(running bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = running
}

// RecordGeneration stores the latest committed generation index of a trial
func (h *HealthChecker) RecordGeneration(trial string, generation int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generations[trial] = generation
	h.lastGeneration = time.Now()
}

// RecordError keeps the most recent failures for the status report
func (h *HealthChecker) RecordError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var ie *errs.IncubatorError
	if !errors.As(err, &ie) {
		ie = errs.WrapError(err, errs.CategoryOf(err), "monitoring", "RecordError")
	}
	h.stats.RecordError(ie)

	h.errors = append(h.errors, err.Error())
	if len(h.errors) > maxRecentErrors {
		h.errors = h.errors[1:]
	}
}

// Status builds the current health snapshot
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.running && !h.lastGeneration.IsZero() && time.Since(h.lastGeneration) > time.Minute*5 {
		status = "degraded"
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
	}

	generations := make(map[string]int, len(h.generations))
	for k, v := range h.generations {
		generations[k] = v
	}

	// share of recorded failures per category, plain errors count as UNKNOWN
	var rates map[string]float64
	if h.stats.TotalErrors > 0 {
		rates = make(map[string]float64, len(h.stats.ErrorsByCategory))
		for category := range h.stats.ErrorsByCategory {
			label := string(category)
			if label == "" {
				label = "UNKNOWN"
			}
			rates[label] = h.stats.GetErrorRate(category)
		}
	}

	return HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		LastGeneration: h.lastGeneration,
		Generations:    generations,
		Running:        h.running,
		Uptime:         time.Since(startTime).String(),
		ErrorCount:     h.stats.TotalErrors,
		ErrorRates:     rates,
		Errors:         append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	switch health.Status {
	case "degraded":
		w.WriteHeader(http.StatusServiceUnavailable)
	case "unhealthy":
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}
