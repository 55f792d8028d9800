// Package daemon provides the long-running forecast watcher service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/envcast/internal/common"
	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/pipeline"
	"github.com/theirongolddev/envcast/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	SnapshotPath string
	Budget       string
	Months       int
	SettingsPath string
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *common.Logger
}

// Snapshot is a compact forecast state for status/event payloads.
type Snapshot struct {
	At            time.Time `json:"at"`
	Budget        string    `json:"budget"`
	CurrentMonth  time.Time `json:"current_month"`
	ForecastUntil time.Time `json:"forecast_until"`
	Transactions  int       `json:"transactions"`
	Income        int64     `json:"income"`
	Expenses      int64     `json:"expenses"`
	Allocated     int64     `json:"allocated"`
	Swept         int64     `json:"swept"`
	Underfunded   int       `json:"underfunded"`
	FundedRate    float64   `json:"funded_rate"`
	EndingBalance int64     `json:"ending_balance"`
	LowestBalance int64     `json:"lowest_balance"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Transactions  int   `json:"transactions"`
	Income        int64 `json:"income"`
	Expenses      int64 `json:"expenses"`
	Swept         int64 `json:"swept"`
	Underfunded   int   `json:"underfunded"`
	EndingBalance int64 `json:"ending_balance"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.Income == 0 &&
		d.Expenses == 0 &&
		d.Swept == 0 &&
		d.Underfunded == 0 &&
		d.EndingBalance == 0
}

// Event is emitted whenever the forecast changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	SnapshotPath    string    `json:"snapshot_path"`
	Months          int       `json:"months"`
	Budget          string    `json:"budget,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *common.Logger

	// build produces a fresh forecast; replaced in tests.
	build func(now time.Time) (*forecast.Result, error)

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	result      *forecast.Result
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	log := cfg.Logger
	if log == nil {
		log = common.NewSilentLogger()
	}

	s := &Service{
		cfg:       cfg,
		log:       log.Component("daemon"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.build = s.buildForecast
	return s
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/months", s.handleMonths)
	mux.HandleFunc("GET /v1/funding/{txid}", s.handleFunding)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(time.Now())

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case t := <-ticker.C:
			s.pollOnce(t)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(now time.Time) {
	start := time.Now()
	res, err := s.build(now)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	snap := snapshotFromSummary(pipeline.Summarize(res), now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.result = res
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "forecast_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
	s.log.Debug().
		Dur("took", time.Since(start)).
		Bool("changed", publish).
		Int("transactions", snap.Transactions).
		Msg("poll complete")
}

// buildForecast reloads scenarios and the snapshot, then builds one
// forecast. Scenario edits are picked up on the next poll.
func (s *Service) buildForecast(now time.Time) (*forecast.Result, error) {
	var settings model.Settings
	if s.cfg.SettingsPath != "" {
		var err error
		if settings, err = config.LoadSettings(s.cfg.SettingsPath); err != nil {
			return nil, err
		}
	}

	var cache *store.Cache
	var budgets []*model.Budget
	if s.cfg.UseCache {
		c, err := store.Open(pipeline.CachePath())
		if err == nil {
			cache = c
			defer func() { _ = cache.Close() }()
			if cr, loadErr := pipeline.LoadWithCache(s.cfg.SnapshotPath, cache, nil); loadErr == nil {
				budgets = cr.Budgets
			} else {
				s.log.Warn().Err(loadErr).Msg("cached load failed, reading snapshot directly")
			}
		}
	}
	if budgets == nil {
		result, err := pipeline.Load(s.cfg.SnapshotPath, nil)
		if err != nil {
			return nil, err
		}
		budgets = result.Budgets
	}

	b, err := pipeline.SelectBudget(budgets, s.cfg.Budget)
	if err != nil {
		return nil, err
	}
	out := pipeline.BuildAll([]*model.Budget{b}, pipeline.ForecastOptions{
		Months:   s.cfg.Months,
		Now:      now,
		Settings: settings,
		Logger:   s.log,
		Cache:    cache,
	}, nil)
	return out[0].Result, out[0].Err
}

func snapshotFromSummary(stats model.SummaryStats, at time.Time) Snapshot {
	return Snapshot{
		At:            at,
		Budget:        stats.BudgetName,
		CurrentMonth:  stats.CurrentMonth,
		ForecastUntil: stats.ForecastUntil,
		Transactions:  stats.Transactions,
		Income:        stats.ScheduledIncome,
		Expenses:      stats.ScheduledExpenses + stats.ProjectedSpending,
		Allocated:     stats.AllocatedTotal,
		Swept:         stats.SweptTotal,
		Underfunded:   stats.Underfunded,
		FundedRate:    stats.FundedRate(),
		EndingBalance: stats.EndingBalance,
		LowestBalance: stats.LowestBalance,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:  curr.Transactions - prev.Transactions,
		Income:        curr.Income - prev.Income,
		Expenses:      curr.Expenses - prev.Expenses,
		Swept:         curr.Swept - prev.Swept,
		Underfunded:   curr.Underfunded - prev.Underfunded,
		EndingBalance: curr.EndingBalance - prev.EndingBalance,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		SnapshotPath:    s.cfg.SnapshotPath,
		Months:          forecast.ClampMonths(s.cfg.Months),
		Budget:          s.cfg.Budget,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) latest() *forecast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleMonths(w http.ResponseWriter, _ *http.Request) {
	res := s.latest()
	if res == nil {
		http.Error(w, "forecast not ready", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, pipeline.AggregateMonths(res))
}

func (s *Service) handleFunding(w http.ResponseWriter, r *http.Request) {
	res := s.latest()
	if res == nil {
		http.Error(w, "forecast not ready", http.StatusServiceUnavailable)
		return
	}
	txid := r.PathValue("txid")
	for _, f := range pipeline.AggregateFunding(res) {
		if f.TransactionID == txid {
			writeJSON(w, f)
			return
		}
	}
	http.Error(w, "no funding for "+txid, http.StatusNotFound)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
