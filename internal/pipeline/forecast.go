package pipeline

import (
	"encoding/json"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/envcast/internal/common"
	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/store"
)

var settingsNamespace = uuid.MustParse("0b8f5a4e-6c1d-4e0a-9a55-3f4c2b7d9e10")

// SettingsHash fingerprints a scenario set so cached forecasts built with
// different scenarios never collide.
func SettingsHash(s model.Settings) string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return uuid.NewSHA1(settingsNamespace, data).String()
}

// ForecastOptions configures BuildAll.
type ForecastOptions struct {
	Months   int
	Now      time.Time
	Settings model.Settings
	Logger   *common.Logger
	// Cache, when set, serves and stores forecast results and records
	// every build in the run history.
	Cache *store.Cache
}

// Forecast is the outcome of forecasting one budget.
type Forecast struct {
	Budget   *model.Budget
	Result   *forecast.Result
	RunID    string
	Cached   bool
	Duration time.Duration
	Err      error
}

// BuildAll forecasts every budget. Builds run on a bounded worker pool;
// cache reads and writes happen before and after it, on the calling
// goroutine.
func BuildAll(budgets []*model.Budget, opts ForecastOptions, progressFn ProgressFunc) []Forecast {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	months := forecast.ClampMonths(opts.Months)
	hash := SettingsHash(opts.Settings)
	log := opts.Logger
	if log == nil {
		log = common.NewSilentLogger()
	}

	out := make([]Forecast, len(budgets))
	var pending []int
	for i, b := range budgets {
		out[i].Budget = b
		if res, ok := loadCached(opts.Cache, forecastKey(b, now, months, hash)); ok {
			out[i].Result = res
			out[i].Cached = true
			continue
		}
		pending = append(pending, i)
	}

	var processed atomic.Int64
	done := len(budgets) - len(pending)
	report := func() {
		if progressFn != nil {
			progressFn(done+int(processed.Add(1)), len(budgets))
		}
	}

	if len(pending) > 0 {
		numWorkers := runtime.GOMAXPROCS(0)
		if numWorkers < 1 {
			numWorkers = 4
		}
		if numWorkers > len(pending) {
			numWorkers = len(pending)
		}

		work := make(chan int, len(pending))
		for _, i := range pending {
			work <- i
		}
		close(work)

		var wg sync.WaitGroup
		wg.Add(numWorkers)
		for w := 0; w < numWorkers; w++ {
			go func() {
				defer wg.Done()
				for idx := range work {
					start := time.Now()
					res, err := forecast.Build(budgets[idx], forecast.Options{
						Months:   months,
						Now:      now,
						Settings: opts.Settings,
						Logger:   log.Component("forecast"),
					})
					out[idx].Result = res
					out[idx].Err = err
					out[idx].Duration = time.Since(start)
					report()
				}
			}()
		}
		wg.Wait()
	}

	for i := range out {
		f := &out[i]
		if f.Err != nil {
			log.Warn().Err(f.Err).Str("budget", f.Budget.Name).Msg("forecast failed")
		}
		if opts.Cache == nil {
			continue
		}
		if !f.Cached && f.Err == nil {
			saveCached(opts.Cache, forecastKey(f.Budget, now, months, hash), f.Result, log)
		}
		f.RunID = uuid.NewString()
		if err := opts.Cache.RecordRun(runRecord(f, months, hash)); err != nil {
			log.Debug().Err(err).Msg("recording forecast run")
		}
	}
	return out
}

func forecastKey(b *model.Budget, now time.Time, months int, hash string) store.ForecastKey {
	return store.ForecastKey{
		FilePath:     b.FilePath,
		AsOf:         model.DayStart(now),
		Months:       months,
		SettingsHash: hash,
	}
}

func loadCached(cache *store.Cache, k store.ForecastKey) (*forecast.Result, bool) {
	if cache == nil || k.FilePath == "" {
		return nil, false
	}
	payload, ok, err := cache.LoadForecast(k)
	if err != nil || !ok {
		return nil, false
	}
	var res forecast.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func saveCached(cache *store.Cache, k store.ForecastKey, res *forecast.Result, log *common.Logger) {
	if k.FilePath == "" {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		log.Debug().Err(err).Msg("encoding forecast")
		return
	}
	if err := cache.SaveForecast(k, payload); err != nil {
		log.Debug().Err(err).Str("file", k.FilePath).Msg("caching forecast")
	}
}

func runRecord(f *Forecast, months int, hash string) store.Run {
	r := store.Run{
		ID:           f.RunID,
		BudgetID:     f.Budget.ID,
		BudgetName:   f.Budget.Name,
		FilePath:     f.Budget.FilePath,
		Months:       months,
		SettingsHash: hash,
		StartedAt:    time.Now(),
		Duration:     f.Duration,
		Cached:       f.Cached,
	}
	if f.Err != nil {
		r.Err = f.Err.Error()
		return r
	}
	s := Summarize(f.Result)
	r.Transactions = s.Transactions
	r.IncomeTotal = s.ScheduledIncome
	r.ExpenseTotal = s.ScheduledExpenses + s.ProjectedSpending
	r.SweptTotal = s.SweptTotal
	r.Underfunded = s.Underfunded
	return r
}
