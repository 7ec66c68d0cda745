package health

import (
	"context"
	"sync"
	"time"
)

// Report is the outcome of running every registered check once.
type Report struct {
	// Status is the worst status across all results. An empty run is
	// healthy.
	Status Status

	// Results holds one result per registered checker, keyed by name.
	Results map[string]Result

	// CheckedAt is when the run started.
	CheckedAt time.Time
}

// AggregatorConfig configures a check run.
type AggregatorConfig struct {
	// Timeout bounds one full run across all checks.
	// Default: 10 seconds
	Timeout time.Duration

	// Serial runs checks one at a time instead of concurrently. Useful
	// when checks share a rate-limited dependency.
	// Default: false
	Serial bool
}

// Aggregator runs the gateway's dependency checks and folds them into
// a single report. Typical registrations are a CircuitChecker per
// breaker and a RemoteChecker for the search service.
type Aggregator struct {
	timeout time.Duration
	serial  bool

	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an aggregator.
func NewAggregator(config AggregatorConfig) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Aggregator{
		timeout: config.Timeout,
		serial:  config.Serial,
	}
}

// Register adds a checker. Registering a second checker with the same
// name replaces the first; registration order is preserved either way.
func (a *Aggregator) Register(checker Checker) {
	if checker == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i, existing := range a.checkers {
		if existing.Name() == checker.Name() {
			a.checkers[i] = checker
			return
		}
	}
	a.checkers = append(a.checkers, checker)
}

// Unregister removes the named checker, if present.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, c := range a.checkers {
		if c.Name() == name {
			a.checkers = append(a.checkers[:i], a.checkers[i+1:]...)
			return
		}
	}
}

// Names returns the registered checker names in registration order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.checkers))
	for i, c := range a.checkers {
		names[i] = c.Name()
	}
	return names
}

// Check runs the single named check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	var checker Checker
	for _, c := range a.checkers {
		if c.Name() == name {
			checker = c
			break
		}
	}
	a.mu.RUnlock()

	if checker == nil {
		return Result{}, ErrUnknownChecker
	}
	return a.runOne(ctx, checker), nil
}

// Run executes every registered check under the configured timeout and
// returns the folded report.
func (a *Aggregator) Run(ctx context.Context) Report {
	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Results:   make(map[string]Result, len(checkers)),
		CheckedAt: time.Now(),
	}
	if len(checkers) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if a.serial {
		for _, c := range checkers {
			report.Results[c.Name()] = a.runOne(ctx, c)
		}
	} else {
		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, c := range checkers {
			wg.Add(1)
			go func(c Checker) {
				defer wg.Done()
				res := a.runOne(ctx, c)
				mu.Lock()
				report.Results[c.Name()] = res
				mu.Unlock()
			}(c)
		}
		wg.Wait()
	}

	for _, res := range report.Results {
		report.Status = worse(report.Status, res.Status)
	}
	return report
}

// runOne guards a single check against the run deadline. The check
// goroutine is left to finish on its own when the deadline wins.
func (a *Aggregator) runOne(ctx context.Context, checker Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)

	go func() {
		done <- checker.Check(ctx)
	}()

	var res Result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = Unhealthy("check timed out", ErrCheckTimeout)
	}

	res.Elapsed = time.Since(start)
	if res.CheckedAt.IsZero() {
		res.CheckedAt = start
	}
	return res
}
