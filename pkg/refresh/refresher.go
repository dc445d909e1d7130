package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleaflip/pkg/logging"
	"fleaflip/pkg/tarkov"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Builder produces a complete catalog or fails
type Builder interface {
	BuildCatalog(ctx context.Context) (tarkov.Catalog, error)
}

// Subscriber receives every successfully built catalog. It is called on the
// refresher's goroutine and must hand the snapshot off quickly.
type Subscriber func(tarkov.Catalog)

// Config configures the refresher
type Config struct {
	Schedule       string        // cron expression with seconds field; empty disables periodic refresh
	Timeout        time.Duration // deadline for one rebuild (default: 60s)
	ManualCooldown time.Duration // minimum spacing of Trigger calls (default: 10s)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timeout:        60 * time.Second,
		ManualCooldown: 10 * time.Second,
	}
}

// Refresher rebuilds the catalog on a schedule and on demand and fans the
// result out to subscribers. Builds never run on the caller's UI goroutine.
type Refresher struct {
	builder Builder
	config  *Config
	logger  *logging.Logger
	cron    *cron.Cron
	limiter *rate.Limiter
	group   singleflight.Group

	mu          sync.RWMutex
	subscribers []Subscriber
	onError     func(error)
	builds      int64
	failures    int64
	lastBuilt   time.Time
	lastErr     error
}

// New creates a refresher. A nil config uses DefaultConfig.
func New(builder Builder, config *Config, logger *logging.Logger) *Refresher {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.ManualCooldown <= 0 {
		config.ManualCooldown = 10 * time.Second
	}

	cronLogger := cron.VerbosePrintfLogger(logger.WithComponent("refresh").Logger)
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Refresher{
		builder: builder,
		config:  config,
		logger:  logger,
		cron:    c,
		limiter: rate.NewLimiter(rate.Every(config.ManualCooldown), 1),
	}
}

// Subscribe registers a catalog consumer
func (r *Refresher) Subscribe(fn Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// OnError sets the handler for failed background rebuilds
func (r *Refresher) OnError(fn func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
}

// Refresh builds once and publishes the result. Concurrent callers share a
// single in-flight build. On failure nothing is published.
func (r *Refresher) Refresh(ctx context.Context) (tarkov.Catalog, error) {
	v, err, shared := r.group.Do("catalog", func() (interface{}, error) {
		return r.build(ctx)
	})
	if shared {
		r.logger.WithComponent("refresh").Debug("Joined in-flight rebuild")
	}
	if err != nil {
		return tarkov.Catalog{}, err
	}
	return v.(tarkov.Catalog), nil
}

func (r *Refresher) build(ctx context.Context) (tarkov.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	catalog, err := r.builder.BuildCatalog(ctx)

	r.mu.Lock()
	if err != nil {
		r.failures++
		r.lastErr = err
	} else {
		r.builds++
		r.lastBuilt = time.Now()
		r.lastErr = nil
	}
	subscribers := append([]Subscriber(nil), r.subscribers...)
	r.mu.Unlock()

	if err != nil {
		r.logger.WithComponent("refresh").WithError(err).Error("Catalog rebuild failed")
		return tarkov.Catalog{}, err
	}

	for _, fn := range subscribers {
		fn(catalog)
	}
	return catalog, nil
}

// Trigger starts a background rebuild unless one was triggered within the
// cooldown. It returns whether a rebuild was started.
func (r *Refresher) Trigger() bool {
	if !r.limiter.Allow() {
		r.logger.WithComponent("refresh").Debug("Manual refresh rate limited")
		return false
	}
	go r.runBackground("manual")
	return true
}

func (r *Refresher) runBackground(reason string) {
	r.logger.WithComponent("refresh").WithField("reason", reason).Info("Rebuilding catalog")
	if _, err := r.Refresh(context.Background()); err != nil {
		r.mu.RLock()
		onError := r.onError
		r.mu.RUnlock()
		if onError != nil {
			onError(err)
		}
	}
}

// Start registers the schedule, if any, and starts the cron runner
func (r *Refresher) Start() error {
	if r.config.Schedule != "" {
		if _, err := r.cron.AddFunc(r.config.Schedule, func() {
			r.runBackground("scheduled")
		}); err != nil {
			return fmt.Errorf("failed to add refresh schedule %q: %w", r.config.Schedule, err)
		}
		r.logger.WithComponent("refresh").WithField("cron", r.config.Schedule).Info("Scheduled refresh added")
	}
	r.cron.Start()
	return nil
}

// Stop stops the cron runner and waits for a running scheduled rebuild
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// NextRun returns the next scheduled rebuild, zero when none is scheduled
func (r *Refresher) NextRun() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stats returns current refresher statistics
func (r *Refresher) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := map[string]interface{}{
		"builds":   r.builds,
		"failures": r.failures,
		"schedule": r.config.Schedule,
	}
	if !r.lastBuilt.IsZero() {
		stats["last_built"] = r.lastBuilt.Format(time.RFC3339)
	}
	if r.lastErr != nil {
		stats["last_error"] = r.lastErr.Error()
	}
	return stats
}
