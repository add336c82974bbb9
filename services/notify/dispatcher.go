package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/hometuition/portal/core"
)

type (
	channel struct {
		core.NotificationChannel
		cb *gobreaker.CircuitBreaker
	}

	// Dispatcher fans a notification out to every channel. Channels are isolated from each other:
	// each send gets its own timeout, panic recovery and circuit breaker, and failures are only logged and counted.
	Dispatcher struct {
		channels []channel
		timeout  time.Duration
		logger   core.Logger
		metrics  *Metrics
		sync     bool
		wg       sync.WaitGroup
	}
)

var _ core.Notifier = (*Dispatcher)(nil)

// NewDispatcher returns a Dispatcher sending on each channel in its own goroutine.
func NewDispatcher(logger core.Logger, metrics *Metrics, timeout time.Duration, channels ...core.NotificationChannel) *Dispatcher {
	d := &Dispatcher{
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
	for _, ch := range channels {
		d.channels = append(d.channels, channel{NotificationChannel: ch, cb: newCircuitBreaker(ch.Name(), logger)})
	}
	return d
}

// NewSyncDispatcher returns a Dispatcher sending on each channel sequentially, in the caller's goroutine.
func NewSyncDispatcher(logger core.Logger, metrics *Metrics, timeout time.Duration, channels ...core.NotificationChannel) *Dispatcher {
	d := NewDispatcher(logger, metrics, timeout, channels...)
	d.sync = true
	return d
}

func newCircuitBreaker(name string, logger core.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notify-" + name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// open after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(fmt.Sprintf("circuit breaker %s: %s -> %s", name, from, to))
		},
	})
}

// Notify sends n on every channel. It never blocks on, nor reports, channel failures.
func (d *Dispatcher) Notify(n core.Notification) {
	for _, ch := range d.channels {
		if d.sync {
			d.send(ch, n)
			continue
		}
		d.wg.Add(1)
		go func(ch channel) {
			defer d.wg.Done()
			d.send(ch, n)
		}(ch)
	}
}

// Wait blocks until all in-flight notifications are done.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Channels returns the names of the configured channels.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

func (d *Dispatcher) send(ch channel, n core.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.execute(ctx, ch, n)
	d.metrics.observe(ch.Name(), err, time.Since(start))

	if err != nil {
		d.logger.Error(fmt.Sprintf("notification %q not sent on %s: %v", n.Subject, ch.Name(), err), err)
		return
	}
	d.logger.Info(fmt.Sprintf("notification %q sent on %s", n.Subject, ch.Name()))
}

func (d *Dispatcher) execute(ctx context.Context, ch channel, n core.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	_, err = ch.cb.Execute(func() (interface{}, error) {
		return nil, ch.Send(ctx, n)
	})
	return err
}
