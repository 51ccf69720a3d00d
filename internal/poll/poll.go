// Package poll runs readiness checks on a fixed interval until
// they succeed, scoped to a key so that starting a check for a
// new key abandons the previous one.
//
// Hosts use this to wait for asynchronously injected content
// (an embed that appears some time after it was requested) for
// whichever record or tab is currently selected.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	// ErrSuperseded ends a task when another Start replaces it.
	ErrSuperseded = errors.New("poll superseded")
	// ErrTimeout ends a task that never became ready.
	ErrTimeout = errors.New("poll timed out")
	// ErrStopped ends a task when its Poller stops, and is
	// returned by Start after Stop.
	ErrStopped = errors.New("poller stopped")
)

// Probe reports whether the awaited condition holds. It is
// called once immediately and then once per interval, and must
// return promptly once ctx is done. Returning an error ends the
// task with that error.
type Probe func(ctx context.Context) (bool, error)

// Poller runs at most one Task at a time.
type Poller struct {
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	current *Task
	stopped bool
}

// New returns a Poller. Both interval and timeout must be
// positive; there is no unbounded mode.
func New(interval, timeout time.Duration) (*Poller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %v", interval)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("poll timeout must be positive, got %v", timeout)
	}
	return &Poller{interval: interval, timeout: timeout}, nil
}

// Task is one running readiness check.
type Task struct {
	Key string

	cancel context.CancelCauseFunc
	done   chan struct{}
	err    error
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns nil if the probe reported ready, otherwise why
// the task ended. Only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *Task) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes and returns Err.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Start begins polling probe for key. If a task for the same
// key is still running it is returned unchanged. Otherwise any
// running task is cancelled with ErrSuperseded and Start waits
// for it to exit before the new probe first runs, so a
// superseded task can never report ready after its replacement
// has started. The lock is not held while waiting, so probes
// may call Current.
func (p *Poller) Start(
	ctx context.Context, key string, probe Probe,
) (*Task, error) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil, ErrStopped
	}
	prev := p.current
	if prev != nil && !prev.finished() {
		if prev.Key == key {
			p.mu.Unlock()
			return prev, nil
		}
		prev.cancel(ErrSuperseded)
	}

	taskCtx, cancel := context.WithCancelCause(ctx)
	t := &Task{
		Key:    key,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	p.current = t
	p.mu.Unlock()

	if prev != nil {
		<-prev.done
	}

	timeoutCtx, cancelTimeout := context.WithTimeoutCause(
		taskCtx, p.timeout, ErrTimeout,
	)
	go func() {
		defer cancel(nil)
		defer cancelTimeout()
		t.run(timeoutCtx, p.interval, probe)
	}()
	return t, nil
}

// Current returns the most recently started task, or nil.
func (p *Poller) Current() *Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Stop cancels the running task, if any, waits for it, and
// rejects further Starts.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	cur := p.current
	if cur != nil {
		cur.cancel(ErrStopped)
	}
	p.mu.Unlock()

	if cur != nil {
		<-cur.done
	}
}

func (t *Task) run(
	ctx context.Context, interval time.Duration, probe Probe,
) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Superseded or stopped before the first probe.
	if ctx.Err() != nil {
		t.err = context.Cause(ctx)
		return
	}
	for {
		ready, err := probe(ctx)
		// Cancellation wins over a result that raced with it.
		if ctx.Err() != nil {
			t.err = context.Cause(ctx)
			return
		}
		if err != nil {
			t.err = fmt.Errorf("probing %s: %w", t.Key, err)
			return
		}
		if ready {
			return
		}

		select {
		case <-ctx.Done():
			t.err = context.Cause(ctx)
			if errors.Is(t.err, ErrTimeout) {
				log.Printf("poll: %s not ready, giving up", t.Key)
			}
			return
		case <-ticker.C:
		}
	}
}
