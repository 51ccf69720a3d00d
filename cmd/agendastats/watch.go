package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/wesm/agendastats/internal/agenda"
	"github.com/wesm/agendastats/internal/config"
	"github.com/wesm/agendastats/internal/poll"
	"github.com/wesm/agendastats/internal/watch"
)

const (
	settleInterval = 100 * time.Millisecond
	settleTimeout  = 10 * time.Second
)

func runWatch(args []string) {
	cfg, rest := mustLoadConfig("watch", args, nil)
	path := singleFile("watch", rest)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("creating data dir: %v", err)
	}
	setupLogFile(cfg.DataDir)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	r, err := newRefresher(cfg, path, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer r.poller.Stop()

	r.print()

	w, err := watch.NewWatcher(cfg.WatchDebounce, func([]string) {
		r.trigger(ctx)
	})
	if err != nil {
		log.Fatalf("starting watcher: %v", err)
	}
	if err := w.WatchFile(path); err != nil {
		log.Fatalf("%v", err)
	}
	w.Start()
	defer w.Stop()

	log.Printf("watching %s", path)
	<-ctx.Done()
}

// refresher reprints the snapshot once a changed export has
// settled into a decodable document. Each change supersedes the
// wait for the previous one.
type refresher struct {
	cfg    config.Config
	path   string
	poller *poll.Poller

	gen atomic.Int64

	mu  sync.Mutex // guards out
	out io.Writer
}

func newRefresher(
	cfg config.Config, path string, out io.Writer,
) (*refresher, error) {
	p, err := poll.New(settleInterval, settleTimeout)
	if err != nil {
		return nil, err
	}
	return &refresher{cfg: cfg, path: path, poller: p, out: out}, nil
}

func (r *refresher) trigger(ctx context.Context) {
	task, err := r.start(ctx)
	if err != nil {
		log.Printf("warning: %v", err)
		return
	}
	go r.await(ctx, task)
}

func (r *refresher) start(ctx context.Context) (*poll.Task, error) {
	key := strconv.FormatInt(r.gen.Add(1), 10)
	return r.poller.Start(ctx, key, exportReady(r.path))
}

// await prints the snapshot if task reports the export ready.
// It reports whether it printed.
func (r *refresher) await(ctx context.Context, task *poll.Task) bool {
	err := task.Wait()
	switch {
	case err == nil:
		r.print()
		return true
	case errors.Is(err, poll.ErrSuperseded),
		errors.Is(err, poll.ErrStopped),
		ctx.Err() != nil:
	default:
		log.Printf("warning: %s: %v", r.path, err)
	}
	return false
}

// print recomputes and prints the snapshot. Errors are logged
// rather than fatal so one bad export does not end the watch.
func (r *refresher) print() {
	snap, err := computeFile(r.cfg, r.path, time.Now())
	if err != nil {
		log.Printf("warning: %v", err)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := writeJSON(r.out, snap); err != nil {
		log.Printf("warning: writing snapshot: %v", err)
	}
}

// exportReady reports ready once path holds valid JSON. A
// missing file or a partial write keeps polling; decode errors
// past the JSON layer are left for print to report.
func exportReady(path string) poll.Probe {
	return func(context.Context) (bool, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		_, err = agenda.Decode(data)
		return !errors.Is(err, agenda.ErrInvalidDocument), nil
	}
}
