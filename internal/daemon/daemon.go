package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/ingest"
	"pictor/internal/review"
	"pictor/internal/tagging"
)

// Daemon coordinates ingestion, tagging, and review behind a single-instance
// lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	pipeline *ingest.Pipeline
	engine   *tagging.Engine
	reviews  *review.Queue

	lockPath string
	lock     *flock.Flock

	api     *apiServer
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status reports daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	DatabasePath  string
	LockFilePath  string
	TaggingActive bool
}

// New constructs a daemon around an open store and a ready tagging engine.
func New(cfg *config.Config, store *catalog.Store, engine *tagging.Engine, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || engine == nil {
		return nil, errors.New("daemon requires config, store, and tagging engine")
	}
	if logger == nil {
		logger = slog.Default()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "pictord.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		pipeline: ingest.NewPipeline(cfg, store, logger),
		engine:   engine,
		reviews:  review.NewQueue(cfg, store, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the instance lock, brings up the API server, and launches
// the periodic tagging sweep.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pictord instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			return err
		}
	}

	if interval := d.sweepInterval(); interval > 0 {
		d.wg.Add(1)
		go d.sweepLoop(d.ctx, interval)
	}

	d.running.Store(true)
	d.logger.Info("pictord started", "lock", d.lockPath)
	return nil
}

// Stop halts background work and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", "error", err)
	}
	d.running.Store(false)
	d.logger.Info("pictord stopped")
}

// Close stops the daemon and closes the catalog store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Status returns current runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		DatabasePath:  d.store.Path(),
		LockFilePath:  d.lockPath,
		TaggingActive: d.engine.Running(),
	}
}

// APIAddr returns the bound API address, or empty when the server is off.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

func (d *Daemon) sweepInterval() time.Duration {
	if d.cfg.Tagging.PollInterval <= 0 {
		return 0
	}
	return time.Duration(d.cfg.Tagging.PollInterval) * time.Second
}

// sweepLoop periodically drains unprocessed images. Overlap with a manually
// triggered run is harmless: the engine admits one run at a time and the
// sweep simply skips its turn.
func (d *Daemon) sweepLoop(ctx context.Context, interval time.Duration) {
	defer d.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := d.engine.Run(ctx)
			switch {
			case errors.Is(err, tagging.ErrRunActive):
				d.logger.Debug("sweep skipped, run already active")
			case err != nil:
				d.logger.Warn("tagging sweep failed", "error", err)
			case summary.Images > 0:
				d.logger.Info("tagging sweep finished",
					"images", summary.Images, "links", summary.LinksCreated)
			}
		}
	}
}
