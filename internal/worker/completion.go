package worker

import (
	"context"
	"sync"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
	"hatim-app-go/pkg/logger"
)

const defaultHandleTimeout = 30 * time.Second

type HatimReconciler interface {
	HandleHatimChange(ctx context.Context, change hatimdomain.Change) error
	ReconcileActive(ctx context.Context) (int, error)
}

// CompletionTrigger is the reactive completion path. It consumes hatim
// changes from a feed and, when sweepInterval is positive, periodically
// reconciles every active hatim. Failures are logged and never stop the
// loop.
type CompletionTrigger struct {
	changes       <-chan hatimdomain.Change
	hatims        HatimReconciler
	log           logger.Logger
	sweepInterval time.Duration
	timeout       time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

func NewCompletionTrigger(changes <-chan hatimdomain.Change, hatims HatimReconciler, log logger.Logger, sweepInterval time.Duration) *CompletionTrigger {
	return &CompletionTrigger{
		changes:       changes,
		hatims:        hatims,
		log:           log,
		sweepInterval: sweepInterval,
		timeout:       defaultHandleTimeout,
		stopCh:        make(chan struct{}),
	}
}

func (w *CompletionTrigger) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("completion trigger started", "sweep_interval", w.sweepInterval.String())
}

// Stop signals the worker to stop and waits for it to finish.
func (w *CompletionTrigger) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	w.wg.Wait()
	w.log.Info("completion trigger stopped")
}

func (w *CompletionTrigger) run() {
	defer w.wg.Done()

	var tick <-chan time.Time
	if w.sweepInterval > 0 {
		ticker := time.NewTicker(w.sweepInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	changes := w.changes
	for {
		select {
		case <-w.stopCh:
			return
		case change, ok := <-changes:
			if !ok {
				w.log.Warn("completion trigger: change feed closed")
				changes = nil
				continue
			}
			w.handle(change)
		case <-tick:
			w.sweep()
		}
	}
}

func (w *CompletionTrigger) handle(change hatimdomain.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.hatims.HandleHatimChange(ctx, change); err != nil {
		w.log.Error("completion trigger: handle change failed", "hatim_id", change.HatimID, "err", err)
	}
}

func (w *CompletionTrigger) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	closed, err := w.hatims.ReconcileActive(ctx)
	if err != nil {
		w.log.Error("completion trigger: sweep failed", "err", err)
		return
	}
	if closed > 0 {
		w.log.Info("completion trigger: sweep closed hatims", "count", closed)
	}
}
