package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
	"hatim-app-go/pkg/logger"

	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	mu      sync.Mutex
	handled []hatimdomain.Change
	sweeps  int
	fail    bool
	done    chan struct{}
}

func (f *fakeReconciler) HandleHatimChange(ctx context.Context, change hatimdomain.Change) error {
	f.mu.Lock()
	f.handled = append(f.handled, change)
	f.mu.Unlock()
	f.done <- struct{}{}
	if f.fail {
		return errors.New("read failed")
	}
	return nil
}

func (f *fakeReconciler) ReconcileActive(ctx context.Context) (int, error) {
	f.mu.Lock()
	f.sweeps++
	first := f.sweeps == 1
	f.mu.Unlock()
	if first {
		f.done <- struct{}{}
	}
	return 0, nil
}

func TestCompletionTriggerHandlesChanges(t *testing.T) {
	changes := make(chan hatimdomain.Change, 2)
	reconciler := &fakeReconciler{fail: true, done: make(chan struct{}, 4)}
	trigger := NewCompletionTrigger(changes, reconciler, logger.Nop(), 0)
	trigger.Start()

	changes <- hatimdomain.Change{HatimID: "h1", Before: hatimdomain.StatusActive, After: hatimdomain.StatusActive}
	changes <- hatimdomain.Change{HatimID: "h2", Before: hatimdomain.StatusActive, After: hatimdomain.StatusActive}
	for i := 0; i < 2; i++ {
		select {
		case <-reconciler.done:
		case <-time.After(time.Second):
			t.Fatalf("change %d not handled", i)
		}
	}

	trigger.Stop()
	trigger.Stop()

	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	require.Len(t, reconciler.handled, 2)
	require.Equal(t, "h1", reconciler.handled[0].HatimID)
}

func TestCompletionTriggerSweeps(t *testing.T) {
	reconciler := &fakeReconciler{done: make(chan struct{}, 1)}
	trigger := NewCompletionTrigger(nil, reconciler, logger.Nop(), 10*time.Millisecond)
	trigger.Start()
	defer trigger.Stop()

	select {
	case <-reconciler.done:
	case <-time.After(time.Second):
		t.Fatalf("expected a sweep")
	}
}

func TestCompletionTriggerSurvivesClosedFeed(t *testing.T) {
	changes := make(chan hatimdomain.Change)
	close(changes)
	trigger := NewCompletionTrigger(changes, &fakeReconciler{done: make(chan struct{}, 1)}, logger.Nop(), 0)
	trigger.Start()
	trigger.Stop()
}
