// internal/services/reconciler.go
package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Refresher is the slice of a workflow store the reconciler needs.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// PollingReconciler re-fetches one store's active set on a fixed cadence,
// bounding staleness between transitions. A tick that fires while the
// previous refresh is still outstanding is skipped, so a slow ledger never
// piles up requests. Stop ceases scheduling; an in-flight refresh is allowed
// to drain.
type PollingReconciler struct {
	name     string
	store    Refresher
	interval time.Duration

	inFlight atomic.Bool
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewPollingReconciler(name string, store Refresher, interval time.Duration) *PollingReconciler {
	return &PollingReconciler{
		name:     name,
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *PollingReconciler) Start() {
	go r.run()
}

func (r *PollingReconciler) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logrus.WithFields(logrus.Fields{
		"store":    r.name,
		"interval": r.interval,
	}).Info("Polling reconciler started")

	for {
		select {
		case <-r.stop:
			logrus.WithField("store", r.name).Info("Polling reconciler stopped")
			return
		case <-ticker.C:
			if !r.inFlight.CompareAndSwap(false, true) {
				logrus.WithField("store", r.name).Debug("Skipping tick, refresh still outstanding")
				continue
			}
			go func() {
				defer r.inFlight.Store(false)
				if err := r.store.Refresh(context.Background()); err != nil {
					logrus.WithError(err).WithField("store", r.name).Warn("Reconciler refresh failed")
				}
			}()
		}
	}
}

// Stop prevents further ticks from being scheduled and waits for the loop to
// exit. It is safe to call more than once.
func (r *PollingReconciler) Stop() {
	r.once.Do(func() { close(r.stop) })
	<-r.done
}

// ReconcilerSet groups the per-store reconcilers for lifecycle handling.
type ReconcilerSet struct {
	reconcilers []*PollingReconciler
}

func NewReconcilerSet(reconcilers ...*PollingReconciler) *ReconcilerSet {
	return &ReconcilerSet{reconcilers: reconcilers}
}

func (s *ReconcilerSet) Start() {
	for _, r := range s.reconcilers {
		r.Start()
	}
}

func (s *ReconcilerSet) Stop() {
	for _, r := range s.reconcilers {
		r.Stop()
	}
}
