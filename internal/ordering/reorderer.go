// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ordering

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of in-flight position updates per batch.
const DefaultConcurrency = 8

// PositionStore persists the position of a single item within one scope.
// Each call succeeds or fails on its own.
type PositionStore interface {
	UpdatePosition(ctx context.Context, id string, position int) error
}

// PositionStoreFunc adapts a function to PositionStore.
type PositionStoreFunc func(ctx context.Context, id string, position int) error

// UpdatePosition implements PositionStore.
func (f PositionStoreFunc) UpdatePosition(ctx context.Context, id string, position int) error {
	return f(ctx, id, position)
}

// Options configures a Reorderer.
type Options struct {
	Logger      *slog.Logger
	Concurrency int
	// InFlight, when set, counts batches whose updates are still running,
	// including the OnDone hook.
	InFlight *sync.WaitGroup
}

// Reorderer turns a drag-and-drop gesture within one scope into a new
// order and the position updates that persist it.
type Reorderer[T Item] struct {
	scope  string
	store  PositionStore
	logger   *slog.Logger
	limit    int
	inFlight *sync.WaitGroup

	// Apply receives the new order before any update is dispatched.
	Apply func(ctx context.Context, order []T)
	// OnDone is called once all updates of a changed batch have finished.
	OnDone func(Outcome)
}

// NewReorderer creates a Reorderer for the given scope.
func NewReorderer[T Item](scope string, store PositionStore, opts Options) *Reorderer[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Reorderer[T]{
		scope:    scope,
		store:    store,
		logger:   logger,
		limit:    limit,
		inFlight: opts.InFlight,
	}
}

// Scope returns the scope this reorderer is bound to.
func (r *Reorderer[T]) Scope() string {
	return r.scope
}

// Failure describes one position update that did not persist.
type Failure struct {
	ID       string
	Position int
	Err      error
}

// Outcome summarises a finished batch.
type Outcome struct {
	Updated int
	Failed  []Failure
}

// OK reports whether every update persisted.
func (o Outcome) OK() bool {
	return len(o.Failed) == 0
}

// Batch is one reorder operation. Its order is final as soon as Reorder
// returns; persistence completes in the background.
type Batch[T Item] struct {
	scope   string
	order   []T
	updates []Update
	changed bool

	pending atomic.Int64
	done    chan struct{}
	outcome Outcome
}

// Order returns the new order.
func (b *Batch[T]) Order() []T { return b.order }

// Updates returns the position updates dispatched for this batch.
func (b *Batch[T]) Updates() []Update { return b.updates }

// Changed reports whether the gesture changed the order. A no-op batch
// dispatches no updates.
func (b *Batch[T]) Changed() bool { return b.changed }

// Pending returns the number of updates still in flight.
func (b *Batch[T]) Pending() int { return int(b.pending.Load()) }

// Done is closed when all updates have finished.
func (b *Batch[T]) Done() <-chan struct{} { return b.done }

// Wait blocks until all updates have finished and returns the outcome.
func (b *Batch[T]) Wait() Outcome {
	<-b.done
	return b.outcome
}

// Reorder moves sourceID to where targetID is, applies the new order via
// Apply and dispatches one position update per item in the scope. Updates
// run on a context detached from ctx's cancellation, so an abandoned
// request does not abort them. Failed updates are logged and never
// retried or rolled back.
func (r *Reorderer[T]) Reorder(ctx context.Context, items []T, sourceID, targetID string) *Batch[T] {
	order, changed := Move(items, sourceID, targetID)
	b := &Batch[T]{
		scope:   r.scope,
		order:   order,
		changed: changed,
		done:    make(chan struct{}),
	}

	if !changed {
		r.logger.Debug("reorder ignored", "scope", r.scope, "source", sourceID, "target", targetID)
		close(b.done)
		return b
	}

	b.updates = Renumber(order)
	b.pending.Store(int64(len(b.updates)))

	if r.Apply != nil {
		r.Apply(ctx, order)
	}

	if r.inFlight != nil {
		r.inFlight.Add(1)
	}
	go r.persist(context.WithoutCancel(ctx), b)
	return b
}

func (r *Reorderer[T]) persist(ctx context.Context, b *Batch[T]) {
	defer close(b.done)
	if r.inFlight != nil {
		defer r.inFlight.Done()
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.limit)

	for _, u := range b.updates {
		g.Go(func() error {
			defer b.pending.Add(-1)

			err := r.store.UpdatePosition(ctx, u.ID, u.Position)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("position update failed",
					"category", "reorder",
					"scope", r.scope,
					"id", u.ID,
					"position", u.Position,
					"error", err,
				)
				b.outcome.Failed = append(b.outcome.Failed, Failure{ID: u.ID, Position: u.Position, Err: err})
				return nil
			}
			b.outcome.Updated++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(b.outcome.Failed, func(i, j int) bool {
		return b.outcome.Failed[i].Position < b.outcome.Failed[j].Position
	})

	r.logger.Info("reorder persisted",
		"scope", r.scope,
		"updated", b.outcome.Updated,
		"failed", len(b.outcome.Failed),
	)

	if r.OnDone != nil {
		r.OnDone(b.outcome)
	}
}
