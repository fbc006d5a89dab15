// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ordering

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/studio-go/internal/testutil"
)

// memStore records position updates and fails for configured ids.
type memStore struct {
	mu        sync.Mutex
	positions map[string]int
	calls     int
	failFor   map[string]bool
}

func newMemStore(in []item) *memStore {
	s := &memStore{positions: map[string]int{}, failFor: map[string]bool{}}
	for _, it := range in {
		s.positions[it.id] = it.pos
	}
	return s
}

func (s *memStore) UpdatePosition(_ context.Context, id string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failFor[id] {
		return errors.New("store unavailable")
	}
	s.positions[id] = position
	return nil
}

func TestReorderPersistsDensePositions(t *testing.T) {
	in := items("A", "B", "C", "D")
	store := newMemStore(in)
	r := NewReorderer[item]("projects", store, Options{Logger: testutil.TestLoggerSilent()})

	batch := r.Reorder(context.Background(), in, "C", "A")
	require.True(t, batch.Changed())
	assert.Equal(t, []string{"C", "A", "B", "D"}, ids(batch.Order()))

	out := batch.Wait()
	assert.True(t, out.OK())
	assert.Equal(t, 4, out.Updated)
	assert.Equal(t, 0, batch.Pending())
	assert.Equal(t, map[string]int{"C": 0, "A": 1, "B": 2, "D": 3}, store.positions)
}

func TestReorderNoOp(t *testing.T) {
	in := items("A", "B", "C", "D")
	store := newMemStore(in)
	r := NewReorderer[item]("projects", store, Options{Logger: testutil.TestLoggerSilent()})

	applied := false
	r.Apply = func(context.Context, []item) { applied = true }

	for _, pair := range [][2]string{{"B", "B"}, {"B", "missing"}, {"missing", "B"}} {
		batch := r.Reorder(context.Background(), in, pair[0], pair[1])
		out := batch.Wait()

		assert.False(t, batch.Changed())
		assert.Empty(t, batch.Updates())
		assert.Equal(t, 0, out.Updated)
		assert.Equal(t, []string{"A", "B", "C", "D"}, ids(batch.Order()))
	}
	assert.False(t, applied, "no-op must not apply a new order")
	assert.Equal(t, 0, store.calls)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}, store.positions)
}

func TestReorderAppliesBeforePersisting(t *testing.T) {
	in := items("A", "B", "C")
	release := make(chan struct{})
	var persisted sync.WaitGroup
	persisted.Add(3)
	store := PositionStoreFunc(func(context.Context, string, int) error {
		<-release
		persisted.Done()
		return nil
	})

	r := NewReorderer[item]("projects", store, Options{Logger: testutil.TestLoggerSilent()})
	var shown []string
	r.Apply = func(_ context.Context, order []item) { shown = ids(order) }

	batch := r.Reorder(context.Background(), in, "A", "C")

	// Display state is updated while every update is still blocked.
	assert.Equal(t, []string{"B", "C", "A"}, shown)
	assert.Equal(t, 3, batch.Pending())

	close(release)
	batch.Wait()
	persisted.Wait()
	assert.Equal(t, 0, batch.Pending())
}

func TestReorderPartialFailureKeepsOrder(t *testing.T) {
	in := items("A", "B", "C", "D")
	store := newMemStore(in)
	store.failFor["B"] = true

	logger, rec := testutil.RecordingLogger()
	r := NewReorderer[item]("projects", store, Options{Logger: logger})

	var shown []string
	r.Apply = func(_ context.Context, order []item) { shown = ids(order) }
	var done Outcome
	r.OnDone = func(o Outcome) { done = o }

	batch := r.Reorder(context.Background(), in, "C", "A")
	out := batch.Wait()

	assert.Equal(t, []string{"C", "A", "B", "D"}, shown)
	assert.Equal(t, []string{"C", "A", "B", "D"}, ids(batch.Order()))
	assert.Equal(t, 3, out.Updated)
	require.Len(t, out.Failed, 1)
	assert.Equal(t, "B", out.Failed[0].ID)
	assert.Equal(t, 2, out.Failed[0].Position)
	assert.Equal(t, out, done)

	failures := rec.Messages("position update failed")
	require.Len(t, failures, 1, "one log record per failed call")
	assert.Equal(t, "B", failures[0]["id"])
	assert.Equal(t, "projects", failures[0]["scope"])

	// B keeps its old stored position: no retry, no rollback.
	assert.Equal(t, 1, store.positions["B"])
	assert.Equal(t, 4, store.calls)
}

func TestReorderAllFail(t *testing.T) {
	in := items("A", "B", "C", "D")
	store := newMemStore(in)
	for _, it := range in {
		store.failFor[it.id] = true
	}

	logger, rec := testutil.RecordingLogger()
	r := NewReorderer[item]("media:p1", store, Options{Logger: logger, Concurrency: 2})

	out := r.Reorder(context.Background(), in, "D", "A").Wait()
	assert.Equal(t, 0, out.Updated)
	assert.Len(t, out.Failed, 4)
	assert.Len(t, rec.Messages("position update failed"), 4)
	assert.True(t, slices.IsSortedFunc(out.Failed, func(a, b Failure) int { return a.Position - b.Position }))
}

func TestReorderSurvivesCanceledContext(t *testing.T) {
	in := items("A", "B")
	var mu sync.Mutex
	var sawCanceled bool
	store := PositionStoreFunc(func(ctx context.Context, _ string, _ int) error {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			sawCanceled = true
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReorderer[item]("projects", store, Options{Logger: testutil.TestLoggerSilent()})
	batch := r.Reorder(ctx, in, "B", "A")
	cancel()

	out := batch.Wait()
	assert.Equal(t, 2, out.Updated)
	assert.False(t, sawCanceled)
}

func TestReorderTracksInFlightBatches(t *testing.T) {
	in := items("A", "B", "C")
	release := make(chan struct{})
	store := PositionStoreFunc(func(context.Context, string, int) error {
		<-release
		return nil
	})

	var inFlight sync.WaitGroup
	r := NewReorderer[item]("projects", store, Options{
		Logger:   testutil.TestLoggerSilent(),
		InFlight: &inFlight,
	})
	var hookDone bool
	r.OnDone = func(Outcome) { hookDone = true }

	// A no-op batch is never tracked.
	r.Reorder(context.Background(), in, "A", "A").Wait()

	batch := r.Reorder(context.Background(), in, "C", "A")

	drained := make(chan struct{})
	go func() {
		inFlight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatal("InFlight drained while updates were blocked")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("InFlight did not drain after updates finished")
	}
	assert.True(t, hookDone, "OnDone must run before the batch is released")
	assert.Equal(t, 3, batch.Wait().Updated)
}
