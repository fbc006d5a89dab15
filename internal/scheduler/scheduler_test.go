// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/studio-go/internal/testutil"
)

func TestAddAndList(t *testing.T) {
	s := New(testutil.TestLoggerSilent())

	require.NoError(t, s.Add("refresh", "reload listings", "@every 15m", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("geoip", "reload GeoIP", "0 3 * * *", func(context.Context) error { return nil }))

	err := s.Add("refresh", "again", "@every 1m", func(context.Context) error { return nil })
	assert.Error(t, err, "duplicate names must be rejected")

	err = s.Add("broken", "", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)

	jobs := s.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, "geoip", jobs[0].Name)
	assert.Equal(t, "refresh", jobs[1].Name)
	assert.Equal(t, "@every 15m", jobs[1].Schedule)
}

func TestTrigger(t *testing.T) {
	s := New(testutil.TestLoggerSilent())

	var calls atomic.Int32
	failing := errors.New("store unavailable")
	require.NoError(t, s.Add("ok", "", "@hourly", func(context.Context) error {
		calls.Add(1)
		return nil
	}))
	require.NoError(t, s.Add("fails", "", "@hourly", func(context.Context) error { return failing }))
	require.NoError(t, s.Add("panics", "", "@hourly", func(context.Context) error { panic("boom") }))

	require.NoError(t, s.Trigger(context.Background(), "ok"))
	assert.Equal(t, int32(1), calls.Load())

	assert.ErrorIs(t, s.Trigger(context.Background(), "fails"), failing)
	assert.ErrorContains(t, s.Trigger(context.Background(), "panics"), "boom")
	assert.ErrorIs(t, s.Trigger(context.Background(), "missing"), ErrJobNotFound)

	byName := map[string]JobInfo{}
	for _, j := range s.List() {
		byName[j.Name] = j
	}
	assert.False(t, byName["ok"].LastRun.IsZero())
	assert.Empty(t, byName["ok"].LastError)
	assert.Equal(t, "store unavailable", byName["fails"].LastError)
	assert.False(t, byName["panics"].Running)
}

func TestTriggerWithCancelledContext(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	require.NoError(t, s.Add("ctx", "", "@hourly", func(ctx context.Context) error { return ctx.Err() }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Trigger(ctx, "ctx"))
}

func TestStartStop(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	require.NoError(t, s.Add("noop", "", "@every 1h", func(context.Context) error { return nil }))

	s.Start()
	jobs := s.List()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero(), "started jobs have a next run")
	s.Stop()
}
