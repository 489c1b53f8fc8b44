package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

type fakeTokenRepo struct {
	auth.RefreshTokenRepository
	auth.PasswordResetRepository
	before  time.Time
	deleted int64
	err     error
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.deleted, f.err
}

func TestTokenJobs_PurgeExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	refresh := &fakeTokenRepo{deleted: 2}
	reset := &fakeTokenRepo{deleted: 1}

	jobs := NewTokenJobs(refresh, reset)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.PurgeExpired(context.Background()))
	assert.Equal(t, now, refresh.before)
	assert.Equal(t, now, reset.before)
}

func TestTokenJobs_PurgeExpiredError(t *testing.T) {
	refresh := &fakeTokenRepo{err: errors.New("db down")}
	jobs := NewTokenJobs(refresh, &fakeTokenRepo{})

	assert.Error(t, jobs.PurgeExpired(context.Background()))
}
