package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) RefreshAll() error {
	f.calls++
	return f.err
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("not a schedule", NewRefreshJob(&fakeRefresher{}))
	assert.Error(t, err)
}

func TestAddJob_ValidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("@daily", NewRefreshJob(&fakeRefresher{}))
	require.NoError(t, err)

	s.Start()
	s.Stop()
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	refresher := &fakeRefresher{}

	require.NoError(t, s.RunNow(NewRefreshJob(refresher)))
	assert.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("db unavailable")
	assert.Error(t, s.RunNow(NewRefreshJob(refresher)))
}

func TestRefreshJob_Name(t *testing.T) {
	assert.Equal(t, "optimization_refresh", NewRefreshJob(&fakeRefresher{}).Name())
}
