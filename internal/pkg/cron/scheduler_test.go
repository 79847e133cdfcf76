package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDailyRun(t *testing.T) {
	loc := time.FixedZone("AST", 3*60*60)

	cases := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{
			name: "before the hour runs the same day",
			now:  time.Date(2026, time.March, 10, 4, 30, 0, 0, loc),
			hour: 6,
			want: time.Date(2026, time.March, 10, 6, 0, 0, 0, loc),
		},
		{
			name: "after the hour runs the next day",
			now:  time.Date(2026, time.March, 10, 9, 0, 0, 0, loc),
			hour: 6,
			want: time.Date(2026, time.March, 11, 6, 0, 0, 0, loc),
		},
		{
			name: "exactly at the hour runs the next day",
			now:  time.Date(2026, time.March, 10, 6, 0, 0, 0, loc),
			hour: 6,
			want: time.Date(2026, time.March, 11, 6, 0, 0, 0, loc),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := nextDailyRun(c.now, c.hour)
			assert.True(t, got.Equal(c.want), "got %v, want %v", got, c.want)
		})
	}
}

func TestRunOnceExecutesAllJobKinds(t *testing.T) {
	s := NewScheduler()
	defer s.cancel()

	intervalRuns := 0
	dailyRuns := 0
	s.AddJob("interval", time.Minute, func(context.Context) error {
		intervalRuns++
		return nil
	})
	s.AddDailyJob("daily", 6, time.UTC, func(context.Context) error {
		dailyRuns++
		return nil
	})

	s.RunOnce(context.Background())

	require.Equal(t, 1, intervalRuns)
	require.Equal(t, 1, dailyRuns)
}
