package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/lantabur/internal/config"
)

type senderFunc func(ctx context.Context) error

func (f senderFunc) SendDailyReport(ctx context.Context) error { return f(ctx) }

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Mars/Olympus"}, nil, nil)
	assert.Error(t, err)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every evening", Timezone: "UTC"}, nil, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestNextRunUsesConfiguredTimezone(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Asia/Dhaka"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, s.Next().IsZero())

	require.NoError(t, s.Start())
	defer s.Stop()

	dhaka, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	next := s.Next().In(dhaka)
	assert.Equal(t, 20, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestJobCallsSender(t *testing.T) {
	calls := 0
	sender := senderFunc(func(ctx context.Context) error {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		if calls > 1 {
			return errors.New("no recipient")
		}
		return nil
	})
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"}, sender, nil)
	require.NoError(t, err)

	s.sendDailyReport()
	s.sendDailyReport()
	assert.Equal(t, 2, calls)
}
