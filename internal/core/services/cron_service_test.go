package services

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCronService_InvalidSchedule(t *testing.T) {
	_, err := NewCronService(nil, "every fifth day", time.UTC)
	assert.Error(t, err)
}

func TestCronService_NextRun(t *testing.T) {
	env := newTestEnv(t)
	s, err := NewCronService(env.notification, "0 9 5 * *", time.UTC)
	require.NoError(t, err)

	s.Start()
	next := s.NextRun()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	require.False(t, next.IsZero())
	assert.Equal(t, 5, next.Day())
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestCronService_RunNotices(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "1", 100)

	s, err := NewCronService(env.notification, "0 9 5 * *", time.UTC)
	require.NoError(t, err)

	s.runNotices()
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "client1@example.com", env.sender.sent[0].To)
}

func TestCronLogger_RecoveredPanicGoesToSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := cronLogger{slog.New(slog.NewJSONHandler(&buf, nil))}

	job := cron.Recover(logger)(cron.FuncJob(func() { panic("smtp pool exhausted") }))
	assert.NotPanics(t, job.Run)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "cron: panic")
	assert.Contains(t, out, "smtp pool exhausted")
}
