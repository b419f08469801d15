package services

import (
	"context"
	"testing"

	"fee-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SendDelinquentNotices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "1", 100) // paid
	env.register(t, "2", 200) // delinquent, relay rejects
	env.register(t, "3", 300) // delinquent
	env.register(t, "4", 400) // inactive
	env.pay(t, "001", 100, "2024-03-03")
	require.NoError(t, env.clients.Inactivate(ctx, "004", "closed"))
	env.sender.failFor["client2@example.com"] = errSMTP

	report, err := env.notification.SendDelinquentNotices(ctx, TriggerBatch)
	require.NoError(t, err)

	assert.Equal(t, "2024-03", report.Period)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Sent)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "002", report.Failed[0].ClientID)
	assert.Equal(t, "client2@example.com", report.Failed[0].Email)
	assert.Contains(t, report.Failed[0].Error, "mailbox unavailable")

	require.Len(t, env.sender.sent, 1)
	mail := env.sender.sent[0]
	assert.Equal(t, "client3@example.com", mail.To)
	assert.Equal(t, automaticNoticeSubject, mail.Subject)
	assert.Contains(t, mail.Body, "Client 3")
	assert.Contains(t, mail.Body, "R$ 300.00")
	assert.Contains(t, mail.Body, "March/2024")
}

func TestNotificationService_NoRecipients(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "1", 100)
	env.pay(t, "001", 100, "2024-03-03")

	report, err := env.notification.SendDelinquentNotices(context.Background(), TriggerScheduled)
	require.NoError(t, err)
	assert.Zero(t, report.Attempted)
	assert.Empty(t, report.Failed)
	assert.Empty(t, env.sender.sent)
}

func TestNotificationService_SendNotice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "1", 1500)
	env.register(t, "2", 100)
	require.NoError(t, env.clients.Inactivate(ctx, "002", "closed"))

	require.NoError(t, env.notification.SendNotice(ctx, "001"))
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, manualNoticeSubject, env.sender.sent[0].Subject)
	assert.Contains(t, env.sender.sent[0].Body, "R$ 1500.00")

	assert.ErrorIs(t, env.notification.SendNotice(ctx, "404"), domain.ErrClientNotFound)
	assert.ErrorIs(t, env.notification.SendNotice(ctx, "002"), domain.ErrClientInactive)

	env.sender.failFor["client1@example.com"] = errSMTP
	err := env.notification.SendNotice(ctx, "001")
	assert.ErrorIs(t, err, errSMTP)
	assert.ErrorIs(t, err, domain.ErrNoticeDelivery)
}

func TestNotificationService_SendNoticeStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "1", 100)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = env.notification.SendNotice(context.Background(), "001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoticeDelivery)
	assert.NotErrorIs(t, err, domain.ErrClientNotFound)
	assert.Empty(t, env.sender.sent)
}

func TestNotificationService_Disabled(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNotificationService(env.clientRepo, env.paymentRepo, nil, fixedClock())
	assert.False(t, svc.IsEnabled())

	assert.ErrorIs(t, svc.SendNotice(context.Background(), "001"), domain.ErrMailerDisabled)
	_, err := svc.SendDelinquentNotices(context.Background(), TriggerBatch)
	assert.ErrorIs(t, err, domain.ErrMailerDisabled)
}

func TestRenderNoticeEscapesName(t *testing.T) {
	c := domain.Client{Name: "<script>x</script>"}
	_, body, err := renderNotice(false, c, domain.PeriodOf(fixedNow))
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
