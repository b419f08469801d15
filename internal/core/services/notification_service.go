package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/core/billing"
	"fee-ledger/internal/core/domain"
	"fee-ledger/internal/pkg/metrics"

	"gorm.io/gorm"
)

// NoticeTrigger labels what started a notice send
type NoticeTrigger string

const (
	TriggerManual    NoticeTrigger = "manual"
	TriggerBatch     NoticeTrigger = "batch"
	TriggerScheduled NoticeTrigger = "scheduled"
)

// NoticeFailure is one recipient the sender rejected
type NoticeFailure struct {
	ClientID string `json:"client_id"`
	Email    string `json:"email"`
	Error    string `json:"error"`
}

// NoticeReport summarizes a delinquent notice run
type NoticeReport struct {
	Period    string          `json:"period"`
	Attempted int             `json:"attempted"`
	Sent      int             `json:"sent"`
	Failed    []NoticeFailure `json:"failed"`
}

// NotificationService sends billing notices by email
type NotificationService struct {
	clientRepo  repositories.ClientRepository
	paymentRepo repositories.PaymentRepository
	sender      MailSender
	now         Clock
}

// NewNotificationService creates a new notification service. A nil sender
// disables delivery.
func NewNotificationService(
	clientRepo repositories.ClientRepository,
	paymentRepo repositories.PaymentRepository,
	sender MailSender,
	clock Clock,
) *NotificationService {
	return &NotificationService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		sender:      sender,
		now:         clock,
	}
}

// IsEnabled checks if a mail sender is configured
func (s *NotificationService) IsEnabled() bool {
	return s.sender != nil
}

// SendNotice sends the billing notice to one client on demand
func (s *NotificationService) SendNotice(ctx context.Context, clientID string) error {
	if !s.IsEnabled() {
		return domain.ErrMailerDisabled
	}

	row, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("get client: %w", err)
	}
	client := row.ToDomain()
	if client.IsInactive() {
		return domain.ErrClientInactive
	}

	period := domain.PeriodOf(s.now())
	subject, body, err := renderNotice(false, client, period)
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, client.Email, subject, body); err != nil {
		metrics.NoticesFailed.WithLabelValues(string(TriggerManual)).Inc()
		slog.ErrorContext(ctx, "billing notice failed", "client_id", client.ID, "email", client.Email, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrNoticeDelivery, err)
	}

	metrics.NoticesSent.WithLabelValues(string(TriggerManual)).Inc()
	slog.InfoContext(ctx, "billing notice sent", "client_id", client.ID, "email", client.Email)
	return nil
}

// SendDelinquentNotices sends the automatic notice to every active client
// without a payment in the current month. One failed recipient never stops
// the others; failures are collected in the report.
func (s *NotificationService) SendDelinquentNotices(ctx context.Context, trigger NoticeTrigger) (*NoticeReport, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrMailerDisabled
	}

	period := domain.PeriodOf(s.now())
	report := &NoticeReport{Period: period.Key(), Failed: []NoticeFailure{}}
	metrics.NoticeRuns.WithLabelValues(string(trigger)).Inc()

	rows, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	from, to := periodBounds(period)
	payments, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	delinquent := billing.Delinquent(toDomainClients(rows), toDomainPayments(payments), period)
	slog.InfoContext(ctx, "delinquent notice run started",
		"trigger", trigger, "period", report.Period, "recipients", len(delinquent))

	for _, client := range delinquent {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Attempted++

		if err := s.deliver(ctx, client, period); err != nil {
			metrics.NoticesFailed.WithLabelValues(string(trigger)).Inc()
			slog.ErrorContext(ctx, "automatic notice failed",
				"client_id", client.ID, "email", client.Email, "error", err)
			report.Failed = append(report.Failed, NoticeFailure{
				ClientID: client.ID,
				Email:    client.Email,
				Error:    err.Error(),
			})
			continue
		}

		metrics.NoticesSent.WithLabelValues(string(trigger)).Inc()
		report.Sent++
		slog.InfoContext(ctx, "automatic notice sent", "client_id", client.ID, "email", client.Email)
	}

	slog.InfoContext(ctx, "delinquent notice run finished",
		"trigger", trigger,
		"period", report.Period,
		"attempted", report.Attempted,
		"sent", report.Sent,
		"failed", len(report.Failed))
	return report, nil
}

func (s *NotificationService) deliver(ctx context.Context, client domain.Client, period domain.Period) error {
	subject, body, err := renderNotice(true, client, period)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, client.Email, subject, body)
}
