package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is a Friday in a leap-year March
var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return fixedNow }
}

type sentMail struct {
	To, Subject, Body string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type testEnv struct {
	db           *gorm.DB
	clientRepo   repositories.ClientRepository
	paymentRepo  repositories.PaymentRepository
	clients      *ClientService
	payments     *PaymentService
	bills        *BillService
	dashboard    *DashboardService
	notification *NotificationService
	sender       *fakeSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	clock := fixedClock()
	clientRepo := repositories.NewClientRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	sender := &fakeSender{failFor: map[string]error{}}

	return &testEnv{
		db:           db,
		clientRepo:   clientRepo,
		paymentRepo:  paymentRepo,
		clients:      NewClientService(clientRepo, paymentRepo, clock),
		payments:     NewPaymentService(paymentRepo, clientRepo, clock),
		bills:        NewBillService(repositories.NewBillRepository(db), clock),
		dashboard:    NewDashboardService(clientRepo, paymentRepo, clock),
		notification: NewNotificationService(clientRepo, paymentRepo, sender, clock),
		sender:       sender,
	}
}

func clientInput(n string, fee int64) ClientInput {
	return ClientInput{
		Name:       "Client " + n,
		TaxID:      "TAX-" + n,
		Address:    n + " Main Street",
		TaxRegime:  "Simples Nacional",
		Email:      "client" + n + "@example.com",
		Phone:      "555-" + n,
		MonthlyFee: decimal.NewFromInt(fee),
	}
}

func (e *testEnv) register(t *testing.T, n string, fee int64) *domain.Client {
	t.Helper()
	c, err := e.clients.Register(context.Background(), clientInput(n, fee))
	require.NoError(t, err)
	return c
}

func (e *testEnv) pay(t *testing.T, clientID string, amount int64, date string) *domain.Payment {
	t.Helper()
	p, err := e.payments.Register(context.Background(), PaymentInput{
		ClientID:    clientID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: date,
	})
	require.NoError(t, err)
	return p
}

var errSMTP = errors.New("550 mailbox unavailable")
