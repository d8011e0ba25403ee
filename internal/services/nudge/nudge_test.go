package nudge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
	"github.com/magabrotheeeer/venture-connect/internal/paymentprovider"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) SendNudge(ctx context.Context, senderUID, receiverUID string, expiresAt time.Time) (*models.Nudge, error) {
	args := m.Called(ctx, senderUID, receiverUID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Nudge), args.Error(1)
}
func (m *RepoMock) UpdateNudgeStatus(ctx context.Context, id int, receiverUID, newStatus string) (*models.Nudge, error) {
	args := m.Called(ctx, id, receiverUID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Nudge), args.Error(1)
}
func (m *RepoMock) SweepExpiredNudges(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListNudgesForReceiver(ctx context.Context, receiverUID string) ([]*models.Nudge, error) {
	args := m.Called(ctx, receiverUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Nudge), args.Error(1)
}
func (m *RepoMock) ListNudgesBySender(ctx context.Context, senderUID string) ([]*models.Nudge, error) {
	args := m.Called(ctx, senderUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Nudge), args.Error(1)
}
func (m *RepoMock) ListConnectionsBySender(ctx context.Context, senderUID string) ([]*models.Connection, error) {
	args := m.Called(ctx, senderUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Connection), args.Error(1)
}
func (m *RepoMock) CreateNudgePurchase(ctx context.Context, purchase models.NudgePurchase) (int, error) {
	args := m.Called(ctx, purchase)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CompleteNudgePurchase(ctx context.Context, paymentID string) error {
	return m.Called(ctx, paymentID).Error(0)
}
func (m *RepoMock) ListNudgePurchases(ctx context.Context, userUID string) ([]*models.NudgePurchase, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.NudgePurchase), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Notify(ctx context.Context, userUID, eventType, message, link string) {
	m.Called(ctx, userUID, eventType, message, link)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreatePayment(req paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePaymentResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	startupUID  = "22222222-2222-2222-2222-222222222222"
	investorUID = "11111111-1111-1111-1111-111111111111"
)

func TestNudgeService_Send(t *testing.T) {
	startup := &models.User{UID: startupUID, Username: "acme", UserType: models.UserTypeStartup}
	investor := &models.User{UID: investorUID, Username: "angelina", UserType: models.UserTypeInvestor}

	tests := []struct {
		name       string
		senderUID  string
		req        models.DummyNudge
		setupMocks func(r *RepoMock, u *UsersMock, n *NotifierMock)
		wantErr    bool
		wantKind   apperr.Kind
	}{
		{
			name:      "success",
			senderUID: startupUID,
			req:       models.DummyNudge{ReceiverUID: investorUID},
			setupMocks: func(r *RepoMock, u *UsersMock, n *NotifierMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(investor, nil).Once()
				r.On("SendNudge", mock.Anything, startupUID, investorUID, mock.Anything).
					Return(&models.Nudge{ID: 3, SenderUID: startupUID, ReceiverUID: investorUID,
						Status: models.StatusPending, Currency: models.CurrencyVCR, ConnectionID: 9}, nil).Once()
				n.On("Notify", mock.Anything, investorUID, models.NotificationNudgeNew,
					"Стартап acme отправил вам надж", "/nudges/3").Once()
			},
		},
		{
			name:       "self target rejected",
			senderUID:  startupUID,
			req:        models.DummyNudge{ReceiverUID: startupUID},
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *NotifierMock) {},
			wantErr:    true,
			wantKind:   apperr.KindValidation,
		},
		{
			name:      "investor cannot send",
			senderUID: investorUID,
			req:       models.DummyNudge{ReceiverUID: startupUID},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *NotifierMock) {
				u.On("GetUser", mock.Anything, investorUID).Return(investor, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindForbidden,
		},
		{
			name:      "receiver must be investor",
			senderUID: startupUID,
			req:       models.DummyNudge{ReceiverUID: "33333333-3333-3333-3333-333333333333"},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *NotifierMock) {
				other := &models.User{UID: "33333333-3333-3333-3333-333333333333", UserType: models.UserTypeStartup}
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				u.On("GetUser", mock.Anything, other.UID).Return(other, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindValidation,
		},
		{
			name:      "quota exhausted",
			senderUID: startupUID,
			req:       models.DummyNudge{ReceiverUID: investorUID},
			setupMocks: func(r *RepoMock, u *UsersMock, _ *NotifierMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(investor, nil).Once()
				r.On("SendNudge", mock.Anything, startupUID, investorUID, mock.Anything).
					Return(nil, apperr.Quota("nudge quota exhausted")).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindQuota,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			notifier := new(NotifierMock)
			provider := new(ProviderMock)
			tt.setupMocks(repo, users, notifier)

			svc := New(repo, users, provider, notifier, newNoopLogger())
			nudge, err := svc.Send(context.Background(), tt.senderUID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 3, nudge.ID)
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestNudgeService_UpdateStatus_AcceptCascadesToConnection(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)
	provider := new(ProviderMock)

	updated := &models.Nudge{
		ID: 3, SenderUID: startupUID, ReceiverUID: investorUID,
		Status: models.StatusAccepted, ConnectionID: 9,
	}
	repo.On("UpdateNudgeStatus", mock.Anything, 3, investorUID, models.StatusAccepted).
		Return(updated, nil).Once()
	notifier.On("Notify", mock.Anything, startupUID, models.NotificationNudgeUpdate,
		"Инвестор принял ваш надж, коннект установлен", "/connections/9").Once()

	svc := New(repo, users, provider, notifier, newNoopLogger())
	got, err := svc.UpdateStatus(context.Background(), investorUID, 3, models.DummyStatus{Status: models.StatusAccepted})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestNudgeService_UpdateStatus_ExpiredIsTerminalTarget(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)
	provider := new(ProviderMock)

	updated := &models.Nudge{
		ID: 3, SenderUID: startupUID, ReceiverUID: investorUID,
		Status: models.StatusExpired, ConnectionID: 9,
	}
	repo.On("UpdateNudgeStatus", mock.Anything, 3, investorUID, models.StatusExpired).
		Return(updated, nil).Once()
	notifier.On("Notify", mock.Anything, startupUID, models.NotificationNudgeUpdate,
		"Ваш надж истёк", "/connections/9").Once()

	svc := New(repo, users, provider, notifier, newNoopLogger())
	got, err := svc.UpdateStatus(context.Background(), investorUID, 3, models.DummyStatus{Status: models.StatusExpired})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusExpired, got.Status)

	_, err = svc.UpdateStatus(context.Background(), investorUID, 3, models.DummyStatus{Status: "cancelled"})
	assert.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertExpectations(t)
}

func TestNudgeService_InvestorHistory_ReturnsSentHalves(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)
	provider := new(ProviderMock)

	connections := []*models.Connection{
		{ID: 9, SenderUID: investorUID, ReceiverUID: startupUID, Status: models.StatusPending},
	}
	users.On("GetUser", mock.Anything, investorUID).
		Return(&models.User{UID: investorUID, UserType: models.UserTypeInvestor}, nil).Once()
	repo.On("SweepExpiredNudges", mock.Anything).Return(0, nil).Once()
	repo.On("ListNudgesBySender", mock.Anything, investorUID).Return([]*models.Nudge{}, nil).Once()
	repo.On("ListConnectionsBySender", mock.Anything, investorUID).Return(connections, nil).Once()

	svc := New(repo, users, provider, notifier, newNoopLogger())
	got, err := svc.InvestorHistory(context.Background(), investorUID)

	assert.NoError(t, err)
	assert.Empty(t, got.Nudges)
	assert.Len(t, got.Connections, 1)
	assert.Equal(t, investorUID, got.Connections[0].SenderUID)
	repo.AssertExpectations(t)
}

func TestNudgeService_InvestorHistory_RequiresInvestor(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)
	provider := new(ProviderMock)

	users.On("GetUser", mock.Anything, startupUID).
		Return(&models.User{UID: startupUID, UserType: models.UserTypeStartup}, nil).Once()

	svc := New(repo, users, provider, notifier, newNoopLogger())
	_, err := svc.InvestorHistory(context.Background(), startupUID)

	assert.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	users.AssertExpectations(t)
}

func TestNudgeService_Buy(t *testing.T) {
	startup := &models.User{UID: startupUID, UserType: models.UserTypeStartup}

	tests := []struct {
		name       string
		req        models.DummyBuyNudges
		setupMocks func(r *RepoMock, u *UsersMock, p *ProviderMock)
		wantErr    bool
		wantKind   apperr.Kind
		wantStatus string
	}{
		{
			name: "pending purchase awaits webhook",
			req:  models.DummyBuyNudges{Quantity: 25, PaymentToken: "tok_abc"},
			setupMocks: func(r *RepoMock, u *UsersMock, p *ProviderMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				p.On("CreatePayment", mock.MatchedBy(func(req paymentprovider.CreatePaymentRequest) bool {
					return req.Amount.Value == "100.00" && req.PaymentToken == "tok_abc"
				})).Return(&paymentprovider.CreatePaymentResponse{ID: "pay-1", Status: "pending"}, nil).Once()
				r.On("CreateNudgePurchase", mock.Anything, mock.MatchedBy(func(pu models.NudgePurchase) bool {
					return pu.Quantity == 25 && pu.Price == 100 &&
						pu.PaymentID == "pay-1" && pu.PaymentStatus == models.PaymentPending
				})).Return(11, nil).Once()
			},
			wantStatus: models.PaymentPending,
		},
		{
			name: "succeeded payment completes immediately",
			req:  models.DummyBuyNudges{Quantity: 10, PaymentToken: "tok_abc"},
			setupMocks: func(r *RepoMock, u *UsersMock, p *ProviderMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				p.On("CreatePayment", mock.Anything).
					Return(&paymentprovider.CreatePaymentResponse{ID: "pay-2", Status: "succeeded"}, nil).Once()
				r.On("CreateNudgePurchase", mock.Anything, mock.Anything).Return(12, nil).Once()
				r.On("CompleteNudgePurchase", mock.Anything, "pay-2").Return(nil).Once()
			},
			wantStatus: models.PaymentCompleted,
		},
		{
			name:       "unsupported pack size",
			req:        models.DummyBuyNudges{Quantity: 7, PaymentToken: "tok_abc"},
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *ProviderMock) {},
			wantErr:    true,
			wantKind:   apperr.KindValidation,
		},
		{
			name: "provider failure",
			req:  models.DummyBuyNudges{Quantity: 50, PaymentToken: "tok_abc"},
			setupMocks: func(_ *RepoMock, u *UsersMock, p *ProviderMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				p.On("CreatePayment", mock.Anything).Return(nil, errors.New("gateway timeout")).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			notifier := new(NotifierMock)
			provider := new(ProviderMock)
			tt.setupMocks(repo, users, provider)

			svc := New(repo, users, provider, notifier, newNoopLogger())
			purchase, err := svc.Buy(context.Background(), startupUID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, purchase.PaymentStatus)
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}

func TestNudgeService_Received_AttachesSenderCards(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)
	provider := new(ProviderMock)

	goneUID := "44444444-4444-4444-4444-444444444444"
	entries := []*models.Nudge{
		{ID: 1, SenderUID: startupUID, ReceiverUID: investorUID, Status: models.StatusPending},
		{ID: 2, SenderUID: goneUID, ReceiverUID: investorUID, Status: models.StatusPending},
	}
	startup := &models.User{UID: startupUID, UserType: models.UserTypeStartup,
		Startup: &models.StartupProfile{PitchTitle: "Acme", Industry1: "fintech", Stage: "seed"}}

	repo.On("SweepExpiredNudges", mock.Anything).Return(0, nil).Once()
	repo.On("ListNudgesForReceiver", mock.Anything, investorUID).Return(entries, nil).Once()
	users.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
	users.On("GetUser", mock.Anything, goneUID).Return(nil, apperr.NotFound("user not found")).Once()

	svc := New(repo, users, provider, notifier, newNoopLogger())
	items, err := svc.Received(context.Background(), investorUID)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NotNil(t, items[0].Card)
	assert.Nil(t, items[1].Card)
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}
