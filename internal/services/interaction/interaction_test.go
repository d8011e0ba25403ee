package interaction

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
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateInteraction(ctx context.Context, entry models.Interaction) (int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadInteraction(ctx context.Context, id int) (*models.Interaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interaction), args.Error(1)
}
func (m *RepoMock) FindLiveInteraction(ctx context.Context, firstUID, secondUID string) (*models.Interaction, error) {
	args := m.Called(ctx, firstUID, secondUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interaction), args.Error(1)
}
func (m *RepoMock) UpdateInteractionStatus(ctx context.Context, id int, receiverUID, newStatus string) (*models.Interaction, error) {
	args := m.Called(ctx, id, receiverUID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interaction), args.Error(1)
}
func (m *RepoMock) SweepExpiredInteractions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListAcceptedInteractions(ctx context.Context, userUID string) ([]*models.Interaction, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Interaction), args.Error(1)
}
func (m *RepoMock) ListPendingInteractions(ctx context.Context, receiverUID string) ([]*models.Interaction, error) {
	args := m.Called(ctx, receiverUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Interaction), args.Error(1)
}
func (m *RepoMock) DeleteInteraction(ctx context.Context, id int, userUID string) error {
	return m.Called(ctx, id, userUID).Error(0)
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

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	investorUID = "11111111-1111-1111-1111-111111111111"
	startupUID  = "22222222-2222-2222-2222-222222222222"
)

func investorUser() *models.User {
	return &models.User{UID: investorUID, Username: "angelina", UserType: models.UserTypeInvestor}
}

func startupUser() *models.User {
	return &models.User{UID: startupUID, Username: "acme", UserType: models.UserTypeStartup}
}

func TestInteractionService_Send(t *testing.T) {
	tests := []struct {
		name       string
		senderUID  string
		req        models.DummyInteraction
		setupMocks func(r *RepoMock, u *UsersMock, n *NotifierMock)
		wantID     int
		wantErr    bool
		wantKind   apperr.Kind
	}{
		{
			name:      "startup sends with amount",
			senderUID: startupUID,
			req:       models.DummyInteraction{ReceiverUID: investorUID, Amount: 50000, Message: "hi"},
			setupMocks: func(r *RepoMock, u *UsersMock, n *NotifierMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startupUser(), nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(investorUser(), nil).Once()
				r.On("FindLiveInteraction", mock.Anything, startupUID, investorUID).Return(nil, nil).Once()
				r.On("CreateInteraction", mock.Anything, mock.MatchedBy(func(e models.Interaction) bool {
					return e.SenderUID == startupUID &&
						e.Status == models.StatusPending &&
						e.Amount == 50000 &&
						e.Currency == models.CurrencyVCR
				})).Return(7, nil).Once()
				n.On("Notify", mock.Anything, investorUID, models.NotificationInteractionNew,
					mock.Anything, "/interactions/7").Once()
			},
			wantID: 7,
		},
		{
			name:      "investor amount is dropped",
			senderUID: investorUID,
			req:       models.DummyInteraction{ReceiverUID: startupUID, Amount: 99999},
			setupMocks: func(r *RepoMock, u *UsersMock, n *NotifierMock) {
				u.On("GetUser", mock.Anything, investorUID).Return(investorUser(), nil).Once()
				u.On("GetUser", mock.Anything, startupUID).Return(startupUser(), nil).Once()
				r.On("FindLiveInteraction", mock.Anything, investorUID, startupUID).Return(nil, nil).Once()
				r.On("CreateInteraction", mock.Anything, mock.MatchedBy(func(e models.Interaction) bool {
					return e.Amount == 0 && e.Currency == models.CurrencyUSD
				})).Return(8, nil).Once()
				n.On("Notify", mock.Anything, startupUID, models.NotificationInteractionNew,
					mock.Anything, "/interactions/8").Once()
			},
			wantID: 8,
		},
		{
			name:       "self target rejected",
			senderUID:  startupUID,
			req:        models.DummyInteraction{ReceiverUID: startupUID},
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *NotifierMock) {},
			wantErr:    true,
			wantKind:   apperr.KindValidation,
		},
		{
			name:      "two startups forbidden",
			senderUID: startupUID,
			req:       models.DummyInteraction{ReceiverUID: "33333333-3333-3333-3333-333333333333"},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *NotifierMock) {
				other := &models.User{UID: "33333333-3333-3333-3333-333333333333", UserType: models.UserTypeStartup}
				u.On("GetUser", mock.Anything, startupUID).Return(startupUser(), nil).Once()
				u.On("GetUser", mock.Anything, other.UID).Return(other, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindForbidden,
		},
		{
			name:      "duplicate live interaction",
			senderUID: startupUID,
			req:       models.DummyInteraction{ReceiverUID: investorUID},
			setupMocks: func(r *RepoMock, u *UsersMock, _ *NotifierMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startupUser(), nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(investorUser(), nil).Once()
				r.On("FindLiveInteraction", mock.Anything, startupUID, investorUID).
					Return(&models.Interaction{ID: 1, Status: models.StatusPending}, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindConflict,
		},
		{
			name:      "receiver missing",
			senderUID: startupUID,
			req:       models.DummyInteraction{ReceiverUID: investorUID},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *NotifierMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startupUser(), nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(nil, apperr.NotFound("user not found")).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			notifier := new(NotifierMock)
			tt.setupMocks(repo, users, notifier)

			svc := New(repo, users, notifier, newNoopLogger())
			id, err := svc.Send(context.Background(), tt.senderUID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestInteractionService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		setupMocks func(r *RepoMock, u *UsersMock, n *NotifierMock)
		wantErr    bool
		wantKind   apperr.Kind
	}{
		{
			name:   "accept",
			status: models.StatusAccepted,
			setupMocks: func(r *RepoMock, u *UsersMock, n *NotifierMock) {
				updated := &models.Interaction{ID: 5, SenderUID: startupUID, ReceiverUID: investorUID, Status: models.StatusAccepted}
				r.On("UpdateInteractionStatus", mock.Anything, 5, investorUID, models.StatusAccepted).
					Return(updated, nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(investorUser(), nil).Once()
				n.On("Notify", mock.Anything, startupUID, models.NotificationInteractionUpdate,
					"angelina: ваш запрос принят", "/interactions/5").Once()
			},
		},
		{
			name:   "expired is a valid terminal target",
			status: models.StatusExpired,
			setupMocks: func(r *RepoMock, u *UsersMock, n *NotifierMock) {
				updated := &models.Interaction{ID: 5, SenderUID: startupUID, ReceiverUID: investorUID, Status: models.StatusExpired}
				r.On("UpdateInteractionStatus", mock.Anything, 5, investorUID, models.StatusExpired).
					Return(updated, nil).Once()
				u.On("GetUser", mock.Anything, investorUID).Return(investorUser(), nil).Once()
				n.On("Notify", mock.Anything, startupUID, models.NotificationInteractionUpdate,
					"angelina: ваш запрос истёк", "/interactions/5").Once()
			},
		},
		{
			name:       "unknown target status",
			status:     "cancelled",
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *NotifierMock) {},
			wantErr:    true,
			wantKind:   apperr.KindValidation,
		},
		{
			name:   "transition denied by repo",
			status: models.StatusRejected,
			setupMocks: func(r *RepoMock, _ *UsersMock, _ *NotifierMock) {
				r.On("UpdateInteractionStatus", mock.Anything, 5, investorUID, models.StatusRejected).
					Return(nil, apperr.Conflict("interaction is not pending")).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			notifier := new(NotifierMock)
			tt.setupMocks(repo, users, notifier)

			svc := New(repo, users, notifier, newNoopLogger())
			_, err := svc.UpdateStatus(context.Background(), investorUID, 5, models.DummyStatus{Status: tt.status})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestInteractionService_ListPending_SkipsDanglingCounterparts(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)

	goneUID := "44444444-4444-4444-4444-444444444444"
	now := time.Now()
	entries := []*models.Interaction{
		{ID: 1, SenderUID: startupUID, ReceiverUID: investorUID, Status: models.StatusPending, CreatedAt: now},
		{ID: 2, SenderUID: goneUID, ReceiverUID: investorUID, Status: models.StatusPending, CreatedAt: now},
	}

	startup := startupUser()
	startup.Startup = &models.StartupProfile{PitchTitle: "Acme", Industry1: "fintech", Stage: "seed"}

	repo.On("SweepExpiredInteractions", mock.Anything).Return(0, nil).Once()
	repo.On("ListPendingInteractions", mock.Anything, investorUID).Return(entries, nil).Once()
	users.On("GetUser", mock.Anything, investorUID).Return(investorUser(), nil).Once()
	users.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
	users.On("GetUser", mock.Anything, goneUID).Return(nil, apperr.NotFound("user not found")).Once()

	svc := New(repo, users, notifier, newNoopLogger())
	cards, err := svc.ListPending(context.Background(), investorUID)

	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, startupUID, cards[0].ID)
	assert.Equal(t, 1, cards[0].InteractionID)
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestInteractionService_ListAccepted_SweepFailureDoesNotBlockRead(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)

	users.On("GetUser", mock.Anything, startupUID).Return(startupUser(), nil).Once()
	repo.On("SweepExpiredInteractions", mock.Anything).Return(0, errors.New("db error")).Once()
	repo.On("ListAcceptedInteractions", mock.Anything, startupUID).
		Return([]*models.Interaction{}, nil).Once()

	svc := New(repo, users, notifier, newNoopLogger())
	cards, err := svc.ListAccepted(context.Background(), startupUID)

	assert.NoError(t, err)
	assert.Empty(t, cards)
	repo.AssertExpectations(t)
}

func TestInteractionService_Lists_RequireParticipantType(t *testing.T) {
	jobseekerUID := "55555555-5555-5555-5555-555555555555"
	jobseeker := &models.User{UID: jobseekerUID, Username: "jane", UserType: models.UserTypeJobseeker}

	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)
	users.On("GetUser", mock.Anything, jobseekerUID).Return(jobseeker, nil).Twice()

	svc := New(repo, users, notifier, newNoopLogger())

	_, err := svc.ListAccepted(context.Background(), jobseekerUID)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.ListPending(context.Background(), jobseekerUID)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	repo.AssertNotCalled(t, "ListAcceptedInteractions", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ListPendingInteractions", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}
