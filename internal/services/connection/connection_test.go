package connection

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateConnection(ctx context.Context, senderUID, receiverUID string) (*models.Connection, error) {
	args := m.Called(ctx, senderUID, receiverUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}
func (m *RepoMock) ReadConnection(ctx context.Context, id int) (*models.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}
func (m *RepoMock) ListConnectionsForUser(ctx context.Context, userUID string) ([]*models.Connection, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Connection), args.Error(1)
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

func TestConnectionService_Create(t *testing.T) {
	investor := &models.User{UID: investorUID, Username: "angelina", UserType: models.UserTypeInvestor}
	startup := &models.User{UID: startupUID, Username: "acme", UserType: models.UserTypeStartup}

	tests := []struct {
		name       string
		senderUID  string
		req        models.DummyConnection
		setupMocks func(r *RepoMock, u *UsersMock, n *NotifierMock)
		wantErr    bool
		wantKind   apperr.Kind
	}{
		{
			name:      "success",
			senderUID: investorUID,
			req:       models.DummyConnection{ReceiverUID: startupUID},
			setupMocks: func(r *RepoMock, u *UsersMock, n *NotifierMock) {
				u.On("GetUser", mock.Anything, investorUID).Return(investor, nil).Once()
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				r.On("CreateConnection", mock.Anything, investorUID, startupUID).
					Return(&models.Connection{ID: 4, SenderUID: investorUID, ReceiverUID: startupUID,
						Status: models.StatusPending}, nil).Once()
				n.On("Notify", mock.Anything, startupUID, models.NotificationConnectionNew,
					"Инвестор angelina хочет установить коннект", "/connections/4").Once()
			},
		},
		{
			name:       "self target rejected",
			senderUID:  investorUID,
			req:        models.DummyConnection{ReceiverUID: investorUID},
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *NotifierMock) {},
			wantErr:    true,
			wantKind:   apperr.KindValidation,
		},
		{
			name:      "startup cannot create directly",
			senderUID: startupUID,
			req:       models.DummyConnection{ReceiverUID: investorUID},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *NotifierMock) {
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
			},
			wantErr:  true,
			wantKind: apperr.KindForbidden,
		},
		{
			name:      "duplicate pair",
			senderUID: investorUID,
			req:       models.DummyConnection{ReceiverUID: startupUID},
			setupMocks: func(r *RepoMock, u *UsersMock, _ *NotifierMock) {
				u.On("GetUser", mock.Anything, investorUID).Return(investor, nil).Once()
				u.On("GetUser", mock.Anything, startupUID).Return(startup, nil).Once()
				r.On("CreateConnection", mock.Anything, investorUID, startupUID).
					Return(nil, apperr.Conflict("connection already exists with this user")).Once()
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
			conn, err := svc.Create(context.Background(), tt.senderUID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 4, conn.ID)
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestConnectionService_List(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	notifier := new(NotifierMock)

	repo.On("ListConnectionsForUser", mock.Anything, investorUID).
		Return([]*models.Connection{{ID: 1}, {ID: 2}}, nil).Once()

	svc := New(repo, users, notifier, newNoopLogger())
	items, err := svc.List(context.Background(), investorUID)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	repo.AssertExpectations(t)
}
