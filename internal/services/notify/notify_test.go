package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/venture-connect/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type NotificationsMock struct{ mock.Mock }

func (m *NotificationsMock) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}
func (m *NotificationsMock) ListNotifications(ctx context.Context, userUID string, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
func (m *NotificationsMock) MarkNotificationsRead(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const investorUID = "11111111-1111-1111-1111-111111111111"

func TestNotifyService_Notify_StoresAndPublishes(t *testing.T) {
	users := new(UsersMock)
	notifications := new(NotificationsMock)
	publisher := new(PublisherMock)

	investor := &models.User{UID: investorUID, Email: "angelina@example.com", Username: "angelina"}

	notifications.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserUID == investorUID &&
			n.Type == models.NotificationInteractionNew &&
			n.Link == "/interactions/7"
	})).Return(1, nil).Once()
	users.On("GetUser", mock.Anything, investorUID).Return(investor, nil).Once()
	publisher.On("Publish", "events", models.NotificationEvent{
		Email:    "angelina@example.com",
		Username: "angelina",
		Type:     models.NotificationInteractionNew,
		Message:  "Новый запрос на взаимодействие от acme",
		Link:     "/interactions/7",
	}).Return(nil).Once()

	svc := New(users, notifications, publisher, newNoopLogger())
	svc.Notify(context.Background(), investorUID, models.NotificationInteractionNew,
		"Новый запрос на взаимодействие от acme", "/interactions/7")

	users.AssertExpectations(t)
	notifications.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestNotifyService_Notify_SwallowsFailures(t *testing.T) {
	users := new(UsersMock)
	notifications := new(NotificationsMock)
	publisher := new(PublisherMock)

	notifications.On("CreateNotification", mock.Anything, mock.Anything).
		Return(0, errors.New("db error")).Once()
	users.On("GetUser", mock.Anything, investorUID).
		Return(nil, errors.New("db error")).Once()

	svc := New(users, notifications, publisher, newNoopLogger())
	svc.Notify(context.Background(), investorUID, models.NotificationNudgeNew, "msg", "/nudges/1")

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	notifications.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestNotifyService_List(t *testing.T) {
	users := new(UsersMock)
	notifications := new(NotificationsMock)
	publisher := new(PublisherMock)

	notifications.On("ListNotifications", mock.Anything, investorUID, 50).
		Return([]*models.Notification{{ID: 1}, {ID: 2}}, nil).Once()

	svc := New(users, notifications, publisher, newNoopLogger())
	items, err := svc.List(context.Background(), investorUID, 50)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	notifications.AssertExpectations(t)
}

func TestNotifyService_MarkRead(t *testing.T) {
	users := new(UsersMock)
	notifications := new(NotificationsMock)
	publisher := new(PublisherMock)

	notifications.On("MarkNotificationsRead", mock.Anything, investorUID).Return(nil).Once()

	svc := New(users, notifications, publisher, newNoopLogger())
	err := svc.MarkRead(context.Background(), investorUID)

	assert.NoError(t, err)
	notifications.AssertExpectations(t)
}
