// Package notify рассылает уведомления о событиях жизненных циклов:
// сохраняет запись в ленту пользователя и публикует событие в очередь
// почтовой рассылки. Сбои уведомлений не влияют на основную операцию.
package notify

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
	"github.com/magabrotheeeer/venture-connect/internal/rabbitmq"
)

// UserRepository — минимальный доступ к пользователям: нужен адрес
// почты получателя.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// NotificationRepository — хранилище ленты уведомлений.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
	ListNotifications(ctx context.Context, userUID string, limit int) ([]*models.Notification, error)
	MarkNotificationsRead(ctx context.Context, userUID string) error
}

// Publisher публикует событие в exchange уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// ChannelPublisher — публикация через канал RabbitMQ.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

func (p *ChannelPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Ch, rabbitmq.NotificationsExchange, routingKey, message)
}

type NotifyService struct {
	users         UserRepository
	notifications NotificationRepository
	publisher     Publisher
	log           *slog.Logger
}

func New(users UserRepository, notifications NotificationRepository, publisher Publisher, log *slog.Logger) *NotifyService {
	return &NotifyService{
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

// Notify сохраняет уведомление и отправляет письмо получателю.
// Любая ошибка логируется и поглощается.
func (s *NotifyService) Notify(ctx context.Context, userUID, eventType, message, link string) {
	if _, err := s.notifications.CreateNotification(ctx, models.Notification{
		UserUID: userUID,
		Type:    eventType,
		Message: message,
		Link:    link,
	}); err != nil {
		s.log.Warn("failed to store notification",
			sl.UID(userUID), slog.String("type", eventType), sl.Err(err))
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load notification recipient", sl.UID(userUID), sl.Err(err))
		return
	}
	event := models.NotificationEvent{
		Email:    user.Email,
		Username: user.Username,
		Type:     eventType,
		Message:  message,
		Link:     link,
	}
	if err := s.publisher.Publish("events", event); err != nil {
		s.log.Warn("failed to publish notification event",
			sl.UID(userUID), slog.String("type", eventType), sl.Err(err))
	}
}

// List возвращает последние уведомления пользователя.
func (s *NotifyService) List(ctx context.Context, userUID string, limit int) ([]*models.Notification, error) {
	return s.notifications.ListNotifications(ctx, userUID, limit)
}

// MarkRead отмечает уведомления пользователя прочитанными.
func (s *NotifyService) MarkRead(ctx context.Context, userUID string) error {
	return s.notifications.MarkNotificationsRead(ctx, userUID)
}
