// Package connection реализует прямые коннекты инвесторов со
// стартапами. Пара уникальна навсегда: после отказа повторный запрос
// невозможен.
package connection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// ConnectionRepository — интерфейс репозитория коннектов.
type ConnectionRepository interface {
	CreateConnection(ctx context.Context, senderUID, receiverUID string) (*models.Connection, error)
	ReadConnection(ctx context.Context, id int) (*models.Connection, error)
	ListConnectionsForUser(ctx context.Context, userUID string) ([]*models.Connection, error)
}

// UserProvider отдаёт профили участников.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Notifier уведомляет участника о событии.
type Notifier interface {
	Notify(ctx context.Context, userUID, eventType, message, link string)
}

type ConnectionService struct {
	repo     ConnectionRepository
	users    UserProvider
	notifier Notifier
	log      *slog.Logger
}

func New(repo ConnectionRepository, users UserProvider, notifier Notifier, log *slog.Logger) *ConnectionService {
	return &ConnectionService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// Create создает прямой коннект от инвестора к стартапу.
func (s *ConnectionService) Create(ctx context.Context, senderUID string, req models.DummyConnection) (*models.Connection, error) {
	if senderUID == req.ReceiverUID {
		return nil, apperr.Validation("cannot connect to yourself")
	}

	sender, err := s.users.GetUser(ctx, senderUID)
	if err != nil {
		return nil, err
	}
	if sender.UserType != models.UserTypeInvestor {
		return nil, apperr.Forbidden("only investors can create connections directly")
	}
	receiver, err := s.users.GetUser(ctx, req.ReceiverUID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound("receiver not found")
		}
		return nil, err
	}
	if receiver.UserType != models.UserTypeStartup {
		return nil, apperr.Validation("connections can be created only with startups")
	}

	conn, err := s.repo.CreateConnection(ctx, senderUID, req.ReceiverUID)
	if err != nil {
		return nil, err
	}
	s.log.Info("created connection", slog.Int("id", conn.ID), sl.UID(senderUID))

	s.notifier.Notify(ctx, req.ReceiverUID, models.NotificationConnectionNew,
		fmt.Sprintf("Инвестор %s хочет установить коннект", sender.Username),
		fmt.Sprintf("/connections/%d", conn.ID))
	return conn, nil
}

// List возвращает коннекты с участием пользователя.
func (s *ConnectionService) List(ctx context.Context, userUID string) ([]*models.Connection, error) {
	return s.repo.ListConnectionsForUser(ctx, userUID)
}
