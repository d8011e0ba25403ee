// Package interaction реализует жизненный цикл взаимодействий между
// инвесторами и стартапами: отправку, единственный переход статуса,
// ленивую чистку просроченных записей и выдачу карточек контрагентов.
package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
	"github.com/magabrotheeeer/venture-connect/internal/services/card"
)

// InteractionRepository — интерфейс репозитория взаимодействий.
type InteractionRepository interface {
	CreateInteraction(ctx context.Context, entry models.Interaction) (int, error)
	ReadInteraction(ctx context.Context, id int) (*models.Interaction, error)
	FindLiveInteraction(ctx context.Context, firstUID, secondUID string) (*models.Interaction, error)
	UpdateInteractionStatus(ctx context.Context, id int, receiverUID, newStatus string) (*models.Interaction, error)
	SweepExpiredInteractions(ctx context.Context) (int, error)
	ListAcceptedInteractions(ctx context.Context, userUID string) ([]*models.Interaction, error)
	ListPendingInteractions(ctx context.Context, receiverUID string) ([]*models.Interaction, error)
	DeleteInteraction(ctx context.Context, id int, userUID string) error
}

// UserProvider отдаёт профили участников; реализуется сервисом
// пользователей поверх кэша.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Notifier уведомляет участника о событии. Реализация не возвращает
// ошибок: сбой уведомления не отменяет операцию.
type Notifier interface {
	Notify(ctx context.Context, userUID, eventType, message, link string)
}

type InteractionService struct {
	repo     InteractionRepository
	users    UserProvider
	notifier Notifier
	log      *slog.Logger
}

func New(repo InteractionRepository, users UserProvider, notifier Notifier, log *slog.Logger) *InteractionService {
	return &InteractionService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// Send создает запрос на взаимодействие от sender к получателю.
// Пара должна состоять из инвестора и стартапа, живой запрос между
// парой может быть только один. Сумма принимается только от стартапов.
func (s *InteractionService) Send(ctx context.Context, senderUID string, req models.DummyInteraction) (int, error) {
	if senderUID == req.ReceiverUID {
		return 0, apperr.Validation("cannot send an interaction to yourself")
	}

	sender, err := s.users.GetUser(ctx, senderUID)
	if err != nil {
		return 0, err
	}
	receiver, err := s.users.GetUser(ctx, req.ReceiverUID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return 0, apperr.NotFound("receiver not found")
		}
		return 0, err
	}
	if !isInvestorStartupPair(sender.UserType, receiver.UserType) {
		return 0, apperr.Forbidden("interactions are allowed only between an investor and a startup")
	}

	existing, err := s.repo.FindLiveInteraction(ctx, senderUID, req.ReceiverUID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, apperr.Conflict("an active interaction already exists with this user")
	}

	amount := int64(0)
	currency := models.CurrencyUSD
	if sender.UserType == models.UserTypeStartup {
		amount = req.Amount
		currency = models.CurrencyVCR
	}
	entry := models.Interaction{
		SenderUID:   senderUID,
		ReceiverUID: req.ReceiverUID,
		Status:      models.StatusPending,
		Amount:      amount,
		Currency:    currency,
		Message:     req.Message,
		ExpiresAt:   time.Now().Add(models.InteractionTTL),
	}
	id, err := s.repo.CreateInteraction(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created interaction", slog.Int("id", id), sl.UID(senderUID))

	s.notifier.Notify(ctx, req.ReceiverUID, models.NotificationInteractionNew,
		fmt.Sprintf("Новый запрос на взаимодействие от %s", sender.Username),
		fmt.Sprintf("/interactions/%d", id))
	return id, nil
}

// UpdateStatus выполняет единственный переход статуса pending-запроса.
// Переход доступен только получателю и только в терминальный статус.
func (s *InteractionService) UpdateStatus(ctx context.Context, receiverUID string, id int, req models.DummyStatus) (*models.Interaction, error) {
	if !isTerminalStatus(req.Status) {
		return nil, apperr.Validation("status must be accepted, rejected or expired")
	}

	updated, err := s.repo.UpdateInteractionStatus(ctx, id, receiverUID, req.Status)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated interaction status",
		slog.Int("id", id), slog.String("status", updated.Status))

	receiver, err := s.users.GetUser(ctx, receiverUID)
	username := "пользователь"
	if err == nil {
		username = receiver.Username
	}
	s.notifier.Notify(ctx, updated.SenderUID, models.NotificationInteractionUpdate,
		fmt.Sprintf("%s: ваш запрос %s", username, statusText(updated.Status)),
		fmt.Sprintf("/interactions/%d", id))
	return updated, nil
}

// ListAccepted возвращает карточки контрагентов по принятым
// взаимодействиям пользователя. Контрагенты без профиля опускаются.
// Списки доступны только инвесторам и стартапам.
func (s *InteractionService) ListAccepted(ctx context.Context, userUID string) ([]*models.Card, error) {
	if err := s.requireParticipant(ctx, userUID); err != nil {
		return nil, err
	}
	s.sweep(ctx)
	entries, err := s.repo.ListAcceptedInteractions(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return s.projectCards(ctx, userUID, entries), nil
}

// ListPending возвращает карточки отправителей входящих pending-запросов.
func (s *InteractionService) ListPending(ctx context.Context, receiverUID string) ([]*models.Card, error) {
	if err := s.requireParticipant(ctx, receiverUID); err != nil {
		return nil, err
	}
	s.sweep(ctx)
	entries, err := s.repo.ListPendingInteractions(ctx, receiverUID)
	if err != nil {
		return nil, err
	}
	return s.projectCards(ctx, receiverUID, entries), nil
}

// requireParticipant проверяет, что пользователь — инвестор или стартап.
func (s *InteractionService) requireParticipant(ctx context.Context, userUID string) error {
	caller, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if caller.UserType != models.UserTypeInvestor && caller.UserType != models.UserTypeStartup {
		return apperr.Forbidden("interaction lists are available only to investors and startups")
	}
	return nil
}

// Delete удаляет взаимодействие. Доступно обоим участникам.
func (s *InteractionService) Delete(ctx context.Context, userUID string, id int) error {
	return s.repo.DeleteInteraction(ctx, id, userUID)
}

// sweep лениво переводит просроченные pending-записи в expired.
// Ошибка чистки не мешает чтению.
func (s *InteractionService) sweep(ctx context.Context) {
	count, err := s.repo.SweepExpiredInteractions(ctx)
	if err != nil {
		s.log.Warn("failed to sweep expired interactions", sl.Err(err))
		return
	}
	if count > 0 {
		s.log.Info("swept expired interactions", slog.Int("count", count))
	}
}

func (s *InteractionService) projectCards(ctx context.Context, viewerUID string, entries []*models.Interaction) []*models.Card {
	cards := make([]*models.Card, 0, len(entries))
	for _, entry := range entries {
		counterpartUID := entry.SenderUID
		if counterpartUID == viewerUID {
			counterpartUID = entry.ReceiverUID
		}
		counterpart, err := s.users.GetUser(ctx, counterpartUID)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindNotFound {
				s.log.Warn("failed to load counterpart", sl.UID(counterpartUID), sl.Err(err))
			}
			continue
		}
		if c := card.ForCounterpart(counterpart, entry); c != nil {
			cards = append(cards, c)
		}
	}
	return cards
}

func isInvestorStartupPair(first, second string) bool {
	return (first == models.UserTypeInvestor && second == models.UserTypeStartup) ||
		(first == models.UserTypeStartup && second == models.UserTypeInvestor)
}

func isTerminalStatus(status string) bool {
	return status == models.StatusAccepted ||
		status == models.StatusRejected ||
		status == models.StatusExpired
}

func statusText(status string) string {
	switch status {
	case models.StatusAccepted:
		return "принят"
	case models.StatusRejected:
		return "отклонён"
	case models.StatusExpired:
		return "истёк"
	default:
		return status
	}
}
