// Package nudge реализует квотируемые наджи стартапов к инвесторам:
// отправку в рамках квоты, переход статуса с каскадом в коннект,
// покупку пакетов и выдачу истории.
package nudge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
	"github.com/magabrotheeeer/venture-connect/internal/paymentprovider"
	"github.com/magabrotheeeer/venture-connect/internal/services/card"
)

// NudgeRepository — интерфейс репозитория наджей, коннектов и покупок.
type NudgeRepository interface {
	SendNudge(ctx context.Context, senderUID, receiverUID string, expiresAt time.Time) (*models.Nudge, error)
	UpdateNudgeStatus(ctx context.Context, id int, receiverUID, newStatus string) (*models.Nudge, error)
	SweepExpiredNudges(ctx context.Context) (int, error)
	ListNudgesForReceiver(ctx context.Context, receiverUID string) ([]*models.Nudge, error)
	ListNudgesBySender(ctx context.Context, senderUID string) ([]*models.Nudge, error)
	ListConnectionsBySender(ctx context.Context, senderUID string) ([]*models.Connection, error)
	CreateNudgePurchase(ctx context.Context, purchase models.NudgePurchase) (int, error)
	CompleteNudgePurchase(ctx context.Context, paymentID string) error
	ListNudgePurchases(ctx context.Context, userUID string) ([]*models.NudgePurchase, error)
}

// UserProvider отдаёт профили участников.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Notifier уведомляет участника о событии.
type Notifier interface {
	Notify(ctx context.Context, userUID, eventType, message, link string)
}

type NudgeService struct {
	repo     NudgeRepository
	users    UserProvider
	payments paymentprovider.Provider
	notifier Notifier
	log      *slog.Logger
}

func New(repo NudgeRepository, users UserProvider, payments paymentprovider.Provider, notifier Notifier, log *slog.Logger) *NudgeService {
	return &NudgeService{
		repo:     repo,
		users:    users,
		payments: payments,
		notifier: notifier,
		log:      log,
	}
}

// NudgeCard — надж вместе с карточкой контрагента для выдачи.
type NudgeCard struct {
	Nudge *models.Nudge `json:"nudge"`
	Card  *models.Card  `json:"card,omitempty"`
}

// History — история наджей и коннектов инвестора.
type History struct {
	Nudges      []*models.Nudge      `json:"nudges"`
	Connections []*models.Connection `json:"connections"`
}

// Send отправляет надж от стартапа к инвестору, расходуя квоту.
func (s *NudgeService) Send(ctx context.Context, senderUID string, req models.DummyNudge) (*models.Nudge, error) {
	if senderUID == req.ReceiverUID {
		return nil, apperr.Validation("cannot send a nudge to yourself")
	}

	sender, err := s.users.GetUser(ctx, senderUID)
	if err != nil {
		return nil, err
	}
	if sender.UserType != models.UserTypeStartup {
		return nil, apperr.Forbidden("only startups can send nudges")
	}
	receiver, err := s.users.GetUser(ctx, req.ReceiverUID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound("receiver not found")
		}
		return nil, err
	}
	if receiver.UserType != models.UserTypeInvestor {
		return nil, apperr.Validation("nudges can be sent only to investors")
	}

	nudge, err := s.repo.SendNudge(ctx, senderUID, req.ReceiverUID, time.Now().Add(models.InteractionTTL))
	if err != nil {
		return nil, err
	}
	s.log.Info("sent nudge", slog.Int("id", nudge.ID), sl.UID(senderUID))

	s.notifier.Notify(ctx, req.ReceiverUID, models.NotificationNudgeNew,
		fmt.Sprintf("Стартап %s отправил вам надж", sender.Username),
		fmt.Sprintf("/nudges/%d", nudge.ID))
	return nudge, nil
}

// UpdateStatus выполняет переход статуса наджа получателем-инвестором
// в терминальный статус. Принятие каскадно принимает связанный коннект.
func (s *NudgeService) UpdateStatus(ctx context.Context, receiverUID string, id int, req models.DummyStatus) (*models.Nudge, error) {
	if req.Status != models.StatusAccepted && req.Status != models.StatusRejected &&
		req.Status != models.StatusExpired {
		return nil, apperr.Validation("status must be accepted, rejected or expired")
	}

	updated, err := s.repo.UpdateNudgeStatus(ctx, id, receiverUID, req.Status)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated nudge status",
		slog.Int("id", id), slog.String("status", updated.Status))

	message := "Инвестор отклонил ваш надж"
	switch updated.Status {
	case models.StatusAccepted:
		message = "Инвестор принял ваш надж, коннект установлен"
	case models.StatusExpired:
		message = "Ваш надж истёк"
	}
	s.notifier.Notify(ctx, updated.SenderUID, models.NotificationNudgeUpdate,
		message, fmt.Sprintf("/connections/%d", updated.ConnectionID))
	return updated, nil
}

// Received возвращает наджи, адресованные пользователю, с карточками
// отправителей.
func (s *NudgeService) Received(ctx context.Context, userUID string) ([]*NudgeCard, error) {
	s.sweep(ctx)
	entries, err := s.repo.ListNudgesForReceiver(ctx, userUID)
	if err != nil {
		return nil, err
	}

	result := make([]*NudgeCard, 0, len(entries))
	for _, entry := range entries {
		item := &NudgeCard{Nudge: entry}
		sender, err := s.users.GetUser(ctx, entry.SenderUID)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindNotFound {
				s.log.Warn("failed to load nudge sender", sl.UID(entry.SenderUID), sl.Err(err))
			}
		} else {
			item.Card = card.ForCounterpart(sender, nil)
		}
		result = append(result, item)
	}
	return result, nil
}

// InvestorHistory возвращает инвестору отправленные им наджи и коннекты.
// Наджи инвесторы не отправляют, их список остаётся пустым; полученные
// наджи отдаёт Received.
func (s *NudgeService) InvestorHistory(ctx context.Context, userUID string) (*History, error) {
	caller, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if caller.UserType != models.UserTypeInvestor {
		return nil, apperr.Forbidden("history is available only to investors")
	}

	s.sweep(ctx)
	nudges, err := s.repo.ListNudgesBySender(ctx, userUID)
	if err != nil {
		return nil, err
	}
	connections, err := s.repo.ListConnectionsBySender(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return &History{Nudges: nudges, Connections: connections}, nil
}

// Buy покупает пакет наджей через платёжного провайдера. Допустимы
// только фиксированные размеры пакетов. Квота увеличивается после
// подтверждения платежа.
func (s *NudgeService) Buy(ctx context.Context, userUID string, req models.DummyBuyNudges) (*models.NudgePurchase, error) {
	price, ok := models.NudgePriceTiers[req.Quantity]
	if !ok {
		return nil, apperr.Validation("unsupported nudge pack size")
	}
	buyer, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if buyer.UserType != models.UserTypeStartup {
		return nil, apperr.Forbidden("only startups can buy nudges")
	}

	payment, err := s.payments.CreatePayment(paymentprovider.CreatePaymentRequest{
		Amount: paymentprovider.Amount{
			Value:    fmt.Sprintf("%d.00", price),
			Currency: "RUB",
		},
		PaymentToken: req.PaymentToken,
		Description:  fmt.Sprintf("Пакет %d наджей", req.Quantity),
		Metadata: map[string]string{
			"user_uid": userUID,
			"quantity": fmt.Sprintf("%d", req.Quantity),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	purchase := models.NudgePurchase{
		UserUID:       userUID,
		Quantity:      req.Quantity,
		Price:         price,
		Currency:      models.CurrencyVCR,
		PaymentID:     payment.ID,
		PaymentStatus: models.PaymentPending,
	}
	purchase.ID, err = s.repo.CreateNudgePurchase(ctx, purchase)
	if err != nil {
		return nil, err
	}
	s.log.Info("created nudge purchase",
		slog.Int("id", purchase.ID), slog.String("payment_id", payment.ID))

	if payment.Status == "succeeded" {
		if err := s.repo.CompleteNudgePurchase(ctx, payment.ID); err != nil {
			return nil, err
		}
		purchase.PaymentStatus = models.PaymentCompleted
	}
	return &purchase, nil
}

// ConfirmPurchase подтверждает оплату пакета по вебхуку провайдера.
func (s *NudgeService) ConfirmPurchase(ctx context.Context, paymentID string) error {
	return s.repo.CompleteNudgePurchase(ctx, paymentID)
}

// ListPurchases возвращает покупки пользователя.
func (s *NudgeService) ListPurchases(ctx context.Context, userUID string) ([]*models.NudgePurchase, error) {
	return s.repo.ListNudgePurchases(ctx, userUID)
}

func (s *NudgeService) sweep(ctx context.Context) {
	count, err := s.repo.SweepExpiredNudges(ctx)
	if err != nil {
		s.log.Warn("failed to sweep expired nudges", sl.Err(err))
		return
	}
	if count > 0 {
		s.log.Info("swept expired nudges", slog.Int("count", count))
	}
}
