package models

import "time"

// Статусы жизненного цикла взаимодействия. Переход из pending возможен
// ровно один раз, все остальные статусы терминальные.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// Поддерживаемые валюты. VCR — внутренняя валюта платформы,
// используется только в исходящих запросах стартапов.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyVCR = "VCR"
)

// InteractionTTL — срок жизни запроса: по его истечении pending-запись
// переводится в expired ленивой чисткой на путях чтения.
const InteractionTTL = 7 * 24 * time.Hour

// Interaction представляет симметричный запрос на взаимодействие между
// инвестором и стартапом. Amount имеет смысл только когда отправитель —
// стартап, иначе принудительно 0 USD.
type Interaction struct {
	ID          int       `json:"id"`           // Идентификатор записи
	SenderUID   string    `json:"sender_uid"`   // Отправитель
	ReceiverUID string    `json:"receiver_uid"` // Получатель
	Status      string    `json:"status"`       // pending, accepted, rejected, expired
	Amount      int64     `json:"amount"`       // Сумма, только для исходящих от стартапа
	Currency    string    `json:"currency"`     // USD, EUR, GBP, VCR
	Message     string    `json:"message"`      // Сопроводительное сообщение, до 500 символов
	CreatedAt   time.Time `json:"created_at"`   // Дата создания
	ExpiresAt   time.Time `json:"expires_at"`   // Дата истечения: created_at + 7 дней
}

// DummyInteraction используется для приёма запроса на взаимодействие
// из JSON-запроса.
type DummyInteraction struct {
	ReceiverUID string `json:"receiver_uid" validate:"required,uuid"` // Получатель
	Amount      int64  `json:"amount" validate:"omitempty,gte=0"`     // Сумма предложения
	Message     string `json:"message" validate:"omitempty,max=500"`  // Сообщение
}

// DummyStatus используется для приёма нового статуса из JSON-запроса.
// Допустимость перехода проверяет бизнес-логика.
type DummyStatus struct {
	Status string `json:"status" validate:"required"` // Новый статус записи
}
