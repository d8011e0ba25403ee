package models

import "time"

// Статусы оплаты наджа.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// NudgePriceTiers — фиксированные пакеты наджей: количество к цене в VCR.
// Любое другое количество при покупке отклоняется.
var NudgePriceTiers = map[int]int64{
	10: 50,
	25: 100,
	50: 180,
}

// Connection представляет простой двусторонний запрос. Создаётся либо
// напрямую инвестором к стартапу, либо как побочный эффект наджа
// (стартап к инвестору). Пара (sender, receiver) уникальна навсегда:
// после отказа повторный запрос невозможен, в отличие от Interaction.
type Connection struct {
	ID          int       `json:"id"`                 // Идентификатор записи
	SenderUID   string    `json:"sender_uid"`         // Отправитель
	ReceiverUID string    `json:"receiver_uid"`       // Получатель
	Status      string    `json:"status"`             // pending, accepted, rejected
	NudgeID     *int      `json:"nudge_id,omitempty"` // Обратная ссылка на надж, если есть
	CreatedAt   time.Time `json:"created_at"`         // Дата создания
}

// Nudge представляет квотируемый запрос стартапа к инвестору,
// связанный 1:1 со своим Connection. Отправка расходует квоту
// nudge_usage, принятие каскадно принимает коннект.
type Nudge struct {
	ID            int       `json:"id"`             // Идентификатор записи
	SenderUID     string    `json:"sender_uid"`     // Стартап-отправитель
	ReceiverUID   string    `json:"receiver_uid"`   // Инвестор-получатель
	Status        string    `json:"status"`         // pending, accepted, rejected, expired
	Amount        int64     `json:"amount"`         // Сумма, всегда 0
	Currency      string    `json:"currency"`       // Всегда VCR
	PaymentStatus string    `json:"payment_status"` // pending, completed, failed
	ConnectionID  int       `json:"connection_id"`  // Обязательная ссылка на коннект
	CreatedAt     time.Time `json:"created_at"`     // Дата создания
	ExpiresAt     time.Time `json:"expires_at"`     // Дата истечения: created_at + 7 дней
}

// NudgePurchase представляет покупку пакета наджей стартапом.
type NudgePurchase struct {
	ID            int       `json:"id"`             // Идентификатор записи
	UserUID       string    `json:"user_uid"`       // Покупатель
	Quantity      int       `json:"quantity"`       // Размер пакета: 10, 25 или 50
	Price         int64     `json:"price"`          // Цена пакета в VCR
	Currency      string    `json:"currency"`       // Всегда VCR
	PaymentID     string    `json:"payment_id"`     // Идентификатор платежа у провайдера
	PaymentStatus string    `json:"payment_status"` // pending, completed, failed
	CreatedAt     time.Time `json:"created_at"`     // Дата покупки
}

// DummyNudge используется для приёма запроса на надж из JSON-запроса.
type DummyNudge struct {
	ReceiverUID string `json:"receiver_uid" validate:"required,uuid"` // Инвестор-получатель
}

// DummyConnection используется для приёма прямого запроса инвестора
// на коннект со стартапом.
type DummyConnection struct {
	ReceiverUID string `json:"receiver_uid" validate:"required,uuid"` // Стартап-получатель
}

// DummyBuyNudges используется для приёма покупки пакета наджей.
type DummyBuyNudges struct {
	Quantity     int    `json:"quantity" validate:"required,gt=0"` // Размер пакета
	PaymentToken string `json:"payment_token" validate:"required"` // Токен карты от платёжного виджета
}
