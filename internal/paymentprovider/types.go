package paymentprovider

import "time"

// Amount представляет денежную сумму.
type Amount struct {
	Value    string `json:"value"`    // сумма, например "100.00"
	Currency string `json:"currency"` // валюта, например "RUB"
}

// CreatePaymentRequest представляет запрос на оплату пакета наджей.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	PaymentToken string            `json:"payment_token"`      // токен карты (payment_method_token)
	Description  string            `json:"description"`        // например "Пакет 25 наджей"
	Metadata     map[string]string `json:"metadata,omitempty"` // дополнительная инфа: user_uid, quantity
}

// CreatePaymentResponse представляет ответ на создание платежа.
type CreatePaymentResponse struct {
	ID        string    `json:"id"`     // ID платежа у провайдера
	Status    string    `json:"status"` // статус платежа, например "succeeded"
	Amount    Amount    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
