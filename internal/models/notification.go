package models

import "time"

// Типы уведомлений, которые порождают жизненные циклы взаимодействий
// и наджей.
const (
	NotificationInteractionNew    = "interaction_new"
	NotificationInteractionUpdate = "interaction_update"
	NotificationNudgeNew          = "nudge_new"
	NotificationNudgeUpdate       = "nudge_update"
	NotificationConnectionNew     = "connection_new"
)

// Notification представляет сохранённое уведомление пользователя.
type Notification struct {
	ID        int       `json:"id"`         // Идентификатор записи
	UserUID   string    `json:"user_uid"`   // Адресат
	Type      string    `json:"type"`       // Тип события
	Message   string    `json:"message"`    // Текст уведомления
	Link      string    `json:"link"`       // Ссылка на связанную сущность
	IsRead    bool      `json:"is_read"`    // Прочитано ли
	CreatedAt time.Time `json:"created_at"` // Дата создания
}

// NotificationEvent — полезная нагрузка события в очереди уведомлений,
// потребляется сервисом рассылки писем.
type NotificationEvent struct {
	Email    string `json:"email"`    // Почта адресата
	Username string `json:"username"` // Имя адресата
	Type     string `json:"type"`     // Тип события
	Message  string `json:"message"`  // Текст уведомления
	Link     string `json:"link"`     // Ссылка на связанную сущность
}
