// Package smtp отправляет письма уведомлений через STARTTLS-соединение
// с почтовым сервером. Узкие интерфейсы закрывают net/smtp, чтобы сервис
// отправки можно было тестировать без сети.
package smtp

import "io"

// Client — минимальный срез SMTP-сессии, нужный отправке одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает аутентифицированную SMTP-сессию.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
