package rabbitmq

// QueueConfig связывает очередь с ключом маршрутизации в exchange
// уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди почтовой рассылки.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.events", RoutingKey: "events"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
