// setup.go
package rabbit

import (
	"bbexpress-api/internal/service"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SetupConsumers suscribe la cola de notificaciones al exchange de eventos.
func SetupConsumers(ch *amqp091.Channel, notifications *service.NotificationService, mail service.MailService) {
	consumer := NewShipmentEventConsumer(notifications, mail)

	// 1. Declarar la queue
	q, err := ch.QueueDeclare(
		"bbexpress_notifications",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		zap.L().Error("Error declarando queue", zap.Error(err))
		return
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"",
		eventsExchange,
		false,
		nil,
	)
	if err != nil {
		zap.L().Error("Error binding exchange", zap.Error(err))
		return
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		zap.L().Error("Error al consumir queue", zap.Error(err))
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	zap.L().Info("Suscrito a exchange de eventos", zap.String("exchange", eventsExchange))
}
