// publisher.go
package rabbit

import (
	"context"
	"encoding/json"

	"bbexpress-api/internal/service"

	"github.com/rabbitmq/amqp091-go"
)

const eventsExchange = "shipment_events"

// Publisher publica los eventos del ciclo de vida al exchange fanout. Quien
// llama decide qué hacer con el error (los servicios lo registran y siguen).
type Publisher struct {
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		eventsExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, evt service.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		eventsExchange,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
