package service

import "context"

// Eventos internos del ciclo de vida. Se publican a un exchange fanout y los
// consume este mismo servicio para generar notificaciones y correos.
const (
	EventShipmentCreated       = "shipment.created"
	EventShipmentStatusChanged = "shipment.status_changed"
	EventTransferCreated       = "transfer.created"
	EventTransferStatusChanged = "transfer.status_changed"
)

type Event struct {
	Kind           string `json:"kind"`
	UserID         string `json:"userId,omitempty"`
	Email          string `json:"email,omitempty"`
	ShipmentID     string `json:"shipmentId,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TransferID     string `json:"transferId,omitempty"`
	Status         string `json:"status,omitempty"`
}

// EventPublisher lo implementa el publisher de Rabbit. La publicación es de
// mejor esfuerzo: quien llama registra el error y sigue.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
