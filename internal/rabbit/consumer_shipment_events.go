package rabbit

import (
	"context"
	"encoding/json"

	"bbexpress-api/internal/model"
	"bbexpress-api/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ShipmentEventConsumer convierte los eventos del ciclo de vida en
// notificaciones y correos. Canal de mejor esfuerzo: un fallo al escribir la
// notificación se registra y se descarta, nunca se reintenta.
type ShipmentEventConsumer struct {
	notifications *service.NotificationService
	mail          service.MailService
}

func NewShipmentEventConsumer(notifications *service.NotificationService, mail service.MailService) *ShipmentEventConsumer {
	return &ShipmentEventConsumer{notifications: notifications, mail: mail}
}

func (c *ShipmentEventConsumer) Handle(body []byte) {
	var evt service.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		zap.L().Error("Error parseando evento", zap.Error(err))
		return
	}

	ctx := context.Background()

	var n *model.Notification
	switch evt.Kind {
	case service.EventShipmentCreated:
		n = &model.Notification{
			Title:   "Envío registrado",
			Message: "Tu envío " + evt.TrackingNumber + " se ha registrado y está " + evt.Status + ".",
			Type:    model.NotifShipment,
		}
	case service.EventShipmentStatusChanged:
		n = &model.Notification{
			Title:   "Tu envío " + evt.TrackingNumber,
			Message: "El estado de tu envío ha cambiado a: " + evt.Status + ".",
			Type:    model.NotifShipment,
		}
		if evt.Email != "" {
			if err := c.mail.SendShipmentStatus(evt.Email, evt.TrackingNumber, evt.Status); err != nil {
				zap.L().Warn("No se pudo enviar el correo de estado", zap.Error(err))
			}
		}
	case service.EventTransferCreated:
		// aviso interno: las transferencias nuevas las revisa administración
		n = &model.Notification{
			Title:     "Nueva transferencia",
			Message:   "Hay una transferencia pendiente de revisar.",
			Type:      model.NotifTransfer,
			AdminOnly: true,
		}
	case service.EventTransferStatusChanged:
		// sin usuario registrado no hay a quién notificar en el panel
		if evt.UserID == "" {
			return
		}
		n = &model.Notification{
			Title:   "Tu transferencia",
			Message: "El estado de tu transferencia ha cambiado a: " + evt.Status + ".",
			Type:    model.NotifTransfer,
		}
	default:
		zap.L().Warn("Evento desconocido", zap.String("kind", evt.Kind))
		return
	}

	// destinatario y referencia del envío si vienen en el evento
	if !n.AdminOnly && evt.UserID != "" {
		if uid, err := primitive.ObjectIDFromHex(evt.UserID); err == nil {
			n.UserID = &uid
		}
	}
	if evt.ShipmentID != "" {
		if sid, err := primitive.ObjectIDFromHex(evt.ShipmentID); err == nil {
			n.ShipmentID = &sid
		}
	}

	if err := c.notifications.Create(ctx, n); err != nil {
		zap.L().Warn("No se pudo crear la notificación",
			zap.String("kind", evt.Kind),
			zap.Error(err))
	}
}
