// notification.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotifShipment = "shipment"
	NotifTransfer = "transfer"
	NotifPromo    = "promo"
	NotifSystem   = "system"
)

// Notification puede ser personal (UserID), difusión (UserID nil y AdminOnly
// false) o solo para administradores (AdminOnly true). El estado de lectura se
// lleva por usuario en ReadBy.
type Notification struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title      string               `bson:"title" json:"title"`
	Message    string               `bson:"message" json:"message"`
	Type       string               `bson:"type" json:"type"`
	UserID     *primitive.ObjectID  `bson:"user_id,omitempty" json:"userId,omitempty"`
	ShipmentID *primitive.ObjectID  `bson:"shipment_id,omitempty" json:"shipmentId,omitempty"`
	ReadBy     []primitive.ObjectID `bson:"read_by" json:"readBy"`
	AdminOnly  bool                 `bson:"admin_only" json:"adminOnly"`
	ExpiresAt  *time.Time           `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
}
