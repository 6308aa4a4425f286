// shipment.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados del envío. El orden es convención de negocio, no se fuerza en código.
const (
	StatusPendiente  = "Pendiente"
	StatusRecogido   = "Recogido"
	StatusEnTransito = "En Tránsito"
	StatusEnAduanas  = "En Aduanas"
	StatusLlegado    = "Llegado a destino"
	StatusEntregado  = "Entregado"
)

type Shipment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	TrackingNumber string             `bson:"tracking_number" json:"trackingNumber"`
	Origin         string             `bson:"origin" json:"origin"`
	Destination    string             `bson:"destination" json:"destination"`
	Description    string             `bson:"description" json:"description"`
	WeightKg       float64            `bson:"weight_kg" json:"weightKg"`
	Price          float64            `bson:"price" json:"price"`
	Currency       string             `bson:"currency" json:"currency"`
	Status         string             `bson:"status" json:"status"`
	History        []TrackingRecord   `bson:"history" json:"history"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

type TrackingRecord struct {
	Status    string    `bson:"status" json:"status"`
	Location  string    `bson:"location" json:"location"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
