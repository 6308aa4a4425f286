// transaction.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de asiento del libro unificado.
const (
	TxShipment      = "SHIPMENT"
	TxTransfer      = "TRANSFER"
	TxStorePurchase = "STORE_PURCHASE"
)

// Transaction es una fila desnormalizada: guarda una foto del remitente y los
// detalles necesarios para generar el recibo sin volver a cruzar colecciones.
type Transaction struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type           string             `bson:"type" json:"type"`
	SourceRef      string             `bson:"source_ref" json:"sourceRef"`
	Amount         string             `bson:"amount" json:"amount"`
	Currency       string             `bson:"currency" json:"currency"`
	SubmitterName  string             `bson:"submitter_name" json:"submitterName"`
	SubmitterPhone string             `bson:"submitter_phone" json:"submitterPhone"`
	SubmitterEmail string             `bson:"submitter_email" json:"submitterEmail"`
	Details        map[string]string  `bson:"details" json:"details"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}
