// transfer.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Direcciones de envío de dinero soportadas.
const (
	DirectionESGQ = "ES_GQ" // España → Guinea Ecuatorial
	DirectionGQES = "GQ_ES" // Guinea Ecuatorial → España
	DirectionCMGQ = "CM_GQ" // Camerún → Guinea Ecuatorial
)

const (
	TransferPending   = "pending"
	TransferCompleted = "completed"
	TransferRejected  = "rejected"
)

type Transfer struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	SenderName       string             `bson:"sender_name" json:"senderName"`
	SenderPhone      string             `bson:"sender_phone" json:"senderPhone"`
	SenderEmail      string             `bson:"sender_email" json:"senderEmail"`
	BeneficiaryName  string             `bson:"beneficiary_name" json:"beneficiaryName"`
	BeneficiaryPhone string             `bson:"beneficiary_phone" json:"beneficiaryPhone"`
	// Importe como string decimal exacto; se opera con shopspring/decimal
	Amount    string    `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Direction string    `bson:"direction" json:"direction"`
	Status    string    `bson:"status" json:"status"`
	ProofRef  string    `bson:"proof_ref" json:"proofRef"`
	ProofURL  string    `bson:"proof_url" json:"proofUrl"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
