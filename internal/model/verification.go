// verification.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CodeEmailVerification = "email-verification"
	CodePasswordReset     = "password-reset"
)

// VerificationCode caduca solo en Mongo vía índice TTL sobre expires_at.
type VerificationCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	Type      string             `bson:"type" json:"type"`
	Used      bool               `bson:"used" json:"used"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
