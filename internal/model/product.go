// product.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Color       string             `bson:"color" json:"color"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"image_url" json:"imageUrl"`
	ImageRef    string             `bson:"image_ref" json:"-"`
	Tag         string             `bson:"tag" json:"tag"`
	Slogan      string             `bson:"slogan" json:"slogan"`
	OrderLink   string             `bson:"order_link" json:"orderLink"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
