// siteconfig.go
package model

import "time"

// SiteConfig es un documento único editable desde el panel de administración.
type SiteConfig struct {
	Rates   map[string]float64 `bson:"rates" json:"rates"` // por dirección: ES_GQ, GQ_ES, CM_GQ
	Dates   ConfigDates        `bson:"dates" json:"dates"`
	Content map[string]string  `bson:"content" json:"content"`
	Contact ConfigContact      `bson:"contact" json:"contact"`
	Bank    ConfigBank         `bson:"bank" json:"bank"`

	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type ConfigDates struct {
	NextDeparture string `bson:"next_departure" json:"nextDeparture"`
	NextArrival   string `bson:"next_arrival" json:"nextArrival"`
}

type ConfigContact struct {
	Phone    string `bson:"phone" json:"phone"`
	WhatsApp string `bson:"whatsapp" json:"whatsapp"`
	Email    string `bson:"email" json:"email"`
	Address  string `bson:"address" json:"address"`
}

type ConfigBank struct {
	Holder string `bson:"holder" json:"holder"`
	IBAN   string `bson:"iban" json:"iban"`
	Entity string `bson:"entity" json:"entity"`
}
