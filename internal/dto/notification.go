// notification.go
package dto

import "time"

type CreateNotificationRequest struct {
	Title     string     `json:"title" binding:"required"`
	Message   string     `json:"message" binding:"required"`
	Type      string     `json:"type" binding:"required,oneof=shipment transfer promo system"`
	UserID    string     `json:"userId"` // vacío = difusión
	AdminOnly bool       `json:"adminOnly"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
