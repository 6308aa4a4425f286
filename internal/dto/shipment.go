// shipment.go
package dto

type CreateShipmentRequest struct {
	Origin      string  `json:"origin" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	Description string  `json:"description"`
	WeightKg    float64 `json:"weightKg" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Currency    string  `json:"currency"`
}

type CreateShipmentsBulkRequest struct {
	Shipments []CreateShipmentRequest `json:"shipments" binding:"required,min=1,dive"`
}

type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BulkMarkArrivedRequest struct {
	TrackingNumbers []string `json:"trackingNumbers" binding:"required,min=1"`
}
