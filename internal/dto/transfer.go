// transfer.go
package dto

// CreateTransferForm llega como multipart junto al justificante de pago.
type CreateTransferForm struct {
	SenderName       string `form:"senderName" binding:"required"`
	SenderPhone      string `form:"senderPhone" binding:"required"`
	SenderEmail      string `form:"senderEmail" binding:"required,email"`
	BeneficiaryName  string `form:"beneficiaryName" binding:"required"`
	BeneficiaryPhone string `form:"beneficiaryPhone" binding:"required"`
	Amount           string `form:"amount" binding:"required"`
	Currency         string `form:"currency" binding:"required"`
	Direction        string `form:"direction" binding:"required,oneof=ES_GQ GQ_ES CM_GQ"`
}

type UpdateTransferStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed rejected"`
}
