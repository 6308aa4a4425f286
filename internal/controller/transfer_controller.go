package controller

import (
	"net/http"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransferController struct {
	Service *service.TransferService
}

func NewTransferController(s *service.TransferService) *TransferController {
	return &TransferController{Service: s}
}

// POST /transfers — multipart con justificante; requiere token
func (ctl *TransferController) Create(c *gin.Context) {
	var form dto.CreateTransferForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falta el justificante de pago"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	var userID *primitive.ObjectID
	if id, err := primitive.ObjectIDFromHex(c.GetString("userID")); err == nil {
		userID = &id
	}

	transfer, err := ctl.Service.Create(
		c.Request.Context(),
		userID,
		form,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

// GET /transfers — propias para usuario, todas para admin (?status= opcional)
func (ctl *TransferController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	transfers, err := ctl.Service.List(c.Request.Context(), userID, isAdmin(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// PATCH /admin/transfers/:id/status — admin only
func (ctl *TransferController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTransferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transfer, err := ctl.Service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}
