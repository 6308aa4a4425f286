package controller

import (
	"bytes"
	"net/http"

	"bbexpress-api/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionController struct {
	Service  *service.TransactionService
	Receipts *service.ReceiptService
}

func NewTransactionController(s *service.TransactionService, r *service.ReceiptService) *TransactionController {
	return &TransactionController{Service: s, Receipts: r}
}

// GET /admin/transactions — admin only (?type= opcional)
func (ctl *TransactionController) List(c *gin.Context) {
	txs, err := ctl.Service.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GET /admin/transactions/export — CSV con punto y coma para contabilidad
func (ctl *TransactionController) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctl.Service.ExportCSV(c.Request.Context(), &buf, c.Query("type")); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transacciones.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GET /transactions/:id/receipt — recibo DOCX generado desde el asiento
func (ctl *TransactionController) Receipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tx, err := ctl.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := ctl.Receipts.Generate(tx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recibo-`+tx.ID.Hex()+`.docx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		doc)
}
