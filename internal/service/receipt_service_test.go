package service

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"bbexpress-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func receiptDocumentFrom(t *testing.T, docx []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	require.True(t, names["word/document.xml"])

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	return ""
}

func TestGenerateTransferReceipt(t *testing.T) {
	tx := &model.Transaction{
		ID:             primitive.NewObjectID(),
		Type:           model.TxTransfer,
		SourceRef:      "a1b2c3d4",
		Amount:         "100.5",
		Currency:       "EUR",
		SubmitterName:  "Ana & Luis",
		SubmitterPhone: "+34600111222",
		SubmitterEmail: "ana@example.com",
		Details: map[string]string{
			"direction":        "ES_GQ",
			"beneficiaryName":  "María <Malabo>",
			"beneficiaryPhone": "+240555999888",
		},
		CreatedAt: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}

	svc := NewReceiptService()
	docx, err := svc.Generate(tx)
	require.NoError(t, err)

	doc := receiptDocumentFrom(t, docx)

	assert.Contains(t, doc, strings.ToUpper(tx.ID.Hex()))
	assert.Contains(t, doc, "15/03/2026")
	assert.Contains(t, doc, "Envío de dinero")
	assert.Contains(t, doc, "100.50 EUR")
	assert.Contains(t, doc, "+240555999888")

	// los datos del cliente van escapados, nunca XML crudo
	assert.Contains(t, doc, "Ana &amp; Luis")
	assert.Contains(t, doc, "María &lt;Malabo&gt;")
	assert.NotContains(t, doc, "María <Malabo>")
}

func TestGenerateShipmentReceipt(t *testing.T) {
	tx := &model.Transaction{
		ID:             primitive.NewObjectID(),
		Type:           model.TxShipment,
		SourceRef:      "BB12345678ABCD",
		Amount:         "45.00",
		Currency:       "EUR",
		SubmitterName:  "Obiang Nguema",
		SubmitterPhone: "+240555123456",
		SubmitterEmail: "obiang@example.com",
		Details: map[string]string{
			"origin":      "Madrid",
			"destination": "Malabo",
			"weightKg":    "12.50",
		},
		CreatedAt: time.Now(),
	}

	svc := NewReceiptService()
	docx, err := svc.Generate(tx)
	require.NoError(t, err)

	doc := receiptDocumentFrom(t, docx)

	assert.Contains(t, doc, "Envío de paquetería")
	assert.Contains(t, doc, "Madrid")
	assert.Contains(t, doc, "Malabo")
	// sin beneficiario, el destinatario cae en el remitente
	assert.Contains(t, doc, "Obiang Nguema")
}

func TestGenerateReceiptBadAmount(t *testing.T) {
	tx := &model.Transaction{
		ID:        primitive.NewObjectID(),
		Type:      model.TxStorePurchase,
		Amount:    "no-numérico",
		Currency:  "EUR",
		Details:   map[string]string{"product": "Camiseta BBExpress"},
		CreatedAt: time.Now(),
	}

	svc := NewReceiptService()
	docx, err := svc.Generate(tx)
	require.NoError(t, err)

	// un importe ilegible no tumba el recibo, se imprime a cero
	doc := receiptDocumentFrom(t, docx)
	assert.Contains(t, doc, "0.00 EUR")
	assert.Contains(t, doc, "Compra: Camiseta BBExpress")
}
