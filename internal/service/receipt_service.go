package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"bbexpress-api/internal/model"

	"github.com/shopspring/decimal"
)

// ReceiptService genera el recibo DOCX a partir de una única Transaction.
// Un .docx es un zip de partes OOXML; con una página de maquetación fija
// basta con plantillar word/document.xml y empaquetar.
type ReceiptService struct {
	tpl *template.Template
}

func NewReceiptService() *ReceiptService {
	return &ReceiptService{
		tpl: template.Must(template.New("receipt").Parse(receiptDocumentXML)),
	}
}

type receiptData struct {
	Number         string
	Date           string
	Type           string
	SubmitterName  string
	SubmitterPhone string
	SubmitterEmail string
	RecipientName  string
	RecipientPhone string
	Concept        string
	Amount         string
	Total          string
}

// Generate renderiza el recibo completo desde la foto desnormalizada: no se
// vuelve a consultar ninguna otra colección.
func (s *ReceiptService) Generate(tx *model.Transaction) ([]byte, error) {
	amount, err := decimal.NewFromString(tx.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	formatted := amount.StringFixed(2) + " " + tx.Currency

	data := receiptData{
		Number:         strings.ToUpper(tx.ID.Hex()),
		Date:           tx.CreatedAt.Format("02/01/2006"),
		Type:           receiptTypeLabel(tx.Type),
		SubmitterName:  xmlEscape(tx.SubmitterName),
		SubmitterPhone: xmlEscape(tx.SubmitterPhone),
		SubmitterEmail: xmlEscape(tx.SubmitterEmail),
		RecipientName:  xmlEscape(tx.Details["beneficiaryName"]),
		RecipientPhone: xmlEscape(tx.Details["beneficiaryPhone"]),
		Concept:        xmlEscape(receiptConcept(tx)),
		Amount:         xmlEscape(formatted),
		Total:          xmlEscape(formatted),
	}
	if data.RecipientName == "" {
		data.RecipientName = data.SubmitterName
	}

	var docXML bytes.Buffer
	if err := s.tpl.Execute(&docXML, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", receiptContentTypes},
		{"_rels/.rels", receiptRels},
		{"word/document.xml", docXML.String()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func receiptTypeLabel(txType string) string {
	switch txType {
	case model.TxShipment:
		return "Envío de paquetería"
	case model.TxTransfer:
		return "Envío de dinero"
	case model.TxStorePurchase:
		return "Compra en tienda"
	default:
		return txType
	}
}

func receiptConcept(tx *model.Transaction) string {
	switch tx.Type {
	case model.TxShipment:
		return fmt.Sprintf("Envío %s → %s (%s kg)",
			tx.Details["origin"], tx.Details["destination"], tx.Details["weightKg"])
	case model.TxTransfer:
		return fmt.Sprintf("Transferencia %s a %s",
			tx.Details["direction"], tx.Details["beneficiaryName"])
	case model.TxStorePurchase:
		return "Compra: " + tx.Details["product"]
	default:
		return tx.SourceRef
	}
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

const receiptContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const receiptRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// Maquetación fija: cabecera, bloque remitente, bloque destinatario, tabla de
// tres filas (cabecera, concepto con cantidad 1, total) y sello.
const receiptDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="40"/></w:rPr><w:t>BBEXPRESS — RECIBO</w:t></w:r></w:p>
<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>Nº {{.Number}} · {{.Date}} · {{.Type}}</w:t></w:r></w:p>
<w:p><w:r><w:t/></w:r></w:p>
<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>REMITENTE</w:t></w:r></w:p>
<w:p><w:r><w:t>{{.SubmitterName}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Tel: {{.SubmitterPhone}} · {{.SubmitterEmail}}</w:t></w:r></w:p>
<w:p><w:r><w:t/></w:r></w:p>
<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>DESTINATARIO</w:t></w:r></w:p>
<w:p><w:r><w:t>{{.RecipientName}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Tel: {{.RecipientPhone}}</w:t></w:r></w:p>
<w:p><w:r><w:t/></w:r></w:p>
<w:tbl>
<w:tblPr><w:tblBorders><w:top w:val="single"/><w:bottom w:val="single"/><w:left w:val="single"/><w:right w:val="single"/><w:insideH w:val="single"/><w:insideV w:val="single"/></w:tblBorders></w:tblPr>
<w:tr><w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Concepto</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Cantidad</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Importe</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>{{.Concept}}</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>1</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>{{.Amount}}</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>TOTAL</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t/></w:r></w:p></w:tc><w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{{.Total}}</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
<w:p><w:r><w:t/></w:r></w:p>
<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:rPr><w:i/></w:rPr><w:t>Sello BBExpress</w:t></w:r></w:p>
</w:body>
</w:document>`
