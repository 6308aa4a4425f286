package service

import (
	"context"
	"encoding/csv"
	"io"
	"sort"

	"bbexpress-api/internal/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionRepository interface {
	Insert(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Transaction, error)
	FindAll(ctx context.Context, txType string) ([]*model.Transaction, error)
}

type TransactionService struct {
	repo TransactionRepository
}

func NewTransactionService(repo TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

func (s *TransactionService) Get(ctx context.Context, id primitive.ObjectID) (*model.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, txType string) ([]*model.Transaction, error) {
	return s.repo.FindAll(ctx, txType)
}

// ExportCSV vuelca el libro en CSV con punto y coma para contabilidad.
// Cierra con una fila de total por moneda, sumada con decimales exactos.
func (s *TransactionService) ExportCSV(ctx context.Context, w io.Writer, txType string) error {
	txs, err := s.repo.FindAll(ctx, txType)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"Fecha", "Tipo", "Referencia", "Nombre", "Teléfono", "Email", "Importe", "Moneda"}
	if err := cw.Write(header); err != nil {
		return err
	}

	totals := map[string]decimal.Decimal{}
	for _, tx := range txs {
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			amount = decimal.Zero
		}
		totals[tx.Currency] = totals[tx.Currency].Add(amount)

		row := []string{
			tx.CreatedAt.Format("2006-01-02 15:04"),
			tx.Type,
			tx.SourceRef,
			tx.SubmitterName,
			tx.SubmitterPhone,
			tx.SubmitterEmail,
			amount.StringFixed(2),
			tx.Currency,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	currencies := make([]string, 0, len(totals))
	for cur := range totals {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	for _, cur := range currencies {
		row := []string{"", "TOTAL", "", "", "", "", totals[cur].StringFixed(2), cur}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
