package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/metrics"
	"bbexpress-api/internal/model"
	"bbexpress-api/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TransferRepository interface {
	Insert(ctx context.Context, t *model.Transfer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Transfer, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.Transfer, error)
	FindAll(ctx context.Context) ([]*model.Transfer, error)
	FindByStatus(ctx context.Context, status string) ([]*model.Transfer, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// FileStore abstrae el proveedor de almacenamiento alojado.
type FileStore interface {
	Upload(filename, contentType string, data io.Reader) (*storage.UploadResult, error)
	Delete(publicID string) error
}

var (
	ErrInvalidAmount         = errors.New("importe no válido")
	ErrInvalidTransferStatus = errors.New("estado de transferencia no válido")
)

var validTransferStatuses = map[string]bool{
	model.TransferPending:   true,
	model.TransferCompleted: true,
	model.TransferRejected:  true,
}

type TransferService struct {
	repo      TransferRepository
	txRepo    TransactionRepository
	files     FileStore
	publisher EventPublisher
	uploadDir string
}

func NewTransferService(repo TransferRepository, txRepo TransactionRepository, files FileStore, publisher EventPublisher, uploadDir string) *TransferService {
	return &TransferService{repo: repo, txRepo: txRepo, files: files, publisher: publisher, uploadDir: uploadDir}
}

// Create registra la transferencia a partir del formulario y el justificante.
// El fichero se escribe primero en disco local y después se sube al proveedor;
// no hay limpieza en caso de fallo parcial.
func (s *TransferService) Create(ctx context.Context, userID *primitive.ObjectID, form dto.CreateTransferForm, filename, contentType string, size int64, file io.Reader) (*model.Transfer, error) {
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	if err := storage.ValidateFile(size, contentType); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > storage.MaxUploadSize {
		return nil, storage.ErrFileTooLarge
	}

	proofRef := uuid.NewString()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	localPath := filepath.Join(s.uploadDir, proofRef+filepath.Ext(filename))
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return nil, err
	}

	uploaded, err := s.files.Upload(filename, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	transfer := &model.Transfer{
		SenderName:       form.SenderName,
		SenderPhone:      form.SenderPhone,
		SenderEmail:      form.SenderEmail,
		BeneficiaryName:  form.BeneficiaryName,
		BeneficiaryPhone: form.BeneficiaryPhone,
		Amount:           amount.StringFixed(2),
		Currency:         form.Currency,
		Direction:        form.Direction,
		Status:           model.TransferPending,
		ProofRef:         uploaded.PublicID,
		ProofURL:         uploaded.URL,
	}
	if userID != nil {
		transfer.UserID = *userID
	}

	if err := s.repo.Insert(ctx, transfer); err != nil {
		return nil, err
	}

	tx := &model.Transaction{
		Type:           model.TxTransfer,
		SourceRef:      transfer.ID.Hex(),
		Amount:         transfer.Amount,
		Currency:       transfer.Currency,
		SubmitterName:  transfer.SenderName,
		SubmitterPhone: transfer.SenderPhone,
		SubmitterEmail: transfer.SenderEmail,
		Details: map[string]string{
			"beneficiaryName":  transfer.BeneficiaryName,
			"beneficiaryPhone": transfer.BeneficiaryPhone,
			"direction":        transfer.Direction,
			"proofRef":         transfer.ProofRef,
		},
	}
	if err := s.txRepo.Insert(ctx, tx); err != nil {
		return nil, err
	}

	metrics.TransfersCreated.Inc()
	s.publish(ctx, Event{
		Kind:       EventTransferCreated,
		UserID:     userIDHex(userID),
		Email:      transfer.SenderEmail,
		TransferID: transfer.ID.Hex(),
		Status:     transfer.Status,
	})

	return transfer, nil
}

func (s *TransferService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Transfer, error) {
	if !validTransferStatuses[status] {
		return nil, ErrInvalidTransferStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	transfer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{
		Kind:       EventTransferStatusChanged,
		UserID:     userIDHex(&transfer.UserID),
		Email:      transfer.SenderEmail,
		TransferID: transfer.ID.Hex(),
		Status:     status,
	})

	return transfer, nil
}

func (s *TransferService) List(ctx context.Context, userID primitive.ObjectID, isAdmin bool, status string) ([]*model.Transfer, error) {
	if !isAdmin {
		return s.repo.FindByUserID(ctx, userID)
	}
	if status != "" {
		return s.repo.FindByStatus(ctx, status)
	}
	return s.repo.FindAll(ctx)
}

func (s *TransferService) publish(ctx context.Context, evt Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		zap.L().Warn("No se pudo publicar el evento de transferencia",
			zap.String("kind", evt.Kind),
			zap.String("transfer_id", evt.TransferID),
			zap.Error(err))
	}
}

func userIDHex(id *primitive.ObjectID) string {
	if id == nil || id.IsZero() {
		return ""
	}
	return id.Hex()
}
