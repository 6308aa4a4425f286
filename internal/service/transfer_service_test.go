package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/model"
	"bbexpress-api/internal/repository"
	"bbexpress-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTransferRepo struct {
	transfers []*model.Transfer
}

func (r *fakeTransferRepo) Insert(ctx context.Context, t *model.Transfer) error {
	t.ID = primitive.NewObjectID()
	r.transfers = append(r.transfers, t)
	return nil
}

func (r *fakeTransferRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Transfer, error) {
	for _, t := range r.transfers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTransferRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.Transfer, error) {
	var out []*model.Transfer
	for _, t := range r.transfers {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) FindAll(ctx context.Context) ([]*model.Transfer, error) {
	return r.transfers, nil
}

func (r *fakeTransferRepo) FindByStatus(ctx context.Context, status string) ([]*model.Transfer, error) {
	var out []*model.Transfer
	for _, t := range r.transfers {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	for _, t := range r.transfers {
		if t.ID == id {
			t.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeFileStore registra subidas y borrados sin proveedor real.
type fakeFileStore struct {
	uploads []string
	deleted []string
}

func (f *fakeFileStore) Upload(filename, contentType string, data io.Reader) (*storage.UploadResult, error) {
	f.uploads = append(f.uploads, filename)
	return &storage.UploadResult{PublicID: "pub-" + filename, URL: "/uploads/pub-" + filename}, nil
}

func (f *fakeFileStore) Delete(publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func validTransferForm() dto.CreateTransferForm {
	return dto.CreateTransferForm{
		SenderName:       "Obiang Nguema",
		SenderPhone:      "+240555123456",
		SenderEmail:      "obiang@example.com",
		BeneficiaryName:  "María Ondó",
		BeneficiaryPhone: "+240555999888",
		Amount:           "100.5",
		Currency:         "EUR",
		Direction:        model.DirectionESGQ,
	}
}

func newTestTransferService(t *testing.T) (*TransferService, *fakeTransferRepo, *fakeTxRepo, *fakeFileStore, *stubPublisher) {
	t.Helper()
	repo := &fakeTransferRepo{}
	txRepo := &fakeTxRepo{}
	files := &fakeFileStore{}
	pub := &stubPublisher{}
	svc := NewTransferService(repo, txRepo, files, pub, t.TempDir())
	return svc, repo, txRepo, files, pub
}

func TestCreateTransfer(t *testing.T) {
	svc, repo, txRepo, files, pub := newTestTransferService(t)
	userID := primitive.NewObjectID()
	proof := []byte("%PDF-1.4 justificante")

	transfer, err := svc.Create(context.Background(), &userID, validTransferForm(),
		"justificante.pdf", "application/pdf", int64(len(proof)), bytes.NewReader(proof))
	require.NoError(t, err)

	assert.Equal(t, model.TransferPending, transfer.Status)
	assert.Equal(t, "100.50", transfer.Amount) // normalizado a dos decimales
	assert.Equal(t, userID, transfer.UserID)
	assert.Equal(t, "pub-justificante.pdf", transfer.ProofRef)
	assert.NotEmpty(t, transfer.ProofURL)
	require.Len(t, repo.transfers, 1)
	assert.Equal(t, []string{"justificante.pdf"}, files.uploads)

	// el alta deja un asiento TRANSFER en el libro con la foto del remitente
	require.Len(t, txRepo.txs, 1)
	tx := txRepo.txs[0]
	assert.Equal(t, model.TxTransfer, tx.Type)
	assert.Equal(t, transfer.ID.Hex(), tx.SourceRef)
	assert.Equal(t, "100.50", tx.Amount)
	assert.Equal(t, "Obiang Nguema", tx.SubmitterName)
	assert.Equal(t, "María Ondó", tx.Details["beneficiaryName"])
	assert.Equal(t, model.DirectionESGQ, tx.Details["direction"])

	// y emite el evento de creación con el usuario registrado
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventTransferCreated, pub.events[0].Kind)
	assert.Equal(t, userID.Hex(), pub.events[0].UserID)
}

func TestCreateTransferWritesLocalCopy(t *testing.T) {
	repo := &fakeTransferRepo{}
	dir := t.TempDir()
	svc := NewTransferService(repo, &fakeTxRepo{}, &fakeFileStore{}, nil, dir)
	proof := []byte("imagen")

	_, err := svc.Create(context.Background(), nil, validTransferForm(),
		"justificante.png", "image/png", int64(len(proof)), bytes.NewReader(proof))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), ".png")
}

func TestCreateTransferInvalidAmount(t *testing.T) {
	for _, amount := range []string{"0", "-5", "abc", ""} {
		svc, repo, txRepo, _, _ := newTestTransferService(t)
		form := validTransferForm()
		form.Amount = amount

		_, err := svc.Create(context.Background(), nil, form,
			"justificante.pdf", "application/pdf", 10, bytes.NewReader([]byte("prueba1234")))
		assert.ErrorIs(t, err, ErrInvalidAmount, "importe: %q", amount)
		assert.Empty(t, repo.transfers)
		assert.Empty(t, txRepo.txs)
	}
}

func TestCreateTransferRejectsBadProof(t *testing.T) {
	svc, repo, _, files, _ := newTestTransferService(t)

	// tamaño declarado por encima del límite
	_, err := svc.Create(context.Background(), nil, validTransferForm(),
		"grande.pdf", "application/pdf", storage.MaxUploadSize+1, bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, storage.ErrFileTooLarge)

	// tipo no admitido
	_, err = svc.Create(context.Background(), nil, validTransferForm(),
		"script.exe", "application/octet-stream", 10, bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	// tamaño declarado pequeño pero contenido real por encima del límite
	big := bytes.Repeat([]byte("a"), storage.MaxUploadSize+1)
	_, err = svc.Create(context.Background(), nil, validTransferForm(),
		"mentiroso.pdf", "application/pdf", 10, bytes.NewReader(big))
	assert.ErrorIs(t, err, storage.ErrFileTooLarge)

	assert.Empty(t, repo.transfers)
	assert.Empty(t, files.uploads)
}

func TestUpdateTransferStatus(t *testing.T) {
	svc, _, _, _, pub := newTestTransferService(t)
	userID := primitive.NewObjectID()

	transfer, err := svc.Create(context.Background(), &userID, validTransferForm(),
		"justificante.pdf", "application/pdf", 10, bytes.NewReader([]byte("prueba1234")))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), transfer.ID, model.TransferCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.TransferCompleted, updated.Status)

	// creación + cambio de estado
	require.Len(t, pub.events, 2)
	evt := pub.events[1]
	assert.Equal(t, EventTransferStatusChanged, evt.Kind)
	assert.Equal(t, userID.Hex(), evt.UserID)
	assert.Equal(t, model.TransferCompleted, evt.Status)
}

func TestUpdateTransferStatusRejectsUnknown(t *testing.T) {
	svc, _, _, _, _ := newTestTransferService(t)

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "archivada")
	assert.ErrorIs(t, err, ErrInvalidTransferStatus)
}

func TestListTransfersScopesByRole(t *testing.T) {
	svc, _, _, _, _ := newTestTransferService(t)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	for _, id := range []primitive.ObjectID{alice, bob} {
		uid := id
		_, err := svc.Create(context.Background(), &uid, validTransferForm(),
			"justificante.pdf", "application/pdf", 10, bytes.NewReader([]byte("prueba1234")))
		require.NoError(t, err)
	}

	mine, err := svc.List(context.Background(), alice, false, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), alice, true, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.List(context.Background(), alice, true, model.TransferPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
