package service

import (
	"context"
	"regexp"
	"testing"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/model"
	"bbexpress-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeShipmentRepo guarda los envíos en memoria, indexados por tracking y por id.
type fakeShipmentRepo struct {
	byTracking map[string]*model.Shipment
	byID       map[primitive.ObjectID]*model.Shipment
	existsAll  bool // fuerza colisión de tracking en todas las comprobaciones
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{
		byTracking: map[string]*model.Shipment{},
		byID:       map[primitive.ObjectID]*model.Shipment{},
	}
}

func (r *fakeShipmentRepo) Insert(ctx context.Context, s *model.Shipment) error {
	if _, ok := r.byTracking[s.TrackingNumber]; ok {
		return repository.ErrDuplicate
	}
	s.ID = primitive.NewObjectID()
	r.byTracking[s.TrackingNumber] = s
	r.byID[s.ID] = s
	return nil
}

func (r *fakeShipmentRepo) ExistsByTrackingNumber(ctx context.Context, tracking string) (bool, error) {
	if r.existsAll {
		return true, nil
	}
	_, ok := r.byTracking[tracking]
	return ok, nil
}

func (r *fakeShipmentRepo) FindByTrackingNumber(ctx context.Context, tracking string) (*model.Shipment, error) {
	s, ok := r.byTracking[tracking]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeShipmentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Shipment, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeShipmentRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.Shipment, error) {
	var out []*model.Shipment
	for _, s := range r.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShipmentRepo) FindAll(ctx context.Context) ([]*model.Shipment, error) {
	var out []*model.Shipment
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeShipmentRepo) FindByStatus(ctx context.Context, status string) ([]*model.Shipment, error) {
	var out []*model.Shipment
	for _, s := range r.byID {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShipmentRepo) AppendStatus(ctx context.Context, id primitive.ObjectID, status string, record model.TrackingRecord) error {
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	s.History = append(s.History, record)
	return nil
}

func (r *fakeShipmentRepo) AppendStatusByTracking(ctx context.Context, tracking, status string, record model.TrackingRecord) error {
	s, ok := r.byTracking[tracking]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	s.History = append(s.History, record)
	return nil
}

// fakeTxRepo acumula los asientos del libro en orden de inserción.
type fakeTxRepo struct {
	txs []*model.Transaction
}

func (r *fakeTxRepo) Insert(ctx context.Context, t *model.Transaction) error {
	t.ID = primitive.NewObjectID()
	r.txs = append(r.txs, t)
	return nil
}

func (r *fakeTxRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Transaction, error) {
	for _, t := range r.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTxRepo) FindAll(ctx context.Context, txType string) ([]*model.Transaction, error) {
	if txType == "" {
		return r.txs, nil
	}
	var out []*model.Transaction
	for _, t := range r.txs {
		if t.Type == txType {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubPublisher struct {
	events []Event
}

func (p *stubPublisher) Publish(ctx context.Context, evt Event) error {
	p.events = append(p.events, evt)
	return nil
}

func testOwner() *model.User {
	return &model.User{
		ID:    primitive.NewObjectID(),
		Name:  "Obiang Nguema",
		Email: "obiang@example.com",
		Phone: "+240555123456",
		Role:  model.RoleUser,
	}
}

var trackingPattern = regexp.MustCompile(`^BB\d{8}[A-Z0-9]{4}$`)

func TestGenerateTrackingNumberFormat(t *testing.T) {
	svc := NewShipmentService(newFakeShipmentRepo(), newFakeUserRepo(), &fakeTxRepo{}, nil)

	tracking, err := svc.GenerateTrackingNumber(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, trackingPattern, tracking)
}

func TestGenerateTrackingNumberExhausted(t *testing.T) {
	repo := newFakeShipmentRepo()
	repo.existsAll = true
	svc := NewShipmentService(repo, newFakeUserRepo(), &fakeTxRepo{}, nil)

	_, err := svc.GenerateTrackingNumber(context.Background())
	assert.ErrorIs(t, err, ErrTrackingExhausted)
}

func TestCreateShipment(t *testing.T) {
	repo := newFakeShipmentRepo()
	txRepo := &fakeTxRepo{}
	pub := &stubPublisher{}
	svc := NewShipmentService(repo, newFakeUserRepo(), txRepo, pub)
	owner := testOwner()

	shipment, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin:      "Madrid",
		Destination: "Malabo",
		Description: "Caja de ropa",
		WeightKg:    12.5,
		Price:       45,
	})
	require.NoError(t, err)

	assert.Regexp(t, trackingPattern, shipment.TrackingNumber)
	assert.Equal(t, model.StatusPendiente, shipment.Status)
	assert.Equal(t, "EUR", shipment.Currency) // moneda por defecto

	// el historial nace con un único registro Pendiente
	require.Len(t, shipment.History, 1)
	assert.Equal(t, model.StatusPendiente, shipment.History[0].Status)
	assert.Equal(t, statusLocations[model.StatusPendiente], shipment.History[0].Location)

	// el alta deja un asiento en el libro con la foto del remitente
	require.Len(t, txRepo.txs, 1)
	tx := txRepo.txs[0]
	assert.Equal(t, model.TxShipment, tx.Type)
	assert.Equal(t, shipment.TrackingNumber, tx.SourceRef)
	assert.Equal(t, "45.00", tx.Amount)
	assert.Equal(t, owner.Name, tx.SubmitterName)
	assert.Equal(t, "Malabo", tx.Details["destination"])

	// y emite el evento de creación
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventShipmentCreated, pub.events[0].Kind)
	assert.Equal(t, owner.Email, pub.events[0].Email)
}

func TestCreateBulkShipments(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewShipmentService(repo, newFakeUserRepo(), &fakeTxRepo{}, nil)
	owner := testOwner()

	reqs := []dto.CreateShipmentRequest{
		{Origin: "Madrid", Destination: "Malabo", WeightKg: 1, Price: 10},
		{Origin: "Madrid", Destination: "Bata", WeightKg: 2, Price: 20},
		{Origin: "Barcelona", Destination: "Malabo", WeightKg: 3, Price: 30},
	}

	shipments, err := svc.CreateBulk(context.Background(), owner, reqs)
	require.NoError(t, err)
	require.Len(t, shipments, 3)

	seen := map[string]bool{}
	for _, s := range shipments {
		assert.False(t, seen[s.TrackingNumber], "tracking repetido: %s", s.TrackingNumber)
		seen[s.TrackingNumber] = true
	}
}

func TestUpdateStatusAppendsOneRecord(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewShipmentService(repo, newFakeUserRepo(), &fakeTxRepo{}, nil)
	owner := testOwner()

	shipment, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Malabo", WeightKg: 1, Price: 10,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), shipment.ID, model.StatusEnAduanas)
	require.NoError(t, err)

	assert.Equal(t, model.StatusEnAduanas, updated.Status)
	require.Len(t, updated.History, 2)
	last := updated.History[len(updated.History)-1]
	assert.Equal(t, model.StatusEnAduanas, last.Status)
	assert.Equal(t, "Aduana de Malabo", last.Location)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewShipmentService(newFakeShipmentRepo(), newFakeUserRepo(), &fakeTxRepo{}, nil)

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "Perdido")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusLocationsCoverAllStatuses(t *testing.T) {
	for status := range validStatuses {
		assert.NotEmpty(t, statusLocations[status], "estado sin ubicación: %s", status)
	}
}

func TestBulkMarkArrived(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewShipmentService(repo, newFakeUserRepo(), &fakeTxRepo{}, nil)
	owner := testOwner()

	s1, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Malabo", WeightKg: 1, Price: 10,
	})
	require.NoError(t, err)
	s2, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Bata", WeightKg: 2, Price: 20,
	})
	require.NoError(t, err)

	updated, missing, err := svc.BulkMarkArrived(context.Background(), []string{
		s1.TrackingNumber,
		"BB00000000XXXX", // no existe, no corta el lote
		s2.TrackingNumber,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated)
	assert.Equal(t, []string{"BB00000000XXXX"}, missing)

	got, err := repo.FindByTrackingNumber(context.Background(), s1.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLlegado, got.Status)
	assert.Len(t, got.History, 2)
}

func TestUpdateStatusEventCarriesOwnerEmail(t *testing.T) {
	repo := newFakeShipmentRepo()
	users := newFakeUserRepo()
	pub := &stubPublisher{}
	svc := NewShipmentService(repo, users, &fakeTxRepo{}, pub)

	owner := testOwner()
	require.NoError(t, users.Insert(context.Background(), owner))

	shipment, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Malabo", WeightKg: 1, Price: 10,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), shipment.ID, model.StatusEnTransito)
	require.NoError(t, err)

	// el evento de cambio de estado lleva el correo del propietario, que es lo
	// que dispara el aviso por email en el consumidor
	require.Len(t, pub.events, 2)
	evt := pub.events[1]
	assert.Equal(t, EventShipmentStatusChanged, evt.Kind)
	assert.Equal(t, owner.Email, evt.Email)
	assert.Equal(t, shipment.TrackingNumber, evt.TrackingNumber)
}

func TestBulkMarkArrivedPublishesEvents(t *testing.T) {
	repo := newFakeShipmentRepo()
	users := newFakeUserRepo()
	pub := &stubPublisher{}
	svc := NewShipmentService(repo, users, &fakeTxRepo{}, pub)

	owner := testOwner()
	require.NoError(t, users.Insert(context.Background(), owner))

	s1, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Malabo", WeightKg: 1, Price: 10,
	})
	require.NoError(t, err)
	s2, err := svc.Create(context.Background(), owner, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Bata", WeightKg: 2, Price: 20,
	})
	require.NoError(t, err)

	_, missing, err := svc.BulkMarkArrived(context.Background(), []string{
		s1.TrackingNumber,
		"BB00000000XXXX",
		s2.TrackingNumber,
	})
	require.NoError(t, err)
	require.Len(t, missing, 1)

	// cada llegada del lote emite su propio evento; los que no existen, no
	var arrived []Event
	for _, evt := range pub.events {
		if evt.Kind == EventShipmentStatusChanged {
			arrived = append(arrived, evt)
		}
	}
	require.Len(t, arrived, 2)

	trackings := map[string]bool{}
	for _, evt := range arrived {
		assert.Equal(t, model.StatusLlegado, evt.Status)
		assert.Equal(t, owner.Email, evt.Email)
		trackings[evt.TrackingNumber] = true
	}
	assert.True(t, trackings[s1.TrackingNumber])
	assert.True(t, trackings[s2.TrackingNumber])
}

func TestListScopesByRole(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewShipmentService(repo, newFakeUserRepo(), &fakeTxRepo{}, nil)

	alice := testOwner()
	bob := testOwner()

	_, err := svc.Create(context.Background(), alice, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Malabo", WeightKg: 1, Price: 10,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, dto.CreateShipmentRequest{
		Origin: "Madrid", Destination: "Bata", WeightKg: 2, Price: 20,
	})
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), alice.ID, false, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), alice.ID, true, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.List(context.Background(), alice.ID, true, model.StatusPendiente)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
