package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/metrics"
	"bbexpress-api/internal/model"
	"bbexpress-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Interfaz que debe implementar repository
type ShipmentRepository interface {
	Insert(ctx context.Context, s *model.Shipment) error
	ExistsByTrackingNumber(ctx context.Context, tracking string) (bool, error)
	FindByTrackingNumber(ctx context.Context, tracking string) (*model.Shipment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Shipment, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.Shipment, error)
	FindAll(ctx context.Context) ([]*model.Shipment, error)
	FindByStatus(ctx context.Context, status string) ([]*model.Shipment, error)
	AppendStatus(ctx context.Context, id primitive.ObjectID, status string, record model.TrackingRecord) error
	AppendStatusByTracking(ctx context.Context, tracking, status string, record model.TrackingRecord) error
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrInvalidStatus     = errors.New("estado de envío no válido")
	ErrTrackingExhausted = errors.New("no se pudo generar un número de seguimiento único")
)

// Estados conocidos. No se fuerza un orden entre ellos: el panel de
// administración necesita poder corregir un estado mal puesto.
var validStatuses = map[string]bool{
	model.StatusPendiente:  true,
	model.StatusRecogido:   true,
	model.StatusEnTransito: true,
	model.StatusEnAduanas:  true,
	model.StatusLlegado:    true,
	model.StatusEntregado:  true,
}

// Ubicación fija por estado para el historial de seguimiento.
var statusLocations = map[string]string{
	model.StatusPendiente:  "Almacén BBExpress, Madrid",
	model.StatusRecogido:   "Recogido en origen",
	model.StatusEnTransito: "En ruta hacia destino",
	model.StatusEnAduanas:  "Aduana de Malabo",
	model.StatusLlegado:    "Almacén BBExpress, Malabo",
	model.StatusEntregado:  "Entregado al destinatario",
}

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type ShipmentService struct {
	repo      ShipmentRepository
	users     UserRepository
	txRepo    TransactionRepository
	publisher EventPublisher
}

func NewShipmentService(repo ShipmentRepository, users UserRepository, txRepo TransactionRepository, publisher EventPublisher) *ShipmentService {
	return &ShipmentService{repo: repo, users: users, txRepo: txRepo, publisher: publisher}
}

// GenerateTrackingNumber construye BB + 8 dígitos derivados del reloj + 4
// alfanuméricos aleatorios y comprueba contra el almacén. Identificador
// consultivo, no token de seguridad: la unicidad se apoya en reintentos y en
// el índice único como red.
func (s *ShipmentService) GenerateTrackingNumber(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		digits := fmt.Sprintf("%08d", time.Now().UnixMilli()%100000000)

		suffix := make([]byte, 4)
		for j := range suffix {
			suffix[j] = trackingAlphabet[rand.Intn(len(trackingAlphabet))]
		}

		candidate := "BB" + digits + string(suffix)

		exists, err := s.repo.ExistsByTrackingNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrTrackingExhausted
}

// Create da de alta un envío en Pendiente, siembra el historial, escribe el
// asiento en el libro y emite el evento. El evento es de mejor esfuerzo.
func (s *ShipmentService) Create(ctx context.Context, owner *model.User, req dto.CreateShipmentRequest) (*model.Shipment, error) {
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	var shipment *model.Shipment
	for i := 0; i < 5; i++ {
		tracking, err := s.GenerateTrackingNumber(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		shipment = &model.Shipment{
			UserID:         owner.ID,
			TrackingNumber: tracking,
			Origin:         req.Origin,
			Destination:    req.Destination,
			Description:    req.Description,
			WeightKg:       req.WeightKg,
			Price:          req.Price,
			Currency:       currency,
			Status:         model.StatusPendiente,
			History: []model.TrackingRecord{
				{
					Status:    model.StatusPendiente,
					Location:  statusLocations[model.StatusPendiente],
					Timestamp: now,
				},
			},
		}

		err = s.repo.Insert(ctx, shipment)
		if err == nil {
			break
		}
		if err == repository.ErrDuplicate {
			// otro proceso ganó la carrera del número; se genera otro
			shipment = nil
			continue
		}
		return nil, err
	}
	if shipment == nil {
		return nil, ErrTrackingExhausted
	}

	tx := &model.Transaction{
		Type:           model.TxShipment,
		SourceRef:      shipment.TrackingNumber,
		Amount:         fmt.Sprintf("%.2f", shipment.Price),
		Currency:       currency,
		SubmitterName:  owner.Name,
		SubmitterPhone: owner.Phone,
		SubmitterEmail: owner.Email,
		Details: map[string]string{
			"origin":      shipment.Origin,
			"destination": shipment.Destination,
			"weightKg":    fmt.Sprintf("%.2f", shipment.WeightKg),
			"description": shipment.Description,
		},
	}
	if err := s.txRepo.Insert(ctx, tx); err != nil {
		return nil, err
	}

	metrics.ShipmentsCreated.Inc()
	s.publish(ctx, Event{
		Kind:           EventShipmentCreated,
		UserID:         owner.ID.Hex(),
		Email:          owner.Email,
		ShipmentID:     shipment.ID.Hex(),
		TrackingNumber: shipment.TrackingNumber,
		Status:         shipment.Status,
	})

	return shipment, nil
}

func (s *ShipmentService) CreateBulk(ctx context.Context, owner *model.User, reqs []dto.CreateShipmentRequest) ([]*model.Shipment, error) {
	out := make([]*model.Shipment, 0, len(reqs))
	for _, req := range reqs {
		shipment, err := s.Create(ctx, owner, req)
		if err != nil {
			return out, err
		}
		out = append(out, shipment)
	}
	return out, nil
}

// UpdateStatus reasigna el estado y añade exactamente un registro al
// historial con la ubicación de la tabla fija.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (*model.Shipment, error) {
	if !validStatuses[newStatus] {
		return nil, ErrInvalidStatus
	}

	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record := model.TrackingRecord{
		Status:    newStatus,
		Location:  statusLocations[newStatus],
		Timestamp: time.Now().UTC(),
	}

	if err := s.repo.AppendStatus(ctx, id, newStatus, record); err != nil {
		return nil, err
	}

	shipment.Status = newStatus
	shipment.History = append(shipment.History, record)

	s.publish(ctx, s.statusEvent(ctx, shipment, newStatus))

	return shipment, nil
}

// statusEvent construye el evento de cambio de estado. El correo del
// propietario viaja en el evento para que el consumidor pueda avisar por email
// sin volver a consultar usuarios; si no se resuelve, el aviso queda en la
// notificación del panel.
func (s *ShipmentService) statusEvent(ctx context.Context, shipment *model.Shipment, status string) Event {
	evt := Event{
		Kind:           EventShipmentStatusChanged,
		UserID:         shipment.UserID.Hex(),
		ShipmentID:     shipment.ID.Hex(),
		TrackingNumber: shipment.TrackingNumber,
		Status:         status,
	}
	if owner, err := s.users.FindByID(ctx, shipment.UserID); err == nil {
		evt.Email = owner.Email
	}
	return evt
}

// BulkMarkArrived marca "Llegado a destino" una lista de números de
// seguimiento. Los que no existen se cuentan aparte, no cortan el lote.
func (s *ShipmentService) BulkMarkArrived(ctx context.Context, trackingNumbers []string) (updated int, missing []string, err error) {
	for _, tracking := range trackingNumbers {
		record := model.TrackingRecord{
			Status:    model.StatusLlegado,
			Location:  statusLocations[model.StatusLlegado],
			Timestamp: time.Now().UTC(),
		}

		err := s.repo.AppendStatusByTracking(ctx, tracking, model.StatusLlegado, record)
		if err == repository.ErrNotFound {
			missing = append(missing, tracking)
			continue
		}
		if err != nil {
			return updated, missing, err
		}
		updated++

		// cada llegada emite su evento igual que un cambio individual
		if shipment, err := s.repo.FindByTrackingNumber(ctx, tracking); err == nil {
			s.publish(ctx, s.statusEvent(ctx, shipment, model.StatusLlegado))
		}
	}
	return updated, missing, nil
}

// List devuelve los envíos del usuario, o todos si es admin (con filtro
// opcional por estado).
func (s *ShipmentService) List(ctx context.Context, userID primitive.ObjectID, isAdmin bool, status string) ([]*model.Shipment, error) {
	if !isAdmin {
		return s.repo.FindByUserID(ctx, userID)
	}
	if status != "" {
		return s.repo.FindByStatus(ctx, status)
	}
	return s.repo.FindAll(ctx)
}

func (s *ShipmentService) TrackByNumber(ctx context.Context, tracking string) (*model.Shipment, error) {
	return s.repo.FindByTrackingNumber(ctx, tracking)
}

func (s *ShipmentService) publish(ctx context.Context, evt Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		// el canal de avisos nunca bloquea la escritura principal
		zap.L().Warn("No se pudo publicar el evento de envío",
			zap.String("kind", evt.Kind),
			zap.String("tracking", evt.TrackingNumber),
			zap.Error(err))
	}
}
