package service

import (
	"context"
	"errors"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/metrics"
	"bbexpress-api/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n *model.Notification) error
	FindVisible(ctx context.Context, userID primitive.ObjectID, isAdmin bool) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID, isAdmin bool) (int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID, isAdmin bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

var ErrInvalidNotificationType = errors.New("tipo de notificación no válido")

var validNotificationTypes = map[string]bool{
	model.NotifShipment: true,
	model.NotifTransfer: true,
	model.NotifPromo:    true,
	model.NotifSystem:   true,
}

type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, n *model.Notification) error {
	if !validNotificationTypes[n.Type] {
		return ErrInvalidNotificationType
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsEmitted.Inc()
	return nil
}

// CreateFromRequest construye la notificación del panel de administración:
// difusión cuando no hay destinatario.
func (s *NotificationService) CreateFromRequest(ctx context.Context, req dto.CreateNotificationRequest) (*model.Notification, error) {
	n := &model.Notification{
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		AdminOnly: req.AdminOnly,
		ExpiresAt: req.ExpiresAt,
	}

	if req.UserID != "" {
		uid, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, errors.New("userId no válido")
		}
		n.UserID = &uid
	}

	if err := s.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, isAdmin bool) ([]*model.Notification, error) {
	return s.repo.FindVisible(ctx, userID, isAdmin)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID, isAdmin bool) (int64, error) {
	return s.repo.CountUnread(ctx, userID, isAdmin)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID, isAdmin bool) error {
	return s.repo.MarkAllRead(ctx, userID, isAdmin)
}

func (s *NotificationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}
