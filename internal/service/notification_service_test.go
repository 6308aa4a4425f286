package service

import (
	"context"
	"testing"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/model"
	"bbexpress-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func (r *fakeNotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	n.ID = primitive.NewObjectID()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) FindVisible(ctx context.Context, userID primitive.ObjectID, isAdmin bool) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range r.notifications {
		switch {
		case n.UserID != nil && *n.UserID == userID:
			out = append(out, n)
		case n.UserID == nil && !n.AdminOnly:
			out = append(out, n)
		case n.AdminOnly && isAdmin:
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID primitive.ObjectID, isAdmin bool) (int64, error) {
	visible, _ := r.FindVisible(ctx, userID, isAdmin)
	var count int64
	for _, n := range visible {
		read := false
		for _, id := range n.ReadBy {
			if id == userID {
				read = true
				break
			}
		}
		if !read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	for _, n := range r.notifications {
		if n.ID != id {
			continue
		}
		for _, existing := range n.ReadBy {
			if existing == userID {
				return nil
			}
		}
		n.ReadBy = append(n.ReadBy, userID)
		return nil
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID primitive.ObjectID, isAdmin bool) error {
	visible, _ := r.FindVisible(ctx, userID, isAdmin)
	for _, n := range visible {
		_ = r.MarkRead(ctx, n.ID, userID)
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestCreateNotificationValidatesType(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)

	err := svc.Create(context.Background(), &model.Notification{
		Title:   "Aviso",
		Message: "texto",
		Type:    "telegram",
	})
	assert.ErrorIs(t, err, ErrInvalidNotificationType)
	assert.Empty(t, repo.notifications)

	err = svc.Create(context.Background(), &model.Notification{
		Title:   "Aviso",
		Message: "texto",
		Type:    model.NotifSystem,
	})
	require.NoError(t, err)
	assert.Len(t, repo.notifications, 1)
}

func TestCreateFromRequestBroadcast(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})

	n, err := svc.CreateFromRequest(context.Background(), dto.CreateNotificationRequest{
		Title:   "Promoción de marzo",
		Message: "2x1 en envíos a Bata",
		Type:    model.NotifPromo,
	})
	require.NoError(t, err)
	assert.Nil(t, n.UserID) // sin destinatario = difusión
	assert.False(t, n.AdminOnly)
}

func TestCreateFromRequestTargeted(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})
	target := primitive.NewObjectID()

	n, err := svc.CreateFromRequest(context.Background(), dto.CreateNotificationRequest{
		Title:   "Tu envío",
		Message: "ha llegado",
		Type:    model.NotifShipment,
		UserID:  target.Hex(),
	})
	require.NoError(t, err)
	require.NotNil(t, n.UserID)
	assert.Equal(t, target, *n.UserID)
}

func TestCreateFromRequestBadUserID(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{})

	_, err := svc.CreateFromRequest(context.Background(), dto.CreateNotificationRequest{
		Title:   "Aviso",
		Message: "texto",
		Type:    model.NotifSystem,
		UserID:  "esto-no-es-un-objectid",
	})
	assert.Error(t, err)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	user := primitive.NewObjectID()

	personal := &model.Notification{Title: "a", Message: "a", Type: model.NotifShipment, UserID: &user}
	broadcast := &model.Notification{Title: "b", Message: "b", Type: model.NotifPromo}
	adminOnly := &model.Notification{Title: "c", Message: "c", Type: model.NotifTransfer, AdminOnly: true}
	for _, n := range []*model.Notification{personal, broadcast, adminOnly} {
		require.NoError(t, svc.Create(context.Background(), n))
	}

	// el usuario normal no ve la de administradores
	count, err := svc.UnreadCount(context.Background(), user, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// el admin sí
	admin := primitive.NewObjectID()
	count, err = svc.UnreadCount(context.Background(), admin, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count) // difusión + solo-admin

	// marcar leída es idempotente
	require.NoError(t, svc.MarkRead(context.Background(), personal.ID, user))
	require.NoError(t, svc.MarkRead(context.Background(), personal.ID, user))

	count, err = svc.UnreadCount(context.Background(), user, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.MarkAllRead(context.Background(), user, false))
	count, err = svc.UnreadCount(context.Background(), user, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
