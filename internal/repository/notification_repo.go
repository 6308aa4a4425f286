package repository

import (
	"context"
	"time"

	"bbexpress-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoNotificationRepository struct {
	col *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{col: db.Collection("notifications")}
}

func (r *MongoNotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = time.Now().UTC()
	if n.ReadBy == nil {
		n.ReadBy = []primitive.ObjectID{}
	}

	res, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// audienceFilter compone los dos grupos OR del listado: destinatario y vigencia.
func audienceFilter(userID primitive.ObjectID, isAdmin bool) bson.M {
	audience := []bson.M{
		{"user_id": userID},
		{"user_id": bson.M{"$exists": false}, "admin_only": false},
	}
	if isAdmin {
		audience = append(audience, bson.M{"admin_only": true})
	}

	notExpired := []bson.M{
		{"expires_at": bson.M{"$exists": false}},
		{"expires_at": bson.M{"$gt": time.Now().UTC()}},
	}

	return bson.M{"$and": []bson.M{
		{"$or": audience},
		{"$or": notExpired},
	}}
}

func (r *MongoNotificationRepository) FindVisible(ctx context.Context, userID primitive.ObjectID, isAdmin bool) ([]*model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, audienceFilter(userID, isAdmin), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Notification
	for cur.Next(ctx) {
		var n model.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, cur.Err()
}

// CountUnread aplica el mismo predicado de visibilidad más "no leído por mí".
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID, isAdmin bool) (int64, error) {
	filter := audienceFilter(userID, isAdmin)
	filter["read_by"] = bson.M{"$ne": userID}
	return r.col.CountDocuments(ctx, filter)
}

// MarkRead es idempotente: $addToSet nunca duplica el id del usuario.
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"read_by": userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID, isAdmin bool) error {
	_, err := r.col.UpdateMany(ctx, audienceFilter(userID, isAdmin), bson.M{
		"$addToSet": bson.M{"read_by": userID},
	})
	return err
}

func (r *MongoNotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
