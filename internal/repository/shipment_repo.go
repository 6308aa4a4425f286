package repository

import (
	"context"
	"time"

	"bbexpress-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoShipmentRepository struct {
	col *mongo.Collection
}

func NewMongoShipmentRepository(db *mongo.Database) *MongoShipmentRepository {
	return &MongoShipmentRepository{col: db.Collection("shipments")}
}

func (r *MongoShipmentRepository) Insert(ctx context.Context, s *model.Shipment) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		// el índice único sobre tracking_number rechazó la inserción
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoShipmentRepository) ExistsByTrackingNumber(ctx context.Context, tracking string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"tracking_number": tracking})
	return count > 0, err
}

func (r *MongoShipmentRepository) FindByTrackingNumber(ctx context.Context, tracking string) (*model.Shipment, error) {
	var s model.Shipment
	err := r.col.FindOne(ctx, bson.M{"tracking_number": tracking}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *MongoShipmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Shipment, error) {
	var s model.Shipment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *MongoShipmentRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.Shipment, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoShipmentRepository) FindAll(ctx context.Context) ([]*model.Shipment, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoShipmentRepository) FindByStatus(ctx context.Context, status string) ([]*model.Shipment, error) {
	return r.find(ctx, bson.M{"status": status})
}

// AppendStatus reasigna el estado y añade el registro al historial (append-only).
func (r *MongoShipmentRepository) AppendStatus(ctx context.Context, id primitive.ObjectID, status string, record model.TrackingRecord) error {
	return r.appendStatus(ctx, bson.M{"_id": id}, status, record)
}

func (r *MongoShipmentRepository) AppendStatusByTracking(ctx context.Context, tracking, status string, record model.TrackingRecord) error {
	return r.appendStatus(ctx, bson.M{"tracking_number": tracking}, status, record)
}

func (r *MongoShipmentRepository) appendStatus(ctx context.Context, filter bson.M, status string, record model.TrackingRecord) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
		"$push": bson.M{
			"history": record,
		},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoShipmentRepository) find(ctx context.Context, filter bson.M) ([]*model.Shipment, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Shipment
	for cur.Next(ctx) {
		var s model.Shipment
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}
