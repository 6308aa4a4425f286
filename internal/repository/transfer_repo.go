package repository

import (
	"context"
	"time"

	"bbexpress-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoTransferRepository struct {
	col *mongo.Collection
}

func NewMongoTransferRepository(db *mongo.Database) *MongoTransferRepository {
	return &MongoTransferRepository{col: db.Collection("transfers")}
}

func (r *MongoTransferRepository) Insert(ctx context.Context, t *model.Transfer) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoTransferRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Transfer, error) {
	var t model.Transfer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *MongoTransferRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.Transfer, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoTransferRepository) FindAll(ctx context.Context) ([]*model.Transfer, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoTransferRepository) FindByStatus(ctx context.Context, status string) ([]*model.Transfer, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoTransferRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTransferRepository) find(ctx context.Context, filter bson.M) ([]*model.Transfer, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Transfer
	for cur.Next(ctx) {
		var t model.Transfer
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}
