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

type MongoVerificationRepository struct {
	col *mongo.Collection
}

func NewMongoVerificationRepository(db *mongo.Database) *MongoVerificationRepository {
	return &MongoVerificationRepository{col: db.Collection("verification_codes")}
}

// Insert invalida los códigos anteriores del mismo email y tipo: solo hay un
// código activo a la vez.
func (r *MongoVerificationRepository) Insert(ctx context.Context, v *model.VerificationCode) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"email": v.Email, "type": v.Type}); err != nil {
		return err
	}

	v.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, v)
	if err != nil {
		return err
	}
	v.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoVerificationRepository) FindActive(ctx context.Context, email, codeType string) (*model.VerificationCode, error) {
	filter := bson.M{
		"email":      email,
		"type":       codeType,
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var v model.VerificationCode
	err := r.col.FindOne(ctx, filter, opts).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &v, err
}

func (r *MongoVerificationRepository) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"attempts": 1}})
	return err
}

func (r *MongoVerificationRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
