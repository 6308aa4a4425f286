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

type MongoTransactionRepository struct {
	col *mongo.Collection
}

func NewMongoTransactionRepository(db *mongo.Database) *MongoTransactionRepository {
	return &MongoTransactionRepository{col: db.Collection("transactions")}
}

func (r *MongoTransactionRepository) Insert(ctx context.Context, t *model.Transaction) error {
	t.CreatedAt = time.Now().UTC()

	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoTransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &t, err
}

// FindAll devuelve el libro ordenado por fecha descendente; txType vacío = todos.
func (r *MongoTransactionRepository) FindAll(ctx context.Context, txType string) ([]*model.Transaction, error) {
	filter := bson.M{}
	if txType != "" {
		filter["type"] = txType
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Transaction
	for cur.Next(ctx) {
		var t model.Transaction
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}
