package repository

import (
	"context"
	"time"

	"bbexpress-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// La configuración del sitio vive en un único documento con _id fijo.
const siteConfigID = "site"

type MongoConfigRepository struct {
	col *mongo.Collection
}

func NewMongoConfigRepository(db *mongo.Database) *MongoConfigRepository {
	return &MongoConfigRepository{col: db.Collection("site_config")}
}

func (r *MongoConfigRepository) Get(ctx context.Context) (*model.SiteConfig, error) {
	var cfg model.SiteConfig
	err := r.col.FindOne(ctx, bson.M{"_id": siteConfigID}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &cfg, err
}

func (r *MongoConfigRepository) Upsert(ctx context.Context, cfg *model.SiteConfig) error {
	cfg.UpdatedAt = time.Now().UTC()

	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": siteConfigID}, bson.M{"$set": cfg}, opts)
	return err
}
