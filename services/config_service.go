package services

import (
	"context"
	"errors"

	"chatbot-backend/config"
	"chatbot-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConfigNotFound = errors.New("bot configuration not found")

// ConfigRepo manages the configuration singleton.
//
// Get reports ErrConfigNotFound when the document is absent; Load writes
// the defaults instead, matching the widget's init-on-first-read behavior.
type ConfigRepo interface {
	Get(ctx context.Context) (*models.BotConfig, error)
	Load(ctx context.Context) (*models.BotConfig, error)
	Save(ctx context.Context, cfg *models.BotConfig) error
	SetAssetURL(ctx context.Context, field, url string) error
}

const botConfigDocID = "settings"

type MongoConfigRepo struct {
	Col *mongo.Collection
}

func NewMongoConfigRepo(col *mongo.Collection) *MongoConfigRepo {
	return &MongoConfigRepo{Col: col}
}

func (r *MongoConfigRepo) Get(ctx context.Context) (*models.BotConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var cfg models.BotConfig
	err := r.Col.FindOne(ctx, bson.M{"_id": botConfigDocID}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *MongoConfigRepo) Load(ctx context.Context) (*models.BotConfig, error) {
	cfg, err := r.Get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	defaults := models.DefaultBotConfig()
	if err := r.Save(ctx, defaults); err != nil {
		return nil, err
	}
	config.Log.Info("Bot configuration initialized with defaults")
	return defaults, nil
}

// Save replaces the whole settings document. The FAQ list is persisted
// verbatim, ordered, empty strings included.
func (r *MongoConfigRepo) Save(ctx context.Context, cfg *models.BotConfig) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": botConfigDocID}, cfg, opts)
	return err
}

func (r *MongoConfigRepo) SetAssetURL(ctx context.Context, field, url string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": botConfigDocID},
		bson.M{"$set": bson.M{field: url}},
		opts,
	)
	return err
}
