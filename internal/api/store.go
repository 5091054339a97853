package api

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/model"
)

// ModelStore persists models between API requests.
type ModelStore interface {
	// Put inserts or replaces a model by id.
	Put(ctx context.Context, m *model.Model) error

	// Get returns the model with the given id.
	// Returns a MODEL_NOT_FOUND error if the id is unknown.
	Get(ctx context.Context, id string) (*model.Model, error)

	// Delete removes a model. Deleting a missing model is not an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all stored models.
	List(ctx context.Context) ([]ModelSummary, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ModelSummary is the listing shape, light enough to return in bulk.
type ModelSummary struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Views int    `json:"views" bson:"views"`
}

// =============================================================================
// Memory Store
// =============================================================================

// MemoryModelStore keeps models in process memory. Used by tests and
// single-instance deployments without a database.
type MemoryModelStore struct {
	mu     sync.RWMutex
	models map[string]*model.Model
}

var _ ModelStore = (*MemoryModelStore)(nil)

// NewMemoryModelStore creates an empty in-memory store.
func NewMemoryModelStore() *MemoryModelStore {
	return &MemoryModelStore{models: make(map[string]*model.Model)}
}

func (s *MemoryModelStore) Put(ctx context.Context, m *model.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.ID] = m
	return nil
}

func (s *MemoryModelStore) Get(ctx context.Context, id string) (*model.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.models[id]; ok {
		return m, nil
	}
	return nil, errors.New(errors.ErrCodeModelNotFound, "model %q does not exist", id)
}

func (s *MemoryModelStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, id)
	return nil
}

func (s *MemoryModelStore) List(ctx context.Context) ([]ModelSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]ModelSummary, 0, len(s.models))
	for _, m := range s.models {
		summaries = append(summaries, ModelSummary{ID: m.ID, Name: m.Name, Views: len(m.Views)})
	}
	return summaries, nil
}

func (s *MemoryModelStore) Close(ctx context.Context) error { return nil }

// =============================================================================
// Mongo Store
// =============================================================================

// MongoModelStore persists models in a MongoDB collection, one document
// per model.
type MongoModelStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ ModelStore = (*MongoModelStore)(nil)

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoModelStore connects to MongoDB and pings it to fail fast on a
// bad URI.
func NewMongoModelStore(ctx context.Context, cfg MongoConfig) (*MongoModelStore, error) {
	if cfg.Database == "" {
		cfg.Database = "archon"
	}
	if cfg.Collection == "" {
		cfg.Collection = "models"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoModelStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoModelStore) Put(ctx context.Context, m *model.Model) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"id": m.ID}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "store model %s", m.ID)
	}
	return nil
}

func (s *MongoModelStore) Get(ctx context.Context, id string) (*model.Model, error) {
	var m model.Model
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeModelNotFound, "model %q does not exist", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load model %s", id)
	}
	return &m, nil
}

func (s *MongoModelStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete model %s", id)
	}
	return nil
}

func (s *MongoModelStore) List(ctx context.Context) ([]ModelSummary, error) {
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"id": 1, "name": 1, "views": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list models")
	}
	defer cursor.Close(ctx)

	var summaries []ModelSummary
	for cursor.Next(ctx) {
		var m model.Model
		if err := cursor.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode model summary")
		}
		summaries = append(summaries, ModelSummary{ID: m.ID, Name: m.Name, Views: len(m.Views)})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate models")
	}
	return summaries, nil
}

func (s *MongoModelStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
