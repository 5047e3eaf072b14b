package checkpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/teascout/teascout/internal/memory"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "checkpoints"

type mongoRecord struct {
	RunID     string    `bson:"run_id"`
	Snapshot  string    `bson:"snapshot"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongo connects to the document database at uri and returns a store
// writing to the "checkpoints" collection of the named database.
func NewMongo(ctx context.Context, uri, database string) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("document store is unreachable: %w", err)
	}
	return &mongoStore{coll: client.Database(database).Collection(collectionName)}, nil
}

func (s *mongoStore) Save(ctx context.Context, runID uuid.UUID, cp memory.Checkpoint) error {
	// Snapshots are stored as their canonical JSON form so the schema stays
	// stable across driver upgrades.
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint: %w", err)
	}

	_, err = s.coll.InsertOne(ctx, mongoRecord{
		RunID:     runID.String(),
		Snapshot:  string(data),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (s *mongoStore) Latest(ctx context.Context, runID uuid.UUID) (memory.Checkpoint, bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"run_id": runID.String()}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return memory.Checkpoint{}, false, nil
	}
	if err != nil {
		return memory.Checkpoint{}, false, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var cp memory.Checkpoint
	if err := json.Unmarshal([]byte(rec.Snapshot), &cp); err != nil {
		return memory.Checkpoint{}, false, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return cp, true, nil
}
