package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kurogitsune/gamesofni/internal/db"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

// ArchiveStore keeps settled games. Documents are keyed by
// team+name+startDate so a settled game is archived at most once even if a
// sweep is retried.
type ArchiveStore struct {
	completed *mongo.Collection
}

func NewArchiveStore(database *mongo.Database) *ArchiveStore {
	return &ArchiveStore{completed: database.Collection(db.CompletedGamesCollection)}
}

func (s *ArchiveStore) BatchPut(ctx context.Context, records []vcg.CompletedGameRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}

	// unordered so one duplicate does not stop the rest of the batch
	_, err := s.completed.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to archive settled games: %w", err)
	}
	return nil
}
