package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kurogitsune/gamesofni/internal/db"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

// GameStore persists active games as one document per game, keyed by
// (team_id, name). Each user's bid is a separate field of the bids
// sub-document so concurrent bids never clobber each other.
type GameStore struct {
	games *mongo.Collection
}

func NewGameStore(database *mongo.Database) *GameStore {
	return &GameStore{games: database.Collection(db.ActiveGamesCollection)}
}

func (s *GameStore) Get(ctx context.Context, team, name string) (*vcg.GameRecord, error) {
	rec := &vcg.GameRecord{}
	err := s.games.FindOne(ctx, bson.M{"team_id": team, "name": name}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // game not found
		}
		return nil, fmt.Errorf("failed to get game %s/%s: %w", team, name, err)
	}

	return rec, nil
}

func (s *GameStore) Put(ctx context.Context, rec vcg.GameRecord) error {
	_, err := s.games.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to store game %s/%s: %w", rec.TeamID, rec.Name, err)
	}
	return nil
}

// UpsertBid writes a single user's bid as one atomic field set.
func (s *GameStore) UpsertBid(ctx context.Context, team, name, user string, bid vcg.BidRecord) error {
	filter := bson.M{"team_id": team, "name": name}
	update := bson.M{"$set": bson.M{"bids." + user: bid}}

	result, err := s.games.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to store bid for game %s/%s: %w", team, name, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no active game %s/%s to bid in", team, name)
	}
	return nil
}

// ListActive returns a team's games whose deadline has not passed yet.
func (s *GameStore) ListActive(ctx context.Context, team string, now int64) ([]vcg.GameRecord, error) {
	filter := bson.M{"team_id": team, "end_date": bson.M{"$gt": now}}

	cursor, err := s.games.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list active games for team %s: %w", team, err)
	}
	defer cursor.Close(ctx)

	var records []vcg.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode active games for team %s: %w", team, err)
	}
	return records, nil
}

// QueryExpired returns every game whose deadline has passed, across teams.
func (s *GameStore) QueryExpired(ctx context.Context, now int64) ([]vcg.GameRecord, error) {
	cursor, err := s.games.Find(ctx, bson.M{"end_date": bson.M{"$lt": now}})
	if err != nil {
		return nil, fmt.Errorf("failed to query expired games: %w", err)
	}
	defer cursor.Close(ctx)

	var records []vcg.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode expired games: %w", err)
	}
	return records, nil
}

// BatchDelete removes settled games from active storage in one bulk write.
func (s *GameStore) BatchDelete(ctx context.Context, keys []models.GameKey) error {
	if len(keys) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(keys))
	for _, key := range keys {
		writes = append(writes, mongo.NewDeleteOneModel().
			SetFilter(bson.M{"team_id": key.Team, "name": key.Name}))
	}

	_, err := s.games.BulkWrite(ctx, writes)
	if err != nil {
		return fmt.Errorf("failed to delete settled games: %w", err)
	}
	return nil
}
