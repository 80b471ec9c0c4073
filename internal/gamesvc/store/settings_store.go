package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
)

type SettingsStore struct {
	db *pgxpool.Pool
}

func NewSettingsStore(db *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context, team string) (*models.TeamSettings, error) {
	query := `
		SELECT team_id, utc_offset, team_domain, joined
		FROM settings
		WHERE team_id = $1
	`

	settings := &models.TeamSettings{}
	var domain *string
	err := s.db.QueryRow(ctx, query, team).Scan(
		&settings.TeamID,
		&settings.UTCOffset,
		&domain,
		&settings.Joined,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // team not registered
		}
		return nil, fmt.Errorf("failed to get settings for team %s: %w", team, err)
	}

	if domain != nil {
		settings.TeamDomain = *domain
	}
	return settings, nil
}

// UpsertOffset stores the timezone a team picked with /set_timezone.
func (s *SettingsStore) UpsertOffset(ctx context.Context, team, domain string, offset int) error {
	query := `
		INSERT INTO settings (team_id, utc_offset, team_domain)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id) DO UPDATE SET utc_offset = $2, team_domain = $3
	`

	_, err := s.db.Exec(ctx, query, team, offset, domain)
	if err != nil {
		return fmt.Errorf("failed to set timezone for team %s: %w", team, err)
	}
	return nil
}

// Seed creates the settings row when a team installs the app. An existing
// row is left untouched.
func (s *SettingsStore) Seed(ctx context.Context, team string, joined int64) error {
	query := `
		INSERT INTO settings (team_id, joined)
		VALUES ($1, $2)
		ON CONFLICT (team_id) DO NOTHING
	`

	_, err := s.db.Exec(ctx, query, team, joined)
	if err != nil {
		return fmt.Errorf("failed to seed settings for team %s: %w", team, err)
	}
	return nil
}
