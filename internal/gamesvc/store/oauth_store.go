package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
)

type OAuthStore struct {
	db *pgxpool.Pool
}

func NewOAuthStore(db *pgxpool.Pool) *OAuthStore {
	return &OAuthStore{db: db}
}

func (s *OAuthStore) Put(ctx context.Context, team models.OAuthTeam) error {
	query := `
		INSERT INTO oauth_teams (team_id, team_name, access_token, webhook_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id) DO UPDATE
			SET team_name = $2, access_token = $3, webhook_url = $4
	`

	_, err := s.db.Exec(ctx, query,
		team.TeamID, team.TeamName, team.AccessToken, team.WebhookURL, team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store oauth credentials for team %s: %w", team.TeamID, err)
	}
	return nil
}

// WebhookURLs resolves the notification webhook for each given team.
func (s *OAuthStore) WebhookURLs(ctx context.Context, teams []string) (map[string]string, error) {
	if len(teams) == 0 {
		return map[string]string{}, nil
	}

	query := `
		SELECT team_id, webhook_url
		FROM oauth_teams
		WHERE team_id = ANY($1)
	`

	rows, err := s.db.Query(ctx, query, teams)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhook urls: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]string, len(teams))
	for rows.Next() {
		var team, url string
		if err := rows.Scan(&team, &url); err != nil {
			return nil, fmt.Errorf("failed to scan webhook url row: %w", err)
		}
		urls[team] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read webhook url rows: %w", err)
	}
	return urls, nil
}
