package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/kurogitsune/gamesofni/internal/comm"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

// SweepStore is the slice of the games store the sweeper needs.
type SweepStore interface {
	QueryExpired(ctx context.Context, now int64) ([]vcg.GameRecord, error)
	BatchDelete(ctx context.Context, keys []models.GameKey) error
}

// ArchiveStore keeps settled games.
type ArchiveStore interface {
	BatchPut(ctx context.Context, records []vcg.CompletedGameRecord) error
}

// WebhookDirectory resolves each team's notification webhook.
type WebhookDirectory interface {
	WebhookURLs(ctx context.Context, teams []string) (map[string]string, error)
}

// Notifier delivers a settlement narrative to a team channel.
type Notifier interface {
	Post(url, text string) error
}

// SettlementPublisher announces settlements on the message bus.
type SettlementPublisher interface {
	PublishSettlement(notice comm.SettlementNotice) error
}

// SweepService settles expired games: finalize, archive, notify, delete.
// The current time is always passed in by the caller, never read here.
type SweepService struct {
	games     SweepStore
	archive   ArchiveStore
	directory WebhookDirectory
	notifier  Notifier
	publisher SettlementPublisher
	render    vcg.RenderConfig
}

func NewSweepService(games SweepStore, archive ArchiveStore, directory WebhookDirectory,
	notifier Notifier, publisher SettlementPublisher, render vcg.RenderConfig) *SweepService {
	return &SweepService{
		games:     games,
		archive:   archive,
		directory: directory,
		notifier:  notifier,
		publisher: publisher,
		render:    render,
	}
}

// Sweep runs one settlement pass and returns how many games were settled.
// A failing webhook only skips that team's notification; archival and
// deletion still happen so a game is settled at most once.
func (s *SweepService) Sweep(ctx context.Context, now int64) (int, error) {
	records, err := s.games.QueryExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		log.Info("sweep found no expired games")
		return 0, nil
	}

	games := make([]vcg.Game, 0, len(records))
	for _, rec := range records {
		games = append(games, vcg.FromRecord(rec))
	}
	completed := vcg.FinalizeAll(games)

	archiveRecords := make([]vcg.CompletedGameRecord, 0, len(completed))
	for _, cg := range completed {
		archiveRecords = append(archiveRecords, cg.ToRecord())
	}
	if err := s.archive.BatchPut(ctx, archiveRecords); err != nil {
		return 0, err
	}

	byTeam := map[string][]vcg.CompletedGame{}
	teams := make([]string, 0)
	for _, cg := range completed {
		if _, seen := byTeam[cg.Game.Team]; !seen {
			teams = append(teams, cg.Game.Team)
		}
		byTeam[cg.Game.Team] = append(byTeam[cg.Game.Team], cg)
	}

	urls, err := s.directory.WebhookURLs(ctx, teams)
	if err != nil {
		return 0, err
	}

	for _, team := range teams {
		text := vcg.DescribeAll(byTeam[team], s.render)

		url, ok := urls[team]
		if !ok {
			log.Warnf("no webhook url for team %s, skipping notification", team)
		} else if err := s.notifier.Post(url, text); err != nil {
			log.Errorf("failed to notify team %s: %s", team, err)
		}

		notice := comm.SettlementNotice{Team: team, Text: text, CompletedAt: now}
		if err := s.publisher.PublishSettlement(notice); err != nil {
			log.Errorf("failed to publish settlement notice for team %s: %s", team, err)
		}
	}

	keys := make([]models.GameKey, 0, len(completed))
	for _, cg := range completed {
		keys = append(keys, models.GameKey{Team: cg.Game.Team, Name: cg.Game.Name})
	}
	if err := s.games.BatchDelete(ctx, keys); err != nil {
		return 0, err
	}

	log.Infof("sweep settled %d games across %d teams", len(completed), len(teams))
	return len(completed), nil
}
