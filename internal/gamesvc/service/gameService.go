package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

// GameStore is the slice of the games store the command service needs.
type GameStore interface {
	Get(ctx context.Context, team, name string) (*vcg.GameRecord, error)
	Put(ctx context.Context, rec vcg.GameRecord) error
	UpsertBid(ctx context.Context, team, name, user string, bid vcg.BidRecord) error
	ListActive(ctx context.Context, team string, now int64) ([]vcg.GameRecord, error)
}

// SettingsStore is the per-team settings storage.
type SettingsStore interface {
	Get(ctx context.Context, team string) (*models.TeamSettings, error)
	UpsertOffset(ctx context.Context, team, domain string, offset int) error
	Seed(ctx context.Context, team string, joined int64) error
}

// GameService executes the slash commands against storage. All methods
// return the channel-facing success text; a *vcg.ValidationError or
// *vcg.FormatError is a user mistake to surface verbatim, anything else is
// an internal failure.
type GameService struct {
	games    GameStore
	settings SettingsStore
	render   vcg.RenderConfig
}

func NewGameService(games GameStore, settings SettingsStore, render vcg.RenderConfig) *GameService {
	return &GameService{games: games, settings: settings, render: render}
}

// SetTimezone handles /set_timezone.
func (s *GameService) SetTimezone(ctx context.Context, team, domain, text string) (string, error) {
	offset, err := vcg.ParseOffset(strings.TrimSpace(text))
	if err != nil {
		return "", err
	}

	if err := s.settings.UpsertOffset(ctx, team, domain, offset); err != nil {
		return "", err
	}

	return "You successfully set timezone as utc " + strconv.Itoa(offset) +
		"\nYou can now create new games with /create_game command", nil
}

// CreateGame handles /create_game. The team must have installed the app
// and picked a timezone first.
func (s *GameService) CreateGame(ctx context.Context, team, username, text string, now int64) (string, error) {
	settings, err := s.settings.Get(ctx, team)
	if err != nil {
		return "", err
	}
	if settings == nil {
		return "", &vcg.ValidationError{Reason: "It seems there was an error during authorisation process. " +
			"\nPlease, authorise this application again by clicking on add to slack button on our website."}
	}
	if settings.UTCOffset == nil {
		return "", &vcg.ValidationError{Reason: "It seems you haven't set up timezone setting yet. " +
			"Please, do so with /set_timezone command."}
	}

	game, err := vcg.ParseGameCommand(text, username, team, *settings.UTCOffset, now)
	if err != nil {
		return "", err
	}

	existing, err := s.games.Get(ctx, team, game.Name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", &vcg.ValidationError{Reason: "game with this name is already active " +
			"\n" + vcg.FromRecord(*existing).ShortInfo(s.render)}
	}

	if err := s.games.Put(ctx, game.ToRecord()); err != nil {
		return "", err
	}

	return "*" + username + "* created new game! \n" +
		game.ShortInfo(s.render) +
		"\n_(type /bid to participate)_", nil
}

// PlaceBid handles /bid. A user's new bid replaces their previous one.
func (s *GameService) PlaceBid(ctx context.Context, team, username, text string, now int64) (string, error) {
	bid, err := vcg.ParseBidCommand(text, username)
	if err != nil {
		return "", err
	}

	rec, err := s.games.Get(ctx, team, bid.GameName)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", &vcg.ValidationError{Reason: "There is no game with the name you specified"}
	}

	game := vcg.FromRecord(*rec)
	if !game.Active(now) {
		return "", &vcg.ValidationError{Reason: "This game has ended, you can't bid in it, sorry."}
	}

	if bid.Option != "" {
		if !game.HasOption(bid.Option) {
			return "", &vcg.ValidationError{Reason: "There is no such option in this game you tried to bid for, " +
				game.OptionsInfo()}
		}
	} else if len(game.Options) > 0 {
		return "", &vcg.ValidationError{Reason: "We did not receive which option " +
			"you would like to bid for in this game, " + game.OptionsInfo()}
	}

	if err := s.games.UpsertBid(ctx, team, bid.GameName, bid.User, bid.ToRecord()); err != nil {
		return "", fmt.Errorf("failed to place bid: %w", err)
	}

	return "Ok, " + bid.ResponseInfo(), nil
}

// ActiveGamesInfo handles /info.
func (s *GameService) ActiveGamesInfo(ctx context.Context, team string, now int64) (string, error) {
	records, err := s.games.ListActive(ctx, team, now)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "There are no active games at this moment", nil
	}

	var sb strings.Builder
	sb.WriteString("Games in progress are:\n")
	for _, rec := range records {
		sb.WriteString(vcg.FromRecord(rec).ShortInfo(s.render) + "\n\n")
	}
	return sb.String(), nil
}
