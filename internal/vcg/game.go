package vcg

import (
	"strings"
)

const (
	minGameTokens = 3
	maxGameTokens = 50
)

// Game is a single auction: a deadline, optional discrete options and the
// bids accumulated so far. Identity of an active game is (Team, Name).
type Game struct {
	Team      string
	Name      string
	Creator   string
	StartDate int64 // unix UTC
	EndDate   int64 // unix UTC
	Options   []string
	Bids      map[string]Bid // keyed by user
	UTCOffset int
}

// GameRecord is the flat persisted shape of a game.
type GameRecord struct {
	TeamID    string               `bson:"team_id" json:"team_id"`
	Name      string               `bson:"name" json:"name"`
	Creator   string               `bson:"creator" json:"creator"`
	StartDate int64                `bson:"start_date" json:"start_date"`
	EndDate   int64                `bson:"end_date" json:"end_date"`
	Bids      map[string]BidRecord `bson:"bids" json:"bids"`
	UTCOffset int                  `bson:"utc_offset" json:"utc_offset"`
	Options   []string             `bson:"options,omitempty" json:"options,omitempty"`
}

// RenderConfig controls how games are rendered into channel text.
type RenderConfig struct {
	Debug bool // include bids and creator in game info
}

// ParseGameCommand parses "/create_game name DD-MM-YY HH:MM [option...]".
// The end time is interpreted in the team's local timezone and must be in
// the future.
func ParseGameCommand(text, username, team string, utcOffset int, now int64) (Game, error) {
	if username == "" {
		return Game{}, newValidationError("empty username, how come 0_o")
	}

	tokens := strings.Fields(text)
	if len(tokens) < minGameTokens || len(tokens) > maxGameTokens {
		return Game{}, newValidationError("not enough or too many words in command, something is wrong")
	}

	localEnd, err := ParseLocalDateTime(tokens[1] + " " + tokens[2])
	if err != nil {
		return Game{}, newValidationError("end time of your game seems to be in wrong format")
	}

	endDate := LocalToUTC(localEnd, utcOffset)
	if endDate <= now {
		return Game{}, newValidationError("end time of your game seems to be in the past")
	}

	var options []string
	if len(tokens) > 3 {
		options = tokens[3:]
	}

	return Game{
		Team:      team,
		Name:      tokens[0],
		Creator:   username,
		StartDate: now,
		EndDate:   endDate,
		Options:   options,
		Bids:      map[string]Bid{},
		UTCOffset: utcOffset,
	}, nil
}

// ShortInfo renders the game's info block: name, localized start and end
// time and the options line.
func (g Game) ShortInfo(cfg RenderConfig) string {
	var sb strings.Builder
	sb.WriteString("Name of the game: *" + g.Name + "*")
	sb.WriteString("\nstarted on " + FormatLocalTime(UTCToLocal(g.StartDate, g.UTCOffset)))
	sb.WriteString("\nends on " + FormatLocalTime(UTCToLocal(g.EndDate, g.UTCOffset)))
	sb.WriteString("\n" + g.OptionsInfo())

	if cfg.Debug {
		sb.WriteString("\nextra little secret debugging info: ")
		if len(g.Bids) > 0 {
			infos := make([]string, 0, len(g.Bids))
			for _, bid := range g.Bids {
				infos = append(infos, bid.Info())
			}
			sb.WriteString("current bids are: " + strings.Join(infos, ", "))
		} else {
			sb.WriteString("there are no bids yet")
		}
		sb.WriteString(", game creator: " + g.Creator)
	}

	return sb.String()
}

// OptionsInfo renders the voting mode of the game.
func (g Game) OptionsInfo() string {
	if len(g.Options) > 0 {
		return "options to vote for: *" + strings.Join(g.Options, ", ") + "*"
	}
	return "voting for this game is *without options*"
}

// HasOption reports whether option is one of the game's declared options.
func (g Game) HasOption(option string) bool {
	for _, o := range g.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Active reports whether the game deadline has not yet passed.
func (g Game) Active(now int64) bool {
	return g.EndDate > now
}

// ToRecord flattens the game for persistence. The options key is omitted
// entirely for no-option games; the bids mapping is always present, possibly
// empty.
func (g Game) ToRecord() GameRecord {
	bids := make(map[string]BidRecord, len(g.Bids))
	for user, bid := range g.Bids {
		bids[user] = bid.ToRecord()
	}
	rec := GameRecord{
		TeamID:    g.Team,
		Name:      g.Name,
		Creator:   g.Creator,
		StartDate: g.StartDate,
		EndDate:   g.EndDate,
		Bids:      bids,
		UTCOffset: g.UTCOffset,
	}
	if len(g.Options) > 0 {
		rec.Options = g.Options
	}
	return rec
}

// FromRecord is the exact inverse of ToRecord.
func FromRecord(rec GameRecord) Game {
	bids := make(map[string]Bid, len(rec.Bids))
	for user, br := range rec.Bids {
		bids[user] = bidFromRecord(user, br)
	}
	return Game{
		Team:      rec.TeamID,
		Name:      rec.Name,
		Creator:   rec.Creator,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Options:   rec.Options,
		Bids:      bids,
		UTCOffset: rec.UTCOffset,
	}
}
