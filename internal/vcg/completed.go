package vcg

import (
	"strconv"
	"strings"
)

// CompletedGame is a settled game together with its outcome. It is created
// at most once per game and never mutated afterwards.
type CompletedGame struct {
	Game    Game
	Option  string // winning option, option mode only
	Winner  string // winning user, plain mode and degenerate cases
	Amount  int64  // price owed by the winner, plain mode
	Message string
}

// CompletedGameRecord is the archived shape of a settled game.
type CompletedGameRecord struct {
	GameRecord `bson:",inline"`
	ID         string `bson:"_id" json:"id"`
	Winner     string `bson:"winner,omitempty" json:"winner,omitempty"`
	Amount     int64  `bson:"amount,omitempty" json:"amount,omitempty"`
}

// Describe renders the settlement narrative posted to the team channel.
func (cg CompletedGame) Describe(cfg RenderConfig) string {
	var sb strings.Builder
	sb.WriteString("Game *" + cg.Game.Name + "* just finished")
	if cg.Option != "" {
		sb.WriteString("\noption *" + cg.Option + "* has won")
	}
	if cg.Winner != "" {
		sb.WriteString("\nwinner is *" + cg.Winner + "*")
	}
	if cg.Amount > 0 {
		sb.WriteString("\namount to pay: *" + strconv.FormatInt(cg.Amount, 10) + "*")
	}
	if cg.Message != "" {
		sb.WriteString("\n" + cg.Message + "\n")
	}
	sb.WriteString("\nGame info: " + cg.Game.ShortInfo(cfg))
	return sb.String()
}

// ToRecord builds the archive record. Archived games are identified by
// team+name+startDate so a game name can be reused over time.
func (cg CompletedGame) ToRecord() CompletedGameRecord {
	rec := CompletedGameRecord{
		GameRecord: cg.Game.ToRecord(),
		ID:         cg.Game.Team + cg.Game.Name + strconv.FormatInt(cg.Game.StartDate, 10),
	}
	if cg.Winner != "" {
		rec.Winner = cg.Winner
	}
	if cg.Amount > 0 {
		rec.Amount = cg.Amount
	}
	return rec
}

// DescribeAll joins the narratives of the given settled games with two
// blank lines, preserving order. An empty input yields the empty string.
func DescribeAll(completed []CompletedGame, cfg RenderConfig) string {
	if len(completed) == 0 {
		return ""
	}
	parts := make([]string, 0, len(completed))
	for _, cg := range completed {
		parts = append(parts, cg.Describe(cfg))
	}
	return strings.Join(parts, "\n\n\n")
}
