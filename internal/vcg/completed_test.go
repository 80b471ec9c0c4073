package vcg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	cg := CompletedGame{
		Game:   gameWithBids(nil, Bid{User: "A", Amount: 150}, Bid{User: "B", Amount: 100}),
		Winner: "A",
		Amount: 100,
	}

	text := cg.Describe(RenderConfig{})
	assert.True(t, strings.HasPrefix(text, "Game *dinner* just finished"))
	assert.Contains(t, text, "winner is *A*")
	assert.Contains(t, text, "amount to pay: *100*")
	assert.Contains(t, text, "Game info: Name of the game: *dinner*")
	assert.NotContains(t, text, "has won")
}

func TestDescribeOptionOutcome(t *testing.T) {
	cg := CompletedGame{
		Game:    gameWithBids([]string{"X", "Y"}),
		Option:  "X",
		Message: "user *A* pays *60*\n",
	}

	text := cg.Describe(RenderConfig{})
	assert.Contains(t, text, "option *X* has won")
	assert.Contains(t, text, "user *A* pays *60*")
	assert.NotContains(t, text, "winner is")
	assert.NotContains(t, text, "amount to pay")
}

func TestDescribeSuppressesZeroAmount(t *testing.T) {
	cg := CompletedGame{
		Game:    gameWithBids(nil, Bid{User: "A", Amount: 5}),
		Winner:  "A",
		Amount:  0,
		Message: "There was only one bid made in this game. The winner doesn't pay.",
	}

	text := cg.Describe(RenderConfig{})
	assert.Contains(t, text, "winner is *A*")
	assert.NotContains(t, text, "amount to pay")
}

func TestToRecordIdentityAndOptionalKeys(t *testing.T) {
	game := gameWithBids(nil, Bid{User: "A", Amount: 150}, Bid{User: "B", Amount: 100})
	cg := CompletedGame{Game: game, Winner: "A", Amount: 100}

	rec := cg.ToRecord()
	assert.Equal(t, "T1dinner"+"1700000000", rec.ID)
	assert.Equal(t, "A", rec.Winner)
	assert.Equal(t, int64(100), rec.Amount)
	assert.Equal(t, game.ToRecord(), rec.GameRecord)

	noWinner := CompletedGame{Game: game}
	rec = noWinner.ToRecord()
	assert.Empty(t, rec.Winner)
	assert.Zero(t, rec.Amount)
}

func TestDescribeAllEmpty(t *testing.T) {
	assert.Equal(t, "", DescribeAll(nil, RenderConfig{}))
	assert.Equal(t, "", DescribeAll([]CompletedGame{}, RenderConfig{}))
}

func TestDescribeAllSeparatesWithTwoBlankLines(t *testing.T) {
	first := CompletedGame{Game: gameWithBids(nil), Message: "No bids were made in this game, game is closed without a winner."}
	second := CompletedGame{Game: gameWithBids(nil), Winner: "A", Amount: 10}

	text := DescribeAll([]CompletedGame{first, second}, RenderConfig{})

	parts := strings.Split(text, "\n\n\n")
	require.Len(t, parts, 2)
	assert.Equal(t, first.Describe(RenderConfig{}), parts[0])
	assert.Equal(t, second.Describe(RenderConfig{}), parts[1])
}
