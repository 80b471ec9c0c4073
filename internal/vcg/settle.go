package vcg

import (
	"math/rand"
	"sort"
	"strconv"
)

const (
	msgNoBids    = "No bids were made in this game, game is closed without a winner."
	msgSingleBid = "There was only one bid made in this game. The winner doesn't pay."
	msgNobody    = "Nobody pays"
	msgRandomTie = "Two persons bid same amount, tie was broken at random."
)

// Finalize settles a game whose deadline has passed and produces the
// outcome. The caller is responsible for checking the clock; Finalize never
// reads it. Structural invariants (every option-tagged bid references a
// declared option, one bid per user) are assumed, not validated.
func Finalize(game Game) CompletedGame {
	if len(game.Bids) == 0 {
		return CompletedGame{Game: game, Message: msgNoBids}
	}

	if len(game.Bids) == 1 {
		for _, bid := range game.Bids {
			return CompletedGame{
				Game:    game,
				Winner:  bid.User,
				Amount:  0,
				Option:  bid.Option,
				Message: msgSingleBid,
			}
		}
	}

	if len(game.Options) > 0 {
		return finalizeWithOptions(game)
	}
	return finalizePlain(game)
}

// finalizeWithOptions picks the option with the largest total of bids and
// charges each winning-side bidder the externality its bid imposes on the
// runner-up option, stopping at the first bidder below break-even.
func finalizeWithOptions(game Game) CompletedGame {
	totals := map[string]int64{}
	for _, bid := range game.Bids {
		totals[bid.Option] += bid.Amount
	}

	// Ties on the largest total go to the option declared first.
	var winnerOption string
	var winnerTotal int64 = -1
	for _, option := range game.Options {
		if total, ok := totals[option]; ok && total > winnerTotal {
			winnerOption = option
			winnerTotal = total
		}
	}

	var secondTotal int64
	for option, total := range totals {
		if option != winnerOption && total > secondTotal {
			secondTotal = total
		}
	}

	if winnerTotal == secondTotal {
		return CompletedGame{Game: game, Option: winnerOption, Message: msgNobody}
	}

	winnerBids := make([]Bid, 0, len(game.Bids))
	for _, bid := range game.Bids {
		if bid.Option == winnerOption {
			winnerBids = append(winnerBids, bid)
		}
	}
	sort.SliceStable(winnerBids, func(i, j int) bool {
		return winnerBids[i].Amount > winnerBids[j].Amount
	})

	message := ""
	for _, bid := range winnerBids {
		effect := secondTotal - (winnerTotal - bid.Amount)
		if effect <= 0 {
			break
		}
		message += "user *" + bid.User + "* pays *" + strconv.FormatInt(effect, 10) + "*\n"
	}

	if message == "" {
		return CompletedGame{Game: game, Option: winnerOption, Message: msgNobody}
	}
	return CompletedGame{Game: game, Option: winnerOption, Message: message}
}

// finalizePlain applies the classic second-price rule: the highest bidder
// wins and pays the second-highest amount. An exact tie between the top two
// is broken uniformly at random.
func finalizePlain(game Game) CompletedGame {
	var winnersBid Bid
	first := true
	for _, bid := range game.Bids {
		if first || bid.Amount > winnersBid.Amount {
			winnersBid = bid
			first = false
		}
	}

	var secondBid Bid
	first = true
	for _, bid := range game.Bids {
		if bid.User == winnersBid.User {
			continue
		}
		if first || bid.Amount > secondBid.Amount {
			secondBid = bid
			first = false
		}
	}

	if winnersBid.Amount == secondBid.Amount {
		winner := winnersBid.User
		if rand.Intn(2) == 0 {
			winner = secondBid.User
		}
		return CompletedGame{
			Game:    game,
			Winner:  winner,
			Amount:  secondBid.Amount,
			Message: msgRandomTie,
		}
	}

	return CompletedGame{Game: game, Winner: winnersBid.User, Amount: secondBid.Amount}
}

// FinalizeAll settles every game in order.
func FinalizeAll(games []Game) []CompletedGame {
	completed := make([]CompletedGame, 0, len(games))
	for _, game := range games {
		completed = append(completed, Finalize(game))
	}
	return completed
}
