package vcg

import (
	"strconv"
	"strings"
)

// Bid is a single user's sealed bid in a game. A user has at most one
// active bid per game; a new bid replaces the old one.
type Bid struct {
	User     string
	Option   string // set only for games with options
	Amount   int64
	GameName string // command target, not persisted with the bid
}

// BidRecord is the persisted shape of a bid inside a game document.
type BidRecord struct {
	Amount int64  `bson:"amount" json:"amount"`
	Option string `bson:"option,omitempty" json:"option,omitempty"`
}

// ParseBidCommand parses "/bid game_name amount [option]".
func ParseBidCommand(text, username string) (Bid, error) {
	if username == "" {
		return Bid{}, newValidationError("empty username, how come 0_o")
	}

	tokens := strings.Fields(text)
	if len(tokens) < 2 || len(tokens) > 3 {
		return Bid{}, newValidationError("not enough or too many words in command, something is wrong")
	}

	amount, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return Bid{}, newValidationError("your bid amount is not an integer")
	}
	if amount < 0 {
		return Bid{}, newValidationError("you can't bid non-positive amounts")
	}

	bid := Bid{User: username, Amount: amount, GameName: tokens[0]}
	if len(tokens) == 3 {
		bid.Option = tokens[2]
	}
	return bid, nil
}

// Info describes the bid from a third-person point of view.
func (b Bid) Info() string {
	return "User " + b.User + " bid " + strconv.FormatInt(b.Amount, 10) + b.optionSuffix()
}

// ResponseInfo describes the bid back to its author.
func (b Bid) ResponseInfo() string {
	return "you bid *" + strconv.FormatInt(b.Amount, 10) + "*" + b.optionSuffix() +
		" in game *" + b.GameName + "*"
}

func (b Bid) optionSuffix() string {
	if b.Option == "" {
		return ""
	}
	return " for option *" + b.Option + "*"
}

// ToRecord flattens the bid for persistence.
func (b Bid) ToRecord() BidRecord {
	return BidRecord{Amount: b.Amount, Option: b.Option}
}

func bidFromRecord(user string, rec BidRecord) Bid {
	return Bid{User: user, Amount: rec.Amount, Option: rec.Option}
}
