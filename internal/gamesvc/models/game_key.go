package models

// GameKey identifies an active game.
type GameKey struct {
	Team string
	Name string
}
