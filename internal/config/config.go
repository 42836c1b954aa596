// Package config holds the engine's day-0 tunables: rule constants the
// game leaves configurable (hand-size draws) and the other defaults a
// fresh engine instance needs before Initialize is called.
package config

// Default values. The exact hand-size draw count per day is a
// configuration constant, not a hardcoded rule.
const (
	DefaultHandSizeDraws    = 2
	DefaultStartingHandSize = 5
	DefaultStartingManaOrbs = 3
	DefaultVictoryThreshold = 7
	DefaultMaxTurnsPerDay   = 200 // safety valve against a runaway automated driver
	DefaultMaxDays          = 500 // safety valve; real games end well before this
)

// GameConfig carries the constants that tune engine behavior without
// changing its rules. All fields are optional; NewGameConfig returns the
// defaulted struct and callers override individual fields before passing
// it to engine.New.
type GameConfig struct {
	// HandSizeDraws is how many cards the Noon phase's "draw to hand
	// size" routine draws, per player, per day.
	HandSizeDraws int

	// StartingHandSize is how many cards initialize() deals each player.
	StartingHandSize int

	// StartingManaOrbs is how many of the top N deck cards initialize()
	// converts into face-down ready Mana-Orbs.
	StartingManaOrbs int

	// VictoryThreshold is the combined expedition position a player must
	// reach, while being strictly ahead of the opponent, to win outright.
	VictoryThreshold int

	// MaxTurnsPerDay is a turn cap for the Afternoon loop; it is not a
	// game rule. The engine does not read it, so no turn limit is enforced.
	MaxTurnsPerDay int

	// MaxDays is a day cap for the whole match. The engine does not read
	// it, so no day limit is enforced.
	MaxDays int

	// AlternateFirstPlayer swaps first-player at each day advance.
	AlternateFirstPlayer bool
}

// NewGameConfig returns a GameConfig populated with engine defaults.
func NewGameConfig() GameConfig {
	return GameConfig{
		HandSizeDraws:    DefaultHandSizeDraws,
		StartingHandSize: DefaultStartingHandSize,
		StartingManaOrbs: DefaultStartingManaOrbs,
		VictoryThreshold: DefaultVictoryThreshold,
		MaxTurnsPerDay:   DefaultMaxTurnsPerDay,
		MaxDays:          DefaultMaxDays,

		AlternateFirstPlayer: true,
	}
}
