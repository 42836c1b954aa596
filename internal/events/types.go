package events

// Payload types for every event the engine emits. Each is published via
// Publish(bus, payload) and subscribed to via Subscribe[PayloadType].

// EntityMoved fires whenever an entity changes zones.
type EntityMoved struct {
	EntityID   string
	FromZoneID string
	ToZoneID   string
	PlayerID   string
}

// EntityCeased fires when an object identity ends because the object left
// its zone; a zone move publishes it for the old id, followed by an
// EntityMoved for the freshly minted one.
type EntityCeased struct {
	EntityID string
	ZoneID   string
}

// PhaseChanged fires on every phase transition.
type PhaseChanged struct {
	Day   int
	Phase string
}

// TurnAdvanced fires whenever priority/turn passes to the other player
// during Afternoon.
type TurnAdvanced struct {
	Day             int
	NewActivePlayer string
}

// DayAdvanced fires once per day increment (end of Night).
type DayAdvanced struct {
	NewDay        int
	FirstPlayerID string
}

// ManaSpent fires whenever a player pays a cost.
type ManaSpent struct {
	PlayerID string
	Amount   int
}

// StatusGained fires when an object gains a status.
type StatusGained struct {
	ObjectID string
	Status   string
}

// StatusLost fires when an object loses a status.
type StatusLost struct {
	ObjectID string
	Status   string
}

// CounterChanged fires when a counter on an object changes.
type CounterChanged struct {
	ObjectID    string
	CounterType string
	OldValue    int
	NewValue    int
}

// StatisticsModified fires for each target of an effect step's
// modify_stats verb, whether the change went to base statistics
// (permanent) or to Boost counters (any other duration).
type StatisticsModified struct {
	ObjectID string
	Forest   int
	Mountain int
	Water    int
	Duration string
}

// CardPlayed fires once at the end of the Card-Play Pipeline. Triggers
// that key off "when played" respond to this event, not the Limbo
// transit.
type CardPlayed struct {
	PlayerID     string
	ObjectID     string
	FromZoneID   string
	FinalZoneID  string
	DefinitionID string
}

// EffectResolved fires after an effect program finishes running all of
// its steps.
type EffectResolved struct {
	SourceObjectID string
	AbilityID      string
}

// ReactionQueued fires whenever a new emblem is materialized into Limbo.
type ReactionQueued struct {
	EmblemID       string
	ControllerID   string
	SourceObjectID string
}

// DayWon fires when the Victory Check or the Arena tiebreaker determines
// a winner.
type DayWon struct {
	WinnerID string
	Reason   string
}
