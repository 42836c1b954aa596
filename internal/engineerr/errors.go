// Package engineerr defines the engine's error taxonomy. Every rejectable
// condition the engine can hit is a distinct, typed error so callers can
// errors.As against the specific failure instead of matching on strings.
package engineerr

import "fmt"

// --- Structural errors: the caller referenced something that doesn't exist. ---

// UnknownPlayer means the given player id has no corresponding Player.
type UnknownPlayer struct{ PlayerID string }

func (e *UnknownPlayer) Error() string { return fmt.Sprintf("unknown player: %s", e.PlayerID) }

// UnknownZone means the given zone id/type has no corresponding Zone.
type UnknownZone struct{ ZoneID string }

func (e *UnknownZone) Error() string { return fmt.Sprintf("unknown zone: %s", e.ZoneID) }

// UnknownEntity means the given instance/object/emblem id is not present
// in any zone.
type UnknownEntity struct{ EntityID string }

func (e *UnknownEntity) Error() string { return fmt.Sprintf("unknown entity: %s", e.EntityID) }

// UnknownDefinition means the given catalog id has no CardDefinition.
type UnknownDefinition struct{ DefinitionID string }

func (e *UnknownDefinition) Error() string {
	return fmt.Sprintf("unknown card definition: %s", e.DefinitionID)
}

// --- Legality errors: the action is well-formed but not currently allowed. ---

// IllegalTarget means a chosen target fails the ability/play's filter, or
// no target was chosen where one was required.
type IllegalTarget struct{ Reason string }

func (e *IllegalTarget) Error() string { return "illegal target: " + e.Reason }

// ZoneIneligible means the card cannot be played from its declared source
// zone (e.g. a zone other than Hand or Reserve, or a zone that doesn't
// hold it).
type ZoneIneligible struct{ Reason string }

func (e *ZoneIneligible) Error() string { return "zone ineligible: " + e.Reason }

// PhaseIneligible means the action is not legal during the current phase.
type PhaseIneligible struct {
	Phase  string
	Action string
}

func (e *PhaseIneligible) Error() string {
	return fmt.Sprintf("%s is not legal during %s", e.Action, e.Phase)
}

// NotActivePlayer means a player submitted an action during the other
// player's priority window.
type NotActivePlayer struct{ PlayerID string }

func (e *NotActivePlayer) Error() string {
	return fmt.Sprintf("player %s does not have priority", e.PlayerID)
}

// AlreadyPassed means the player already passed this Afternoon and cannot
// act again until the next turn cycle.
type AlreadyPassed struct{ PlayerID string }

func (e *AlreadyPassed) Error() string {
	return fmt.Sprintf("player %s already passed", e.PlayerID)
}

// AlreadyExpanded means the player already used their once-per-day Expand.
type AlreadyExpanded struct{ PlayerID string }

func (e *AlreadyExpanded) Error() string {
	return fmt.Sprintf("player %s already expanded this day", e.PlayerID)
}

// Exhausted means the object cannot be used because it is tapped.
type Exhausted struct{ ObjectID string }

func (e *Exhausted) Error() string { return fmt.Sprintf("object %s is exhausted", e.ObjectID) }

// --- Resource errors ---

// InsufficientMana means the available mana (orbs + terrain bonuses)
// cannot cover the requested cost.
type InsufficientMana struct {
	Needed    int
	Available int
}

func (e *InsufficientMana) Error() string {
	return fmt.Sprintf("insufficient mana: needed %d, available %d", e.Needed, e.Available)
}

// InsufficientTerrain means a specific terrain demand (forest/mountain/
// water) of the cost cannot be covered. Terrain demands are checked
// before the total, so this is reported whether or not total mana suffices.
type InsufficientTerrain struct {
	Terrain   string
	Needed    int
	Available int
}

func (e *InsufficientTerrain) Error() string {
	return fmt.Sprintf("insufficient %s: needed %d, available %d", e.Terrain, e.Needed, e.Available)
}

// --- Rule errors ---

// DefenderRestriction means an expedition cannot advance during Progress
// because a Defender (or Gigantic+Defender) restricts it.
type DefenderRestriction struct{ ExpeditionSide string }

func (e *DefenderRestriction) Error() string {
	return fmt.Sprintf("%s expedition is restricted by Defender", e.ExpeditionSide)
}

// ToughCostUnpaid means a targeting player failed to pay the Tough X
// surcharge required to target an opponent's Tough object.
type ToughCostUnpaid struct {
	ObjectID  string
	Surcharge int
}

func (e *ToughCostUnpaid) Error() string {
	return fmt.Sprintf("tough surcharge of %d unpaid to target %s", e.Surcharge, e.ObjectID)
}

// NoLegalExpeditionSlot means a Character/Expedition-Permanent had no
// chosen (or legal) expedition side at resolution time.
type NoLegalExpeditionSlot struct{ ObjectID string }

func (e *NoLegalExpeditionSlot) Error() string {
	return fmt.Sprintf("no legal expedition slot for %s", e.ObjectID)
}

// --- Internal errors: these should never surface; they indicate an engine bug. ---

// InvariantViolation indicates a broken internal invariant. It is recovered
// at the engine's outermost call boundary and returned, never left to
// propagate as a panic past the public API.
type InvariantViolation struct{ Detail string }

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Detail }

// Raise panics with an *InvariantViolation. Used deep in the engine where
// returning an error through every call frame would obscure the single
// place invariants are actually checked; the panic is recovered at the
// Engine's submit_action/advance_phase boundary.
func Raise(detail string) {
	panic(&InvariantViolation{Detail: detail})
}
