package engine

import (
	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"
)

// Action is the discriminated union of everything a player can submit:
// PlayCard, ActivateAbility, ConvertMana, Expand, Pass. Illegal plays
// come back as typed errors, never panics.
type Action interface {
	actionName() string
}

// PlayCard plays a card from Hand or Reserve through the four-part
// Card-Play Pipeline.
type PlayCard struct {
	// CardID is the instance id (Hand) or object id (Reserve).
	CardID   string
	FromZone zone.Type

	// ExpeditionSide must be chosen for Characters and
	// Expedition-Permanents.
	ExpeditionSide object.ExpeditionSide

	// Targets declared at intent; also consumed, in order, by the
	// card's effect-program select steps.
	Targets []string

	// UseScout selects the card's Scout X alternative cost.
	UseScout bool

	// Cost alterations supplied by external modifiers (play-for-free
	// effects and the like), applied in the fixed alteration order.
	CostIncreases    Cost
	CostDecreases    Cost
	CostMinimumFloor Cost
}

func (PlayCard) actionName() string { return "play_card" }

// ActivateAbility runs an in-play object's activated quick-action
// ability during Afternoon.
type ActivateAbility struct {
	ObjectID  string
	AbilityID string
	Targets   []string
}

func (ActivateAbility) actionName() string { return "activate_ability" }

// ConvertMana exhausts one ready orb to ready an exhausted one.
type ConvertMana struct {
	SourceOrbID string
	TargetOrbID string
}

func (ConvertMana) actionName() string { return "convert_mana" }

// Expand moves one card from Hand to the Mana zone as a face-down ready
// orb, once per day, during Morning.
type Expand struct {
	CardInHandID string
}

func (Expand) actionName() string { return "expand" }

// Pass ends the turn; two consecutive passes end the Afternoon.
type Pass struct{}

func (Pass) actionName() string { return "pass" }
