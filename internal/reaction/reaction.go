// Package reaction implements the trigger/reaction queue: it
// materializes emblems from published events and drains them under
// active-player-first, materialization-order discipline.
package reaction

import (
	"sort"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/events"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
)

// Resolver runs one emblem's ability program to completion. The engine
// supplies this (internal/engine composes it from internal/effect.Run).
type Resolver func(gs *state.GameState, emblem *object.Emblem) error

// RegisterAll subscribes the reaction queue to every event type a
// trigger can key off. Call once per GameState after construction.
//
// Triggers on "leaving play" need a snapshot taken *before* the object's
// zone removal, which a generic post-publish subscription cannot recover
// (the object is already gone from every zone by the time its EntityMoved
// event fires). Those triggers are materialized explicitly by the moving
// code via ObserveWithSnapshot instead of through this registry; this is
// a deliberate scope split, not an oversight — see DESIGN.md.
func RegisterAll(gs *state.GameState) {
	events.Subscribe(gs.Bus, func(e events.CardPlayed) { materialize(gs, "CardPlayed", e) })
	events.Subscribe(gs.Bus, func(e events.EntityMoved) { materialize(gs, "EntityMoved", e) })
	events.Subscribe(gs.Bus, func(e events.StatusGained) { materialize(gs, "StatusGained", e) })
	events.Subscribe(gs.Bus, func(e events.StatusLost) { materialize(gs, "StatusLost", e) })
	events.Subscribe(gs.Bus, func(e events.CounterChanged) { materialize(gs, "CounterChanged", e) })
	events.Subscribe(gs.Bus, func(e events.StatisticsModified) { materialize(gs, "StatisticsModified", e) })
	events.Subscribe(gs.Bus, func(e events.PhaseChanged) { materialize(gs, "PhaseChanged", e) })
	events.Subscribe(gs.Bus, func(e events.TurnAdvanced) { materialize(gs, "TurnAdvanced", e) })
	events.Subscribe(gs.Bus, func(e events.DayAdvanced) { materialize(gs, "DayAdvanced", e) })
	events.Subscribe(gs.Bus, func(e events.EffectResolved) { materialize(gs, "EffectResolved", e) })
}

// materialize scans every in-play object's triggered abilities for a
// match against eventTypeName and, for each, evaluates its condition
// against the current object's own snapshot.
func materialize(gs *state.GameState, eventTypeName string, payload any) {
	for _, obj := range gs.AllInPlayObjects() {
		def := gs.Catalog.MustLookup(obj.DefinitionID)
		for _, ab := range def.AbilityDefinitions {
			if ab.Kind != catalog.AbilityTriggered || ab.Trigger == nil || ab.Trigger.EventType != eventTypeName {
				continue
			}
			snapshot := *obj.DeepCopy()
			if ab.Trigger.Condition != nil && !ab.Trigger.Condition(payload, snapshot) {
				continue
			}
			enqueue(gs, ab.ID, obj.ObjectID, obj.ControllerID, snapshot, payload)
		}
	}
}

// ObserveWithSnapshot materializes "leaving play" triggers using a
// snapshot captured by the caller before the object left its zone.
func ObserveWithSnapshot(gs *state.GameState, eventTypeName string, snapshot object.GameObject, payload any) {
	def := gs.Catalog.MustLookup(snapshot.DefinitionID)
	for _, ab := range def.AbilityDefinitions {
		if ab.Kind != catalog.AbilityTriggered || ab.Trigger == nil || ab.Trigger.EventType != eventTypeName {
			continue
		}
		if ab.Trigger.Condition != nil && !ab.Trigger.Condition(payload, snapshot) {
			continue
		}
		enqueue(gs, ab.ID, snapshot.ObjectID, snapshot.ControllerID, snapshot, payload)
	}
}

func enqueue(gs *state.GameState, abilityID, sourceObjectID, controllerID string, snapshot object.GameObject, payload any) {
	ability := catalog.AbilityInstance{AbilityID: abilityID, SourceObjectID: sourceObjectID}
	emblem := gs.Factory.MintEmblem(ability, controllerID, snapshot, payload)
	if err := gs.LimboZone().Add(emblem); err != nil {
		return
	}
	events.Publish(gs.Bus, events.ReactionQueued{
		EmblemID: emblem.EmblemID, ControllerID: controllerID, SourceObjectID: sourceObjectID,
	})
}

// scoutRetreatAbilityID names the synthetic "send self to Reserve"
// reaction Scout X grants.
const scoutRetreatAbilityID = "__scout_retreat"

// EnqueueScoutRetreat queues a Scout-played object's temporary
// "send me to Reserve" reaction. Must be called after any other on-enter
// triggers for the same object have already been enqueued, so its later
// monotonic timestamp resolves it after them under materialization-order
// discipline.
func EnqueueScoutRetreat(gs *state.GameState, obj *object.GameObject) {
	enqueue(gs, scoutRetreatAbilityID, obj.ObjectID, obj.ControllerID, *obj.DeepCopy(), nil)
}

// IsScoutRetreat reports whether emblem is the synthetic Scout-retreat
// reaction, so a Resolver can special-case it instead of looking it up
// in the catalog (it has no CardDefinition entry).
func IsScoutRetreat(emblem *object.Emblem) bool {
	return emblem.Ability.AbilityID == scoutRetreatAbilityID
}

func limboEmblems(gs *state.GameState) []*object.Emblem {
	var out []*object.Emblem
	for _, e := range gs.LimboZone().All() {
		if em, ok := e.(*object.Emblem); ok {
			out = append(out, em)
		}
	}
	return out
}

// DrainAll resolves every emblem currently in Limbo, one at a time,
// under active-player-first-then-materialization-order discipline: the
// active player resolves one of their own emblems;
// when they have none, the opponent resolves one of theirs; loop until
// Limbo holds no more emblems. Resolving an emblem may enqueue new ones,
// which the loop picks back up.
func DrainAll(gs *state.GameState, resolve Resolver) error {
	for {
		emblems := limboEmblems(gs)
		if len(emblems) == 0 {
			return nil
		}

		pool := byController(emblems, gs.CurrentPlayerID)
		if len(pool) == 0 {
			pool = byController(emblems, gs.Opponent(gs.CurrentPlayerID))
		}
		if len(pool) == 0 {
			return nil
		}

		sort.Slice(pool, func(i, j int) bool { return pool[i].Seq < pool[j].Seq })
		next := pool[0]
		gs.LimboZone().Remove(next.EmblemID)

		if err := resolve(gs, next); err != nil {
			return err
		}
	}
}

func byController(emblems []*object.Emblem, controllerID string) []*object.Emblem {
	var out []*object.Emblem
	for _, e := range emblems {
		if e.ControllerID == controllerID {
			out = append(out, e)
		}
	}
	return out
}
