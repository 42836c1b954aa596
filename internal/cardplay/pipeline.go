// Package cardplay implements the card-play pipeline: the four-part,
// atomic-from-the-outside play process of declaring intent, moving to
// limbo, paying costs, and resolving to the final zone.
package cardplay

import (
	"context"
	"fmt"

	"expedition-engine/internal/adjudicator"
	"expedition-engine/internal/catalog"
	"expedition-engine/internal/engineerr"
	"expedition-engine/internal/events"
	"expedition-engine/internal/mana"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"
)

// Operation is one rollback-capable step of a play (grounded on
// transaction.Operation).
type Operation interface {
	Execute(ctx context.Context) error
	Rollback(ctx context.Context) error
	String() string
}

// Intent is a fully-declared play request: everything decided at step 1
// before any state mutation happens.
type Intent struct {
	PlayerID string

	// Exactly one of InstanceID (playing from Hand) or ObjectID (playing
	// from Reserve) must be set.
	InstanceID string
	ObjectID   string
	FromZone   zone.Type // zone.TypeHand or zone.TypeReserve

	Targets        []string              // object ids chosen as targets, for Tough X surcharge + downstream effect resolution
	ExpeditionSide object.ExpeditionSide // chosen for Character/Expedition-Permanent resolution
	ScoutCost      int                   // > 0 selects the Scout X alternative cost

	CostIncreases    catalog.Cost
	CostDecreases    catalog.Cost
	CostMinimumFloor catalog.Cost
}

// Result is what a successful Play returns. ObjectID names the object as
// it exists in its final zone (the Limbo transit minted an intermediate
// identity that no longer exists, per "new zone, new object").
type Result struct {
	ObjectID    string
	Object      *object.GameObject
	FinalZoneID string
	Definition  catalog.CardDefinition
}

// EffectRunner executes a spell's effect program during the resolve
// step, before the spell picks its destination zone. The engine supplies
// one composed from internal/effect.Run; a nil runner skips spell
// programs, which only tests use.
type EffectRunner func(controllerID, sourceObjectID string, program []catalog.Step) error

// Pipeline runs plays against one GameState.
type Pipeline struct {
	gs     *state.GameState
	runner EffectRunner
}

// New builds a Pipeline bound to gs.
func New(gs *state.GameState, runner EffectRunner) *Pipeline {
	return &Pipeline{gs: gs, runner: runner}
}

// Play executes the full four-part pipeline for intent. On any failure,
// every operation already executed is rolled back in reverse order and
// the triggering error is returned; the game state is left exactly as it
// was before Play was called.
func (p *Pipeline) Play(ctx context.Context, intent Intent) (Result, error) {
	def, err := p.declareIntent(intent)
	if err != nil {
		return Result{}, err
	}

	var executed []Operation
	rollback := func() {
		for i := len(executed) - 1; i >= 0; i-- {
			_ = executed[i].Rollback(ctx)
		}
	}

	limboOp := &moveToLimboOperation{gs: p.gs, intent: intent, def: def}
	if err := limboOp.Execute(ctx); err != nil {
		return Result{}, err
	}
	executed = append(executed, limboOp)

	costOp := &payCostsOperation{gs: p.gs, intent: intent, def: def, obj: limboOp.minted}
	if err := costOp.Execute(ctx); err != nil {
		rollback()
		return Result{}, err
	}
	executed = append(executed, costOp)

	resolveOp := &resolveOperation{gs: p.gs, intent: intent, def: def, obj: limboOp.minted, runner: p.runner}
	if err := resolveOp.Execute(ctx); err != nil {
		rollback()
		return Result{}, err
	}
	executed = append(executed, resolveOp)

	adjudicator.RecomputeAll(p.gs)

	events.Publish(p.gs.Bus, events.CardPlayed{
		PlayerID:     intent.PlayerID,
		ObjectID:     resolveOp.final.ObjectID,
		FromZoneID:   limboOp.sourceZoneID,
		FinalZoneID:  resolveOp.finalZoneID,
		DefinitionID: def.ID,
	})

	return Result{ObjectID: resolveOp.final.ObjectID, Object: resolveOp.final, FinalZoneID: resolveOp.finalZoneID, Definition: def}, nil
}

// declareIntent is step 1: validate the play is well-formed before any
// mutation. Returns the resolved CardDefinition.
func (p *Pipeline) declareIntent(intent Intent) (catalog.CardDefinition, error) {
	player, ok := p.gs.Player(intent.PlayerID)
	if !ok {
		return catalog.CardDefinition{}, &engineerr.UnknownPlayer{PlayerID: intent.PlayerID}
	}

	var definitionID string
	switch intent.FromZone {
	case zone.TypeHand:
		entity := player.Zone(zone.TypeHand).Find(intent.InstanceID)
		instance, ok := entity.(object.CardInstance)
		if !ok {
			return catalog.CardDefinition{}, &engineerr.ZoneIneligible{Reason: "card " + intent.InstanceID + " is not in hand"}
		}
		definitionID = instance.DefinitionID
	case zone.TypeReserve:
		entity := player.Zone(zone.TypeReserve).Find(intent.ObjectID)
		obj, ok := entity.(*object.GameObject)
		if !ok {
			return catalog.CardDefinition{}, &engineerr.ZoneIneligible{Reason: "object " + intent.ObjectID + " is not in reserve"}
		}
		if obj.IsExhausted() {
			return catalog.CardDefinition{}, &engineerr.Exhausted{ObjectID: intent.ObjectID}
		}
		definitionID = obj.DefinitionID
	default:
		return catalog.CardDefinition{}, &engineerr.ZoneIneligible{Reason: "cards can only be played from Hand or Reserve"}
	}

	def, err := p.gs.Catalog.Lookup(definitionID)
	if err != nil {
		return catalog.CardDefinition{}, err
	}

	for _, targetID := range intent.Targets {
		if _, z := p.gs.FindObject(targetID); z == nil {
			return catalog.CardDefinition{}, &engineerr.IllegalTarget{Reason: "target " + targetID + " does not exist"}
		}
	}

	if (def.Category == catalog.CategoryCharacter || def.Category == catalog.CategoryPermanent && def.Placement == catalog.PlacementExpedition) &&
		intent.ExpeditionSide == "" {
		return catalog.CardDefinition{}, &engineerr.IllegalTarget{Reason: "no expedition side chosen for " + def.Name}
	}

	return def, nil
}

// toughSurcharge sums the Tough X surcharge for every opponent-controlled
// target in intent.Targets. Targeting an opponent's Tough X object costs
// an additional X generic mana; self-targeting is free.
func toughSurcharge(gs *state.GameState, playerID string, targets []string) (int, error) {
	total := 0
	for _, targetID := range targets {
		obj, _ := gs.FindObject(targetID)
		if obj == nil {
			continue
		}
		if obj.ControllerID == playerID {
			continue
		}
		if obj.Current.IsToughX > 0 {
			total += obj.Current.IsToughX
		}
	}
	return total, nil
}

// --- Operations ---

// moveToLimboOperation is step 2: remove the entity from its source zone
// and mint a fresh GameObject in Limbo.
type moveToLimboOperation struct {
	gs     *state.GameState
	intent Intent
	def    catalog.CardDefinition

	sourceZoneID  string
	removedEntity zone.Entity
	minted        *object.GameObject
}

func (op *moveToLimboOperation) Execute(ctx context.Context) error {
	player, _ := op.gs.Player(op.intent.PlayerID)

	var src object.Source
	var sourceZone *zone.Zone
	var fromReserve bool

	switch op.intent.FromZone {
	case zone.TypeHand:
		sourceZone = player.Zone(zone.TypeHand)
		entity := sourceZone.Remove(op.intent.InstanceID)
		if entity == nil {
			return &engineerr.UnknownEntity{EntityID: op.intent.InstanceID}
		}
		op.removedEntity = entity
		instance := entity.(object.CardInstance)
		src = object.Source{Instance: &instance}
	case zone.TypeReserve:
		sourceZone = player.Zone(zone.TypeReserve)
		entity := sourceZone.Remove(op.intent.ObjectID)
		if entity == nil {
			return &engineerr.UnknownEntity{EntityID: op.intent.ObjectID}
		}
		op.removedEntity = entity
		obj := entity.(*object.GameObject)
		src = object.Source{Object: obj}
		fromReserve = true
	}
	op.sourceZoneID = sourceZone.ID

	minted := op.gs.Factory.MintObject(src, op.intent.PlayerID, nil)
	minted.ExpeditionAssignment = op.intent.ExpeditionSide
	if fromReserve {
		minted.Statuses[object.StatusFleeting] = true
	}
	if err := op.gs.LimboZone().Add(minted); err != nil {
		// restore the source entity before surfacing the error.
		_ = sourceZone.Add(op.removedEntity)
		return err
	}
	op.minted = minted

	adjudicator.RecomputeAll(op.gs)
	events.Publish(op.gs.Bus, events.EntityMoved{
		EntityID: minted.ObjectID, FromZoneID: op.sourceZoneID, ToZoneID: op.gs.LimboZone().ID, PlayerID: op.intent.PlayerID,
	})
	return nil
}

func (op *moveToLimboOperation) Rollback(ctx context.Context) error {
	if op.minted == nil {
		return nil
	}
	op.gs.LimboZone().Remove(op.minted.ObjectID)

	player, _ := op.gs.Player(op.intent.PlayerID)
	var sourceZone *zone.Zone
	switch op.intent.FromZone {
	case zone.TypeHand:
		sourceZone = player.Zone(zone.TypeHand)
	case zone.TypeReserve:
		sourceZone = player.Zone(zone.TypeReserve)
	}
	if sourceZone != nil && op.removedEntity != nil {
		_ = sourceZone.Add(op.removedEntity)
	}
	adjudicator.RecomputeAll(op.gs)
	return nil
}

func (op *moveToLimboOperation) String() string { return "move-to-limbo" }

// payCostsOperation is step 3: compute the final cost (base, increases,
// decreases, minimum floor, Tough surcharge, Scout alternative) and pay
// it, rolling back to pre-payment orb state on failure.
type payCostsOperation struct {
	gs     *state.GameState
	intent Intent
	def    catalog.CardDefinition
	obj    *object.GameObject

	exhaustedBefore map[string]bool // objectID -> was-exhausted, for every orb in the player's Mana zone
	applied         bool
}

func (op *payCostsOperation) finalCost() (catalog.Cost, error) {
	base := op.def.HandCost
	if op.intent.FromZone == zone.TypeReserve {
		base = op.def.ReserveCost
	}
	if op.intent.ScoutCost > 0 {
		base = catalog.Cost{Generic: op.intent.ScoutCost}
	}

	cost := catalog.Cost{
		Generic:  clampFloor(base.Generic+op.intent.CostIncreases.Generic-op.intent.CostDecreases.Generic, op.intent.CostMinimumFloor.Generic),
		Forest:   clampFloor(base.Forest+op.intent.CostIncreases.Forest-op.intent.CostDecreases.Forest, op.intent.CostMinimumFloor.Forest),
		Mountain: clampFloor(base.Mountain+op.intent.CostIncreases.Mountain-op.intent.CostDecreases.Mountain, op.intent.CostMinimumFloor.Mountain),
		Water:    clampFloor(base.Water+op.intent.CostIncreases.Water-op.intent.CostDecreases.Water, op.intent.CostMinimumFloor.Water),
	}

	surcharge, err := toughSurcharge(op.gs, op.intent.PlayerID, op.intent.Targets)
	if err != nil {
		return catalog.Cost{}, err
	}
	cost.Generic += surcharge
	return cost, nil
}

func clampFloor(v, floor int) int {
	if v < 0 {
		v = 0
	}
	if v < floor {
		v = floor
	}
	return v
}

func (op *payCostsOperation) Execute(ctx context.Context) error {
	cost, err := op.finalCost()
	if err != nil {
		return err
	}

	player, _ := op.gs.Player(op.intent.PlayerID)
	op.exhaustedBefore = map[string]bool{}
	for _, e := range player.Zone(zone.TypeMana).All() {
		if o, ok := e.(*object.GameObject); ok {
			op.exhaustedBefore[o.ObjectID] = o.IsExhausted()
		}
	}

	if err := mana.Pay(op.gs, op.intent.PlayerID, cost); err != nil {
		return err
	}
	op.applied = true
	events.Publish(op.gs.Bus, events.ManaSpent{PlayerID: op.intent.PlayerID, Amount: cost.Total()})
	return nil
}

func (op *payCostsOperation) Rollback(ctx context.Context) error {
	if !op.applied {
		return nil
	}
	player, _ := op.gs.Player(op.intent.PlayerID)
	for _, e := range player.Zone(zone.TypeMana).All() {
		o, ok := e.(*object.GameObject)
		if !ok {
			continue
		}
		wasExhausted, tracked := op.exhaustedBefore[o.ObjectID]
		if !tracked {
			continue
		}
		if wasExhausted {
			o.Statuses[object.StatusExhausted] = true
		} else {
			delete(o.Statuses, object.StatusExhausted)
		}
	}
	return nil
}

func (op *payCostsOperation) String() string { return "pay-costs" }

// resolveOperation is step 4: dispatch on category to the final zone.
type resolveOperation struct {
	gs     *state.GameState
	intent Intent
	def    catalog.CardDefinition
	obj    *object.GameObject
	runner EffectRunner

	final       *object.GameObject
	finalZoneID string
	landed      bool
}

func (op *resolveOperation) Execute(ctx context.Context) error {
	player, _ := op.gs.Player(op.intent.PlayerID)
	fleeting := op.obj.HasStatus(object.StatusFleeting) || op.obj.Current.IsFleeting

	// keepFleeting is the Reserve-granted Fleeting that follows the card
	// into its final zone (a character played from Reserve goes to
	// Discard, not Reserve, at Rest). A Landmark landing drops it.
	keepFleeting := op.obj.HasStatus(object.StatusFleeting)
	exhaustOnArrival := false

	var dest *zone.Zone
	switch {
	case op.def.Category == catalog.CategoryCharacter,
		op.def.Category == catalog.CategoryPermanent && op.def.Placement == catalog.PlacementExpedition:
		if op.intent.ExpeditionSide == "" {
			return &engineerr.NoLegalExpeditionSlot{ObjectID: op.obj.ObjectID}
		}
		dest = op.gs.ExpeditionZone()

	case op.def.Category == catalog.CategoryPermanent && op.def.Placement == catalog.PlacementLandmark:
		dest = player.Zone(zone.TypeLandmark)
		if op.intent.FromZone == zone.TypeReserve {
			keepFleeting = false
		}

	case op.def.Category == catalog.CategorySpell:
		// The spell effect resolves first; the caller's pre-action
		// snapshot, not this operation's Rollback, restores effect-step
		// mutations if a later failure aborts the play.
		if op.runner != nil {
			for _, ab := range op.def.AbilityDefinitions {
				if ab.Kind != catalog.AbilitySpell {
					continue
				}
				if err := op.runner(op.intent.PlayerID, op.obj.ObjectID, ab.Program); err != nil {
					return err
				}
			}
		}
		if _, hasCooldown := op.obj.Current.Keywords["Cooldown"]; hasCooldown {
			dest = player.Zone(zone.TypeReserve)
			exhaustOnArrival = true
		} else if fleeting {
			dest = player.Zone(zone.TypeDiscardPile)
		} else {
			dest = player.Zone(zone.TypeReserve)
		}

	default:
		dest = player.Zone(zone.TypeDiscardPile)
	}

	// Leaving Limbo mints yet another identity ("new zone, new object").
	// Counters survive only into Reserve.
	var carried map[object.CounterType]int
	if dest.TypeOf == zone.TypeReserve {
		carried = op.obj.Counters
	}

	op.gs.LimboZone().Remove(op.obj.ObjectID)
	minted := op.gs.Factory.MintObject(object.Source{Object: op.obj}, op.intent.PlayerID, carried)
	minted.ExpeditionAssignment = op.intent.ExpeditionSide
	if keepFleeting {
		minted.Statuses[object.StatusFleeting] = true
	}
	if exhaustOnArrival {
		minted.Statuses[object.StatusExhausted] = true
	}
	if err := dest.Add(minted); err != nil {
		// put back into Limbo so Rollback's precondition holds.
		_ = op.gs.LimboZone().Add(op.obj)
		return err
	}
	op.final = minted
	op.finalZoneID = dest.ID
	op.landed = true

	events.Publish(op.gs.Bus, events.EntityCeased{EntityID: op.obj.ObjectID, ZoneID: op.gs.LimboZone().ID})
	events.Publish(op.gs.Bus, events.EntityMoved{
		EntityID: minted.ObjectID, FromZoneID: op.gs.LimboZone().ID, ToZoneID: dest.ID, PlayerID: op.intent.PlayerID,
	})
	return nil
}

func (op *resolveOperation) Rollback(ctx context.Context) error {
	if !op.landed {
		return nil
	}
	player, _ := op.gs.Player(op.intent.PlayerID)
	for _, t := range []zone.Type{zone.TypeLandmark, zone.TypeReserve, zone.TypeDiscardPile} {
		if e := player.Zone(t).Remove(op.final.ObjectID); e != nil {
			break
		}
	}
	op.gs.ExpeditionZone().Remove(op.final.ObjectID)
	return op.gs.LimboZone().Add(op.obj)
}

func (op *resolveOperation) String() string { return fmt.Sprintf("resolve(%s)", op.def.Category) }
