// Package effect implements the effect processor: it executes an
// ability's step program to completion, verb by verb, publishing a
// granular event after each step.
package effect

import (
	"strings"

	"expedition-engine/internal/adjudicator"
	"expedition-engine/internal/catalog"
	"expedition-engine/internal/engineerr"
	"expedition-engine/internal/events"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"
)

// Resolver supplies the player decisions a step program cannot make on
// its own: which of a select step's candidates to pick, and whether an
// optional step is taken. The engine's PendingChoice suspension surface
// (internal/engine) is what actually asks the player; Resolver is the
// seam between that surface and this package so effect.Run stays a
// plain synchronous function.
type Resolver interface {
	ResolveTargets(step catalog.Step, candidates []string) []string
	ResolveOptional(step catalog.Step) bool
}

// Context is everything one Run call needs beyond the program itself.
type Context struct {
	GS             *state.GameState
	ControllerID   string
	SourceObjectID string
	Resolver       Resolver
}

// Run executes program to completion in order. Each step runs to
// completion and publishes its event before the next step begins; the
// Rule Adjudicator is re-run after every step so later steps see
// up-to-date characteristics. Run does not drain the
// Trigger/Reaction Queue — resolution atomicity requires that to happen
// only after the whole program finishes, which is the caller's
// responsibility.
func Run(ctx Context, program []catalog.Step) error {
	for _, step := range program {
		if step.Optional && !ctx.Resolver.ResolveOptional(step) {
			continue
		}
		if err := runStep(ctx, step); err != nil {
			return err
		}
		adjudicator.RecomputeAll(ctx.GS)
	}

	events.Publish(ctx.GS.Bus, events.EffectResolved{SourceObjectID: ctx.SourceObjectID})
	return nil
}

func runStep(ctx Context, step catalog.Step) error {
	switch step.Verb {
	case catalog.VerbDraw:
		return runDraw(ctx, step)
	case catalog.VerbDiscard:
		return runDiscard(ctx, step)
	case catalog.VerbPutInZone:
		return runPutInZone(ctx, step)
	case catalog.VerbModifyStats:
		return runModifyStats(ctx, step)
	case catalog.VerbGainStatus:
		return runGainStatus(ctx, step)
	case catalog.VerbLoseStatus:
		return runLoseStatus(ctx, step)
	case catalog.VerbGainCounter:
		return runGainCounter(ctx, step)
	case catalog.VerbSpendCounter:
		return runSpendCounter(ctx, step)
	case catalog.VerbCreateToken:
		return runCreateToken(ctx, step)
	case catalog.VerbSelectAndApply:
		return runSelectAndApply(ctx, step)
	default:
		return catalog.ValidateVerb(step.Verb)
	}
}

// resolvePlayerTargets interprets a TargetSpec whose meaning is a set of
// player ids (self/controller resolve directly to the controller; select
// is not meaningful for player-scoped verbs like draw/discard-from-hand
// and is rejected).
func resolvePlayerTargets(ctx Context, spec catalog.TargetSpec) ([]string, error) {
	switch spec.Kind {
	case catalog.TargetSelf, catalog.TargetController:
		return []string{ctx.ControllerID}, nil
	default:
		return nil, &engineerr.IllegalTarget{Reason: "player-scoped step cannot use a select target"}
	}
}

// resolveObjectTargets interprets a TargetSpec whose meaning is a set of
// in-play object ids.
func resolveObjectTargets(ctx Context, step catalog.Step) ([]string, error) {
	switch step.Targets.Kind {
	case catalog.TargetSelf:
		return []string{ctx.SourceObjectID}, nil
	case catalog.TargetController:
		var ids []string
		for _, o := range ctx.GS.AllInPlayObjects() {
			if o.ControllerID == ctx.ControllerID {
				ids = append(ids, o.ObjectID)
			}
		}
		return ids, nil
	case catalog.TargetSelect:
		candidates := filterCandidates(ctx.GS, ctx.ControllerID, step.Targets.Filter)
		selected := ctx.Resolver.ResolveTargets(step, candidates)
		if len(selected) < step.Targets.Count {
			return nil, &engineerr.IllegalTarget{Reason: "not enough legal targets selected"}
		}
		return selected, nil
	default:
		return nil, &engineerr.IllegalTarget{Reason: "unknown target kind"}
	}
}

func filterCandidates(gs *state.GameState, actingPlayerID string, f catalog.Filter) []string {
	var pool []*object.GameObject
	if f.Zone == "" {
		pool = gs.AllInPlayObjects()
	} else {
		t := zone.Type(f.Zone)
		for _, id := range gs.PlayerOrder {
			p, _ := gs.Player(id)
			for _, e := range p.Zone(t).All() {
				if o, ok := e.(*object.GameObject); ok {
					pool = append(pool, o)
				}
			}
		}
	}

	var out []string
	for _, o := range pool {
		if !matchesFilter(o, actingPlayerID, f) {
			continue
		}
		out = append(out, o.ObjectID)
	}
	return out
}

func matchesFilter(o *object.GameObject, actingPlayerID string, f catalog.Filter) bool {
	if f.ControllerSelf != nil {
		if *f.ControllerSelf != (o.ControllerID == actingPlayerID) {
			return false
		}
	}
	if f.Category != "" && o.Category != f.Category {
		return false
	}
	if f.Keyword != "" {
		if _, ok := o.Current.Keywords[f.Keyword]; !ok {
			return false
		}
	}
	s := o.Current.Statistics
	if f.MinForest != nil && s.Forest < *f.MinForest {
		return false
	}
	if f.MaxForest != nil && s.Forest > *f.MaxForest {
		return false
	}
	if f.MinMountain != nil && s.Mountain < *f.MinMountain {
		return false
	}
	if f.MaxMountain != nil && s.Mountain > *f.MaxMountain {
		return false
	}
	if f.MinWater != nil && s.Water < *f.MinWater {
		return false
	}
	if f.MaxWater != nil && s.Water > *f.MaxWater {
		return false
	}
	return true
}

func intParam(step catalog.Step, key string, fallback int) int {
	if v, ok := step.Parameters[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return fallback
}

func stringParam(step catalog.Step, key string) string {
	if v, ok := step.Parameters[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func runDraw(ctx Context, step catalog.Step) error {
	players, err := resolvePlayerTargets(ctx, step.Targets)
	if err != nil {
		return err
	}
	count := intParam(step, "count", ctx.GS.Config.HandSizeDraws)

	for _, playerID := range players {
		p, ok := ctx.GS.Player(playerID)
		if !ok {
			return &engineerr.UnknownPlayer{PlayerID: playerID}
		}
		for i := 0; i < count; i++ {
			e := p.Zone(zone.TypeDeck).DrawTop()
			if e == nil {
				break
			}
			if err := p.Zone(zone.TypeHand).Add(e); err != nil {
				return err
			}
			events.Publish(ctx.GS.Bus, events.EntityMoved{
				EntityID: e.EntityID(), FromZoneID: p.Zone(zone.TypeDeck).ID, ToZoneID: p.Zone(zone.TypeHand).ID, PlayerID: playerID,
			})
		}
	}
	return nil
}

func runDiscard(ctx Context, step catalog.Step) error {
	fromHand := step.Parameters["fromHand"] == true
	if fromHand {
		players, err := resolvePlayerTargets(ctx, step.Targets)
		if err != nil {
			return err
		}
		count := intParam(step, "count", 1)
		for _, playerID := range players {
			p, _ := ctx.GS.Player(playerID)
			for i := 0; i < count; i++ {
				entities := p.Zone(zone.TypeHand).All()
				if len(entities) == 0 {
					break
				}
				e := entities[0]
				p.Zone(zone.TypeHand).Remove(e.EntityID())
				if err := p.Zone(zone.TypeDiscardPile).Add(e); err != nil {
					return err
				}
				events.Publish(ctx.GS.Bus, events.EntityMoved{
					EntityID: e.EntityID(), FromZoneID: p.Zone(zone.TypeHand).ID, ToZoneID: p.Zone(zone.TypeDiscardPile).ID, PlayerID: playerID,
				})
			}
		}
		return nil
	}

	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	for _, id := range targets {
		if err := moveToZone(ctx, id, zone.TypeDiscardPile); err != nil {
			return err
		}
	}
	return nil
}

func runPutInZone(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	destType := zone.Type(stringParam(step, "zone"))
	for _, id := range targets {
		if err := moveToZone(ctx, id, destType); err != nil {
			return err
		}
	}
	return nil
}

// moveToZone relocates an in-play object to a new visible zone, minting
// a fresh GameObject identity per the "new zone, new object" rule.
// Statuses are always dropped; counters are dropped unless the
// destination is Reserve/Limbo coming from Reserve/Limbo.
func moveToZone(ctx Context, objectID string, destType zone.Type) error {
	obj, srcZone := ctx.GS.FindObject(objectID)
	if obj == nil {
		return &engineerr.UnknownEntity{EntityID: objectID}
	}

	var dest *zone.Zone
	if destType == zone.TypeExpedition || destType == zone.TypeLimbo || destType == zone.TypeAdventure {
		dest = sharedZone(ctx.GS, destType)
	} else {
		p, ok := ctx.GS.Player(obj.ControllerID)
		if !ok {
			return &engineerr.UnknownPlayer{PlayerID: obj.ControllerID}
		}
		dest = p.Zone(destType)
	}
	if dest == nil {
		return &engineerr.UnknownZone{ZoneID: string(destType)}
	}

	var carried map[object.CounterType]int
	preservesCounters := (srcZone.TypeOf == zone.TypeReserve || srcZone.TypeOf == zone.TypeLimbo) &&
		(destType == zone.TypeReserve || destType == zone.TypeLimbo)
	if preservesCounters {
		carried = obj.Counters
	}

	srcZone.Remove(objectID)
	minted := ctx.GS.Factory.MintObject(object.Source{Object: obj}, obj.ControllerID, carried)
	if err := dest.Add(minted); err != nil {
		return err
	}

	events.Publish(ctx.GS.Bus, events.EntityCeased{EntityID: objectID, ZoneID: srcZone.ID})
	events.Publish(ctx.GS.Bus, events.EntityMoved{
		EntityID: minted.ObjectID, FromZoneID: srcZone.ID, ToZoneID: dest.ID, PlayerID: obj.ControllerID,
	})
	return nil
}

func sharedZone(gs *state.GameState, t zone.Type) *zone.Zone {
	switch t {
	case zone.TypeExpedition:
		return gs.Shared.Expedition
	case zone.TypeLimbo:
		return gs.Shared.Limbo
	case zone.TypeAdventure:
		return gs.Shared.Adventure
	default:
		return nil
	}
}

// runModifyStats applies a permanent or temporary statistic change.
// duration == "permanent" mutates the object's base statistics (so the
// change survives recompute); any other duration value stacks Boost
// counters instead, since Boost is the engine's only built-in
// expiring-statistic-bonus mechanism. Nothing clears these counters
// when the named duration ends; the duration is only reported in the
// StatisticsModified event.
func runModifyStats(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	forest := intParam(step, "forest", 0)
	mountain := intParam(step, "mountain", 0)
	water := intParam(step, "water", 0)
	duration := stringParam(step, "duration")
	if duration == "" {
		duration = "permanent"
	}

	for _, id := range targets {
		obj, _ := ctx.GS.FindObject(id)
		if obj == nil {
			return &engineerr.UnknownEntity{EntityID: id}
		}
		if strings.EqualFold(duration, "permanent") {
			obj.Base.Statistics.Forest += forest
			obj.Base.Statistics.Mountain += mountain
			obj.Base.Statistics.Water += water
		} else {
			boost := forest
			if mountain > boost {
				boost = mountain
			}
			if water > boost {
				boost = water
			}
			if boost < 1 {
				boost = 1
			}
			obj.Counters[object.CounterBoost] += boost
		}
		events.Publish(ctx.GS.Bus, events.StatisticsModified{
			ObjectID: id, Forest: forest, Mountain: mountain, Water: water, Duration: duration,
		})
	}
	return nil
}

func runGainStatus(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	status := object.Status(stringParam(step, "status"))
	for _, id := range targets {
		obj, _ := ctx.GS.FindObject(id)
		if obj == nil {
			return &engineerr.UnknownEntity{EntityID: id}
		}
		obj.Statuses[status] = true
		events.Publish(ctx.GS.Bus, events.StatusGained{ObjectID: id, Status: string(status)})
	}
	return nil
}

func runLoseStatus(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	status := object.Status(stringParam(step, "status"))
	for _, id := range targets {
		obj, _ := ctx.GS.FindObject(id)
		if obj == nil {
			return &engineerr.UnknownEntity{EntityID: id}
		}
		delete(obj.Statuses, status)
		events.Publish(ctx.GS.Bus, events.StatusLost{ObjectID: id, Status: string(status)})
	}
	return nil
}

func runGainCounter(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	counterType := object.CounterType(stringParam(step, "counterType"))
	amount := intParam(step, "amount", 1)
	for _, id := range targets {
		obj, _ := ctx.GS.FindObject(id)
		if obj == nil {
			return &engineerr.UnknownEntity{EntityID: id}
		}
		old := obj.Counters[counterType]
		obj.Counters[counterType] = old + amount
		events.Publish(ctx.GS.Bus, events.CounterChanged{
			ObjectID: id, CounterType: string(counterType), OldValue: old, NewValue: old + amount,
		})
	}
	return nil
}

func runSpendCounter(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	counterType := object.CounterType(stringParam(step, "counterType"))
	amount := intParam(step, "amount", 1)
	for _, id := range targets {
		obj, _ := ctx.GS.FindObject(id)
		if obj == nil {
			return &engineerr.UnknownEntity{EntityID: id}
		}
		old := obj.Counters[counterType]
		newVal := old - amount
		if newVal < 0 {
			newVal = 0
		}
		obj.Counters[counterType] = newVal
		events.Publish(ctx.GS.Bus, events.CounterChanged{
			ObjectID: id, CounterType: string(counterType), OldValue: old, NewValue: newVal,
		})
	}
	return nil
}

func runCreateToken(ctx Context, step catalog.Step) error {
	definitionID := stringParam(step, "definitionID")
	destType := zone.Type(stringParam(step, "zone"))
	if destType == "" {
		destType = zone.TypeExpedition
	}

	instance := object.CardInstance{DefinitionID: definitionID, OwnerID: ctx.ControllerID}
	minted := ctx.GS.Factory.MintObject(object.Source{Instance: &instance}, ctx.ControllerID, nil)

	dest := sharedZone(ctx.GS, destType)
	if dest == nil {
		p, ok := ctx.GS.Player(ctx.ControllerID)
		if !ok {
			return &engineerr.UnknownPlayer{PlayerID: ctx.ControllerID}
		}
		dest = p.Zone(destType)
	}
	if dest == nil {
		return &engineerr.UnknownZone{ZoneID: string(destType)}
	}
	if err := dest.Add(minted); err != nil {
		return err
	}

	events.Publish(ctx.GS.Bus, events.EntityMoved{
		EntityID: minted.ObjectID, FromZoneID: "", ToZoneID: dest.ID, PlayerID: ctx.ControllerID,
	})
	return nil
}

// runSelectAndApply resolves a select target, then runs a nested
// sub-program against each selected object in turn, with that object
// substituted as the sub-program's "self" target.
func runSelectAndApply(ctx Context, step catalog.Step) error {
	targets, err := resolveObjectTargets(ctx, step)
	if err != nil {
		return err
	}
	sub, _ := step.Parameters["program"].([]catalog.Step)

	for _, id := range targets {
		subCtx := ctx
		subCtx.SourceObjectID = id
		if err := Run(subCtx, sub); err != nil {
			return err
		}
	}
	return nil
}
