package engine

import (
	"expedition-engine/internal/catalog"
	"expedition-engine/internal/mana"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"
)

// ActionOption describes one currently legal action for a player. The
// driver turns an option into a concrete Action value (filling in
// targets and sides) and submits it.
type ActionOption struct {
	Type        string // "play_card" | "activate_ability" | "convert_mana" | "expand" | "pass"
	CardID      string
	FromZone    zone.Type
	ObjectID    string
	AbilityID   string
	SourceOrbID string
	TargetOrbID string
	ScoutCost   int // > 0 when a Scout alternative is also legal
}

// LegalActions enumerates the actions playerID could legally submit in
// the current phase with current resources. The check is affordability-
// level, not full-simulation: a listed play can still fail on
// target-specific grounds (Tough surcharges for a chosen target).
func (e *Engine) LegalActions(playerID string) []ActionOption {
	gs := e.gs
	p, ok := gs.Player(playerID)
	if !ok || gs.Over {
		return nil
	}

	var out []ActionOption
	switch gs.CurrentPhase {
	case state.PhaseMorning:
		if !p.HasExpandedThisDay {
			for _, entity := range p.Zone(zone.TypeHand).All() {
				out = append(out, ActionOption{Type: "expand", CardID: entity.EntityID()})
			}
		}

	case state.PhaseAfternoon:
		if playerID != gs.CurrentPlayerID {
			return nil
		}
		out = append(out, ActionOption{Type: "pass"})
		avail := mana.AvailableFor(gs, playerID)

		for _, entity := range p.Zone(zone.TypeHand).All() {
			instance, ok := entity.(object.CardInstance)
			if !ok {
				continue
			}
			def := gs.Catalog.MustLookup(instance.DefinitionID)
			if opt, legal := playOption(avail, def, instance.InstanceID, zone.TypeHand); legal {
				out = append(out, opt)
			}
		}
		for _, entity := range p.Zone(zone.TypeReserve).All() {
			obj, ok := entity.(*object.GameObject)
			if !ok || obj.IsExhausted() {
				continue
			}
			def := gs.Catalog.MustLookup(obj.DefinitionID)
			if opt, legal := playOption(avail, def, obj.ObjectID, zone.TypeReserve); legal {
				out = append(out, opt)
			}
		}

		for _, obj := range gs.AllInPlayObjects() {
			if obj.ControllerID != playerID {
				continue
			}
			def := gs.Catalog.MustLookup(obj.DefinitionID)
			for _, ab := range def.AbilityDefinitions {
				if ab.Kind != catalog.AbilityActivated {
					continue
				}
				if mana.CanPay(avail, ab.Cost) != nil {
					continue
				}
				out = append(out, ActionOption{Type: "activate_ability", ObjectID: obj.ObjectID, AbilityID: ab.ID})
			}
		}

		out = append(out, convertOptions(p)...)
	}
	return out
}

// playOption reports whether def is affordable from the given zone, and
// annotates the cheaper Scout alternative when the card carries one.
func playOption(avail mana.Available, def catalog.CardDefinition, cardID string, from zone.Type) (ActionOption, bool) {
	cost := def.HandCost
	if from == zone.TypeReserve {
		cost = def.ReserveCost
	}
	opt := ActionOption{Type: "play_card", CardID: cardID, FromZone: from}

	affordable := mana.CanPay(avail, cost) == nil
	if x, hasScout := def.Keywords["Scout"]; hasScout {
		if mana.CanPay(avail, catalog.Cost{Generic: x}) == nil {
			opt.ScoutCost = x
			return opt, true
		}
	}
	return opt, affordable
}

func convertOptions(p *state.Player) []ActionOption {
	var ready, exhausted []string
	for _, entity := range p.Zone(zone.TypeMana).All() {
		obj, ok := entity.(*object.GameObject)
		if !ok {
			continue
		}
		if obj.IsExhausted() {
			exhausted = append(exhausted, obj.ObjectID)
		} else {
			ready = append(ready, obj.ObjectID)
		}
	}
	var out []ActionOption
	for _, src := range ready {
		for _, dst := range exhausted {
			out = append(out, ActionOption{Type: "convert_mana", SourceOrbID: src, TargetOrbID: dst})
		}
	}
	return out
}
