// Package adjudicator implements the rule adjudicator: the single
// RecomputeAll operation that derives every in-play object's current
// characteristics from base + all in-play passives, in a fixed pass
// order, idempotently.
package adjudicator

import (
	"sort"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
)

// world adapts *state.GameState to catalog.World so PassiveFuncs can
// query the board without internal/catalog importing internal/state.
type world struct {
	gs *state.GameState
}

func (w world) AllObjects() []catalog.ObjectView {
	objs := w.gs.AllInPlayObjects()
	out := make([]catalog.ObjectView, 0, len(objs))
	for _, o := range objs {
		out = append(out, view(o))
	}
	return out
}

func (w world) ObjectsControlledBy(controllerID string) []catalog.ObjectView {
	var out []catalog.ObjectView
	for _, o := range w.gs.AllInPlayObjects() {
		if o.ControllerID == controllerID {
			out = append(out, view(o))
		}
	}
	return out
}

func view(o *object.GameObject) catalog.ObjectView {
	return catalog.ObjectView{
		ObjectID:     o.ObjectID,
		ControllerID: o.ControllerID,
		Category:     o.Category,
		Base:         o.Base,
	}
}

// RecomputeAll runs the fixed five-pass recompute over every in-play
// object. It must be called after any state mutation that
// could affect passives — zone entry/exit, status change, counter
// change — before the engine surfaces a new legal-action set.
func RecomputeAll(gs *state.GameState) {
	objs := gs.AllInPlayObjects()
	w := world{gs: gs}

	// Pass order is fixed across all objects so that a passive granted by
	// object A can see object B's *base* (not yet-current) state: the
	// final result must be independent of object
	// ordering once all five passes have run over every object, which
	// this two-level loop (outer: all objects get base copied; middle:
	// all passive sources applied in timestamp order to all targets)
	// achieves without needing multiple fixpoint iterations, since no
	// passive here depends on another passive's *output* (only on raw
	// base statistics/keywords and in-play membership).

	// (1) copy base to current.
	for _, o := range objs {
		o.Current = o.Base.Clone()
	}

	// (2) apply passive abilities granted by in-play objects, in
	// timestamp order (earliest-materialized source applies first).
	sources := append([]*object.GameObject(nil), objs...)
	sort.Slice(sources, func(i, j int) bool { return sources[i].Timestamp < sources[j].Timestamp })

	for _, src := range sources {
		def := gs.Catalog.MustLookup(src.DefinitionID)
		for _, abDef := range def.AbilityDefinitions {
			if abDef.Kind != catalog.AbilityPassive || abDef.Passive == nil {
				continue
			}
			srcView := view(src)
			for _, target := range objs {
				abDef.Passive(w, srcView, &target.Current)
			}
		}
	}

	// (3) apply keyword-derived flags: normalize the Keywords map into
	// the boolean/int convenience fields passives and the Keyword
	// Handler read directly.
	for _, o := range objs {
		catalog.DeriveKeywordFlags(&o.Current)
	}

	// (4) ability grants/negates: GrantedAbilities/NegatedAbilityID are
	// populated directly by PassiveFuncs in pass (2); nothing further to
	// derive here beyond making sure negation wins over grant for the
	// same ability id on the same object.
	for _, o := range objs {
		c := &o.Current
		kept := c.GrantedAbilities[:0]
		for _, ab := range c.GrantedAbilities {
			if !c.NegatedAbilityID[ab.AbilityID] {
				kept = append(kept, ab)
			}
		}
		c.GrantedAbilities = kept
	}

	// (5) derive is_tough / has_defender / is_gigantic / is_seasoned /
	// is_eternal are already set in pass (3); is_boosted is derived from
	// counters, not characteristics, and exposed via IsBoosted below to
	// keep "boosted iff counters[Boost] > 0" true without storing a
	// redundant, potentially stale flag.
}

// IsBoosted reports the derived Boosted keyword: present
// iff the object carries at least one Boost counter.
func IsBoosted(o *object.GameObject) bool {
	return o.Counters[object.CounterBoost] > 0
}

// Characteristics returns an object's current characteristics, looking
// it up across every visible zone. The
// caller must have already run RecomputeAll since the last mutation;
// the engine enforces this at the submit_action/advance_phase boundary.
func Characteristics(gs *state.GameState, objectID string) (catalog.Characteristics, bool) {
	if obj, _ := gs.FindObject(objectID); obj != nil {
		return obj.Current, true
	}
	// Hero/expedition/landmark zones are already covered by FindObject's
	// zone set; nothing left to check for an in-play object.
	var zero catalog.Characteristics
	return zero, false
}
