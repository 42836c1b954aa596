// Package mana implements the mana economy: availability, payment,
// expansion, and conversion over a player's Mana-Orb zone plus
// terrain-statistic bonuses from in-play characters.
package mana

import (
	"sort"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/engineerr"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"
)

// Available is the mana picture for one player at a point in time.
type Available struct {
	Total     int
	Forest    int
	Mountain  int
	Water     int
	OrbsReady int
}

// terrainSources returns every object whose statistics contribute mana:
// the player's Hero, their Expedition-zone characters, and their
// Landmark-zone permanents.
func terrainSources(gs *state.GameState, playerID string) []*object.GameObject {
	p, ok := gs.Player(playerID)
	if !ok {
		engineerr.Raise("mana: unknown player " + playerID)
	}
	var out []*object.GameObject
	collect := func(z *zone.Zone) {
		for _, e := range z.All() {
			if obj, ok := e.(*object.GameObject); ok && obj.ControllerID == playerID {
				out = append(out, obj)
			}
		}
	}
	collect(p.Zone(zone.TypeHero))
	collect(p.Zone(zone.TypeLandmark))
	collect(gs.ExpeditionZone())
	return out
}

// TerrainContribution returns an object's forest/mountain/water
// contribution: its current statistics, plus its Boost counter count
// added to every terrain.
func TerrainContribution(o *object.GameObject) catalog.Statistics {
	s := o.Current.Statistics
	if boost := o.Counters[object.CounterBoost]; boost > 0 {
		s.Forest += boost
		s.Mountain += boost
		s.Water += boost
	}
	return s
}

func readyOrbs(p *state.Player) []*object.GameObject {
	var out []*object.GameObject
	for _, e := range p.Zone(zone.TypeMana).All() {
		if obj, ok := e.(*object.GameObject); ok && !obj.IsExhausted() {
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// AvailableFor computes a player's current mana picture.
func AvailableFor(gs *state.GameState, playerID string) Available {
	p, ok := gs.Player(playerID)
	if !ok {
		engineerr.Raise("mana: unknown player " + playerID)
	}

	var terrain catalog.Statistics
	for _, src := range terrainSources(gs, playerID) {
		terrain = terrain.Add(TerrainContribution(src))
	}

	orbsReady := len(readyOrbs(p))
	total := orbsReady + terrain.Forest + terrain.Mountain + terrain.Water
	if p.CurrentManaOverride != nil {
		// A card effect pinned the player's total for the turn; terrain
		// breakdowns still report truthfully for terrain-demand checks.
		total = *p.CurrentManaOverride
	}
	return Available{
		Total:     total,
		Forest:    terrain.Forest,
		Mountain:  terrain.Mountain,
		Water:     terrain.Water,
		OrbsReady: orbsReady,
	}
}

// CanPay reports whether cost is payable from avail: each terrain
// demand must be individually met, and the cost's total must not exceed
// the total available.
func CanPay(avail Available, cost catalog.Cost) error {
	if cost.Forest > avail.Forest {
		return &engineerr.InsufficientTerrain{Terrain: "forest", Needed: cost.Forest, Available: avail.Forest}
	}
	if cost.Mountain > avail.Mountain {
		return &engineerr.InsufficientTerrain{Terrain: "mountain", Needed: cost.Mountain, Available: avail.Mountain}
	}
	if cost.Water > avail.Water {
		return &engineerr.InsufficientTerrain{Terrain: "water", Needed: cost.Water, Available: avail.Water}
	}
	if cost.Total() > avail.Total {
		return &engineerr.InsufficientMana{Needed: cost.Total(), Available: avail.Total}
	}
	return nil
}

// Pay exhausts ready Mana-Orbs to cover cost's generic portion not
// already covered by excess terrain statistics. Fails with InsufficientMana/
// InsufficientTerrain, leaving the player's orbs untouched, if cost
// cannot be paid.
func Pay(gs *state.GameState, playerID string, cost catalog.Cost) error {
	p, ok := gs.Player(playerID)
	if !ok {
		return &engineerr.UnknownPlayer{PlayerID: playerID}
	}

	avail := AvailableFor(gs, playerID)
	if err := CanPay(avail, cost); err != nil {
		return err
	}

	excessTerrain := (avail.Forest - cost.Forest) + (avail.Mountain - cost.Mountain) + (avail.Water - cost.Water)
	genericFromOrbs := cost.Generic - excessTerrain
	if genericFromOrbs < 0 {
		genericFromOrbs = 0
	}

	ready := readyOrbs(p)
	if genericFromOrbs > len(ready) {
		if p.CurrentManaOverride != nil {
			// The override granted virtual mana beyond the physical orb
			// pool; exhaust what exists and let the rest ride free.
			genericFromOrbs = len(ready)
		} else {
			// CanPay's total check already guarantees feasibility; this
			// would mean available() and Pay() disagree about the orb pool.
			engineerr.Raise("mana: Pay generic requirement exceeds ready orb count after CanPay succeeded")
		}
	}
	for i := 0; i < genericFromOrbs; i++ {
		ready[i].Statuses[object.StatusExhausted] = true
	}
	return nil
}

// Expand converts a card in Hand into a face-down, ready Mana-Orb
// object in the player's Mana zone, once per day. The orb keeps its
// minted object identity and definition id but is marked
// FaceDown; SnapshotFor hides its printed card from the other player;
// its own statistics never count toward mana (only the fixed "one ready
// orb = one generic mana" contribution applies).
func Expand(gs *state.GameState, playerID string, instance object.CardInstance) (*object.GameObject, error) {
	p, ok := gs.Player(playerID)
	if !ok {
		return nil, &engineerr.UnknownPlayer{PlayerID: playerID}
	}
	if p.HasExpandedThisDay {
		return nil, &engineerr.AlreadyExpanded{PlayerID: playerID}
	}

	hand := p.Zone(zone.TypeHand)
	if hand.Find(instance.InstanceID) == nil {
		return nil, &engineerr.ZoneIneligible{Reason: "card " + instance.InstanceID + " is not in " + playerID + "'s hand"}
	}
	hand.Remove(instance.InstanceID)

	orb := gs.Factory.MintObject(object.Source{Instance: &instance}, playerID, nil)
	orb.FaceDown = true
	if err := p.Zone(zone.TypeMana).Add(orb); err != nil {
		return nil, err
	}

	p.HasExpandedThisDay = true
	return orb, nil
}

// Convert exhausts sourceOrbID and readies targetOrbID. Both ids must
// name Mana-Orb objects (i.e. be present in the player's Mana zone);
// sourceOrbID must currently be ready.
func Convert(gs *state.GameState, playerID, sourceOrbID, targetOrbID string) error {
	if sourceOrbID == targetOrbID {
		return &engineerr.IllegalTarget{Reason: "convert source and target orbs must differ"}
	}
	p, ok := gs.Player(playerID)
	if !ok {
		return &engineerr.UnknownPlayer{PlayerID: playerID}
	}
	manaZone := p.Zone(zone.TypeMana)

	srcEntity := manaZone.Find(sourceOrbID)
	dstEntity := manaZone.Find(targetOrbID)
	src, srcOK := srcEntity.(*object.GameObject)
	dst, dstOK := dstEntity.(*object.GameObject)
	if !srcOK {
		return &engineerr.UnknownEntity{EntityID: sourceOrbID}
	}
	if !dstOK {
		return &engineerr.UnknownEntity{EntityID: targetOrbID}
	}
	if src.IsExhausted() {
		return &engineerr.Exhausted{ObjectID: sourceOrbID}
	}

	src.Statuses[object.StatusExhausted] = true
	delete(dst.Statuses, object.StatusExhausted)
	return nil
}
