// Package arena implements the tiebreaker: the terminal scoring mode
// entered when expedition victory ties. The adventure is replaced by a
// single Arena containing all three
// terrains; positions reset to 0; Progress awards per-terrain victories
// and the player winning strictly more terrains in one Dusk wins
// immediately.
package arena

import (
	"expedition-engine/internal/catalog"
	"expedition-engine/internal/keyword"
	"expedition-engine/internal/mana"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
)

// Enter switches the game into Arena scoring: every expedition position
// resets to 0 and all in-play expedition objects are conceptually pooled
// into Arena slots — which for this engine means they stay in the shared
// Expedition zone and scoring ignores their hero/companion split.
func Enter(gs *state.GameState) {
	gs.InArena = true
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		p.HeroExpeditionPosition = 0
		p.CompanionExpeditionPosition = 0
	}
}

// pooledStatistics sums every arena-side object's terrain contribution
// for one player. Asleep characters contribute nothing, same as in
// regular Progress.
func pooledStatistics(gs *state.GameState, playerID string) catalog.Statistics {
	var total catalog.Statistics
	for _, e := range gs.ExpeditionZone().All() {
		obj, ok := e.(*object.GameObject)
		if !ok || obj.ControllerID != playerID {
			continue
		}
		if !keyword.CountsForProgress(obj) {
			continue
		}
		total = total.Add(mana.TerrainContribution(obj))
	}
	return total
}

// ScoreDusk runs one Arena Dusk: each of the three terrains is won by
// the player with the strictly greater pooled statistic; the player with
// strictly more terrain wins takes the game. Returns the winner's id, or
// "" if the Dusk was indecisive (equal terrain wins).
func ScoreDusk(gs *state.GameState) string {
	if len(gs.PlayerOrder) != 2 {
		return ""
	}
	a, b := gs.PlayerOrder[0], gs.PlayerOrder[1]
	sa, sb := pooledStatistics(gs, a), pooledStatistics(gs, b)

	winsA, winsB := 0, 0
	tally := func(va, vb int) {
		switch {
		case va > vb:
			winsA++
		case vb > va:
			winsB++
		}
	}
	tally(sa.Forest, sb.Forest)
	tally(sa.Mountain, sb.Mountain)
	tally(sa.Water, sb.Water)

	switch {
	case winsA > winsB:
		return a
	case winsB > winsA:
		return b
	default:
		return ""
	}
}

// Rest runs the Arena variant of the Night rest: characters stay in the
// Arena instead of moving to Reserve; only Anchored/Asleep statuses
// clear.
func Rest(gs *state.GameState) {
	for _, e := range gs.ExpeditionZone().All() {
		obj, ok := e.(*object.GameObject)
		if !ok {
			continue
		}
		delete(obj.Statuses, object.StatusAnchored)
		keyword.ClearAsleepAfterRest(obj)
	}
}
