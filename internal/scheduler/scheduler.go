// Package scheduler implements the turn/phase scheduler: the day loop,
// the Morning→Noon→Afternoon→Dusk→Night phase sequence, and each phase's
// automatic routine (Prepare,
// Expand window, draw, turn loop bookkeeping, Progress, Rest), plus the
// Victory Check that runs after every Night.
package scheduler

import (
	"sort"

	"expedition-engine/internal/adjudicator"
	"expedition-engine/internal/arena"
	"expedition-engine/internal/catalog"
	"expedition-engine/internal/engineerr"
	"expedition-engine/internal/events"
	"expedition-engine/internal/keyword"
	"expedition-engine/internal/logger"
	"expedition-engine/internal/mana"
	"expedition-engine/internal/object"
	"expedition-engine/internal/reaction"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"

	"go.uber.org/zap"
)

// Begin places a freshly initialized game at the start of day 1. Day 1
// skips Morning, so the game opens at Noon and its draw
// routine runs immediately.
func Begin(gs *state.GameState) {
	gs.DayNumber = 1
	if gs.FirstPlayerID == "" {
		gs.FirstPlayerID = gs.PlayerOrder[0]
	}
	gs.CurrentPlayerID = gs.FirstPlayerID
	enterPhase(gs, state.PhaseNoon)
}

// Advance moves the game into the next phase and runs that phase's
// automatic routine. Leaving Afternoon requires both players to have
// passed consecutively; the engine normally triggers that
// transition itself on the second pass.
func Advance(gs *state.GameState) (state.Phase, error) {
	if gs.Over {
		return gs.CurrentPhase, &engineerr.PhaseIneligible{Phase: string(gs.CurrentPhase), Action: "advance_phase (game over)"}
	}
	if gs.CurrentPhase == state.PhaseAfternoon && gs.ConsecutivePasses < 2 {
		return gs.CurrentPhase, &engineerr.PhaseIneligible{Phase: string(gs.CurrentPhase), Action: "advance_phase before both players passed"}
	}

	switch gs.CurrentPhase {
	case state.PhaseMorning:
		enterPhase(gs, state.PhaseNoon)
	case state.PhaseNoon:
		enterPhase(gs, state.PhaseAfternoon)
	case state.PhaseAfternoon:
		enterPhase(gs, state.PhaseDusk)
	case state.PhaseDusk:
		enterPhase(gs, state.PhaseNight)
	case state.PhaseNight:
		enterPhase(gs, state.PhaseMorning)
	default:
		return gs.CurrentPhase, &engineerr.PhaseIneligible{Phase: string(gs.CurrentPhase), Action: "advance_phase"}
	}
	return gs.CurrentPhase, nil
}

func enterPhase(gs *state.GameState, next state.Phase) {
	gs.CurrentPhase = next
	logger.WithPlayerContext("", gs.DayNumber, string(next)).Info("phase entered")

	switch next {
	case state.PhaseMorning:
		runMorning(gs)
	case state.PhaseNoon:
		runNoon(gs)
	case state.PhaseAfternoon:
		runAfternoonStart(gs)
	case state.PhaseDusk:
		runDusk(gs)
	case state.PhaseNight:
		runNight(gs)
	}

	adjudicator.RecomputeAll(gs)
	events.Publish(gs.Bus, events.PhaseChanged{Day: gs.DayNumber, Phase: string(next)})
}

// runMorning is Prepare plus the opening of the Expand window: every
// Exhausted object readies, and each player's once-per-day Expand flag
// resets. The Expand action itself is player-submitted while the phase
// is Morning.
func runMorning(gs *state.GameState) {
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		p.HasExpandedThisDay = false
		p.HasPassedThisAfternoon = false

		for _, t := range []zone.Type{zone.TypeMana, zone.TypeReserve, zone.TypeLandmark, zone.TypeHero} {
			readyAll(p.Zone(t))
		}
	}
	readyAll(gs.ExpeditionZone())
}

func readyAll(z *zone.Zone) {
	for _, e := range z.All() {
		if obj, ok := e.(*object.GameObject); ok {
			delete(obj.Statuses, object.StatusExhausted)
			obj.AbilityActivationsThisTurn = 0
		}
	}
}

// runNoon draws each player up to the configured hand-size draw count.
func runNoon(gs *state.GameState) {
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		deck, hand := p.Zone(zone.TypeDeck), p.Zone(zone.TypeHand)
		for i := 0; i < gs.Config.HandSizeDraws; i++ {
			e := deck.DrawTop()
			if e == nil {
				break
			}
			if err := hand.Add(e); err != nil {
				engineerr.Raise("scheduler: draw into hand failed: " + err.Error())
			}
			events.Publish(gs.Bus, events.EntityMoved{
				EntityID: e.EntityID(), FromZoneID: deck.ID, ToZoneID: hand.ID, PlayerID: id,
			})
		}
	}
}

// runAfternoonStart resets the turn loop: initiative goes to the day's
// first player and the pass counter clears.
func runAfternoonStart(gs *state.GameState) {
	gs.CurrentPlayerID = gs.FirstPlayerID
	gs.ConsecutivePasses = 0
	for _, id := range gs.PlayerOrder {
		gs.Players[id].HasPassedThisAfternoon = false
	}
	events.Publish(gs.Bus, events.TurnAdvanced{Day: gs.DayNumber, NewActivePlayer: gs.CurrentPlayerID})
}

// RecordPass marks the player as having passed. The second consecutive
// pass ends the Afternoon (the engine then advances to Dusk).
func RecordPass(gs *state.GameState, playerID string) (phaseOver bool, err error) {
	if gs.CurrentPhase != state.PhaseAfternoon {
		return false, &engineerr.PhaseIneligible{Phase: string(gs.CurrentPhase), Action: "pass"}
	}
	if playerID != gs.CurrentPlayerID {
		return false, &engineerr.NotActivePlayer{PlayerID: playerID}
	}
	p := gs.Players[playerID]
	if p.HasPassedThisAfternoon && gs.ConsecutivePasses >= 2 {
		return false, &engineerr.AlreadyPassed{PlayerID: playerID}
	}

	p.HasPassedThisAfternoon = true
	gs.ConsecutivePasses++
	if gs.ConsecutivePasses >= 2 {
		return true, nil
	}

	gs.CurrentPlayerID = gs.Opponent(playerID)
	events.Publish(gs.Bus, events.TurnAdvanced{Day: gs.DayNumber, NewActivePlayer: gs.CurrentPlayerID})
	return false, nil
}

// RecordNonPassAction notes that the active player took a non-pass
// action, which keeps the turn and resets the consecutive-pass chain.
func RecordNonPassAction(gs *state.GameState) {
	gs.ConsecutivePasses = 0
}

// sideRoster returns the objects counting as present in one player's
// expedition side, honoring Gigantic's dual presence.
func sideRoster(gs *state.GameState, playerID string, side object.ExpeditionSide) []*object.GameObject {
	var out []*object.GameObject
	for _, e := range gs.ExpeditionZone().All() {
		obj, ok := e.(*object.GameObject)
		if !ok || obj.ControllerID != playerID {
			continue
		}
		for _, s := range keyword.EffectiveSides(obj) {
			if s == side {
				out = append(out, obj)
				break
			}
		}
	}
	return out
}

func sideStatistics(roster []*object.GameObject) (total struct{ Forest, Mountain, Water int }) {
	for _, obj := range roster {
		if !keyword.CountsForProgress(obj) {
			continue
		}
		s := mana.TerrainContribution(obj)
		total.Forest += s.Forest
		total.Mountain += s.Mountain
		total.Water += s.Water
	}
	return total
}

// runDusk is Progress: for each expedition side, the
// player whose side's stats are strictly greater in at least one terrain
// advances that expedition by 1, unless a Defender restricts it. Ties
// advance nobody. In Arena mode, Dusk instead scores terrain victories
// and may end the game immediately.
func runDusk(gs *state.GameState) {
	if gs.InArena {
		if winnerID := arena.ScoreDusk(gs); winnerID != "" {
			declareWinner(gs, winnerID, "arena terrain majority")
		}
		return
	}
	if len(gs.PlayerOrder) != 2 {
		return
	}
	a, b := gs.PlayerOrder[0], gs.PlayerOrder[1]

	for _, side := range []object.ExpeditionSide{object.ExpeditionHero, object.ExpeditionCompanion} {
		rosterA, rosterB := sideRoster(gs, a, side), sideRoster(gs, b, side)
		statsA, statsB := sideStatistics(rosterA), sideStatistics(rosterB)

		winsA := statsA.Forest > statsB.Forest || statsA.Mountain > statsB.Mountain || statsA.Water > statsB.Water
		winsB := statsB.Forest > statsA.Forest || statsB.Mountain > statsA.Mountain || statsB.Water > statsA.Water

		if winsA && !keyword.RestrictsAdvance(rosterA) {
			advanceExpedition(gs, a, side)
		}
		if winsB && !keyword.RestrictsAdvance(rosterB) {
			advanceExpedition(gs, b, side)
		}
	}
}

func advanceExpedition(gs *state.GameState, playerID string, side object.ExpeditionSide) {
	p := gs.Players[playerID]
	switch side {
	case object.ExpeditionHero:
		p.HeroExpeditionPosition++
	case object.ExpeditionCompanion:
		p.CompanionExpeditionPosition++
	}
	logger.WithPlayerContext(playerID, gs.DayNumber, string(gs.CurrentPhase)).Info("expedition advanced",
		zap.String("side", string(side)))
}

// runNight is Rest: each expedition character processes
// in a fixed order — Eternal stays; Anchored/Asleep stays and the status
// clears; Fleeting goes to Discard; everyone else to Reserve, preserving
// Boost only if Seasoned. Then the Victory Check runs and the day
// advances. Arena combat uses the reduced arena rest instead.
func runNight(gs *state.GameState) {
	if gs.InArena {
		arena.Rest(gs)
	} else {
		rest(gs)
	}

	checkVictory(gs)
	if gs.Over {
		return
	}

	gs.DayNumber++
	if gs.Config.AlternateFirstPlayer {
		gs.FirstPlayerID = gs.Opponent(gs.FirstPlayerID)
	}
	gs.CurrentPlayerID = gs.FirstPlayerID
	events.Publish(gs.Bus, events.DayAdvanced{NewDay: gs.DayNumber, FirstPlayerID: gs.FirstPlayerID})
}

func rest(gs *state.GameState) {
	var chars []*object.GameObject
	for _, e := range gs.ExpeditionZone().All() {
		if obj, ok := e.(*object.GameObject); ok && obj.Category == catalog.CategoryCharacter {
			chars = append(chars, obj)
		}
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Timestamp < chars[j].Timestamp })

	for _, obj := range chars {
		if keyword.IsEternal(obj) {
			continue
		}
		if keyword.IsAnchored(obj) || keyword.IsAsleep(obj) {
			delete(obj.Statuses, object.StatusAnchored)
			keyword.ClearAsleepAfterRest(obj)
			continue
		}

		destType := zone.TypeReserve
		if keyword.IsFleeting(obj) {
			destType = zone.TypeDiscardPile
		}

		var carried map[object.CounterType]int
		if destType == zone.TypeReserve && keyword.CarriesBoostOnZoneChange(obj, zone.TypeExpedition, zone.TypeReserve) {
			if boost := obj.Counters[object.CounterBoost]; boost > 0 {
				carried = map[object.CounterType]int{object.CounterBoost: boost}
			}
		}

		moveOut(gs, obj, destType, carried)
	}
}

// moveOut relocates an expedition object to a personal zone, firing its
// leaving-play triggers off a pre-removal snapshot and
// minting a fresh identity per "new zone, new object".
func moveOut(gs *state.GameState, obj *object.GameObject, destType zone.Type, carried map[object.CounterType]int) {
	snapshot := *obj.DeepCopy()
	reaction.ObserveWithSnapshot(gs, "LeavingPlay", snapshot, events.EntityMoved{
		EntityID: obj.ObjectID, FromZoneID: gs.ExpeditionZone().ID,
	})

	gs.ExpeditionZone().Remove(obj.ObjectID)
	p := gs.Players[obj.ControllerID]
	minted := gs.Factory.MintObject(object.Source{Object: obj}, obj.ControllerID, carried)
	if err := p.Zone(destType).Add(minted); err != nil {
		engineerr.Raise("scheduler: rest move failed: " + err.Error())
	}

	events.Publish(gs.Bus, events.EntityCeased{EntityID: obj.ObjectID, ZoneID: gs.ExpeditionZone().ID})
	events.Publish(gs.Bus, events.EntityMoved{
		EntityID: minted.ObjectID, FromZoneID: gs.ExpeditionZone().ID, ToZoneID: p.Zone(destType).ID, PlayerID: obj.ControllerID,
	})
}

// checkVictory runs the post-Night Victory Check: a
// player wins when their combined expedition position reaches the
// threshold and is strictly above the opponent's; an exact tie at or
// beyond the threshold enters the Arena tiebreaker.
func checkVictory(gs *state.GameState) {
	if len(gs.PlayerOrder) != 2 || gs.InArena {
		return
	}
	a, b := gs.Players[gs.PlayerOrder[0]], gs.Players[gs.PlayerOrder[1]]
	sumA := a.HeroExpeditionPosition + a.CompanionExpeditionPosition
	sumB := b.HeroExpeditionPosition + b.CompanionExpeditionPosition
	threshold := gs.Config.VictoryThreshold

	switch {
	case sumA >= threshold && sumA > sumB:
		declareWinner(gs, a.ID, "expedition victory")
	case sumB >= threshold && sumB > sumA:
		declareWinner(gs, b.ID, "expedition victory")
	case sumA >= threshold && sumA == sumB:
		logger.Get().Info("expedition victory tied, entering arena", zap.Int("day", gs.DayNumber))
		arena.Enter(gs)
	}
}

func declareWinner(gs *state.GameState, winnerID, reason string) {
	gs.Over = true
	gs.WinnerID = winnerID
	logger.WithPlayerContext(winnerID, gs.DayNumber, string(gs.CurrentPhase)).Info("game won",
		zap.String("reason", reason))
	events.Publish(gs.Bus, events.DayWon{WinnerID: winnerID, Reason: reason})
}
