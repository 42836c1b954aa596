package state

import (
	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"
)

// Memento is a point-in-time capture of everything a rejected or
// abandoned action must restore. It deep-copies every zone's contents
// and every object's mutable fields, so restoring never aliases
// post-capture mutations.
type Memento struct {
	zones map[string][]zone.Entity

	phase             Phase
	dayNumber         int
	currentPlayerID   string
	firstPlayerID     string
	consecutivePasses int
	inArena           bool
	over              bool
	winnerID          string
	logLen            int
	logSeq            uint64
	factorySeq        uint64

	players map[string]playerMemento
}

type playerMemento struct {
	heroPos             int
	companionPos        int
	hasExpanded         bool
	hasPassed           bool
	currentManaOverride *int
}

func copyEntity(e zone.Entity) zone.Entity {
	switch v := e.(type) {
	case *object.GameObject:
		return v.DeepCopy()
	case *object.Emblem:
		return v.DeepCopy()
	default:
		// CardInstances are plain values; storing them as-is is already a copy.
		return e
	}
}

// Capture snapshots the full mutable state of gs.
func (gs *GameState) Capture() *Memento {
	m := &Memento{
		zones:             map[string][]zone.Entity{},
		phase:             gs.CurrentPhase,
		dayNumber:         gs.DayNumber,
		currentPlayerID:   gs.CurrentPlayerID,
		firstPlayerID:     gs.FirstPlayerID,
		consecutivePasses: gs.ConsecutivePasses,
		inArena:           gs.InArena,
		over:              gs.Over,
		winnerID:          gs.WinnerID,
		logLen:            len(gs.ActionLog),
		logSeq:            gs.logSeq,
		factorySeq:        gs.Factory.Sequence(),
		players:           map[string]playerMemento{},
	}

	capture := func(z *zone.Zone) {
		entities := z.All()
		copied := make([]zone.Entity, len(entities))
		for i, e := range entities {
			copied[i] = copyEntity(e)
		}
		m.zones[z.ID] = copied
	}

	capture(gs.Shared.Expedition)
	capture(gs.Shared.Limbo)
	capture(gs.Shared.Adventure)
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		for _, z := range p.Zones {
			capture(z)
		}
		m.players[id] = playerMemento{
			heroPos:             p.HeroExpeditionPosition,
			companionPos:        p.CompanionExpeditionPosition,
			hasExpanded:         p.HasExpandedThisDay,
			hasPassed:           p.HasPassedThisAfternoon,
			currentManaOverride: p.CurrentManaOverride,
		}
	}
	return m
}

// Restore rewinds gs to the captured state. Zone structs and the Bus
// keep their identity (subscriptions survive); only contents change.
func (gs *GameState) Restore(m *Memento) {
	gs.CurrentPhase = m.phase
	gs.DayNumber = m.dayNumber
	gs.CurrentPlayerID = m.currentPlayerID
	gs.FirstPlayerID = m.firstPlayerID
	gs.ConsecutivePasses = m.consecutivePasses
	gs.InArena = m.inArena
	gs.Over = m.over
	gs.WinnerID = m.winnerID
	gs.ActionLog = gs.ActionLog[:m.logLen]
	gs.logSeq = m.logSeq
	gs.Factory.Restore(m.factorySeq)

	restore := func(z *zone.Zone) {
		for _, e := range z.All() {
			z.Remove(e.EntityID())
		}
		for _, e := range m.zones[z.ID] {
			_ = z.Add(copyEntity(e))
		}
	}

	restore(gs.Shared.Expedition)
	restore(gs.Shared.Limbo)
	restore(gs.Shared.Adventure)
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		for _, z := range p.Zones {
			restore(z)
		}
		pm := m.players[id]
		p.HeroExpeditionPosition = pm.heroPos
		p.CompanionExpeditionPosition = pm.companionPos
		p.HasExpandedThisDay = pm.hasExpanded
		p.HasPassedThisAfternoon = pm.hasPassed
		p.CurrentManaOverride = pm.currentManaOverride
	}
}
