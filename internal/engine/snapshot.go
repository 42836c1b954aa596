package engine

import (
	"sort"

	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"
)

// EntityView is the read-only projection of one zone entity. Hidden
// information (another player's hand, a face-down orb's printed card) is
// blanked in viewer-scoped snapshots.
type EntityView struct {
	EntityID     string
	DefinitionID string
	Name         string
	Category     string
	Statuses     []string
	Counters     map[string]int
	FaceDown     bool
	Side         string
}

// ZoneView is one zone's projected contents. Hidden zones the viewer
// may not see carry only a count.
type ZoneView struct {
	ZoneID   string
	Type     string
	Count    int
	Entities []EntityView
}

// PlayerView is one player's projected state.
type PlayerView struct {
	PlayerID                    string
	HeroExpeditionPosition      int
	CompanionExpeditionPosition int
	HasExpandedThisDay          bool
	HasPassedThisAfternoon      bool
	Zones                       map[string]ZoneView
}

// Snapshot is a point-in-time read-only view of the game.
type Snapshot struct {
	DayNumber       int
	CurrentPhase    string
	CurrentPlayerID string
	FirstPlayerID   string
	InArena         bool
	Over            bool
	WinnerID        string
	Players         map[string]PlayerView
	Expedition      ZoneView
	Limbo           ZoneView
}

func entityView(e zone.Entity, revealDefinition bool) EntityView {
	switch v := e.(type) {
	case object.CardInstance:
		view := EntityView{EntityID: v.InstanceID}
		if revealDefinition {
			view.DefinitionID = v.DefinitionID
		}
		return view
	case *object.GameObject:
		view := EntityView{
			EntityID: v.ObjectID,
			Name:     v.Name,
			Category: string(v.Category),
			FaceDown: v.FaceDown,
			Side:     string(v.ExpeditionAssignment),
			Counters: map[string]int{},
		}
		for s := range v.Statuses {
			view.Statuses = append(view.Statuses, string(s))
		}
		sort.Strings(view.Statuses)
		for c, n := range v.Counters {
			view.Counters[string(c)] = n
		}
		if revealDefinition {
			view.DefinitionID = v.DefinitionID
		} else if v.FaceDown {
			view.Name = ""
		}
		return view
	case *object.Emblem:
		return EntityView{EntityID: v.EmblemID, Category: "Emblem"}
	default:
		return EntityView{EntityID: e.EntityID()}
	}
}

func zoneView(z *zone.Zone, revealContents, revealDefinitions bool) ZoneView {
	view := ZoneView{ZoneID: z.ID, Type: string(z.TypeOf), Count: z.Count()}
	if !revealContents {
		return view
	}
	for _, e := range z.All() {
		view.Entities = append(view.Entities, entityView(e, revealDefinitions))
	}
	return view
}

// StateSnapshot returns the omniscient (driver-level) view: every zone's
// contents, including both Hands; Decks show counts only. Replay
// verification and local
// drivers use this; a served client view should come from SnapshotFor.
func (e *Engine) StateSnapshot() Snapshot {
	return e.snapshot("")
}

// SnapshotFor returns viewerID's information-hiding view: the opponent's
// Deck and Hand show counts only, and face-down mana orbs outside the
// viewer's own zones never expose their printed card.
func (e *Engine) SnapshotFor(viewerID string) Snapshot {
	return e.snapshot(viewerID)
}

func (e *Engine) snapshot(viewerID string) Snapshot {
	gs := e.gs
	omniscient := viewerID == ""

	snap := Snapshot{
		DayNumber:       gs.DayNumber,
		CurrentPhase:    string(gs.CurrentPhase),
		CurrentPlayerID: gs.CurrentPlayerID,
		FirstPlayerID:   gs.FirstPlayerID,
		InArena:         gs.InArena,
		Over:            gs.Over,
		WinnerID:        gs.WinnerID,
		Players:         map[string]PlayerView{},
		Expedition:      zoneView(gs.Shared.Expedition, true, true),
		Limbo:           zoneView(gs.Shared.Limbo, true, true),
	}

	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		isViewer := omniscient || id == viewerID

		zones := map[string]ZoneView{}
		for t, z := range p.Zones {
			switch t {
			case zone.TypeDeck:
				zones[string(t)] = zoneView(z, false, false)
			case zone.TypeHand:
				zones[string(t)] = zoneView(z, isViewer, isViewer)
			case zone.TypeMana:
				// orb identities are visible; printed cards only to the owner.
				zones[string(t)] = zoneView(z, true, isViewer)
			default:
				zones[string(t)] = zoneView(z, true, true)
			}
		}

		snap.Players[id] = PlayerView{
			PlayerID:                    id,
			HeroExpeditionPosition:      p.HeroExpeditionPosition,
			CompanionExpeditionPosition: p.CompanionExpeditionPosition,
			HasExpandedThisDay:          p.HasExpandedThisDay,
			HasPassedThisAfternoon:      p.HasPassedThisAfternoon,
			Zones:                       zones,
		}
	}
	return snap
}

// ActionLog returns the committed action log: one entry per
// committed mutation, sufficient to replay the game deterministically.
func (e *Engine) ActionLog() []state.ActionLogEntry {
	return append([]state.ActionLogEntry(nil), e.gs.ActionLog...)
}
