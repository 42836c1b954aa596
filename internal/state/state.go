// Package state holds the GameState aggregate: players, shared zones,
// day/phase, active player, the action log, and per-day firsts.
package state

import (
	"time"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/events"
	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"
)

// Phase is one of the five ordered phases of a day.
type Phase string

const (
	PhaseMorning   Phase = "Morning"
	PhaseNoon      Phase = "Noon"
	PhaseAfternoon Phase = "Afternoon"
	PhaseDusk      Phase = "Dusk"
	PhaseNight     Phase = "Night"
)

// Player is one player's zones and per-day flags.
type Player struct {
	ID    string
	Zones map[zone.Type]*zone.Zone

	HeroExpeditionPosition      int
	CompanionExpeditionPosition int
	HasExpandedThisDay          bool
	HasPassedThisAfternoon      bool
	CurrentManaOverride         *int
}

// Zone returns the player's zone of the given type, or nil if t names a
// shared zone type (those live on GameState.Shared instead).
func (p *Player) Zone(t zone.Type) *zone.Zone { return p.Zones[t] }

// newPlayer builds a Player with all personal zones created empty.
func newPlayer(id string) *Player {
	personal := []zone.Type{
		zone.TypeDeck, zone.TypeHand, zone.TypeDiscardPile,
		zone.TypeMana, zone.TypeReserve, zone.TypeLandmark, zone.TypeHero,
	}
	zones := make(map[zone.Type]*zone.Zone, len(personal))
	for _, t := range personal {
		zones[t] = zone.New(id+":"+string(t), t, id)
	}
	return &Player{ID: id, Zones: zones}
}

// SharedZones holds the three zones every player reads and writes: the
// shared Adventure track isn't itself a container (it's modeled as
// expedition positions on each Player), but Expedition and Limbo are
// genuinely shared containers, and Adventure is kept as a zone handle for
// API symmetry with the zone type enumeration even though expedition
// positions, not zone membership, drive Adventure state.
type SharedZones struct {
	Adventure  *zone.Zone
	Expedition *zone.Zone
	Limbo      *zone.Zone
}

// ActionLogEntry is one committed mutation. The log carries enough to
// deterministically replay the game given the same player-choice
// answers.
type ActionLogEntry struct {
	Seq        uint64
	Action     string
	Parameters map[string]any
	Timestamp  time.Time
}

// GameState is the aggregate root: players, shared zones, day/phase,
// active player, the action log, and per-day firsts.
type GameState struct {
	PlayerOrder     []string
	Players         map[string]*Player
	Shared          SharedZones
	CurrentPhase    Phase
	DayNumber       int
	CurrentPlayerID string
	FirstPlayerID   string

	// ConsecutivePasses counts back-to-back Pass actions during
	// Afternoon; two in a row end the phase.
	ConsecutivePasses int

	// InArena is set once an exact victory tie sends the game into the
	// Tiebreaker's Arena scoring mode.
	InArena bool

	ActionLog []ActionLogEntry
	logSeq    uint64

	Bus     *events.Bus
	Catalog *catalog.Catalog
	Factory *object.Factory
	Config  config.GameConfig

	Over     bool
	WinnerID string
}

// New builds a fresh GameState for the given player ids. Day/phase start
// uninitialized; callers run Initialize (internal/engine) before driving
// the scheduler.
func New(playerIDs []string, cat *catalog.Catalog, cfg config.GameConfig) *GameState {
	gs := &GameState{
		PlayerOrder: append([]string(nil), playerIDs...),
		Players:     make(map[string]*Player, len(playerIDs)),
		Shared: SharedZones{
			Adventure:  zone.New("shared:adventure", zone.TypeAdventure, ""),
			Expedition: zone.New("shared:expedition", zone.TypeExpedition, ""),
			Limbo:      zone.New("shared:limbo", zone.TypeLimbo, ""),
		},
		Bus:     events.NewBus(),
		Catalog: cat,
		Factory: object.NewFactory(cat),
		Config:  cfg,
	}
	for _, id := range playerIDs {
		gs.Players[id] = newPlayer(id)
	}
	return gs
}

// Player looks up a player by id.
func (gs *GameState) Player(id string) (*Player, bool) {
	p, ok := gs.Players[id]
	return p, ok
}

// Opponent returns the other player's id in a two-player game.
func (gs *GameState) Opponent(playerID string) string {
	for _, id := range gs.PlayerOrder {
		if id != playerID {
			return id
		}
	}
	return ""
}

// CurrentPlayer returns the Player whose turn/priority it currently is.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.CurrentPlayerID]
}

// AppendLog appends one committed-mutation entry to the action log.
func (gs *GameState) AppendLog(action string, parameters map[string]any) {
	gs.logSeq++
	gs.ActionLog = append(gs.ActionLog, ActionLogEntry{
		Seq:        gs.logSeq,
		Action:     action,
		Parameters: parameters,
		Timestamp:  time.Now(),
	})
}

// ExpeditionZone returns the shared Expedition zone, where all in-play
// Characters and Expedition-Permanents live regardless of controller.
func (gs *GameState) ExpeditionZone() *zone.Zone { return gs.Shared.Expedition }

// LimboZone returns the shared Limbo zone, where mid-play cards and
// emblems live.
func (gs *GameState) LimboZone() *zone.Zone { return gs.Shared.Limbo }

// AllInPlayObjects returns every GameObject in the shared Expedition zone
// and in each player's Landmark and Hero zones — the pool the Rule
// Adjudicator's passive pass walks. Reserve, Mana and Discard are not
// included, nor is Limbo: objects mid-play don't yet grant passives.
func (gs *GameState) AllInPlayObjects() []*object.GameObject {
	var out []*object.GameObject
	collect := func(z *zone.Zone) {
		for _, e := range z.All() {
			if obj, ok := e.(*object.GameObject); ok {
				out = append(out, obj)
			}
		}
	}
	collect(gs.Shared.Expedition)
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		collect(p.Zones[zone.TypeLandmark])
		collect(p.Zones[zone.TypeHero])
	}
	return out
}

// FindObject locates a GameObject by id across every visible zone
// (shared and personal), returning the owning zone alongside it.
func (gs *GameState) FindObject(objectID string) (*object.GameObject, *zone.Zone) {
	zones := gs.allVisibleZones()
	for _, z := range zones {
		if e := z.Find(objectID); e != nil {
			if obj, ok := e.(*object.GameObject); ok {
				return obj, z
			}
		}
	}
	return nil, nil
}

func (gs *GameState) allVisibleZones() []*zone.Zone {
	zones := []*zone.Zone{gs.Shared.Expedition, gs.Shared.Limbo, gs.Shared.Adventure}
	for _, id := range gs.PlayerOrder {
		p := gs.Players[id]
		zones = append(zones, p.Zones[zone.TypeDiscardPile], p.Zones[zone.TypeMana],
			p.Zones[zone.TypeReserve], p.Zones[zone.TypeLandmark], p.Zones[zone.TypeHero])
	}
	return zones
}
