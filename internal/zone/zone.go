// Package zone implements the Zone Model: ordered/unordered
// containers with visibility, ownership, and membership operations.
package zone

import (
	"sync"

	"expedition-engine/internal/engineerr"
)

// Type names one of the zone kinds.
type Type string

const (
	TypeDeck        Type = "Deck"
	TypeHand        Type = "Hand"
	TypeDiscardPile Type = "DiscardPile"
	TypeMana        Type = "Mana"
	TypeReserve     Type = "Reserve"
	TypeLandmark    Type = "Landmark"
	TypeHero        Type = "Hero"
	TypeExpedition  Type = "Expedition" // shared
	TypeAdventure   Type = "Adventure"  // shared
	TypeLimbo       Type = "Limbo"      // shared
)

// Visibility is Hidden (holds CardInstances) or Visible (holds
// GameObjects/Emblems)'s zone invariant.
type Visibility string

const (
	Hidden  Visibility = "Hidden"
	Visible Visibility = "Visible"
)

// IsHidden reports whether entities of this zone type are CardInstances.
func (t Type) IsHidden() bool { return t == TypeDeck || t == TypeHand }

// Entity is anything a zone can hold: a CardInstance, a *object.GameObject,
// or a *object.Emblem. The zone package stays independent of the object
// package's concrete types so it can hold whichever entity shape its
// visibility implies; callers type-assert on retrieval. All entities
// expose a stable identity string via EntityID().
type Entity interface {
	EntityID() string
}

// Zone is one container: deck, hand, a player's reserve, the shared
// Limbo, etc. Deck is ordered (draw_top/add_bottom/shuffle); Hand
// preserves insertion order for display only; all others are visible and
// unordered in the rules sense, though insertion order is kept for
// deterministic iteration/replay.
type Zone struct {
	mu         sync.RWMutex
	ID         string
	TypeOf     Type
	Visibility Visibility
	OwnerID    string // empty for shared zones
	Ordered    bool
	entities   []Entity
	index      map[string]int
}

// New constructs an empty Zone. ownerID is empty for shared zones
// (Expedition, Adventure, Limbo).
func New(id string, t Type, ownerID string) *Zone {
	vis := Visible
	if t.IsHidden() {
		vis = Hidden
	}
	return &Zone{
		ID:         id,
		TypeOf:     t,
		Visibility: vis,
		OwnerID:    ownerID,
		Ordered:    t == TypeDeck,
		entities:   nil,
		index:      map[string]int{},
	}
}

// Add appends an entity to the zone. It rejects only an entity whose id
// is already present; it does not check that the entity's owner matches
// a personal zone's OwnerID, so a personal zone accepts any player's
// entity.
func (z *Zone) Add(e Entity) error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if _, exists := z.index[e.EntityID()]; exists {
		return &engineerr.InvariantViolation{Detail: "entity " + e.EntityID() + " already present in zone " + z.ID}
	}
	z.index[e.EntityID()] = len(z.entities)
	z.entities = append(z.entities, e)
	return nil
}

// AddBottom appends a sequence of entities to the bottom of an ordered
// zone (Deck), preserving their relative order.
func (z *Zone) AddBottom(seq []Entity) error {
	for _, e := range seq {
		if err := z.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// Remove removes and returns the entity with the given id, or nil if
// absent.
func (z *Zone) Remove(id string) Entity {
	z.mu.Lock()
	defer z.mu.Unlock()
	i, ok := z.index[id]
	if !ok {
		return nil
	}
	e := z.entities[i]
	z.entities = append(z.entities[:i], z.entities[i+1:]...)
	delete(z.index, id)
	for eid, idx := range z.index {
		if idx > i {
			z.index[eid] = idx - 1
		}
	}
	return e
}

// Find returns the entity with the given id without removing it, or nil.
func (z *Zone) Find(id string) Entity {
	z.mu.RLock()
	defer z.mu.RUnlock()
	i, ok := z.index[id]
	if !ok {
		return nil
	}
	return z.entities[i]
}

// All returns a snapshot slice of every entity currently in the zone, in
// insertion (for Deck: top-to-bottom) order.
func (z *Zone) All() []Entity {
	z.mu.RLock()
	defer z.mu.RUnlock()
	out := make([]Entity, len(z.entities))
	copy(out, z.entities)
	return out
}

// Count returns the number of entities currently in the zone.
func (z *Zone) Count() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return len(z.entities)
}

// DrawTop removes and returns the top (index 0) entity of an ordered
// zone, or nil if empty.
func (z *Zone) DrawTop() Entity {
	z.mu.Lock()
	defer z.mu.Unlock()
	if len(z.entities) == 0 {
		return nil
	}
	e := z.entities[0]
	z.entities = z.entities[1:]
	delete(z.index, e.EntityID())
	for eid, idx := range z.index {
		z.index[eid] = idx - 1
	}
	return e
}

// Shuffle randomizes the order of an ordered zone's entities using the
// supplied deterministic source.
func (z *Zone) Shuffle(swap func(n int, swapFn func(i, j int))) {
	z.mu.Lock()
	defer z.mu.Unlock()
	n := len(z.entities)
	swap(n, func(i, j int) {
		z.entities[i], z.entities[j] = z.entities[j], z.entities[i]
	})
	for idx, e := range z.entities {
		z.index[e.EntityID()] = idx
	}
}
