// Package object mints card instances, game objects, and emblems, and
// enforces "new zone, new object": every zone transition of a card
// produces a fresh identity.
package object

import (
	"encoding/binary"

	"expedition-engine/internal/catalog"

	"github.com/google/uuid"
)

// idNamespace seeds uuid.NewSHA1 so every minted id is a function of the
// factory's monotonic sequence alone. Replaying the same action sequence
// reproduces identical ids, which deterministic replay (identical action
// logs and snapshots across runs) depends on; a random uuid.New() would
// break it.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func mintID(kind string, seq uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return uuid.NewSHA1(idNamespace, append([]byte(kind), buf[:]...)).String()
}

// CardInstance exists only in hidden zones (Deck, Hand). It carries no
// game state beyond identity and position.
type CardInstance struct {
	InstanceID   string
	Seq          uint64
	DefinitionID string
	OwnerID      string
}

// EntityID implements zone.Entity.
func (c CardInstance) EntityID() string { return c.InstanceID }

// Status is a keyword-driven boolean state on a GameObject.
type Status string

const (
	StatusFleeting  Status = "Fleeting"
	StatusExhausted Status = "Exhausted"
	StatusAsleep    Status = "Asleep"
	StatusAnchored  Status = "Anchored"
)

// CounterType names a stacking counter kind. Boost is the only one the
// base rules reference by name; other counter types are opaque strings
// cards can define.
type CounterType string

const (
	CounterBoost CounterType = "Boost"
)

// ExpeditionSide is which of a controller's two expeditions an object is
// assigned to.
type ExpeditionSide string

const (
	ExpeditionHero      ExpeditionSide = "hero"
	ExpeditionCompanion ExpeditionSide = "companion"
)

// AbilityInstance and Characteristics live in internal/catalog (see
// catalog.go's comment on World/ObjectView) to avoid an import cycle: the
// Rule Adjudicator's PassiveFunc needs to reference Characteristics, and
// object already depends on catalog.
type AbilityInstance = catalog.AbilityInstance
type Characteristics = catalog.Characteristics

// GameObject exists only in visible zones. ObjectID is fresh on every
// zone transition: a card moving Hand→Limbo→Expedition
// mints a new CardInstance destroyed on materialization, then two
// successive GameObjects.
type GameObject struct {
	ObjectID                   string
	Seq                        uint64
	DefinitionID               string
	OwnerID                    string
	ControllerID               string
	Name                       string
	Category                   catalog.Category
	Base                       Characteristics
	Current                    Characteristics
	Statuses                   map[Status]bool
	Counters                   map[CounterType]int
	Abilities                  []AbilityInstance
	Timestamp                  uint64 // monotonic, for adjudicator layering order
	ExpeditionAssignment       ExpeditionSide
	FaceDown                   bool
	AbilityActivationsThisTurn int
}

// EntityID implements zone.Entity.
func (o *GameObject) EntityID() string { return o.ObjectID }

// IsExhausted reports whether the object is tapped.
func (o *GameObject) IsExhausted() bool { return o.Statuses[StatusExhausted] }

// HasStatus reports whether the object carries the given status.
func (o *GameObject) HasStatus(s Status) bool { return o.Statuses[s] }

// DeepCopy returns a fully independent copy of the object, cloning every
// mutable map/slice field. Used by the GameState memento (pre-action
// snapshot) and by trigger snapshots.
func (o *GameObject) DeepCopy() *GameObject {
	out := *o
	out.Base = o.Base.Clone()
	out.Current = o.Current.Clone()
	out.Statuses = make(map[Status]bool, len(o.Statuses))
	for k, v := range o.Statuses {
		out.Statuses[k] = v
	}
	out.Counters = make(map[CounterType]int, len(o.Counters))
	for k, v := range o.Counters {
		out.Counters[k] = v
	}
	out.Abilities = append([]AbilityInstance(nil), o.Abilities...)
	return &out
}

// Emblem is a reaction ready to resolve, living in the shared Limbo zone
// SourceSnapshot is captured at trigger time
// so "leaving play" triggers can see the object as it was before it left.
type Emblem struct {
	EmblemID       string
	Seq            uint64
	Ability        AbilityInstance
	ControllerID   string // who resolves this emblem (active-player-first discipline keys off this)
	SourceSnapshot GameObject
	TriggerPayload any
}

// EntityID implements zone.Entity.
func (e *Emblem) EntityID() string { return e.EmblemID }

// DeepCopy returns an independent copy of the emblem.
func (e *Emblem) DeepCopy() *Emblem {
	out := *e
	out.SourceSnapshot = *e.SourceSnapshot.DeepCopy()
	return &out
}

// Factory mints fresh instance/object/emblem identities. The sequence
// counter is factory-local, so two engine instances in one process never
// interleave ids and replay given the same action sequence reproduces
// identical ids.
type Factory struct {
	catalog *catalog.Catalog
	seq     uint64
}

// NewFactory builds an object Factory bound to a catalog.
func NewFactory(cat *catalog.Catalog) *Factory {
	return &Factory{catalog: cat}
}

func (f *Factory) next() uint64 {
	f.seq++
	return f.seq
}

// Sequence returns the current value of the minting counter. Restore
// resets it; together they let the GameState memento roll the factory
// back alongside the zones it minted into.
func (f *Factory) Sequence() uint64 { return f.seq }

// Restore resets the minting counter to a previously captured value.
func (f *Factory) Restore(seq uint64) { f.seq = seq }

// MintInstance creates a fresh CardInstance for a card entering a hidden
// zone (deck import, or a definition materializing into a hand via an
// effect that's specified to create a hidden-zone card).
func (f *Factory) MintInstance(definitionID, ownerID string) CardInstance {
	seq := f.next()
	return CardInstance{
		InstanceID:   mintID("instance", seq),
		Seq:          seq,
		DefinitionID: definitionID,
		OwnerID:      ownerID,
	}
}

// Source is either a CardInstance (the card is entering play for the
// first time from a hidden zone) or an existing GameObject (the card is
// being re-materialized, e.g. moved between visible zones).
type Source struct {
	Instance *CardInstance
	Object   *GameObject
}

// MintObject creates a fresh GameObject for an entity entering a visible
// zone. carriedCounters carries forward counters preserved by a specific
// rule (e.g. Seasoned preserving Boost into Reserve); pass nil otherwise,
// since the default on any zone change is to drop all counters/statuses.
func (f *Factory) MintObject(src Source, controllerID string, carriedCounters map[CounterType]int) *GameObject {
	var definitionID, ownerID string
	switch {
	case src.Instance != nil:
		definitionID = src.Instance.DefinitionID
		ownerID = src.Instance.OwnerID
	case src.Object != nil:
		definitionID = src.Object.DefinitionID
		ownerID = src.Object.OwnerID
	default:
		panic("object: MintObject requires an Instance or Object source")
	}

	def := f.catalog.MustLookup(definitionID)

	base := Characteristics{
		Statistics:       def.BaseStatistics,
		Keywords:         map[string]int{},
		NegatedAbilityID: map[string]bool{},
	}
	for k, v := range def.Keywords {
		base.Keywords[k] = v
	}
	catalog.DeriveKeywordFlags(&base)

	seq := f.next()
	objectID := mintID("object", seq)

	abilities := make([]AbilityInstance, 0, len(def.AbilityDefinitions))
	for _, ab := range def.AbilityDefinitions {
		abilities = append(abilities, AbilityInstance{AbilityID: ab.ID, SourceObjectID: objectID})
	}

	counters := map[CounterType]int{}
	for k, v := range def.StartingCounters {
		counters[CounterType(k)] += v
	}
	for k, v := range carriedCounters {
		counters[k] += v
	}

	obj := &GameObject{
		ObjectID:     objectID,
		Seq:          seq,
		DefinitionID: definitionID,
		OwnerID:      ownerID,
		ControllerID: controllerID,
		Name:         def.Name,
		Category:     def.Category,
		Base:         base,
		Current:      base.Clone(),
		Statuses:     map[Status]bool{},
		Counters:     counters,
		Abilities:    abilities,
		Timestamp:    seq,
	}
	return obj
}

// MintEmblem creates a fresh Emblem ready to resolve in Limbo.
func (f *Factory) MintEmblem(ability AbilityInstance, controllerID string, sourceSnapshot GameObject, triggerPayload any) *Emblem {
	seq := f.next()
	return &Emblem{
		EmblemID:       mintID("emblem", seq),
		Seq:            seq,
		Ability:        ability,
		ControllerID:   controllerID,
		SourceSnapshot: sourceSnapshot,
		TriggerPayload: triggerPayload,
	}
}
