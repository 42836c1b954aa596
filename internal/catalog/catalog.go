// Package catalog holds the immutable CardDefinition catalog the engine
// is constructed with. Definitions never change after load; the catalog
// is a lookup-only dependency passed into the engine, never a global.
package catalog

import "expedition-engine/internal/engineerr"

// Category is one of the four playable card categories, plus Token for
// definitions minted only by effects (create_token).
type Category string

const (
	CategoryHero      Category = "Hero"
	CategoryCharacter Category = "Character"
	CategoryPermanent Category = "Permanent"
	CategorySpell     Category = "Spell"
	CategoryToken     Category = "Token"
)

// PermanentPlacement distinguishes the two places a Permanent can land.
type PermanentPlacement string

const (
	PlacementNone       PermanentPlacement = ""
	PlacementExpedition PermanentPlacement = "Expedition"
	PlacementLandmark   PermanentPlacement = "Landmark"
)

// Statistics is the forest/mountain/water terrain-stat triple shared by
// base characteristics, cost terrain demands, and mana availability.
type Statistics struct {
	Forest   int
	Mountain int
	Water    int
}

// Add returns the element-wise sum of two Statistics.
func (s Statistics) Add(o Statistics) Statistics {
	return Statistics{Forest: s.Forest + o.Forest, Mountain: s.Mountain + o.Mountain, Water: s.Water + o.Water}
}

// Cost is a mana cost: a generic amount plus per-terrain demands.
type Cost struct {
	Generic  int
	Forest   int
	Mountain int
	Water    int
}

// Total returns the cost's total mana demand across all components.
func (c Cost) Total() int {
	return c.Generic + c.Forest + c.Mountain + c.Water
}

// AbilityDefinition is the static shape of one ability carried by a
// CardDefinition. Kind selects how the Effect Processor and Keyword
// Handler interpret Program/Trigger/Condition; see internal/effect and
// internal/reaction for the tagged-union verb vocabulary Program holds.
type AbilityDefinition struct {
	ID      string
	Kind    AbilityKind
	Trigger *TriggerSpec // only set when Kind == AbilityTriggered
	Program []Step       // the effect program this ability runs when it applies/resolves
	Cost    Cost         // activation cost; only meaningful when Kind == AbilityActivated

	// Passive is only set when Kind == AbilityPassive: a continuous
	// characteristic grant applied fresh by the Rule Adjudicator on every
	// recompute, never mutated in place. Passives are genuinely arbitrary
	// characteristic transforms, so they stay a function field rather
	// than joining the fixed tagged union effect-program steps use.
	Passive PassiveFunc
}

// PassiveFunc mutates a working Characteristics value for one affected
// object, given the source object granting the passive and the full
// adjudication World. Called once per affected object per recompute.
type PassiveFunc func(world World, source ObjectView, target *Characteristics)

// World is the minimal read-only view the Rule Adjudicator exposes to a
// PassiveFunc: enough to ask "how many Characters does controller X have
// in play" without importing internal/state (which would create an
// import cycle, since state depends on catalog).
type World interface {
	ObjectsControlledBy(controllerID string) []ObjectView
	AllObjects() []ObjectView
}

// ObjectView is the read-only projection of a game object a PassiveFunc
// can inspect: identity and base characteristics, not the mutable
// current view being computed.
type ObjectView struct {
	ObjectID     string
	ControllerID string
	Category     Category
	Base         Characteristics
}

// AbilityInstance is a runtime ability bound to the object that grants
// it. It stores only the source object id, never a back-pointer, and is
// resolved through GameState on demand. Lives here (not internal/object)
// so Characteristics below can reference it without an import cycle.
type AbilityInstance struct {
	AbilityID      string
	SourceObjectID string
}

// Characteristics is the layered characteristics view: either the base
// (definition-derived) values or the Rule Adjudicator's current
// derivation. Never mutate a GameObject's Current in place — replace it
// via adjudicator.RecomputeAll.
type Characteristics struct {
	Statistics       Statistics
	Keywords         map[string]int // presence test: _, ok := Keywords["Eternal"]; integer keywords (Tough X, Scout X) store X
	GrantedAbilities []AbilityInstance
	NegatedAbilityID map[string]bool
	IsEternal        bool
	HasDefender      bool
	IsGigantic       bool
	IsSeasoned       bool
	IsToughX         int // 0 = not Tough
	IsFleeting       bool
}

// DeriveKeywordFlags normalizes the Keywords map into the boolean/int
// convenience fields the Keyword Handler and the Card-Play Pipeline read
// directly. Called at object minting (so a card in Limbo already reflects
// its printed keywords) and by the Rule Adjudicator's pass (3) after
// passives have added or removed keywords.
func DeriveKeywordFlags(c *Characteristics) {
	if v, ok := c.Keywords["Eternal"]; ok && v != 0 {
		c.IsEternal = true
	}
	if v, ok := c.Keywords["Defender"]; ok && v != 0 {
		c.HasDefender = true
	}
	if v, ok := c.Keywords["Gigantic"]; ok && v != 0 {
		c.IsGigantic = true
	}
	if v, ok := c.Keywords["Seasoned"]; ok && v != 0 {
		c.IsSeasoned = true
	}
	if v, ok := c.Keywords["Tough"]; ok && v > 0 {
		c.IsToughX = v
	}
	if v, ok := c.Keywords["Fleeting"]; ok && v != 0 {
		c.IsFleeting = true
	}
}

// Clone returns a deep-enough copy for safe independent mutation.
func (c Characteristics) Clone() Characteristics {
	out := c
	out.Keywords = make(map[string]int, len(c.Keywords))
	for k, v := range c.Keywords {
		out.Keywords[k] = v
	}
	out.NegatedAbilityID = make(map[string]bool, len(c.NegatedAbilityID))
	for k, v := range c.NegatedAbilityID {
		out.NegatedAbilityID[k] = v
	}
	out.GrantedAbilities = append([]AbilityInstance(nil), c.GrantedAbilities...)
	return out
}

// AbilityKind distinguishes passive (always-on characteristic grants),
// triggered (reacts to an event), and activated (player-initiated quick
// action) abilities.
type AbilityKind string

const (
	AbilityPassive   AbilityKind = "Passive"
	AbilityTriggered AbilityKind = "Triggered"
	AbilityActivated AbilityKind = "Activated"

	// AbilitySpell marks a Spell card's main effect program, run during
	// the Card-Play Pipeline's resolve step before the spell picks its
	// destination zone.
	AbilitySpell AbilityKind = "Spell"
)

// TriggerSpec names the event type a triggered ability watches for. The
// Condition is evaluated by internal/reaction at materialization time
// against the event payload and the source object's snapshot.
type TriggerSpec struct {
	EventType string
	Condition ConditionFunc
}

// ConditionFunc is deliberately a function value rather than data:
// effect steps are a tagged union of verbs, but trigger conditions are
// genuinely arbitrary boolean predicates over payload + snapshot, so
// engine-embedding callers (the card content author, out of this
// engine's scope) supply them when building a CardDefinition.
type ConditionFunc func(payload any, sourceSnapshot any) bool

// Verb is one step's operation tag in an effect program.
type Verb string

const (
	VerbDraw           Verb = "draw"
	VerbDiscard        Verb = "discard"
	VerbPutInZone      Verb = "put_in_zone"
	VerbModifyStats    Verb = "modify_stats"
	VerbGainStatus     Verb = "gain_status"
	VerbLoseStatus     Verb = "lose_status"
	VerbGainCounter    Verb = "gain_counter"
	VerbSpendCounter   Verb = "spend_counter"
	VerbCreateToken    Verb = "create_token"
	VerbSelectAndApply Verb = "select_and_apply"
)

// TargetSpec describes who/what a step applies to.
type TargetSpec struct {
	Kind   TargetKind
	Filter Filter // only meaningful when Kind == TargetSelect
	Count  int    // only meaningful when Kind == TargetSelect
}

// TargetKind is the step target selector.
type TargetKind string

const (
	TargetSelf       TargetKind = "self"
	TargetController TargetKind = "controller"
	TargetSelect     TargetKind = "select"
)

// Filter enumerates the constraints a TargetSelect step's candidate pool
// must satisfy. Zero-value fields mean "no constraint on this axis".
type Filter struct {
	Zone                     string // empty = any zone
	ControllerSelf           *bool  // nil = either controller
	Category                 Category
	Keyword                  string
	MinForest, MaxForest     *int
	MinMountain, MaxMountain *int
	MinWater, MaxWater       *int
}

// Step is one instruction in an effect program: a verb, its targets, and
// verb-specific parameters. Optional steps require an explicit player
// choice to opt in; declining ends the step without failure.
type Step struct {
	Verb       Verb
	Targets    TargetSpec
	Parameters map[string]any
	Optional   bool
}

// ValidateVerb rejects unknown verbs at definition load time: the
// tagged union is closed, and an unrecognized tag is a load-time error,
// not a runtime panic deep in effect resolution.
func ValidateVerb(v Verb) error {
	switch v {
	case VerbDraw, VerbDiscard, VerbPutInZone, VerbModifyStats, VerbGainStatus,
		VerbLoseStatus, VerbGainCounter, VerbSpendCounter, VerbCreateToken, VerbSelectAndApply:
		return nil
	default:
		return &engineerr.UnknownDefinition{DefinitionID: "verb:" + string(v)}
	}
}

// CardDefinition is the immutable, catalog-scoped card blueprint. Its
// Category and Placement never change once loaded — that invariant is
// enforced by the catalog never exposing a mutator.
type CardDefinition struct {
	ID                 string
	Name               string
	Category           Category
	Placement          PermanentPlacement
	Faction            string
	SubTypes           []string
	HandCost           Cost
	ReserveCost        Cost
	BaseStatistics     Statistics
	AbilityDefinitions []AbilityDefinition
	Rarity             string
	StartingCounters   map[string]int

	// Keywords are the card's printed keywords (Eternal, Defender,
	// Gigantic, Seasoned, Fleeting, Cooldown; Tough and Scout map to
	// their X value). Seeded into every minted object's base
	// characteristics; passives may add more at adjudication time.
	Keywords map[string]int
}

// Catalog is the immutable, lookup-only card definition table the engine
// is constructed with. There is exactly one per engine instance; it is
// never a package-level global.
type Catalog struct {
	definitions map[string]CardDefinition
}

// New builds a Catalog from a slice of definitions. Validates that every
// ability program step uses a known verb; returns the first validation
// error encountered.
func New(definitions []CardDefinition) (*Catalog, error) {
	table := make(map[string]CardDefinition, len(definitions))
	for _, def := range definitions {
		for _, ab := range def.AbilityDefinitions {
			for _, step := range ab.Program {
				if err := ValidateVerb(step.Verb); err != nil {
					return nil, err
				}
			}
		}
		table[def.ID] = def
	}
	return &Catalog{definitions: table}, nil
}

// Lookup returns the CardDefinition for id, or UnknownDefinition.
func (c *Catalog) Lookup(id string) (CardDefinition, error) {
	def, ok := c.definitions[id]
	if !ok {
		return CardDefinition{}, &engineerr.UnknownDefinition{DefinitionID: id}
	}
	return def, nil
}

// MustLookup panics (InvariantViolation) if id is unknown. Used internally
// where the id necessarily came from an already-validated object.
func (c *Catalog) MustLookup(id string) CardDefinition {
	def, err := c.Lookup(id)
	if err != nil {
		engineerr.Raise("catalog: " + err.Error())
	}
	return def
}

// All returns every definition in the catalog, in no particular order.
func (c *Catalog) All() []CardDefinition {
	out := make([]CardDefinition, 0, len(c.definitions))
	for _, def := range c.definitions {
		out = append(out, def)
	}
	return out
}
