// Package engine is the external surface of the rules engine:
// construction, setup, queries, the drive operations (advance_phase,
// submit_action, answer_choice), and the event
// subscription API. Everything below it — zones, objects, adjudication,
// mana, the card-play pipeline, effects, reactions, the scheduler and
// the arena — is composed here behind a single facade.
package engine

import (
	"context"
	"math/rand"

	"expedition-engine/internal/adjudicator"
	"expedition-engine/internal/cardplay"
	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/effect"
	"expedition-engine/internal/engineerr"
	"expedition-engine/internal/events"
	"expedition-engine/internal/keyword"
	"expedition-engine/internal/logger"
	"expedition-engine/internal/mana"
	"expedition-engine/internal/object"
	"expedition-engine/internal/reaction"
	"expedition-engine/internal/scheduler"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"

	"go.uber.org/zap"
)

// Cost re-exports the catalog cost type for drivers building actions.
type Cost = catalog.Cost

// Engine owns one game. It is single-threaded and cooperative: callers drive it from one goroutine; no operation is
// preemptible.
type Engine struct {
	gs       *state.GameState
	pipeline *cardplay.Pipeline
	rng      *rand.Rand

	pending   *pendingState
	choiceSeq uint64

	// resolver for the action currently executing; the pipeline's
	// effect runner closure reads it.
	currentResolver *choiceResolver
}

// New constructs an engine for the given players and card definitions.
// rngSeed drives every random decision (deck shuffles), so two engines
// built with identical inputs behave identically.
func New(playerIDs []string, definitions []catalog.CardDefinition, rngSeed int64, cfg config.GameConfig) (*Engine, error) {
	cat, err := catalog.New(definitions)
	if err != nil {
		return nil, err
	}
	gs := state.New(playerIDs, cat, cfg)

	e := &Engine{
		gs:  gs,
		rng: rand.New(rand.NewSource(rngSeed)),
	}
	e.pipeline = cardplay.New(gs, func(controllerID, sourceObjectID string, program []catalog.Step) error {
		return effect.Run(effect.Context{
			GS:             gs,
			ControllerID:   controllerID,
			SourceObjectID: sourceObjectID,
			Resolver:       e.currentResolver,
		}, program)
	})
	reaction.RegisterAll(gs)
	return e, nil
}

// Initialize runs setup: for each player, the Hero goes to
// the Hero zone, the deck is shuffled, the configured number of top
// cards become face-down ready mana orbs, and the starting hand is
// drawn. Then the scheduler opens day 1 (which skips Morning).
func (e *Engine) Initialize(deckByPlayer map[string][]string) error {
	gs := e.gs
	for _, playerID := range gs.PlayerOrder {
		deckList, ok := deckByPlayer[playerID]
		if !ok {
			return &engineerr.UnknownPlayer{PlayerID: playerID}
		}
		p := gs.Players[playerID]

		heroPlaced := false
		for _, defID := range deckList {
			def, err := gs.Catalog.Lookup(defID)
			if err != nil {
				return err
			}
			if def.Category == catalog.CategoryHero {
				if heroPlaced {
					return &engineerr.InvariantViolation{Detail: "deck for " + playerID + " contains more than one Hero"}
				}
				hero := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: defID, OwnerID: playerID}}, playerID, nil)
				if err := p.Zone(zone.TypeHero).Add(hero); err != nil {
					return err
				}
				heroPlaced = true
				continue
			}
			instance := gs.Factory.MintInstance(defID, playerID)
			if err := p.Zone(zone.TypeDeck).Add(instance); err != nil {
				return err
			}
		}
		if !heroPlaced {
			return &engineerr.InvariantViolation{Detail: "deck for " + playerID + " contains no Hero"}
		}

		p.Zone(zone.TypeDeck).Shuffle(func(n int, swapFn func(i, j int)) {
			e.rng.Shuffle(n, swapFn)
		})

		for i := 0; i < gs.Config.StartingManaOrbs; i++ {
			entity := p.Zone(zone.TypeDeck).DrawTop()
			if entity == nil {
				break
			}
			instance := entity.(object.CardInstance)
			orb := gs.Factory.MintObject(object.Source{Instance: &instance}, playerID, nil)
			orb.FaceDown = true
			if err := p.Zone(zone.TypeMana).Add(orb); err != nil {
				return err
			}
		}

		for i := 0; i < gs.Config.StartingHandSize; i++ {
			entity := p.Zone(zone.TypeDeck).DrawTop()
			if entity == nil {
				break
			}
			if err := p.Zone(zone.TypeHand).Add(entity); err != nil {
				return err
			}
		}
	}

	scheduler.Begin(gs)
	adjudicator.RecomputeAll(gs)
	gs.AppendLog("initialize", map[string]any{"players": gs.PlayerOrder})
	return nil
}

// Bus exposes the event bus for the subscription API. Handlers must not mutate engine state.
func (e *Engine) Bus() *events.Bus { return e.gs.Bus }

// State exposes the underlying game state for read-only inspection by
// trusted drivers (the replay harness, tests). External clients should
// prefer StateSnapshot.
func (e *Engine) State() *state.GameState { return e.gs }

// ManaPool returns the player's current mana picture.
func (e *Engine) ManaPool(playerID string) (mana.Available, error) {
	if _, ok := e.gs.Player(playerID); !ok {
		return mana.Available{}, &engineerr.UnknownPlayer{PlayerID: playerID}
	}
	return mana.AvailableFor(e.gs, playerID), nil
}

// CharacteristicsOf returns an object's current (adjudicated)
// characteristics.
func (e *Engine) CharacteristicsOf(objectID string) (catalog.Characteristics, error) {
	c, ok := adjudicator.Characteristics(e.gs, objectID)
	if !ok {
		return catalog.Characteristics{}, &engineerr.UnknownEntity{EntityID: objectID}
	}
	return c, nil
}

// advancePhase is the internal pseudo-action AdvancePhase submits, so
// phase routines get the same transactional snapshot and choice
// suspension as player actions.
type advancePhase struct{}

func (advancePhase) actionName() string { return "advance_phase" }

// AdvancePhase moves to the next phase and runs its automatic routine,
// then drains any reactions the routine triggered. A non-nil
// PendingChoice means a phase-routine reaction suspended on a player
// decision; resume with AnswerChoice.
func (e *Engine) AdvancePhase() (state.Phase, *PendingChoice, error) {
	if e.pending != nil {
		return e.gs.CurrentPhase, nil, &engineerr.PhaseIneligible{Phase: string(e.gs.CurrentPhase), Action: "advance_phase while a choice is pending"}
	}
	pc, err := e.run(e.gs.CurrentPlayerID, advancePhase{}, nil)
	return e.gs.CurrentPhase, pc, err
}

// SubmitAction executes one player action transactionally: either it
// commits with passive adjudication and trigger draining run to
// quiescence, or the pre-action state is restored. A
// non-nil PendingChoice means the action suspended on a player decision
// and nothing was committed; resume with AnswerChoice.
func (e *Engine) SubmitAction(playerID string, action Action) (*PendingChoice, error) {
	if e.pending != nil {
		return nil, &engineerr.PhaseIneligible{Phase: string(e.gs.CurrentPhase), Action: "submit_action while a choice is pending"}
	}
	return e.run(playerID, action, nil)
}

// AnswerChoice resumes the suspended action with one more answer.
// Resolution may surface a further PendingChoice.
func (e *Engine) AnswerChoice(choiceID string, answer ChoiceAnswer) (*PendingChoice, error) {
	if e.pending == nil || e.pending.choice.ChoiceID != choiceID {
		return nil, &engineerr.UnknownEntity{EntityID: choiceID}
	}
	p := e.pending
	e.pending = nil
	return e.run(p.playerID, p.action, append(p.answers, answer))
}

// AbandonChoice cancels the outstanding choice. The pre-choice snapshot
// was already restored when the choice surfaced, so this only discards
// the suspended invocation.
func (e *Engine) AbandonChoice(choiceID string) error {
	if e.pending == nil || e.pending.choice.ChoiceID != choiceID {
		return &engineerr.UnknownEntity{EntityID: choiceID}
	}
	e.pending = nil
	return nil
}

func (e *Engine) run(playerID string, action Action, answers []ChoiceAnswer) (pc *PendingChoice, err error) {
	if e.gs.Over {
		return nil, &engineerr.PhaseIneligible{Phase: string(e.gs.CurrentPhase), Action: action.actionName() + " after game end"}
	}

	m := e.gs.Capture()
	resolver := &choiceResolver{playerID: playerID, answers: answers}
	e.currentResolver = resolver
	defer func() { e.currentResolver = nil }()

	defer func() {
		if r := recover(); r == nil {
			return
		} else if required, ok := r.(choiceRequired); ok {
			e.gs.Restore(m)
			required.choice.ChoiceID = e.nextChoiceID()
			e.pending = &pendingState{choice: required.choice, playerID: playerID, action: action, answers: answers}
			pc = &e.pending.choice
			err = nil
		} else if violation, ok := r.(*engineerr.InvariantViolation); ok {
			logger.Get().Error("invariant violation", zap.String("detail", violation.Detail))
			e.gs.Restore(m)
			pc, err = nil, violation
		} else {
			panic(r)
		}
	}()

	if err := e.dispatch(playerID, action, resolver); err != nil {
		e.gs.Restore(m)
		logger.WithPlayerContext(playerID, e.gs.DayNumber, string(e.gs.CurrentPhase)).Warn("action rejected",
			zap.String("action", action.actionName()), zap.Error(err))
		return nil, err
	}

	adjudicator.RecomputeAll(e.gs)
	if err := e.drainReactions(resolver); err != nil {
		e.gs.Restore(m)
		return nil, err
	}
	adjudicator.RecomputeAll(e.gs)

	e.gs.AppendLog(action.actionName(), logParams(playerID, action))
	logger.WithPlayerContext(playerID, e.gs.DayNumber, string(e.gs.CurrentPhase)).Info("action committed",
		zap.String("action", action.actionName()))
	return nil, nil
}

func (e *Engine) dispatch(playerID string, action Action, resolver *choiceResolver) error {
	if _, ok := e.gs.Player(playerID); !ok {
		return &engineerr.UnknownPlayer{PlayerID: playerID}
	}

	switch a := action.(type) {
	case PlayCard:
		return e.playCard(playerID, a, resolver)
	case ActivateAbility:
		return e.activateAbility(playerID, a, resolver)
	case ConvertMana:
		return e.convertMana(playerID, a)
	case Expand:
		return e.expand(playerID, a)
	case Pass:
		return e.pass(playerID)
	case advancePhase:
		_, err := scheduler.Advance(e.gs)
		return err
	default:
		return &engineerr.InvariantViolation{Detail: "unknown action type"}
	}
}

func (e *Engine) requireAfternoonPriority(playerID, actionName string) error {
	if e.gs.CurrentPhase != state.PhaseAfternoon {
		return &engineerr.PhaseIneligible{Phase: string(e.gs.CurrentPhase), Action: actionName}
	}
	if playerID != e.gs.CurrentPlayerID {
		return &engineerr.NotActivePlayer{PlayerID: playerID}
	}
	return nil
}

func (e *Engine) playCard(playerID string, a PlayCard, resolver *choiceResolver) error {
	if err := e.requireAfternoonPriority(playerID, "play_card"); err != nil {
		return err
	}
	if len(a.Targets) > 0 {
		// Targets declared at intent double as the first select-step
		// answer of the card's own effect program.
		resolver.answers = append([]ChoiceAnswer{{Targets: a.Targets}}, resolver.answers...)
	}

	intent := cardplay.Intent{
		PlayerID:         playerID,
		FromZone:         a.FromZone,
		Targets:          a.Targets,
		ExpeditionSide:   a.ExpeditionSide,
		CostIncreases:    a.CostIncreases,
		CostDecreases:    a.CostDecreases,
		CostMinimumFloor: a.CostMinimumFloor,
	}
	switch a.FromZone {
	case zone.TypeHand:
		intent.InstanceID = a.CardID
	case zone.TypeReserve:
		intent.ObjectID = a.CardID
	default:
		return &engineerr.ZoneIneligible{Reason: "cards can only be played from Hand or Reserve"}
	}

	if a.UseScout {
		def, err := e.definitionOfCard(playerID, a)
		if err != nil {
			return err
		}
		x, ok := def.Keywords["Scout"]
		if !ok {
			return &engineerr.ZoneIneligible{Reason: "card has no Scout cost"}
		}
		intent.ScoutCost = x
	}

	result, err := e.pipeline.Play(context.Background(), intent)
	if err != nil {
		return err
	}

	if a.UseScout {
		// Queued after the CardPlayed-driven on-enter emblems so its
		// later materialization timestamp resolves it after them.
		reaction.EnqueueScoutRetreat(e.gs, result.Object)
	}
	scheduler.RecordNonPassAction(e.gs)
	return nil
}

func (e *Engine) definitionOfCard(playerID string, a PlayCard) (catalog.CardDefinition, error) {
	p := e.gs.Players[playerID]
	switch a.FromZone {
	case zone.TypeHand:
		if instance, ok := p.Zone(zone.TypeHand).Find(a.CardID).(object.CardInstance); ok {
			return e.gs.Catalog.Lookup(instance.DefinitionID)
		}
	case zone.TypeReserve:
		if obj, ok := p.Zone(zone.TypeReserve).Find(a.CardID).(*object.GameObject); ok {
			return e.gs.Catalog.Lookup(obj.DefinitionID)
		}
	}
	return catalog.CardDefinition{}, &engineerr.UnknownEntity{EntityID: a.CardID}
}

func (e *Engine) activateAbility(playerID string, a ActivateAbility, resolver *choiceResolver) error {
	if err := e.requireAfternoonPriority(playerID, "activate_ability"); err != nil {
		return err
	}

	obj, z := e.gs.FindObject(a.ObjectID)
	if obj == nil {
		return &engineerr.UnknownEntity{EntityID: a.ObjectID}
	}
	if obj.ControllerID != playerID {
		return &engineerr.IllegalTarget{Reason: "cannot activate an opponent's ability"}
	}
	if z.TypeOf == zone.TypeReserve && obj.IsExhausted() {
		return &engineerr.Exhausted{ObjectID: a.ObjectID}
	}

	def := e.gs.Catalog.MustLookup(obj.DefinitionID)
	for _, ab := range def.AbilityDefinitions {
		if ab.ID != a.AbilityID {
			continue
		}
		if ab.Kind != catalog.AbilityActivated {
			return &engineerr.IllegalTarget{Reason: "ability " + a.AbilityID + " is not activatable"}
		}
		if err := mana.Pay(e.gs, playerID, ab.Cost); err != nil {
			return err
		}
		events.Publish(e.gs.Bus, events.ManaSpent{PlayerID: playerID, Amount: ab.Cost.Total()})
		seeded := resolver
		if len(a.Targets) > 0 {
			seeded.answers = append([]ChoiceAnswer{{Targets: a.Targets}}, seeded.answers...)
		}
		if err := effect.Run(effect.Context{
			GS:             e.gs,
			ControllerID:   playerID,
			SourceObjectID: a.ObjectID,
			Resolver:       seeded,
		}, ab.Program); err != nil {
			return err
		}
		obj.AbilityActivationsThisTurn++
		scheduler.RecordNonPassAction(e.gs)
		return nil
	}
	return &engineerr.UnknownEntity{EntityID: a.AbilityID}
}

func (e *Engine) convertMana(playerID string, a ConvertMana) error {
	if err := e.requireAfternoonPriority(playerID, "convert_mana"); err != nil {
		return err
	}
	if err := mana.Convert(e.gs, playerID, a.SourceOrbID, a.TargetOrbID); err != nil {
		return err
	}
	scheduler.RecordNonPassAction(e.gs)
	return nil
}

func (e *Engine) expand(playerID string, a Expand) error {
	if e.gs.CurrentPhase != state.PhaseMorning {
		return &engineerr.PhaseIneligible{Phase: string(e.gs.CurrentPhase), Action: "expand"}
	}
	p := e.gs.Players[playerID]
	instance, ok := p.Zone(zone.TypeHand).Find(a.CardInHandID).(object.CardInstance)
	if !ok {
		return &engineerr.UnknownEntity{EntityID: a.CardInHandID}
	}
	_, err := mana.Expand(e.gs, playerID, instance)
	return err
}

func (e *Engine) pass(playerID string) error {
	phaseOver, err := scheduler.RecordPass(e.gs, playerID)
	if err != nil {
		return err
	}
	if phaseOver {
		if _, err := scheduler.Advance(e.gs); err != nil {
			return err
		}
	}
	return nil
}

// drainReactions resolves every queued emblem to quiescence under
// active-player-first discipline.
func (e *Engine) drainReactions(resolver *choiceResolver) error {
	return reaction.DrainAll(e.gs, func(gs *state.GameState, em *object.Emblem) error {
		if reaction.IsScoutRetreat(em) {
			return e.resolveScoutRetreat(em)
		}
		def := gs.Catalog.MustLookup(em.SourceSnapshot.DefinitionID)
		for _, ab := range def.AbilityDefinitions {
			if ab.ID == em.Ability.AbilityID {
				return effect.Run(effect.Context{
					GS:             gs,
					ControllerID:   em.ControllerID,
					SourceObjectID: em.Ability.SourceObjectID,
					Resolver:       resolver,
				}, ab.Program)
			}
		}
		// An ability granted by a passive with no definition entry has
		// nothing to run; the emblem resolves to nothing.
		return nil
	})
}

// resolveScoutRetreat moves a Scout-played object to its controller's
// Reserve, after its other on-play reactions resolved.
func (e *Engine) resolveScoutRetreat(em *object.Emblem) error {
	gs := e.gs
	obj, srcZone := gs.FindObject(em.Ability.SourceObjectID)
	if obj == nil {
		// The object already left play (another reaction moved it); the
		// retreat fizzles.
		return nil
	}

	var carried map[object.CounterType]int
	if keyword.CarriesBoostOnZoneChange(obj, srcZone.TypeOf, zone.TypeReserve) {
		if boost := obj.Counters[object.CounterBoost]; boost > 0 {
			carried = map[object.CounterType]int{object.CounterBoost: boost}
		}
	}

	srcZone.Remove(obj.ObjectID)
	p := gs.Players[obj.ControllerID]
	minted := gs.Factory.MintObject(object.Source{Object: obj}, obj.ControllerID, carried)
	if err := p.Zone(zone.TypeReserve).Add(minted); err != nil {
		return err
	}
	events.Publish(gs.Bus, events.EntityCeased{EntityID: obj.ObjectID, ZoneID: srcZone.ID})
	events.Publish(gs.Bus, events.EntityMoved{
		EntityID: minted.ObjectID, FromZoneID: srcZone.ID, ToZoneID: p.Zone(zone.TypeReserve).ID, PlayerID: obj.ControllerID,
	})
	return nil
}

func logParams(playerID string, action Action) map[string]any {
	params := map[string]any{"player": playerID}
	switch a := action.(type) {
	case PlayCard:
		params["card"] = a.CardID
		params["from_zone"] = string(a.FromZone)
		params["side"] = string(a.ExpeditionSide)
		params["scout"] = a.UseScout
	case ActivateAbility:
		params["object"] = a.ObjectID
		params["ability"] = a.AbilityID
	case ConvertMana:
		params["source_orb"] = a.SourceOrbID
		params["target_orb"] = a.TargetOrbID
	case Expand:
		params["card"] = a.CardInHandID
	}
	return params
}
