package effect

import (
	"testing"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	targets  []string
	optional bool
}

func (s stubResolver) ResolveTargets(step catalog.Step, candidates []string) []string {
	if s.targets != nil {
		return s.targets
	}
	return candidates
}

func (s stubResolver) ResolveOptional(step catalog.Step) bool { return s.optional }

func buildEffectCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.CardDefinition{
		{ID: "sprite", Name: "Sprite", Category: catalog.CategoryCharacter, BaseStatistics: catalog.Statistics{Forest: 1}},
		{ID: "token-wisp", Name: "Wisp Token", Category: catalog.CategoryToken, BaseStatistics: catalog.Statistics{Forest: 1}},
	})
	require.NoError(t, err)
	return cat
}

func newEffectState(t *testing.T) *state.GameState {
	t.Helper()
	cat := buildEffectCatalog(t)
	return state.New([]string{"p1", "p2"}, cat, config.NewGameConfig())
}

func TestRun_Draw(t *testing.T) {
	gs := newEffectState(t)
	p, _ := gs.Player("p1")
	require.NoError(t, p.Zone(zone.TypeDeck).Add(object.CardInstance{InstanceID: "c1", DefinitionID: "sprite", OwnerID: "p1"}))
	require.NoError(t, p.Zone(zone.TypeDeck).Add(object.CardInstance{InstanceID: "c2", DefinitionID: "sprite", OwnerID: "p1"}))

	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: "src", Resolver: stubResolver{}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbDraw, Targets: catalog.TargetSpec{Kind: catalog.TargetController}, Parameters: map[string]any{"count": 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Zone(zone.TypeHand).Count())
	assert.Equal(t, 0, p.Zone(zone.TypeDeck).Count())
}

func TestRun_ModifyStatsPermanent(t *testing.T) {
	gs := newEffectState(t)
	sprite := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sprite", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(sprite))

	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: sprite.ObjectID, Resolver: stubResolver{}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbModifyStats, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf},
			Parameters: map[string]any{"forest": 3, "duration": "permanent"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, sprite.Current.Statistics.Forest)
}

func TestRun_ModifyStatsTemporaryUsesBoostCounter(t *testing.T) {
	gs := newEffectState(t)
	sprite := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sprite", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(sprite))

	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: sprite.ObjectID, Resolver: stubResolver{}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbModifyStats, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf},
			Parameters: map[string]any{"forest": 2, "duration": "until_end_of_turn"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sprite.Counters[object.CounterBoost])
	assert.Equal(t, 1, sprite.Current.Statistics.Forest, "base statistics untouched by a temporary modifier")
}

func TestRun_GainAndLoseStatus(t *testing.T) {
	gs := newEffectState(t)
	sprite := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sprite", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(sprite))

	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: sprite.ObjectID, Resolver: stubResolver{}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbGainStatus, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf}, Parameters: map[string]any{"status": "Exhausted"}},
	})
	require.NoError(t, err)
	assert.True(t, sprite.IsExhausted())

	err = Run(ctx, []catalog.Step{
		{Verb: catalog.VerbLoseStatus, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf}, Parameters: map[string]any{"status": "Exhausted"}},
	})
	require.NoError(t, err)
	assert.False(t, sprite.IsExhausted())
}

func TestRun_GainAndSpendCounter(t *testing.T) {
	gs := newEffectState(t)
	sprite := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sprite", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(sprite))

	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: sprite.ObjectID, Resolver: stubResolver{}}
	require.NoError(t, Run(ctx, []catalog.Step{
		{Verb: catalog.VerbGainCounter, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf},
			Parameters: map[string]any{"counterType": "Boost", "amount": 3}},
	}))
	assert.Equal(t, 3, sprite.Counters[object.CounterType("Boost")])

	require.NoError(t, Run(ctx, []catalog.Step{
		{Verb: catalog.VerbSpendCounter, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf},
			Parameters: map[string]any{"counterType": "Boost", "amount": 5}},
	}))
	assert.Equal(t, 0, sprite.Counters[object.CounterType("Boost")], "spend floors at zero")
}

func TestRun_CreateToken(t *testing.T) {
	gs := newEffectState(t)
	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: "src", Resolver: stubResolver{}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbCreateToken, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf},
			Parameters: map[string]any{"definitionID": "token-wisp", "zone": string(zone.TypeExpedition)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gs.ExpeditionZone().Count())
}

func TestRun_PutInZoneMintsFreshIdentity(t *testing.T) {
	gs := newEffectState(t)
	sprite := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sprite", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(sprite))
	originalID := sprite.ObjectID

	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: sprite.ObjectID, Resolver: stubResolver{}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbPutInZone, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf},
			Parameters: map[string]any{"zone": string(zone.TypeReserve)}},
	})
	require.NoError(t, err)

	assert.Nil(t, gs.ExpeditionZone().Find(originalID))
	p, _ := gs.Player("p1")
	assert.Equal(t, 1, p.Zone(zone.TypeReserve).Count())
	for _, e := range p.Zone(zone.TypeReserve).All() {
		assert.NotEqual(t, originalID, e.EntityID(), "zone transition must mint a fresh object id")
	}
}

func TestRun_SelectAndApply(t *testing.T) {
	gs := newEffectState(t)
	sprite := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sprite", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(sprite))

	sub := []catalog.Step{
		{Verb: catalog.VerbGainStatus, Targets: catalog.TargetSpec{Kind: catalog.TargetSelf}, Parameters: map[string]any{"status": "Exhausted"}},
	}
	ctx := Context{GS: gs, ControllerID: "p1", SourceObjectID: sprite.ObjectID, Resolver: stubResolver{targets: []string{sprite.ObjectID}}}
	err := Run(ctx, []catalog.Step{
		{Verb: catalog.VerbSelectAndApply, Targets: catalog.TargetSpec{Kind: catalog.TargetSelect, Count: 1},
			Parameters: map[string]any{"program": sub}},
	})
	require.NoError(t, err)
	assert.True(t, sprite.IsExhausted())
}
