package adjudicator

import (
	"testing"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	buffAllies := catalog.AbilityDefinition{
		ID:   "forest-buff",
		Kind: catalog.AbilityPassive,
		Passive: func(w catalog.World, source catalog.ObjectView, target *catalog.Characteristics) {
			target.Statistics.Forest += 1
		},
	}

	eternalKeyword := catalog.AbilityDefinition{
		ID:   "grant-eternal",
		Kind: catalog.AbilityPassive,
		Passive: func(w catalog.World, source catalog.ObjectView, target *catalog.Characteristics) {
			target.Keywords["Eternal"] = 1
		},
	}

	cat, err := catalog.New([]catalog.CardDefinition{
		{
			ID:                 "buffer",
			Name:               "Grove Warden",
			Category:           catalog.CategoryCharacter,
			BaseStatistics:     catalog.Statistics{Forest: 1},
			AbilityDefinitions: []catalog.AbilityDefinition{buffAllies},
		},
		{
			ID:                 "sleeper",
			Name:               "Ancient Treant",
			Category:           catalog.CategoryCharacter,
			BaseStatistics:     catalog.Statistics{Forest: 2},
			AbilityDefinitions: []catalog.AbilityDefinition{eternalKeyword},
		},
	})
	require.NoError(t, err)
	return cat
}

func TestRecomputeAll_AppliesPassivesAndKeywords(t *testing.T) {
	cat := buildCatalog(t)
	cfg := config.NewGameConfig()
	gs := state.New([]string{"p1", "p2"}, cat, cfg)

	buffer := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "buffer", OwnerID: "p1"}}, "p1", nil)
	sleeper := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sleeper", OwnerID: "p1"}}, "p1", nil)

	gs.ExpeditionZone().Add(buffer)
	gs.ExpeditionZone().Add(sleeper)

	RecomputeAll(gs)

	assert.Equal(t, 2, buffer.Current.Statistics.Forest, "buffer's own forest-buff passive applies to itself too")
	assert.Equal(t, 3, sleeper.Current.Statistics.Forest, "sleeper base 2 + buffer's forest-buff")
	assert.True(t, sleeper.Current.IsEternal)
	assert.True(t, buffer.Current.IsEternal, "sleeper's grant-eternal passive applies to buffer too")
}

func TestRecomputeAll_IsIdempotent(t *testing.T) {
	cat := buildCatalog(t)
	cfg := config.NewGameConfig()
	gs := state.New([]string{"p1", "p2"}, cat, cfg)

	sleeper := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "sleeper", OwnerID: "p1"}}, "p1", nil)
	gs.ExpeditionZone().Add(sleeper)

	RecomputeAll(gs)
	first := sleeper.Current.Clone()

	RecomputeAll(gs)
	second := sleeper.Current.Clone()

	assert.Equal(t, first.Statistics, second.Statistics)
	assert.Equal(t, first.IsEternal, second.IsEternal)
	assert.Equal(t, first.Keywords, second.Keywords)
}

func TestRecomputeAll_ExcludesLimboObjects(t *testing.T) {
	cat := buildCatalog(t)
	cfg := config.NewGameConfig()
	gs := state.New([]string{"p1", "p2"}, cat, cfg)

	buffer := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "buffer", OwnerID: "p1"}}, "p1", nil)
	gs.LimboZone().Add(buffer)

	RecomputeAll(gs)

	assert.Empty(t, gs.AllInPlayObjects())
}

func TestIsBoosted(t *testing.T) {
	obj := &object.GameObject{Counters: map[object.CounterType]int{}}
	assert.False(t, IsBoosted(obj))

	obj.Counters[object.CounterBoost] = 1
	assert.True(t, IsBoosted(obj))
}

func TestCharacteristics_LooksUpAcrossZones(t *testing.T) {
	cat := buildCatalog(t)
	cfg := config.NewGameConfig()
	gs := state.New([]string{"p1", "p2"}, cat, cfg)

	buffer := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "buffer", OwnerID: "p1"}}, "p1", nil)
	gs.ExpeditionZone().Add(buffer)
	RecomputeAll(gs)

	c, ok := Characteristics(gs, buffer.ObjectID)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Statistics.Forest)

	_, ok = Characteristics(gs, "unknown-id")
	assert.False(t, ok)
}
