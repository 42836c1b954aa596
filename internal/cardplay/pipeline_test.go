package cardplay

import (
	"context"
	"testing"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/object"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPipelineCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.CardDefinition{
		{
			ID:             "grove-warden",
			Name:           "Grove Warden",
			Category:       catalog.CategoryCharacter,
			HandCost:       catalog.Cost{Generic: 2},
			BaseStatistics: catalog.Statistics{Forest: 2},
		},
		{
			ID:          "stone-wall",
			Name:        "Stone Wall",
			Category:    catalog.CategoryPermanent,
			Placement:   catalog.PlacementLandmark,
			HandCost:    catalog.Cost{Generic: 2},
			ReserveCost: catalog.Cost{Generic: 1},
		},
		{
			ID:       "quick-bolt",
			Name:     "Quick Bolt",
			Category: catalog.CategorySpell,
			HandCost: catalog.Cost{Generic: 1},
		},
		{
			ID:             "ironhide",
			Name:           "Ironhide",
			Category:       catalog.CategoryCharacter,
			HandCost:       catalog.Cost{Generic: 2},
			BaseStatistics: catalog.Statistics{Mountain: 2},
			Keywords:       map[string]int{"Tough": 5},
		},
	})
	require.NoError(t, err)
	return cat
}

func newPipelineState(t *testing.T, orbCount int) (*state.GameState, *state.Player) {
	t.Helper()
	cat := buildPipelineCatalog(t)
	gs := state.New([]string{"p1", "p2"}, cat, config.NewGameConfig())
	p, _ := gs.Player("p1")
	for i := 0; i < orbCount; i++ {
		orb := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "quick-bolt", OwnerID: "p1"}}, "p1", nil)
		require.NoError(t, p.Zone(zone.TypeMana).Add(orb))
	}
	return gs, p
}

func TestPlay_CharacterFromHand_LandsInExpedition(t *testing.T) {
	gs, p := newPipelineState(t, 2)
	card := object.CardInstance{InstanceID: "card-1", DefinitionID: "grove-warden", OwnerID: "p1"}
	require.NoError(t, p.Zone(zone.TypeHand).Add(card))

	pipeline := New(gs, nil)
	result, err := pipeline.Play(context.Background(), Intent{
		PlayerID:       "p1",
		InstanceID:     "card-1",
		FromZone:       zone.TypeHand,
		ExpeditionSide: object.ExpeditionHero,
	})
	require.NoError(t, err)

	assert.Equal(t, gs.ExpeditionZone().ID, result.FinalZoneID)
	assert.NotNil(t, gs.ExpeditionZone().Find(result.ObjectID))
	assert.Equal(t, 0, p.Zone(zone.TypeHand).Count())
}

func TestPlay_RollsBackOnInsufficientMana(t *testing.T) {
	gs, p := newPipelineState(t, 0)
	card := object.CardInstance{InstanceID: "card-1", DefinitionID: "grove-warden", OwnerID: "p1"}
	require.NoError(t, p.Zone(zone.TypeHand).Add(card))

	pipeline := New(gs, nil)
	_, err := pipeline.Play(context.Background(), Intent{
		PlayerID:       "p1",
		InstanceID:     "card-1",
		FromZone:       zone.TypeHand,
		ExpeditionSide: object.ExpeditionHero,
	})
	require.Error(t, err)

	assert.Equal(t, 1, p.Zone(zone.TypeHand).Count(), "card must be restored to hand on rollback")
	assert.Equal(t, 0, gs.LimboZone().Count())
	assert.Equal(t, 0, gs.ExpeditionZone().Count())
}

func TestPlay_LandmarkPermanentFromReserve_DropsFleeting(t *testing.T) {
	gs, p := newPipelineState(t, 2)
	reserveObj := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "stone-wall", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, p.Zone(zone.TypeReserve).Add(reserveObj))

	pipeline := New(gs, nil)
	result, err := pipeline.Play(context.Background(), Intent{
		PlayerID: "p1",
		ObjectID: reserveObj.ObjectID,
		FromZone: zone.TypeReserve,
	})
	require.NoError(t, err)

	landed, _ := gs.FindObject(result.ObjectID)
	require.NotNil(t, landed)
	assert.False(t, landed.HasStatus(object.StatusFleeting))
	assert.Equal(t, p.Zone(zone.TypeLandmark).ID, result.FinalZoneID)
}

func TestPlay_SpellFleetingGoesToDiscard(t *testing.T) {
	gs, p := newPipelineState(t, 2)
	reserveObj := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "quick-bolt", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, p.Zone(zone.TypeReserve).Add(reserveObj))

	pipeline := New(gs, nil)
	result, err := pipeline.Play(context.Background(), Intent{
		PlayerID: "p1",
		ObjectID: reserveObj.ObjectID,
		FromZone: zone.TypeReserve,
	})
	require.NoError(t, err)
	assert.Equal(t, p.Zone(zone.TypeDiscardPile).ID, result.FinalZoneID)
}

func TestPlay_ToughSurchargeAddsToGenericCost(t *testing.T) {
	gs, p := newPipelineState(t, 1)
	toughTarget := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "ironhide", OwnerID: "p2"}}, "p2", nil)
	require.NoError(t, gs.ExpeditionZone().Add(toughTarget))

	card := object.CardInstance{InstanceID: "bolt-1", DefinitionID: "quick-bolt", OwnerID: "p1"}
	require.NoError(t, p.Zone(zone.TypeHand).Add(card))

	pipeline := New(gs, nil)
	_, err := pipeline.Play(context.Background(), Intent{
		PlayerID:   "p1",
		InstanceID: "bolt-1",
		FromZone:   zone.TypeHand,
		Targets:    []string{toughTarget.ObjectID},
	})
	require.Error(t, err, "1 ready orb cannot cover base cost 1 plus a Tough 5 surcharge")
}
