package mana

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

func buildTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.CardDefinition{
		{ID: "scout", Name: "Forest Scout", Category: catalog.CategoryCharacter, BaseStatistics: catalog.Statistics{Forest: 2}},
		{ID: "blank", Name: "Filler", Category: catalog.CategorySpell},
	})
	require.NoError(t, err)
	return cat
}

func newTestState(t *testing.T) *state.GameState {
	t.Helper()
	cat := buildTestCatalog(t)
	return state.New([]string{"p1", "p2"}, cat, config.NewGameConfig())
}

func TestAvailableFor_CountsOrbsAndTerrain(t *testing.T) {
	gs := newTestState(t)
	p, _ := gs.Player("p1")

	orb := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, p.Zone(zone.TypeMana).Add(orb))

	scout := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "scout", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(scout))

	avail := AvailableFor(gs, "p1")
	assert.Equal(t, 1, avail.OrbsReady)
	assert.Equal(t, 2, avail.Forest)
	assert.Equal(t, 3, avail.Total)
}

func TestAvailableFor_BoostCounterAddsToAllTerrains(t *testing.T) {
	gs := newTestState(t)
	scout := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "scout", OwnerID: "p1"}}, "p1", nil)
	scout.Counters[object.CounterBoost] = 2
	require.NoError(t, gs.ExpeditionZone().Add(scout))

	avail := AvailableFor(gs, "p1")
	assert.Equal(t, 4, avail.Forest)
	assert.Equal(t, 2, avail.Mountain)
	assert.Equal(t, 2, avail.Water)
	assert.Equal(t, 8, avail.Total)
}

func TestCanPay(t *testing.T) {
	avail := Available{Total: 5, Forest: 2, Mountain: 1, Water: 0}
	assert.NoError(t, CanPay(avail, catalog.Cost{Generic: 2, Forest: 2}))

	err := CanPay(avail, catalog.Cost{Forest: 3})
	assert.Error(t, err)

	err = CanPay(avail, catalog.Cost{Generic: 10})
	assert.Error(t, err)
}

func TestPay_ExhaustsOrbsForGenericAfterExcessTerrain(t *testing.T) {
	gs := newTestState(t)
	p, _ := gs.Player("p1")

	orb1 := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	orb2 := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, p.Zone(zone.TypeMana).Add(orb1))
	require.NoError(t, p.Zone(zone.TypeMana).Add(orb2))

	scout := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "scout", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, gs.ExpeditionZone().Add(scout))

	// Forest 2 available, cost demands Forest 1 generic 2: 1 forest excess
	// covers 1 of the generic, leaving 1 generic to come from orbs.
	err := Pay(gs, "p1", catalog.Cost{Generic: 2, Forest: 1})
	require.NoError(t, err)

	exhaustedCount := 0
	for _, e := range p.Zone(zone.TypeMana).All() {
		if obj := e.(*object.GameObject); obj.IsExhausted() {
			exhaustedCount++
		}
	}
	assert.Equal(t, 1, exhaustedCount)
}

func TestPay_InsufficientMana(t *testing.T) {
	gs := newTestState(t)
	err := Pay(gs, "p1", catalog.Cost{Generic: 5})
	require.Error(t, err)
}

func TestExpand_OncePerDay(t *testing.T) {
	gs := newTestState(t)
	p, _ := gs.Player("p1")
	card := object.CardInstance{InstanceID: "hand-card-1", DefinitionID: "blank", OwnerID: "p1"}
	require.NoError(t, p.Zone(zone.TypeHand).Add(card))

	orb, err := Expand(gs, "p1", card)
	require.NoError(t, err)
	assert.True(t, orb.FaceDown)
	assert.Equal(t, 1, p.Zone(zone.TypeMana).Count())
	assert.True(t, p.HasExpandedThisDay)

	card2 := object.CardInstance{InstanceID: "hand-card-2", DefinitionID: "blank", OwnerID: "p1"}
	require.NoError(t, p.Zone(zone.TypeHand).Add(card2))
	_, err = Expand(gs, "p1", card2)
	assert.Error(t, err)
}

func TestConvert_ExhaustsSourceReadiesTarget(t *testing.T) {
	gs := newTestState(t)
	p, _ := gs.Player("p1")

	src := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	dst := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	dst.Statuses[object.StatusExhausted] = true
	require.NoError(t, p.Zone(zone.TypeMana).Add(src))
	require.NoError(t, p.Zone(zone.TypeMana).Add(dst))

	require.NoError(t, Convert(gs, "p1", src.ObjectID, dst.ObjectID))
	assert.True(t, src.IsExhausted())
	assert.False(t, dst.IsExhausted())
}

func TestConvert_FailsIfSourceExhausted(t *testing.T) {
	gs := newTestState(t)
	p, _ := gs.Player("p1")

	src := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	src.Statuses[object.StatusExhausted] = true
	dst := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "blank", OwnerID: "p1"}}, "p1", nil)
	require.NoError(t, p.Zone(zone.TypeMana).Add(src))
	require.NoError(t, p.Zone(zone.TypeMana).Add(dst))

	err := Convert(gs, "p1", src.ObjectID, dst.ObjectID)
	assert.Error(t, err)
}
