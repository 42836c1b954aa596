package state

import (
	"testing"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMementoState(t *testing.T) *GameState {
	t.Helper()
	cat, err := catalog.New([]catalog.CardDefinition{
		{ID: "unit", Name: "Unit", Category: catalog.CategoryCharacter, BaseStatistics: catalog.Statistics{Forest: 1}},
	})
	require.NoError(t, err)
	return New([]string{"p1", "p2"}, cat, config.NewGameConfig())
}

func TestCaptureRestore_ZoneContentsAndObjectState(t *testing.T) {
	gs := newMementoState(t)
	obj := gs.Factory.MintObject(object.Source{Instance: &object.CardInstance{DefinitionID: "unit", OwnerID: "p1"}}, "p1", nil)
	obj.Counters[object.CounterBoost] = 2
	require.NoError(t, gs.ExpeditionZone().Add(obj))

	m := gs.Capture()

	// Mutate aggressively: exhaust and move the object, shift phase,
	// append log entries.
	obj.Statuses[object.StatusExhausted] = true
	obj.Counters[object.CounterBoost] = 9
	gs.ExpeditionZone().Remove(obj.ObjectID)
	require.NoError(t, gs.Players["p1"].Zone(zone.TypeReserve).Add(obj))
	gs.CurrentPhase = PhaseNight
	gs.DayNumber = 7
	gs.Players["p1"].HeroExpeditionPosition = 5
	gs.AppendLog("mutation", nil)

	gs.Restore(m)

	assert.Equal(t, Phase(""), gs.CurrentPhase)
	assert.Equal(t, 0, gs.DayNumber)
	assert.Equal(t, 0, gs.Players["p1"].HeroExpeditionPosition)
	assert.Empty(t, gs.ActionLog)
	assert.Equal(t, 0, gs.Players["p1"].Zone(zone.TypeReserve).Count())

	restored, ok := gs.ExpeditionZone().Find(obj.ObjectID).(*object.GameObject)
	require.True(t, ok)
	assert.False(t, restored.IsExhausted())
	assert.Equal(t, 2, restored.Counters[object.CounterBoost])
}

func TestCaptureRestore_FactorySequenceRewinds(t *testing.T) {
	gs := newMementoState(t)
	m := gs.Capture()

	first := gs.Factory.MintInstance("unit", "p1")
	gs.Restore(m)
	second := gs.Factory.MintInstance("unit", "p1")

	assert.Equal(t, first.InstanceID, second.InstanceID,
		"restoring rewinds the minting counter, so re-execution reproduces identical ids")
}

func TestCapture_IsolatesFromLaterMutation(t *testing.T) {
	gs := newMementoState(t)
	instance := gs.Factory.MintInstance("unit", "p1")
	require.NoError(t, gs.Players["p1"].Zone(zone.TypeHand).Add(instance))

	m := gs.Capture()
	gs.Players["p1"].Zone(zone.TypeHand).Remove(instance.InstanceID)

	gs.Restore(m)
	assert.Equal(t, 1, gs.Players["p1"].Zone(zone.TypeHand).Count())
}
