package keyword

import (
	"testing"

	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"

	"github.com/stretchr/testify/assert"
)

func char(mutate func(*object.GameObject)) *object.GameObject {
	o := &object.GameObject{
		Statuses: map[object.Status]bool{},
		Counters: map[object.CounterType]int{},
	}
	if mutate != nil {
		mutate(o)
	}
	return o
}

func TestEffectiveSides(t *testing.T) {
	plain := char(func(o *object.GameObject) { o.ExpeditionAssignment = object.ExpeditionHero })
	assert.Equal(t, []object.ExpeditionSide{object.ExpeditionHero}, EffectiveSides(plain))

	gigantic := char(func(o *object.GameObject) {
		o.ExpeditionAssignment = object.ExpeditionCompanion
		o.Current.IsGigantic = true
	})
	assert.Equal(t, []object.ExpeditionSide{object.ExpeditionHero, object.ExpeditionCompanion}, EffectiveSides(gigantic))

	unassigned := char(nil)
	assert.Nil(t, EffectiveSides(unassigned))
}

func TestRestrictsAdvance(t *testing.T) {
	defender := char(func(o *object.GameObject) { o.Current.HasDefender = true })
	plain := char(nil)

	assert.True(t, RestrictsAdvance([]*object.GameObject{plain, defender}))
	assert.False(t, RestrictsAdvance([]*object.GameObject{plain}))
	assert.False(t, RestrictsAdvance(nil))
}

func TestIsFleeting_StatusOrPassive(t *testing.T) {
	byStatus := char(func(o *object.GameObject) { o.Statuses[object.StatusFleeting] = true })
	byPassive := char(func(o *object.GameObject) { o.Current.IsFleeting = true })
	neither := char(nil)

	assert.True(t, IsFleeting(byStatus))
	assert.True(t, IsFleeting(byPassive))
	assert.False(t, IsFleeting(neither))
}

func TestShouldSkipRest(t *testing.T) {
	assert.True(t, ShouldSkipRest(char(func(o *object.GameObject) { o.Current.IsEternal = true })))
	assert.True(t, ShouldSkipRest(char(func(o *object.GameObject) { o.Statuses[object.StatusAnchored] = true })))
	assert.True(t, ShouldSkipRest(char(func(o *object.GameObject) { o.Statuses[object.StatusAsleep] = true })))
	assert.False(t, ShouldSkipRest(char(nil)))
}

func TestCarriesBoostOnZoneChange(t *testing.T) {
	seasoned := char(func(o *object.GameObject) { o.Current.IsSeasoned = true })
	plain := char(nil)

	assert.True(t, CarriesBoostOnZoneChange(seasoned, zone.TypeExpedition, zone.TypeReserve))
	assert.True(t, CarriesBoostOnZoneChange(seasoned, zone.TypeLandmark, zone.TypeReserve))
	assert.False(t, CarriesBoostOnZoneChange(seasoned, zone.TypeHand, zone.TypeReserve))
	assert.False(t, CarriesBoostOnZoneChange(seasoned, zone.TypeExpedition, zone.TypeDiscardPile))
	assert.False(t, CarriesBoostOnZoneChange(plain, zone.TypeExpedition, zone.TypeReserve))
}

func TestCountsForProgress(t *testing.T) {
	assert.False(t, CountsForProgress(char(func(o *object.GameObject) { o.Statuses[object.StatusAsleep] = true })))
	assert.True(t, CountsForProgress(char(nil)))
}

func TestIsBoostedTracksCounters(t *testing.T) {
	boosted := char(func(o *object.GameObject) { o.Counters[object.CounterBoost] = 2 })
	assert.True(t, IsBoosted(boosted))
	assert.False(t, IsBoosted(char(nil)))
}

func TestScoutAlternativeCost(t *testing.T) {
	scout := char(func(o *object.GameObject) { o.Current.Keywords = map[string]int{"Scout": 2} })
	assert.Equal(t, 2, ScoutAlternativeCost(scout))
	assert.Equal(t, 0, ScoutAlternativeCost(char(nil)))
}
