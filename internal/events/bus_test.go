package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	var received []CardPlayed
	Subscribe(bus, func(e CardPlayed) {
		received = append(received, e)
	})

	Publish(bus, CardPlayed{PlayerID: "p1", ObjectID: "obj-1", FinalZoneID: "reserve-p1"})

	assert.Len(t, received, 1)
	assert.Equal(t, "p1", received[0].PlayerID)
	assert.Equal(t, "obj-1", received[0].ObjectID)
}

func TestBus_SubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	Subscribe(bus, func(e PhaseChanged) { order = append(order, 1) })
	Subscribe(bus, func(e PhaseChanged) { order = append(order, 2) })
	Subscribe(bus, func(e PhaseChanged) { order = append(order, 3) })

	Publish(bus, PhaseChanged{Day: 1, Phase: "Morning"})

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBus_TypeIsolation(t *testing.T) {
	bus := NewBus()

	var gotMoved, gotPlayed bool
	Subscribe(bus, func(e EntityMoved) { gotMoved = true })
	Subscribe(bus, func(e CardPlayed) { gotPlayed = true })

	Publish(bus, CardPlayed{PlayerID: "p1"})

	assert.False(t, gotMoved)
	assert.True(t, gotPlayed)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := Subscribe(bus, func(e DayAdvanced) { count++ })
	Publish(bus, DayAdvanced{NewDay: 2})
	assert.Equal(t, 1, count)

	bus.Unsubscribe(id)
	Publish(bus, DayAdvanced{NewDay: 3})
	assert.Equal(t, 1, count)
}
