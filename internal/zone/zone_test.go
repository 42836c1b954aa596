package zone

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEntity struct{ id string }

func (s stubEntity) EntityID() string { return s.id }

func TestAddRemoveFind(t *testing.T) {
	z := New("p1:Hand", TypeHand, "p1")

	require.NoError(t, z.Add(stubEntity{id: "a"}))
	require.NoError(t, z.Add(stubEntity{id: "b"}))
	assert.Equal(t, 2, z.Count())

	assert.NotNil(t, z.Find("a"))
	assert.Nil(t, z.Find("missing"))

	removed := z.Remove("a")
	require.NotNil(t, removed)
	assert.Equal(t, "a", removed.EntityID())
	assert.Equal(t, 1, z.Count())

	assert.Nil(t, z.Remove("a"), "removing an unknown id returns nil, not an error")
}

func TestAdd_DuplicateIDRejected(t *testing.T) {
	z := New("p1:Hand", TypeHand, "p1")
	require.NoError(t, z.Add(stubEntity{id: "a"}))
	assert.Error(t, z.Add(stubEntity{id: "a"}))
}

func TestDeck_DrawTopAndAddBottom(t *testing.T) {
	z := New("p1:Deck", TypeDeck, "p1")
	require.NoError(t, z.AddBottom([]Entity{stubEntity{id: "a"}, stubEntity{id: "b"}, stubEntity{id: "c"}}))

	assert.Equal(t, "a", z.DrawTop().EntityID())
	assert.Equal(t, "b", z.DrawTop().EntityID())

	require.NoError(t, z.AddBottom([]Entity{stubEntity{id: "d"}}))
	assert.Equal(t, "c", z.DrawTop().EntityID())
	assert.Equal(t, "d", z.DrawTop().EntityID())
	assert.Nil(t, z.DrawTop(), "drawing from an empty deck returns nil")
}

func TestShuffle_DeterministicWithSeedAndIndexIntact(t *testing.T) {
	build := func() *Zone {
		z := New("p1:Deck", TypeDeck, "p1")
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, z.Add(stubEntity{id: id}))
		}
		return z
	}

	z1, z2 := build(), build()
	z1.Shuffle(rand.New(rand.NewSource(5)).Shuffle)
	z2.Shuffle(rand.New(rand.NewSource(5)).Shuffle)

	order1, order2 := z1.All(), z2.All()
	require.Equal(t, len(order1), len(order2))
	for i := range order1 {
		assert.Equal(t, order1[i].EntityID(), order2[i].EntityID())
	}

	// The id index survives the shuffle.
	for _, e := range order1 {
		assert.NotNil(t, z1.Find(e.EntityID()))
	}
}

func TestVisibilityFollowsType(t *testing.T) {
	assert.Equal(t, Hidden, New("d", TypeDeck, "p1").Visibility)
	assert.Equal(t, Hidden, New("h", TypeHand, "p1").Visibility)
	assert.Equal(t, Visible, New("r", TypeReserve, "p1").Visibility)
	assert.Equal(t, Visible, New("l", TypeLimbo, "").Visibility)
}
