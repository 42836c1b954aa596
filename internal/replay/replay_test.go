package replay

import (
	"testing"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/engine"
	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayDefinitions() []catalog.CardDefinition {
	return []catalog.CardDefinition{
		{ID: "hero-a", Name: "Hero A", Category: catalog.CategoryHero, BaseStatistics: catalog.Statistics{Forest: 1}},
		{ID: "hero-b", Name: "Hero B", Category: catalog.CategoryHero, BaseStatistics: catalog.Statistics{Water: 1}},
		{ID: "scout", Name: "Scout", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 1}, BaseStatistics: catalog.Statistics{Forest: 2}},
		{ID: "miner", Name: "Miner", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 1}, BaseStatistics: catalog.Statistics{Mountain: 2}},
	}
}

func replaySetup() Setup {
	deck := []string{"scout", "miner", "scout", "miner", "scout", "miner"}
	cfg := config.NewGameConfig()
	cfg.StartingHandSize = 2
	cfg.StartingManaOrbs = 2
	cfg.HandSizeDraws = 1
	return Setup{
		PlayerIDs:   []string{"p1", "p2"},
		Definitions: replayDefinitions(),
		Seed:        99,
		Config:      cfg,
		Decks: map[string][]string{
			"p1": append([]string{"hero-a"}, deck...),
			"p2": append([]string{"hero-b"}, deck...),
		},
	}
}

func TestRun_DrivesScriptToCompletion(t *testing.T) {
	eng, err := Run(replaySetup(), []Step{
		{Advance: true}, // Noon → Afternoon
		{PlayerID: "p1", Action: engine.Pass{}},
		{PlayerID: "p2", Action: engine.Pass{}}, // auto-advances into Dusk
		{Advance: true},                         // Dusk → Night
	})
	require.NoError(t, err)
	assert.Equal(t, 2, eng.State().DayNumber, "Night advanced the day")
}

func TestVerifyDeterminism_IdenticalRunsMatch(t *testing.T) {
	setup := replaySetup()

	// Play a card in the script so ids, zones, and mana state all get
	// exercised, not just phase plumbing.
	eng, err := Run(setup, []Step{{Advance: true}})
	require.NoError(t, err)
	hand := eng.State().Players["p1"].Zone(zone.TypeHand)
	require.NotZero(t, hand.Count())
	cardID := hand.All()[0].EntityID()

	script := []Step{
		{Advance: true},
		{PlayerID: "p1", Action: engine.PlayCard{CardID: cardID, FromZone: zone.TypeHand, ExpeditionSide: object.ExpeditionHero}},
		{PlayerID: "p1", Action: engine.Pass{}},
		{PlayerID: "p2", Action: engine.Pass{}},
		{Advance: true},
	}
	require.NoError(t, VerifyDeterminism(setup, script))
}

func TestRun_SurfacesStepErrors(t *testing.T) {
	_, err := Run(replaySetup(), []Step{
		{PlayerID: "p1", Action: engine.Pass{}}, // still Noon: pass is phase-ineligible
	})
	require.Error(t, err)
}
