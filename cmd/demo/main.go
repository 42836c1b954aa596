// Command demo drives a scripted two-player game against the engine
// library and renders each day's board to the terminal. It is the one
// in-process presentation surface the project keeps; there is no
// network transport anywhere.
package main

import (
	"fmt"
	"os"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/engine"
	"expedition-engine/internal/logger"
	"expedition-engine/internal/state"
	"expedition-engine/internal/zone"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

func demoDefinitions() []catalog.CardDefinition {
	return []catalog.CardDefinition{
		{ID: "hero-aria", Name: "Aria", Category: catalog.CategoryHero, BaseStatistics: catalog.Statistics{Forest: 1, Mountain: 1, Water: 1}},
		{ID: "hero-brom", Name: "Brom", Category: catalog.CategoryHero, BaseStatistics: catalog.Statistics{Mountain: 2}},
		{ID: "grove-warden", Name: "Grove Warden", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 1}, ReserveCost: catalog.Cost{Generic: 1}, BaseStatistics: catalog.Statistics{Forest: 2}},
		{ID: "peak-climber", Name: "Peak Climber", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 1}, ReserveCost: catalog.Cost{Generic: 2}, BaseStatistics: catalog.Statistics{Mountain: 2}},
		{ID: "tide-caller", Name: "Tide Caller", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 2}, ReserveCost: catalog.Cost{Generic: 2}, BaseStatistics: catalog.Statistics{Water: 3}},
		{ID: "river-scout", Name: "River Scout", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 2}, ReserveCost: catalog.Cost{Generic: 1}, BaseStatistics: catalog.Statistics{Forest: 1, Water: 1}, Keywords: map[string]int{"Scout": 1}},
		{ID: "stone-sentinel", Name: "Stone Sentinel", Category: catalog.CategoryCharacter, HandCost: catalog.Cost{Generic: 3}, ReserveCost: catalog.Cost{Generic: 3}, BaseStatistics: catalog.Statistics{Mountain: 3}, Keywords: map[string]int{"Defender": 1, "Eternal": 1}},
	}
}

func demoDeck(heroID string) []string {
	deck := []string{heroID}
	fillers := []string{"grove-warden", "peak-climber", "tide-caller", "river-scout", "stone-sentinel"}
	for i := 0; i < 4; i++ {
		deck = append(deck, fillers...)
	}
	return deck
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	zoneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	winnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

func renderPlayer(snap engine.Snapshot, playerID string) string {
	pv := snap.Players[playerID]
	lines := fmt.Sprintf("%s\nhero @%d  companion @%d\nhand %d  deck %d  reserve %d  discard %d",
		labelStyle.Render(playerID),
		pv.HeroExpeditionPosition, pv.CompanionExpeditionPosition,
		pv.Zones[string(zone.TypeHand)].Count,
		pv.Zones[string(zone.TypeDeck)].Count,
		pv.Zones[string(zone.TypeReserve)].Count,
		pv.Zones[string(zone.TypeDiscardPile)].Count,
	)
	return zoneStyle.Width(terminalWidth()/2 - 4).Render(lines)
}

func renderExpedition(snap engine.Snapshot) string {
	out := labelStyle.Render("Expedition") + "\n"
	if len(snap.Expedition.Entities) == 0 {
		out += "(empty)"
	}
	for _, e := range snap.Expedition.Entities {
		out += fmt.Sprintf("%s [%s/%s]\n", e.Name, e.Side, statStyle.Render(e.Category))
	}
	return zoneStyle.Width(terminalWidth() - 4).Render(out)
}

func render(snap engine.Snapshot) {
	header := titleStyle.Render(fmt.Sprintf("Day %d — %s (active: %s)", snap.DayNumber, snap.CurrentPhase, snap.CurrentPlayerID))
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		renderPlayer(snap, "p1"), " ", renderPlayer(snap, "p2"))
	fmt.Println(header)
	fmt.Println(row)
	fmt.Println(renderExpedition(snap))
}

// driveAfternoon plays greedily: each player plays the first affordable
// card option, then passes.
func driveAfternoon(eng *engine.Engine) {
	for {
		snap := eng.StateSnapshot()
		if snap.CurrentPhase != string(state.PhaseAfternoon) || snap.Over {
			return
		}
		active := snap.CurrentPlayerID

		var submitted bool
		for _, opt := range eng.LegalActions(active) {
			if opt.Type != "play_card" {
				continue
			}
			action := engine.PlayCard{
				CardID:         opt.CardID,
				FromZone:       opt.FromZone,
				ExpeditionSide: "hero",
			}
			if _, err := eng.SubmitAction(active, action); err == nil {
				submitted = true
			}
			break
		}
		if !submitted {
			if _, err := eng.SubmitAction(active, engine.Pass{}); err != nil {
				return
			}
		}
	}
}

func main() {
	level := "warn"
	if err := logger.Init(&level); err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.NewGameConfig()
	eng, err := engine.New([]string{"p1", "p2"}, demoDefinitions(), 42, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "engine construction failed:", err)
		os.Exit(1)
	}
	if err := eng.Initialize(map[string][]string{
		"p1": demoDeck("hero-aria"),
		"p2": demoDeck("hero-brom"),
	}); err != nil {
		fmt.Fprintln(os.Stderr, "initialize failed:", err)
		os.Exit(1)
	}

	for day := 0; day < 10; day++ {
		snap := eng.StateSnapshot()
		if snap.Over {
			break
		}
		render(snap)

		// Noon has already run on day 1; otherwise advance through
		// Morning and Noon.
		for eng.StateSnapshot().CurrentPhase != string(state.PhaseAfternoon) {
			if _, _, err := eng.AdvancePhase(); err != nil {
				fmt.Fprintln(os.Stderr, "advance failed:", err)
				os.Exit(1)
			}
			if eng.StateSnapshot().Over {
				break
			}
		}
		driveAfternoon(eng)

		// Afternoon auto-advances into Dusk on the double pass; step
		// through Night into the next Morning.
		for {
			phase := eng.StateSnapshot().CurrentPhase
			if eng.StateSnapshot().Over || phase == string(state.PhaseMorning) {
				break
			}
			if _, _, err := eng.AdvancePhase(); err != nil {
				fmt.Fprintln(os.Stderr, "advance failed:", err)
				os.Exit(1)
			}
		}
	}

	final := eng.StateSnapshot()
	render(final)
	if final.Over {
		fmt.Println(winnerStyle.Render(fmt.Sprintf("Winner: %s", final.WinnerID)))
	} else {
		fmt.Println(winnerStyle.Render("No winner within the demo's day limit"))
	}
}
