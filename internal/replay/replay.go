// Package replay re-executes a recorded action sequence against a fresh
// engine and verifies the determinism law: given identical
// definitions, seed, and player choices, two runs produce identical
// action logs and identical final snapshots.
package replay

import (
	"fmt"
	"reflect"

	"expedition-engine/internal/catalog"
	"expedition-engine/internal/config"
	"expedition-engine/internal/engine"
)

// Setup is everything deterministic construction needs.
type Setup struct {
	PlayerIDs   []string
	Definitions []catalog.CardDefinition
	Seed        int64
	Config      config.GameConfig
	Decks       map[string][]string
}

// Step is one scripted drive call: a phase advance, or a player action
// with the choice answers its resolution consumes (in order).
type Step struct {
	Advance  bool
	PlayerID string
	Action   engine.Action
	Answers  []engine.ChoiceAnswer
}

// Run builds an engine from setup and drives it through script. Pending
// choices are answered from the step's recorded answers; running out of
// recorded answers is an error (the script is expected to be complete).
func Run(setup Setup, script []Step) (*engine.Engine, error) {
	eng, err := engine.New(setup.PlayerIDs, setup.Definitions, setup.Seed, setup.Config)
	if err != nil {
		return nil, err
	}
	if err := eng.Initialize(setup.Decks); err != nil {
		return nil, err
	}

	for i, step := range script {
		var pending *engine.PendingChoice
		var err error
		if step.Advance {
			_, pending, err = eng.AdvancePhase()
		} else {
			pending, err = eng.SubmitAction(step.PlayerID, step.Action)
		}
		if err != nil {
			return nil, fmt.Errorf("replay step %d: %w", i, err)
		}

		for n := 0; pending != nil; n++ {
			if n >= len(step.Answers) {
				return nil, fmt.Errorf("replay step %d: engine asked for choice %s but the script has no more answers", i, pending.ChoiceID)
			}
			pending, err = eng.AnswerChoice(pending.ChoiceID, step.Answers[n])
			if err != nil {
				return nil, fmt.Errorf("replay step %d answer %d: %w", i, n, err)
			}
		}
	}
	return eng, nil
}

// VerifyDeterminism runs the same setup+script twice and reports any
// divergence between the two runs' action logs or final snapshots.
// Wall-clock timestamps are the one log field excluded from comparison.
func VerifyDeterminism(setup Setup, script []Step) error {
	first, err := Run(setup, script)
	if err != nil {
		return err
	}
	second, err := Run(setup, script)
	if err != nil {
		return err
	}

	logA, logB := first.ActionLog(), second.ActionLog()
	if len(logA) != len(logB) {
		return fmt.Errorf("action logs diverge: %d vs %d entries", len(logA), len(logB))
	}
	for i := range logA {
		if logA[i].Seq != logB[i].Seq || logA[i].Action != logB[i].Action ||
			!reflect.DeepEqual(logA[i].Parameters, logB[i].Parameters) {
			return fmt.Errorf("action logs diverge at entry %d: %q vs %q", i, logA[i].Action, logB[i].Action)
		}
	}

	if !reflect.DeepEqual(first.StateSnapshot(), second.StateSnapshot()) {
		return fmt.Errorf("final snapshots diverge")
	}
	return nil
}
