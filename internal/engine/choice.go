package engine

import (
	"fmt"

	"expedition-engine/internal/catalog"
)

// ChoiceKind distinguishes the player decisions the engine can suspend
// on.
type ChoiceKind string

const (
	ChoiceTargets  ChoiceKind = "targets"
	ChoiceOptional ChoiceKind = "optional"
)

// PendingChoice is the engine's suspension surface: a discrete
// enumeration of legal answers for one outstanding player decision. The
// pre-choice state is already restored when a PendingChoice is surfaced;
// answering re-executes the suspended action deterministically with the
// new answer appended, and abandoning it simply discards it.
type PendingChoice struct {
	ChoiceID   string
	PlayerID   string
	Kind       ChoiceKind
	Candidates []string
	Count      int
}

// ChoiceAnswer is one answer to a PendingChoice: Targets for a targets
// choice, Accept for an optional-step choice.
type ChoiceAnswer struct {
	Targets []string
	Accept  bool
}

// choiceRequired is panicked by the resolver when a decision has no
// recorded answer; the engine boundary recovers it, restores the
// pre-action snapshot, and surfaces the PendingChoice.
type choiceRequired struct {
	choice PendingChoice
}

// choiceResolver satisfies effect.Resolver by replaying recorded
// answers in order. Re-running the same action with one more answer
// reaches exactly one decision further, because the engine is
// deterministic between choices.
type choiceResolver struct {
	playerID string
	answers  []ChoiceAnswer
	cursor   int
}

func (r *choiceResolver) ResolveTargets(step catalog.Step, candidates []string) []string {
	if r.cursor < len(r.answers) {
		a := r.answers[r.cursor]
		r.cursor++
		return a.Targets
	}
	panic(choiceRequired{choice: PendingChoice{
		PlayerID:   r.playerID,
		Kind:       ChoiceTargets,
		Candidates: candidates,
		Count:      step.Targets.Count,
	}})
}

func (r *choiceResolver) ResolveOptional(step catalog.Step) bool {
	if r.cursor < len(r.answers) {
		a := r.answers[r.cursor]
		r.cursor++
		return a.Accept
	}
	panic(choiceRequired{choice: PendingChoice{
		PlayerID:   r.playerID,
		Kind:       ChoiceOptional,
		Candidates: []string{"accept", "decline"},
		Count:      1,
	}})
}

// pendingState couples a surfaced PendingChoice with the suspended
// invocation it belongs to.
type pendingState struct {
	choice   PendingChoice
	playerID string
	action   Action
	answers  []ChoiceAnswer
}

func (e *Engine) nextChoiceID() string {
	e.choiceSeq++
	return fmt.Sprintf("choice-%d", e.choiceSeq)
}
