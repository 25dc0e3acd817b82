package domain

import (
	"slices"
	"strings"
)

// A produced plan. Sequential plans expose a cumulative timeline so both
// kinds can be replayed and scored the same way.
type Plan interface {
	Actions() []Action
	TemporalActions() []TemporalAction
}

// An action placed on the timeline.
type TemporalAction struct {
	Action Action
	Start  int
	End    int
}

// Ordered sequence of actions, executed one after another.
type SequentialPlan struct {
	actions []Action
}

func NewSequentialPlan(actions []Action) *SequentialPlan {
	return &SequentialPlan{actions: slices.Clone(actions)}
}

func (p *SequentialPlan) Actions() []Action { return slices.Clone(p.actions) }
func (p *SequentialPlan) Len() int          { return len(p.actions) }

// Return the sum of action costs.
func (p *SequentialPlan) TotalCost() int {
	total := 0
	for _, a := range p.actions {
		total += a.Cost
	}
	return total
}

// Lay the actions end to end starting at time 0.
func (p *SequentialPlan) TemporalActions() []TemporalAction {
	out := make([]TemporalAction, 0, len(p.actions))
	t := 0
	for _, a := range p.actions {
		out = append(out, TemporalAction{Action: a, Start: t, End: t + a.Duration})
		t += a.Duration
	}
	return out
}

func (p *SequentialPlan) String() string {
	parts := make([]string, 0, len(p.actions))
	for _, a := range p.actions {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, "\n")
}

// Actions with start and end times, ordered by start time.
type TemporalPlan struct {
	actions []TemporalAction
}

func NewTemporalPlan(actions []TemporalAction) *TemporalPlan {
	sorted := slices.Clone(actions)
	slices.SortStableFunc(sorted, func(a, b TemporalAction) int { return a.Start - b.Start })
	return &TemporalPlan{actions: sorted}
}

func (p *TemporalPlan) TemporalActions() []TemporalAction { return slices.Clone(p.actions) }

func (p *TemporalPlan) Actions() []Action {
	out := make([]Action, 0, len(p.actions))
	for _, ta := range p.actions {
		out = append(out, ta.Action)
	}
	return out
}

// Return the latest end time, 0 for an empty plan.
func (p *TemporalPlan) Makespan() int {
	return makespan(p.actions)
}

func makespan(actions []TemporalAction) int {
	end := 0
	for _, ta := range actions {
		end = max(end, ta.End)
	}
	return end
}
