package temporal

import (
	"fmt"
	"slices"
	"transport-planning-service/internal/domain"
)

// Ties at one timestamp: ends of actions with a duration first, then the
// starts in plan order. A zero-duration action ends right after its own
// start, before the next action starts.
type event struct {
	at         int
	withStarts bool
	action     int
	end        bool
}

func (e event) compare(o event) int {
	switch {
	case e.at != o.at:
		return e.at - o.at
	case e.withStarts != o.withStarts:
		if e.withStarts {
			return 1
		}
		return -1
	case e.action != o.action:
		return e.action - o.action
	case e.end != o.end:
		if e.end {
			return 1
		}
		return -1
	}
	return 0
}

// StateManager replays a temporal plan against its initial problem.
//
// The pointer is a (time, applyStarts) pair. Every move resets to the
// initial problem and re-applies the plan up to the pointer, so moves are
// idempotent.
type StateManager struct {
	initial *domain.Problem
	actions []domain.TemporalAction
	events  []event
	times   []int

	current     *domain.Problem
	time        int
	applyStarts bool
}

func NewStateManager(p *domain.Problem, plan domain.Plan) *StateManager {
	actions := plan.TemporalActions()

	events := make([]event, 0, 2*len(actions))
	times := make([]int, 0, 2*len(actions))
	for i, ta := range actions {
		events = append(events,
			event{at: ta.Start, withStarts: true, action: i},
			event{at: ta.End, withStarts: ta.End == ta.Start, action: i, end: true},
		)
		times = append(times, ta.Start, ta.End)
	}
	slices.SortFunc(events, event.compare)
	slices.Sort(times)

	return &StateManager{
		initial: p,
		actions: actions,
		events:  events,
		times:   slices.Compact(times),
		current: p,
	}
}

func (m *StateManager) CurrentState() *domain.Problem { return m.current }
func (m *StateManager) CurrentTime() int              { return m.time }

// Return the distinct start and end timestamps of the plan in order.
func (m *StateManager) Checkpoints() []int { return slices.Clone(m.times) }

// GoToTime replays every start at or before t (strictly before t unless
// applyStarts) and every end at or before t whose start was replayed.
// A failing precondition or effect leaves the pointer where it was.
func (m *StateManager) GoToTime(t int, applyStarts bool) error {
	cur := m.initial
	started := make([]bool, len(m.actions))

	for _, ev := range m.events {
		if ev.at > t {
			break
		}
		a := m.actions[ev.action].Action

		if !ev.end {
			if ev.at == t && !applyStarts {
				continue
			}
			if err := a.CheckPreconditions(cur); err != nil {
				return fmt.Errorf("go to time %d: at %d: %w: %v", t, ev.at, ErrInvalidPlan, err)
			}
			cur = a.Start(cur)
			started[ev.action] = true
			continue
		}

		if !started[ev.action] {
			continue
		}
		cur = a.Finish(cur)
		if err := a.CheckEffects(cur); err != nil {
			return fmt.Errorf("go to time %d: at %d: %w: %v", t, ev.at, ErrInvalidPlan, err)
		}
	}

	m.current, m.time, m.applyStarts = cur, t, applyStarts
	return nil
}

// Move to the closest checkpoint after the current time. moved is false when
// there is none.
func (m *StateManager) GoToNextCheckpoint() (moved bool, err error) {
	i, found := slices.BinarySearch(m.times, m.time)
	if found {
		i++
	}
	if i >= len(m.times) {
		return false, nil
	}
	return true, m.GoToTime(m.times[i], false)
}

// Move to the closest checkpoint before the current time.
func (m *StateManager) GoToPreviousCheckpoint() (moved bool, err error) {
	i, _ := slices.BinarySearch(m.times, m.time)
	if i == 0 {
		return false, nil
	}
	return true, m.GoToTime(m.times[i-1], false)
}

// Return the latest action already started at the pointer.
func (m *StateManager) LastAction() (domain.TemporalAction, bool) {
	best := -1
	for i, ta := range m.actions {
		if ta.Start > m.time || (ta.Start == m.time && !m.applyStarts) {
			continue
		}
		if best < 0 || ta.Start >= m.actions[best].Start {
			best = i
		}
	}
	if best < 0 {
		return domain.TemporalAction{}, false
	}
	return m.actions[best], true
}
