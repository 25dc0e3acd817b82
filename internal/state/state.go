// Package state holds immutable planning states and the search-only
// equivalence used to deduplicate them.
package state

import (
	"iter"
	"slices"
	"transport-planning-service/internal/domain"

	"github.com/cespare/xxhash/v2"
)

// A planning state: a problem, the action that produced it and its parent,
// and the cumulative duration of the history.
type State struct {
	problem *domain.Problem
	parent  *State
	action  domain.Action
	depth   int
	cost    int
	hash    uint64
}

func New(p *domain.Problem) *State {
	return &State{problem: p, hash: searchHash(p)}
}

func (s *State) Problem() *domain.Problem { return s.problem }
func (s *State) Cost() int                { return s.cost }
func (s *State) Depth() int               { return s.depth }
func (s *State) Parent() *State           { return s.parent }

// Apply an action. ok is false when a precondition or an effect does not
// hold; callers treat both the same way.
func (s *State) Apply(a domain.Action) (*State, bool) {
	next, ok := a.Apply(s.problem)
	if !ok {
		return nil, false
	}
	return &State{
		problem: next,
		parent:  s,
		action:  a,
		depth:   s.depth + 1,
		cost:    s.cost + a.Duration,
		hash:    searchHash(next),
	}, true
}

// IsGoal reports whether every package is at its target and every vehicle
// with a target sits there.
func (s *State) IsGoal() bool {
	for _, pkg := range s.problem.Packages() {
		if !pkg.Delivered() {
			return false
		}
	}
	for _, v := range s.problem.Vehicles() {
		if !v.AtTarget() {
			return false
		}
	}
	return true
}

func (s *State) LastAction() (domain.Action, bool) {
	if s.parent == nil {
		return domain.Action{}, false
	}
	return s.action, true
}

// History yields the actions that led to s, newest first.
func (s *State) History() iter.Seq[domain.Action] {
	return func(yield func(domain.Action) bool) {
		for cur := s; cur.parent != nil; cur = cur.parent {
			if !yield(cur.action) {
				return
			}
		}
	}
}

// Return the actions that led to s in execution order.
func (s *State) Actions() []domain.Action {
	out := make([]domain.Action, 0, s.depth)
	for a := range s.History() {
		out = append(out, a)
	}
	slices.Reverse(out)
	return out
}

func (s *State) Plan() *domain.SequentialPlan {
	return domain.NewSequentialPlan(s.Actions())
}

// Hash is consistent with Equivalent.
func (s *State) Hash() uint64 { return s.hash }

// Equivalent reports search equality: every vehicle holds the same set of
// loaded packages at the same location, and every placed package sits at
// the same location. The road network is not compared.
func (s *State) Equivalent(o *State) bool {
	if s == o {
		return true
	}
	if s.hash != o.hash {
		return false
	}

	a, b := s.problem, o.problem
	av, bv := a.Vehicles(), b.Vehicles()
	if len(av) != len(bv) {
		return false
	}
	for i, v := range av {
		w := bv[i]
		if v.Name != w.Name || v.Location != w.Location || !samePackages(v.Packages, w.Packages) {
			return false
		}
	}

	ap, bp := a.Packages(), b.Packages()
	if len(ap) != len(bp) {
		return false
	}
	for i, pkg := range ap {
		q := bp[i]
		if pkg.Name != q.Name || pkg.Location != q.Location {
			return false
		}
	}
	return true
}

func samePackages(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		if !slices.Contains(b, p) {
			return false
		}
	}
	return true
}

const setMix = 0x9e3779b97f4a7c15

// Sum of per-vehicle and per-package hashes, so iteration order and loading
// order do not matter.
func searchHash(p *domain.Problem) uint64 {
	var h uint64
	for _, v := range p.Vehicles() {
		var loaded uint64
		for _, pkg := range v.Packages {
			loaded += xxhash.Sum64String(pkg)
		}
		h += xxhash.Sum64String("v\x00"+v.Name+"\x00"+v.Location) ^ (loaded * setMix)
	}
	for _, pkg := range p.Packages() {
		if pkg.Location == "" {
			continue
		}
		h += xxhash.Sum64String("p\x00" + pkg.Name + "\x00" + pkg.Location)
	}
	return h
}
