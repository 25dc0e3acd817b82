package domain

import "fmt"

// Scores a plan for a problem; lower is better.
type ScoreFunction func(d *Domain, p *Problem, plan Plan) float64

func ScoreActionCount(_ *Domain, _ *Problem, plan Plan) float64 {
	return float64(len(plan.Actions()))
}

// Score by makespan.
func ScoreTotalTime(_ *Domain, _ *Problem, plan Plan) float64 {
	return float64(makespan(plan.TemporalActions()))
}

func ScoreTotalCost(_ *Domain, _ *Problem, plan Plan) float64 {
	total := 0
	for _, a := range plan.Actions() {
		total += a.Cost
	}
	return float64(total)
}

// Return the score function registered under name.
func ScoreByName(name string) (ScoreFunction, error) {
	switch name {
	case "", "cost":
		return ScoreTotalCost, nil
	case "actions":
		return ScoreActionCount, nil
	case "time":
		return ScoreTotalTime, nil
	default:
		return nil, fmt.Errorf("score by name: unknown score function %q", name)
	}
}
