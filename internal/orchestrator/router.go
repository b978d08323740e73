package orchestrator

import (
	"strings"

	"github.com/dusk-indust/briefly/internal/source"
)

// Plan lists the sources to fetch before synthesis, in fixed source order.
// Synthesis always follows, so an empty plan still produces a briefing.
type Plan struct {
	Sources []source.ID
}

// PlanFor maps each true flag to its source. It is pure and deterministic.
func PlanFor(c Classification) Plan {
	var p Plan
	for _, id := range source.All() {
		if c.Needs(id) {
			p.Sources = append(p.Sources, id)
		}
	}
	return p
}

// Has reports whether id is planned.
func (p Plan) Has(id source.ID) bool {
	for _, s := range p.Sources {
		if s == id {
			return true
		}
	}
	return false
}

// Direct reports whether the plan goes straight to synthesis.
func (p Plan) Direct() bool {
	return len(p.Sources) == 0
}

func (p Plan) String() string {
	if p.Direct() {
		return "direct synthesis"
	}
	names := make([]string, len(p.Sources))
	for i, id := range p.Sources {
		names[i] = string(id)
	}
	return strings.Join(names, ", ") + " -> synthesis"
}
