package axiom

import (
	"github.com/mimir-planning/mimir/pkg/planning/applicable"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// Evaluator closes a dense state's derived atoms under a domain's
// stratified axiom set (spec §4.6): one grounded applicable-action
// generator per stratum, built once from the grounder's delete-relaxed
// reachable ground axioms.
type Evaluator struct {
	grounder *ground.Grounder
	strata   []*applicable.Grounded
}

// NewEvaluator stratifies domain's axioms and builds one match-tree-backed
// generator per stratum, restricted to g's reachable ground axioms.
func NewEvaluator(g *ground.Grounder) (*Evaluator, error) {
	strataSchemas, err := Stratify(g.Pool(), g.Domain())
	if err != nil {
		return nil, err
	}

	schemaStratum := map[int32]int{}
	for s, schemas := range strataSchemas {
		for _, sc := range schemas {
			schemaStratum[sc] = s
		}
	}

	perStratum := make([][]int32, len(strataSchemas))
	for _, gidx := range g.ReachableAxioms() {
		schema := g.GroundAxiomByIndex(gidx).Schema
		s := schemaStratum[schema]
		perStratum[s] = append(perStratum[s], gidx)
	}

	precondOf := func(idx int32) ground.GroundLiteralSet {
		return g.GroundAxiomByIndex(idx).Precondition
	}
	generators := make([]*applicable.Grounded, len(strataSchemas))
	for s, idxs := range perStratum {
		generators[s] = applicable.NewGrounded(idxs, precondOf, g.NumFluentAtoms(), g.NumDerivedAtoms())
	}

	return &Evaluator{grounder: g, strata: generators}, nil
}

// Close runs the per-stratum fixpoint loop of spec §4.6 over ds, in
// stratum order: within a stratum, repeatedly apply every axiom whose
// precondition holds and set its head bit, until the derived bitset stops
// growing, then move to the next stratum.
func (e *Evaluator) Close(ds *state.DenseState) {
	for _, gen := range e.strata {
		for {
			before := ds.Derived.Count()
			gen.Actions(ds, func(gidx int32) bool {
				head := e.grounder.GroundAxiomByIndex(gidx).Head
				ds.Derived.Set(int(head))
				return true
			})
			if ds.Derived.Count() == before {
				break
			}
		}
	}
}
