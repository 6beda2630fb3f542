package ir

// DualizeExactlyOne covers the one concrete dual-predicate compilation this module
// implements itself: an "exactly-one" family of ground atoms (e.g. a single
// ferry's at-ferry(location) fact, spec §8 scenario 3) where the negation of
// P(x, …) over a finite, statically-known alternative set {x'} can be
// written as a companion *axiom* rather than requiring general
// negation-as-failure: dual(x, …) holds iff P(x', …) holds for some other
// x' in the same family.
//
// General disjunction splitting, full negated-dynamic-literal elimination
// and typing compilation are the external parser/transformer's job (spec
// §1 non-goals); this helper exists only so the planning core's own test
// fixtures can be built without a real PDDL front end while still
// exercising the "dual predicate defined by a companion axiom" invariant
// the core's contract assumes.
type ExactlyOneFamily struct {
	// Predicate is the fluent predicate whose negation is being dualised
	// (e.g. at-ferry/1).
	Predicate int32
	// Alternatives is every ground value the predicate's sole free
	// argument can take (e.g. every location).
	Alternatives []int32
}

// DualizeExactlyOne builds a derived predicate "not-<name>" and, for each
// alternative, one axiom per *other* alternative stating it holds when that
// other alternative is true,
// registering both in pool and domain. It returns the new predicate index.
func DualizeExactlyOne(pool *Pool, domain *Domain, f ExactlyOneFamily) int32 {
	base := pool.Predicate(f.Predicate)
	dualName := "not-" + base.Name
	paramVar := pool.NewVariable(base.Name+"-arg", 0)
	dual := pool.InternPredicate(dualName, 1, Derived, []int32{paramVar})

	// Disjunctions at an axiom body's root are split into separate schemas
	// (spec §3.1 invariant), so "dual(target) holds if any other
	// alternative is true" becomes one axiom per (target, other) pair
	// rather than a single axiom whose body disjoins every other.
	for _, target := range f.Alternatives {
		axiomHeadAtom := pool.InternAtom(dual, []Term{{Var: -1, Obj: target}})
		for _, other := range f.Alternatives {
			if other == target {
				continue
			}
			otherAtom := pool.InternAtom(f.Predicate, []Term{{Var: -1, Obj: other}})
			body := ConjunctiveCondition{
				FluentPositive: []Literal{{Atom: otherAtom}},
			}
			axIdx := pool.NewAxiom(AxiomSchema{
				Name: dualName,
				Body: body,
				Head: Literal{Atom: axiomHeadAtom},
			})
			domain.Axioms = append(domain.Axioms, axIdx)
		}
	}
	return dual
}
