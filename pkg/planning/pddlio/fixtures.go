// Package pddlio builds ir.Pool/ir.Domain/ir.Problem values directly for a
// handful of classical-planning textbook domains, for use by tests and the
// cmd/mimir smoke path. It is not a surface PDDL reader: parsing PDDL text
// is an external collaborator per spec §1/§5's non-goals, and every
// literal/effect produced here is already in the post-normalisation shape
// §3.1 describes (no NNF pass, no dual-predicate introduction — the
// fixtures are written directly in normal form).
package pddlio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

// Fixture bundles a built pool/domain/problem triple, the shape every
// builder below returns.
type Fixture struct {
	Pool    *ir.Pool
	Domain  *ir.Domain
	Problem *ir.Problem
}

func lit(atom int32) ir.Literal { return ir.Literal{Atom: atom} }

func negLit(atom int32) ir.Literal { return ir.Literal{Atom: atom, Negated: true} }

// defaultSizes fixes the instance size each named fixture is built at; real
// PDDL problem files encode this in the objects they declare, but a name-
// keyed fixture has nothing to count, so each domain gets a fixed size
// large enough to force a non-trivial plan.
var defaultSizes = map[string]int{
	"gripper":     2,
	"blocksworld": 3,
	"ferry":       2,
	"spanner":     2,
	"visitall":    4,
}

// LoadFixture resolves domainPath/problemPath to one of the built-in
// fixtures by matching a known domain name against the domain file's base
// name. It is not a PDDL reader: domainPath and problemPath are never
// opened or parsed, only inspected for a recognised name, since a real
// surface-syntax parser is an external collaborator this module does not
// provide. This lets cmd/mimir's -D/-P flags drive an end-to-end run
// against one of the fixtures below without a text format to parse.
func LoadFixture(domainPath, problemPath string) (*Fixture, error) {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(domainPath), filepath.Ext(domainPath)))
	for fixtureName, n := range defaultSizes {
		if !strings.Contains(name, fixtureName) {
			continue
		}
		switch fixtureName {
		case "gripper":
			return BuildGripper(n), nil
		case "blocksworld":
			return BuildBlocksworld(n), nil
		case "ferry":
			return BuildFerry(n), nil
		case "spanner":
			return BuildSpanner(n), nil
		case "visitall":
			return BuildVisitAll(n), nil
		}
	}
	return nil, fmt.Errorf("pddlio: no built-in fixture matches domain file %q (problem %q); known fixtures: gripper, blocksworld, ferry, spanner, visitall", domainPath, problemPath)
}
