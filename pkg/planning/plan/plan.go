// Package plan renders a search result's action sequence into the plan
// file format of spec §6: one ground action per line, "(name obj0 obj1 …)",
// using only the schema's user-declared parameters, no header.
//
// This is the one piece of ambient stack spec §1's non-goals name
// explicitly ("the plan file writer") and then immediately carve an
// exception for: §6 still specifies the minimal line format a driver needs
// to hand a plan to a caller, so this package implements exactly that
// format and nothing more (no JSON/YAML rendering, no plan-quality
// metadata).
package plan

import (
	"io"
	"strings"

	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

// Format renders actions in plan file order, one GroundAction.Name(pool)
// per line.
func Format(pool *ir.Pool, actions []*ground.GroundAction) string {
	var b strings.Builder
	for _, a := range actions {
		b.WriteString(a.Name(pool))
		b.WriteByte('\n')
	}
	return b.String()
}

// Write renders actions to w in plan file format.
func Write(w io.Writer, pool *ir.Pool, actions []*ground.GroundAction) error {
	_, err := io.WriteString(w, Format(pool, actions))
	return err
}
