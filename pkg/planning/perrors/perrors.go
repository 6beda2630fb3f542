// Package perrors wraps the plain sentinel/wrapped errors returned by the
// planning core into the structured, coded errors of spec §7, at the
// boundary where they cross into a driver (cmd/mimir or any other caller
// that needs a machine-readable code rather than an error string).
//
// Internal packages never import this package: slot, novelty, axiom, and
// ground all return small plain Go errors (sentinels or fmt.Errorf-wrapped
// causes), in the teacher's own validation-error style. perrors only
// classifies those errors after the fact, the same way the example pack's
// CLI entry points reach for oops.Code(...).Wrap(err) right at their own
// boundary rather than threading a structured error type through the
// packages doing the actual work.
package perrors

import (
	"errors"

	"github.com/samber/oops"

	"github.com/mimir-planning/mimir/pkg/planning/axiom"
	"github.com/mimir-planning/mimir/pkg/planning/novelty"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
)

// Error codes for the kinds of spec §7. ContractViolation and
// ParseFailure have no core sentinel to classify from (surface parsing is
// an external collaborator, and contract violations are programming
// errors the core never returns as values) — they exist so a caller
// assembling its own oops error uses the same vocabulary as Classify.
const (
	CodeParseFailure      = "PARSE_FAILURE"
	CodeResourceExhausted = "RESOURCE_EXHAUSTED"
	CodeContractViolation = "CONTRACT_VIOLATION"
	CodeUnstratifiable    = "UNSTRATIFIABLE_AXIOMS"
	CodeInternal          = "INTERNAL"
)

// Classify wraps err into a coded oops error per spec §7, recognising the
// core's own resource-exhaustion and unstratifiable-axiom sentinels and
// falling back to CodeInternal for anything else. op names the operation
// that failed, attached as structured context the way the pack's CLI
// entry points attach "operation" to every wrapped error.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, slot.ErrIndexSpaceExhausted), errors.Is(err, novelty.ErrTableTooLarge):
		return oops.Code(CodeResourceExhausted).With("operation", op).Wrap(err)
	case errors.Is(err, axiom.ErrUnstratifiable):
		return oops.Code(CodeUnstratifiable).With("operation", op).Wrap(err)
	default:
		return oops.Code(CodeInternal).With("operation", op).Wrap(err)
	}
}

// Parse reports a malformed-input or unsupported-feature failure (spec §7's
// "Parse/normalisation failure"), for callers of pddlio.LoadFixture or any
// future surface-syntax reader.
func Parse(op string, err error) error {
	if err == nil {
		return nil
	}
	return oops.Code(CodeParseFailure).With("operation", op).Wrap(err)
}

// Contract reports a programming-error contract violation (spec §7):
// applying an action to a state from a different repository, indexing a
// sequence out of range, double-freeing a pooled handle. Callers that
// detect these are expected to treat the result as fatal, not retry it.
func Contract(op string, err error) error {
	if err == nil {
		return nil
	}
	return oops.Code(CodeContractViolation).With("operation", op).Wrap(err)
}
