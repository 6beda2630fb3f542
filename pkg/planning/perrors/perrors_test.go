package perrors

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/pkg/planning/axiom"
	"github.com/mimir-planning/mimir/pkg/planning/novelty"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	oe, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops error")
	return oe.Code()
}

func TestClassifyNilIsNil(t *testing.T) {
	require.NoError(t, Classify("op", nil))
}

func TestClassifyResourceExhaustion(t *testing.T) {
	err := Classify("grounding", slot.ErrIndexSpaceExhausted)
	require.Error(t, err)
	require.Equal(t, CodeResourceExhausted, codeOf(t, err))
	require.True(t, errors.Is(err, slot.ErrIndexSpaceExhausted))

	err = Classify("novelty", novelty.ErrTableTooLarge)
	require.Error(t, err)
	require.Equal(t, CodeResourceExhausted, codeOf(t, err))
}

func TestClassifyUnstratifiable(t *testing.T) {
	err := Classify("stratify", axiom.ErrUnstratifiable)
	require.Error(t, err)
	require.Equal(t, CodeUnstratifiable, codeOf(t, err))
}

func TestClassifyFallsBackToInternal(t *testing.T) {
	err := Classify("op", errors.New("boom"))
	require.Error(t, err)
	require.Equal(t, CodeInternal, codeOf(t, err))
}

func TestParseAndContract(t *testing.T) {
	require.Equal(t, CodeParseFailure, codeOf(t, Parse("load", errors.New("bad syntax"))))
	require.Equal(t, CodeContractViolation, codeOf(t, Contract("apply", errors.New("mismatched repository"))))
}
