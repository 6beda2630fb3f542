package main

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveEndToEndWritesPlanFile(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.txt")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"-D", "gripper-domain.pddl",
		"-P", "gripper-p01.pddl",
		"-O", planPath,
	})
	require.NoError(t, cmd.Execute())

	f, err := os.Open(planPath)
	require.NoError(t, err)
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		require.NotEmpty(t, scanner.Text())
		lines++
	}
	require.Positive(t, lines)
}

func TestSolveUnknownDomainReturnsError(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.txt")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"-D", "mystery-domain.pddl",
		"-P", "mystery-p01.pddl",
		"-O", planPath,
	})
	require.Error(t, cmd.Execute())
}

func TestSolveGroundedGeneratorSolvesBlocksworld(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.txt")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"-D", "blocksworld-domain.pddl",
		"-P", "blocksworld-p01.pddl",
		"-O", planPath,
		"-G", "1",
	})
	require.NoError(t, cmd.Execute())

	info, err := os.Stat(planPath)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}
