package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestRunBenchProducesNoError(t *testing.T) {
	cmd := &cobra.Command{}
	err := runBench(cmd, 10, false)
	require.NoError(t, err)
}

func TestRunBenchWithMetrics(t *testing.T) {
	cmd := &cobra.Command{}
	err := runBench(cmd, 5, true)
	require.NoError(t, err)
}

func TestRunBenchZeroIterations(t *testing.T) {
	cmd := &cobra.Command{}
	err := runBench(cmd, 0, false)
	require.NoError(t, err)
}
