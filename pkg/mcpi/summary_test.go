package mcpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize(
		[]uint64{7854, 7850},
		[]uint64{10000, 10000},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Jobs)
	assert.InDelta(t, 3.1408, s.Estimate, 1e-12)
	// partials are 3.1416 and 3.14; their mean equals the pooled
	// estimate here because the sample counts are equal
	assert.InDelta(t, 3.1408, s.Mean, 1e-12)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Greater(t, s.StdErr, 0.0)
	assert.Less(t, s.StdErr, s.StdDev)
}

func TestSummarizeSingleJob(t *testing.T) {
	s, err := Summarize([]uint64{7854}, []uint64{10000})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs)
	assert.Equal(t, s.Estimate, s.Mean)
	// dispersion is undefined for one partial and reported as zero
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.StdErr)
}

func TestSummarizeInvalid(t *testing.T) {
	_, err := Summarize(nil, nil)
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Summarize([]uint64{1, 2}, []uint64{10})
	require.ErrorIs(t, err, ErrLengthMismatch)
}
