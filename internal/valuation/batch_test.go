package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valorvista/server/internal/models"
)

func batchOf(n int) []*models.PropertyInput {
	inputs := make([]*models.PropertyInput, n)
	for i := range inputs {
		inputs[i] = goldenProperty()
	}
	return inputs
}

func TestEstimateBatchPreservesOrder(t *testing.T) {
	e := testEstimator(t)

	small := goldenProperty()
	small.GrLivArea = intPtr(900)
	large := goldenProperty()
	large.GrLivArea = intPtr(3200)

	result, err := e.EstimateBatch([]*models.PropertyInput{small, goldenProperty(), large})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)

	for i, entry := range result.Entries {
		assert.Equal(t, i, entry.Index)
		require.NotNil(t, entry.Result, "entry %d", i)
		require.NotNil(t, entry.Input, "entry %d", i)
		assert.Empty(t, entry.Error)
	}
	assert.Equal(t, 900, result.Entries[0].Input.LivingArea)
	assert.Equal(t, 3200, result.Entries[2].Input.LivingArea)
}

func TestEstimateBatchPartialFailure(t *testing.T) {
	e := testEstimator(t)

	bad := &models.PropertyInput{GrLivArea: intPtr(1500)} // missing required fields
	result, err := e.EstimateBatch([]*models.PropertyInput{goldenProperty(), bad, goldenProperty()})
	require.NoError(t, err, "one bad record must not fail the batch")

	require.Len(t, result.Entries, 3)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	assert.Nil(t, result.Entries[1].Result)
	assert.NotEmpty(t, result.Entries[1].Error)
	assert.NotNil(t, result.Entries[0].Result)
	assert.NotNil(t, result.Entries[2].Result)

	// Summary statistics cover successful entries only.
	require.NotNil(t, result.Summary)
	assert.Equal(t, 2, result.Summary.Count)
}

func TestEstimateBatchSummaryStatistics(t *testing.T) {
	e := testEstimator(t)

	result, err := e.EstimateBatch(batchOf(4))
	require.NoError(t, err)

	s := result.Summary
	require.NotNil(t, s)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, s.Mean, s.Median, 1e-9, "identical records share one prediction")
	assert.Equal(t, s.Min, s.Max)
	assert.Zero(t, s.Std)
	assert.Contains(t, s.Formatted.Range, " - ")
}

func TestEstimateBatchSizeCap(t *testing.T) {
	e := testEstimator(t)

	_, err := e.EstimateBatch(batchOf(101))
	require.Error(t, err)

	var sizeErr *BatchSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 101, sizeErr.Size)
	assert.Equal(t, 100, sizeErr.Max)
}

func TestEstimateBatchEmpty(t *testing.T) {
	e := testEstimator(t)

	_, err := e.EstimateBatch(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestEstimateBatchModelUnavailable(t *testing.T) {
	e := NewEstimator(nil, DefaultOptions, nil)

	_, err := e.EstimateBatch(batchOf(2))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestEstimateBatchAllFailedHasNoSummary(t *testing.T) {
	e := testEstimator(t)

	bad := &models.PropertyInput{}
	result, err := e.EstimateBatch([]*models.PropertyInput{bad, bad})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Nil(t, result.Summary)
}
