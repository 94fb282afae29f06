package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deck-stats-system/models"
)

func repeatMatches(winner, loser, wins, losses int) []models.MatchResult {
	var out []models.MatchResult
	for i := 0; i < wins; i++ {
		out = append(out, blindMatch(winner, loser))
	}
	for i := 0; i < losses; i++ {
		out = append(out, blindMatch(loser, winner))
	}
	return out
}

func TestNewRankerRejectsBadParams(t *testing.T) {
	_, err := NewRanker(0, 1)
	assert.ErrorIs(t, err, ErrInvalidSensitivity)
	_, err = NewRanker(-5, 1)
	assert.ErrorIs(t, err, ErrInvalidSensitivity)
	_, err = NewRanker(30, -0.5)
	assert.ErrorIs(t, err, ErrInvalidPriorWeight)

	r, err := NewRanker(30, 1)
	require.NoError(t, err)
	assert.Equal(t, 30.0, r.Sensitivity)
}

// Deck 1 beats deck 2 seven times and loses three, sensitivity 30:
// average 0.7, weighted (7+15)/(10+30) = 0.55.
func TestRankCanonicalScenario(t *testing.T) {
	records := repeatMatches(1, 2, 7, 3)
	r, err := NewRanker(30, 1)
	require.NoError(t, err)

	table, err := r.Rank([]int{1, 2}, records, nil, nil)
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.Equal(t, 1, table[0].DeckID)
	assert.InDelta(t, 0.7, table[0].AverageWinRate, 1e-9)
	assert.InDelta(t, 0.55, table[0].WeightedWinRate, 1e-9)

	assert.Equal(t, 2, table[1].DeckID)
	assert.InDelta(t, 0.3, table[1].AverageWinRate, 1e-9)
	assert.InDelta(t, 0.45, table[1].WeightedWinRate, 1e-9)
}

func TestRankOmitsZeroSampleDecks(t *testing.T) {
	records := repeatMatches(1, 2, 1, 1)
	r, err := NewRanker(30, 1)
	require.NoError(t, err)

	// Deck 3 has no matches and must not appear, not even at 50%.
	table, err := r.Rank([]int{1, 2, 3}, records, nil, nil)
	require.NoError(t, err)
	require.Len(t, table, 2)
	for _, c := range table {
		assert.NotEqual(t, 3, c.DeckID)
	}
}

func TestRankEmptyRecords(t *testing.T) {
	r, err := NewRanker(30, 1)
	require.NoError(t, err)
	table, err := r.Rank([]int{1, 2}, nil, NewPriorBook(), nil)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestShrinkageLimits(t *testing.T) {
	r, err := NewRanker(20, 1)
	require.NoError(t, err)

	// Hold the observed rate at 0.7 while the sample grows; the weighted
	// rate must approach it monotonically from below.
	prev := 0.5
	for _, n := range []int{10, 100, 1000, 10000} {
		records := repeatMatches(1, 2, 7*n/10, 3*n/10)
		table, err := r.Rank([]int{1, 2}, records, nil, nil)
		require.NoError(t, err)
		got := table[0].WeightedWinRate
		assert.Greater(t, got, prev)
		assert.Less(t, got, 0.7)
		prev = got
	}
	assert.InDelta(t, 0.7, prev, 0.001)
}

func TestSensitivityMonotonicity(t *testing.T) {
	records := repeatMatches(1, 2, 8, 2)
	prevDistance := 0.0
	for i, s := range []float64{15, 25, 35, 45} {
		r, err := NewRanker(s, 1)
		require.NoError(t, err)
		table, err := r.Rank([]int{1, 2}, records, nil, nil)
		require.NoError(t, err)
		distance := math.Abs(table[0].WeightedWinRate - 0.5)
		if i > 0 {
			// Higher sensitivity pulls harder toward 0.5.
			assert.Less(t, distance, prevDistance, "sensitivity %v", s)
		}
		prevDistance = distance
	}
}

func TestRankFoldsPriorsScaledByWeight(t *testing.T) {
	// 5-5 observed record, prior says deck 1 wins 9 of 10.
	records := repeatMatches(1, 2, 5, 5)
	priors := NewPriorBook()
	require.NoError(t, priors.Set(1, 2, 10, 9))

	rank := func(weight float64) WinRateCalculation {
		r, err := NewRanker(30, weight)
		require.NoError(t, err)
		table, err := r.Rank([]int{1, 2}, records, priors, nil)
		require.NoError(t, err)
		require.Equal(t, 1, table[0].DeckID)
		return table[0]
	}

	// weight 1: wins' = 5+9 = 14, total' = 10+10 = 20.
	full := rank(1)
	assert.InDelta(t, (14.0+15.0)/(20.0+30.0), full.WeightedWinRate, 1e-9)
	// Average stays observed-only regardless of priors.
	assert.InDelta(t, 0.5, full.AverageWinRate, 1e-9)

	// weight 2 doubles the prior contribution.
	double := rank(2)
	assert.InDelta(t, (5.0+18.0+15.0)/(10.0+20.0+30.0), double.WeightedWinRate, 1e-9)

	// weight 0 disables priors entirely.
	none := rank(0)
	assert.InDelta(t, (5.0+15.0)/(10.0+30.0), none.WeightedWinRate, 1e-9)
}

func TestRankResolvesReversePriors(t *testing.T) {
	records := repeatMatches(1, 2, 5, 5)
	priors := NewPriorBook()
	// Prior stored from deck 2's perspective: 2 wins 6 of 10, so deck 1 is
	// credited 4 of 10.
	require.NoError(t, priors.Set(2, 1, 10, 6))

	r, err := NewRanker(30, 1)
	require.NoError(t, err)
	table, err := r.Rank([]int{1, 2}, records, priors, nil)
	require.NoError(t, err)

	var deck1 WinRateCalculation
	for _, c := range table {
		if c.DeckID == 1 {
			deck1 = c
		}
	}
	assert.InDelta(t, (5.0+4.0+15.0)/(10.0+10.0+30.0), deck1.WeightedWinRate, 1e-9)
}

func TestRankTieBreaking(t *testing.T) {
	// Decks 1 and 2 both sit at 50% observed, but deck 2 has more evidence.
	// Their opponents are outside the ranked roster.
	records := append(repeatMatches(1, 3, 2, 2), repeatMatches(2, 4, 10, 10)...)
	r, err := NewRanker(30, 1)
	require.NoError(t, err)

	table, err := r.Rank([]int{1, 2}, records, nil, nil)
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.InDelta(t, table[0].WeightedWinRate, table[1].WeightedWinRate, 1e-9)
	assert.Equal(t, 2, table[0].DeckID, "more evidence ranks first at equal weighted rate")
	assert.Equal(t, 1, table[1].DeckID)
}

func TestRankTieBreakFallsBackToDeckID(t *testing.T) {
	// Identical records for decks 5 and 6 against off-roster opponents.
	records := append(repeatMatches(6, 9, 3, 3), repeatMatches(5, 9, 3, 3)...)
	r, err := NewRanker(30, 1)
	require.NoError(t, err)

	table, err := r.Rank([]int{6, 5}, records, nil, nil)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, 5, table[0].DeckID)
	assert.Equal(t, 6, table[1].DeckID)
}

func TestRankEnvironmentOffsets(t *testing.T) {
	records := repeatMatches(1, 2, 5, 5)
	r, err := NewRanker(30, 1)
	require.NoError(t, err)

	table, err := r.Rank([]int{1, 2}, records, nil, map[int]float64{2: 0.2})
	require.NoError(t, err)

	assert.Equal(t, 2, table[0].DeckID, "offset lifts deck 2 above the tie")
	assert.InDelta(t, 0.2, table[0].EnvironmentOffset, 1e-9)
	assert.InDelta(t, 0.7, table[0].WeightedWinRate, 1e-9)
	assert.InDelta(t, 0.0, table[1].EnvironmentOffset, 1e-9)
}
