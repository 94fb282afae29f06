package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deck-stats-system/models"
)

func TestResolveComplementSymmetry(t *testing.T) {
	book := NewPriorBook()
	require.NoError(t, book.Set(1, 2, 10, 6))

	forward := book.Resolve(1, 2)
	assert.Equal(t, Prior{Matches: 10, Wins: 6}, forward)

	reverse := book.Resolve(2, 1)
	assert.Equal(t, Prior{Matches: 10, Wins: 4}, reverse)

	// Both directions always account for every virtual match exactly once.
	assert.Equal(t, forward.Matches, reverse.Matches)
	assert.Equal(t, forward.Matches, forward.Wins+reverse.Wins)
}

func TestResolveZeroDefault(t *testing.T) {
	book := NewPriorBook()
	p := book.Resolve(3, 4)
	assert.True(t, p.IsZero())
	assert.Equal(t, Prior{}, p)
}

func TestSetValidation(t *testing.T) {
	book := NewPriorBook()
	assert.ErrorIs(t, book.Set(1, 2, 5, 6), ErrInvalidPrior)
	assert.ErrorIs(t, book.Set(1, 2, -1, 0), ErrInvalidPrior)
	assert.ErrorIs(t, book.Set(1, 2, 5, -1), ErrInvalidPrior)
	assert.ErrorIs(t, book.Set(-1, 2, 5, 3), ErrNegativeDeckID)
	assert.ErrorIs(t, book.Set(2, 2, 5, 3), ErrSamePair)
	assert.Equal(t, 0, book.Len())
}

func TestSetIdempotentUpsert(t *testing.T) {
	book := NewPriorBook()
	require.NoError(t, book.Set(1, 2, 8, 5))
	require.NoError(t, book.Set(1, 2, 8, 5))
	assert.Equal(t, 1, book.Len())
	assert.Equal(t, Prior{Matches: 8, Wins: 5}, book.Resolve(1, 2))

	// Last write wins for the same ordered key.
	require.NoError(t, book.Set(1, 2, 12, 3))
	assert.Equal(t, 1, book.Len())
	assert.Equal(t, Prior{Matches: 12, Wins: 3}, book.Resolve(1, 2))
}

func TestForwardShadowsReverse(t *testing.T) {
	// Uncontrolled legacy data may carry both directions; the forward key
	// must win deterministically.
	book := NewPriorBookFromRecords([]models.DeckMatchupPrior{
		{DeckAID: 1, DeckBID: 2, PriorMatches: 10, PriorWins: 7},
		{DeckAID: 2, DeckBID: 1, PriorMatches: 4, PriorWins: 1},
	})
	assert.Equal(t, Prior{Matches: 10, Wins: 7}, book.Resolve(1, 2))
	assert.Equal(t, Prior{Matches: 4, Wins: 1}, book.Resolve(2, 1))
}

func TestPairKey(t *testing.T) {
	assert.Equal(t, "3_11", PairKey(3, 11))
	assert.Equal(t, "11_3", PairKey(11, 3))
}

func TestComplement(t *testing.T) {
	p := Prior{Matches: 9, Wins: 2}
	assert.Equal(t, Prior{Matches: 9, Wins: 7}, p.Complement())
	assert.Equal(t, p, p.Complement().Complement())
}
