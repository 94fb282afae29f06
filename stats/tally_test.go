package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deck-stats-system/models"
)

func match(winner, loser, first, second int) models.MatchResult {
	return models.MatchResult{
		EnvironmentID: 1,
		MatchTypeID:   1,
		FirstDeckID:   first,
		SecondDeckID:  second,
		WinningDeckID: winner,
		LosingDeckID:  loser,
	}
}

// blindMatch has no hand order information (ignore_first_player batches).
func blindMatch(winner, loser int) models.MatchResult {
	return match(winner, loser, models.HandUnknown, models.HandUnknown)
}

func TestTallyDeckConservation(t *testing.T) {
	records := []models.MatchResult{
		match(1, 2, 1, 2),
		match(2, 1, 2, 1),
		match(1, 3, 3, 1),
		blindMatch(1, 2),
		match(2, 3, 2, 3), // deck 1 not involved
	}

	tally := TallyDeck(records, 1)
	assert.Equal(t, 4, tally.Total)
	assert.Equal(t, 3, tally.Wins)
	assert.Equal(t, 1, tally.Losses)
	assert.Equal(t, tally.Total, tally.Wins+tally.Losses)
	assert.InDelta(t, 75.0, tally.WinRate(), 1e-9)
}

func TestTallyDeckNoMatches(t *testing.T) {
	tally := TallyDeck(nil, 7)
	assert.Equal(t, 0, tally.Total)
	assert.Equal(t, 0.0, tally.WinRate())
}

func TestTallyDecksAgreesWithTallyDeck(t *testing.T) {
	records := []models.MatchResult{
		match(1, 2, 1, 2),
		match(2, 1, 1, 2),
		match(3, 1, 3, 1),
		blindMatch(2, 3),
	}
	bulk := TallyDecks(records, []int{1, 2, 3})
	for _, id := range []int{1, 2, 3} {
		assert.Equal(t, TallyDeck(records, id), bulk[id], "deck %d", id)
	}
}

func TestTallyMatchupSamePair(t *testing.T) {
	_, err := TallyMatchup(nil, 4, 4)
	assert.ErrorIs(t, err, ErrSamePair)
}

func TestTallyMatchupHandBreakdown(t *testing.T) {
	records := []models.MatchResult{
		match(1, 2, 1, 2), // deck 1 first, won
		match(1, 2, 2, 1), // deck 1 second, won
		match(2, 1, 1, 2), // deck 1 first, lost
		blindMatch(1, 2),  // hand unknown: overall only
		match(1, 3, 1, 3), // different pair, excluded
	}

	s, err := TallyMatchup(records, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 75.0, s.WinRate, 1e-9)

	assert.Equal(t, HandTally{Total: 2, Wins: 1}, s.FirstHand)
	assert.Equal(t, HandTally{Total: 1, Wins: 1}, s.SecondHand)
	// Sentinel records appear in the headline counts but in neither breakdown.
	assert.Equal(t, 3, s.FirstHand.Total+s.SecondHand.Total)
}

func TestTallyMatchupIsSymmetric(t *testing.T) {
	records := []models.MatchResult{
		match(1, 2, 1, 2),
		match(2, 1, 2, 1),
		blindMatch(1, 2),
	}
	ab, err := TallyMatchup(records, 1, 2)
	require.NoError(t, err)
	ba, err := TallyMatchup(records, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, ab.Total, ba.Total)
	assert.Equal(t, ab.Wins, ba.Losses)
	assert.Equal(t, ab.Losses, ba.Wins)
}

func TestMatchupGridHandFilters(t *testing.T) {
	records := []models.MatchResult{
		match(1, 2, 1, 2), // 1 first, won
		match(1, 2, 2, 1), // 1 second, won
		match(2, 1, 1, 2), // 1 first, lost
		blindMatch(2, 1),  // unknown, 1 lost
	}
	decks := []int{1, 2}

	all := MatchupGrid(records, decks, HandAll)
	assert.Equal(t, 4, all[1][2].Total)
	assert.Equal(t, 2, all[1][2].Wins)

	both := MatchupGrid(records, decks, HandBoth)
	assert.Equal(t, 3, both[1][2].Total)
	assert.Equal(t, 2, both[1][2].Wins)

	first := MatchupGrid(records, decks, HandFirst)
	assert.Equal(t, 2, first[1][2].Total)
	assert.Equal(t, 1, first[1][2].Wins)
	// Deck 2's first-hand view only includes matches where 2 went first.
	assert.Equal(t, 1, first[2][1].Total)
	assert.Equal(t, 0, first[2][1].Wins)

	second := MatchupGrid(records, decks, HandSecond)
	assert.Equal(t, 1, second[1][2].Total)
	assert.Equal(t, 1, second[1][2].Wins)
}

func TestMatchupGridIgnoresForeignDecks(t *testing.T) {
	records := []models.MatchResult{
		match(1, 2, 1, 2),
		match(1, 9, 1, 9), // deck 9 not in the roster
	}
	grid := MatchupGrid(records, []int{1, 2}, HandAll)
	assert.Equal(t, 1, grid[1][2].Total)
	_, hasForeign := grid[1][9]
	assert.False(t, hasForeign)
}

func TestHandFilterValid(t *testing.T) {
	for _, f := range []HandFilter{"", HandAll, HandBoth, HandFirst, HandSecond} {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, HandFilter("left").Valid())
}
