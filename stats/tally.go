package stats

import (
	"errors"

	"deck-stats-system/models"
)

// ErrSamePair is returned when a matchup is requested for a deck against
// itself; callers render a placeholder cell instead.
var ErrSamePair = errors.New("matchup requires two distinct decks")

// DeckTally is the per-deck reduction of a record set.
type DeckTally struct {
	DeckID int `json:"deck_id"`
	Total  int `json:"total_matches"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// WinRate returns the observed win rate in percent, 0 when no matches exist.
func (t DeckTally) WinRate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Total) * 100
}

// HandTally is a first- or second-hand sub-count. Records with unknown hand
// order never contribute here.
type HandTally struct {
	Total int `json:"total"`
	Wins  int `json:"wins"`
}

// MatchupStats describes one ordered deck pair (perspective deck vs opponent).
type MatchupStats struct {
	Total      int       `json:"total"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	WinRate    float64   `json:"win_rate"`
	FirstHand  HandTally `json:"first_hand"`
	SecondHand HandTally `json:"second_hand"`
}

// HandFilter restricts which records enter a matchup grid.
type HandFilter string

const (
	// HandAll includes every record, known hand order or not.
	HandAll HandFilter = "all"
	// HandBoth keeps only records whose hand order is known.
	HandBoth HandFilter = "both"
	// HandFirst keeps records where the perspective deck went first.
	HandFirst HandFilter = "first"
	// HandSecond keeps records where the perspective deck went second.
	HandSecond HandFilter = "second"
)

// Valid reports whether f is a recognized filter. The empty string is
// accepted and treated as HandAll.
func (f HandFilter) Valid() bool {
	switch f {
	case "", HandAll, HandBoth, HandFirst, HandSecond:
		return true
	}
	return false
}

// TallyDeck reduces records to the win/loss line of one deck. Pair identity
// comes from the winner/loser columns, which are always populated even for
// hand-unknown records.
func TallyDeck(records []models.MatchResult, deckID int) DeckTally {
	t := DeckTally{DeckID: deckID}
	for _, m := range records {
		switch deckID {
		case m.WinningDeckID:
			t.Wins++
			t.Total++
		case m.LosingDeckID:
			t.Losses++
			t.Total++
		}
	}
	return t
}

// TallyDecks runs TallyDeck for every listed deck in a single pass.
func TallyDecks(records []models.MatchResult, deckIDs []int) map[int]DeckTally {
	out := make(map[int]DeckTally, len(deckIDs))
	for _, id := range deckIDs {
		out[id] = DeckTally{DeckID: id}
	}
	for _, m := range records {
		if t, ok := out[m.WinningDeckID]; ok {
			t.Wins++
			t.Total++
			out[m.WinningDeckID] = t
		}
		if t, ok := out[m.LosingDeckID]; ok {
			t.Losses++
			t.Total++
			out[m.LosingDeckID] = t
		}
	}
	return out
}

// TallyMatchup reduces records to the ordered matchup deckAID vs deckBID.
// Hand breakdowns skip records carrying the unknown sentinel.
func TallyMatchup(records []models.MatchResult, deckAID, deckBID int) (MatchupStats, error) {
	if deckAID == deckBID {
		return MatchupStats{}, ErrSamePair
	}
	var s MatchupStats
	for _, m := range records {
		if !pairMatches(m, deckAID, deckBID) {
			continue
		}
		won := m.WinningDeckID == deckAID
		s.Total++
		if won {
			s.Wins++
		} else {
			s.Losses++
		}
		if m.FirstDeckID == models.HandUnknown {
			continue
		}
		if m.FirstDeckID == deckAID {
			s.FirstHand.Total++
			if won {
				s.FirstHand.Wins++
			}
		} else {
			s.SecondHand.Total++
			if won {
				s.SecondHand.Wins++
			}
		}
	}
	if s.Total > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Total) * 100
	}
	return s, nil
}

// MatchupGrid builds the full pairwise table for the listed decks in one
// pass over the records. The hand filter decides which records enter each
// perspective's cell; hand breakdowns then count the hand-known subset of
// those records.
func MatchupGrid(records []models.MatchResult, deckIDs []int, hand HandFilter) map[int]map[int]MatchupStats {
	known := make(map[int]bool, len(deckIDs))
	for _, id := range deckIDs {
		known[id] = true
	}

	grid := make(map[int]map[int]MatchupStats, len(deckIDs))
	for _, id := range deckIDs {
		grid[id] = make(map[int]MatchupStats)
	}

	for _, m := range records {
		if !known[m.WinningDeckID] || !known[m.LosingDeckID] || m.WinningDeckID == m.LosingDeckID {
			continue
		}
		// Each record contributes to both perspectives.
		applyToCell(grid, m, m.WinningDeckID, m.LosingDeckID, true, hand)
		applyToCell(grid, m, m.LosingDeckID, m.WinningDeckID, false, hand)
	}

	for _, row := range grid {
		for opp, cell := range row {
			if cell.Total > 0 {
				cell.WinRate = float64(cell.Wins) / float64(cell.Total) * 100
				row[opp] = cell
			}
		}
	}
	return grid
}

func applyToCell(grid map[int]map[int]MatchupStats, m models.MatchResult, deckID, oppID int, won bool, hand HandFilter) {
	handKnown := m.FirstDeckID != models.HandUnknown
	wentFirst := handKnown && m.FirstDeckID == deckID

	switch hand {
	case HandBoth:
		if !handKnown {
			return
		}
	case HandFirst:
		if !wentFirst {
			return
		}
	case HandSecond:
		if !handKnown || wentFirst {
			return
		}
	}

	cell := grid[deckID][oppID]
	cell.Total++
	if won {
		cell.Wins++
	} else {
		cell.Losses++
	}
	if handKnown {
		if wentFirst {
			cell.FirstHand.Total++
			if won {
				cell.FirstHand.Wins++
			}
		} else {
			cell.SecondHand.Total++
			if won {
				cell.SecondHand.Wins++
			}
		}
	}
	grid[deckID][oppID] = cell
}

func pairMatches(m models.MatchResult, a, b int) bool {
	return (m.WinningDeckID == a && m.LosingDeckID == b) ||
		(m.WinningDeckID == b && m.LosingDeckID == a)
}
