package stats

import (
	"errors"
	"fmt"

	"deck-stats-system/models"
)

var (
	// ErrInvalidPrior covers prior records whose win count exceeds the
	// assumed match count or is negative.
	ErrInvalidPrior = errors.New("prior wins must be between 0 and prior matches")
	// ErrNegativeDeckID rejects ids outside the valid range.
	ErrNegativeDeckID = errors.New("deck id must be non-negative")
)

// Prior is an assumed record for an ordered deck pair: the perspective deck
// is credited Wins out of Matches virtual games. The zero value means "no
// prior".
type Prior struct {
	Matches int `json:"prior_matches"`
	Wins    int `json:"prior_wins"`
}

// Complement flips the prior to the opponent's perspective.
func (p Prior) Complement() Prior {
	return Prior{Matches: p.Matches, Wins: p.Matches - p.Wins}
}

// IsZero reports whether the prior carries no information.
func (p Prior) IsZero() bool {
	return p.Matches == 0 && p.Wins == 0
}

// PairKey is the stored map key for an ordered deck pair.
func PairKey(deckAID, deckBID int) string {
	return fmt.Sprintf("%d_%d", deckAID, deckBID)
}

// PriorBook holds the directional prior map and owns the complement lookup
// logic, so the symmetry invariant lives in one place instead of being a
// string-key convention spread across callers.
type PriorBook struct {
	byKey map[string]Prior
}

// NewPriorBook returns an empty book.
func NewPriorBook() *PriorBook {
	return &PriorBook{byKey: make(map[string]Prior)}
}

// NewPriorBookFromRecords snapshots stored prior rows into a book.
func NewPriorBookFromRecords(rows []models.DeckMatchupPrior) *PriorBook {
	b := NewPriorBook()
	for _, r := range rows {
		b.byKey[PairKey(r.DeckAID, r.DeckBID)] = Prior{Matches: r.PriorMatches, Wins: r.PriorWins}
	}
	return b
}

// Set stores a prior under the forward key exactly as entered.
func (b *PriorBook) Set(deckAID, deckBID, matches, wins int) error {
	if deckAID < 0 || deckBID < 0 {
		return ErrNegativeDeckID
	}
	if deckAID == deckBID {
		return ErrSamePair
	}
	if matches < 0 || wins < 0 || wins > matches {
		return ErrInvalidPrior
	}
	b.byKey[PairKey(deckAID, deckBID)] = Prior{Matches: matches, Wins: wins}
	return nil
}

// Resolve returns the prior for deckAID vs deckBID: the forward record if
// stored, otherwise the complement of the reverse record, otherwise zero.
// The forward record shadows the reverse one should both ever exist.
func (b *PriorBook) Resolve(deckAID, deckBID int) Prior {
	if p, ok := b.byKey[PairKey(deckAID, deckBID)]; ok {
		return p
	}
	if p, ok := b.byKey[PairKey(deckBID, deckAID)]; ok {
		return p.Complement()
	}
	return Prior{}
}

// Len reports the number of stored directional records.
func (b *PriorBook) Len() int {
	return len(b.byKey)
}
