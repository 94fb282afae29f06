package stats

import (
	"errors"
	"sort"

	"deck-stats-system/models"
)

var (
	// ErrInvalidSensitivity rejects sensitivity values that break the
	// shrinkage limit behaviour. Never clamped.
	ErrInvalidSensitivity = errors.New("sensitivity must be greater than zero")
	// ErrInvalidPriorWeight rejects negative prior weight multipliers.
	ErrInvalidPriorWeight = errors.New("prior weight must be non-negative")
)

// WinRateCalculation is the ranked output for one deck.
type WinRateCalculation struct {
	DeckID            int     `json:"deck_id"`
	AverageWinRate    float64 `json:"average_win_rate"`
	WeightedWinRate   float64 `json:"weighted_win_rate"`
	EnvironmentOffset float64 `json:"environment_offset"`
	ObservedMatches   int     `json:"observed_matches"`
}

// Ranker computes the sensitivity-weighted win-rate table. Sensitivity is
// the number of virtual 50% matches blended into every deck's record:
// abundant data converges on the observed rate, an empty record sits at 0.5.
// PriorWeight scales how strongly stored matchup priors count relative to
// observed matches.
type Ranker struct {
	Sensitivity float64
	PriorWeight float64
}

// NewRanker validates the parameters up front so a bad request never reaches
// the arithmetic.
func NewRanker(sensitivity, priorWeight float64) (*Ranker, error) {
	if sensitivity <= 0 {
		return nil, ErrInvalidSensitivity
	}
	if priorWeight < 0 {
		return nil, ErrInvalidPriorWeight
	}
	return &Ranker{Sensitivity: sensitivity, PriorWeight: priorWeight}, nil
}

// Rank produces the ranked table for the given deck roster over an already
// scoped record snapshot. Decks with zero observed matches are omitted: their
// average win rate is undefined and showing them at 50% would be misleading.
// Ordering: weighted win rate desc, then observed matches desc, then deck id.
func (r *Ranker) Rank(deckIDs []int, records []models.MatchResult, priors *PriorBook, offsets map[int]float64) ([]WinRateCalculation, error) {
	if r.Sensitivity <= 0 {
		return nil, ErrInvalidSensitivity
	}
	if r.PriorWeight < 0 {
		return nil, ErrInvalidPriorWeight
	}

	tallies := TallyDecks(records, deckIDs)

	out := make([]WinRateCalculation, 0, len(deckIDs))
	for _, id := range deckIDs {
		obs := tallies[id]
		if obs.Total == 0 {
			continue
		}

		wins := float64(obs.Wins)
		total := float64(obs.Total)

		if priors != nil && r.PriorWeight > 0 {
			for _, opp := range deckIDs {
				if opp == id {
					continue
				}
				p := priors.Resolve(id, opp)
				if p.IsZero() {
					continue
				}
				total += float64(p.Matches) * r.PriorWeight
				wins += float64(p.Wins) * r.PriorWeight
			}
		}

		offset := offsets[id]
		calc := WinRateCalculation{
			DeckID:            id,
			AverageWinRate:    float64(obs.Wins) / float64(obs.Total),
			WeightedWinRate:   (wins+r.Sensitivity*0.5)/(total+r.Sensitivity) + offset,
			EnvironmentOffset: offset,
			ObservedMatches:   obs.Total,
		}
		out = append(out, calc)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightedWinRate != out[j].WeightedWinRate {
			return out[i].WeightedWinRate > out[j].WeightedWinRate
		}
		if out[i].ObservedMatches != out[j].ObservedMatches {
			return out[i].ObservedMatches > out[j].ObservedMatches
		}
		return out[i].DeckID < out[j].DeckID
	})
	return out, nil
}
