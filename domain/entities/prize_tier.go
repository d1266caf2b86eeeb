package entities

import (
	"fmt"
)

const (
	// BasisPointsTotal is 100% expressed in basis points.
	BasisPointsTotal = 10000

	// OwnerFeeBasisPoints is the owner's cut of every ticket purchase,
	// skimmed at purchase time. The remainder feeds the prize pool.
	OwnerFeeBasisPoints = 1000
)

// PrizeTier maps a sequential match count to its share of the prize pool.
type PrizeTier struct {
	MatchCount  int
	BasisPoints int64
}

// TierTable is the immutable prize schedule for matches 1..7. The table is
// validated once at construction; percentages for matches 2..7 must sum to
// exactly 100% and a single match carries no prize.
type TierTable struct {
	basisPoints [TicketNumberCount + 1]int64 // indexed by match count
}

// NewTierTable validates and builds a tier table from the given tiers.
func NewTierTable(tiers []PrizeTier) (*TierTable, error) {
	if len(tiers) != TicketNumberCount {
		return nil, fmt.Errorf("%w: expected %d tiers, got %d", ErrInvalidTierConfig, TicketNumberCount, len(tiers))
	}

	t := &TierTable{}
	seen := [TicketNumberCount + 1]bool{}
	var sum int64
	for _, tier := range tiers {
		if tier.MatchCount < 1 || tier.MatchCount > TicketNumberCount {
			return nil, fmt.Errorf("%w: match count %d out of range", ErrInvalidTierConfig, tier.MatchCount)
		}
		if seen[tier.MatchCount] {
			return nil, fmt.Errorf("%w: duplicate tier for match count %d", ErrInvalidTierConfig, tier.MatchCount)
		}
		if tier.BasisPoints < 0 || tier.BasisPoints > BasisPointsTotal {
			return nil, fmt.Errorf("%w: tier %d has %d basis points", ErrInvalidTierConfig, tier.MatchCount, tier.BasisPoints)
		}
		seen[tier.MatchCount] = true
		t.basisPoints[tier.MatchCount] = tier.BasisPoints
		if tier.MatchCount >= 2 {
			sum += tier.BasisPoints
		}
	}

	if t.basisPoints[1] != 0 {
		return nil, fmt.Errorf("%w: a single match carries no prize", ErrInvalidTierConfig)
	}
	if sum != BasisPointsTotal {
		return nil, fmt.Errorf("%w: tier percentages sum to %d basis points, want %d", ErrInvalidTierConfig, sum, BasisPointsTotal)
	}

	return t, nil
}

// DefaultTierTable returns the standard prize schedule:
// 2 matches 5%, 3 matches 10%, 4 matches 15%, 5 matches 20%, 6 matches 20%,
// 7 matches 30%.
func DefaultTierTable() *TierTable {
	t, err := NewTierTable([]PrizeTier{
		{MatchCount: 1, BasisPoints: 0},
		{MatchCount: 2, BasisPoints: 500},
		{MatchCount: 3, BasisPoints: 1000},
		{MatchCount: 4, BasisPoints: 1500},
		{MatchCount: 5, BasisPoints: 2000},
		{MatchCount: 6, BasisPoints: 2000},
		{MatchCount: 7, BasisPoints: 3000},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// BasisPointsFor returns the pool percentage for the given match count.
// Match counts outside 1..7 (including 0) carry no prize.
func (t *TierTable) BasisPointsFor(matchCount int) int64 {
	if matchCount < 1 || matchCount > TicketNumberCount {
		return 0
	}
	return t.basisPoints[matchCount]
}

// Tiers returns the schedule in match-count order.
func (t *TierTable) Tiers() []PrizeTier {
	tiers := make([]PrizeTier, 0, TicketNumberCount)
	for match := 1; match <= TicketNumberCount; match++ {
		tiers = append(tiers, PrizeTier{MatchCount: match, BasisPoints: t.basisPoints[match]})
	}
	return tiers
}
