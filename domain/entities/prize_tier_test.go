package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTierTable(t *testing.T) {
	t.Parallel()

	validTiers := func() []PrizeTier {
		return []PrizeTier{
			{MatchCount: 1, BasisPoints: 0},
			{MatchCount: 2, BasisPoints: 500},
			{MatchCount: 3, BasisPoints: 1000},
			{MatchCount: 4, BasisPoints: 1500},
			{MatchCount: 5, BasisPoints: 2000},
			{MatchCount: 6, BasisPoints: 2000},
			{MatchCount: 7, BasisPoints: 3000},
		}
	}

	tests := []struct {
		name    string
		mutate  func([]PrizeTier) []PrizeTier
		wantErr bool
	}{
		{
			name:    "default configuration is valid",
			mutate:  func(tiers []PrizeTier) []PrizeTier { return tiers },
			wantErr: false,
		},
		{
			name: "sum above 100 percent",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				tiers[6].BasisPoints = 3100
				return tiers
			},
			wantErr: true,
		},
		{
			name: "sum below 100 percent",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				tiers[1].BasisPoints = 400
				return tiers
			},
			wantErr: true,
		},
		{
			name: "single match must carry no prize",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				tiers[0].BasisPoints = 100
				tiers[6].BasisPoints = 2900
				return tiers
			},
			wantErr: true,
		},
		{
			name: "duplicate match count",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				tiers[1].MatchCount = 3
				return tiers
			},
			wantErr: true,
		},
		{
			name: "match count out of range",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				tiers[6].MatchCount = 8
				return tiers
			},
			wantErr: true,
		},
		{
			name: "negative basis points",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				tiers[1].BasisPoints = -500
				tiers[6].BasisPoints = 4000
				return tiers
			},
			wantErr: true,
		},
		{
			name: "missing tier",
			mutate: func(tiers []PrizeTier) []PrizeTier {
				return tiers[:6]
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := NewTierTable(tt.mutate(validTiers()))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTierConfig)
				assert.Nil(t, table)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, table)
			}
		})
	}
}

func TestDefaultTierTable(t *testing.T) {
	t.Parallel()

	table := DefaultTierTable()

	assert.Equal(t, int64(0), table.BasisPointsFor(0))
	assert.Equal(t, int64(0), table.BasisPointsFor(1))
	assert.Equal(t, int64(500), table.BasisPointsFor(2))
	assert.Equal(t, int64(1000), table.BasisPointsFor(3))
	assert.Equal(t, int64(1500), table.BasisPointsFor(4))
	assert.Equal(t, int64(2000), table.BasisPointsFor(5))
	assert.Equal(t, int64(2000), table.BasisPointsFor(6))
	assert.Equal(t, int64(3000), table.BasisPointsFor(7))

	// Out-of-range match counts carry nothing.
	assert.Equal(t, int64(0), table.BasisPointsFor(8))
	assert.Equal(t, int64(0), table.BasisPointsFor(-1))
}

func TestTierTable_SumInvariant(t *testing.T) {
	t.Parallel()

	table := DefaultTierTable()

	var sum int64
	for _, tier := range table.Tiers() {
		if tier.MatchCount >= 2 {
			sum += tier.BasisPoints
		}
	}
	require.Equal(t, int64(BasisPointsTotal), sum)
}

func TestTierTable_Tiers(t *testing.T) {
	t.Parallel()

	tiers := DefaultTierTable().Tiers()
	require.Len(t, tiers, TicketNumberCount)
	for i, tier := range tiers {
		assert.Equal(t, i+1, tier.MatchCount)
	}
}
