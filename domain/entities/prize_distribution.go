package entities

// TierResult summarizes one prize tier after distribution.
type TierResult struct {
	MatchCount     int
	WinnerCount    int
	TierPrize      int64
	PerWinnerShare int64
}

// WinnerShare is one winning ticket's payout. Shares are per ticket: an
// account holding several tickets in the same tier receives a full share for
// each of them.
type WinnerShare struct {
	Account    AccountID
	TicketID   int64
	MatchCount int32
	Amount     int64
}

// PrizeDistribution is the outcome of distributing a round's prize pool.
// Undistributed captures every unit the winners did not receive: whole tier
// prizes with no winners, integer-division remainders within a tier, and the
// pool-level flooring remainder. The invariant
// sum(Credits) + Undistributed == PrizePool holds exactly.
type PrizeDistribution struct {
	PrizePool     int64
	Credits       map[AccountID]int64
	Shares        []WinnerShare
	Tiers         []TierResult
	Undistributed int64
}

// DistributePrizes assigns the prize pool across tiers for the given scored
// tickets. Tickets must already carry their matched count. Tickets matching
// fewer than two numbers never enter a tier.
func DistributePrizes(prizePool int64, tickets []*Ticket, table *TierTable) *PrizeDistribution {
	byTier := make(map[int][]*Ticket)
	for _, ticket := range tickets {
		if !ticket.IsScored() {
			continue
		}
		match := int(*ticket.MatchedCount)
		if match >= 2 {
			byTier[match] = append(byTier[match], ticket)
		}
	}

	dist := &PrizeDistribution{
		PrizePool: prizePool,
		Credits:   make(map[AccountID]int64),
	}

	var credited int64
	for match := 2; match <= TicketNumberCount; match++ {
		tierPrize := prizePool * table.BasisPointsFor(match) / BasisPointsTotal
		winners := byTier[match]
		result := TierResult{
			MatchCount:  match,
			WinnerCount: len(winners),
			TierPrize:   tierPrize,
		}
		if len(winners) > 0 {
			result.PerWinnerShare = tierPrize / int64(len(winners))
			for _, ticket := range winners {
				dist.Credits[ticket.Owner] += result.PerWinnerShare
				dist.Shares = append(dist.Shares, WinnerShare{
					Account:    ticket.Owner,
					TicketID:   ticket.ID,
					MatchCount: *ticket.MatchedCount,
					Amount:     result.PerWinnerShare,
				})
				credited += result.PerWinnerShare
			}
		}
		dist.Tiers = append(dist.Tiers, result)
	}

	dist.Undistributed = prizePool - credited
	return dist
}
