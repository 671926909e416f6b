package models

// PrizeTable maps each tier to its payout rungs: matchRun -> payout amount.
// A bet pays the highest rung that its match run reaches, which lets a
// partial prize (e.g. 4 of 5 leading matches on the 5-ball game) be pure
// configuration rather than code.
type PrizeTable map[int]map[int]int64

// DefaultPrizeTable returns the standard payouts in minor currency units.
func DefaultPrizeTable() PrizeTable {
	return PrizeTable{
		1: {1: 50},
		2: {2: 500},
		3: {3: 5000},
		5: {5: 500000, 4: 50000},
	}
}

// HasTier returns whether the given tier is offered by this table.
func (p PrizeTable) HasTier(tier int) bool {
	_, ok := p[tier]
	return ok
}

// JackpotFor returns the full-match payout for a tier, i.e. the prize a
// freshly placed bet advertises as its potential win.
func (p PrizeTable) JackpotFor(tier int) int64 {
	return p[tier][tier]
}

// PayoutFor returns the payout for a bet of the given tier whose leading
// match run is matchRun, or 0 if the bet loses. When several rungs are
// reached the highest one pays.
func (p PrizeTable) PayoutFor(tier, matchRun int) int64 {
	rungs, ok := p[tier]
	if !ok {
		return 0
	}
	var payout int64
	best := -1
	for run, amount := range rungs {
		if run <= matchRun && run > best {
			best = run
			payout = amount
		}
	}
	return payout
}
