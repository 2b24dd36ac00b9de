package game

import (
	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
)

// generateSellers draws a fresh cohort of seed offers for the given player
// level: purchasable, unlocked kinds weighted by seller weight, price uniform
// within each kind's range.
func (s *Session) generateSellers(level int) {
	available := s.catalog.PurchasableAt(level)
	cohort := make([]Seller, 0, s.catalog.Tuning.SellerCohortSize)
	if len(available) == 0 {
		s.sellers = cohort
		return
	}

	weights := make([]float64, len(available))
	for i, p := range available {
		weights[i] = p.SellerWeight
	}

	for i := 0; i < s.catalog.Tuning.SellerCohortSize; i++ {
		pick := available[entropy.WeightedIndex(s.rng, weights)]
		cohort = append(cohort, Seller{
			ID:    i,
			Kind:  pick.Kind,
			Price: s.rng.IntBetween(pick.SeedPriceMin, pick.SeedPriceMax),
		})
	}
	s.sellers = cohort
}

// tutorialSellers is the fixed cohort the guided script walks through.
func tutorialSellers() []Seller {
	return []Seller{
		{ID: 0, Kind: catalog.MorningGlory, Price: 300},
		{ID: 1, Kind: catalog.Tulip, Price: 500},
		{ID: 2, Kind: catalog.Violet, Price: 800},
	}
}
