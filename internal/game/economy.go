package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/green-world/internal/catalog"
)

// BuySeed purchases one seller's offer. The offer is marked sold and the seed
// lands in inventory.
func (s *Session) BuySeed(sellerID int) error {
	var offer *Seller
	for i := range s.sellers {
		if s.sellers[i].ID == sellerID {
			offer = &s.sellers[i]
			break
		}
	}
	if offer == nil {
		// A stale seller id gets the same brush-off as a sold-out stall.
		s.messages.Push("もう売り切れです。")
		return fmt.Errorf("seller %d: %w", sellerID, ErrInvalidTarget)
	}
	if offer.Sold {
		s.messages.Push("もう売り切れです。")
		return ErrAlreadySold
	}

	if err := s.spend(offer.Price); err != nil {
		s.messages.Push("お金が足りません！")
		return err
	}
	s.state.Seeds[offer.Kind]++
	offer.Sold = true

	info := s.catalog.Plant(offer.Kind)
	s.messages.Push(fmt.Sprintf("%s%sの種を%d円で買いました。", info.Glyph, info.Name, offer.Price))
	s.sink.Click()

	s.notifyTutorial(TutorialEvent{Kind: TutorialSeedBought, Target: sellerID})
	return nil
}

// BuyAllRemaining purchases every unsold offer at once. All-or-nothing: if the
// total exceeds the balance nothing is bought.
func (s *Session) BuyAllRemaining() error {
	total := 0
	for _, offer := range s.sellers {
		if !offer.Sold {
			total += offer.Price
		}
	}
	if total == 0 {
		return nil
	}

	if err := s.spend(total); err != nil {
		s.messages.Push("お金が足りません！")
		return err
	}
	for i := range s.sellers {
		if !s.sellers[i].Sold {
			s.state.Seeds[s.sellers[i].Kind]++
			s.sellers[i].Sold = true
		}
	}
	s.messages.Push(fmt.Sprintf("残りの種をすべて%d円で購入しました。", total))
	s.sink.Click()
	return nil
}

// PlantSeed plants one seed of the given kind into an empty plot. Occupied
// plots and empty inventories are silent no-ops, matching the garden's
// click-driven flow.
func (s *Session) PlantSeed(plotID int, kind catalog.PlantKind) error {
	info := s.catalog.Plant(kind)
	if info == nil {
		return fmt.Errorf("plant kind %q: %w", kind, ErrInvalidTarget)
	}
	plot := s.state.plot(plotID)
	if plot == nil {
		return fmt.Errorf("plot %d: %w", plotID, ErrInvalidTarget)
	}
	if plot.Plant != nil || s.state.Seeds[kind] <= 0 {
		return nil
	}

	s.state.Seeds[kind]--
	plot.Plant = &Plant{
		ID:          uuid.New(),
		Kind:        kind,
		GrowthStage: info.GrowthDays,
		Grown:       false,
		Watered:     s.state.Weather.AutoWaters() || s.state.HasSprinkler,
	}
	s.messages.Push(fmt.Sprintf("%s%sの種を植えました。", info.Glyph, info.Name))

	if s.state.Seeds[kind] <= 0 && s.selectedSeed == kind {
		s.selectedSeed = ""
	}

	s.notifyTutorial(TutorialEvent{Kind: TutorialSeedPlanted, Target: plotID, Seed: kind})
	return nil
}

// WaterPlot waters one plant for its kind's water cost. Empty, grown, and
// already-watered plots are silent no-ops. Rapid repeated calls within the
// debounce window coalesce into one so a plot is never double-charged.
func (s *Session) WaterPlot(plotID int) error {
	if s.now().Before(s.wateringUntil) {
		return nil
	}

	plot := s.state.plot(plotID)
	if plot == nil || plot.Plant == nil || plot.Plant.Grown || plot.Plant.Watered {
		return nil
	}

	info := s.catalog.Plant(plot.Plant.Kind)
	if s.state.Money < info.WaterCost {
		s.messages.Push(fmt.Sprintf("水やりにお金が足りません！ (%d円必要)", info.WaterCost))
		return fmt.Errorf("water %s: %w", plot.Plant.Kind, ErrInsufficientFunds)
	}

	s.wateringUntil = s.now().Add(waterDebounce)
	_ = s.spend(info.WaterCost)
	plot.Plant.Watered = true
	s.messages.Push(fmt.Sprintf("%s%sに%d円で水をやりました。", info.Glyph, info.Name, info.WaterCost))

	s.notifyTutorial(TutorialEvent{Kind: TutorialPlotWatered, Target: plotID})
	return nil
}

// WaterAllEligible waters every unwatered, ungrown plant, paying the summed
// cost once. All-or-nothing on affordability.
func (s *Session) WaterAllEligible() error {
	total := 0
	eligible := 0
	for _, plot := range s.state.Plots {
		if plot.Plant != nil && !plot.Plant.Grown && !plot.Plant.Watered {
			total += s.catalog.Plant(plot.Plant.Kind).WaterCost
			eligible++
		}
	}
	if eligible == 0 {
		s.messages.Push("水やりが必要な植物がありません。")
		return nil
	}

	if err := s.spend(total); err != nil {
		s.messages.Push(fmt.Sprintf("お金が足りません！ (合計 %d円必要)", total))
		return err
	}
	for i := range s.state.Plots {
		p := s.state.Plots[i].Plant
		if p != nil && !p.Grown && !p.Watered {
			p.Watered = true
		}
	}
	s.messages.Push(fmt.Sprintf("%d個の植物にまとめて水をやりました。 (%d円)", eligible, total))
	return nil
}

// NextPlotCost returns the price of the next plot. Costs only ever rise:
// base plus an increment for every plot bought beyond the initial garden.
func (s *Session) NextPlotCost() int {
	t := s.catalog.Tuning
	return t.PlotBaseCost + (len(s.state.Plots)-t.InitialPlotCount)*t.PlotCostIncrement
}

// BuyPlot appends one new plot with the next sequential id.
func (s *Session) BuyPlot() error {
	cost := s.NextPlotCost()
	if err := s.spend(cost); err != nil {
		s.messages.Push("お金が足りません！")
		return err
	}
	s.state.Plots = append(s.state.Plots, Plot{ID: len(s.state.Plots)})
	s.messages.Push(fmt.Sprintf("新しい畑を%d円で購入しました！", cost))
	return nil
}

// PurchaseSprinkler installs the automatic sprinkler. Owning one already is a
// no-op with a notice rather than an error.
func (s *Session) PurchaseSprinkler() error {
	if s.state.HasSprinkler {
		s.messages.Push("スプリンクラーは正常に稼働中です！")
		return nil
	}
	cost := s.catalog.Tuning.SprinklerCost
	if err := s.spend(cost); err != nil {
		s.messages.Push("お金が足りません！")
		return err
	}
	s.state.HasSprinkler = true
	s.messages.Push(fmt.Sprintf("スプリンクラーを %d円 で設置しました！", cost))
	s.sink.Celebrate()
	return nil
}

// SelectForSale is a presentation hook for picking a plant in the buyer view;
// the tutorial gates one step on it.
func (s *Session) SelectForSale(plotID int) {
	s.notifyTutorial(TutorialEvent{Kind: TutorialSaleSelected, Target: plotID})
}

// SellPlants sells every selected plot that holds a grown plant. Earnings,
// XP, cumulative stats, and any newly completed mission rewards land in one
// transaction. An empty or invalid selection is a no-op.
func (s *Session) SellPlants(selection map[int]bool) error {
	s.notifyTutorial(TutorialEvent{Kind: TutorialPlantsSold, Target: -1})

	earnings := 0
	xpGained := 0
	soldCounts := make(map[catalog.PlantKind]int)

	for i := range s.state.Plots {
		plot := &s.state.Plots[i]
		if plot.Plant == nil || !plot.Plant.Grown || !selection[plot.ID] {
			continue
		}
		info := s.catalog.Plant(plot.Plant.Kind)
		earnings += info.SellPrice
		xpGained += info.XP
		soldCounts[plot.Plant.Kind]++
		plot.Plant = nil
	}

	if earnings > 0 {
		s.messages.Push(fmt.Sprintf("%d円で植物を売りました！ %dXPを獲得しました。", earnings, xpGained))

		for kind, count := range soldCounts {
			s.state.PlantStats[kind] += count
		}
		rewards := s.settleMissions()

		xpPerLevel := s.catalog.Tuning.XPPerLevel
		totalXP := s.state.XP + xpGained
		newLevel := s.state.Level + totalXP/xpPerLevel
		if newLevel > s.state.Level {
			s.messages.Push(fmt.Sprintf("レベルアップ！レベル%dになりました！", newLevel))
		}
		s.state.Level = newLevel
		s.state.XP = totalXP % xpPerLevel

		s.state.Money += earnings + rewards
		s.state.MoneyEarnedToday += earnings + rewards
	}

	if s.revisitingBuyer {
		s.revisitingBuyer = false
	} else if s.phase == PhaseBuyerVisit {
		s.phase = PhasePlanting
		s.messages.Push("植物を植えたり、世話をしたりしましょう。")
	}
	return nil
}
