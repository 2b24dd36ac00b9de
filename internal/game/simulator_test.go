package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
)

func TestCloseDayRequiresPlantingPhase(t *testing.T) {
	s := testSession(&entropy.Scripted{})
	s.phase = PhaseSellerVisit

	_, err := s.CloseDay()
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Nil(t, s.Summary())
}

func TestCloseDayProducesSummaryWithoutMutatingState(t *testing.T) {
	rng := &entropy.Scripted{
		Ints:   []int{3},
		Floats: []float64{0.99, 0.99}, // no reduction, no surge
	}
	s := testSession(rng)
	s.state.MoneySpentToday = 120
	s.state.MoneyEarnedToday = 700

	summary, err := s.CloseDay()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.CO2Increased)
	assert.Equal(t, 120, summary.MoneySpent)
	assert.Equal(t, 700, summary.MoneyEarned)
	assert.Empty(t, summary.EventMessage)
	assert.Equal(t, PhaseDailySummary, s.Phase())

	// Closing the day only stages the result.
	assert.Equal(t, 1, s.state.Day)
	assert.Equal(t, 20, s.state.CO2Level)
	assert.Equal(t, 5000, s.state.Money)
}

func TestCloseDaySurgeEvent(t *testing.T) {
	rng := &entropy.Scripted{
		Ints:   []int{4, 2},          // CO2 increase, event flavor index
		Floats: []float64{0.95, 0.1}, // reduction fails, surge fires
	}
	s := testSession(rng)

	summary, err := s.CloseDay()
	require.NoError(t, err)
	assert.Equal(t, 10, summary.CO2Surge)
	assert.Zero(t, summary.CO2BonusReduction)
	assert.Equal(t, surgeEvents[2], summary.EventMessage)
}

func TestCloseDayReductionEvent(t *testing.T) {
	rng := &entropy.Scripted{
		Ints:   []int{2, 8, 1},  // CO2 increase, reduction amount, flavor index
		Floats: []float64{0.05}, // reduction fires; surge never rolled
	}
	s := testSession(rng)

	summary, err := s.CloseDay()
	require.NoError(t, err)
	assert.Equal(t, 8, summary.CO2BonusReduction)
	assert.Zero(t, summary.CO2Surge)
	assert.Equal(t, reductionEvents[1], summary.EventMessage)
}

func TestCloseDayPreviewCreditsMaturingPlants(t *testing.T) {
	rng := &entropy.Scripted{
		Ints:   []int{2},
		Floats: []float64{0.99, 0.99},
	}
	s := testSession(rng)
	plantAt(s, 0, catalog.MorningGlory, 1, false, true) // matures tomorrow: 1%
	plantAt(s, 1, catalog.Tulip, 2, false, true)        // not yet
	plantAt(s, 2, catalog.Violet, 1, false, false)      // unwatered, no credit

	summary, err := s.CloseDay()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CO2Decreased)
	assert.Empty(t, summary.WeatherEvents)
}

func TestCloseDayCloudStallPreview(t *testing.T) {
	rng := &entropy.Scripted{
		Ints:   []int{2},
		Floats: []float64{0.99, 0.99, 0.2}, // no event; stall roll hits
	}
	s := testSession(rng)
	s.state.Weather = catalog.Cloudy
	plantAt(s, 0, catalog.MorningGlory, 1, false, true)

	summary, err := s.CloseDay()
	require.NoError(t, err)
	assert.Zero(t, summary.CO2Decreased)
	assert.Contains(t, summary.WeatherEvents, "アサガオ")
	assert.True(t, strings.HasSuffix(summary.WeatherEvents, "。"))
}

func TestCommitDayRequiresPendingSummary(t *testing.T) {
	s := testSession(&entropy.Scripted{})
	assert.ErrorIs(t, s.CommitDay(), ErrInvalidTarget)
}

func TestCommitDayGrowthAndRollover(t *testing.T) {
	rng := &entropy.Scripted{
		Ints: []int{3, 300, 300, 300},
		Floats: []float64{
			0.99, 0.99, // no daily event
			0.1,           // tomorrow: sunny
			0.1, 0.1, 0.1, // seller cohort picks
		},
	}
	s := testSession(rng)
	s.state.MoneySpentToday = 50
	s.state.MoneyEarnedToday = 900
	plantAt(s, 0, catalog.MorningGlory, 1, false, true)

	_, err := s.CloseDay()
	require.NoError(t, err)
	require.NoError(t, s.CommitDay())

	assert.Equal(t, 2, s.state.Day)
	assert.Equal(t, catalog.Sunny, s.state.Weather)
	assert.Equal(t, 22, s.state.CO2Level, "20 + 3 increase - 1 harvest credit")

	plant := s.state.plot(0).Plant
	require.NotNil(t, plant)
	assert.True(t, plant.Grown)
	assert.Equal(t, 0, plant.GrowthStage)
	assert.False(t, plant.Watered, "sunny morning leaves plants dry")

	assert.Equal(t, 0, s.state.MoneySpentToday)
	assert.Equal(t, 0, s.state.MoneyEarnedToday)
	assert.Equal(t, PhaseSellerVisit, s.Phase())
	assert.Len(t, s.Sellers(), 3)
	assert.Nil(t, s.Summary(), "the summary is consumed")
	assert.ErrorIs(t, s.CommitDay(), ErrInvalidTarget)
}

func TestCommitDayStormDamageResetsGrowth(t *testing.T) {
	rng := &entropy.Scripted{
		Ints: []int{2, 300, 300, 300},
		Floats: []float64{
			0.99, 0.99, // no daily event
			0.99,          // preview storm roll misses
			0.1,           // tomorrow: sunny
			0.1,           // commit storm roll hits
			0.1, 0.1, 0.1, // seller cohort picks
		},
	}
	s := testSession(rng)
	s.state.Weather = catalog.Stormy
	plantAt(s, 0, catalog.Tulip, 1, false, true)

	summary, err := s.CloseDay()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.CO2Decreased, "the preview credited the harvest")

	require.NoError(t, s.CommitDay())

	plant := s.state.plot(0).Plant
	require.NotNil(t, plant)
	assert.False(t, plant.Grown)
	assert.Equal(t, 2, plant.GrowthStage, "storm damage restarts growth from scratch")
	assert.Contains(t, strings.Join(s.Messages(), "\n"), "嵐")
}

func TestCommitDayCloudStallSkipsGrowth(t *testing.T) {
	rng := &entropy.Scripted{
		Ints: []int{2, 300, 300, 300},
		Floats: []float64{
			0.99, 0.99, // no daily event
			0.99,          // preview stall roll misses
			0.1,           // tomorrow: sunny
			0.2,           // commit stall roll hits
			0.1, 0.1, 0.1, // seller cohort picks
		},
	}
	s := testSession(rng)
	s.state.Weather = catalog.Cloudy
	plantAt(s, 0, catalog.MorningGlory, 1, false, true)

	_, err := s.CloseDay()
	require.NoError(t, err)
	require.NoError(t, s.CommitDay())

	plant := s.state.plot(0).Plant
	assert.False(t, plant.Grown)
	assert.Equal(t, 1, plant.GrowthStage)
}

func TestCommitDayRainWatersEverything(t *testing.T) {
	rng := &entropy.Scripted{
		Ints: []int{2, 300, 300, 300},
		Floats: []float64{
			0.99, 0.99, // no daily event
			0.80,          // tomorrow: rainy (cumulative 0.50+0.25 < 0.80 < 0.95)
			0.1, 0.1, 0.1, // seller cohort picks
		},
	}
	s := testSession(rng)
	plantAt(s, 0, catalog.Tulip, 2, false, true)
	plantAt(s, 1, catalog.Violet, 3, false, false)

	_, err := s.CloseDay()
	require.NoError(t, err)
	require.NoError(t, s.CommitDay())

	assert.Equal(t, catalog.Rainy, s.state.Weather)
	assert.True(t, s.state.plot(0).Plant.Watered)
	assert.True(t, s.state.plot(1).Plant.Watered)
	assert.Contains(t, strings.Join(s.Messages(), "\n"), "雨のおかげで")
}

func TestCommitDaySprinklerUpkeep(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		rng := &entropy.Scripted{
			Ints:   []int{2, 300, 300, 300},
			Floats: []float64{0.99, 0.99, 0.1, 0.1, 0.1, 0.1},
		}
		s := testSession(rng)
		s.state.HasSprinkler = true
		s.state.Money = 500
		plantAt(s, 0, catalog.Tulip, 2, false, false)

		_, err := s.CloseDay()
		require.NoError(t, err)
		require.NoError(t, s.CommitDay())

		assert.Equal(t, 300, s.state.Money)
		assert.Equal(t, 200, s.state.MoneySpentToday, "upkeep counts against the new day")
		assert.True(t, s.state.plot(0).Plant.Watered)
	})

	t.Run("shortfall skips watering, never goes negative", func(t *testing.T) {
		rng := &entropy.Scripted{
			Ints:   []int{2, 300, 300, 300},
			Floats: []float64{0.99, 0.99, 0.1, 0.1, 0.1, 0.1},
		}
		s := testSession(rng)
		s.state.HasSprinkler = true
		s.state.Money = 100
		plantAt(s, 0, catalog.Tulip, 2, false, false)

		_, err := s.CloseDay()
		require.NoError(t, err)
		require.NoError(t, s.CommitDay())

		assert.Equal(t, 100, s.state.Money)
		assert.Equal(t, 0, s.state.MoneySpentToday)
		assert.False(t, s.state.plot(0).Plant.Watered)
		assert.Contains(t, strings.Join(s.Messages(), "\n"), "維持費を払えませんでした")
	})
}

func TestCommitDayThresholdWarningsMostSevereFirst(t *testing.T) {
	rng := &entropy.Scripted{
		Ints: []int{5, 0, 300, 300, 300}, // increase, flavor index, prices
		Floats: []float64{
			0.95, 0.05, // reduction fails, surge fires (+10)
			0.1,           // tomorrow: sunny
			0.1, 0.1, 0.1, // seller cohort picks
		},
	}
	s := testSession(rng)
	s.state.CO2Level = 79

	_, err := s.CloseDay()
	require.NoError(t, err)
	require.NoError(t, s.CommitDay())

	assert.Equal(t, 94, s.state.CO2Level)
	msgs := s.Messages()
	require.Len(t, msgs, 5)
	// Newest first: weather, day, event, then the warnings with 90% above 80%.
	assert.Contains(t, msgs[3], "90%")
	assert.Contains(t, msgs[4], "80%")
}

func TestCommitDayGameOverOnMaxCO2(t *testing.T) {
	rng := &entropy.Scripted{
		Ints:   []int{5, 300, 300, 300},
		Floats: []float64{0.99, 0.99, 0.1, 0.1, 0.1, 0.1},
	}
	s := testSession(rng)
	s.state.CO2Level = 96

	_, err := s.CloseDay()
	require.NoError(t, err)
	require.NoError(t, s.CommitDay())

	assert.Equal(t, 100, s.state.CO2Level, "clamped at the maximum")
	assert.Equal(t, PhaseGameOver, s.Phase(), "the terminal phase overrides morning routing")
}

func TestCommitDayCO2NeverNegative(t *testing.T) {
	rng := &entropy.Scripted{
		Ints: []int{2, 10, 1, 300, 300, 300}, // increase, reduction amount, flavor, prices
		Floats: []float64{
			0.05,          // reduction event fires
			0.1,           // tomorrow: sunny
			0.1, 0.1, 0.1, // seller cohort picks
		},
	}
	s := testSession(rng)
	s.state.CO2Level = 3

	_, err := s.CloseDay()
	require.NoError(t, err)
	require.NoError(t, s.CommitDay())

	assert.Equal(t, 0, s.state.CO2Level)
	assert.NotEqual(t, PhaseGameOver, s.Phase())
}

func TestCloseSellerVisitRouting(t *testing.T) {
	t.Run("ordinary day goes to planting", func(t *testing.T) {
		s := testSession(&entropy.Scripted{})
		s.phase = PhaseSellerVisit
		s.CloseSellerVisit()
		assert.Equal(t, PhasePlanting, s.Phase())
	})

	t.Run("every third day brings the buyer", func(t *testing.T) {
		s := testSession(&entropy.Scripted{})
		s.phase = PhaseSellerVisit
		s.state.Day = 3
		s.CloseSellerVisit()
		assert.Equal(t, PhaseBuyerVisit, s.Phase())
		assert.Contains(t, s.Messages()[0], "買いに来る人")
	})

	t.Run("revisit close is view-only", func(t *testing.T) {
		s := testSession(&entropy.Scripted{})
		s.state.Day = 3
		s.OpenSellerRevisit()
		s.CloseSellerVisit()
		assert.Equal(t, PhasePlanting, s.Phase())
	})
}

func TestGeneratedSellersRespectLevelGates(t *testing.T) {
	s := testSession(entropy.NewSeeded(11))
	s.generateSellers(1)

	require.Len(t, s.sellers, 3)
	for _, offer := range s.sellers {
		info := s.catalog.Plant(offer.Kind)
		require.NotNil(t, info)
		assert.Equal(t, catalog.ChannelPurchasable, info.Channel)
		assert.LessOrEqual(t, info.UnlockLevel, 1)
		assert.GreaterOrEqual(t, offer.Price, info.SeedPriceMin)
		assert.LessOrEqual(t, offer.Price, info.SeedPriceMax)
		assert.False(t, offer.Sold)
	}
}
