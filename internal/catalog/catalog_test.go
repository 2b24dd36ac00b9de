package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestPlantLookup(t *testing.T) {
	c := Default()
	p := c.Plant(MorningGlory)
	require.NotNil(t, p)
	assert.Equal(t, "アサガオ", p.Name)
	assert.Equal(t, 1, p.GrowthDays)

	assert.Nil(t, c.Plant("dandelion"))
}

func TestPurchasableAtFiltersByLevelAndChannel(t *testing.T) {
	c := Default()

	atOne := c.PurchasableAt(1)
	kinds := make(map[PlantKind]bool)
	for _, p := range atOne {
		kinds[p.Kind] = true
	}
	assert.True(t, kinds[MorningGlory])
	assert.True(t, kinds[Tulip])
	assert.True(t, kinds[Violet])
	assert.False(t, kinds[Sunflower], "sunflower unlocks at level 5")
	assert.False(t, kinds[PurpleMorningGlory], "breed-only kinds never appear")

	atFive := c.PurchasableAt(5)
	kinds = make(map[PlantKind]bool)
	for _, p := range atFive {
		kinds[p.Kind] = true
	}
	assert.True(t, kinds[Sunflower])
	assert.True(t, kinds[Rose])
	assert.True(t, kinds[Cactus])
	assert.False(t, kinds[PurpleTulip], "breed-only even at high level")
}

func TestRecipeLookupIsOrderSensitive(t *testing.T) {
	c := Default()

	result, ok := c.RecipeFor(MorningGlory, Tulip)
	require.True(t, ok)
	assert.Equal(t, PurpleMorningGlory, result)

	result, ok = c.RecipeFor(Tulip, MorningGlory)
	require.True(t, ok)
	assert.Equal(t, PurpleTulip, result)

	_, ok = c.RecipeFor(Violet, Cactus)
	assert.False(t, ok)
}

func TestWeatherAutoWaters(t *testing.T) {
	assert.False(t, Sunny.AutoWaters())
	assert.False(t, Cloudy.AutoWaters())
	assert.True(t, Rainy.AutoWaters())
	assert.True(t, Stormy.AutoWaters())
}

func TestValidateRejectsBadData(t *testing.T) {
	t.Run("duplicate kind", func(t *testing.T) {
		c := Default()
		c.Plants = append(c.Plants, Plant{Kind: MorningGlory, Channel: ChannelPurchasable, GrowthDays: 1})
		assert.Error(t, c.Validate())
	})

	t.Run("inverted price range", func(t *testing.T) {
		c := Default()
		c.Plants[0].SeedPriceMin = 500
		c.Plants[0].SeedPriceMax = 100
		assert.Error(t, c.Validate())
	})

	t.Run("recipe references unknown kind", func(t *testing.T) {
		c := Default()
		c.Recipes = append(c.Recipes, Recipe{First: "dandelion", Second: Tulip, Result: Rose})
		assert.Error(t, c.Validate())
	})

	t.Run("mission with zero target", func(t *testing.T) {
		c := Default()
		c.Missions[0].Target = 0
		assert.Error(t, c.Validate())
	})

	t.Run("zero buyer visit frequency", func(t *testing.T) {
		c := Default()
		c.Tuning.BuyerVisitFrequency = 0
		assert.Error(t, c.Validate())
	})

	t.Run("zero max co2", func(t *testing.T) {
		c := Default()
		c.Tuning.MaxCO2 = 0
		assert.Error(t, c.Validate())
	})
}

func TestLoadOverlay(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 5000, c.Tuning.InitialMoney)
	})

	t.Run("tuning section replaces wholesale", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		overlay := `
tuning:
  initial_money: 9999
  initial_co2: 10
  max_co2: 100
  min_daily_co2_increase: 1
  max_daily_co2_increase: 2
  initial_plot_count: 4
  buyer_visit_frequency: 2
  plot_base_cost: 500
  plot_cost_increment: 250
  xp_per_level: 50
  seller_cohort_size: 2
  sprinkler_cost: 1000
  sprinkler_upkeep: 50
`
		require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9999, c.Tuning.InitialMoney)
		assert.Equal(t, 2, c.Tuning.SellerCohortSize)
		// Plants untouched by a tuning-only overlay.
		assert.Len(t, c.Plants, len(Default().Plants))
	})

	// A tuning overlay replaces the whole block, so one that leaves out
	// buyer_visit_frequency would hand the engine a zero divisor.
	t.Run("tuning overlay missing buyer visit frequency rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		overlay := `
tuning:
  initial_money: 9999
  initial_co2: 10
  max_co2: 100
  min_daily_co2_increase: 1
  max_daily_co2_increase: 2
  initial_plot_count: 4
  plot_base_cost: 500
  plot_cost_increment: 250
  xp_per_level: 50
  seller_cohort_size: 2
`
		require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid overlay rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		overlay := `
plants:
  - kind: weed
    channel: purchasable
    growth_days: 0
`
		require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
