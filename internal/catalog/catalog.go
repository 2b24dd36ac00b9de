// Package catalog holds the static game data: plant definitions, weather
// definitions, gene recipes, missions, and numeric tuning. The engine treats
// all of it as data so balancing changes never touch engine logic.
package catalog

import "fmt"

// PlantKind identifies a plant species. Keys are stable save-file identifiers;
// display names are presentation content.
type PlantKind string

const (
	MorningGlory       PlantKind = "morning_glory"
	Tulip              PlantKind = "tulip"
	Violet             PlantKind = "violet"
	Sunflower          PlantKind = "sunflower"
	Rose               PlantKind = "rose"
	Cactus             PlantKind = "cactus"
	PurpleMorningGlory PlantKind = "purple_morning_glory"
	PurpleTulip        PlantKind = "purple_tulip"
)

// GeneCategory is the breeding color a plant contributes.
type GeneCategory string

const (
	GeneRed    GeneCategory = "red"
	GeneBlue   GeneCategory = "blue"
	GeneYellow GeneCategory = "yellow"
	GenePurple GeneCategory = "purple"
	GeneGreen  GeneCategory = "green"
)

// WeatherKind identifies a daily weather state.
type WeatherKind string

const (
	Sunny  WeatherKind = "sunny"
	Cloudy WeatherKind = "cloudy"
	Rainy  WeatherKind = "rainy"
	Stormy WeatherKind = "stormy"
)

// Channel tags how a plant can be acquired. Breed-only kinds never appear in
// seller cohorts and carry no seed price range.
type Channel string

const (
	ChannelPurchasable Channel = "purchasable"
	ChannelBreedOnly   Channel = "breed-only"
)

// Plant is one static plant definition.
type Plant struct {
	Kind         PlantKind    `yaml:"kind"`
	Name         string       `yaml:"name"`
	Glyph        string       `yaml:"glyph"`
	Channel      Channel      `yaml:"channel"`
	SeedPriceMin int          `yaml:"seed_price_min"`
	SeedPriceMax int          `yaml:"seed_price_max"`
	SellPrice    int          `yaml:"sell_price"`
	GrowthDays   int          `yaml:"growth_days"`
	CO2Reduction int          `yaml:"co2_reduction"`
	XP           int          `yaml:"xp"`
	SellerWeight float64      `yaml:"seller_weight"`
	UnlockLevel  int          `yaml:"unlock_level"` // 0 = available from the start
	Gene         GeneCategory `yaml:"gene"`         // "" = no gene to extract
	WaterCost    int          `yaml:"water_cost"`
}

// Weather is one static weather definition. Weights need not sum to 1;
// selection normalizes by the total.
type Weather struct {
	Kind   WeatherKind `yaml:"kind"`
	Name   string      `yaml:"name"`
	Glyph  string      `yaml:"glyph"`
	Weight float64     `yaml:"weight"`
}

// AutoWaters reports whether this weather waters every plant for free.
func (w WeatherKind) AutoWaters() bool {
	return w == Rainy || w == Stormy
}

// Recipe maps an ordered pair of gene donors to the hybrid seed they produce.
type Recipe struct {
	First  PlantKind `yaml:"first"`
	Second PlantKind `yaml:"second"`
	Result PlantKind `yaml:"result"`
}

// Mission is a one-time cumulative-harvest goal.
type Mission struct {
	ID     string    `yaml:"id"`
	Title  string    `yaml:"title"`
	Kind   PlantKind `yaml:"kind"`
	Target int       `yaml:"target"`
	Reward int       `yaml:"reward"`
}

// Tuning holds every numeric knob the engine consumes.
type Tuning struct {
	InitialMoney        int     `yaml:"initial_money"`
	InitialCO2          int     `yaml:"initial_co2"`
	MaxCO2              int     `yaml:"max_co2"`
	MinDailyCO2Increase int     `yaml:"min_daily_co2_increase"`
	MaxDailyCO2Increase int     `yaml:"max_daily_co2_increase"`
	InitialPlotCount    int     `yaml:"initial_plot_count"`
	BuyerVisitFrequency int     `yaml:"buyer_visit_frequency"`
	PlotUnlockLevel     int     `yaml:"plot_unlock_level"`
	PlotBaseCost        int     `yaml:"plot_base_cost"`
	PlotCostIncrement   int     `yaml:"plot_cost_increment"`
	BreedingUnlockLevel int     `yaml:"breeding_unlock_level"`
	SprinklerUnlock     int     `yaml:"sprinkler_unlock_level"`
	SprinklerCost       int     `yaml:"sprinkler_cost"`
	SprinklerUpkeep     int     `yaml:"sprinkler_upkeep"`
	XPPerLevel          int     `yaml:"xp_per_level"`
	SellerCohortSize    int     `yaml:"seller_cohort_size"`
	SurgeChance         float64 `yaml:"surge_chance"`
	SurgeAmount         int     `yaml:"surge_amount"`
	ReductionChance     float64 `yaml:"reduction_chance"`
	ReductionMin        int     `yaml:"reduction_min"`
	ReductionMax        int     `yaml:"reduction_max"`
	CloudStallChance    float64 `yaml:"cloud_stall_chance"`
	StormDamageChance   float64 `yaml:"storm_damage_chance"`
}

// Catalog bundles all static data consumed by the engine.
type Catalog struct {
	Plants   []Plant   `yaml:"plants"`
	Weather  []Weather `yaml:"weather"`
	Recipes  []Recipe  `yaml:"recipes"`
	Missions []Mission `yaml:"missions"`
	Tuning   Tuning    `yaml:"tuning"`

	plantIndex  map[PlantKind]*Plant
	recipeIndex map[[2]PlantKind]PlantKind
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := &Catalog{
		Plants: []Plant{
			{Kind: MorningGlory, Name: "アサガオ", Glyph: "🌺", Channel: ChannelPurchasable,
				SeedPriceMin: 200, SeedPriceMax: 500, SellPrice: 400, GrowthDays: 1,
				CO2Reduction: 1, XP: 10, SellerWeight: 0.50, Gene: GeneBlue, WaterCost: 30},
			{Kind: Tulip, Name: "チューリップ", Glyph: "🌷", Channel: ChannelPurchasable,
				SeedPriceMin: 300, SeedPriceMax: 700, SellPrice: 700, GrowthDays: 2,
				CO2Reduction: 3, XP: 20, SellerWeight: 0.35, Gene: GeneRed, WaterCost: 50},
			{Kind: Violet, Name: "スミレ", Glyph: "🪻", Channel: ChannelPurchasable,
				SeedPriceMin: 500, SeedPriceMax: 1000, SellPrice: 1000, GrowthDays: 3,
				CO2Reduction: 4, XP: 30, SellerWeight: 0.15, Gene: GenePurple, WaterCost: 70},
			{Kind: Sunflower, Name: "ひまわり", Glyph: "🌻", Channel: ChannelPurchasable,
				SeedPriceMin: 1000, SeedPriceMax: 1300, SellPrice: 1600, GrowthDays: 2,
				CO2Reduction: 5, XP: 50, SellerWeight: 0.15, UnlockLevel: 5, Gene: GeneYellow, WaterCost: 100},
			{Kind: Rose, Name: "バラ", Glyph: "🌹", Channel: ChannelPurchasable,
				SeedPriceMin: 4000, SeedPriceMax: 4000, SellPrice: 10000, GrowthDays: 7,
				CO2Reduction: 3, XP: 150, SellerWeight: 0.05, UnlockLevel: 5, Gene: GeneRed, WaterCost: 140},
			{Kind: Cactus, Name: "サボテン", Glyph: "🌵", Channel: ChannelPurchasable,
				SeedPriceMin: 1500, SeedPriceMax: 2000, SellPrice: 2200, GrowthDays: 4,
				CO2Reduction: 7, XP: 80, SellerWeight: 0.08, UnlockLevel: 5, Gene: GeneGreen, WaterCost: 15},
			{Kind: PurpleMorningGlory, Name: "紫のアサガオ", Glyph: "⚜️", Channel: ChannelBreedOnly,
				SellPrice: 2000, GrowthDays: 2, CO2Reduction: 6, XP: 100, Gene: GenePurple, WaterCost: 80},
			{Kind: PurpleTulip, Name: "紫色のチューリップ", Glyph: "🌷", Channel: ChannelBreedOnly,
				SellPrice: 2500, GrowthDays: 3, CO2Reduction: 5, XP: 120, Gene: GenePurple, WaterCost: 90},
		},
		Weather: []Weather{
			{Kind: Sunny, Name: "晴れ", Glyph: "☀️", Weight: 0.50},
			{Kind: Cloudy, Name: "曇り", Glyph: "☁️", Weight: 0.25},
			{Kind: Rainy, Name: "雨", Glyph: "🌧️", Weight: 0.20},
			{Kind: Stormy, Name: "嵐", Glyph: "⛈️", Weight: 0.05},
		},
		Recipes: []Recipe{
			{First: MorningGlory, Second: Tulip, Result: PurpleMorningGlory},
			{First: Tulip, Second: MorningGlory, Result: PurpleTulip},
		},
		Missions: []Mission{
			{ID: "morning_glory_1", Title: "アサガオを10回収穫", Kind: MorningGlory, Target: 10, Reward: 1500},
			{ID: "tulip_1", Title: "チューリップを10回収穫", Kind: Tulip, Target: 10, Reward: 2000},
			{ID: "violet_1", Title: "スミレを10回収穫", Kind: Violet, Target: 10, Reward: 3000},
			{ID: "sunflower_1", Title: "ひまわりを5回収穫", Kind: Sunflower, Target: 5, Reward: 5000},
			{ID: "cactus_1", Title: "サボテンを5回収穫", Kind: Cactus, Target: 5, Reward: 7500},
			{ID: "rose_1", Title: "バラを3回収穫", Kind: Rose, Target: 3, Reward: 10000},
		},
		Tuning: Tuning{
			InitialMoney:        5000,
			InitialCO2:          20,
			MaxCO2:              100,
			MinDailyCO2Increase: 2,
			MaxDailyCO2Increase: 5,
			InitialPlotCount:    9,
			BuyerVisitFrequency: 3,
			PlotUnlockLevel:     3,
			PlotBaseCost:        1000,
			PlotCostIncrement:   500,
			BreedingUnlockLevel: 5,
			SprinklerUnlock:     4,
			SprinklerCost:       5000,
			SprinklerUpkeep:     200,
			XPPerLevel:          100,
			SellerCohortSize:    3,
			SurgeChance:         0.20,
			SurgeAmount:         10,
			ReductionChance:     0.10,
			ReductionMin:        5,
			ReductionMax:        10,
			CloudStallChance:    0.5,
			StormDamageChance:   0.3,
		},
	}
	c.reindex()
	return c
}

func (c *Catalog) reindex() {
	c.plantIndex = make(map[PlantKind]*Plant, len(c.Plants))
	for i := range c.Plants {
		c.plantIndex[c.Plants[i].Kind] = &c.Plants[i]
	}
	c.recipeIndex = make(map[[2]PlantKind]PlantKind, len(c.Recipes))
	for _, r := range c.Recipes {
		c.recipeIndex[[2]PlantKind{r.First, r.Second}] = r.Result
	}
}

// Plant returns the definition for a kind, or nil if unknown.
func (c *Catalog) Plant(kind PlantKind) *Plant {
	return c.plantIndex[kind]
}

// Kinds returns every plant kind in catalog order.
func (c *Catalog) Kinds() []PlantKind {
	kinds := make([]PlantKind, len(c.Plants))
	for i, p := range c.Plants {
		kinds[i] = p.Kind
	}
	return kinds
}

// PurchasableAt returns the kinds a seller may offer to a player of the given
// level, in catalog order.
func (c *Catalog) PurchasableAt(level int) []Plant {
	var out []Plant
	for _, p := range c.Plants {
		if p.Channel != ChannelPurchasable {
			continue
		}
		if p.UnlockLevel > 0 && level < p.UnlockLevel {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WeatherDef returns the definition for a weather kind, or nil if unknown.
func (c *Catalog) WeatherDef(kind WeatherKind) *Weather {
	for i := range c.Weather {
		if c.Weather[i].Kind == kind {
			return &c.Weather[i]
		}
	}
	return nil
}

// RecipeFor looks up the hybrid produced by the ordered donor pair.
func (c *Catalog) RecipeFor(first, second PlantKind) (PlantKind, bool) {
	result, ok := c.recipeIndex[[2]PlantKind{first, second}]
	return result, ok
}

// GeneCategories returns the set of known gene categories. Persistence uses it
// to detect gene inventories saved under the retired category-keyed schema.
func GeneCategories() []GeneCategory {
	return []GeneCategory{GeneRed, GeneBlue, GeneYellow, GenePurple, GeneGreen}
}

// Validate checks catalog consistency: unique kinds, resolvable recipes and
// missions, sane price ranges.
func (c *Catalog) Validate() error {
	seen := make(map[PlantKind]bool, len(c.Plants))
	for _, p := range c.Plants {
		if seen[p.Kind] {
			return fmt.Errorf("duplicate plant kind %q", p.Kind)
		}
		seen[p.Kind] = true
		if p.GrowthDays < 1 {
			return fmt.Errorf("plant %q: growth days must be at least 1", p.Kind)
		}
		if p.Channel == ChannelPurchasable && p.SeedPriceMin > p.SeedPriceMax {
			return fmt.Errorf("plant %q: seed price range inverted", p.Kind)
		}
		if p.Channel == ChannelBreedOnly && (p.SeedPriceMin != 0 || p.SeedPriceMax != 0) {
			return fmt.Errorf("plant %q: breed-only kinds carry no seed price", p.Kind)
		}
	}
	for _, r := range c.Recipes {
		if !seen[r.First] || !seen[r.Second] || !seen[r.Result] {
			return fmt.Errorf("recipe %s+%s=%s references unknown kind", r.First, r.Second, r.Result)
		}
	}
	for _, m := range c.Missions {
		if !seen[m.Kind] {
			return fmt.Errorf("mission %q targets unknown kind %q", m.ID, m.Kind)
		}
		if m.Target < 1 {
			return fmt.Errorf("mission %q: target must be positive", m.ID)
		}
	}
	total := 0.0
	for _, w := range c.Weather {
		if w.Weight < 0 {
			return fmt.Errorf("weather %q: negative weight", w.Kind)
		}
		total += w.Weight
	}
	if total <= 0 {
		return fmt.Errorf("weather weights sum to zero")
	}
	if c.Tuning.XPPerLevel < 1 {
		return fmt.Errorf("xp per level must be positive")
	}
	if c.Tuning.SellerCohortSize < 1 {
		return fmt.Errorf("seller cohort size must be positive")
	}
	if c.Tuning.BuyerVisitFrequency < 1 {
		return fmt.Errorf("buyer visit frequency must be positive")
	}
	if c.Tuning.MaxCO2 < 1 {
		return fmt.Errorf("max co2 must be positive")
	}
	return nil
}
