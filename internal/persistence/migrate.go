package persistence

import (
	"log/slog"

	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/game"
)

// legacyPurpleTulip is the plant-kind key the purple tulip was saved under
// before its rename. Loads merge its historical data into the current key.
const legacyPurpleTulip = "violet_tulip"

// migrateBundle upgrades an older save in place: renamed plant-kind keys,
// the retired gene-category gene schema, and missing fields introduced after
// the save was written.
func migrateBundle(b *game.Bundle, c *catalog.Catalog) {
	gs := b.GameState

	mergeLegacyKind(gs.Seeds)
	mergeLegacyKind(gs.PlantStats)
	mergeLegacyKind(gs.Genes)
	for i := range gs.Plots {
		if gs.Plots[i].Plant != nil && string(gs.Plots[i].Plant.Kind) == legacyPurpleTulip {
			gs.Plots[i].Plant.Kind = catalog.PurpleTulip
		}
	}
	for i := range b.Sellers {
		if string(b.Sellers[i].Kind) == legacyPurpleTulip {
			b.Sellers[i].Kind = catalog.PurpleTulip
		}
	}

	// The gene inventory used to be keyed by gene category. That stock cannot
	// be mapped onto plant kinds, so it resets.
	if isCategoryKeyedGenes(gs.Genes) {
		slog.Info("resetting gene inventory saved under retired category schema")
		gs.Genes = nil
	}

	// Baselines for fields absent from older saves. Per-plot watered flags
	// default to false via JSON decoding.
	if gs.Weather == "" {
		gs.Weather = catalog.Sunny
	}
	if gs.Plots == nil {
		fresh := game.NewGameState(c)
		gs.Plots = fresh.Plots
	}
	if gs.MissionProgress == nil {
		gs.MissionProgress = make(map[string]game.MissionStatus)
	}
	gs.Seeds = withAllKinds(gs.Seeds, c)
	gs.PlantStats = withAllKinds(gs.PlantStats, c)
	gs.Genes = withAllKinds(gs.Genes, c)
}

// mergeLegacyKind folds counts stored under the legacy key into the current
// one and drops the legacy entry.
func mergeLegacyKind(m map[catalog.PlantKind]int) {
	if m == nil {
		return
	}
	old := catalog.PlantKind(legacyPurpleTulip)
	if n, ok := m[old]; ok {
		m[catalog.PurpleTulip] += n
		delete(m, old)
	}
}

// isCategoryKeyedGenes detects the retired schema where genes were keyed by
// gene category instead of plant kind.
func isCategoryKeyedGenes(genes map[catalog.PlantKind]int) bool {
	for key := range genes {
		for _, cat := range catalog.GeneCategories() {
			if string(key) == string(cat) {
				return true
			}
		}
	}
	return false
}

// withAllKinds returns the map with every catalog kind present, keeping
// existing counts and dropping keys the catalog no longer knows.
func withAllKinds(m map[catalog.PlantKind]int, c *catalog.Catalog) map[catalog.PlantKind]int {
	out := make(map[catalog.PlantKind]int, len(c.Plants))
	for _, kind := range c.Kinds() {
		out[kind] = m[kind]
	}
	return out
}
