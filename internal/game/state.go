// Package game implements the daily-cycle simulation engine: the shared game
// state, the economy, growth and weather, breeding, missions, and the phase
// and tutorial coordination that sequences them.
package game

import (
	"github.com/google/uuid"

	"github.com/talgya/green-world/internal/catalog"
)

// Phase is the session phase driving which player actions are meaningful.
type Phase string

const (
	PhaseWelcome      Phase = "WELCOME"
	PhaseSellerVisit  Phase = "SELLER_VISIT"
	PhaseBuyerVisit   Phase = "BUYER_VISIT"
	PhasePlanting     Phase = "PLANTING"
	PhaseDailySummary Phase = "DAILY_SUMMARY"
	PhaseGameOver     Phase = "GAME_OVER"
)

// Plant is a growing (or grown) plant occupying one plot.
type Plant struct {
	ID          uuid.UUID         `json:"id"`
	Kind        catalog.PlantKind `json:"kind"`
	GrowthStage int               `json:"growth_stage"` // days remaining; 0 means grown
	Grown       bool              `json:"grown"`
	Watered     bool              `json:"watered"`
}

// Plot is a garden slot. Plots are append-only: ids are stable indexes, never
// reused or removed.
type Plot struct {
	ID    int    `json:"id"`
	Plant *Plant `json:"plant,omitempty"`
}

// Seller is one seed offer in the current cohort. Cohorts are transient and
// regenerated each seller-visit phase.
type Seller struct {
	ID    int               `json:"id"`
	Kind  catalog.PlantKind `json:"kind"`
	Price int               `json:"price"`
	Sold  bool              `json:"sold"`
}

// MissionStatus records one-time mission completion. Once completed it never
// reverts.
type MissionStatus struct {
	Completed bool `json:"completed"`
}

// GameState is the central aggregate. It is owned by the Session and mutated
// only through the Session's operations.
type GameState struct {
	Day              int                       `json:"day"`
	Money            int                       `json:"money"`
	CO2Level         int                       `json:"co2_level"`
	Level            int                       `json:"level"`
	XP               int                       `json:"xp"`
	Seeds            map[catalog.PlantKind]int `json:"seeds"`
	Plots            []Plot                    `json:"plots"`
	MoneySpentToday  int                       `json:"money_spent_today"`
	MoneyEarnedToday int                       `json:"money_earned_today"`
	PlantStats       map[catalog.PlantKind]int `json:"plant_stats"` // cumulative sold counts, never reset
	MissionProgress  map[string]MissionStatus  `json:"mission_progress"`
	Genes            map[catalog.PlantKind]int `json:"genes"` // keyed by plant kind, not gene category
	Weather          catalog.WeatherKind       `json:"weather"`
	HasSprinkler     bool                      `json:"has_sprinkler"`
}

// DailySummary is the transient preview created when a day closes. It exists
// only between CloseDay and CommitDay and is consumed exactly once.
type DailySummary struct {
	CO2Increased      int    `json:"co2_increased"`
	CO2Decreased      int    `json:"co2_decreased"`
	MoneySpent        int    `json:"money_spent"`
	MoneyEarned       int    `json:"money_earned"`
	EventMessage      string `json:"event_message,omitempty"`
	CO2Surge          int    `json:"co2_surge,omitempty"` // exclusive with bonus reduction
	CO2BonusReduction int    `json:"co2_bonus_reduction,omitempty"`
	WeatherEvents     string `json:"weather_events,omitempty"` // joined narrative, empty when none
}

// NewGameState builds a fresh day-1 state from the catalog tuning.
func NewGameState(c *catalog.Catalog) *GameState {
	seeds := make(map[catalog.PlantKind]int, len(c.Plants))
	stats := make(map[catalog.PlantKind]int, len(c.Plants))
	genes := make(map[catalog.PlantKind]int, len(c.Plants))
	for _, kind := range c.Kinds() {
		seeds[kind] = 0
		stats[kind] = 0
		genes[kind] = 0
	}

	plots := make([]Plot, c.Tuning.InitialPlotCount)
	for i := range plots {
		plots[i] = Plot{ID: i}
	}

	return &GameState{
		Day:             1,
		Money:           c.Tuning.InitialMoney,
		CO2Level:        c.Tuning.InitialCO2,
		Level:           1,
		XP:              0,
		Seeds:           seeds,
		Plots:           plots,
		PlantStats:      stats,
		MissionProgress: make(map[string]MissionStatus),
		Genes:           genes,
		Weather:         catalog.Sunny,
		HasSprinkler:    false,
	}
}

// plot returns the plot with the given id, or nil.
func (gs *GameState) plot(id int) *Plot {
	for i := range gs.Plots {
		if gs.Plots[i].ID == id {
			return &gs.Plots[i]
		}
	}
	return nil
}

// GrownCount returns how many plots hold a grown plant.
func (gs *GameState) GrownCount() int {
	n := 0
	for _, p := range gs.Plots {
		if p.Plant != nil && p.Plant.Grown {
			n++
		}
	}
	return n
}
