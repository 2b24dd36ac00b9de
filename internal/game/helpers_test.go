package game

import (
	"time"

	"github.com/talgya/green-world/internal/audio"
	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
)

// testSession builds a session with a fresh day-1 state already in the
// planting phase, bypassing phase routing that individual tests don't
// exercise.
func testSession(rng entropy.Source) *Session {
	s := NewSession(catalog.Default(), rng, audio.LogSink{})
	s.state = NewGameState(s.catalog)
	s.phase = PhasePlanting
	return s
}

// fixedClock pins the session clock and returns an advance function.
func fixedClock(s *Session) func(d time.Duration) {
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

// plantAt drops a plant directly into a plot.
func plantAt(s *Session, plotID int, kind catalog.PlantKind, stage int, grown, watered bool) {
	s.state.plot(plotID).Plant = &Plant{
		Kind:        kind,
		GrowthStage: stage,
		Grown:       grown,
		Watered:     watered,
	}
}

func testSellers() []Seller {
	return []Seller{
		{ID: 0, Kind: catalog.MorningGlory, Price: 300},
		{ID: 1, Kind: catalog.Tulip, Price: 500},
		{ID: 2, Kind: catalog.Violet, Price: 800},
	}
}
