package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/green-world/internal/audio"
	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
)

// waterDebounce suppresses duplicate watering submissions within a short real
// time window. This is a reentrancy guard against double clicks, not a game
// rule.
const waterDebounce = 200 * time.Millisecond

// Session owns the game state and exposes every mutation as a method. Nothing
// else writes the state. All operations validate before applying; a failed
// operation leaves the state untouched.
type Session struct {
	catalog *catalog.Catalog
	rng     entropy.Source
	sink    audio.Sink
	now     func() time.Time

	state    *GameState
	phase    Phase
	sellers  []Seller
	messages MessageLog
	summary  *DailySummary
	tutorial TutorialState

	selectedSeed      catalog.PlantKind
	revisitingSellers bool
	revisitingBuyer   bool
	wateringUntil     time.Time

	// OnTutorialDone is invoked once when the tutorial ends or is skipped, so
	// the owner can persist the completed flag. May be nil.
	OnTutorialDone func()
}

// Bundle is the opaque persistence unit: everything a save round-trips.
type Bundle struct {
	GameState *GameState `json:"game_state"`
	Phase     Phase      `json:"phase"`
	Sellers   []Seller   `json:"sellers"`
	Messages  []string   `json:"messages"`
}

// NewSession creates a session in the welcome phase with no game running.
func NewSession(c *catalog.Catalog, rng entropy.Source, sink audio.Sink) *Session {
	if sink == nil {
		sink = audio.LogSink{}
	}
	return &Session{
		catalog: c,
		rng:     rng,
		sink:    sink,
		now:     time.Now,
		phase:   PhaseWelcome,
	}
}

// State returns the current game state for observation. Callers must not
// mutate it.
func (s *Session) State() *GameState { return s.state }

// Phase returns the current session phase.
func (s *Session) Phase() Phase { return s.phase }

// Sellers returns the current seller cohort.
func (s *Session) Sellers() []Seller {
	out := make([]Seller, len(s.sellers))
	copy(out, s.sellers)
	return out
}

// Messages returns the rolling message log, newest first.
func (s *Session) Messages() []string { return s.messages.All() }

// Summary returns the pending daily summary, or nil outside DAILY_SUMMARY.
func (s *Session) Summary() *DailySummary { return s.summary }

// Tutorial returns the tutorial coordinator state.
func (s *Session) Tutorial() TutorialState { return s.tutorial }

// Catalog returns the static data this session plays against.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// StartNew begins a fresh game on day 1. When withTutorial is set the guided
// script activates with its fixed seller cohort; otherwise a cohort is drawn
// for level 1.
func (s *Session) StartNew(withTutorial bool) {
	s.state = NewGameState(s.catalog)
	s.messages.Clear()
	s.summary = nil
	s.selectedSeed = ""
	s.revisitingSellers = false
	s.revisitingBuyer = false
	s.phase = PhaseSellerVisit
	s.sink.StartAmbient()

	if withTutorial {
		s.tutorial = TutorialState{Active: true, Step: 0}
		s.sellers = tutorialSellers()
	} else {
		s.tutorial = TutorialState{}
		s.generateSellers(s.state.Level)
	}

	slog.Info("new game started", "tutorial", withTutorial, "money", s.state.Money, "co2", s.state.CO2Level)
}

// Restore resumes a session from a loaded bundle.
func (s *Session) Restore(b *Bundle) {
	s.state = b.GameState
	s.phase = b.Phase
	s.sellers = append([]Seller(nil), b.Sellers...)
	s.messages.Replace(b.Messages)
	s.summary = nil
	s.tutorial = TutorialState{}
	s.selectedSeed = ""
	s.revisitingSellers = false
	s.revisitingBuyer = false
	s.sink.StartAmbient()

	s.checkGameOver()
	slog.Info("game restored", "day", s.state.Day, "phase", s.phase, "co2", s.state.CO2Level)
}

// Bundle snapshots the session into its persistence unit.
func (s *Session) Bundle() *Bundle {
	return &Bundle{
		GameState: s.state,
		Phase:     s.phase,
		Sellers:   s.Sellers(),
		Messages:  s.messages.All(),
	}
}

// Quit returns the session to the welcome phase. Saving is the caller's
// concern; the state is left intact for bundling first.
func (s *Session) Quit() {
	s.sink.StopAmbient()
	s.phase = PhaseWelcome
}

// SelectSeed marks a seed kind as the active planting choice. Presentation
// state, tracked here only because the tutorial gates on it.
func (s *Session) SelectSeed(kind catalog.PlantKind) {
	s.selectedSeed = kind
	s.notifyTutorial(TutorialEvent{Kind: TutorialSeedSelected, Target: -1, Seed: kind})
}

// SelectedSeed returns the active planting choice, or "".
func (s *Session) SelectedSeed() catalog.PlantKind { return s.selectedSeed }

// OpenSellerRevisit re-opens the seller view from the planting phase. The
// underlying phase does not change and closing must not re-trigger phase
// transitions.
func (s *Session) OpenSellerRevisit() { s.revisitingSellers = true }

// OpenBuyerRevisit re-opens the buyer view from the planting phase.
func (s *Session) OpenBuyerRevisit() { s.revisitingBuyer = true }

// CloseSellerVisit closes the seller view. During a revisit this is view-only.
// Otherwise the session routes to the buyer visit on scheduled days, or to
// planting.
func (s *Session) CloseSellerVisit() {
	if s.revisitingSellers {
		s.revisitingSellers = false
		return
	}
	s.notifyTutorial(TutorialEvent{Kind: TutorialSellerClosed, Target: -1})

	if s.state.Day%s.catalog.Tuning.BuyerVisitFrequency == 0 && !s.tutorial.Active {
		s.phase = PhaseBuyerVisit
		s.messages.Push("今日は植物を買いに来る人がいます。")
	} else {
		s.phase = PhasePlanting
		s.messages.Push("植物を植えたり、世話をしたりしましょう。")
	}
}

// CloseBuyerVisit closes the buyer view without selling. View-only during a
// revisit; otherwise it routes back to planting.
func (s *Session) CloseBuyerVisit() {
	if s.revisitingBuyer {
		s.revisitingBuyer = false
		return
	}
	if s.phase == PhaseBuyerVisit {
		s.phase = PhasePlanting
		s.messages.Push("植物を植えたり、世話をしたりしましょう。")
	}
}

// OpenMissions is a presentation hook; the tutorial gates its final step on it.
func (s *Session) OpenMissions() {
	s.notifyTutorial(TutorialEvent{Kind: TutorialMissionsOpened, Target: -1})
}

// ToggleMute forwards the mute state to the notification sink.
func (s *Session) ToggleMute(muted bool) {
	s.sink.Click()
	s.sink.SetMuted(muted)
}

// setCO2 applies a new CO2 level, clamps it to the valid band, and re-checks
// the terminal condition. Every CO2 write funnels through here.
func (s *Session) setCO2(level int) {
	if level < 0 {
		level = 0
	}
	if level > s.catalog.Tuning.MaxCO2 {
		level = s.catalog.Tuning.MaxCO2
	}
	s.state.CO2Level = level
	s.checkGameOver()
}

func (s *Session) checkGameOver() {
	if s.state != nil && s.state.CO2Level >= s.catalog.Tuning.MaxCO2 && s.phase != PhaseWelcome {
		s.phase = PhaseGameOver
		slog.Info("game over", "day", s.state.Day, "co2", s.state.CO2Level)
	}
}

// spend deducts amount after an affordability check, tracking the daily
// accumulator.
func (s *Session) spend(amount int) error {
	if s.state.Money < amount {
		return fmt.Errorf("need %d, have %d: %w", amount, s.state.Money, ErrInsufficientFunds)
	}
	s.state.Money -= amount
	s.state.MoneySpentToday += amount
	return nil
}
