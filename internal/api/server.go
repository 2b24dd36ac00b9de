// Package api exposes the game session over HTTP: GET endpoints for observing
// state, POST endpoints for driving player actions, and a websocket stream of
// message-log updates for observers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/game"
	"github.com/talgya/green-world/internal/persistence"
)

// Server serves one game session over HTTP. Handlers serialize on a mutex so
// the single-actor contract of the engine holds under concurrent requests.
type Server struct {
	Session *game.Session
	DB      *persistence.DB
	Port    int

	mu     sync.Mutex
	limits *limiter

	upgrader websocket.Upgrader

	subMu sync.Mutex
	subs  map[chan []byte]struct{}
}

// NewServer wires a server around a session and its save store.
func NewServer(session *game.Session, db *persistence.DB, port int) *Server {
	return &Server{
		Session: session,
		DB:      db,
		Port:    port,
		limits:  newLimiter(actionRateLimit, actionRateWindow),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		subs: make(map[chan []byte]struct{}),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Observation endpoints.
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/sellers", s.handleSellers)
	mux.HandleFunc("GET /api/v1/messages", s.handleMessages)
	mux.HandleFunc("GET /api/v1/missions", s.handleMissions)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Player actions.
	mux.HandleFunc("POST /api/v1/new-game", s.action(s.doNewGame))
	mux.HandleFunc("POST /api/v1/load", s.action(s.doLoad))
	mux.HandleFunc("POST /api/v1/save", s.action(s.doSave))
	mux.HandleFunc("POST /api/v1/buy-seed", s.action(s.doBuySeed))
	mux.HandleFunc("POST /api/v1/buy-all", s.action(s.doBuyAll))
	mux.HandleFunc("POST /api/v1/open-sellers", s.action(s.doOpenSellers))
	mux.HandleFunc("POST /api/v1/close-seller", s.action(s.doCloseSeller))
	mux.HandleFunc("POST /api/v1/open-buyer", s.action(s.doOpenBuyer))
	mux.HandleFunc("POST /api/v1/close-buyer", s.action(s.doCloseBuyer))
	mux.HandleFunc("POST /api/v1/select-seed", s.action(s.doSelectSeed))
	mux.HandleFunc("POST /api/v1/plant", s.action(s.doPlant))
	mux.HandleFunc("POST /api/v1/water", s.action(s.doWater))
	mux.HandleFunc("POST /api/v1/water-all", s.action(s.doWaterAll))
	mux.HandleFunc("POST /api/v1/select-sale", s.action(s.doSelectSale))
	mux.HandleFunc("POST /api/v1/sell", s.action(s.doSell))
	mux.HandleFunc("POST /api/v1/mute", s.action(s.doMute))
	mux.HandleFunc("POST /api/v1/buy-plot", s.action(s.doBuyPlot))
	mux.HandleFunc("POST /api/v1/sprinkler", s.action(s.doSprinkler))
	mux.HandleFunc("POST /api/v1/extract-gene", s.action(s.doExtractGene))
	mux.HandleFunc("POST /api/v1/combine-genes", s.action(s.doCombineGenes))
	mux.HandleFunc("POST /api/v1/next-day", s.action(s.doNextDay))
	mux.HandleFunc("POST /api/v1/commit-day", s.action(s.doCommitDay))
	mux.HandleFunc("POST /api/v1/open-missions", s.action(s.doOpenMissions))
	mux.HandleFunc("POST /api/v1/tutorial/next", s.action(s.doTutorialNext))
	mux.HandleFunc("POST /api/v1/tutorial/skip", s.action(s.doTutorialSkip))

	return mux
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)
	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps engine outcomes to HTTP statuses. Taxonomy errors are game
// outcomes presented as conflicts, not server faults.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, game.ErrInvalidTarget):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

type actionRequest struct {
	SellerID  int               `json:"seller_id"`
	PlotID    int               `json:"plot_id"`
	Kind      catalog.PlantKind `json:"kind"`
	First     catalog.PlantKind `json:"first"`
	Second    catalog.PlantKind `json:"second"`
	Selection []int             `json:"selection"`
	Tutorial  *bool             `json:"tutorial"`
	Muted     bool              `json:"muted"`
}

// action wraps a player operation: rate-limit, decode, serialize on the
// session, report the outcome, and broadcast the new message log to stream
// observers.
func (s *Server) action(op func(req *actionRequest) error) http.HandlerFunc {
	return s.limits.throttle(func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
				return
			}
		}

		s.mu.Lock()
		err := op(&req)
		view := s.sessionView()
		s.mu.Unlock()

		if err != nil {
			writeJSON(w, statusFor(err), map[string]any{"error": err.Error(), "messages": view.Messages})
			return
		}
		s.broadcast(view)
		writeJSON(w, http.StatusOK, view)
	})
}

// sessionView is the standard action response and stream payload.
type sessionView struct {
	Phase    game.Phase         `json:"phase"`
	Day      int                `json:"day,omitempty"`
	Money    int                `json:"money,omitempty"`
	CO2      int                `json:"co2,omitempty"`
	Level    int                `json:"level,omitempty"`
	Messages []string           `json:"messages"`
	Summary  *game.DailySummary `json:"summary,omitempty"`
	Tutorial game.TutorialState `json:"tutorial"`
}

func (s *Server) sessionView() sessionView {
	view := sessionView{
		Phase:    s.Session.Phase(),
		Messages: s.Session.Messages(),
		Summary:  s.Session.Summary(),
		Tutorial: s.Session.Tutorial(),
	}
	if gs := s.Session.State(); gs != nil {
		view.Day = gs.Day
		view.Money = gs.Money
		view.CO2 = gs.CO2Level
		view.Level = gs.Level
	}
	return view
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.Session.State()
	if gs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"phase": s.Session.Phase()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"phase": s.Session.Phase(), "state": gs})
}

func (s *Server) handleSellers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"sellers": s.Session.Sellers()})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": s.Session.Messages()})
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type missionView struct {
		ID        string            `json:"id"`
		Title     string            `json:"title"`
		Kind      catalog.PlantKind `json:"kind"`
		Target    int               `json:"target"`
		Reward    int               `json:"reward"`
		Progress  int               `json:"progress"`
		Completed bool              `json:"completed"`
	}
	var out []missionView
	gs := s.Session.State()
	for _, m := range s.Session.Catalog().Missions {
		v := missionView{ID: m.ID, Title: m.Title, Kind: m.Kind, Target: m.Target, Reward: m.Reward}
		if gs != nil {
			v.Progress = gs.PlantStats[m.Kind]
			v.Completed = gs.MissionProgress[m.ID].Completed
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"missions": out})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"summary": s.Session.Summary()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Catalog())
}

func (s *Server) doNewGame(req *actionRequest) error {
	withTutorial := !s.DB.TutorialCompleted()
	if req.Tutorial != nil {
		withTutorial = *req.Tutorial
	}
	if err := s.DB.DeleteBundle(persistence.DefaultSlot); err != nil {
		return fmt.Errorf("clear save: %w", err)
	}
	s.Session.StartNew(withTutorial)
	return nil
}

func (s *Server) doLoad(req *actionRequest) error {
	bundle, ok, err := s.DB.LoadBundle(persistence.DefaultSlot, s.Session.Catalog())
	if err != nil {
		return fmt.Errorf("load save: %w", err)
	}
	if !ok {
		s.Session.StartNew(!s.DB.TutorialCompleted())
		return nil
	}
	s.Session.Restore(bundle)
	return nil
}

func (s *Server) doSave(req *actionRequest) error {
	if s.Session.State() == nil {
		return fmt.Errorf("no game in progress: %w", game.ErrInvalidTarget)
	}
	if err := s.DB.SaveBundle(persistence.DefaultSlot, s.Session.Bundle()); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	s.Session.Quit()
	return nil
}

func (s *Server) doBuySeed(req *actionRequest) error { return s.Session.BuySeed(req.SellerID) }
func (s *Server) doBuyAll(req *actionRequest) error  { return s.Session.BuyAllRemaining() }

func (s *Server) doOpenSellers(req *actionRequest) error {
	if s.Session.Phase() == game.PhasePlanting {
		s.Session.OpenSellerRevisit()
	}
	return nil
}

func (s *Server) doOpenBuyer(req *actionRequest) error {
	if s.Session.Phase() == game.PhasePlanting {
		s.Session.OpenBuyerRevisit()
	}
	return nil
}

func (s *Server) doCloseSeller(req *actionRequest) error {
	s.Session.CloseSellerVisit()
	return nil
}

func (s *Server) doCloseBuyer(req *actionRequest) error {
	s.Session.CloseBuyerVisit()
	return nil
}

func (s *Server) doSelectSeed(req *actionRequest) error {
	s.Session.SelectSeed(req.Kind)
	return nil
}

func (s *Server) doPlant(req *actionRequest) error {
	kind := req.Kind
	if kind == "" {
		kind = s.Session.SelectedSeed()
	}
	return s.Session.PlantSeed(req.PlotID, kind)
}

func (s *Server) doWater(req *actionRequest) error    { return s.Session.WaterPlot(req.PlotID) }
func (s *Server) doWaterAll(req *actionRequest) error { return s.Session.WaterAllEligible() }

func (s *Server) doSelectSale(req *actionRequest) error {
	s.Session.SelectForSale(req.PlotID)
	return nil
}

func (s *Server) doMute(req *actionRequest) error {
	s.Session.ToggleMute(req.Muted)
	return nil
}

func (s *Server) doSell(req *actionRequest) error {
	selection := make(map[int]bool, len(req.Selection))
	for _, id := range req.Selection {
		selection[id] = true
	}
	return s.Session.SellPlants(selection)
}

func (s *Server) doBuyPlot(req *actionRequest) error   { return s.Session.BuyPlot() }
func (s *Server) doSprinkler(req *actionRequest) error { return s.Session.PurchaseSprinkler() }

func (s *Server) doExtractGene(req *actionRequest) error { return s.Session.ExtractGene(req.PlotID) }

func (s *Server) doCombineGenes(req *actionRequest) error {
	return s.Session.CombineGenes(req.First, req.Second)
}

func (s *Server) doNextDay(req *actionRequest) error {
	_, err := s.Session.CloseDay()
	return err
}

func (s *Server) doCommitDay(req *actionRequest) error { return s.Session.CommitDay() }

func (s *Server) doOpenMissions(req *actionRequest) error {
	s.Session.OpenMissions()
	return nil
}

func (s *Server) doTutorialNext(req *actionRequest) error {
	s.Session.AdvanceTutorial()
	return nil
}

func (s *Server) doTutorialSkip(req *actionRequest) error {
	s.Session.SkipTutorial()
	return nil
}

// handleStream upgrades to a websocket and pushes a session view after every
// action until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch := make(chan []byte, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	defer func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}()

	// Send the current view immediately.
	s.mu.Lock()
	first, _ := json.Marshal(s.sessionView())
	s.mu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
		return
	}

	// Reader goroutine detects disconnects; the stream itself is write-only.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case payload := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// broadcast fans a view out to every stream subscriber, dropping payloads for
// slow consumers rather than blocking the action path.
func (s *Server) broadcast(view sessionView) {
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- payload:
		default:
		}
	}
}
