package game

import (
	"log/slog"

	"github.com/talgya/green-world/internal/catalog"
)

// TutorialEventKind names the semantic player actions the tutorial can gate
// on. The coordinator matches events against the current step instead of
// knowing anything about presentation.
type TutorialEventKind string

const (
	TutorialSeedBought     TutorialEventKind = "seed_bought"
	TutorialSellerClosed   TutorialEventKind = "seller_closed"
	TutorialSeedSelected   TutorialEventKind = "seed_selected"
	TutorialSeedPlanted    TutorialEventKind = "seed_planted"
	TutorialPlotWatered    TutorialEventKind = "plot_watered"
	TutorialDayClosed      TutorialEventKind = "day_closed"
	TutorialSummaryClosed  TutorialEventKind = "summary_closed"
	TutorialSaleSelected   TutorialEventKind = "sale_selected"
	TutorialPlantsSold     TutorialEventKind = "plants_sold"
	TutorialMissionsOpened TutorialEventKind = "missions_opened"
)

// TutorialEvent is one gated player action. Target carries a seller or plot
// id, -1 when irrelevant.
type TutorialEvent struct {
	Kind   TutorialEventKind
	Target int
	Seed   catalog.PlantKind
}

// TutorialStep is one entry of the fixed linear script. A nil Requires means
// the step advances on explicit acknowledgement; otherwise only the matching
// action advances it.
type TutorialStep struct {
	Anchor   string `json:"anchor"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Requires *TutorialEvent
}

// TutorialState tracks the guided script position.
type TutorialState struct {
	Active bool `json:"active"`
	Step   int  `json:"step"`
}

// anyTarget marks an action step that accepts any seller/plot id.
const anyTarget = -1

// tutorialScript is the fixed 13-step guided introduction.
var tutorialScript = []TutorialStep{
	{Anchor: "seed-seller-modal", Title: "ようこそ！ (1/13)",
		Text: "Green Worldへようこそ！このチュートリアルでゲームの基本を学びましょう。「次へ」を押して進めてください。"},
	{Anchor: "buy-seed-0", Title: "種の購入 (2/13)",
		Text:     "まずは植物の種を買いましょう。このボタンを押してアサガオの種を購入します。",
		Requires: &TutorialEvent{Kind: TutorialSeedBought, Target: 0}},
	{Anchor: "close-seller-modal", Title: "店を閉じる (3/13)",
		Text:     "種を買いました！次は「閉じる」ボタンを押して、庭に戻りましょう。",
		Requires: &TutorialEvent{Kind: TutorialSellerClosed, Target: anyTarget}},
	{Anchor: "main-stats", Title: "ステータスの見方 (4/13)",
		Text: "画面上部では天気、日付、所持金、レベルを確認できます。天気は植物の成長に影響を与えることがあります。"},
	{Anchor: "co2-stat", Title: "CO2濃度 (5/13)",
		Text: "これが地球のCO2濃度です。100%になるとゲームオーバー！植物を育ててCO2を減らしましょう。"},
	{Anchor: "select-seed", Title: "種の選択 (6/13)",
		Text:     "インベントリにアサガオの種が追加されました。ここをクリックして、植える準備をします。",
		Requires: &TutorialEvent{Kind: TutorialSeedSelected, Target: anyTarget, Seed: catalog.MorningGlory}},
	{Anchor: "plot-0", Title: "種を植える (7/13)",
		Text:     "素晴らしい！では、ハイライトされている空き地をクリックして、種を植えましょう。",
		Requires: &TutorialEvent{Kind: TutorialSeedPlanted, Target: 0, Seed: catalog.MorningGlory}},
	{Anchor: "water-button-0", Title: "水やり (8/13)",
		Text:     "植物が育つには水が必要です。ハイライトされた水やりボタンを押して、水をあげましょう。",
		Requires: &TutorialEvent{Kind: TutorialPlotWatered, Target: 0}},
	{Anchor: "next-day-button", Title: "次の日へ (9/13)",
		Text:     "植物が育つには時間が必要です。「次の日へ」ボタンを押して、時間を進めましょう。",
		Requires: &TutorialEvent{Kind: TutorialDayClosed, Target: anyTarget}},
	{Anchor: "close-summary-button", Title: "一日のまとめ (10/13)",
		Text:     "一日が終わると、CO2やお金の変化が表示されます。確認したら、ボタンを押して次の日へ進みましょう。",
		Requires: &TutorialEvent{Kind: TutorialSummaryClosed, Target: anyTarget}},
	{Anchor: "plant-to-sell-0", Title: "植物の選択 (11/13)",
		Text:     "育ったアサガオがリストに表示されています。クリックして売却対象として選択しましょう。",
		Requires: &TutorialEvent{Kind: TutorialSaleSelected, Target: anyTarget}},
	{Anchor: "sell-plants-button", Title: "売却の確定 (12/13)",
		Text:     "合計金額を確認したら、「選択した植物を売る」ボタンを押して売却を完了します。",
		Requires: &TutorialEvent{Kind: TutorialPlantsSold, Target: anyTarget}},
	{Anchor: "garden-container", Title: "チュートリアル完了！ (13/13)",
		Text: "お疲れ様でした！これで基本的な操作はマスターしました。自由に植物を育てて、地球を救いましょう！"},
}

// TutorialSteps exposes the script for presentation layers.
func TutorialSteps() []TutorialStep {
	return tutorialScript
}

// CurrentTutorialStep returns the active step, or nil when the tutorial is
// not running.
func (s *Session) CurrentTutorialStep() *TutorialStep {
	if !s.tutorial.Active || s.tutorial.Step >= len(tutorialScript) {
		return nil
	}
	step := tutorialScript[s.tutorial.Step]
	return &step
}

// AdvanceTutorial moves past a free (non action-driven) step. Action-driven
// steps only advance through their gated action.
func (s *Session) AdvanceTutorial() {
	if !s.tutorial.Active {
		return
	}
	if step := s.CurrentTutorialStep(); step != nil && step.Requires != nil {
		return
	}
	s.advanceTutorial()
}

// SkipTutorial jumps straight out of the script and records completion so it
// never auto-starts again.
func (s *Session) SkipTutorial() {
	if !s.tutorial.Active {
		return
	}
	s.endTutorial()
}

// notifyTutorial feeds a semantic action into the coordinator. The current
// step advances only when it is action-driven and the event matches.
func (s *Session) notifyTutorial(ev TutorialEvent) {
	if !s.tutorial.Active || s.tutorial.Step >= len(tutorialScript) {
		return
	}
	req := tutorialScript[s.tutorial.Step].Requires
	if req == nil {
		// The final step is free but also completes when the player wanders
		// into the missions panel.
		if s.tutorial.Step == len(tutorialScript)-1 && ev.Kind == TutorialMissionsOpened {
			s.endTutorial()
		}
		return
	}
	if req.Kind != ev.Kind {
		return
	}
	if req.Target != anyTarget && req.Target != ev.Target {
		return
	}
	if req.Seed != "" && req.Seed != ev.Seed {
		return
	}
	s.advanceTutorial()
}

func (s *Session) advanceTutorial() {
	if s.tutorial.Step >= len(tutorialScript)-1 {
		s.endTutorial()
		return
	}
	s.tutorial.Step++
}

// endTutorial deactivates the script, records completion, and unblocks the
// player if the script left them on an empty buyer screen.
func (s *Session) endTutorial() {
	s.tutorial = TutorialState{}
	if s.OnTutorialDone != nil {
		s.OnTutorialDone()
	}
	if s.phase == PhaseBuyerVisit && s.state.GrownCount() == 0 {
		s.phase = PhasePlanting
	}
	slog.Info("tutorial ended")
}
