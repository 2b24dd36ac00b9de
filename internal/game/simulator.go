package game

import (
	"fmt"
	"strings"

	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
)

// Daily random event flavor. At most one event fires per day; a surge and a
// bonus reduction are mutually exclusive.
var surgeEvents = []string{
	"🏭 近くの工場がフル稼働し、CO2濃度が急上昇しました！",
	"🚧 大規模な都市開発工事が行われ、CO2濃度が急上昇しました！",
	"🚗 世界的な交通渋滞が発生し、CO2濃度が急上昇しました！",
	"🔥 遠くで山火事があったようで、空気が少し濁っています…",
}

var reductionEvents = []string{
	"🌳 大規模な植林活動が成功し、CO2濃度が低下しました！",
	"💡 クリーンエネルギー技術のブレークスルーが発表されました！",
	"🌍 世界的な環境保護キャンペーンが効果を上げています！",
	"💨 革新的なCO2回収技術が実用化されたようです。",
}

// CO2 warning thresholds, most severe first. Crossing one on a commit emits
// its warning; multiple crossings in one tick surface most-severe-first in
// the log.
var co2Thresholds = []struct {
	Value   int
	Message string
}{
	{90, "🚨最終警告：CO2濃度が90%を超えました！地球が悲鳴を上げています！"},
	{80, "🚨緊急事態：CO2濃度が80%に達しました！破局が迫っています！"},
	{60, "⚠️危険：CO2濃度が60%に達しました！地球の未来が危うい！"},
	{40, "⚠️警告：CO2濃度が40%に達しました。緑を増やさないと危険です！"},
	{20, "🔔注意：CO2濃度が20%に達しました。環境が悪化しています。"},
}

// CloseDay ends the current day and produces the summary the player reviews
// before it applies. The game state itself is not mutated; CommitDay does
// that. The weather-risk preview here and the growth tick in CommitDay roll
// their own randomness, so the preview is not guaranteed to match the applied
// outcome bit for bit.
func (s *Session) CloseDay() (*DailySummary, error) {
	if s.phase != PhasePlanting {
		return nil, fmt.Errorf("close day in phase %s: %w", s.phase, ErrInvalidTarget)
	}
	s.notifyTutorial(TutorialEvent{Kind: TutorialDayClosed, Target: -1})

	t := s.catalog.Tuning
	summary := &DailySummary{
		CO2Increased: s.rng.IntBetween(t.MinDailyCO2Increase, t.MaxDailyCO2Increase),
		MoneySpent:   s.state.MoneySpentToday,
		MoneyEarned:  s.state.MoneyEarnedToday,
	}

	// Daily random event, suppressed while the tutorial runs.
	if !s.tutorial.Active {
		if s.rng.Float() < t.ReductionChance {
			summary.CO2BonusReduction = s.rng.IntBetween(t.ReductionMin, t.ReductionMax)
			summary.EventMessage = reductionEvents[s.rng.IntBetween(0, len(reductionEvents)-1)]
		} else if s.rng.Float() < t.SurgeChance {
			summary.CO2Surge = t.SurgeAmount
			summary.EventMessage = surgeEvents[s.rng.IntBetween(0, len(surgeEvents)-1)]
		}
	}

	// Preview the plants that would mature tomorrow, with weather risk.
	var weatherEvents []string
	for _, plot := range s.state.Plots {
		p := plot.Plant
		if p == nil || p.Grown || !p.Watered || p.GrowthStage != 1 {
			continue
		}
		info := s.catalog.Plant(p.Kind)

		credited := true
		if s.state.Weather == catalog.Cloudy && s.rng.Float() < t.CloudStallChance {
			weatherEvents = append(weatherEvents, fmt.Sprintf("☁️ %sの成長が遅れた", info.Name))
			credited = false
		}
		if s.state.Weather == catalog.Stormy && s.rng.Float() < t.StormDamageChance {
			weatherEvents = append(weatherEvents, fmt.Sprintf("⛈️ %sが嵐で被害を受けた", info.Name))
			credited = false
		}
		if credited {
			summary.CO2Decreased += info.CO2Reduction
		}
	}
	if len(weatherEvents) > 0 {
		summary.WeatherEvents = strings.Join(weatherEvents, "。") + "。"
	}

	s.summary = summary
	s.phase = PhaseDailySummary
	return summary, nil
}

// CommitDay folds the pending summary into a new day: next weather, sprinkler
// upkeep, CO2 movement and warnings, the per-plot growth tick, and the phase
// for the morning. The summary is consumed.
func (s *Session) CommitDay() error {
	if s.summary == nil || s.phase != PhaseDailySummary {
		return fmt.Errorf("no pending summary: %w", ErrInvalidTarget)
	}
	s.notifyTutorial(TutorialEvent{Kind: TutorialSummaryClosed, Target: -1})

	summary := s.summary
	t := s.catalog.Tuning
	tutorialSecondDay := s.tutorial.Active && s.state.Day == 1
	previousWeather := s.state.Weather

	// Tomorrow's weather. The tutorial keeps the sky clear.
	newWeather := catalog.Sunny
	if !s.tutorial.Active {
		weights := make([]float64, len(s.catalog.Weather))
		for i, w := range s.catalog.Weather {
			weights[i] = w.Weight
		}
		newWeather = s.catalog.Weather[entropy.WeightedIndex(s.rng, weights)].Kind
	}
	weatherInfo := s.catalog.WeatherDef(newWeather)

	// Sprinkler upkeep. Short funds skip the watering, never go negative.
	sprinklerWorked := false
	maintenancePaid := 0
	if s.state.HasSprinkler {
		if s.state.Money >= t.SprinklerUpkeep {
			s.state.Money -= t.SprinklerUpkeep
			maintenancePaid = t.SprinklerUpkeep
			sprinklerWorked = true
		} else {
			s.messages.Push("⚠️ お金が足りず、スプリンクラーの維持費を払えませんでした。")
		}
	}
	autoWatered := newWeather.AutoWaters() || sprinklerWorked

	newCO2 := s.state.CO2Level + summary.CO2Increased - summary.CO2Decreased
	newCO2 += summary.CO2Surge
	newCO2 -= summary.CO2BonusReduction

	// Threshold warnings, pushed least severe first so the newest-first log
	// reads most-severe-first.
	for i := len(co2Thresholds) - 1; i >= 0; i-- {
		th := co2Thresholds[i]
		if s.state.CO2Level < th.Value && newCO2 >= th.Value {
			s.messages.Push(th.Message)
		}
	}

	if summary.EventMessage != "" {
		switch {
		case summary.CO2Surge > 0:
			s.sink.Alert()
			s.messages.Push(fmt.Sprintf("%s (+%d%%)", summary.EventMessage, summary.CO2Surge))
		case summary.CO2BonusReduction > 0:
			s.sink.Celebrate()
			s.messages.Push(fmt.Sprintf("%s (-%d%%)", summary.EventMessage, summary.CO2BonusReduction))
		}
	}

	// Growth tick. Risk rolls run against the closing day's weather and are
	// independent of the CloseDay preview.
	for i := range s.state.Plots {
		p := s.state.Plots[i].Plant
		if p == nil {
			continue
		}
		if !p.Grown && p.Watered {
			info := s.catalog.Plant(p.Kind)

			if previousWeather == catalog.Stormy && s.rng.Float() < t.StormDamageChance {
				// Setback, not destruction: the plant restarts its growth.
				s.messages.Push(fmt.Sprintf("⛈️ 嵐で%sがダメージを受けました！", info.Name))
				p.GrowthStage = info.GrowthDays
				p.Watered = autoWatered
				continue
			}
			stalled := previousWeather == catalog.Cloudy && s.rng.Float() < t.CloudStallChance
			if !stalled {
				p.GrowthStage--
				if p.GrowthStage <= 0 {
					p.GrowthStage = 0
					p.Grown = true
					s.messages.Push(fmt.Sprintf("%s%sが育ち、CO2が%d%%減少しました！", info.Glyph, info.Name, info.CO2Reduction))
				}
			}
		}
		p.Watered = autoWatered
	}

	s.state.Day++
	s.state.Weather = newWeather
	s.state.MoneySpentToday = maintenancePaid
	s.state.MoneyEarnedToday = 0

	s.messages.Push(fmt.Sprintf("☀️ %d日目になりました。", s.state.Day))
	s.messages.Push(fmt.Sprintf("今日の天気は%s%sです。", weatherInfo.Glyph, weatherInfo.Name))
	if sprinklerWorked {
		s.messages.Push(fmt.Sprintf("スプリンクラーが作動し、植物に水がやられました。(維持費 %d円)", t.SprinklerUpkeep))
	} else if newWeather.AutoWaters() {
		s.messages.Push("雨のおかげで、すべての植物に水が与えられました！")
	}

	if tutorialSecondDay {
		s.phase = PhaseBuyerVisit
		s.messages.Push("今日は植物を買いに来る人がいます。")
	} else {
		s.generateSellers(s.state.Level)
		s.phase = PhaseSellerVisit
	}

	s.summary = nil
	s.setCO2(newCO2)
	return nil
}
