package game

import "fmt"

// settleMissions marks every mission whose cumulative sold count now meets its
// target and returns the summed one-time rewards. Completion is monotonic and
// each reward is granted exactly once. Mission predicates are independent, so
// evaluation order does not affect the outcome.
func (s *Session) settleMissions() int {
	rewards := 0
	for _, m := range s.catalog.Missions {
		if s.state.MissionProgress[m.ID].Completed {
			continue
		}
		if s.state.PlantStats[m.Kind] < m.Target {
			continue
		}
		s.state.MissionProgress[m.ID] = MissionStatus{Completed: true}
		rewards += m.Reward
		s.messages.Push(fmt.Sprintf("ミッション達成: 「%s」！ 報酬 %d円獲得！", m.Title, m.Reward))
		s.sink.Celebrate()
	}
	return rewards
}
