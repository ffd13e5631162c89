package game

import (
	"fmt"

	"github.com/vovakirdan/kitty-madness/internal/level"
)

// resolvePickups collects every uncollected fish the player overlaps.
func (g *Game) resolvePickups() {
	s := &g.session
	for i := range s.Fishes {
		f := &s.Fishes[i]
		if f.Collected || !s.Player.Box.Intersects(f.Box) {
			continue
		}
		f.Collected = true
		s.Score += g.rules.Gameplay.FishReward
		s.FishCollected++
		s.FishCarried++
		g.emit(EventFishCollected, 1, fmt.Sprintf("Fish collected! +%d points", g.rules.Gameplay.FishReward))
	}
}

// resolveGoal delivers carried fish when the player reaches the goal.
// Delivery is edge-triggered: GoalActive stays set while the player remains
// on the goal and clears on the first tick they are off it.
func (g *Game) resolveGoal(lvl *level.Level) {
	s := &g.session
	if !g.deliveryRequired(lvl) {
		return
	}
	if !s.Player.Box.Intersects(*lvl.Goal) {
		s.GoalActive = false
		return
	}
	if s.GoalActive || s.FishCarried == 0 {
		return
	}

	n := s.FishCarried
	s.Score += n * g.rules.Gameplay.GoalBonus
	s.FishDelivered += n
	s.LastDelivery = n
	s.LevelDelivered += n
	s.FishCarried = 0
	s.GoalActive = true
	g.emit(EventDelivered, n, fmt.Sprintf("Delivered %d fish! +%d points", n, n*g.rules.Gameplay.GoalBonus))
}

// checkLevelComplete advances the run when the current level is done.
// It returns false, changing nothing, while fish remain uncollected or a
// required delivery is outstanding.
func (g *Game) checkLevelComplete(lvl *level.Level) bool {
	s := &g.session
	if s.FishRemaining() > 0 {
		return false
	}
	if g.deliveryRequired(lvl) {
		if !s.GoalActive || s.LastDelivery == 0 || s.FishCarried > 0 {
			return false
		}
		s.Score += s.LevelDelivered * g.rules.Gameplay.DeliveryBonus
	}

	s.LevelsCleared++
	if s.LevelIndex+1 >= len(g.levels) {
		s.Status = StatusWon
		g.emit(EventWon, s.FishCollected, "Congratulations! You collected all the fish!")
		return true
	}

	g.loadLevel(s.LevelIndex + 1)
	s.TimeLeft += g.rules.Gameplay.LevelTimeBonus
	g.emit(EventLevelUp, 0, fmt.Sprintf("Level %d! +%ds", s.LevelIndex+1, g.rules.Gameplay.LevelTimeBonus))
	return true
}

// deliveryRequired reports whether the level must be finished at the goal.
// Levels without a goal fall back to collect-all.
func (g *Game) deliveryRequired(lvl *level.Level) bool {
	return g.rules.Gameplay.RequireDelivery && lvl.Goal != nil
}
