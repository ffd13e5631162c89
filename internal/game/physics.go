package game

import (
	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/level"
)

// stepPhysics advances the player one tick.
// Order: horizontal input, jump, gravity, integration, landing, bounds.
func stepPhysics(s *Session, lvl *level.Level, in *InputState, r Rules) {
	p := &s.Player
	ph := r.Physics

	switch {
	case in.IsPressed(LeftKeys...):
		p.VX = -ph.MoveSpeed
	case in.IsPressed(RightKeys...):
		p.VX = ph.MoveSpeed
	default:
		p.VX *= ph.Friction
	}

	if in.IsPressed(JumpKeys...) && canJump(p, lvl.Platforms, ph) {
		p.VY = ph.JumpForce
	}

	p.VY += ph.Gravity

	p.Box.X += p.VX
	p.Box.Y += p.VY

	// Only top landings are resolved; sides and undersides pass through.
	for _, plat := range lvl.Platforms {
		if p.Box.Intersects(plat) && p.VY > 0 && p.Box.Y < plat.Y {
			p.Box.Y = plat.Y - p.Box.H
			p.VY = 0
		}
	}

	p.Box.X = core.ClampF(p.Box.X, 0, r.World.Width-p.Box.W)

	if p.Box.Y > r.World.Height {
		placePlayer(s, lvl.Spawn, r)
	}
}

// canJump reports whether the player stands on (or hovers at the apex just
// above) a platform it horizontally overlaps.
func canJump(p *Player, platforms []core.Rect, ph config.Physics) bool {
	if core.AbsF(p.VY) >= ph.GroundedEpsilon {
		return false
	}
	for _, plat := range platforms {
		if p.Box.OverlapsX(plat) && core.AbsF(p.Box.Bottom()-plat.Y) < ph.JumpTolerance {
			return true
		}
	}
	return false
}

// placePlayer puts the player at a spawn point with zero velocity.
func placePlayer(s *Session, spawn core.Point, r Rules) {
	s.Player = Player{
		Box: core.NewRect(spawn.X, spawn.Y, r.Player.Width, r.Player.Height),
	}
}
