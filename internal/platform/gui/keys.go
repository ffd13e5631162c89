package gui

import "github.com/hajimehoshi/ebiten/v2"

// gameKeys maps window keys to the names the physics step reads.
var gameKeys = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:  "arrowleft",
	ebiten.KeyArrowRight: "arrowright",
	ebiten.KeyArrowUp:    "arrowup",
	ebiten.KeyA:          "a",
	ebiten.KeyD:          "d",
	ebiten.KeyW:          "w",
	ebiten.KeySpace:      " ",
}

// GameKey returns the game key name for k.
func GameKey(k ebiten.Key) (string, bool) {
	name, ok := gameKeys[k]
	return name, ok
}

// Control keys handled by the window itself.
const (
	keyQuit  = ebiten.KeyEscape
	keyStart = ebiten.KeyEnter
	keyAgain = ebiten.KeyR
	keyMute  = ebiten.KeyM
)

func isStartKey(k ebiten.Key) bool {
	return k == keyStart || k == ebiten.KeyNumpadEnter
}
