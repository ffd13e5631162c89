package game

import "testing"

func TestInputState(t *testing.T) {
	in := NewInputState()

	in.KeyDown("A")
	in.KeyDown("a")
	if got := in.Held(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("Held() = %v, want [a]", got)
	}
	if !in.IsPressed(LeftKeys...) {
		t.Error("left should be pressed")
	}
	if in.IsPressed(RightKeys...) {
		t.Error("right should not be pressed")
	}

	in.KeyDown("ArrowUp")
	if !in.IsPressed(JumpKeys...) {
		t.Error("jump should be pressed via arrowup")
	}

	in.KeyUp("a")
	in.KeyUp("a")
	if in.IsPressed(LeftKeys...) {
		t.Error("left should be released")
	}

	in.Reset()
	if len(in.Held()) != 0 {
		t.Errorf("Held() after Reset = %v", in.Held())
	}
}

func TestSpaceIsJump(t *testing.T) {
	in := NewInputState()
	in.KeyDown(" ")
	if !in.IsPressed(JumpKeys...) {
		t.Error("space should count as jump")
	}
	in.KeyDown("q")
	if in.IsPressed(LeftKeys...) || in.IsPressed(RightKeys...) {
		t.Error("unbound keys must not move the player")
	}
}
