package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// KeyboardInput reads arrow keys or WASD. Space also jumps.
type KeyboardInput struct{}

// Input implements game.InputSource.
func (KeyboardInput) Input() (left, right, jump bool) {
	left = rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA)
	right = rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD)
	jump = rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeySpace)
	return left, right, jump
}
