// Package viz renders a running rod simulation in the terminal.
//
// [Model] is a Bubble Tea model that steps a [sim.Simulator] on every frame
// and draws the rod centerline on a Braille [Canvas], with short ticks along
// each end's first director so twisting is visible. The side panel shows the
// drive phase, end-to-end distance and accumulated twist.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	x/X   - Pitch camera
//	y/Y   - Yaw camera
//	+/-   - Zoom
//	Q     - Quit
package viz
