// Package viz renders simulations in the terminal.
//
//   - [FluidModel]: Bubble Tea program showing the density of a grid solver
//   - [ParticleModel]: Bubble Tea program showing a projected particle system
//   - [Canvas]: Braille dot canvas, 2x4 dots per character cell
//   - [RenderDensity], [DrawParticles]: the pure renderers behind both models
//
// Renderers only read through [fluid.View] and particle positions, so they
// never mutate solver state.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	T     - Cycle color themes
//	Q     - Quit
//
// The fluid view also moves an injection cursor with the arrow keys and
// injects with S (density) and F/G (force along y/x). The particle view
// rotates with the arrow keys, zooms with +/- and toggles wind with W.
package viz
