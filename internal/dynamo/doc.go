// Package dynamo provides the core simulation primitives for particle systems.
//
// The package defines the fundamental interfaces and types used by the
// integrators and force systems:
//
//   - [State]: per-particle positions and velocities forming a vector space
//   - [System]: interface for force systems (dX/dt = F(X, t))
//   - [Integrator]: numerical stepping strategy over a [System]
//   - [Hamiltonian]: optional total energy of a state
//
// States are values. Add, Sub and Scale never mutate their operands; they
// return new states, so integrators can form linear combinations freely.
//
// # Example
//
//	sys, _ := physics.NewPendulum(physics.DefaultPendulumPositions(), physics.DefaultSpringParams())
//	integ, _ := integrators.New(integrators.KindRK4)
//	next, err := integ.Step(sys, sys.InitialState(), 0, 0.01)
package dynamo
