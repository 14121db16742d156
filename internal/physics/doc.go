// Package physics provides the mass-spring force systems.
//
// Each system implements [dynamo.System], returning d(State)/dt:
//
//   - [Simple]: a single particle circling the origin
//   - [Pendulum]: a chain of particles hanging from a fixed first particle
//   - [Cloth]: a rows x cols sheet with structural, shear and flex springs
//
// Pendulum and Cloth are built on [SpringSystem], which accumulates gravity,
// drag, Hookean spring forces and optional wind. Spring systems also
// implement [dynamo.Hamiltonian] so energy drift can be monitored:
//
//	p, _ := physics.NewPendulum(physics.DefaultPendulumPositions(), physics.DefaultSpringParams())
//	e := p.Energy(p.InitialState())
package physics
