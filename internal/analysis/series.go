package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrParticleIndex = errors.New("analysis: particle index out of range")
	ErrUnknownAxis   = errors.New("analysis: unknown axis")
	ErrTooShort      = errors.New("analysis: series too short")
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, name)
}

func (a Axis) of(v r3.Vec) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return v.X
}

// Coordinate returns the position of particle along axis in every state.
func Coordinate(states []dynamo.State, particle int, axis Axis) ([]float64, error) {
	return extract(states, particle, axis, func(x dynamo.State) []r3.Vec { return x.Positions })
}

// Velocity is Coordinate for the velocity slot.
func Velocity(states []dynamo.State, particle int, axis Axis) ([]float64, error) {
	return extract(states, particle, axis, func(x dynamo.State) []r3.Vec { return x.Velocities })
}

func extract(states []dynamo.State, particle int, axis Axis, slot func(dynamo.State) []r3.Vec) ([]float64, error) {
	if axis < AxisX || axis > AxisZ {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAxis, axis)
	}
	out := make([]float64, len(states))
	for i, x := range states {
		vs := slot(x)
		if particle < 0 || particle >= len(vs) {
			return nil, fmt.Errorf("%w: %d of %d", ErrParticleIndex, particle, len(vs))
		}
		out[i] = axis.of(vs[particle])
	}
	return out, nil
}
