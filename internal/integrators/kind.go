package integrators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// ErrUnsupportedKind is returned when an integrator kind or name is not one
// of the known methods.
var ErrUnsupportedKind = errors.New("integrators: unsupported integrator kind")

// Kind enumerates the available integration methods.
type Kind int

const (
	KindEuler Kind = iota
	KindTrapezoidal
	KindRK4
)

var kindNames = map[Kind]string{
	KindEuler:       "euler",
	KindTrapezoidal: "trapezoidal",
	KindRK4:         "rk4",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindEuler, KindTrapezoidal, KindRK4}
}

// ParseKind maps a name to a Kind. Matching is case-insensitive and accepts
// "trapezoid" and "heun" as aliases of the trapezoidal method.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euler", "forward_euler":
		return KindEuler, nil
	case "trapezoidal", "trapezoid", "heun":
		return KindTrapezoidal, nil
	case "rk4":
		return KindRK4, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
}

// New returns the integrator for kind.
func New(kind Kind) (dynamo.Integrator, error) {
	switch kind {
	case KindEuler:
		return NewEuler(), nil
	case KindTrapezoidal:
		return NewTrapezoidal(), nil
	case KindRK4:
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}
}

