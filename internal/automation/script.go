package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownAction     = errors.New("automation: unknown action")
	ErrUnsupportedAction = errors.New("automation: action not supported by target")
	ErrInvalidTime       = errors.New("automation: command time must be non-negative")
)

// Action names a scripted input.
type Action string

const (
	ActionToggleWind Action = "toggle_wind"
	ActionReset      Action = "reset"
	ActionForceY     Action = "force_y"
	ActionForceX     Action = "force_x"
	ActionSource     Action = "source"
)

func (a Action) valid() bool {
	switch a {
	case ActionToggleWind, ActionReset, ActionForceY, ActionForceX, ActionSource:
		return true
	}
	return false
}

// Command fires once the simulation clock reaches At. Y, X and Amount are
// only read by the grid actions.
type Command struct {
	At     float64 `yaml:"at"`
	Action Action  `yaml:"action"`
	Y      int     `yaml:"y,omitempty"`
	X      int     `yaml:"x,omitempty"`
	Amount float64 `yaml:"amount,omitempty"`
}

func (c Command) String() string {
	switch c.Action {
	case ActionForceY, ActionForceX, ActionSource:
		return fmt.Sprintf("t=%.3f %s (%d,%d) %+g", c.At, c.Action, c.Y, c.X, c.Amount)
	}
	return fmt.Sprintf("t=%.3f %s", c.At, c.Action)
}

// Script is a named list of timed commands.
type Script struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Commands    []Command `yaml:"commands"`
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script. Commands are ordered by
// time; commands sharing a time keep their file order.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(s.Commands, func(i, j int) bool { return s.Commands[i].At < s.Commands[j].At })
	return &s, nil
}

func (s *Script) Validate() error {
	for i, c := range s.Commands {
		if !c.Action.valid() {
			return fmt.Errorf("%w: command %d: %q", ErrUnknownAction, i, c.Action)
		}
		if c.At < 0 {
			return fmt.Errorf("%w: command %d at %v", ErrInvalidTime, i, c.At)
		}
	}
	return nil
}
