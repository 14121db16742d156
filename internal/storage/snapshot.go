package storage

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/fluid"
)

// ParticleSnapshot is a saved particle state a scenario can resume from.
type ParticleSnapshot struct {
	Scenario string       `json:"scenario"`
	Time     float64      `json:"time"`
	State    dynamo.State `json:"state"`
}

func SaveParticleSnapshot(path string, snap ParticleSnapshot) error {
	return writeJSON(path, snap)
}

func LoadParticleSnapshot(path string) (*ParticleSnapshot, error) {
	var snap ParticleSnapshot
	if err := readJSON(path, &snap); err != nil {
		return nil, err
	}
	if !snap.State.IsValid() {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrInvalidState, path)
	}
	return &snap, nil
}

func SaveFluidSnapshot(path string, snap fluid.Snapshot) error {
	return writeJSON(path, snap)
}

// LoadFluidSnapshot reads a grid snapshot. Size checks happen on Restore.
func LoadFluidSnapshot(path string) (*fluid.Snapshot, error) {
	var snap fluid.Snapshot
	if err := readJSON(path, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
