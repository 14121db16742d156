package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrCorruptRun = errors.New("storage: corrupt run data")

// columnsPerParticle is position then velocity, three components each.
const columnsPerParticle = 6

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Step        float64            `json:"step"`
	Frame       float64            `json:"frame"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	Particles   int                `json:"particles"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv for result under a new run
// directory and returns the run ID. ID, Timestamp, Particles, Steps,
// EnergyDrift and Metrics are filled from the store and result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	ts := s.now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, ts.UnixNano())
	meta.Timestamp = ts
	meta.Steps = result.Steps
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	if len(result.States) > 0 {
		meta.Particles = result.States[0].Len()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(result.States) > 0 {
		header := []string{"time"}
		for i := 0; i < result.States[0].Len(); i++ {
			for _, slot := range []string{"x", "y", "z", "vx", "vy", "vz"} {
				header = append(header, fmt.Sprintf("p%d_%s", i, slot))
			}
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for i, x := range result.States {
		row := make([]string, 0, 1+columnsPerParticle*x.Len())
		row = append(row, formatFloat(result.Times[i]))
		for j := range x.Positions {
			p, v := x.Positions[j], x.Velocities[j]
			for _, c := range []float64{p.X, p.Y, p.Z, v.X, v.Y, v.Z} {
				row = append(row, formatFloat(c))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var meta RunMetadata
		if err := readJSON(filepath.Join(s.baseDir, entry.Name(), "metadata.json"), &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	var meta RunMetadata
	if err := readJSON(filepath.Join(s.baseDir, runID, "metadata.json"), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates reads a run's trajectory back.
func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptRun, err)
	}
	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]dynamo.State, 0, len(records)-1)
	for i, record := range records[1:] {
		if (len(record)-1)%columnsPerParticle != 0 {
			return nil, nil, fmt.Errorf("%w: row %d has %d columns", ErrCorruptRun, i+1, len(record))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row %d: %v", ErrCorruptRun, i+1, err)
			}
			vals[j] = v
		}

		x := dynamo.NewState((len(vals) - 1) / columnsPerParticle)
		for p := range x.Positions {
			c := vals[1+p*columnsPerParticle:]
			x.Positions[p] = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
			x.Velocities[p] = r3.Vec{X: c[3], Y: c[4], Z: c[5]}
		}
		times = append(times, vals[0])
		states = append(states, x)
	}
	return states, times, nil
}
