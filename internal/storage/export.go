package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

type ExportData struct {
	Scenario    string             `json:"scenario"`
	Integrator  string             `json:"integrator"`
	Step        float64            `json:"step"`
	Frame       float64            `json:"frame"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Times       []float64          `json:"times"`
	States      []dynamo.State     `json:"states"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewExportData copies result into an export record described by meta.
func NewExportData(meta RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		Scenario:    meta.Scenario,
		Integrator:  meta.Integrator,
		Step:        meta.Step,
		Frame:       meta.Frame,
		Duration:    meta.Duration,
		Steps:       result.Steps,
		EnergyDrift: result.EnergyDrift,
		Times:       result.Times,
		States:      result.States,
		Metrics:     result.Metrics,
	}
}

func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile writes data to path, or to stdout when path is "-".
func ExportJSONFile(path string, data ExportData) error {
	if path == "-" {
		return ExportJSON(os.Stdout, data)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, data)
}
