package driver

import (
	"encoding/json"
	"fmt"

	"forlang/internal/diag"
	"forlang/internal/observ"
	"forlang/internal/source"
)

// timingNote is the JSON carried by the single note of an ObsTimings diagnostic.
type timingNote struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records report in bag as an info diagnostic. It is
// added even when the bag is already full: timings are requested explicitly.
func appendTimingDiagnostic(bag *diag.Bag, path string, report observ.Report) {
	if bag == nil {
		return
	}
	data, err := json.Marshal(timingNote{Kind: "pipeline", Path: path, TotalMS: report.TotalMS, Phases: report.Phases})
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings: total %.2f ms", report.TotalMS)
	if path != "" {
		msg += " for " + path
	}
	// у тайминга нет позиции в исходнике
	var nowhere source.Span
	d := diag.New(diag.SevInfo, diag.ObsTimings, nowhere, msg).WithNote(nowhere, string(data))
	if !bag.Add(d) {
		extra := diag.NewBag(1)
		extra.Add(d)
		bag.Merge(extra)
	}
}
