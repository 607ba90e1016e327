package observ

import (
	"fmt"
	"io"
	"time"
)

type phase struct {
	name    string
	started time.Time
	elapsed time.Duration
	note    string
}

// Timer measures the load/parse/run phases of one program.
// Not safe for concurrent use; each file gets its own Timer.
type Timer struct {
	phases []phase
	now    func() time.Time
}

func NewTimer() *Timer {
	return &Timer{phases: make([]phase, 0, 4), now: time.Now}
}

// Begin opens a phase; pass the returned handle to End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, phase{name: name, started: t.now()})
	return len(t.phases) - 1
}

// End closes phase idx. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if p := t.at(idx); p != nil {
		p.elapsed = t.now().Sub(p.started)
		p.note = note
	}
}

func (t *Timer) Duration(idx int) time.Duration {
	if p := t.at(idx); p != nil {
		return p.elapsed
	}
	return 0
}

func (t *Timer) at(idx int) *phase {
	if idx < 0 || idx >= len(t.phases) {
		return nil
	}
	return &t.phases[idx]
}

// PhaseReport is one phase in serializable form.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.elapsed
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.elapsed), Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

// WriteText prints the report as an aligned table ending with a total row.
func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-8s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-8s %7.2f ms\n", "total", r.TotalMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
