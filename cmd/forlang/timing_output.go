package main

import (
	"fmt"
	"io"
	"time"

	"forlang/internal/pipeline"
)

// printStageTimings prints one "parsed 1.2 ms" line per stage that ran.
func printStageTimings(out io.Writer, timings pipeline.Timings) {
	for _, st := range pipeline.Stages() {
		if !timings.Has(st) {
			continue
		}
		ms := float64(timings.Duration(st)) / float64(time.Millisecond)
		fmt.Fprintf(out, "%s %.1f ms\n", st.Past(), ms)
	}
}
