package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"forlang/internal/trace"
)

func addTraceFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("trace", "", "trace output file (- for stderr, .ndjson for NDJSON)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
}

type traceFlags struct {
	output    string
	level     trace.Level
	mode      trace.StorageMode
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(pf *pflag.FlagSet) (traceFlags, error) {
	var (
		tf                traceFlags
		levelStr, modeStr string
		errs              []error
	)
	tf.output, _ = pf.GetString("trace")
	levelStr, _ = pf.GetString("trace-level")
	modeStr, _ = pf.GetString("trace-mode")
	tf.ringSize, _ = pf.GetInt("trace-ring-size")
	tf.heartbeat, _ = pf.GetDuration("trace-heartbeat")

	var err error
	if tf.level, err = trace.ParseLevel(levelStr); err != nil {
		errs = append(errs, fmt.Errorf("--trace-level: %w", err))
	}
	if tf.mode, err = trace.ParseMode(modeStr); err != nil {
		errs = append(errs, fmt.Errorf("--trace-mode: %w", err))
	}
	// --trace без уровня подразумевает phase
	if tf.level == trace.LevelOff && tf.output != "" && !pf.Changed("trace-level") {
		tf.level = trace.LevelPhase
	}
	return tf, errors.Join(errs...)
}

// setupTracing installs the tracer selected by the --trace* flags into the
// command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	if tf.level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      tf.level,
		Mode:       tf.mode,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
		Heartbeat:  tf.heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	var hb *trace.Heartbeat
	if tf.heartbeat > 0 {
		hb = trace.StartHeartbeat(tracer, tf.heartbeat)
	}
	warn := func(what string, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %s: %v\n", what, err)
		}
	}
	return func() {
		hb.Stop()
		if ring, ok := tracer.(*trace.RingTracer); ok {
			warn("dump", dumpRing(ring, tf.output))
		}
		warn("flush", tracer.Flush())
		warn("close", tracer.Close())
	}, nil
}

func dumpRing(ring *trace.RingTracer, path string) error {
	if path == "" || path == "-" {
		return ring.Dump(os.Stderr, trace.FormatText)
	}
	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return err
	}
	return errors.Join(ring.Dump(f, trace.FormatForPath(path)), f.Close())
}
