package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format is the on-disk encoding of events.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatForPath picks NDJSON for .ndjson and .jsonl files, text otherwise.
func FormatForPath(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// FormatEvent returns one encoded line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	var sb strings.Builder
	_ = writeEvent(&sb, ev, format)
	return []byte(sb.String())
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

func writeEvent(w io.Writer, ev *Event, format Format) error {
	if format == FormatNDJSON {
		j := jsonEvent{
			Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
			Seq:      ev.Seq,
			Kind:     ev.Kind.String(),
			Scope:    ev.Scope.String(),
			SpanID:   ev.SpanID,
			ParentID: ev.ParentID,
			Name:     ev.Name,
			Detail:   ev.Detail,
		}
		if len(ev.Attrs) > 0 {
			j.Attrs = make(map[string]string, len(ev.Attrs))
			for _, a := range ev.Attrs {
				j.Attrs[a.Key] = a.Value
			}
		}
		return json.NewEncoder(w).Encode(j)
	}
	_, err := io.WriteString(w, textLine(ev))
	return err
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// textLine renders "[seq] <indent><mark>name (detail) {k=v, ...}".
// Indentation follows the scope, not the span tree.
func textLine(ev *Event) string {
	var sb strings.Builder
	sb.WriteByte('[')
	seq := strconv.FormatUint(ev.Seq, 10)
	sb.WriteString(strings.Repeat(" ", max(0, 6-len(seq))))
	sb.WriteString(seq)
	sb.WriteString("] ")
	if ev.Scope > ScopeDriver {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}
	sb.WriteString(kindMarks[ev.Kind])
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}
	for i, a := range ev.Attrs {
		if i == 0 {
			sb.WriteString(" {")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Key + "=" + a.Value)
	}
	if len(ev.Attrs) > 0 {
		sb.WriteByte('}')
	}
	sb.WriteByte('\n')
	return sb.String()
}
