package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"forlang/internal/pipeline"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	files := []string{"a.fl", "b.fl"}
	m := NewProgressModel("forlang run", files, nil).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.fl", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	assert.Equal(t, "parsing", m.items[0].status)

	m.applyEvent(pipeline.Event{File: "a.fl", Stage: pipeline.StageRun, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "b.fl", Stage: pipeline.StageRun, Status: pipeline.StatusError, Err: errors.New("boom")})
	// поздние события не перетирают финальный статус
	m.applyEvent(pipeline.Event{File: "a.fl", Stage: pipeline.StageRun, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "zzz.fl", Status: pipeline.StatusWorking})

	assert.Equal(t, "done", m.items[0].status)
	assert.Equal(t, "error", m.items[1].status)
	assert.Equal(t, 2, m.finished())
	assert.InDelta(t, 1.0, m.percent(), 1e-9)
	assert.Contains(t, m.View(), "(2/2)")
}

func TestProgressModelQuitsOnClose(t *testing.T) {
	ch := make(chan pipeline.Event)
	close(ch)
	m := NewProgressModel("run", []string{"a.fl"}, ch).(*progressModel)
	msg := m.listenForEvent()()
	_, ok := msg.(doneMsg)
	assert.True(t, ok)
	m.Update(msg)
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "done: run")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "very-lo...", truncate("very-long-name.fl", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
