package trace

import (
	"fmt"
	"strings"
)

// Level controls how fine-grained the recorded events are.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError records nothing on its own; ring mode still dumps at exit.
	LevelError
	LevelPhase  // driver + pass
	LevelDetail // + loop
	LevelDebug  // + every executed step
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// finest scope recorded per level
var levelScopes = [...]Scope{0, 0, ScopePass, ScopeLoop, ScopeStmt}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScopes) && scope != 0 && scope <= levelScopes[l]
}
