package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // ring only, dumped when lowering fails
	LevelPhase               // runs, units and passes
	LevelDetail              // plus imports
	LevelDebug               // plus per-element events
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// finest scope each level lets through
var levelScopes = [...]Scope{
	LevelError:  ScopePass,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeImport,
	LevelDebug:  ScopeElement,
}

func (l Level) String() string { return nameOf(levelNames[:], l) }

// ParseLevel converts a flag value to a Level. Empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScopes) || scope == 0 {
		return false
	}
	return scope <= levelScopes[l]
}

// gate is the level check shared by the tracers.
type gate struct {
	level Level
}

func (g gate) Level() Level  { return g.level }
func (g gate) Enabled() bool { return g.level > LevelOff }

// admits lets heartbeats through regardless of level.
func (g gate) admits(ev *Event) bool {
	return ev.Kind == KindHeartbeat || g.level.ShouldEmit(ev.Scope)
}
