package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint     // instant event
	KindHeartbeat // periodic liveness signal
)

var kindNames = [...]string{
	KindBegin:     "begin",
	KindEnd:       "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

// kindMarks prefix the event name in text output.
var kindMarks = [...]string{
	KindBegin:     "→",
	KindEnd:       "←",
	KindPoint:     "•",
	KindHeartbeat: "♡",
}

func (k Kind) String() string { return nameOf(kindNames[:], k) }

// Scope is the granularity of an event. Lower values are coarser: a run
// holds units, a unit runs passes, passes trigger imports and touch
// elements.
type Scope uint8

const (
	ScopeRun     Scope = iota + 1 // one CLI invocation over all units
	ScopeUnit                     // one document: load, parse, lower
	ScopePass                     // one pass over a document
	ScopeImport                   // loading an imported document
	ScopeElement                  // work on a single element
)

var scopeNames = [...]string{
	ScopeRun:     "run",
	ScopeUnit:    "unit",
	ScopePass:    "pass",
	ScopeImport:  "import",
	ScopeElement: "element",
}

func (s Scope) String() string { return nameOf(scopeNames[:], s) }

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

// Attr is a key/value pair attached to an event. Order is preserved.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Unit     string // document being compiled, empty outside a unit
	Name     string // "compile", "lower_menus", "import:std-widgets"
	Detail   string
	Attrs    []Attr
}

// Attr returns the value of the first attribute named key.
func (ev *Event) Attr(key string) (string, bool) {
	for _, a := range ev.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
