package timer

// EventKind says which operation produced an Event.
type EventKind int

const (
	EventConfigured EventKind = iota
	EventStarted
	EventResumed
	EventTicked
	EventPaused
	EventCompleted
	EventReset
)

var eventNames = map[EventKind]string{
	EventConfigured: "configured",
	EventStarted:    "started",
	EventResumed:    "resumed",
	EventTicked:     "ticked",
	EventPaused:     "paused",
	EventCompleted:  "completed",
	EventReset:      "reset",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is delivered to observers after every mutation of a Machine.
type Event struct {
	Kind     EventKind
	From     State
	To       State
	Snapshot Snapshot
}

// Subscribe registers fn to be called synchronously after every change. The
// returned func removes it again.
func (m *Machine) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	return func() { delete(m.observers, id) }
}

func (m *Machine) notify(kind EventKind, from State) {
	if len(m.observers) == 0 {
		return
	}
	ev := Event{Kind: kind, From: from, To: m.state, Snapshot: m.Snapshot()}
	for id := 0; id < m.nextObs; id++ {
		if fn, ok := m.observers[id]; ok {
			fn(ev)
		}
	}
}
