package resource

// Handle is an opaque reference to a live object in a registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind names the interface or wrapper type of a registered object,
// e.g. "Stage" or "TemscriptMockObject".
type Kind string

// Event types for object lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents an object lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Kind   Kind
	Type   EventType
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is optionally implemented by registered values that need cleanup
// when they are removed from a registry. Drop must tolerate repeated calls.
type Dropper interface {
	Drop()
}
