package kb

// EventKind classifies a change to the knowledge base
type EventKind uint8

const (
	// EventStored: a structurally new item entered storage
	EventStored EventKind = iota + 1
	// EventMerged: an existing item gained another justification
	EventMerged
	// EventAsserted: a previously derived-only item was asserted directly
	EventAsserted
	// EventDemoted: retraction cleared the asserted flag of a supported fact
	EventDemoted
	// EventRemoved: an item left storage
	EventRemoved
	// EventRefused: a retraction was ignored
	EventRefused
)

func (k EventKind) String() string {
	switch k {
	case EventStored:
		return "stored"
	case EventMerged:
		return "merged"
	case EventAsserted:
		return "asserted"
	case EventDemoted:
		return "demoted"
	case EventRemoved:
		return "removed"
	case EventRefused:
		return "refused"
	default:
		return "unknown"
	}
}

// Event describes one change. Support is set when the change was caused by a
// derivation (EventStored of a derived item, EventMerged).
type Event struct {
	Kind    EventKind
	Node    Info
	Support *Support
}

// Observer receives events synchronously while the knowledge base lock is
// held. It must not call back into the knowledge base.
type Observer func(Event)
