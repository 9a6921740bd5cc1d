package engine

import "fmt"

// EventKind tags a domain event emitted by a rules operation.
type EventKind string

const (
	EventLevelUp          EventKind = "level_up"
	EventCrewLevelUp      EventKind = "crew_level_up"
	EventAllyLevelUp      EventKind = "ally_level_up"
	EventBondLevelUp      EventKind = "bond_level_up"
	EventReputationShift  EventKind = "reputation_shift"
	EventAlignmentChange  EventKind = "alignment_change"
	EventMilestoneReached EventKind = "milestone_reached"
	EventQuestCompleted   EventKind = "quest_completed"
	EventItemGained       EventKind = "item_gained"
	EventShipAwarded      EventKind = "ship_awarded"
)

// Event is a single thing that happened during an operation, in order. The
// presentation layer turns these into embed lines; nothing downstream
// branches on them.
type Event struct {
	Kind    EventKind
	Subject string // faction, quest, ally or item name
	Value   int64  // level reached, score delta, item count
	Detail  string // preformatted extra text where a number is not enough
}

// String renders a short log form of the event.
func (e Event) String() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s(%s: %s)", e.Kind, e.Subject, e.Detail)
	}
	return fmt.Sprintf("%s(%s: %d)", e.Kind, e.Subject, e.Value)
}
