// Package dragdrop turns a completed drag gesture into at most one grouping
// command.
package dragdrop

import "fmt"

// Payload identifies what was dragged.
type Payload interface{ payload() }

// TabPayload is a dragged tab. FromGroupID is the group it was dragged out
// of, nil when it was ungrouped.
type TabPayload struct {
	TabID       string
	FromGroupID *string
}

// GroupPayload is a dragged group.
type GroupPayload struct {
	GroupID string
}

func (TabPayload) payload()   {}
func (GroupPayload) payload() {}

// Target identifies where the gesture ended. Variants that need an id carry
// one; there is no way to build them without it.
type Target interface{ target() }

// TabTarget is a drop onto a tab.
type TabTarget struct{ ID string }

// GroupTarget is a drop onto a group.
type GroupTarget struct{ ID string }

// RootTarget is a drop onto the flat tab list with no anchor.
type RootTarget struct{}

// RootAnchorTarget is a drop onto the flat list next to an anchor group.
type RootAnchorTarget struct{ AnchorID string }

// NoTarget is a gesture that ended over nothing usable.
type NoTarget struct{}

func (TabTarget) target()        {}
func (GroupTarget) target()      {}
func (RootTarget) target()       {}
func (RootAnchorTarget) target() {}
func (NoTarget) target()         {}

// Kind is the wire name of a payload or target type.
type Kind string

const (
	KindTab   Kind = "TAB"
	KindGroup Kind = "GROUP"
	KindRoot  Kind = "ROOT"
)

// ParseTarget maps the nullable wire shape onto a Target. Tab and group
// targets without an id become NoTarget; a root target carries the id as
// its anchor when present.
func ParseTarget(kind Kind, targetID *string) Target {
	hasID := targetID != nil && *targetID != ""
	switch kind {
	case KindTab:
		if hasID {
			return TabTarget{ID: *targetID}
		}
	case KindGroup:
		if hasID {
			return GroupTarget{ID: *targetID}
		}
	case KindRoot:
		if hasID {
			return RootAnchorTarget{AnchorID: *targetID}
		}
		return RootTarget{}
	}
	return NoTarget{}
}

// ParsePayload maps the wire shape onto a Payload.
func ParsePayload(kind Kind, id string, fromContainerID *string) (Payload, error) {
	if id == "" {
		return nil, fmt.Errorf("drag payload: missing id")
	}
	switch kind {
	case KindTab:
		return TabPayload{TabID: id, FromGroupID: fromContainerID}, nil
	case KindGroup:
		return GroupPayload{GroupID: id}, nil
	default:
		return nil, fmt.Errorf("drag payload: unsupported kind %q", kind)
	}
}
