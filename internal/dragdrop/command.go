package dragdrop

import (
	"github.com/nikbrunner/tabscope/internal/logging"
	"go.uber.org/zap"
)

// Command is a single grouping engine call.
type Command interface{ command() }

// CreateGroup forms a new group holding exactly the two tabs.
type CreateGroup struct{ TabA, TabB string }

// AddToGroup moves a tab into an existing group, first taking it out of
// FromGroupID when set.
type AddToGroup struct {
	TabID       string
	GroupID     string
	FromGroupID *string
}

// Ungroup returns a tab to the flat list.
type Ungroup struct {
	TabID       string
	FromGroupID *string
}

// ReorderGroup moves a group to the anchor's position.
type ReorderGroup struct{ GroupID, AnchorID string }

func (CreateGroup) command()  {}
func (AddToGroup) command()   {}
func (Ungroup) command()      {}
func (ReorderGroup) command() {}

// GroupingEngine owns groups and their order.
type GroupingEngine interface {
	CreateGroupFromTabs(a, b string) error
	AddTabToGroup(tabID, groupID string, previousGroupID *string) error
	UngroupTab(tabID string, previousGroupID *string) error
	ReorderGroup(groupID, anchorGroupID string) error
}

// Resolve maps a gesture to a command. It returns nil when the combination
// does nothing, e.g. a group dropped on a tab or an item dropped on itself.
func Resolve(p Payload, t Target) Command {
	switch p := p.(type) {
	case TabPayload:
		switch t := t.(type) {
		case TabTarget:
			if t.ID == p.TabID {
				return nil
			}
			return CreateGroup{TabA: p.TabID, TabB: t.ID}
		case GroupTarget:
			return AddToGroup{TabID: p.TabID, GroupID: t.ID, FromGroupID: p.FromGroupID}
		case RootTarget, RootAnchorTarget:
			return Ungroup{TabID: p.TabID, FromGroupID: p.FromGroupID}
		}
	case GroupPayload:
		if t, ok := t.(RootAnchorTarget); ok && t.AnchorID != p.GroupID {
			return ReorderGroup{GroupID: p.GroupID, AnchorID: t.AnchorID}
		}
	}
	return nil
}

// Execute issues cmd to the engine. A nil command is a no-op.
func Execute(engine GroupingEngine, cmd Command) error {
	switch c := cmd.(type) {
	case CreateGroup:
		return engine.CreateGroupFromTabs(c.TabA, c.TabB)
	case AddToGroup:
		return engine.AddTabToGroup(c.TabID, c.GroupID, c.FromGroupID)
	case Ungroup:
		return engine.UngroupTab(c.TabID, c.FromGroupID)
	case ReorderGroup:
		return engine.ReorderGroup(c.GroupID, c.AnchorID)
	default:
		return nil
	}
}

// Coordinator applies completed gestures to a grouping engine.
type Coordinator struct {
	engine GroupingEngine
	logger *zap.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(engine GroupingEngine, logger *zap.Logger) *Coordinator {
	return &Coordinator{engine: engine, logger: logging.OrNop(logger)}
}

// Drop resolves a gesture and issues at most one command. The resolved
// command is returned, nil when nothing was issued.
func (c *Coordinator) Drop(p Payload, t Target) (Command, error) {
	cmd := Resolve(p, t)
	if cmd == nil {
		c.logger.Debug("Drop ignored", zap.Any("payload", p), zap.Any("target", t))
		return nil, nil
	}
	if err := Execute(c.engine, cmd); err != nil {
		return cmd, err
	}
	c.logger.Debug("Drop applied", zap.Any("command", cmd))
	return cmd, nil
}
