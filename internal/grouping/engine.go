// Package grouping is a small grouping engine: an ordered list of named tab
// groups, persisted as JSON.
package grouping

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/storage"
)

const (
	Namespace = "groups"
	groupsKey = "groups"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrSameTab       = errors.New("cannot group a tab with itself")
)

// Group is a named, ordered set of tabs.
type Group struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	TabIDs []string `json:"tabIds"`
}

// Engine holds all groups in display order.
type Engine struct {
	kv      storage.KV
	groups  []Group
	counter int
}

// Open loads groups from kv.
func Open(kv storage.KV) (*Engine, error) {
	e := &Engine{kv: kv, groups: []Group{}}

	raw, ok, err := kv.Get(Namespace, groupsKey)
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.groups); err != nil {
			return nil, fmt.Errorf("decode groups: %w", err)
		}
	}
	e.counter = len(e.groups)
	return e, nil
}

// Groups returns a copy of all groups in order.
func (e *Engine) Groups() []Group {
	out := make([]Group, len(e.groups))
	for i, g := range e.groups {
		g.TabIDs = append([]string{}, g.TabIDs...)
		out[i] = g
	}
	return out
}

// GroupOf returns the id of the group holding tabID.
func (e *Engine) GroupOf(tabID string) (string, bool) {
	for _, g := range e.groups {
		for _, id := range g.TabIDs {
			if id == tabID {
				return g.ID, true
			}
		}
	}
	return "", false
}

// CreateGroupFromTabs forms a new group holding exactly a and b, taking them
// out of any group they were in.
func (e *Engine) CreateGroupFromTabs(a, b string) error {
	if a == b {
		return fmt.Errorf("create group from %s: %w", a, ErrSameTab)
	}
	e.detach(a)
	e.detach(b)
	e.counter++
	e.groups = append(e.groups, Group{
		ID:     model.GenerateID(),
		Name:   fmt.Sprintf("Group %d", e.counter),
		TabIDs: []string{a, b},
	})
	return e.save()
}

// AddTabToGroup moves tabID into groupID. previousGroupID, when set, names
// the group to take it out of; otherwise it is taken out of whichever group
// holds it.
func (e *Engine) AddTabToGroup(tabID, groupID string, previousGroupID *string) error {
	if e.indexOf(groupID) < 0 {
		return fmt.Errorf("add %s to %s: %w", tabID, groupID, ErrGroupNotFound)
	}
	if current, ok := e.GroupOf(tabID); ok && current == groupID {
		return nil
	}
	e.remove(tabID, previousGroupID)

	// Removal may have dropped an emptied group and shifted indexes
	i := e.indexOf(groupID)
	e.groups[i].TabIDs = append(e.groups[i].TabIDs, tabID)
	return e.save()
}

// UngroupTab returns tabID to the flat list.
func (e *Engine) UngroupTab(tabID string, previousGroupID *string) error {
	e.remove(tabID, previousGroupID)
	return e.save()
}

// ReorderGroup moves groupID to the position currently held by anchorGroupID.
func (e *Engine) ReorderGroup(groupID, anchorGroupID string) error {
	from := e.indexOf(groupID)
	if from < 0 {
		return fmt.Errorf("reorder %s: %w", groupID, ErrGroupNotFound)
	}
	to := e.indexOf(anchorGroupID)
	if to < 0 {
		return fmt.Errorf("reorder anchor %s: %w", anchorGroupID, ErrGroupNotFound)
	}
	if from == to {
		return nil
	}

	g := e.groups[from]
	rest := append(append([]Group{}, e.groups[:from]...), e.groups[from+1:]...)
	e.groups = append(rest[:to], append([]Group{g}, rest[to:]...)...)
	return e.save()
}

// Prune drops tabs that no longer exist and any groups left empty.
func (e *Engine) Prune(existing []string) error {
	keep := make(map[string]bool, len(existing))
	for _, id := range existing {
		keep[id] = true
	}

	groups := e.groups[:0]
	for _, g := range e.groups {
		var tabs []string
		for _, id := range g.TabIDs {
			if keep[id] {
				tabs = append(tabs, id)
			}
		}
		if len(tabs) > 0 {
			g.TabIDs = tabs
			groups = append(groups, g)
		}
	}
	e.groups = groups
	return e.save()
}

// remove takes tabID out of previousGroupID, then out of any other group in
// case previousGroupID was stale. A tab is in at most one group.
func (e *Engine) remove(tabID string, previousGroupID *string) {
	if previousGroupID != nil {
		if i := e.indexOf(*previousGroupID); i >= 0 {
			e.removeAt(i, tabID)
		}
	}
	e.detach(tabID)
}

func (e *Engine) detach(tabID string) {
	for i := len(e.groups) - 1; i >= 0; i-- {
		e.removeAt(i, tabID)
	}
}

// removeAt drops tabID from group i, deleting the group when it empties.
func (e *Engine) removeAt(i int, tabID string) {
	g := &e.groups[i]
	for j, id := range g.TabIDs {
		if id == tabID {
			g.TabIDs = append(g.TabIDs[:j], g.TabIDs[j+1:]...)
			break
		}
	}
	if len(g.TabIDs) == 0 {
		e.groups = append(e.groups[:i], e.groups[i+1:]...)
	}
}

func (e *Engine) indexOf(groupID string) int {
	for i := range e.groups {
		if e.groups[i].ID == groupID {
			return i
		}
	}
	return -1
}

func (e *Engine) save() error {
	data, err := json.Marshal(e.groups)
	if err != nil {
		return fmt.Errorf("encode groups: %w", err)
	}
	if err := e.kv.Set(Namespace, groupsKey, string(data)); err != nil {
		return fmt.Errorf("write groups: %w", err)
	}
	return nil
}
