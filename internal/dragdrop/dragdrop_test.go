package dragdrop_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nikbrunner/tabscope/internal/dragdrop"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type fakeEngine struct {
	calls []string
	err   error
}

func (f *fakeEngine) CreateGroupFromTabs(a, b string) error {
	f.calls = append(f.calls, fmt.Sprintf("create(%s,%s)", a, b))
	return f.err
}

func (f *fakeEngine) AddTabToGroup(tabID, groupID string, prev *string) error {
	f.calls = append(f.calls, fmt.Sprintf("add(%s,%s,%s)", tabID, groupID, deref(prev)))
	return f.err
}

func (f *fakeEngine) UngroupTab(tabID string, prev *string) error {
	f.calls = append(f.calls, fmt.Sprintf("ungroup(%s,%s)", tabID, deref(prev)))
	return f.err
}

func (f *fakeEngine) ReorderGroup(groupID, anchor string) error {
	f.calls = append(f.calls, fmt.Sprintf("reorder(%s,%s)", groupID, anchor))
	return f.err
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func strPtr(s string) *string { return &s }

func TestCoordinator_Drop(t *testing.T) {
	g1 := strPtr("g1")

	tests := []struct {
		name    string
		payload dragdrop.Payload
		target  dragdrop.Target
		want    []string
	}{
		{"tab on tab", dragdrop.TabPayload{TabID: "a"}, dragdrop.TabTarget{ID: "b"}, []string{"create(a,b)"}},
		{"tab on group", dragdrop.TabPayload{TabID: "a", FromGroupID: g1}, dragdrop.GroupTarget{ID: "g2"}, []string{"add(a,g2,g1)"}},
		{"ungrouped tab on group", dragdrop.TabPayload{TabID: "a"}, dragdrop.GroupTarget{ID: "g2"}, []string{"add(a,g2,<nil>)"}},
		{"tab on root", dragdrop.TabPayload{TabID: "a", FromGroupID: g1}, dragdrop.RootTarget{}, []string{"ungroup(a,g1)"}},
		{"tab on anchored root", dragdrop.TabPayload{TabID: "a"}, dragdrop.RootAnchorTarget{AnchorID: "g3"}, []string{"ungroup(a,<nil>)"}},
		{"group on anchored root", dragdrop.GroupPayload{GroupID: "g1"}, dragdrop.RootAnchorTarget{AnchorID: "g3"}, []string{"reorder(g1,g3)"}},
		{"group on root without anchor", dragdrop.GroupPayload{GroupID: "g1"}, dragdrop.RootTarget{}, nil},
		{"group on tab", dragdrop.GroupPayload{GroupID: "g1"}, dragdrop.TabTarget{ID: "b"}, nil},
		{"group on group", dragdrop.GroupPayload{GroupID: "g1"}, dragdrop.GroupTarget{ID: "g2"}, nil},
		{"tab on nothing", dragdrop.TabPayload{TabID: "a"}, dragdrop.NoTarget{}, nil},
		{"tab on itself", dragdrop.TabPayload{TabID: "a"}, dragdrop.TabTarget{ID: "a"}, nil},
		{"group anchored on itself", dragdrop.GroupPayload{GroupID: "g1"}, dragdrop.RootAnchorTarget{AnchorID: "g1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			c := dragdrop.NewCoordinator(engine, nil)

			cmd, err := c.Drop(tt.payload, tt.target)
			assert.NilError(t, err)
			assert.DeepEqual(t, engine.calls, tt.want)
			assert.Equal(t, cmd == nil, tt.want == nil)
		})
	}
}

func TestCoordinator_EngineError(t *testing.T) {
	engine := &fakeEngine{err: errors.New("boom")}
	c := dragdrop.NewCoordinator(engine, nil)

	cmd, err := c.Drop(dragdrop.TabPayload{TabID: "a"}, dragdrop.TabTarget{ID: "b"})
	assert.ErrorContains(t, err, "boom")
	assert.DeepEqual(t, cmd, dragdrop.Command(dragdrop.CreateGroup{TabA: "a", TabB: "b"}))
	assert.Check(t, is.Len(engine.calls, 1))
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name string
		kind dragdrop.Kind
		id   *string
		want dragdrop.Target
	}{
		{"tab with id", dragdrop.KindTab, strPtr("t1"), dragdrop.TabTarget{ID: "t1"}},
		{"tab without id", dragdrop.KindTab, nil, dragdrop.NoTarget{}},
		{"tab with empty id", dragdrop.KindTab, strPtr(""), dragdrop.NoTarget{}},
		{"group with id", dragdrop.KindGroup, strPtr("g1"), dragdrop.GroupTarget{ID: "g1"}},
		{"group without id", dragdrop.KindGroup, nil, dragdrop.NoTarget{}},
		{"root without id", dragdrop.KindRoot, nil, dragdrop.RootTarget{}},
		{"root with anchor", dragdrop.KindRoot, strPtr("g2"), dragdrop.RootAnchorTarget{AnchorID: "g2"}},
		{"unknown kind", dragdrop.Kind("WINDOW"), strPtr("w"), dragdrop.NoTarget{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.DeepEqual(t, dragdrop.ParseTarget(tt.kind, tt.id), tt.want)
		})
	}
}

// A missing required target id never reaches the engine.
func TestResolve_MissingIDIssuesNothing(t *testing.T) {
	payloads := []dragdrop.Payload{
		dragdrop.TabPayload{TabID: "a"},
		dragdrop.GroupPayload{GroupID: "g1"},
	}
	for _, p := range payloads {
		for _, kind := range []dragdrop.Kind{dragdrop.KindTab, dragdrop.KindGroup} {
			cmd := dragdrop.Resolve(p, dragdrop.ParseTarget(kind, nil))
			assert.Assert(t, cmd == nil, "payload %#v kind %s", p, kind)
		}
	}
	assert.Assert(t, dragdrop.Resolve(dragdrop.GroupPayload{GroupID: "g1"}, dragdrop.ParseTarget(dragdrop.KindRoot, nil)) == nil)
}

func TestParsePayload(t *testing.T) {
	p, err := dragdrop.ParsePayload(dragdrop.KindTab, "t1", strPtr("g1"))
	assert.NilError(t, err)
	assert.DeepEqual(t, p, dragdrop.Payload(dragdrop.TabPayload{TabID: "t1", FromGroupID: strPtr("g1")}))

	p, err = dragdrop.ParsePayload(dragdrop.KindGroup, "g1", nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, p, dragdrop.Payload(dragdrop.GroupPayload{GroupID: "g1"}))

	_, err = dragdrop.ParsePayload(dragdrop.KindRoot, "x", nil)
	assert.ErrorContains(t, err, "unsupported kind")

	_, err = dragdrop.ParsePayload(dragdrop.KindTab, "", nil)
	assert.ErrorContains(t, err, "missing id")
}
