package profile_test

import (
	"errors"
	"testing"

	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/profile"
	"github.com/nikbrunner/tabscope/internal/storage"
	"github.com/nikbrunner/tabscope/internal/tabstore"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func newTabs(t *testing.T, mw ...tabstore.Middleware) *tabstore.Store {
	t.Helper()
	return tabstore.New(tabstore.Params{
		Middleware: mw,
		Initial: tabstore.State{
			Tabs: []model.Tab{
				{ID: "t1", ContextID: "profile_default", URL: "https://go.dev", Title: "Go"},
				{ID: "t2", ContextID: "profile_w1", URL: "https://pkg.go.dev", Title: "Packages"},
				{ID: "t3", ContextID: "private", Private: true, URL: "https://example.com", Title: "Example"},
			},
			SelectedID: "t1",
		},
	})
}

// rejectAction fails every action for which match returns true.
func rejectAction(match func(tabstore.Action) bool) tabstore.Middleware {
	return func(s *tabstore.Store, next tabstore.Dispatch) tabstore.Dispatch {
		return func(a tabstore.Action) error {
			if match(a) {
				return errors.New("engine refused")
			}
			return next(a)
		}
	}
}

type memIndex map[string]string

func (m memIndex) SetTabProfile(tabID, profileID string) error { m[tabID] = profileID; return nil }
func (m memIndex) RemoveTab(tabID string) error                { delete(m, tabID); return nil }

func TestMigrateTab_AlreadyInTarget(t *testing.T) {
	tabs := newTabs(t)
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs})
	before := tabs.State()

	res, err := m.MigrateTab("t2", "w1")
	assert.NilError(t, err)
	assert.Equal(t, res.Outcome, profile.AlreadyInTarget)
	assert.DeepEqual(t, tabs.State(), before)

	res, err = m.MigrateTab("t3", profile.PrivateTarget)
	assert.NilError(t, err)
	assert.Equal(t, res.Outcome, profile.AlreadyInTarget)
	_, ok := tabs.TabByID("t3")
	assert.Assert(t, ok, "same tab id must persist")
}

func TestMigrateTab_TabNotFound(t *testing.T) {
	m := profile.NewMigrator(profile.MigratorParams{Tabs: newTabs(t)})

	res, err := m.MigrateTab("missing", "w1")
	assert.NilError(t, err)
	assert.Equal(t, res.Outcome, profile.TabNotFound)
}

func TestMigrateTab_RecreatesInTarget(t *testing.T) {
	tabs := newTabs(t)
	index := memIndex{"t1": "default"}
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs, Index: index})

	res, err := m.MigrateTab("t1", "w1")
	assert.NilError(t, err)
	assert.Equal(t, res.Outcome, profile.Migrated)

	_, ok := tabs.TabByID("t1")
	assert.Assert(t, !ok, "original tab must be gone")
	assert.Check(t, is.Len(tabs.Tabs(), 3))

	moved, ok := tabs.TabByID(res.NewTabID)
	assert.Assert(t, ok)
	assert.Equal(t, moved.ContextID, "profile_w1")
	assert.Equal(t, moved.URL, "https://go.dev")
	assert.Equal(t, moved.Title, "Go")
	assert.Assert(t, !moved.Private)

	// t1 was selected, so its replacement is
	assert.Equal(t, tabs.SelectedID(), res.NewTabID)

	assert.DeepEqual(t, map[string]string(index), map[string]string{res.NewTabID: "w1"})
}

func TestMigrateTab_UnselectedStaysUnselected(t *testing.T) {
	tabs := newTabs(t)
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs})

	res, err := m.MigrateTab("t2", profile.PrivateTarget)
	assert.NilError(t, err)
	assert.Equal(t, res.Outcome, profile.Migrated)
	assert.Equal(t, tabs.SelectedID(), "t1")

	moved, _ := tabs.TabByID(res.NewTabID)
	assert.Equal(t, moved.ContextID, "private")
	assert.Assert(t, moved.Private)
}

func TestMigrateTab_CreateFailureKeepsOriginal(t *testing.T) {
	tabs := newTabs(t, rejectAction(func(a tabstore.Action) bool {
		_, ok := a.(tabstore.AddTabInContext)
		return ok
	}))
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs})
	before := tabs.State()

	res, err := m.MigrateTab("t1", "w1")
	assert.ErrorContains(t, err, "engine refused")
	assert.Equal(t, res.Outcome, profile.MigrationFailed)
	assert.Equal(t, res.NewTabID, "")
	assert.DeepEqual(t, tabs.State(), before)
}

func TestMigrateTab_SnapshotFailureLeavesNoDuplicate(t *testing.T) {
	tabs := newTabs(t, tabstore.Snapshot(&failingKV{KV: storage.NewMemoryKV()}))
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs})
	before := tabs.State()

	res, err := m.MigrateTab("t1", "w1")
	assert.ErrorContains(t, err, "write tab snapshot: disk full")
	assert.Equal(t, res.Outcome, profile.MigrationFailed)
	assert.DeepEqual(t, tabs.State(), before)
	assert.Check(t, is.Len(tabs.TabsInContext("profile_w1"), 1))
}

func TestMigrateTab_RemoveFailureIsCompensated(t *testing.T) {
	tabs := newTabs(t, rejectAction(func(a tabstore.Action) bool {
		r, ok := a.(tabstore.RemoveTab)
		return ok && r.ID == "t1"
	}))
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs})
	before := tabs.State()

	res, err := m.MigrateTab("t1", "w1")
	assert.ErrorContains(t, err, "remove original")
	assert.Equal(t, res.Outcome, profile.MigrationFailed)
	assert.DeepEqual(t, tabs.State(), before)
}

func TestMigrateTabs_CountsAndContinuesPastFailures(t *testing.T) {
	tabs := newTabs(t, rejectAction(func(a tabstore.Action) bool {
		add, ok := a.(tabstore.AddTabInContext)
		return ok && add.Tab.URL == "https://pkg.go.dev"
	}))
	m := profile.NewMigrator(profile.MigratorParams{Tabs: tabs})

	// t1 migrates, t2 fails on create, t3 migrates, missing is skipped
	n, err := m.MigrateTabs([]string{"t1", "t2", "t3", "missing"}, "w2")
	assert.Equal(t, n, 2)
	assert.ErrorContains(t, err, "engine refused")

	// No rollback: migrated tabs stay migrated, the failed one stays put
	assert.Check(t, is.Len(tabs.TabsInContext("profile_w2"), 2))
	t2, ok := tabs.TabByID("t2")
	assert.Assert(t, ok)
	assert.Equal(t, t2.ContextID, "profile_w1")
}

func TestMigrateTabs_AlreadyInTargetNotCounted(t *testing.T) {
	m := profile.NewMigrator(profile.MigratorParams{Tabs: newTabs(t)})

	n, err := m.MigrateTabs([]string{"t1", "t2"}, "w1")
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
}

func TestTargetContextTag(t *testing.T) {
	assert.Equal(t, profile.TargetContextTag("w1"), "profile_w1")
	assert.Equal(t, profile.TargetContextTag("default"), "profile_default")
	assert.Equal(t, profile.TargetContextTag(profile.PrivateTarget), "private")
}

func TestMigrationOutcome_String(t *testing.T) {
	var zero profile.MigrationOutcome
	assert.Equal(t, zero, profile.MigrationFailed)
	assert.Equal(t, profile.MigrationFailed.String(), "failed")
	assert.Equal(t, profile.Migrated.String(), "migrated")
	assert.Equal(t, profile.AlreadyInTarget.String(), "already in target")
	assert.Equal(t, profile.TabNotFound.String(), "tab not found")
}
