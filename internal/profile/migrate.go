package profile

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/tabscope/internal/logging"
	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/tabstore"
	"go.uber.org/zap"
)

// PrivateTarget is the target profile id that sends a tab to private mode.
const PrivateTarget = model.PrivateContextTag

// MigrationOutcome reports what MigrateTab did.
type MigrationOutcome int

const (
	// MigrationFailed is the zero value; it accompanies a non-nil error.
	MigrationFailed MigrationOutcome = iota
	Migrated
	AlreadyInTarget
	TabNotFound
)

func (o MigrationOutcome) String() string {
	switch o {
	case MigrationFailed:
		return "failed"
	case Migrated:
		return "migrated"
	case AlreadyInTarget:
		return "already in target"
	case TabNotFound:
		return "tab not found"
	default:
		return "unknown"
	}
}

// MigrationResult is the outcome of one migration and, when migrated, the id
// of the replacement tab.
type MigrationResult struct {
	Outcome  MigrationOutcome
	NewTabID string
}

// Tabs is the part of the tab store that migration needs.
type Tabs interface {
	TabByID(id string) (model.Tab, bool)
	SelectedID() string
	Dispatch(tabstore.Action) error
}

// TabIndex is the auxiliary tab to profile lookup, kept in step when present.
type TabIndex interface {
	SetTabProfile(tabID, profileID string) error
	RemoveTab(tabID string) error
}

// MigratorParams configures a Migrator.
type MigratorParams struct {
	Tabs   Tabs
	Index  TabIndex // optional
	Logger *zap.Logger
}

// Migrator moves tabs between isolation contexts by recreating them.
type Migrator struct {
	tabs   Tabs
	index  TabIndex
	logger *zap.Logger
}

// NewMigrator creates a Migrator.
func NewMigrator(params MigratorParams) *Migrator {
	return &Migrator{
		tabs:   params.Tabs,
		index:  params.Index,
		logger: logging.OrNop(params.Logger),
	}
}

// TargetContextTag returns the tag a tab migrated to targetProfileID carries.
func TargetContextTag(targetProfileID string) string {
	if targetProfileID == PrivateTarget {
		return model.PrivateContextTag
	}
	return model.ProfileContextTag(targetProfileID)
}

// MigrateTab moves a tab to the target profile, or to private mode for
// PrivateTarget. The replacement tab is created before the original is
// removed, so a failed create leaves the original in place.
func (m *Migrator) MigrateTab(tabID, targetProfileID string) (MigrationResult, error) {
	tab, ok := m.tabs.TabByID(tabID)
	if !ok {
		return MigrationResult{Outcome: TabNotFound}, nil
	}

	target := TargetContextTag(targetProfileID)
	if tab.ContextID == target {
		return MigrationResult{Outcome: AlreadyInTarget}, nil
	}

	wasSelected := m.tabs.SelectedID() == tabID
	replacement := model.Tab{
		ID:        model.GenerateID(),
		ContextID: target,
		Private:   target == model.PrivateContextTag,
		URL:       tab.URL,
		Title:     tab.Title,
	}

	if err := m.tabs.Dispatch(tabstore.AddTabInContext{Tab: replacement}); err != nil {
		return MigrationResult{Outcome: MigrationFailed}, fmt.Errorf("migrate %s: create in %s: %w", tabID, target, err)
	}

	if err := m.tabs.Dispatch(tabstore.RemoveTab{ID: tabID}); err != nil {
		// Compensate so the tab is not duplicated across contexts
		if undoErr := m.tabs.Dispatch(tabstore.RemoveTab{ID: replacement.ID}); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("undo create: %w", undoErr))
		}
		return MigrationResult{Outcome: MigrationFailed}, fmt.Errorf("migrate %s: remove original: %w", tabID, err)
	}

	if wasSelected {
		if err := m.tabs.Dispatch(tabstore.SelectTab{ID: replacement.ID}); err != nil {
			return MigrationResult{Outcome: Migrated, NewTabID: replacement.ID},
				fmt.Errorf("migrate %s: restore selection: %w", tabID, err)
		}
	}

	m.moveIndexEntry(tabID, replacement.ID, targetProfileID)

	m.logger.Info("Tab migrated",
		zap.String("from", tabID),
		zap.String("to", replacement.ID),
		zap.String("context", target))

	return MigrationResult{Outcome: Migrated, NewTabID: replacement.ID}, nil
}

// MigrateTabs migrates each tab in order and returns how many were migrated.
// There is no rollback: a failure leaves earlier tabs migrated, and the
// remaining tabs are still attempted. Failures are returned joined.
func (m *Migrator) MigrateTabs(tabIDs []string, targetProfileID string) (int, error) {
	count := 0
	var errs []error
	for _, id := range tabIDs {
		res, err := m.MigrateTab(id, targetProfileID)
		if res.Outcome == Migrated && res.NewTabID != "" {
			count++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return count, errors.Join(errs...)
}

// moveIndexEntry keeps the auxiliary index in step. Failures are logged only;
// the context tag remains authoritative.
func (m *Migrator) moveIndexEntry(oldID, newID, targetProfileID string) {
	if m.index == nil {
		return
	}
	if err := m.index.RemoveTab(oldID); err != nil {
		m.logger.Warn("Failed to drop index entry", zap.String("tab", oldID), zap.Error(err))
	}
	if targetProfileID == PrivateTarget {
		return
	}
	if err := m.index.SetTabProfile(newID, targetProfileID); err != nil {
		m.logger.Warn("Failed to index migrated tab", zap.String("tab", newID), zap.Error(err))
	}
}
