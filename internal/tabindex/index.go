// Package tabindex keeps an auxiliary tab id to profile id lookup.
//
// The context tag on each tab is authoritative. The index is a cache: callers
// update it explicitly, and Rebuild recomputes it from the tabs themselves.
package tabindex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/storage"
)

// Namespace and key prefix of persisted entries.
const (
	Namespace = "tab_profiles"
	KeyPrefix = "tab_profile_"
)

// Index maps tab ids to profile ids.
type Index struct {
	kv      storage.KV
	entries map[string]string
}

// Open loads all entries from kv.
func Open(kv storage.KV) (*Index, error) {
	raw, err := kv.Entries(Namespace)
	if err != nil {
		return nil, fmt.Errorf("read tab index: %w", err)
	}

	entries := make(map[string]string, len(raw))
	for k, v := range raw {
		if tabID, ok := strings.CutPrefix(k, KeyPrefix); ok {
			entries[tabID] = v
		}
	}
	return &Index{kv: kv, entries: entries}, nil
}

// SetTabProfile records (or replaces) the profile of a tab.
func (x *Index) SetTabProfile(tabID, profileID string) error {
	if err := x.kv.Set(Namespace, KeyPrefix+tabID, profileID); err != nil {
		return fmt.Errorf("index tab %s: %w", tabID, err)
	}
	x.entries[tabID] = profileID
	return nil
}

// TabProfile returns the profile of a tab, or the default profile id when
// the tab is unknown.
func (x *Index) TabProfile(tabID string) string {
	if id, ok := x.entries[tabID]; ok {
		return id
	}
	return model.DefaultProfileID
}

// RemoveTab drops a tab's entry.
func (x *Index) RemoveTab(tabID string) error {
	if err := x.kv.Delete(Namespace, KeyPrefix+tabID); err != nil {
		return fmt.Errorf("unindex tab %s: %w", tabID, err)
	}
	delete(x.entries, tabID)
	return nil
}

// TabsForProfile returns the ids of tabs indexed under profileID, sorted.
func (x *Index) TabsForProfile(profileID string) []string {
	var result []string
	for tabID, id := range x.entries {
		if id == profileID {
			result = append(result, tabID)
		}
	}
	sort.Strings(result)
	return result
}

// CleanupStale removes entries for tabs not in existing and returns how many
// were removed.
func (x *Index) CleanupStale(existing []string) (int, error) {
	keep := make(map[string]bool, len(existing))
	for _, id := range existing {
		keep[id] = true
	}

	removed := 0
	for tabID := range x.entries {
		if keep[tabID] {
			continue
		}
		if err := x.RemoveTab(tabID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Clear removes every entry.
func (x *Index) Clear() error {
	if err := x.kv.Clear(Namespace); err != nil {
		return fmt.Errorf("clear tab index: %w", err)
	}
	x.entries = map[string]string{}
	return nil
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Rebuild replaces the index with entries derived from the tabs' context
// tags. Private tabs and tabs with unrecognized tags are not indexed.
func (x *Index) Rebuild(tabs []model.Tab) error {
	want := map[string]string{}
	for _, t := range tabs {
		if id, ok := model.ProfileIDFromTag(t.ContextID); ok {
			want[t.ID] = id
		}
	}

	for tabID := range x.entries {
		if _, ok := want[tabID]; !ok {
			if err := x.RemoveTab(tabID); err != nil {
				return err
			}
		}
	}
	for tabID, profileID := range want {
		if x.entries[tabID] == profileID {
			continue
		}
		if err := x.SetTabProfile(tabID, profileID); err != nil {
			return err
		}
	}
	return nil
}
