// Package profile owns the profile list, the active profile and the private
// mode flag, and moves tabs between isolation contexts.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nikbrunner/tabscope/internal/logging"
	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/storage"
	"go.uber.org/zap"
)

// Namespace and keys of the persisted profile state.
const (
	Namespace      = "profiles"
	keyProfiles    = "profiles"
	keyActiveID    = "active_profile_id"
	keyPrivateMode = "private_mode"
)

// ErrInvalidOperation is returned for requests that are never allowed, such
// as deleting the default profile.
var ErrInvalidOperation = errors.New("invalid operation")

// UpdateOutcome reports what UpdateProfile did.
type UpdateOutcome int

const (
	// UpdateFailed is the zero value; it accompanies a non-nil error.
	UpdateFailed UpdateOutcome = iota
	Updated
	UpdateNotFound
	UpdateIgnoredDefault
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateFailed:
		return "failed"
	case Updated:
		return "updated"
	case UpdateNotFound:
		return "not found"
	case UpdateIgnoredDefault:
		return "ignored (default profile)"
	default:
		return "unknown"
	}
}

// Store holds profile state in memory and writes every change through to the
// KV store.
type Store struct {
	kv     storage.KV
	logger *zap.Logger

	profiles []model.Profile // persisted profiles, default excluded
	activeID string
	private  bool
}

// Open loads profile state from kv.
func Open(kv storage.KV, logger *zap.Logger) (*Store, error) {
	s := &Store{
		kv:       kv,
		logger:   logging.OrNop(logger),
		profiles: []model.Profile{},
		activeID: model.DefaultProfileID,
	}

	raw, ok, err := kv.Get(Namespace, keyProfiles)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	if ok && raw != "" {
		var stored []model.Profile
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return nil, fmt.Errorf("decode profiles: %w", err)
		}
		s.profiles = dedupe(stored)
	}

	if id, ok, err := kv.Get(Namespace, keyActiveID); err != nil {
		return nil, fmt.Errorf("read active profile: %w", err)
	} else if ok && id != "" {
		s.activeID = id
	}

	if v, ok, err := kv.Get(Namespace, keyPrivateMode); err != nil {
		return nil, fmt.Errorf("read private mode: %w", err)
	} else if ok {
		private, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("decode private mode: %w", err)
		}
		s.private = private
	}

	return s, nil
}

// AllProfiles returns the default profile followed by every stored profile.
func (s *Store) AllProfiles() []model.Profile {
	result := make([]model.Profile, 0, len(s.profiles)+1)
	result = append(result, model.DefaultProfile())
	result = append(result, s.profiles...)
	return result
}

// ProfileByID finds a profile, including the default one.
func (s *Store) ProfileByID(id string) (model.Profile, bool) {
	for _, p := range s.AllProfiles() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Profile{}, false
}

// ActiveProfile returns the active profile. A stale active id, left behind by
// a deleted profile, resolves to the default profile.
func (s *Store) ActiveProfile() model.Profile {
	if p, ok := s.ProfileByID(s.activeID); ok {
		return p
	}
	return model.DefaultProfile()
}

// SetActiveProfile persists p's id. Existence is not checked; ActiveProfile
// handles ids that do not resolve.
func (s *Store) SetActiveProfile(p model.Profile) error {
	if err := s.kv.Set(Namespace, keyActiveID, p.ID); err != nil {
		return fmt.Errorf("write active profile: %w", err)
	}
	s.activeID = p.ID
	s.logger.Debug("Active profile set", zap.String("profile", p.ID))
	return nil
}

// CreateProfile appends a new profile with a fresh id. The new profile is not
// activated.
func (s *Store) CreateProfile(params model.NewProfileParams) (model.Profile, error) {
	p := model.NewProfile(params)
	for s.idTaken(p.ID) {
		p.ID = model.GenerateID()
	}

	next := append(append([]model.Profile{}, s.profiles...), p)
	if err := s.saveProfiles(next); err != nil {
		return model.Profile{}, err
	}
	s.logger.Info("Profile created", zap.String("profile", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProfile replaces the stored profile with the same id. The default
// profile cannot be changed. The stored CreatedAt is kept.
func (s *Store) UpdateProfile(p model.Profile) (UpdateOutcome, error) {
	if p.IsDefault || p.ID == model.DefaultProfileID {
		return UpdateIgnoredDefault, nil
	}

	i := s.indexOf(p.ID)
	if i < 0 {
		return UpdateNotFound, nil
	}

	next := append([]model.Profile{}, s.profiles...)
	p.CreatedAt = next[i].CreatedAt
	p.IsDefault = false
	next[i] = p
	if err := s.saveProfiles(next); err != nil {
		return UpdateFailed, err
	}
	return Updated, nil
}

// DeleteProfile removes a profile and purges its storage namespace. Deleting
// the active profile makes the default profile active. The purge runs even
// when id is not in the list.
func (s *Store) DeleteProfile(id string) error {
	if id == model.DefaultProfileID {
		return fmt.Errorf("delete profile %q: %w", id, ErrInvalidOperation)
	}

	var errs []error
	if i := s.indexOf(id); i >= 0 {
		next := append(append([]model.Profile{}, s.profiles[:i]...), s.profiles[i+1:]...)
		if err := s.saveProfiles(next); err != nil {
			errs = append(errs, err)
		} else if s.activeID == id {
			if err := s.SetActiveProfile(model.DefaultProfile()); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := s.kv.Clear(StorageNamespace(id)); err != nil {
		errs = append(errs, fmt.Errorf("purge profile storage: %w", err))
	}

	s.logger.Info("Profile deleted", zap.String("profile", id))
	return errors.Join(errs...)
}

// IsPrivateMode reports whether new tabs are created privately.
func (s *Store) IsPrivateMode() bool {
	return s.private
}

// SetPrivateMode persists the private flag. The active profile is untouched.
func (s *Store) SetPrivateMode(private bool) error {
	if err := s.kv.Set(Namespace, keyPrivateMode, strconv.FormatBool(private)); err != nil {
		return fmt.Errorf("write private mode: %w", err)
	}
	s.private = private
	return nil
}

// Selection returns the current active profile and private flag.
func (s *Store) Selection() model.Selection {
	return model.Selection{
		ActiveProfileID: s.ActiveProfile().ID,
		PrivateMode:     s.private,
	}
}

// ContextTag is the tag new tabs receive right now.
func (s *Store) ContextTag() string {
	return s.Selection().ContextTag()
}

// StorageNamespace is the KV namespace holding a profile's isolated data.
func StorageNamespace(profileID string) string {
	return model.ProfileContextTag(profileID)
}

func (s *Store) saveProfiles(profiles []model.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := s.kv.Set(Namespace, keyProfiles, string(data)); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	s.profiles = profiles
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) idTaken(id string) bool {
	return id == model.DefaultProfileID || id == PrivateTarget || s.indexOf(id) >= 0
}

// dedupe drops the default profile and repeated ids from stored data,
// keeping first occurrences.
func dedupe(stored []model.Profile) []model.Profile {
	seen := map[string]bool{model.DefaultProfileID: true}
	result := make([]model.Profile, 0, len(stored))
	for _, p := range stored {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		p.IsDefault = false
		result = append(result, p)
	}
	return result
}
