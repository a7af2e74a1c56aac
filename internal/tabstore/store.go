// Package tabstore holds the shared tab list. All mutations go through a
// single serialized dispatch pipeline of middleware ending in the reducer.
package tabstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nikbrunner/tabscope/internal/model"
)

var (
	ErrTabNotFound    = errors.New("tab not found")
	ErrDuplicateTabID = errors.New("duplicate tab id")
	ErrUntaggedTab    = errors.New("tab has no context tag")
)

// Dispatch submits an action to the next pipeline stage.
type Dispatch func(Action) error

// Middleware wraps the next stage. It may forward the action unchanged,
// forward a replacement, or stop it by returning an error. Middleware must
// call next, never Store.Dispatch, to avoid re-entering the pipeline.
type Middleware func(s *Store, next Dispatch) Dispatch

// State is the committed tab list.
type State struct {
	Tabs       []model.Tab `json:"tabs"`
	SelectedID string      `json:"selectedId"`
}

// Params configures a Store.
type Params struct {
	// Tagger is installed as the first stage so that no other middleware can
	// observe a tab before it is tagged.
	Tagger Middleware
	// Middleware runs after the tagger, in order.
	Middleware []Middleware
	// Initial state, e.g. from Load.
	Initial State
}

// Store owns the tab list.
type Store struct {
	mu       sync.Mutex
	state    State
	dispatch Dispatch
}

// New creates a Store with the given pipeline.
func New(params Params) *Store {
	s := &Store{state: cloneState(params.Initial)}

	stages := make([]Middleware, 0, len(params.Middleware)+1)
	if params.Tagger != nil {
		stages = append(stages, params.Tagger)
	}
	stages = append(stages, params.Middleware...)

	d := Dispatch(s.reduce)
	for i := len(stages) - 1; i >= 0; i-- {
		d = stages[i](s, d)
	}
	s.dispatch = d

	return s
}

// Dispatch runs an action through the pipeline. Actions are processed one at
// a time in submission order.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(a)
}

// State returns a copy of the committed state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Tabs returns a copy of the committed tabs.
func (s *Store) Tabs() []model.Tab {
	return s.State().Tabs
}

// SelectedID returns the selected tab id, "" when none.
func (s *Store) SelectedID() string {
	return s.State().SelectedID
}

// TabByID finds a tab by id.
func (s *Store) TabByID(id string) (model.Tab, bool) {
	st := s.State()
	for _, t := range st.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tab{}, false
}

// TabsInContext returns tabs carrying the given context tag.
func (s *Store) TabsInContext(contextID string) []model.Tab {
	var result []model.Tab
	for _, t := range s.Tabs() {
		if t.ContextID == contextID {
			result = append(result, t)
		}
	}
	return result
}

// current gives middleware read access to state while the pipeline lock is
// held by Dispatch.
func (s *Store) current() State {
	return s.state
}

// reduce is the final stage. It runs with s.mu held.
func (s *Store) reduce(a Action) error {
	switch a := a.(type) {
	case AddTab:
		return s.add(a.Tab, a.Select)
	case AddTabInContext:
		return s.add(a.Tab, a.Select)
	case RemoveTab:
		return s.remove(a.ID)
	case SelectTab:
		if s.indexOf(a.ID) < 0 {
			return fmt.Errorf("select %s: %w", a.ID, ErrTabNotFound)
		}
		s.state.SelectedID = a.ID
		return nil
	case UpdateTab:
		i := s.indexOf(a.ID)
		if i < 0 {
			return fmt.Errorf("update %s: %w", a.ID, ErrTabNotFound)
		}
		if a.URL != "" {
			s.state.Tabs[i].URL = a.URL
		}
		if a.Title != "" {
			s.state.Tabs[i].Title = a.Title
		}
		return nil
	default:
		return fmt.Errorf("unsupported action %T", a)
	}
}

func (s *Store) add(tab model.Tab, selectTab bool) error {
	if tab.ContextID == "" {
		return ErrUntaggedTab
	}
	if tab.ID == "" {
		tab.ID = model.GenerateID()
	}
	if s.indexOf(tab.ID) >= 0 {
		return fmt.Errorf("add %s: %w", tab.ID, ErrDuplicateTabID)
	}

	s.state.Tabs = append(s.state.Tabs, tab)
	if selectTab || s.state.SelectedID == "" {
		s.state.SelectedID = tab.ID
	}
	return nil
}

func (s *Store) remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrTabNotFound)
	}

	s.state.Tabs = append(s.state.Tabs[:i], s.state.Tabs[i+1:]...)

	if s.state.SelectedID == id {
		// Select the neighbour that slid into place, or the new last tab
		switch {
		case len(s.state.Tabs) == 0:
			s.state.SelectedID = ""
		case i < len(s.state.Tabs):
			s.state.SelectedID = s.state.Tabs[i].ID
		default:
			s.state.SelectedID = s.state.Tabs[len(s.state.Tabs)-1].ID
		}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.state.Tabs {
		if s.state.Tabs[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneState(st State) State {
	tabs := make([]model.Tab, len(st.Tabs))
	copy(tabs, st.Tabs)
	return State{Tabs: tabs, SelectedID: st.SelectedID}
}
