package tabstore

import "github.com/nikbrunner/tabscope/internal/model"

// Action is a mutation request submitted to the Store. The set of variants is
// closed; middleware switches on the concrete type.
type Action interface {
	action()
	// Name is a short label used in logs.
	Name() string
}

// AddTab creates a tab on behalf of the user. Its context tag is decided by
// the pipeline, not by the caller.
type AddTab struct {
	Tab    model.Tab
	Select bool
}

// AddTabInContext creates a tab whose context tag was chosen explicitly,
// as done by migration. The tag is committed as given.
type AddTabInContext struct {
	Tab    model.Tab
	Select bool
}

// RemoveTab closes a tab.
type RemoveTab struct {
	ID string
}

// SelectTab makes a tab the selected one.
type SelectTab struct {
	ID string
}

// UpdateTab changes the url or title of an existing tab. Empty fields are
// left alone. The context tag cannot be changed this way.
type UpdateTab struct {
	ID    string
	URL   string
	Title string
}

func (AddTab) action()          {}
func (AddTabInContext) action() {}
func (RemoveTab) action()       {}
func (SelectTab) action()       {}
func (UpdateTab) action()       {}

func (AddTab) Name() string          { return "add_tab" }
func (AddTabInContext) Name() string { return "add_tab_in_context" }
func (RemoveTab) Name() string       { return "remove_tab" }
func (SelectTab) Name() string       { return "select_tab" }
func (UpdateTab) Name() string       { return "update_tab" }
