// Package tagging stamps newly created tabs with the context tag of the
// current profile selection.
package tagging

import (
	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/nikbrunner/tabscope/internal/tabstore"
)

// SelectionSource provides the selection in effect when a tab is created.
type SelectionSource interface {
	ActiveProfile() model.Profile
	IsPrivateMode() bool
}

// Fixed is a SelectionSource with a constant value.
type Fixed model.Selection

func (f Fixed) ActiveProfile() model.Profile {
	if f.ActiveProfileID == "" || f.ActiveProfileID == model.DefaultProfileID {
		return model.DefaultProfile()
	}
	return model.Profile{ID: f.ActiveProfileID}
}

func (f Fixed) IsPrivateMode() bool { return f.PrivateMode }

// Middleware rewrites AddTab actions with the context tag derived from src
// and forwards the rewritten copy. The caller's action is never forwarded.
// Install it via tabstore.Params.Tagger so it runs before any other stage.
func Middleware(src SelectionSource) tabstore.Middleware {
	return func(s *tabstore.Store, next tabstore.Dispatch) tabstore.Dispatch {
		return func(a tabstore.Action) error {
			switch a := a.(type) {
			case tabstore.AddTab:
				return next(Tag(a, src))
			default:
				return next(a)
			}
		}
	}
}

// Tag returns a copy of a with the tab's context and privacy set from src.
func Tag(a tabstore.AddTab, src SelectionSource) tabstore.AddTab {
	private := src.IsPrivateMode()
	a.Tab.ContextID = model.ContextTagFor(src.ActiveProfile().ID, private)
	a.Tab.Private = private
	return a
}
