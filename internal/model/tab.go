package model

// Tab is a browsing tab as held by the tab store.
type Tab struct {
	ID        string `json:"id"`
	ContextID string `json:"contextId"`
	Private   bool   `json:"private"`
	URL       string `json:"url"`
	Title     string `json:"title"`
}

// NewTabParams holds parameters for creating a new Tab.
type NewTabParams struct {
	URL   string
	Title string
}

// NewTab creates an untagged Tab with a generated id. The context tag is
// filled in when the tab is dispatched into the tab store.
func NewTab(params NewTabParams) Tab {
	title := params.Title
	if title == "" {
		title = params.URL
	}
	return Tab{
		ID:    GenerateID(),
		URL:   params.URL,
		Title: title,
	}
}
