package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/tabscope/internal/grouping"
	"github.com/nikbrunner/tabscope/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/tabs-<context>-YYYY-MM-DD.html
func DefaultExportPath(contextID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tabs-%s-%s.html", contextID, time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportParams holds what to write.
type ExportParams struct {
	Title string
	Tabs  []model.Tab
	// Groups become folders; grouped tabs missing from Tabs are skipped.
	Groups []grouping.Group
}

// ExportHTML writes tabs in Netscape bookmark HTML format. Each group becomes
// a folder, ungrouped tabs follow at the root.
func ExportHTML(params ExportParams) string {
	var b strings.Builder

	title := params.Title
	if title == "" {
		title = "Tabs"
	}

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(&b, "<TITLE>%s</TITLE>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<H1>%s</H1>\n", html.EscapeString(title))
	b.WriteString("<DL><p>\n")

	byID := make(map[string]model.Tab, len(params.Tabs))
	for _, t := range params.Tabs {
		byID[t.ID] = t
	}

	grouped := map[string]bool{}
	for _, g := range params.Groups {
		var members []model.Tab
		for _, id := range g.TabIDs {
			if t, ok := byID[id]; ok {
				members = append(members, t)
				grouped[id] = true
			}
		}
		if len(members) == 0 {
			continue
		}

		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(g.Name))
		b.WriteString("    <DL><p>\n")
		for _, t := range members {
			writeTab(&b, t, 2)
		}
		b.WriteString("    </DL><p>\n")
	}

	for _, t := range params.Tabs {
		if !grouped[t.ID] {
			writeTab(&b, t, 1)
		}
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeTab(b *strings.Builder, t model.Tab, indent int) {
	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\">%s</A>\n",
		prefix,
		html.EscapeString(t.URL),
		html.EscapeString(t.Title),
	)
}
