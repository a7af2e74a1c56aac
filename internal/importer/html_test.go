package importer_test

import (
	"strings"
	"testing"

	"github.com/nikbrunner/tabscope/internal/importer"
)

func TestParseHTMLTabs_SingleLink(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	seeds, err := importer.ParseHTMLTabs(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seeds) != 1 {
		t.Fatalf("expected 1 seed, got %d", len(seeds))
	}

	s := seeds[0]
	if s.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", s.Title)
	}
	if s.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", s.URL)
	}
	if s.Folder != "" {
		t.Errorf("expected root folder, got %q", s.Folder)
	}
}

func TestParseHTMLTabs_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3>Go</H3>
        <DL><p>
            <DT><A HREF="https://go.dev">Go</A>
        </DL><p>
        <DT><A HREF="https://github.com">GitHub</A>
    </DL><p>
    <DT><A HREF="https://news.ycombinator.com">HN</A>
</DL><p>`

	seeds, err := importer.ParseHTMLTabs(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []importer.TabSeed{
		{URL: "https://go.dev", Title: "Go", Folder: "Development/Go"},
		{URL: "https://github.com", Title: "GitHub", Folder: "Development"},
		{URL: "https://news.ycombinator.com", Title: "HN", Folder: ""},
	}
	if len(seeds) != len(want) {
		t.Fatalf("expected %d seeds, got %d", len(want), len(seeds))
	}
	for i := range want {
		if seeds[i] != want[i] {
			t.Errorf("seed %d: got %+v, want %+v", i, seeds[i], want[i])
		}
	}
}

func TestParseHTMLTabs_SkipsUnopenableLinks(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="place:sort=8&maxResults=10">Recent Tags</A>
    <DT><A HREF="javascript:alert(1)">Bookmarklet</A>
    <DT><A>No href</A>
    <DT><A HREF="https://ok.example">OK</A>
</DL><p>`

	seeds, err := importer.ParseHTMLTabs(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 1 || seeds[0].URL != "https://ok.example" {
		t.Errorf("expected only the https link, got %+v", seeds)
	}
}

func TestParseHTMLTabs_TitleFallsBackToURL(t *testing.T) {
	html := `<DL><p><DT><A HREF="https://untitled.example"></A></DL><p>`

	seeds, err := importer.ParseHTMLTabs(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 1 || seeds[0].Title != "https://untitled.example" {
		t.Errorf("expected URL as title, got %+v", seeds)
	}
}

func TestParseHTMLTabs_Empty(t *testing.T) {
	seeds, err := importer.ParseHTMLTabs(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 0 {
		t.Errorf("expected no seeds, got %d", len(seeds))
	}
}
