package importer

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TabSeed is a page to open as a tab.
type TabSeed struct {
	URL   string
	Title string
	// Folder is the slash-joined folder path the link was found in, "" at root.
	Folder string
}

// openable lists the URL schemes that can be opened as tabs. Browser-internal
// links such as place: or javascript: are skipped.
var openable = map[string]bool{
	"http":  true,
	"https": true,
	"file":  true,
	"ftp":   true,
}

// ParseHTMLTabs parses Netscape bookmark HTML and returns one seed per link,
// in document order.
func ParseHTMLTabs(r io.Reader) ([]TabSeed, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var seeds []TabSeed
	var folderStack []string
	pendingFolder := ""

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H3:
				// Folder name; pushed when its DL opens
				pendingFolder = getTextContent(n)
				return

			case atom.A:
				href := getAttr(n, "href")
				if !isOpenable(href) {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}

				seeds = append(seeds, TabSeed{
					URL:    href,
					Title:  title,
					Folder: strings.Join(folderStack, "/"),
				})
				return

			case atom.Dl:
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return seeds, nil
}

func isOpenable(href string) bool {
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return openable[strings.ToLower(u.Scheme)]
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
