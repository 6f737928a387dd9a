package content

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Script is one script element of a page. Src is set for external scripts,
// Code for inline ones.
type Script struct {
	Src  string
	Code string
}

// Page is the metadata the content host reads out of an HTML document.
type Page struct {
	Title      string
	HasTitle   bool
	ThemeColor string
	Scripts    []Script
}

// ParsePage extracts the title, the theme-color meta value and the
// executable scripts of an HTML document in document order.
func ParsePage(src []byte) (*Page, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	p := &Page{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if !p.HasTitle {
					p.Title = collapseSpace(textContent(n))
					p.HasTitle = true
				}
			case atom.Meta:
				if p.ThemeColor == "" && strings.EqualFold(attr(n, "name"), "theme-color") {
					p.ThemeColor = strings.TrimSpace(attr(n, "content"))
				}
			case atom.Script:
				if isJavaScript(attr(n, "type")) {
					if src := strings.TrimSpace(attr(n, "src")); src != "" {
						p.Scripts = append(p.Scripts, Script{Src: src})
					} else {
						p.Scripts = append(p.Scripts, Script{Code: textContent(n)})
					}
				}
				return
			case atom.Svg:
				// SVG titles are tooltips, not the document title.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return p, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isJavaScript(typ string) bool {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "text/javascript", "application/javascript", "application/ecmascript", "text/ecmascript":
		return true
	}
	return false
}
