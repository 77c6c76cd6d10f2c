package pipeline

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// urlAttrs lists the element attributes rewritten by RewriteRelativeURLs.
// srcset and CSS url() references are left alone.
var urlAttrs = map[string]string{
	"img":    "src",
	"a":      "href",
	"source": "src",
	"link":   "href",
}

// RewriteRelativeURLs resolves relative src/href attributes of a captured
// fragment against the URL of the page it came from. Once fragments from
// several pages share one document, "../img/x.png" or "/css/site.css" would
// otherwise resolve against the wrong base. An empty baseURL is a no-op.
func RewriteRelativeURLs(fragment, baseURL string) (string, error) {
	if baseURL == "" || strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	container, err := parseFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	rewriteNode(container, base)

	out, err := renderFragment(container)
	if err != nil {
		return "", fmt.Errorf("rendering fragment: %w", err)
	}
	return out, nil
}

// rewriteNode walks the tree and rewrites known URL attributes.
func rewriteNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		if attr, ok := urlAttrs[n.Data]; ok {
			rewriteAttr(n, attr, base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

// rewriteAttr resolves a single attribute if it holds a relative reference.
func rewriteAttr(n *html.Node, attrName string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativeRef(attr.Val) {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil {
			continue // leave malformed references as written
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

// isRelativeRef returns true if ref should be resolved against the page URL.
func isRelativeRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}

	// In-document anchors keep working after assembly.
	if strings.HasPrefix(ref, "#") {
		return false
	}

	lower := strings.ToLower(ref)
	for _, scheme := range []string{"http:", "https:", "file:", "data:", "mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
