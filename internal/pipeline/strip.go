package pipeline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// DefaultStripSelectors are removed from every captured page.
var DefaultStripSelectors = []string{"nav", "footer"}

// StripElements removes every element matching any of selectors from a body
// fragment and returns the remaining markup. Selectors that match nothing are
// a no-op. The browser strips the live DOM too; this pass covers markup
// captured without a browser and elements injected after the page settled.
func StripElements(fragment string, selectors []string) (string, error) {
	if len(selectors) == 0 || strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	container, err := parseFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	doc := goquery.NewDocumentFromNode(container)
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		doc.Find(sel).Remove()
	}

	out, err := renderFragment(container)
	if err != nil {
		return "", fmt.Errorf("rendering fragment: %w", err)
	}
	return out, nil
}

// ValidSelector reports whether sel compiles as a CSS selector.
func ValidSelector(sel string) bool {
	if strings.TrimSpace(sel) == "" {
		return false
	}
	_, err := cascadia.Compile(sel)
	return err == nil
}
