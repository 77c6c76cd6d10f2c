package pipeline

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestStripElements - Chrome removal from fragments
// ---------------------------------------------------------------------------

func TestStripElements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		fragment     string
		selectors    []string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "removes nav and footer",
			fragment:     `<nav><a href="/">Home</a></nav><main><h1>Docs</h1></main><footer>© 2025</footer>`,
			selectors:    DefaultStripSelectors,
			wantContains: []string{"<main><h1>Docs</h1></main>"},
			wantExcludes: []string{"<nav", "<footer", "Home", "© 2025"},
		},
		{
			name:         "removes every match, not just the first",
			fragment:     `<nav>top</nav><p>body</p><nav>side</nav><footer>a</footer><footer>b</footer>`,
			selectors:    DefaultStripSelectors,
			wantContains: []string{"<p>body</p>"},
			wantExcludes: []string{"<nav", "<footer", "top", "side"},
		},
		{
			name:         "nested chrome removed",
			fragment:     `<div class="wrap"><header><nav>menu</nav></header><p>text</p></div>`,
			selectors:    DefaultStripSelectors,
			wantContains: []string{"<header></header>", "<p>text</p>"},
			wantExcludes: []string{"menu"},
		},
		{
			name:         "absent chrome is a no-op",
			fragment:     `<h1>Plain</h1><p>No chrome here.</p>`,
			selectors:    DefaultStripSelectors,
			wantContains: []string{"<h1>Plain</h1><p>No chrome here.</p>"},
		},
		{
			name:         "custom selectors",
			fragment:     `<aside class="toc">toc</aside><div id="edit-link">edit</div><p>keep</p>`,
			selectors:    []string{"aside.toc", "#edit-link"},
			wantContains: []string{"<p>keep</p>"},
			wantExcludes: []string{"toc", "edit"},
		},
		{
			name:         "leading style stays in fragment",
			fragment:     `<style>.x{color:red}</style><nav>n</nav><p class="x">red</p>`,
			selectors:    DefaultStripSelectors,
			wantContains: []string{"<style>.x{color:red}</style>", `<p class="x">red</p>`},
			wantExcludes: []string{"<nav"},
		},
		{
			name:         "blank selectors skipped",
			fragment:     `<nav>n</nav><p>p</p>`,
			selectors:    []string{"", "  ", "nav"},
			wantContains: []string{"<p>p</p>"},
			wantExcludes: []string{"<nav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := StripElements(tt.fragment, tt.selectors)
			if err != nil {
				t.Fatalf("StripElements() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("result missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("result should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

func TestStripElements_Passthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fragment  string
		selectors []string
	}{
		{"no selectors", "<nav>x</nav>", nil},
		{"empty fragment", "", DefaultStripSelectors},
		{"whitespace fragment", "  \n ", DefaultStripSelectors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := StripElements(tt.fragment, tt.selectors)
			if err != nil {
				t.Fatalf("StripElements() error = %v", err)
			}
			if got != tt.fragment {
				t.Errorf("StripElements() = %q, want input unchanged", got)
			}
		})
	}
}

func TestValidSelector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sel  string
		want bool
	}{
		{"nav", true},
		{"footer", true},
		{"div.sidebar > ul", true},
		{"#edit-link", true},
		{"", false},
		{"   ", false},
		{"div[", false},
		{">>", false},
	}
	for _, tt := range tests {
		if got := ValidSelector(tt.sel); got != tt.want {
			t.Errorf("ValidSelector(%q) = %v, want %v", tt.sel, got, tt.want)
		}
	}
}
