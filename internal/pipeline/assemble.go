package pipeline

import "strings"

// Container classes used by Assemble. Every fragment gets PageClass; all but
// the first also get BreakClass, which forces a new printed page.
const (
	PageClass  = "page"
	BreakClass = "page-break"
)

// BaseCSS is the fixed style rule of every assembled document.
const BaseCSS = `body { font-family: Arial, sans-serif; }
.` + BreakClass + ` { break-before: page; page-break-before: always; }`

// Assemble wraps each fragment in a page container and returns one complete
// HTML document with a single head and body. The first container never
// forces a page break. extraCSS is appended after BaseCSS so it can override
// it; it is sanitized against </style> breakout.
func Assemble(fragments []string, extraCSS string) string {
	var b strings.Builder

	size := len(documentHead) + len(documentTail) + len(BaseCSS) + len(extraCSS)
	for _, f := range fragments {
		size += len(f) + 64
	}
	b.Grow(size)

	b.WriteString(documentHead)
	b.WriteString("<style>\n")
	b.WriteString(BaseCSS)
	if extraCSS != "" {
		b.WriteString("\n")
		b.WriteString(sanitizeCSS(extraCSS))
	}
	b.WriteString("\n</style>\n</head>\n<body>\n")

	for i, f := range fragments {
		if i == 0 {
			b.WriteString(`<div class="` + PageClass + `">`)
		} else {
			b.WriteString(`<div class="` + PageClass + ` ` + BreakClass + `">`)
		}
		b.WriteString(f)
		b.WriteString("</div>\n")
	}

	b.WriteString(documentTail)
	return b.String()
}

const documentHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
`

const documentTail = `</body>
</html>
`

// sanitizeCSS escapes "</" so user CSS cannot close the <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
