// Package pipeline implements the HTML stages of a site export.
//
// Every function here is a pure string transformation:
//   - chrome stripping of captured page fragments (goquery)
//   - relative URL rewriting against the source page URL
//   - assembly of fragments into one paginated document
//   - sanitizing of user CSS embedded in that document
//
// Page loading and PDF rendering are handled by internal/browser. Keeping the
// browser out of this package lets every stage be tested without Chrome.
package pipeline
