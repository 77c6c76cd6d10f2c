// Package site2pdf exports the pages of a website to a single PDF using
// headless Chrome.
//
// # Quick Start
//
// Create an exporter, export a URL list, and close when done:
//
//	exp, err := site2pdf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	result, err := exp.Export(ctx, site2pdf.Input{
//	    URLs: []string{"http://localhost:1313/docs/"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("complete-hugo-site.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the assembled
// HTML (result.HTML). Use Input.HTMLOnly to skip PDF generation.
//
// # Export Pipeline
//
// Each URL is processed strictly in order:
//
//  1. Load the page and wait until the network has been idle (browser)
//  2. Capture document.body and remove nav and footer elements (goquery)
//  3. Resolve relative links and images against the page URL
//
// The fragments are then wrapped in page containers, each one after the
// first starting on a new PDF page, and printed once as a single document.
//
// # Failures
//
// By default the first page that fails aborts the export. Set
// Input.ContinueOnError to skip failing pages instead; they are reported in
// ExportResult.Pages and the export only fails when no page succeeds.
//
// # Browser Requirements
//
// The default engine is go-rod, which downloads a managed Chromium on first
// run (~/.cache/rod/browser/). WithEngine("chromedp") uses chromedp with
// the Chrome found on the system.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package site2pdf
