// Package offerletter composes offer letters and exports them as PDF and
// DOCX.
//
// # Quick Start
//
// Build a document, adjust it with patches, and export it:
//
//	store := offerletter.NewStore(offerletter.NewDocument(time.Now()))
//	store.Update(offerletter.Patch{
//	    CandidateName: offerletter.String("Sarah Lee"),
//	    Salary:        offerletter.Float(150000),
//	})
//
//	exp, err := offerletter.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	art, err := exp.ExportPDF(ctx, store.Current())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(art.Name, art.Data, 0644)
//
// # Documents and Patches
//
// A Document holds the parties, offer terms, signature, body text and
// presentation settings of one letter. The body uses {token}
// placeholders (companyName, jobTitle, offerType, startDate,
// acceptanceDeadline, managerName, compensationDetails) that Render
// substitutes on every read.
//
// A Patch is a partial document. Store.Update merges it field by field
// and repairs two invariants: compensation is either a salary or a perks
// description, never both, and ElementOrder is a permutation of the
// letter sections. Patches decode from JSON and YAML, including the flat
// salary/salaryFrequency/perksAndBenefits shape.
//
// # Themes and Layouts
//
// Flow themes (classic, modern, regal, formal) stack sections in the
// document's order, which Reorder changes. Sidebar (creative, tech) and
// banner (vibrant, corporate) themes have a fixed arrangement.
//
// # Export Pipeline
//
// Both formats start from the same steps:
//
//  1. Working copy: logo and signature URLs are inlined as data URIs
//  2. Snapshot: letter markup without editor affordances
//  3. Asset inlining: every external image fetched concurrently; failures
//     keep the original URL
//  4. Style resolution: base sheet, theme sheet, palette, page geometry
//
// PDF export then screenshots the letter in headless Chrome (go-rod) at
// twice the CSS resolution and paginates the image with gofpdf, or prints
// it directly in vector mode. DOCX export converts the styled HTML into a
// WordprocessingML package.
//
// # Parallel Processing
//
// For batch exports, use ExporterPool to manage several browsers:
//
//	pool := offerletter.NewExporterPool(offerletter.ResolvePoolSize(0), func() (*offerletter.Exporter, error) {
//	    return offerletter.NewExporter()
//	})
//	defer pool.Close()
//
//	exp, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//
// # Custom Assets
//
// Override the built-in style sheets and letter template:
//
//	exp, err := offerletter.NewExporter(offerletter.WithAssetPath("/path/to/assets"))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   ├── base.css
//	│   └── themes/
//	│       └── classic.css
//	└── templates/
//	    └── letter.html
//
// Missing files fall back to the embedded defaults.
package offerletter
