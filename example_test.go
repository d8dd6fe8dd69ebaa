package offerletter_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	offerletter "github.com/alnah/go-offerletter"
)

var exampleNow = time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC)

// Example exports a letter as a word-processor package.
// PDF export needs Chrome; DOCX does not.
func Example() {
	exp, err := offerletter.NewExporter(offerletter.WithRasterizer(nil))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exp.Close()

	doc := offerletter.NewDocument(exampleNow)
	doc.CandidateName = "Sarah Lee"
	doc.JobTitle = "Senior Product Manager"

	art, err := exp.ExportDOCX(context.Background(), doc)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(art.Name)
	// Output: Sarah Lee_Offer_Letter.docx
}

// ExampleApplyPatch shows a null salary turning a position unpaid.
func ExampleApplyPatch() {
	doc := offerletter.NewDocument(exampleNow)

	var p offerletter.Patch
	if err := p.UnmarshalJSON([]byte(`{"salary":null,"perksAndBenefits":"Mentorship"}`)); err != nil {
		fmt.Println("error:", err)
		return
	}
	doc = offerletter.ApplyPatch(doc, p)

	fmt.Println(doc.Compensation.IsSalary())
	fmt.Println(offerletter.CompensationDetails(doc.Compensation))
	// Output:
	// false
	// As part of your internship, you will receive the following perks and benefits:
	// Mentorship
}

// ExampleRender substitutes body placeholders.
func ExampleRender() {
	doc := offerletter.NewDocument(exampleNow)
	doc.Compensation = offerletter.Salary(150000, offerletter.FrequencyAnnually)
	doc.Body = "We are pleased to offer you the {jobTitle} role. {compensationDetails} {unknown}"

	fmt.Println(offerletter.Render(doc))
	// Output: We are pleased to offer you the Software Engineer Intern role. Your starting salary will be $150,000.00 annually. {unknown}
}

// ExampleReorder moves the signature to the top of a flow layout.
func ExampleReorder() {
	doc := offerletter.NewDocument(exampleNow)
	doc.Theme = offerletter.ThemeClassic

	order, err := offerletter.Reorder(doc, 5, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(order)

	doc.Theme = offerletter.ThemeTech
	_, err = offerletter.Reorder(doc, 5, 0)
	fmt.Println(errors.Is(err, offerletter.ErrLayoutFixed))
	// Output:
	// [signature header date recipient subject body]
	// true
}

// ExampleStore applies edits and notifies subscribers.
func ExampleStore() {
	store := offerletter.NewStore(offerletter.NewDocument(exampleNow))
	unsubscribe := store.Subscribe(func(doc offerletter.Document) {
		fmt.Println("updated:", doc.CandidateName)
	})

	store.Update(offerletter.Patch{CandidateName: offerletter.String("Sarah Lee")})
	unsubscribe()
	store.Update(offerletter.Patch{CandidateName: offerletter.String("Jordan Park")})

	fmt.Println("current:", store.Current().CandidateName)
	// Output:
	// updated: Sarah Lee
	// current: Jordan Park
}

// ExampleFilename names exported artifacts.
func ExampleFilename() {
	fmt.Println(offerletter.Filename("Sarah Lee", "pdf"))
	fmt.Println(offerletter.Filename("", "docx"))
	// Output:
	// Sarah Lee_Offer_Letter.pdf
	// Candidate_Offer_Letter.docx
}

// ExampleExporterPool shares exporters between goroutines.
func ExampleExporterPool() {
	pool := offerletter.NewExporterPool(2, func() (*offerletter.Exporter, error) {
		return offerletter.NewExporter(offerletter.WithRasterizer(nil))
	})
	defer pool.Close()

	exp, err := pool.Acquire(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Release(exp)

	fmt.Println("pool size:", pool.Size())
	// Output: pool size: 2
}
