package offerletter

import (
	"regexp"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alnah/go-offerletter/internal/dateutil"
)

// InvalidDate replaces date tokens whose value cannot be parsed.
const InvalidDate = "Invalid Date"

var tokenPattern = regexp.MustCompile(`\{([A-Za-z]+)\}`)

var currency = message.NewPrinter(language.AmericanEnglish)

// RenderedView is a document paired with its substituted body. It is
// computed on demand and never cached.
type RenderedView struct {
	Body     string
	Document Document
}

// View renders doc and pairs the result with a copy of doc.
func View(doc Document) RenderedView {
	return RenderedView{Body: Render(doc), Document: doc.Clone()}
}

// Render substitutes the {token} placeholders of doc.Body. Unknown tokens
// are left as written and substituted values are not scanned again.
func Render(doc Document) string {
	values := map[string]func() string{
		"companyName":         func() string { return doc.CompanyName },
		"jobTitle":            func() string { return doc.JobTitle },
		"offerType":           func() string { return doc.OfferType },
		"managerName":         func() string { return doc.ManagerName },
		"startDate":           func() string { return FormatLongDate(doc.StartDate) },
		"acceptanceDeadline":  func() string { return FormatLongDate(doc.AcceptanceDeadline) },
		"compensationDetails": func() string { return CompensationDetails(doc.Compensation) },
	}
	return tokenPattern.ReplaceAllStringFunc(doc.Body, func(tok string) string {
		if v, ok := values[tok[1:len(tok)-1]]; ok {
			return v()
		}
		return tok
	})
}

// FormatLongDate renders a YYYY-MM-DD or RFC 3339 value as
// "January 2, 2006", or InvalidDate.
func FormatLongDate(value string) string {
	s, err := dateutil.FormatLong(value)
	if err != nil {
		return InvalidDate
	}
	return s
}

// CompensationDetails is the sentence describing c.
func CompensationDetails(c Compensation) string {
	switch {
	case c.IsSalary():
		return currency.Sprintf("Your starting salary will be $%.2f %s.", c.Amount, c.Frequency)
	case c.Kind == CompensationPerks && c.Perks != "":
		return "As part of your internship, you will receive the following perks and benefits:\n" + c.Perks
	default:
		return "This is an unpaid position."
	}
}
