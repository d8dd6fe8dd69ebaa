package offerletter

import (
	"time"

	"github.com/alnah/go-offerletter/internal/dateutil"
)

// Default presentation values.
const (
	DefaultTheme        = ThemeClassic
	DefaultFontFamily   = "Merriweather"
	DefaultHeadingColor = "#1D1D1D"
	DefaultBodyColor    = "#1D1D1D"
	DefaultAccentColor  = "#2D3C77"
)

// DefaultBody is the letter body of a fresh document. It uses every
// supported token.
const DefaultBody = "We are delighted to offer you the position of {jobTitle} at {companyName}. " +
	"We were impressed with your qualifications and experience, and we believe you will be a valuable asset to our team.\n\n" +
	"This is a {offerType} position, starting on {startDate}. You will report to {managerName}. {compensationDetails}\n\n" +
	"Please review the attached documents for more details about your compensation, benefits, and the terms of your employment.\n\n" +
	"To accept this offer, please sign and return this letter by {acceptanceDeadline}.\n\n" +
	"We look forward to welcoming you to the team.\n\n" +
	"Sincerely,"

// NewDocument returns a fresh default document dated now. The start date
// is two weeks out and the acceptance deadline one week out.
func NewDocument(now time.Time) Document {
	return Document{
		CompanyName:     "Innovate Inc.",
		CompanyAddress:  "123 Tech Avenue, Silicon Valley, CA 94000",
		CompanyEmail:    "hr@innovate.com",
		CompanyPhone:    "1-800-555-1234",
		CompanyWebsite:  "www.innovate.com",
		CompanyLinkedIn: "linkedin.com/company/innovate-inc",

		CandidateName:    "John Doe",
		CandidateAddress: "456 Home Street, Anytown, USA 12345",

		JobTitle:           "Software Engineer Intern",
		OfferType:          OfferInternship,
		StartDate:          dateutil.ISO(now.AddDate(0, 0, 14)),
		AcceptanceDeadline: dateutil.ISO(now.AddDate(0, 0, 7)),
		Date:               dateutil.ISO(now),
		ManagerName:        "Jane Smith",
		Compensation:       Salary(60000, FrequencyAnnually),

		SignerName:  "Alex Chen",
		SignerTitle: "Hiring Manager",

		Body: DefaultBody,

		Theme:         DefaultTheme,
		FontFamily:    DefaultFontFamily,
		HeadingColor:  DefaultHeadingColor,
		BodyColor:     DefaultBodyColor,
		AccentColor:   DefaultAccentColor,
		LogoAlignment: LogoRight,
		ElementOrder:  append([]Section(nil), DefaultSections...),
	}
}
