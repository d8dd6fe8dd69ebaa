package offerletter

import (
	"strings"

	"github.com/alnah/go-offerletter/internal/pipeline"
)

// Offer types.
const (
	OfferInternship = "Internship"
	OfferFullTime   = "Full-Time Employment"
)

// Compensation kinds.
const (
	CompensationSalary = "salary"
	CompensationPerks  = "perks"
)

// Salary frequencies.
const (
	FrequencyAnnually = "annually"
	FrequencyMonthly  = "monthly"
	FrequencyHourly   = "hourly"
)

// Logo alignments.
const (
	LogoLeft  = "left"
	LogoRight = "right"
)

// Compensation is either a salary (Amount and Frequency) or a perks
// description. The fields of the other variant are always empty.
type Compensation struct {
	Kind      string  `json:"kind" yaml:"kind"`
	Amount    float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Frequency string  `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Perks     string  `json:"perks,omitempty" yaml:"perks,omitempty"`
}

// Salary returns a salary compensation.
func Salary(amount float64, frequency string) Compensation {
	return normalizeCompensation(Compensation{Kind: CompensationSalary, Amount: amount, Frequency: frequency})
}

// Perks returns a perks compensation. Empty perks describe an unpaid
// position.
func Perks(perks string) Compensation {
	return Compensation{Kind: CompensationPerks, Perks: perks}
}

// IsSalary reports whether c pays a positive salary.
func (c Compensation) IsSalary() bool {
	return c.Kind == CompensationSalary && c.Amount > 0
}

// normalizeCompensation clears the fields of the inactive variant. An
// empty kind is inferred from the amount.
func normalizeCompensation(c Compensation) Compensation {
	kind := strings.ToLower(strings.TrimSpace(c.Kind))
	if kind != CompensationSalary && kind != CompensationPerks {
		kind = CompensationPerks
		if c.Amount > 0 {
			kind = CompensationSalary
		}
	}
	if kind == CompensationSalary {
		freq := strings.ToLower(strings.TrimSpace(c.Frequency))
		switch freq {
		case FrequencyAnnually, FrequencyMonthly, FrequencyHourly:
		default:
			freq = FrequencyAnnually
		}
		amount := c.Amount
		if amount < 0 {
			amount = 0
		}
		return Compensation{Kind: CompensationSalary, Amount: amount, Frequency: freq}
	}
	return Compensation{Kind: CompensationPerks, Perks: c.Perks}
}

// Document is one offer letter: parties, offer terms, signature, body
// text with {token} placeholders, and presentation settings.
type Document struct {
	CompanyName     string `json:"companyName" yaml:"companyName"`
	CompanyAddress  string `json:"companyAddress" yaml:"companyAddress"`
	CompanyLogo     string `json:"companyLogo" yaml:"companyLogo"`
	CompanyEmail    string `json:"companyEmail,omitempty" yaml:"companyEmail,omitempty"`
	CompanyPhone    string `json:"companyPhone,omitempty" yaml:"companyPhone,omitempty"`
	CompanyWebsite  string `json:"companyWebsite,omitempty" yaml:"companyWebsite,omitempty"`
	CompanyLinkedIn string `json:"companyLinkedIn,omitempty" yaml:"companyLinkedIn,omitempty"`

	CandidateName    string `json:"candidateName" yaml:"candidateName"`
	CandidateAddress string `json:"candidateAddress" yaml:"candidateAddress"`

	JobTitle           string       `json:"jobTitle" yaml:"jobTitle"`
	OfferType          string       `json:"offerType" yaml:"offerType"`
	StartDate          string       `json:"startDate" yaml:"startDate"`
	AcceptanceDeadline string       `json:"acceptanceDeadline" yaml:"acceptanceDeadline"`
	Date               string       `json:"date" yaml:"date"`
	ManagerName        string       `json:"managerName" yaml:"managerName"`
	Compensation       Compensation `json:"compensation" yaml:"compensation"`

	SignerName      string `json:"signerName" yaml:"signerName"`
	SignerTitle     string `json:"signerTitle" yaml:"signerTitle"`
	SignerSignature string `json:"signerSignature" yaml:"signerSignature"`

	Body string `json:"body" yaml:"body"`

	Theme         string    `json:"theme" yaml:"theme"`
	FontFamily    string    `json:"fontFamily" yaml:"fontFamily"`
	HeadingColor  string    `json:"headingColor" yaml:"headingColor"`
	BodyColor     string    `json:"bodyColor" yaml:"bodyColor"`
	AccentColor   string    `json:"accentColor" yaml:"accentColor"`
	LogoAlignment string    `json:"logoAlignment" yaml:"logoAlignment"`
	ElementOrder  []Section `json:"elementOrder" yaml:"elementOrder"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d
	if d.ElementOrder != nil {
		c.ElementOrder = append([]Section(nil), d.ElementOrder...)
	}
	return c
}

// Contacts returns the non-empty contact channels in display order.
func (d Document) Contacts() []string {
	var out []string
	for _, v := range []string{d.CompanyEmail, d.CompanyPhone, d.CompanyWebsite, d.CompanyLinkedIn} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsInlineImage reports whether ref carries its bytes as a data URI.
func IsInlineImage(ref string) bool {
	return pipeline.IsInlineImage(ref)
}

// IsExternalImage reports whether ref is an http(s) URL.
func IsExternalImage(ref string) bool {
	return pipeline.IsExternalImage(ref)
}
