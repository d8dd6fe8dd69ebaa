package offerletter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alnah/go-offerletter/internal/yamlutil"
)

// Patch is a partial Document. A nil field is absent and leaves the
// current value unchanged.
//
// Compensation replaces the whole compensation when set. The flat fields
// Salary, SalaryFrequency and PerksAndBenefits carry the shape produced by
// form inputs and the generative assist: a positive salary selects the
// salary variant, and a zero salary or non-empty perks select perks.
type Patch struct {
	CompanyName     *string
	CompanyAddress  *string
	CompanyLogo     *string
	CompanyEmail    *string
	CompanyPhone    *string
	CompanyWebsite  *string
	CompanyLinkedIn *string

	CandidateName    *string
	CandidateAddress *string

	JobTitle           *string
	OfferType          *string
	StartDate          *string
	AcceptanceDeadline *string
	Date               *string
	ManagerName        *string

	Compensation     *Compensation
	Salary           *float64
	SalaryFrequency  *string
	PerksAndBenefits *string

	SignerName      *string
	SignerTitle     *string
	SignerSignature *string

	Body *string

	Theme         *string
	FontFamily    *string
	HeadingColor  *string
	BodyColor     *string
	AccentColor   *string
	LogoAlignment *string
	ElementOrder  []Section
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Float returns a pointer to f, for building patches.
func Float(f float64) *float64 { return &f }

// optionalNumber records whether a JSON number was present, null included.
type optionalNumber struct {
	set   bool
	value *float64
}

func (n *optionalNumber) UnmarshalJSON(data []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.value = nil
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("salary: %w", err)
	}
	n.value = &f
	return nil
}

type patchWire struct {
	CompanyName        *string         `json:"companyName"`
	CompanyAddress     *string         `json:"companyAddress"`
	CompanyLogo        *string         `json:"companyLogo"`
	CompanyEmail       *string         `json:"companyEmail"`
	CompanyPhone       *string         `json:"companyPhone"`
	CompanyWebsite     *string         `json:"companyWebsite"`
	CompanyLinkedIn    *string         `json:"companyLinkedIn"`
	CandidateName      *string         `json:"candidateName"`
	CandidateAddress   *string         `json:"candidateAddress"`
	JobTitle           *string         `json:"jobTitle"`
	OfferType          *string         `json:"offerType"`
	StartDate          *string         `json:"startDate"`
	AcceptanceDeadline *string         `json:"acceptanceDeadline"`
	Date               *string         `json:"date"`
	ManagerName        *string         `json:"managerName"`
	Compensation       *Compensation   `json:"compensation"`
	Salary             optionalNumber  `json:"salary"`
	SalaryFrequency    *string         `json:"salaryFrequency"`
	PerksAndBenefits   *string         `json:"perksAndBenefits"`
	SignerName         *string         `json:"signerName"`
	SignerTitle        *string         `json:"signerTitle"`
	SignerSignature    *string         `json:"signerSignature"`
	Body               *string         `json:"body"`
	Theme              *string         `json:"theme"`
	Template           *string         `json:"template"`
	FontFamily         *string         `json:"fontFamily"`
	HeadingColor       *string         `json:"headingColor"`
	BodyColor          *string         `json:"bodyColor"`
	AccentColor        *string         `json:"accentColor"`
	LogoAlignment      *string         `json:"logoAlignment"`
	ElementOrder       json.RawMessage `json:"elementOrder"`
}

// UnmarshalJSON decodes a patch. A null salary is present and reads as 0,
// marking the position unpaid. "template" is accepted as an alias of
// "theme".
func (p *Patch) UnmarshalJSON(data []byte) error {
	var w patchWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Patch{
		CompanyName:        w.CompanyName,
		CompanyAddress:     w.CompanyAddress,
		CompanyLogo:        w.CompanyLogo,
		CompanyEmail:       w.CompanyEmail,
		CompanyPhone:       w.CompanyPhone,
		CompanyWebsite:     w.CompanyWebsite,
		CompanyLinkedIn:    w.CompanyLinkedIn,
		CandidateName:      w.CandidateName,
		CandidateAddress:   w.CandidateAddress,
		JobTitle:           w.JobTitle,
		OfferType:          w.OfferType,
		StartDate:          w.StartDate,
		AcceptanceDeadline: w.AcceptanceDeadline,
		Date:               w.Date,
		ManagerName:        w.ManagerName,
		Compensation:       w.Compensation,
		SalaryFrequency:    w.SalaryFrequency,
		PerksAndBenefits:   w.PerksAndBenefits,
		SignerName:         w.SignerName,
		SignerTitle:        w.SignerTitle,
		SignerSignature:    w.SignerSignature,
		Body:               w.Body,
		Theme:              w.Theme,
		FontFamily:         w.FontFamily,
		HeadingColor:       w.HeadingColor,
		BodyColor:          w.BodyColor,
		AccentColor:        w.AccentColor,
		LogoAlignment:      w.LogoAlignment,
	}
	if p.Theme == nil {
		p.Theme = w.Template
	}
	if w.Salary.set {
		if w.Salary.value != nil {
			p.Salary = w.Salary.value
		} else {
			p.Salary = Float(0)
		}
	}

	if raw := bytes.TrimSpace(w.ElementOrder); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var order []Section
		if err := json.Unmarshal(raw, &order); err != nil {
			return fmt.Errorf("elementOrder: %w", err)
		}
		p.ElementOrder = order
		if p.ElementOrder == nil {
			p.ElementOrder = []Section{}
		}
	}
	return nil
}

// UnmarshalYAML decodes a patch from YAML with the same keys as JSON.
func (p *Patch) UnmarshalYAML(data []byte) error {
	js, err := yamlutil.ToJSON(data)
	if err != nil {
		return err
	}
	return p.UnmarshalJSON(js)
}

// ApplyPatch merges p into doc field by field and repairs the compensation
// and section order invariants. doc is not modified.
func ApplyPatch(doc Document, p Patch) Document {
	out := doc.Clone()

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.CompanyName, p.CompanyName)
	set(&out.CompanyAddress, p.CompanyAddress)
	set(&out.CompanyLogo, p.CompanyLogo)
	set(&out.CompanyEmail, p.CompanyEmail)
	set(&out.CompanyPhone, p.CompanyPhone)
	set(&out.CompanyWebsite, p.CompanyWebsite)
	set(&out.CompanyLinkedIn, p.CompanyLinkedIn)
	set(&out.CandidateName, p.CandidateName)
	set(&out.CandidateAddress, p.CandidateAddress)
	set(&out.JobTitle, p.JobTitle)
	set(&out.OfferType, p.OfferType)
	set(&out.StartDate, p.StartDate)
	set(&out.AcceptanceDeadline, p.AcceptanceDeadline)
	set(&out.Date, p.Date)
	set(&out.ManagerName, p.ManagerName)
	set(&out.SignerName, p.SignerName)
	set(&out.SignerTitle, p.SignerTitle)
	set(&out.SignerSignature, p.SignerSignature)
	set(&out.Body, p.Body)
	set(&out.Theme, p.Theme)
	set(&out.FontFamily, p.FontFamily)
	set(&out.HeadingColor, p.HeadingColor)
	set(&out.BodyColor, p.BodyColor)
	set(&out.AccentColor, p.AccentColor)
	set(&out.LogoAlignment, p.LogoAlignment)
	if p.ElementOrder != nil {
		out.ElementOrder = append([]Section(nil), p.ElementOrder...)
	}

	out.Compensation = mergeCompensation(out.Compensation, p)
	return repair(out)
}

func mergeCompensation(cur Compensation, p Patch) Compensation {
	if p.Compensation != nil {
		return normalizeCompensation(*p.Compensation)
	}

	freq := cur.Frequency
	if p.SalaryFrequency != nil {
		freq = *p.SalaryFrequency
	}

	switch {
	case p.Salary != nil && *p.Salary > 0:
		return Salary(*p.Salary, freq)
	case p.PerksAndBenefits != nil && strings.TrimSpace(*p.PerksAndBenefits) != "":
		return Perks(*p.PerksAndBenefits)
	case p.Salary != nil:
		perks := ""
		if p.PerksAndBenefits != nil {
			perks = *p.PerksAndBenefits
		}
		return Perks(perks)
	case p.PerksAndBenefits != nil && cur.Kind == CompensationPerks:
		return Perks(*p.PerksAndBenefits)
	case p.SalaryFrequency != nil && cur.Kind == CompensationSalary:
		return Salary(cur.Amount, freq)
	}
	return cur
}

// repair restores the structural invariants of doc.
func repair(doc Document) Document {
	doc.Compensation = normalizeCompensation(doc.Compensation)
	doc.ElementOrder = repairOrder(doc.ElementOrder)
	if doc.LogoAlignment != LogoLeft {
		doc.LogoAlignment = LogoRight
	}
	return doc
}
