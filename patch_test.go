package offerletter

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, time.August, 4, 9, 30, 0, 0, time.UTC)

func TestPatch_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, p Patch)
	}{
		{
			name:  "absent fields stay nil",
			input: `{"candidateName":"Sarah Lee"}`,
			check: func(t *testing.T, p Patch) {
				if p.CandidateName == nil || *p.CandidateName != "Sarah Lee" {
					t.Errorf("CandidateName = %v, want Sarah Lee", p.CandidateName)
				}
				if p.JobTitle != nil || p.Salary != nil || p.ElementOrder != nil {
					t.Errorf("unexpected fields set: %+v", p)
				}
			},
		},
		{
			name:  "null salary reads as zero",
			input: `{"salary":null,"perksAndBenefits":"Lunch"}`,
			check: func(t *testing.T, p Patch) {
				if p.Salary == nil || *p.Salary != 0 {
					t.Errorf("Salary = %v, want pointer to 0", p.Salary)
				}
			},
		},
		{
			name:  "numeric salary",
			input: `{"salary":150000,"salaryFrequency":"annually"}`,
			check: func(t *testing.T, p Patch) {
				if p.Salary == nil || *p.Salary != 150000 {
					t.Errorf("Salary = %v, want 150000", p.Salary)
				}
			},
		},
		{
			name:  "template alias for theme",
			input: `{"template":"modern"}`,
			check: func(t *testing.T, p Patch) {
				if p.Theme == nil || *p.Theme != ThemeModern {
					t.Errorf("Theme = %v, want modern", p.Theme)
				}
			},
		},
		{
			name:  "theme wins over alias",
			input: `{"template":"modern","theme":"regal"}`,
			check: func(t *testing.T, p Patch) {
				if p.Theme == nil || *p.Theme != ThemeRegal {
					t.Errorf("Theme = %v, want regal", p.Theme)
				}
			},
		},
		{
			name:  "empty element order is present",
			input: `{"elementOrder":[]}`,
			check: func(t *testing.T, p Patch) {
				if p.ElementOrder == nil {
					t.Error("ElementOrder = nil, want empty slice")
				}
			},
		},
		{
			name:  "structured compensation",
			input: `{"compensation":{"kind":"perks","perks":"Gym"}}`,
			check: func(t *testing.T, p Patch) {
				if p.Compensation == nil || p.Compensation.Perks != "Gym" {
					t.Errorf("Compensation = %+v, want perks Gym", p.Compensation)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p Patch
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestPatch_UnmarshalJSON_Errors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		`{"salary":"lots"}`,
		`{"elementOrder":"header"}`,
		`not json`,
	} {
		var p Patch
		if err := json.Unmarshal([]byte(input), &p); err == nil {
			t.Errorf("Unmarshal(%s) error = nil, want error", input)
		}
	}
}

func TestPatch_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	input := []byte(`
candidateName: Sarah Lee
jobTitle: Senior Product Manager
salary: 150000
salaryFrequency: annually
elementOrder: [body, header]
`)
	var p Patch
	if err := p.UnmarshalYAML(input); err != nil {
		t.Fatalf("UnmarshalYAML() error: %v", err)
	}
	if p.JobTitle == nil || *p.JobTitle != "Senior Product Manager" {
		t.Errorf("JobTitle = %v", p.JobTitle)
	}
	if p.Salary == nil || *p.Salary != 150000 {
		t.Errorf("Salary = %v, want 150000", p.Salary)
	}
	want := []Section{SectionBody, SectionHeader}
	if !reflect.DeepEqual(p.ElementOrder, want) {
		t.Errorf("ElementOrder = %v, want %v", p.ElementOrder, want)
	}
}

func TestApplyPatch_Compensation(t *testing.T) {
	t.Parallel()

	salary := Salary(60000, FrequencyAnnually)
	perks := Perks("Free lunch")

	tests := []struct {
		name  string
		start Compensation
		patch Patch
		want  Compensation
	}{
		{
			name:  "positive salary keeps frequency",
			start: Salary(60000, FrequencyMonthly),
			patch: Patch{Salary: Float(5000)},
			want:  Compensation{Kind: CompensationSalary, Amount: 5000, Frequency: FrequencyMonthly},
		},
		{
			name:  "salary replaces perks and clears them",
			start: perks,
			patch: Patch{Salary: Float(150000), SalaryFrequency: String(FrequencyAnnually)},
			want:  Compensation{Kind: CompensationSalary, Amount: 150000, Frequency: FrequencyAnnually},
		},
		{
			name:  "perks replace salary and clear it",
			start: salary,
			patch: Patch{PerksAndBenefits: String("Gym membership")},
			want:  Compensation{Kind: CompensationPerks, Perks: "Gym membership"},
		},
		{
			name:  "zero salary without perks is unpaid",
			start: salary,
			patch: Patch{Salary: Float(0)},
			want:  Compensation{Kind: CompensationPerks},
		},
		{
			name:  "zero salary with perks",
			start: salary,
			patch: Patch{Salary: Float(0), PerksAndBenefits: String("Mentorship")},
			want:  Compensation{Kind: CompensationPerks, Perks: "Mentorship"},
		},
		{
			name:  "frequency only updates salary",
			start: salary,
			patch: Patch{SalaryFrequency: String(FrequencyHourly)},
			want:  Compensation{Kind: CompensationSalary, Amount: 60000, Frequency: FrequencyHourly},
		},
		{
			name:  "frequency only leaves perks alone",
			start: perks,
			patch: Patch{SalaryFrequency: String(FrequencyHourly)},
			want:  perks,
		},
		{
			name:  "empty perks clears perks text",
			start: perks,
			patch: Patch{PerksAndBenefits: String("")},
			want:  Compensation{Kind: CompensationPerks},
		},
		{
			name:  "empty perks leaves salary alone",
			start: salary,
			patch: Patch{PerksAndBenefits: String("")},
			want:  salary,
		},
		{
			name:  "structured compensation is normalized",
			start: perks,
			patch: Patch{Compensation: &Compensation{Kind: "salary", Amount: 90000, Frequency: "weekly", Perks: "stale"}},
			want:  Compensation{Kind: CompensationSalary, Amount: 90000, Frequency: FrequencyAnnually},
		},
		{
			name:  "no compensation fields",
			start: salary,
			patch: Patch{JobTitle: String("Engineer")},
			want:  salary,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := NewDocument(fixedNow)
			doc.Compensation = tt.start
			got := ApplyPatch(doc, tt.patch).Compensation
			if got != tt.want {
				t.Errorf("Compensation = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyPatch_ElementOrderRepair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		order []Section
		want  []Section
	}{
		{
			name:  "valid permutation kept",
			order: []Section{SectionBody, SectionHeader, SectionDate, SectionRecipient, SectionSubject, SectionSignature},
			want:  []Section{SectionBody, SectionHeader, SectionDate, SectionRecipient, SectionSubject, SectionSignature},
		},
		{
			name:  "duplicates and unknown keys dropped, missing appended",
			order: []Section{SectionSignature, "footer", SectionSignature, SectionBody},
			want:  []Section{SectionSignature, SectionBody, SectionHeader, SectionDate, SectionRecipient, SectionSubject},
		},
		{
			name:  "empty order restores default",
			order: []Section{},
			want:  DefaultSections,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ApplyPatch(NewDocument(fixedNow), Patch{ElementOrder: tt.order}).ElementOrder
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ElementOrder = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyPatch_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	before := doc.Clone()

	got := ApplyPatch(doc, Patch{
		CandidateName: String("Sarah Lee"),
		ElementOrder:  []Section{SectionBody},
	})
	got.ElementOrder[1] = "mutated"

	if !reflect.DeepEqual(doc, before) {
		t.Error("ApplyPatch modified its input document")
	}
	if got.CandidateName != "Sarah Lee" {
		t.Errorf("CandidateName = %q, want Sarah Lee", got.CandidateName)
	}
}

func TestApplyPatch_LastWriteWins(t *testing.T) {
	t.Parallel()

	doc := ApplyPatch(NewDocument(fixedNow), Patch{JobTitle: String("A")})
	doc = ApplyPatch(doc, Patch{JobTitle: String("B"), LogoAlignment: String("center")})

	if doc.JobTitle != "B" {
		t.Errorf("JobTitle = %q, want B", doc.JobTitle)
	}
	if doc.LogoAlignment != LogoRight {
		t.Errorf("LogoAlignment = %q, want unknown value repaired to right", doc.LogoAlignment)
	}
}
