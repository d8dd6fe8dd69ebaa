package offerletter

import (
	"strings"
	"testing"
)

func TestRender_Tokens(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	doc.StartDate = "2025-09-01"
	doc.AcceptanceDeadline = "2025-08-15"

	tests := []struct {
		name string
		body string
		want string
	}{
		{"company", "{companyName}", "Innovate Inc."},
		{"job title", "{jobTitle}", "Software Engineer Intern"},
		{"offer type", "{offerType}", "Internship"},
		{"manager", "{managerName}", "Jane Smith"},
		{"start date", "{startDate}", "September 1, 2025"},
		{"deadline", "{acceptanceDeadline}", "August 15, 2025"},
		{"salary", "{compensationDetails}", "Your starting salary will be $60,000.00 annually."},
		{"unknown token kept", "Dear {candidateName},", "Dear {candidateName},"},
		{"repeated token", "{jobTitle}/{jobTitle}", "Software Engineer Intern/Software Engineer Intern"},
		{"no tokens", "plain text", "plain text"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := doc.Clone()
			d.Body = tt.body
			if got := Render(d); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestRender_InvalidDate(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	doc.StartDate = "next month"
	doc.AcceptanceDeadline = ""
	doc.Body = "{startDate} {acceptanceDeadline}"

	if got := Render(doc); got != "Invalid Date Invalid Date" {
		t.Errorf("Render() = %q, want invalid date markers", got)
	}
}

func TestRender_RFC3339Date(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	doc.StartDate = "2025-09-01T00:00:00Z"
	doc.Body = "{startDate}"

	if got := Render(doc); got != "September 1, 2025" {
		t.Errorf("Render() = %q, want September 1, 2025", got)
	}
}

func TestRender_ReplacementsNotRescanned(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	doc.JobTitle = "{companyName}"
	doc.Body = "{jobTitle}"

	if got := Render(doc); got != "{companyName}" {
		t.Errorf("Render() = %q, want substituted value left as written", got)
	}
}

func TestCompensationDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Compensation
		want string
	}{
		{"annual salary", Salary(150000, FrequencyAnnually), "Your starting salary will be $150,000.00 annually."},
		{"hourly salary", Salary(25.5, FrequencyHourly), "Your starting salary will be $25.50 hourly."},
		{"perks", Perks("Free lunch\nGym"), "As part of your internship, you will receive the following perks and benefits:\nFree lunch\nGym"},
		{"unpaid", Perks(""), "This is an unpaid position."},
		{"zero salary", Compensation{Kind: CompensationSalary}, "This is an unpaid position."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CompensationDetails(tt.c); got != tt.want {
				t.Errorf("CompensationDetails() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	v := View(doc)

	if strings.Contains(v.Body, "{jobTitle}") {
		t.Errorf("Body still contains tokens: %q", v.Body)
	}
	v.Document.ElementOrder[0] = SectionBody
	if doc.ElementOrder[0] != SectionHeader {
		t.Error("View() shares ElementOrder with its input")
	}
}

func TestNewDocument_Defaults(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)

	checks := []struct {
		field, got, want string
	}{
		{"Date", doc.Date, "2025-08-04"},
		{"StartDate", doc.StartDate, "2025-08-18"},
		{"AcceptanceDeadline", doc.AcceptanceDeadline, "2025-08-11"},
		{"Theme", doc.Theme, ThemeClassic},
		{"FontFamily", doc.FontFamily, "Merriweather"},
		{"AccentColor", doc.AccentColor, "#2D3C77"},
		{"LogoAlignment", doc.LogoAlignment, LogoRight},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if !doc.Compensation.IsSalary() || doc.Compensation.Amount != 60000 {
		t.Errorf("Compensation = %+v, want $60,000 salary", doc.Compensation)
	}

	for _, tok := range []string{"{jobTitle}", "{companyName}", "{offerType}", "{startDate}", "{managerName}", "{compensationDetails}", "{acceptanceDeadline}"} {
		if !strings.Contains(doc.Body, tok) {
			t.Errorf("default body missing %s", tok)
		}
	}

	// Fresh values each call.
	other := NewDocument(fixedNow)
	other.ElementOrder[0] = SectionBody
	if doc.ElementOrder[0] != SectionHeader {
		t.Error("NewDocument() results share ElementOrder")
	}
}
