package headhunter

import "testing"

func TestVacancyToListing(t *testing.T) {
	v := &Vacancy{
		ID:           "1",
		Name:         " Go Developer ",
		AlternateURL: "https://hh.ru/vacancy/1",
		PublishedAt:  "2026-10-01T10:00:00+0300",
	}
	v.Employer.ID = "emp1"
	v.Employer.Name = "Acme"
	v.Area.ID = "1"
	v.Area.Name = "Moscow"
	v.Schedule.Name = "Remote"
	v.Employment.Name = "Full time"
	v.Snipet.Requirement = "Strong <highlighttext>Go</highlighttext> skills"
	v.Snipet.Responsibility = "Build services"
	v.Salary = &struct {
		From     int    `json:"from,omitempty"`
		To       int    `json:"to,omitempty"`
		Currency string `json:"currency,omitempty"`
		Gross    bool   `json:"gross,omitempty"`
	}{From: 200000, To: 300000, Currency: "RUR", Gross: true}

	l := v.ToListing()

	if l.Title != "Go Developer" || l.Company != "Acme" || l.Location != "Moscow" {
		t.Fatalf("unexpected listing %+v", l)
	}
	if l.Description != "Build services\nStrong Go skills" {
		t.Fatalf("unexpected description %q", l.Description)
	}
	if l.WorkType != "Remote, Full time" {
		t.Fatalf("unexpected work type %q", l.WorkType)
	}
	if l.SalaryInfo != "200000-300000 RUR gross" {
		t.Fatalf("unexpected salary %q", l.SalaryInfo)
	}
	if l.ExternalID != "hh:1" || l.SourcePlatform != Name || l.SourceURL != "https://hh.ru/vacancy/1" {
		t.Fatalf("unexpected identity fields %+v", l)
	}
	if l.Extra["employer_id"] != "emp1" || l.Extra["area_id"] != "1" {
		t.Fatalf("unexpected extra %v", l.Extra)
	}
}

func TestVacancySalaryInfo(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		currency string
		expect   string
	}{
		{name: "range", from: 1, to: 2, currency: "USD", expect: "1-2 USD"},
		{name: "from only", from: 100, expect: "from 100"},
		{name: "to only", to: 500, currency: "EUR", expect: "up to 500 EUR"},
		{name: "empty", expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vacancy{}
			v.Salary = &struct {
				From     int    `json:"from,omitempty"`
				To       int    `json:"to,omitempty"`
				Currency string `json:"currency,omitempty"`
				Gross    bool   `json:"gross,omitempty"`
			}{From: tt.from, To: tt.to, Currency: tt.currency}

			if got := v.salaryInfo(); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}

	if got := (&Vacancy{}).salaryInfo(); got != "" {
		t.Fatalf("expected empty salary for nil, got %q", got)
	}
}

func TestVacancyPrefersFullDescription(t *testing.T) {
	v := &Vacancy{Description: "Full text"}
	v.Snipet.Requirement = "snippet"
	if got := v.description(); got != "Full text" {
		t.Fatalf("expected full description, got %q", got)
	}
}
