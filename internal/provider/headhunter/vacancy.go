package headhunter

import (
	"fmt"
	"strings"

	"github.com/pathforge-labs/pathforge/internal/jobs"
)

type Vacancies struct {
	Items []*Vacancy
}

type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Salary *struct {
		From     int    `json:"from,omitempty"`
		To       int    `json:"to,omitempty"`
		Currency string `json:"currency,omitempty"`
		Gross    bool   `json:"gross,omitempty"`
	} `json:"salary,omitempty"`
	Experience Named `json:"experience,omitempty"`
	Schedule   Named `json:"schedule,omitempty"`
	Employment Named `json:"employment,omitempty"`
	Employer   struct {
		ID           string `json:"id,omitempty"`
		Name         string `json:"name,omitempty"`
		AlternateURL string `json:"alternate_url,omitempty"`
		Trusted      bool   `json:"trusted,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
	Snipet       struct {
		Requirement    string `json:"requirement,omitempty"`
		Responsibility string `json:"responsibility,omitempty"`
	} `json:"snippet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

var highlightReplacer = strings.NewReplacer("<highlighttext>", "", "</highlighttext>", "")

// ToListing maps a vacancy onto the common listing shape. Search results carry
// only a snippet, which stands in for the full description.
func (va *Vacancy) ToListing() jobs.RawListing {
	extra := map[string]any{}
	if va.Employer.ID != "" {
		extra["employer_id"] = va.Employer.ID
	}
	if va.Experience.ID != "" {
		extra["experience"] = va.Experience.ID
	}
	if va.Area.ID != "" {
		extra["area_id"] = va.Area.ID
	}
	if va.PublishedAt != "" {
		extra["published_at"] = va.PublishedAt
	}

	externalID := ""
	if va.ID != "" {
		externalID = Name + ":" + va.ID
	}

	return jobs.RawListing{
		Title:          strings.TrimSpace(va.Name),
		Company:        strings.TrimSpace(va.Employer.Name),
		Description:    va.description(),
		Location:       strings.TrimSpace(va.Area.Name),
		WorkType:       va.workType(),
		SalaryInfo:     va.salaryInfo(),
		SourceURL:      va.AlternateURL,
		SourcePlatform: Name,
		ExternalID:     externalID,
		Extra:          extra,
	}
}

func (va *Vacancy) description() string {
	if d := strings.TrimSpace(va.Description); d != "" {
		return d
	}

	parts := make([]string, 0, 2)
	for _, p := range []string{va.Snipet.Responsibility, va.Snipet.Requirement} {
		if p = strings.TrimSpace(highlightReplacer.Replace(p)); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

func (va *Vacancy) workType() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{va.Schedule.Name, va.Employment.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (va *Vacancy) salaryInfo() string {
	s := va.Salary
	if s == nil || (s.From == 0 && s.To == 0) {
		return ""
	}

	var amount string
	switch {
	case s.From > 0 && s.To > 0:
		amount = fmt.Sprintf("%d-%d", s.From, s.To)
	case s.From > 0:
		amount = fmt.Sprintf("from %d", s.From)
	default:
		amount = fmt.Sprintf("up to %d", s.To)
	}

	if s.Currency != "" {
		amount += " " + s.Currency
	}
	if s.Gross {
		amount += " gross"
	}
	return amount
}
