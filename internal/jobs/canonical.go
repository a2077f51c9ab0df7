package jobs

import "strings"

// MaxDescriptionRunes caps the description part of the canonical text.
const MaxDescriptionRunes = 2000

// Canonicalize renders the text handed to the embedding collaborator.
// Title and Company are always present; the other lines only when set.
func Canonicalize(l Listing) string {
	lines := []string{
		"Title: " + l.Title,
		"Company: " + l.Company,
	}

	if l.Location != "" {
		lines = append(lines, "Location: "+l.Location)
	}
	if l.WorkType != "" {
		lines = append(lines, "Type: "+l.WorkType)
	}
	if l.SalaryInfo != "" {
		lines = append(lines, "Salary: "+l.SalaryInfo)
	}
	if l.Description != "" {
		lines = append(lines, "Description: "+truncateRunes(l.Description, MaxDescriptionRunes))
	}

	return strings.Join(lines, "\n")
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
