// Package cvparse reads the labelled block produced by the CV extraction model.
//
// The block looks like:
//
//	First Name: Jane
//	Skills:
//	Go
//	PostgreSQL
//	Country: Germany
//
// A section starts at a line beginning with its label and runs until the next
// line beginning with any known label.
package cvparse

import (
	"strings"

	"go-profile-backend/internal/domain"
)

// Section labels recognised by the parser. Labels holds all of them in prompt
// order; add new labels there so extraction and termination stay in sync.
const (
	LabelFirstName  = "First Name:"
	LabelLastName   = "Last Name:"
	LabelSkills     = "Skills:"
	LabelCountry    = "Country:"
	LabelState      = "State:"
	LabelCity       = "City:"
	LabelEducation  = "Education:"
	LabelExperience = "Experience:"
)

var Labels = []string{
	LabelFirstName,
	LabelLastName,
	LabelSkills,
	LabelCountry,
	LabelState,
	LabelCity,
	LabelEducation,
	LabelExperience,
}

// ExtractSection returns the trimmed, newline-joined body of the section that
// starts with label, or "" when label never starts a line.
func ExtractSection(text, label string, labels []string) string {
	var (
		started bool
		parts   []string
	)

	for _, line := range splitLines(text) {
		if !started {
			if strings.HasPrefix(line, label) {
				started = true
				parts = append(parts, strings.TrimSpace(line[len(label):]))
			}
			continue
		}
		if startsWithAny(line, labels) {
			break
		}
		parts = append(parts, strings.TrimSpace(line))
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// SplitSkills splits a Skills body into trimmed entries. Blank entries are
// kept; NormalizeSkills in the usecase layer drops them.
func SplitSkills(body string) []string {
	lines := splitLines(body)
	skills := make([]string, 0, len(lines))
	for _, line := range lines {
		skills = append(skills, strings.TrimSpace(line))
	}
	return skills
}

// Parse extracts every known section from an extraction response.
func Parse(text string) domain.ExtractedFields {
	fields := domain.ExtractedFields{
		FirstName:  ExtractSection(text, LabelFirstName, Labels),
		LastName:   ExtractSection(text, LabelLastName, Labels),
		Education:  ExtractSection(text, LabelEducation, Labels),
		Experience: ExtractSection(text, LabelExperience, Labels),
		Country:    ExtractSection(text, LabelCountry, Labels),
		State:      ExtractSection(text, LabelState, Labels),
		City:       ExtractSection(text, LabelCity, Labels),
	}
	if skills := ExtractSection(text, LabelSkills, Labels); skills != "" {
		fields.Skills = SplitSkills(skills)
	}
	return fields
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func startsWithAny(line string, labels []string) bool {
	for _, l := range labels {
		if strings.HasPrefix(line, l) {
			return true
		}
	}
	return false
}
