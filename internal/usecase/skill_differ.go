package usecase

import (
	"strings"

	"go-profile-backend/internal/domain"
)

// NormalizeSkills trims entries, drops blanks and exact duplicates, keeping
// first-seen order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// DiffSkills computes the mappings to add and remove to go from oldSkills to
// newSkills. Names are compared exactly as stored; both inputs are normalized first.
func DiffSkills(oldSkills, newSkills []string) domain.SkillDelta {
	oldSet := NormalizeSkills(oldSkills)
	newSet := NormalizeSkills(newSkills)

	if len(newSet) == 0 {
		return domain.SkillDelta{ToAdd: []string{}, ToRemove: oldSet}
	}
	if len(oldSet) == 0 {
		return domain.SkillDelta{ToAdd: newSet, ToRemove: []string{}}
	}

	return domain.SkillDelta{
		ToAdd:    difference(newSet, oldSet),
		ToRemove: difference(oldSet, newSet),
	}
}

// NewVocabulary returns the candidates missing from the vocabulary, compared
// case-insensitively. Candidates differing only by case are inserted once,
// using the first spelling.
func NewVocabulary(existing, candidates []string) []string {
	known := make(map[string]struct{}, len(existing)+len(candidates))
	for _, s := range existing {
		known[strings.ToLower(s)] = struct{}{}
	}

	out := []string{}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, s := range b {
		exclude[s] = struct{}{}
	}
	out := []string{}
	for _, s := range a {
		if _, ok := exclude[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
