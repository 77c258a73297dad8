package domain

import (
	"context"

	"github.com/google/uuid"
)

// SkillDelta is the minimal change turning one skill set into another.
type SkillDelta struct {
	ToAdd    []string `json:"to_add"`
	ToRemove []string `json:"to_remove"`
}

// SkillMapping links one profile to one skill name.
type SkillMapping struct {
	ProfileID uuid.UUID `json:"profile_id"`
	SkillName string    `json:"skill_name"`
}

// SkillRepository holds the global skill vocabulary.
type SkillRepository interface {
	GetAll(ctx context.Context) ([]string, error)
	AddSkills(ctx context.Context, names []string) error
	// DeleteUnmapped removes vocabulary entries no profile is mapped to.
	DeleteUnmapped(ctx context.Context) (int64, error)
}

type SkillMappingRepository interface {
	AddMappings(ctx context.Context, mappings []SkillMapping) error
	RemoveMappings(ctx context.Context, mappings []SkillMapping) error
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]string, error)
	DeleteUnmappedSkills(ctx context.Context) (int64, error)
}

// MappingsFor builds one mapping per skill name for the profile.
func MappingsFor(profileID uuid.UUID, skills []string) []SkillMapping {
	mappings := make([]SkillMapping, 0, len(skills))
	for _, s := range skills {
		mappings = append(mappings, SkillMapping{ProfileID: profileID, SkillName: s})
	}
	return mappings
}
