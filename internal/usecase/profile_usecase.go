package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/cvparse"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/metrics"
	"go-profile-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinSkillsForRecommendation is the skill count a profile needs before jobs
// can be recommended for it.
const MinSkillsForRecommendation = 3

type ProfileUsecaseDeps struct {
	Profiles    domain.ProfileRepository
	Skills      domain.SkillRepository
	Mappings    domain.SkillMappingRepository
	Tx          domain.Transactor
	CVText      domain.CVTextProducer
	CVDocuments domain.CVDocumentStore
	Extractor   domain.ProfileExtractor
	Locations   *LocationReconciler
	Events      domain.EventPublisher
	Validate    *validator.Validate
}

type profileUsecase struct {
	profiles  domain.ProfileRepository
	skills    domain.SkillRepository
	mappings  domain.SkillMappingRepository
	tx        domain.Transactor
	cvText    domain.CVTextProducer
	cvDocs    domain.CVDocumentStore
	extractor domain.ProfileExtractor
	locations *LocationReconciler
	events    domain.EventPublisher
	validate  *validator.Validate
}

func NewProfileUsecase(deps ProfileUsecaseDeps) domain.ProfileUsecase {
	validate := deps.Validate
	if validate == nil {
		validate = validation.New()
	}
	return &profileUsecase{
		profiles:  deps.Profiles,
		skills:    deps.Skills,
		mappings:  deps.Mappings,
		tx:        deps.Tx,
		cvText:    deps.CVText,
		cvDocs:    deps.CVDocuments,
		extractor: deps.Extractor,
		locations: deps.Locations,
		events:    deps.Events,
		validate:  validate,
	}
}

// skillPlan is the skill-side outcome of a reconciliation, applied in one transaction.
type skillPlan struct {
	skills     []string
	vocabulary []string
	delta      domain.SkillDelta
}

func (u *profileUsecase) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.ProfileSnapshot, error) {
	return u.loadProfile(ctx, profileID)
}

func (u *profileUsecase) EditProfile(ctx context.Context, profileID uuid.UUID, req *domain.EditProfileRequest) (*domain.ProfileSnapshot, error) {
	if req == nil {
		return nil, apperror.BadRequest("Profile data is required")
	}
	// Validation runs before any store call.
	if len(req.Skills) > domain.MaxProfileSkills {
		return nil, apperror.BadRequest(fmt.Sprintf("Skills: must not have more than %d entries", domain.MaxProfileSkills))
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	if req.CVText != nil {
		if err := checkCVSize(*req.CVText); err != nil {
			return nil, err
		}
	}

	current, err := u.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.FirstName = strings.TrimSpace(req.FirstName)
	updated.LastName = strings.TrimSpace(req.LastName)
	updated.Country = strings.TrimSpace(req.Country)
	updated.State = strings.TrimSpace(req.State)
	updated.City = strings.TrimSpace(req.City)
	updated.Education = strings.TrimSpace(req.Education)
	updated.Experience = strings.TrimSpace(req.Experience)

	var plan *skillPlan
	if req.Skills != nil {
		plan, err = u.planSkills(ctx, current.Skills, req.Skills)
		if err != nil {
			metrics.ReconciliationsTotal.WithLabelValues("manual", "error").Inc()
			return nil, err
		}
		updated.Skills = plan.skills
	}

	if req.CVText != nil {
		if strings.TrimSpace(*req.CVText) == "" {
			err = u.removeCV(ctx, current, &updated)
		} else {
			err = u.storeCV(ctx, current, &updated, *req.CVText)
		}
		if err != nil {
			metrics.ReconciliationsTotal.WithLabelValues("manual", "error").Inc()
			return nil, err
		}
	}

	if err := u.persist(ctx, &updated, plan); err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("manual", "error").Inc()
		return nil, err
	}

	metrics.ReconciliationsTotal.WithLabelValues("manual", "success").Inc()
	logReconciled("manual", &updated, plan)
	return &updated, nil
}

func (u *profileUsecase) SyncProfileFromCV(ctx context.Context, profileID uuid.UUID) (*domain.ProfileSnapshot, error) {
	current, err := u.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	updated, plan, err := u.reconcileFromCV(ctx, current)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("cv", "error").Inc()
		logger.Log.Warnw("CV reconciliation failed", "profile_id", profileID, "error", err)
		return nil, err
	}
	if updated == nil {
		return current, nil
	}

	if err := u.persist(ctx, updated, plan); err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("cv", "error").Inc()
		return nil, err
	}

	metrics.ReconciliationsTotal.WithLabelValues("cv", "success").Inc()
	logReconciled("cv", updated, plan)
	return updated, nil
}

// reconcileFromCV builds the updated profile from the stored CV without
// touching any store. It returns a nil profile when the CV has no text.
func (u *profileUsecase) reconcileFromCV(ctx context.Context, current *domain.ProfileSnapshot) (*domain.ProfileSnapshot, *skillPlan, error) {
	if u.cvText == nil || u.extractor == nil {
		return nil, nil, apperror.Unavailable("CV synchronisation is not configured")
	}

	text, err := u.cvText.GetCVText(ctx, current)
	if err != nil {
		if errors.Is(err, domain.ErrCVNotFound) {
			return nil, nil, apperror.NotFound("No CV uploaded for this profile")
		}
		return nil, nil, apperror.Upstream("CV storage is unavailable", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}

	raw, err := u.extractor.ExtractProfile(ctx, text)
	if err != nil {
		return nil, nil, apperror.Upstream("Failed to extract information from the CV", err)
	}
	fields := cvparse.Parse(raw)

	updated := current.Clone()
	// Extraction never clears a field it found nothing for, and names that
	// do not fit their column are skipped.
	setIfFits(&updated.FirstName, fields.FirstName, domain.MaxNameLength)
	setIfFits(&updated.LastName, fields.LastName, domain.MaxNameLength)
	setIfPresent(&updated.Education, fields.Education)
	setIfPresent(&updated.Experience, fields.Experience)

	if fields.HasLocation() {
		loc, err := u.locations.Reconcile(ctx, domain.LocationQuery{
			Country: fields.Country,
			State:   fields.State,
			City:    fields.City,
		})
		if err != nil {
			return nil, nil, err
		}
		updated.Country, updated.State, updated.City = loc.Country, loc.State, loc.City
	}

	var plan *skillPlan
	if skills := fittingSkills(current.ID, NormalizeSkills(fields.Skills)); len(skills) > 0 {
		plan, err = u.planSkills(ctx, current.Skills, skills)
		if err != nil {
			return nil, nil, err
		}
		updated.Skills = plan.skills
	}

	return &updated, plan, nil
}

func (u *profileUsecase) RecommendJobs(ctx context.Context, profileID uuid.UUID) error {
	profile, err := u.loadProfile(ctx, profileID)
	if err != nil {
		return err
	}

	if len(profile.Skills) < MinSkillsForRecommendation {
		return apperror.BadRequest(fmt.Sprintf("You must have at least %d skills set in your profile to get job recommendations", MinSkillsForRecommendation))
	}
	if u.events == nil {
		return apperror.Unavailable("Job recommendations are temporarily unavailable")
	}

	req := domain.JobRecommendationRequest{
		ProfileID:  profile.ID,
		Country:    profile.Country,
		State:      profile.State,
		City:       profile.City,
		Education:  profile.Education,
		Experience: profile.Experience,
		Skills:     profile.Skills,
	}
	if err := u.events.Publish(ctx, domain.SubjectRecommendJobs, req); err != nil {
		return apperror.Upstream("Failed to request job recommendations", err)
	}

	logger.Log.Infow("Job recommendation requested", "profile_id", profileID, "skills", len(profile.Skills))
	return nil
}

// UploadCV replaces the profile's stored CV text.
func (u *profileUsecase) UploadCV(ctx context.Context, profileID uuid.UUID, req *domain.UploadCVRequest) (*domain.ProfileSnapshot, error) {
	if req == nil || strings.TrimSpace(req.CVText) == "" {
		return nil, apperror.BadRequest("CV text is required")
	}
	if err := checkCVSize(req.CVText); err != nil {
		return nil, err
	}

	current, err := u.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if err := u.storeCV(ctx, current, &updated, req.CVText); err != nil {
		return nil, err
	}
	if err := u.persist(ctx, &updated, nil); err != nil {
		return nil, err
	}

	logger.Log.Infow("CV uploaded", "profile_id", profileID, "key", updated.CVKey, "bytes", len(req.CVText))
	return &updated, nil
}

// DeleteCV removes the profile's stored CV.
func (u *profileUsecase) DeleteCV(ctx context.Context, profileID uuid.UUID) (*domain.ProfileSnapshot, error) {
	current, err := u.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if err := u.removeCV(ctx, current, &updated); err != nil {
		return nil, err
	}
	if err := u.persist(ctx, &updated, nil); err != nil {
		return nil, err
	}

	logger.Log.Infow("CV deleted", "profile_id", profileID)
	return &updated, nil
}

// storeCV writes the object; the caller saves the returned key afterwards.
func (u *profileUsecase) storeCV(ctx context.Context, current, updated *domain.ProfileSnapshot, text string) error {
	if u.cvDocs == nil {
		return apperror.Unavailable("CV storage is not configured")
	}
	key, err := u.cvDocs.PutCVText(ctx, current, text)
	if err != nil {
		return apperror.Upstream("Failed to store the CV", err)
	}
	updated.CVKey = key
	return nil
}

func (u *profileUsecase) removeCV(ctx context.Context, current, updated *domain.ProfileSnapshot) error {
	if u.cvDocs == nil {
		return apperror.Unavailable("CV storage is not configured")
	}
	if err := u.cvDocs.DeleteCV(ctx, current); err != nil {
		return apperror.Upstream("Failed to delete the CV", err)
	}
	updated.CVKey = ""
	return nil
}

func checkCVSize(text string) error {
	if len(text) > domain.MaxCVTextBytes {
		return apperror.BadRequest(fmt.Sprintf("CV text must not exceed %d bytes", domain.MaxCVTextBytes))
	}
	return nil
}

func (u *profileUsecase) loadProfile(ctx context.Context, profileID uuid.UUID) (*domain.ProfileSnapshot, error) {
	profile, err := u.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile == nil {
		return nil, apperror.NotFound("Profile not found")
	}
	return profile, nil
}

func (u *profileUsecase) planSkills(ctx context.Context, stored, requested []string) (*skillPlan, error) {
	vocabulary, err := u.skills.GetAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	skills := NormalizeSkills(requested)
	return &skillPlan{
		skills:     skills,
		vocabulary: NewVocabulary(vocabulary, skills),
		delta:      DiffSkills(stored, skills),
	}, nil
}

// persist writes vocabulary, mapping changes and the profile in one transaction.
// Mapping removals are issued before additions.
func (u *profileUsecase) persist(ctx context.Context, profile *domain.ProfileSnapshot, plan *skillPlan) error {
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if plan != nil {
			if len(plan.vocabulary) > 0 {
				if err := u.skills.AddSkills(ctx, plan.vocabulary); err != nil {
					return err
				}
			}
			if len(plan.delta.ToRemove) > 0 {
				if err := u.mappings.RemoveMappings(ctx, domain.MappingsFor(profile.ID, plan.delta.ToRemove)); err != nil {
					return err
				}
			}
			if len(plan.delta.ToAdd) > 0 {
				if err := u.mappings.AddMappings(ctx, domain.MappingsFor(profile.ID, plan.delta.ToAdd)); err != nil {
					return err
				}
			}
		}
		return u.profiles.Save(ctx, profile)
	})
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setIfFits(dst *string, value string, maxLen int) {
	if value != "" && utf8.RuneCountInString(value) <= maxLen {
		*dst = value
	}
}

// fittingSkills drops extracted skills longer than a skill name column.
func fittingSkills(profileID uuid.UUID, skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if utf8.RuneCountInString(s) > domain.MaxSkillLength {
			logger.Log.Warnw("Skipping oversized extracted skill", "profile_id", profileID, "length", utf8.RuneCountInString(s))
			continue
		}
		out = append(out, s)
	}
	return out
}

func logReconciled(path string, profile *domain.ProfileSnapshot, plan *skillPlan) {
	fields := []interface{}{"profile_id", profile.ID, "path", path}
	if plan != nil {
		fields = append(fields,
			"skills_added", len(plan.delta.ToAdd),
			"skills_removed", len(plan.delta.ToRemove),
			"vocabulary_added", len(plan.vocabulary),
		)
	}
	logger.Log.Infow("Profile reconciled", fields...)
}
