package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	profiles  *MockProfileRepo
	skills    *MockSkillRepo
	mappings  *MockMappingRepo
	tx        *fakeTx
	cvText    *MockCVText
	cvDocs    *MockCVDocuments
	extractor *MockExtractor
	geo       *MockGeography
	events    *MockPublisher
	uc        domain.ProfileUsecase
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		profiles:  new(MockProfileRepo),
		skills:    new(MockSkillRepo),
		mappings:  new(MockMappingRepo),
		tx:        &fakeTx{},
		cvText:    new(MockCVText),
		cvDocs:    new(MockCVDocuments),
		extractor: new(MockExtractor),
		geo:       new(MockGeography),
		events:    new(MockPublisher),
	}
	f.uc = usecase.NewProfileUsecase(usecase.ProfileUsecaseDeps{
		Profiles:    f.profiles,
		Skills:      f.skills,
		Mappings:    f.mappings,
		Tx:          f.tx,
		CVText:      f.cvText,
		CVDocuments: f.cvDocs,
		Extractor:   f.extractor,
		Locations:   usecase.NewLocationReconciler(f.geo),
		Events:      f.events,
	})
	return f
}

func storedProfile() *domain.ProfileSnapshot {
	return &domain.ProfileSnapshot{
		ID:         uuid.MustParse("6f1c2a9e-7d3b-4c1e-9a8f-2b5d4e6f7a01"),
		Username:   "jdoe",
		FirstName:  "John",
		LastName:   "Doe",
		Country:    "US",
		State:      "CA",
		City:       "San Francisco",
		Education:  "BSc",
		Experience: "Engineer",
		Skills:     []string{"Go", "SQL", "Docker"},
	}
}

func TestEditProfileRejectsTooManySkills(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	skills := make([]string, domain.MaxProfileSkills+1)
	for i := range skills {
		skills[i] = fmt.Sprintf("Skill%d", i)
	}

	_, err := f.uc.EditProfile(ctx, uuid.New(), &domain.EditProfileRequest{Skills: skills})

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), fmt.Sprintf("more than %d", domain.MaxProfileSkills))
	f.profiles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.skills.AssertNotCalled(t, "GetAll", mock.Anything)
	assert.Zero(t, f.tx.calls)
}

func TestEditProfileAcceptsTwentySkills(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	skills := make([]string, domain.MaxProfileSkills)
	for i := range skills {
		skills[i] = fmt.Sprintf("Skill%d", i)
	}

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.skills.On("GetAll", ctx).Return([]string{}, nil)
	f.skills.On("AddSkills", ctx, skills).Return(nil)
	f.mappings.On("RemoveMappings", ctx, mock.Anything).Return(nil)
	f.mappings.On("AddMappings", ctx, mock.Anything).Return(nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{Skills: skills})

	require.NoError(t, err)
	assert.Len(t, updated.Skills, domain.MaxProfileSkills)
}

func TestEditProfileNotFound(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	id := uuid.New()
	f.profiles.On("GetByID", ctx, id).Return(nil, nil)

	_, err := f.uc.EditProfile(ctx, id, &domain.EditProfileRequest{FirstName: "Jane"})

	assert.True(t, apperror.IsCode(err, http.StatusNotFound))
}

func TestEditProfileOverwritesAndDiffsSkills(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	var order []string
	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.skills.On("GetAll", ctx).Return([]string{"go", "SQL", "Docker"}, nil)
	f.skills.On("AddSkills", ctx, []string{"Kubernetes"}).Return(nil).
		Run(func(mock.Arguments) { order = append(order, "vocabulary") })
	f.mappings.On("RemoveMappings", ctx, []domain.SkillMapping{{ProfileID: current.ID, SkillName: "Docker"}}).Return(nil).
		Run(func(mock.Arguments) { order = append(order, "remove") })
	f.mappings.On("AddMappings", ctx, []domain.SkillMapping{{ProfileID: current.ID, SkillName: "Kubernetes"}}).Return(nil).
		Run(func(mock.Arguments) { order = append(order, "add") })
	f.profiles.On("Save", ctx, mock.AnythingOfType("*domain.ProfileSnapshot")).Return(nil).
		Run(func(args mock.Arguments) {
			order = append(order, "save")
			p := args.Get(1).(*domain.ProfileSnapshot)
			assert.Equal(t, "Jane", p.FirstName)
			assert.Equal(t, "", p.LastName)
			assert.Equal(t, "", p.Country)
			assert.Equal(t, "", p.City)
		})

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{
		FirstName: "Jane",
		Education: "MSc",
		Skills:    []string{"Go", "SQL", "Kubernetes", "Go"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"vocabulary", "remove", "add", "save"}, order)
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, updated.Skills)
	assert.Equal(t, "MSc", updated.Education)
	assert.Equal(t, 1, f.tx.calls)

	// The loaded snapshot is left untouched.
	assert.Equal(t, "John", current.FirstName)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, current.Skills)
}

func TestEditProfileWithoutSkillsKeepsMappings(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{FirstName: "Jane", Country: "DE"})

	require.NoError(t, err)
	assert.Equal(t, current.Skills, updated.Skills)
	assert.Equal(t, "DE", updated.Country)
	f.skills.AssertNotCalled(t, "GetAll", mock.Anything)
	f.mappings.AssertNotCalled(t, "AddMappings", mock.Anything, mock.Anything)
	f.mappings.AssertNotCalled(t, "RemoveMappings", mock.Anything, mock.Anything)
}

func TestEditProfileEmptySkillListClearsSkills(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.skills.On("GetAll", ctx).Return([]string{"Go", "SQL", "Docker"}, nil)
	f.mappings.On("RemoveMappings", ctx, domain.MappingsFor(current.ID, []string{"Go", "SQL", "Docker"})).Return(nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{Skills: []string{}})

	require.NoError(t, err)
	assert.Empty(t, updated.Skills)
	f.mappings.AssertNotCalled(t, "AddMappings", mock.Anything, mock.Anything)
	f.skills.AssertNotCalled(t, "AddSkills", mock.Anything, mock.Anything)
}

func TestEditProfileValidation(t *testing.T) {
	f := newProfileFixture()

	_, err := f.uc.EditProfile(context.Background(), uuid.New(), &domain.EditProfileRequest{FirstName: "J4ne"})
	assert.True(t, apperror.IsCode(err, http.StatusBadRequest))

	_, err = f.uc.EditProfile(context.Background(), uuid.New(), nil)
	assert.True(t, apperror.IsCode(err, http.StatusBadRequest))

	f.profiles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

const extraction = `First Name: Jane
Last Name:
Skills:
Go
Kubernetes

Country: Germany
State:
City: Munich
Education:
Experience:
Staff engineer at Acme`

func TestSyncProfileFromCV(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("raw cv text", nil)
	f.extractor.On("ExtractProfile", ctx, "raw cv text").Return(extraction, nil)
	f.geo.On("CountriesByNames", ctx, []string{"Germany"}).Return([]domain.Location{{CountryIso2Code: "DE"}}, nil)
	f.geo.On("CitiesByCityAndCountry", ctx, []domain.LocationQuery{{City: "Munich", Country: "DE"}}).
		Return([]domain.Location{{City: "Munich", StateCode: "BY", CountryIso2Code: "DE"}}, nil)
	f.skills.On("GetAll", ctx).Return([]string{"Go", "SQL", "Docker"}, nil)
	f.skills.On("AddSkills", ctx, []string{"Kubernetes"}).Return(nil)
	f.mappings.On("RemoveMappings", ctx, domain.MappingsFor(current.ID, []string{"SQL", "Docker"})).Return(nil)
	f.mappings.On("AddMappings", ctx, domain.MappingsFor(current.ID, []string{"Kubernetes"})).Return(nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName, "empty extraction must not clear")
	assert.Equal(t, "BSc", updated.Education, "empty extraction must not clear")
	assert.Equal(t, "Staff engineer at Acme", updated.Experience)
	assert.Equal(t, domain.CanonicalLocation{Country: "DE", State: "BY", City: "Munich"}, updated.Location())
	assert.Equal(t, []string{"Go", "Kubernetes"}, updated.Skills)
	f.mappings.AssertExpectations(t)
}

func TestSyncProfileFromCVSkipsValuesTooLongForStorage(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()
	longSkill := strings.Repeat("s", domain.MaxSkillLength+1)
	longName := strings.Repeat("n", domain.MaxNameLength+1)
	reply := "First Name: " + longName + "\nLast Name: Smith\nSkills:\nGo\n" + longSkill + "\nKubernetes\n"

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("cv", nil)
	f.extractor.On("ExtractProfile", ctx, "cv").Return(reply, nil)
	f.skills.On("GetAll", ctx).Return([]string{"Go", "SQL", "Docker"}, nil)
	f.skills.On("AddSkills", ctx, []string{"Kubernetes"}).Return(nil)
	f.mappings.On("RemoveMappings", ctx, domain.MappingsFor(current.ID, []string{"SQL", "Docker"})).Return(nil)
	f.mappings.On("AddMappings", ctx, domain.MappingsFor(current.ID, []string{"Kubernetes"})).Return(nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, updated.Skills)
	assert.Equal(t, "John", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	f.skills.AssertExpectations(t)
	f.mappings.AssertExpectations(t)
}

func TestSyncProfileFromCVOnlyOversizedSkillsKeepsSkills(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("cv", nil)
	f.extractor.On("ExtractProfile", ctx, "cv").Return("Skills:\n"+strings.Repeat("x", domain.MaxSkillLength+1), nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	require.NoError(t, err)
	assert.Equal(t, current.Skills, updated.Skills)
	f.skills.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestSyncProfileFromCVWithoutLocationKeepsLocation(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("cv", nil)
	f.extractor.On("ExtractProfile", ctx, "cv").Return("First Name: Jane\nSkills:\n\n", nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	require.NoError(t, err)
	assert.Equal(t, current.Location(), updated.Location())
	assert.Equal(t, current.Skills, updated.Skills)
	f.geo.AssertNotCalled(t, "CountriesByNames", mock.Anything, mock.Anything)
	f.skills.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestSyncProfileFromCVUpstreamFailurePersistsNothing(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()
	boom := errors.New("geography down")

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("cv", nil)
	f.extractor.On("ExtractProfile", ctx, "cv").Return(extraction, nil)
	f.geo.On("CountriesByNames", ctx, mock.Anything).Return(nil, boom)

	_, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	assert.ErrorIs(t, err, boom)
	assert.True(t, apperror.IsCode(err, http.StatusBadGateway))
	assert.Zero(t, f.tx.calls)
	f.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSyncProfileFromCVExtractionFailure(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("cv", nil)
	f.extractor.On("ExtractProfile", ctx, "cv").Return("", errors.New("quota exceeded"))

	_, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	assert.True(t, apperror.IsCode(err, http.StatusBadGateway))
	assert.Zero(t, f.tx.calls)
}

func TestSyncProfileFromCVMissingCV(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("", fmt.Errorf("s3: %w", domain.ErrCVNotFound))

	_, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	assert.True(t, apperror.IsCode(err, http.StatusNotFound))
	f.extractor.AssertNotCalled(t, "ExtractProfile", mock.Anything, mock.Anything)
}

func TestSyncProfileFromCVEmptyText(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvText.On("GetCVText", ctx, current).Return("   ", nil)

	got, err := f.uc.SyncProfileFromCV(ctx, current.ID)

	require.NoError(t, err)
	assert.Equal(t, current, got)
	assert.Zero(t, f.tx.calls)
}

func TestRecommendJobs(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes request", func(t *testing.T) {
		f := newProfileFixture()
		current := storedProfile()
		f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
		f.events.On("Publish", ctx, domain.SubjectRecommendJobs, mock.MatchedBy(func(req domain.JobRecommendationRequest) bool {
			return req.ProfileID == current.ID && len(req.Skills) == 3 && req.Country == "US"
		})).Return(nil)

		require.NoError(t, f.uc.RecommendJobs(ctx, current.ID))
		f.events.AssertExpectations(t)
	})

	t.Run("needs three skills", func(t *testing.T) {
		f := newProfileFixture()
		current := storedProfile()
		current.Skills = []string{"Go", "SQL"}
		f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)

		err := f.uc.RecommendJobs(ctx, current.ID)

		assert.True(t, apperror.IsCode(err, http.StatusBadRequest))
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUploadCVStoresTextAndKey(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	var order []string
	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvDocs.On("PutCVText", ctx, current, "Skills:\nGo").Return("cv/jdoe.txt", nil).
		Run(func(mock.Arguments) { order = append(order, "put") })
	f.profiles.On("Save", ctx, mock.Anything).Return(nil).
		Run(func(args mock.Arguments) {
			order = append(order, "save")
			assert.Equal(t, "cv/jdoe.txt", args.Get(1).(*domain.ProfileSnapshot).CVKey)
		})

	updated, err := f.uc.UploadCV(ctx, current.ID, &domain.UploadCVRequest{CVText: "Skills:\nGo"})

	require.NoError(t, err)
	assert.Equal(t, []string{"put", "save"}, order)
	assert.Equal(t, "cv/jdoe.txt", updated.CVKey)
	assert.Empty(t, current.CVKey)
}

func TestUploadCVValidation(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	_, err := f.uc.UploadCV(ctx, uuid.New(), &domain.UploadCVRequest{CVText: "  "})
	assert.True(t, apperror.IsCode(err, http.StatusBadRequest))

	_, err = f.uc.UploadCV(ctx, uuid.New(), &domain.UploadCVRequest{CVText: strings.Repeat("a", domain.MaxCVTextBytes+1)})
	assert.True(t, apperror.IsCode(err, http.StatusBadRequest))

	f.profiles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.cvDocs.AssertNotCalled(t, "PutCVText", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadCVStorageFailurePersistsNothing(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvDocs.On("PutCVText", ctx, current, "cv").Return("", errors.New("bucket gone"))

	_, err := f.uc.UploadCV(ctx, current.ID, &domain.UploadCVRequest{CVText: "cv"})

	assert.True(t, apperror.IsCode(err, http.StatusBadGateway))
	assert.Zero(t, f.tx.calls)
}

func TestUploadCVWithoutStorageConfigured(t *testing.T) {
	profiles := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(usecase.ProfileUsecaseDeps{Profiles: profiles, Tx: &fakeTx{}})
	current := storedProfile()
	profiles.On("GetByID", mock.Anything, current.ID).Return(current, nil)

	_, err := uc.UploadCV(context.Background(), current.ID, &domain.UploadCVRequest{CVText: "cv"})

	assert.True(t, apperror.IsCode(err, http.StatusServiceUnavailable))
}

func TestDeleteCVClearsKey(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()
	current.CVKey = "uploads/42.txt"

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvDocs.On("DeleteCV", ctx, current).Return(nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.DeleteCV(ctx, current.ID)

	require.NoError(t, err)
	assert.Empty(t, updated.CVKey)
	assert.Equal(t, "uploads/42.txt", current.CVKey)
}

func TestEditProfileReplacesCV(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()
	cv := "First Name: Jane"

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvDocs.On("PutCVText", ctx, current, cv).Return("cv/jdoe.txt", nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{FirstName: "Jane", CVText: &cv})

	require.NoError(t, err)
	assert.Equal(t, "cv/jdoe.txt", updated.CVKey)
	f.cvDocs.AssertNotCalled(t, "DeleteCV", mock.Anything, mock.Anything)
}

func TestEditProfileBlankCVDeletesStoredCV(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()
	current.CVKey = "cv/jdoe.txt"
	blank := ""

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.cvDocs.On("DeleteCV", ctx, current).Return(nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{FirstName: "Jane", CVText: &blank})

	require.NoError(t, err)
	assert.Empty(t, updated.CVKey)
	f.cvDocs.AssertExpectations(t)
}

func TestEditProfileWithoutCVLeavesStoredCV(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	current := storedProfile()
	current.CVKey = "cv/jdoe.txt"

	f.profiles.On("GetByID", ctx, current.ID).Return(current, nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(nil)

	updated, err := f.uc.EditProfile(ctx, current.ID, &domain.EditProfileRequest{FirstName: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, "cv/jdoe.txt", updated.CVKey)
	f.cvDocs.AssertNotCalled(t, "DeleteCV", mock.Anything, mock.Anything)
	f.cvDocs.AssertNotCalled(t, "PutCVText", mock.Anything, mock.Anything, mock.Anything)
}
