package usecase_test

import (
	"context"

	"go-profile-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProfileSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileSnapshot), args.Error(1)
}

func (m *MockProfileRepo) Save(ctx context.Context, profile *domain.ProfileSnapshot) error {
	return m.Called(ctx, profile).Error(0)
}

type MockSkillRepo struct {
	mock.Mock
}

func (m *MockSkillRepo) GetAll(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSkillRepo) AddSkills(ctx context.Context, names []string) error {
	return m.Called(ctx, names).Error(0)
}

func (m *MockSkillRepo) DeleteUnmapped(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockMappingRepo struct {
	mock.Mock
}

func (m *MockMappingRepo) AddMappings(ctx context.Context, mappings []domain.SkillMapping) error {
	return m.Called(ctx, mappings).Error(0)
}

func (m *MockMappingRepo) RemoveMappings(ctx context.Context, mappings []domain.SkillMapping) error {
	return m.Called(ctx, mappings).Error(0)
}

// fakeTx runs fn directly and records whether it was used.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// Mock Collaborators
type MockCVText struct {
	mock.Mock
}

func (m *MockCVText) GetCVText(ctx context.Context, profile *domain.ProfileSnapshot) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

type MockCVDocuments struct {
	mock.Mock
}

func (m *MockCVDocuments) PutCVText(ctx context.Context, profile *domain.ProfileSnapshot, text string) (string, error) {
	args := m.Called(ctx, profile, text)
	return args.String(0), args.Error(1)
}

func (m *MockCVDocuments) DeleteCV(ctx context.Context, profile *domain.ProfileSnapshot) error {
	return m.Called(ctx, profile).Error(0)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractProfile(ctx context.Context, cvText string) (string, error) {
	args := m.Called(ctx, cvText)
	return args.String(0), args.Error(1)
}

type MockGeography struct {
	mock.Mock
}

func (m *MockGeography) CountriesByNames(ctx context.Context, names []string) ([]domain.Location, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *MockGeography) StatesByStateAndCountry(ctx context.Context, queries []domain.LocationQuery) ([]domain.Location, error) {
	args := m.Called(ctx, queries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *MockGeography) CitiesByCityAndCountry(ctx context.Context, queries []domain.LocationQuery) ([]domain.Location, error) {
	args := m.Called(ctx, queries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	return m.Called(ctx, subject, payload).Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveRecipients(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, profileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, to, subject, htmlBody string) error {
	return m.Called(ctx, to, subject, htmlBody).Error(0)
}
