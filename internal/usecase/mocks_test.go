package usecase_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) GetOrCreateDraft(ctx context.Context, candidateID string, jobID *int64) (*domain.Application, bool, error) {
	args := m.Called(ctx, candidateID, jobID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Application), args.Bool(1), args.Error(2)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) HasNonDraft(ctx context.Context, candidateID string, jobID *int64, excludeID int64) (bool, error) {
	args := m.Called(ctx, candidateID, jobID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) MarkSubmitted(ctx context.Context, id int64, appliedDate time.Time) error {
	return m.Called(ctx, id, appliedDate).Error(0)
}

func (m *MockApplicationRepo) GetProfile(ctx context.Context, applicationID int64) (*domain.PersonalProfile, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonalProfile), args.Error(1)
}

func (m *MockApplicationRepo) UpsertProfile(ctx context.Context, p *domain.PersonalProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockApplicationRepo) ListExperiences(ctx context.Context, applicationID int64) ([]domain.Experience, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Experience), args.Error(1)
}

func (m *MockApplicationRepo) UpsertExperience(ctx context.Context, e *domain.Experience) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockApplicationRepo) DeleteExperience(ctx context.Context, applicationID, id int64) error {
	return m.Called(ctx, applicationID, id).Error(0)
}

func (m *MockApplicationRepo) ListEducations(ctx context.Context, applicationID int64) ([]domain.Education, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Education), args.Error(1)
}

func (m *MockApplicationRepo) UpsertEducation(ctx context.Context, e *domain.Education) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockApplicationRepo) DeleteEducation(ctx context.Context, applicationID, id int64) error {
	return m.Called(ctx, applicationID, id).Error(0)
}

func (m *MockApplicationRepo) GetDocuments(ctx context.Context, applicationID int64) (*domain.DocumentSet, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentSet), args.Error(1)
}

func (m *MockApplicationRepo) SaveDocuments(ctx context.Context, ds *domain.DocumentSet) error {
	return m.Called(ctx, ds).Error(0)
}

func (m *MockApplicationRepo) GetPreferences(ctx context.Context, applicationID int64) (*domain.PreferenceSelection, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreferenceSelection), args.Error(1)
}

func (m *MockApplicationRepo) SavePreferences(ctx context.Context, sel *domain.PreferenceSelection) error {
	return m.Called(ctx, sel).Error(0)
}

type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

type MockDraftUsecase struct {
	mock.Mock
}

func (m *MockDraftUsecase) GetOrCreateDraft(ctx context.Context, candidateID string, jobID *int64) (*domain.Application, error) {
	args := m.Called(ctx, candidateID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockDraftUsecase) GetDetail(ctx context.Context, candidateID string, applicationID int64) (*domain.ApplicationDetail, error) {
	args := m.Called(ctx, candidateID, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDetail), args.Error(1)
}

func (m *MockDraftUsecase) ListApplications(ctx context.Context, candidateID string) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockDraftUsecase) AppliedJobIDs(ctx context.Context, candidateID string) (map[int64]bool, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockDraftUsecase) SavePreferences(ctx context.Context, candidateID string, applicationID int64, countries, trades []string) error {
	return m.Called(ctx, candidateID, applicationID, countries, trades).Error(0)
}

func (m *MockDraftUsecase) SavePersonalInfo(ctx context.Context, candidateID string, applicationID int64, in *domain.PersonalInfoInput, partial bool) error {
	return m.Called(ctx, candidateID, applicationID, in, partial).Error(0)
}

func (m *MockDraftUsecase) SaveExperience(ctx context.Context, candidateID string, applicationID int64, in *domain.ExperienceInput) (*domain.Experience, error) {
	args := m.Called(ctx, candidateID, applicationID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experience), args.Error(1)
}

func (m *MockDraftUsecase) DeleteExperience(ctx context.Context, candidateID string, applicationID, id int64, confirmed bool) error {
	return m.Called(ctx, candidateID, applicationID, id, confirmed).Error(0)
}

func (m *MockDraftUsecase) SaveEducation(ctx context.Context, candidateID string, applicationID int64, in *domain.EducationInput) (*domain.Education, error) {
	args := m.Called(ctx, candidateID, applicationID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Education), args.Error(1)
}

func (m *MockDraftUsecase) DeleteEducation(ctx context.Context, candidateID string, applicationID, id int64, confirmed bool) error {
	return m.Called(ctx, candidateID, applicationID, id, confirmed).Error(0)
}

func (m *MockDraftUsecase) SaveDocuments(ctx context.Context, candidateID string, applicationID int64, ds *domain.DocumentSet) error {
	return m.Called(ctx, candidateID, applicationID, ds).Error(0)
}

// stubUploader lets tests script the storage call, including driving the
// progress callback mid-transfer.
type stubUploader struct {
	uploadFn func(ctx context.Context, key, contentType string, body io.Reader, size int64, onProgress func(written int64)) (string, error)
	calls    int
}

func (s *stubUploader) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64, onProgress func(written int64)) (string, error) {
	s.calls++
	if s.uploadFn == nil {
		return "https://storage.example.com/" + key, nil
	}
	return s.uploadFn(ctx, key, contentType, body, size, onProgress)
}
