package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/llm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockSopRepository mocks the SopRepository interface
type MockSopRepository struct {
	mock.Mock
}

func (m *MockSopRepository) Create(ctx context.Context, sop *domain.Sop) error {
	args := m.Called(ctx, sop)
	return args.Error(0)
}

func (m *MockSopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sop), args.Error(1)
}

func (m *MockSopRepository) List(ctx context.Context, filter domain.SopFilter) ([]domain.Sop, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Sop), args.Error(1)
}

func (m *MockSopRepository) ListActive(ctx context.Context) ([]domain.Sop, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Sop), args.Error(1)
}

func (m *MockSopRepository) Update(ctx context.Context, sop *domain.Sop, evidence []string) error {
	args := m.Called(ctx, sop, evidence)
	return args.Error(0)
}

func (m *MockSopRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.SopCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SopCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SopCategory), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]domain.SopCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SopCategory), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.SopCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) CountSops(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) EnsureByName(ctx context.Context, category *domain.SopCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.ChatSession, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) ListSummaries(ctx context.Context, limit, offset int) ([]domain.SessionSummary, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.SessionSummary), args.Error(1)
}

func (m *MockSessionRepository) SaveTurn(ctx context.Context, turn *domain.ChatTurn) error {
	args := m.Called(ctx, turn)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockMessageRepository) ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]domain.ChatMessage, error) {
	args := m.Called(ctx, sessionIDs)
	return args.Get(0).(map[uuid.UUID][]domain.ChatMessage), args.Error(1)
}

// MockStatsRepository mocks the StatsRepository interface
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// MockStatsCache mocks the StatsCache interface
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

func (m *MockStatsCache) Set(ctx context.Context, stats *domain.Stats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockStatsCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockFileStore mocks the FileStore interface
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Read(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockLLMProvider mocks the LLM Provider interface
type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Name() string {
	return "mock"
}

func (m *MockLLMProvider) AvailableModels() []string {
	return []string{"mock-text", "mock-vision"}
}

func (m *MockLLMProvider) DefaultModel() string {
	return "mock-text"
}

func (m *MockLLMProvider) VisionModel() string {
	return "mock-vision"
}

func (m *MockLLMProvider) IsConfigured() bool {
	return true
}

func (m *MockLLMProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}
