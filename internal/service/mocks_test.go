package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"answerme/internal/model"
	"answerme/internal/rag"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockKeywordRepository is a mock implementation of repository.KeywordRepository.
type MockKeywordRepository struct {
	mock.Mock
}

func (m *MockKeywordRepository) Create(ctx context.Context, keyword *model.Keyword) error {
	args := m.Called(ctx, keyword)
	return args.Error(0)
}

func (m *MockKeywordRepository) FindByUser(ctx context.Context, userID uint) ([]model.Keyword, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Keyword), args.Error(1)
}

func (m *MockKeywordRepository) FindByUserAndTerm(ctx context.Context, userID uint, term string) (*model.Keyword, error) {
	args := m.Called(ctx, userID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Keyword), args.Error(1)
}

func (m *MockKeywordRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKeywordRepository) DeleteOwned(ctx context.Context, userID, keywordID uint) (bool, error) {
	args := m.Called(ctx, userID, keywordID)
	return args.Bool(0), args.Error(1)
}

// MockThreadRepository is a mock implementation of repository.ThreadRepository.
type MockThreadRepository struct {
	mock.Mock
}

func (m *MockThreadRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.Thread, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Thread), args.Error(1)
}

func (m *MockThreadRepository) FindOwned(ctx context.Context, userID, threadID uint) (*model.Thread, error) {
	args := m.Called(ctx, userID, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Thread), args.Error(1)
}

func (m *MockThreadRepository) ListByUser(ctx context.Context, userID uint, since *time.Time) ([]model.Thread, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Thread), args.Error(1)
}

func (m *MockThreadRepository) CreateWithDigest(ctx context.Context, thread *model.Thread, digest *model.Message) error {
	args := m.Called(ctx, thread, digest)
	return args.Error(0)
}

func (m *MockThreadRepository) DeleteOwned(ctx context.Context, userID, threadID uint) (bool, error) {
	args := m.Called(ctx, userID, threadID)
	return args.Bool(0), args.Error(1)
}

// MockMessageRepository is a mock implementation of repository.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *model.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) CreateExchange(ctx context.Context, userMsg, assistantMsg *model.Message) error {
	args := m.Called(ctx, userMsg, assistantMsg)
	return args.Error(0)
}

func (m *MockMessageRepository) ListByThread(ctx context.Context, threadID uint) ([]model.Message, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) CountByThreads(ctx context.Context, threadIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, threadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *MockMessageRepository) CountUserMessagesBetween(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) InvalidateUser(ctx context.Context, id uint) {
	m.Called(ctx, id)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockEngine is a mock implementation of rag.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) BuildIndex(ctx context.Context, document string) (*rag.Index, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rag.Index), args.Error(1)
}

func (m *MockEngine) Query(ctx context.Context, index *rag.Index, question string) (string, error) {
	args := m.Called(ctx, index, question)
	return args.String(0), args.Error(1)
}

// MockIndexProvider is a mock implementation of IndexProvider.
type MockIndexProvider struct {
	mock.Mock
}

func (m *MockIndexProvider) IndexForDate(ctx context.Context, date time.Time) (*rag.Index, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rag.Index), args.Error(1)
}
