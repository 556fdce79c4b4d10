package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

// MockWaitlistRepository
type MockWaitlistRepository struct {
	mock.Mock
}

func (m *MockWaitlistRepository) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWaitlistRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockWaitlistRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockWaitlistRepository) CountByLanguage(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockEmailService closes dispatched after the admin notification, the
// last step of the background dispatch, so tests can wait for it.
type MockEmailService struct {
	mock.Mock
	dispatched chan struct{}
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{dispatched: make(chan struct{})}
}

func (m *MockEmailService) SendWelcome(entry *entity.WaitlistEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEmailService) SendAdminNotification(entry *entity.WaitlistEntry) {
	m.Called(entry)
	close(m.dispatched)
}

func (m *MockEmailService) Verify() bool {
	return true
}

func (m *MockEmailService) waitDispatched(t *testing.T) {
	t.Helper()
	select {
	case <-m.dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("email dispatch never ran")
	}
}

func validInput() SignupInput {
	return SignupInput{
		Name:     "Ana",
		Email:    "ANA@X.com",
		Language: "spanish",
	}
}

func TestSignupSuccess(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	mockRepo.On("EmailExists", ctx, "ana@x.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		entry := args.Get(1).(*entity.WaitlistEntry)
		entry.ID = "e1c0ffee-0000-0000-0000-000000000001"
		entry.CreatedAt = time.Now()
	}).Return(nil)
	mockEmail.On("SendWelcome", mock.Anything).Return(nil)
	mockEmail.On("SendAdminNotification", mock.Anything).Return()

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "e1c0ffee-0000-0000-0000-000000000001", output.ID)
	assert.Equal(t, "Ana", output.Name)
	assert.Equal(t, "ana@x.com", output.Email)
	assert.Equal(t, "spanish", output.Language)

	mockEmail.waitDispatched(t)
	mockEmail.AssertCalled(t, "SendWelcome", mock.Anything)
	mockEmail.AssertCalled(t, "SendAdminNotification", mock.Anything)
}

func TestSignupDuplicateOnPrecheck(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	mockRepo.On("EmailExists", ctx, "ana@x.com").Return(true, nil)

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, validInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockEmail.AssertNotCalled(t, "SendWelcome", mock.Anything)
}

func TestSignupDuplicateOnInsertRace(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	// The pre-check misses, the unique constraint catches the race.
	mockRepo.On("EmailExists", ctx, "ana@x.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(entity.ErrEmailAlreadyExists)

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, validInput())

	assert.Nil(t, output)
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	mockEmail.AssertNotCalled(t, "SendWelcome", mock.Anything)
}

func TestSignupLookupFailureWrapped(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	storeErr := errors.New("connection reset by peer")
	mockRepo.On("EmailExists", ctx, "ana@x.com").Return(false, storeErr)

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, validInput())

	assert.Nil(t, output)

	var persistenceErr *PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "email lookup", persistenceErr.Op)
	assert.ErrorIs(t, err, storeErr)
}

func TestSignupInsertFailureWrapped(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	storeErr := errors.New("relation \"waitlist\" does not exist")
	mockRepo.On("EmailExists", ctx, "ana@x.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(storeErr)

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, validInput())

	assert.Nil(t, output)

	var persistenceErr *PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "insert", persistenceErr.Op)
	mockEmail.AssertNotCalled(t, "SendWelcome", mock.Anything)
}

func TestSignupValidationFailurePerformsNoIO(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, SignupInput{Name: "Ana", Email: "ana@x.com"})

	assert.Nil(t, output)

	var validationErrors ValidationErrors
	assert.ErrorAs(t, err, &validationErrors)
	assert.Contains(t, validationErrors.Error(), "language")
	mockRepo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignupWelcomeFailureDoesNotChangeOutcome(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)
	mockEmail := NewMockEmailService()

	mockRepo.On("EmailExists", ctx, "ana@x.com").Return(false, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockEmail.On("SendWelcome", mock.Anything).Return(errors.New("smtp: 550 mailbox unavailable"))
	mockEmail.On("SendAdminNotification", mock.Anything).Return()

	uc := NewSignupUseCase(mockRepo, mockEmail)
	output, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "ana@x.com", output.Email)

	// The admin notification still runs after the welcome failure.
	mockEmail.waitDispatched(t)
	mockEmail.AssertCalled(t, "SendAdminNotification", mock.Anything)
}

func TestStatsAggregates(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)

	mockRepo.On("CountAll", ctx).Return(3, nil)
	mockRepo.On("CountByLanguage", ctx).Return(map[string]int{"german": 2, "spanish": 1}, nil)

	uc := NewStatsUseCase(mockRepo)
	output, err := uc.Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 3, output.TotalSignups)
	assert.Equal(t, map[string]int{"german": 2, "spanish": 1}, output.Languages)
}

func TestStatsStoreFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockWaitlistRepository)

	mockRepo.On("CountAll", ctx).Return(0, errors.New("timeout"))

	uc := NewStatsUseCase(mockRepo)
	output, err := uc.Execute(ctx)

	assert.Nil(t, output)

	var persistenceErr *PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
	mockRepo.AssertNotCalled(t, "CountByLanguage", mock.Anything)
}
