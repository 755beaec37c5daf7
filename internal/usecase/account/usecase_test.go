package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "account-service/internal/domain/user"
	apperrors "account-service/pkg/errors"
	"account-service/pkg/security"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) FindByEmailIgnoreCase(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) FindByActivationKey(ctx context.Context, key string) (*domain.User, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) FindByResetKey(ctx context.Context, key string) (*domain.User, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Test helper to build a usecase with a mock repo and real security collaborators
func setupTestUsecase(t *testing.T) (Usecase, *MockRepository, security.PasswordHasher) {
	mockRepo := new(MockRepository)
	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, hasher, tokens, logger)
	return uc, mockRepo, hasher
}

func hashOf(t *testing.T, hasher security.PasswordHasher, plain string) string {
	t.Helper()
	hash, err := hasher.Hash(plain)
	require.NoError(t, err)
	return hash
}

// ==================== REGISTER TESTS ====================

func TestRegister_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := RegisterRequest{
		Login:    "johndoe",
		Email:    "john@example.com",
		Password: "password123",
	}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(nil, nil)
	mockRepo.On("FindByEmailIgnoreCase", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Login == "johndoe" &&
			u.Email == "john@example.com" &&
			!u.Activated &&
			len(u.ActivationKey) == 20 &&
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password
	})).Return(int64(1), nil)

	err := uc.Register(ctx, req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_LoginAlreadyUsed(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := RegisterRequest{Login: "johndoe", Email: "john@example.com", Password: "password123"}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(&domain.User{ID: 2, Login: "johndoe"}, nil)

	err := uc.Register(ctx, req)

	assert.ErrorIs(t, err, apperrors.ErrLoginAlreadyUsed)
	mockRepo.AssertExpectations(t)
}

func TestRegister_EmailAlreadyUsed(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := RegisterRequest{Login: "johndoe", Email: "john@example.com", Password: "password123"}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(nil, nil)
	mockRepo.On("FindByEmailIgnoreCase", ctx, req.Email).Return(&domain.User{ID: 2, Email: req.Email}, nil)

	err := uc.Register(ctx, req)

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyUsed)
	mockRepo.AssertExpectations(t)
}

func TestRegister_ValidationError_EmailInvalid(t *testing.T) {
	uc, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := RegisterRequest{Login: "johndoe", Email: "invalid-email", Password: "password123"}

	err := uc.Register(ctx, req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

// ==================== ACTIVATE TESTS ====================

func TestActivate_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", Activated: false, ActivationKey: "12345678901234567890"}

	mockRepo.On("FindByActivationKey", ctx, "12345678901234567890").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.Activated && u.ActivationKey == ""
	})).Return(nil)

	err := uc.Activate(ctx, "12345678901234567890")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestActivate_UnknownKey(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByActivationKey", ctx, "bogus").Return(nil, nil)

	err := uc.Activate(ctx, "bogus")

	require.Error(t, err)
	var internal *apperrors.InternalServerError
	assert.ErrorAs(t, err, &internal)
	assert.Contains(t, err.Error(), "no user was found for this activation key")
	mockRepo.AssertExpectations(t)
}

// ==================== AUTHENTICATE TESTS ====================

func TestAuthenticate_Success(t *testing.T) {
	uc, mockRepo, hasher := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{
		ID:           1,
		Login:        "johndoe",
		PasswordHash: hashOf(t, hasher, "password123"),
		Activated:    true,
		Authorities:  []string{domain.RoleUser},
	}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)

	resp, err := uc.Authenticate(ctx, LoginRequest{Username: "johndoe", Password: "password123"})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.IDToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	uc, mockRepo, hasher := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{
		ID:           1,
		Login:        "johndoe",
		PasswordHash: hashOf(t, hasher, "password123"),
		Activated:    true,
	}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)

	resp, err := uc.Authenticate(ctx, LoginRequest{Username: "johndoe", Password: "wrong-password"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrBadCredentials)
}

func TestAuthenticate_UnknownLogin(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByLogin", ctx, "ghost").Return(nil, nil)

	resp, err := uc.Authenticate(ctx, LoginRequest{Username: "ghost", Password: "password123"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrBadCredentials)
}

func TestAuthenticate_NotActivated(t *testing.T) {
	uc, mockRepo, hasher := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{
		ID:           1,
		Login:        "johndoe",
		PasswordHash: hashOf(t, hasher, "password123"),
		Activated:    false,
	}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)

	resp, err := uc.Authenticate(ctx, LoginRequest{Username: "johndoe", Password: "password123"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrUserNotActivated)
}

// ==================== GET ACCOUNT TESTS ====================

func TestGetAccount_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{
		ID:          1,
		Login:       "johndoe",
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@example.com",
		Activated:   true,
		LangKey:     "en",
		Authorities: []string{domain.RoleUser},
	}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)

	resp, err := uc.GetAccount(ctx, "johndoe")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "johndoe", resp.Login)
	assert.Equal(t, "John", resp.FirstName)
	assert.Equal(t, "john@example.com", resp.Email)
	assert.Equal(t, []string{domain.RoleUser}, resp.Authorities)
	mockRepo.AssertExpectations(t)
}

func TestGetAccount_NotFound(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByLogin", ctx, "ghost").Return(nil, nil)

	resp, err := uc.GetAccount(ctx, "ghost")

	assert.Nil(t, resp)
	require.Error(t, err)
	var internal *apperrors.InternalServerError
	assert.ErrorAs(t, err, &internal)
	assert.Contains(t, err.Error(), "user could not be found")
}

// ==================== UPDATE ACCOUNT TESTS ====================

func TestUpdateAccount_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com"}

	req := UpdateAccountRequest{
		FirstName:          "John",
		LastName:           "Updated",
		Email:              "john.updated@example.com",
		LangKey:            "vi",
		Address:            "1 Main St",
		PhoneNumber:        "0123456789",
		IdentityCardNumber: "AB1234567",
	}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)
	mockRepo.On("FindByEmailIgnoreCase", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 &&
			u.LastName == "Updated" &&
			u.Email == "john.updated@example.com" &&
			u.IdentityCardNumber == "AB1234567"
	})).Return(nil)

	err := uc.UpdateAccount(ctx, "johndoe", req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAccount_LoginNotFound(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByLogin", ctx, "ghost").Return(nil, nil)

	err := uc.UpdateAccount(ctx, "ghost", UpdateAccountRequest{Email: "ghost@example.com"})

	require.Error(t, err)
	var internal *apperrors.InternalServerError
	assert.ErrorAs(t, err, &internal)
}

func TestUpdateAccount_EmailUsedByAnotherAccount(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com"}
	other := &domain.User{ID: 2, Login: "janedoe", Email: "jane@example.com"}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)
	mockRepo.On("FindByEmailIgnoreCase", ctx, "jane@example.com").Return(other, nil)

	err := uc.UpdateAccount(ctx, "johndoe", UpdateAccountRequest{Email: "jane@example.com"})

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyUsed)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAccount_SameEmailSkipsUniquenessCheck(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com"}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil)

	err := uc.UpdateAccount(ctx, "johndoe", UpdateAccountRequest{Email: "John@Example.com"})

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "FindByEmailIgnoreCase", ctx, mock.Anything)
}

// ==================== CHANGE PASSWORD TESTS ====================

func TestChangePassword_Success(t *testing.T) {
	uc, mockRepo, hasher := setupTestUsecase(t)
	ctx := context.Background()

	oldHash := hashOf(t, hasher, "old-password")
	existing := &domain.User{ID: 1, Login: "johndoe", PasswordHash: oldHash}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.PasswordHash != oldHash && hasher.Compare("new-password", u.PasswordHash) == nil
	})).Return(nil)

	err := uc.ChangePassword(ctx, "johndoe", ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	uc, mockRepo, hasher := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", PasswordHash: hashOf(t, hasher, "old-password")}

	mockRepo.On("FindByLogin", ctx, "johndoe").Return(existing, nil)

	err := uc.ChangePassword(ctx, "johndoe", ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password",
	})

	require.Error(t, err)
	var invalid *apperrors.InvalidPasswordError
	assert.ErrorAs(t, err, &invalid)
}

// ==================== PASSWORD RESET TESTS ====================

func TestRequestPasswordReset_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com", Activated: true}

	mockRepo.On("FindByEmailIgnoreCase", ctx, "john@example.com").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && len(u.ResetKey) == 20 && u.ResetDate != nil
	})).Return(nil)

	err := uc.RequestPasswordReset(ctx, "john@example.com")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByEmailIgnoreCase", ctx, "ghost@example.com").Return(nil, nil)

	err := uc.RequestPasswordReset(ctx, "ghost@example.com")

	assert.ErrorIs(t, err, apperrors.ErrEmailNotFound)
}

func TestRequestPasswordReset_InactiveAccount(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: 1, Login: "johndoe", Email: "john@example.com", Activated: false}

	mockRepo.On("FindByEmailIgnoreCase", ctx, "john@example.com").Return(existing, nil)

	err := uc.RequestPasswordReset(ctx, "john@example.com")

	assert.ErrorIs(t, err, apperrors.ErrEmailNotFound)
}

func TestFinishPasswordReset_Success(t *testing.T) {
	uc, mockRepo, hasher := setupTestUsecase(t)
	ctx := context.Background()

	issued := time.Now().Add(-time.Hour)
	existing := &domain.User{ID: 1, Login: "johndoe", ResetKey: "09876543210987654321", ResetDate: &issued}

	mockRepo.On("FindByResetKey", ctx, "09876543210987654321").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 &&
			u.ResetKey == "" &&
			u.ResetDate == nil &&
			hasher.Compare("new-password", u.PasswordHash) == nil
	})).Return(nil)

	err := uc.FinishPasswordReset(ctx, FinishPasswordResetRequest{
		Key:         "09876543210987654321",
		NewPassword: "new-password",
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestFinishPasswordReset_UnknownKey(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByResetKey", ctx, "bogus").Return(nil, nil)

	err := uc.FinishPasswordReset(ctx, FinishPasswordResetRequest{Key: "bogus", NewPassword: "new-password"})

	require.Error(t, err)
	var internal *apperrors.InternalServerError
	assert.ErrorAs(t, err, &internal)
	assert.Contains(t, err.Error(), "no user was found for this reset key")
}

func TestFinishPasswordReset_ExpiredKey(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	issued := time.Now().Add(-25 * time.Hour)
	existing := &domain.User{ID: 1, Login: "johndoe", ResetKey: "09876543210987654321", ResetDate: &issued}

	mockRepo.On("FindByResetKey", ctx, "09876543210987654321").Return(existing, nil)

	err := uc.FinishPasswordReset(ctx, FinishPasswordResetRequest{
		Key:         "09876543210987654321",
		NewPassword: "new-password",
	})

	require.Error(t, err)
	var internal *apperrors.InternalServerError
	assert.ErrorAs(t, err, &internal)
	mockRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
}
