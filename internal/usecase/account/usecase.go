package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "account-service/internal/domain/user"
	apperrors "account-service/pkg/errors"
	"account-service/pkg/security"

	"github.com/go-playground/validator/v10"
)

// resetKeyValidity is how long an issued reset key can be redeemed.
const resetKeyValidity = 24 * time.Hour

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, an in-memory store) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)                        // Insert a new user
	Update(ctx context.Context, u *domain.User) error                                 // Update an existing user
	FindByLogin(ctx context.Context, login string) (*domain.User, error)              // Lookup by login, nil when absent
	FindByEmailIgnoreCase(ctx context.Context, email string) (*domain.User, error)    // Lookup by email, nil when absent
	FindByActivationKey(ctx context.Context, key string) (*domain.User, error)        // Lookup by activation key, nil when absent
	FindByResetKey(ctx context.Context, key string) (*domain.User, error)             // Lookup by reset key, nil when absent
}

// usecase implements the business logic for account management.
// It provides a clean separation between the transport layer and data layer.
type usecase struct {
	repo     Repository              // Repository for data access
	hasher   security.PasswordHasher // Password hashing and verification
	tokens   *security.TokenManager  // JWT issuance
	log      *zap.Logger             // Logger for structured logging
	validate *validator.Validate     // Validator for request validation
}

// New creates a new account Usecase with the provided collaborators.
func New(r Repository, h security.PasswordHasher, t *security.TokenManager, log *zap.Logger) Usecase {
	return &usecase{repo: r, hasher: h, tokens: t, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return fmt.Errorf("validation failed: %s", strings.Join(messages, ", "))
	}
	return err
}

// Register creates a new, not yet activated account and issues an activation key.
func (uc *usecase) Register(ctx context.Context, in RegisterRequest) error {
	uc.log.Info("registering account", zap.String("login", in.Login), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return formatValidationError(err)
	}

	existing, err := uc.repo.FindByLogin(ctx, strings.ToLower(in.Login))
	if err != nil {
		uc.log.Error("failed to check existing login", zap.String("login", in.Login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to validate login uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("login already used", zap.String("login", in.Login))
		return apperrors.ErrLoginAlreadyUsed
	}

	existing, err = uc.repo.FindByEmailIgnoreCase(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return apperrors.NewInternalServerError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already used", zap.String("email", in.Email))
		return apperrors.ErrEmailAlreadyUsed
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return apperrors.NewInternalServerError("failed to hash password", err)
	}

	langKey := in.LangKey
	if langKey == "" {
		langKey = "en"
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Login:         strings.ToLower(in.Login),
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         strings.ToLower(in.Email),
		Activated:     false,
		LangKey:       langKey,
		ImageURL:      in.ImageURL,
		Address:       in.Address,
		PhoneNumber:   in.PhoneNumber,
		Authorities:   []string{domain.RoleUser},
		ActivationKey: security.RandomKey(),
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return apperrors.NewInternalServerError("failed to create user", err)
	}

	uc.log.Info("account registered", zap.Int64("id", id), zap.String("login", in.Login))
	return nil
}

// Activate activates the registered account identified by the activation key.
func (uc *usecase) Activate(ctx context.Context, key string) error {
	uc.log.Info("activating account", zap.String("key", key))

	u, err := uc.repo.FindByActivationKey(ctx, key)
	if err != nil {
		uc.log.Error("failed to look up activation key", zap.Error(err))
		return apperrors.NewInternalServerError("failed to look up activation key", err)
	}
	if u == nil {
		uc.log.Warn("unknown activation key", zap.String("key", key))
		return apperrors.NewInternalServerError("no user was found for this activation key", nil)
	}

	u.Activated = true
	u.ActivationKey = ""
	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to activate user", zap.Int64("id", u.ID), zap.Error(err))
		return apperrors.NewInternalServerError("failed to activate user", err)
	}

	uc.log.Info("account activated", zap.Int64("id", u.ID), zap.String("login", u.Login))
	return nil
}

// Authenticate verifies credentials and issues a signed token.
func (uc *usecase) Authenticate(ctx context.Context, in LoginRequest) (*TokenResponse, error) {
	uc.log.Info("authenticating", zap.String("username", in.Username))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.FindByLogin(ctx, strings.ToLower(in.Username))
	if err != nil {
		uc.log.Error("failed to look up login", zap.String("username", in.Username), zap.Error(err))
		return nil, apperrors.NewInternalServerError("failed to look up login", err)
	}
	if u == nil {
		uc.log.Warn("unknown login", zap.String("username", in.Username))
		return nil, apperrors.ErrBadCredentials
	}

	if err := uc.hasher.Compare(in.Password, u.PasswordHash); err != nil {
		uc.log.Warn("password mismatch", zap.String("username", in.Username))
		return nil, apperrors.ErrBadCredentials
	}

	if !u.Activated {
		uc.log.Warn("user not activated", zap.String("username", in.Username))
		return nil, apperrors.ErrUserNotActivated
	}

	token, err := uc.tokens.Issue(u.Login, u.Authorities, in.RememberMe)
	if err != nil {
		uc.log.Error("failed to issue token", zap.String("username", in.Username), zap.Error(err))
		return nil, apperrors.NewInternalServerError("failed to issue token", err)
	}

	return &TokenResponse{IDToken: token}, nil
}

// GetAccount returns the account details for the given login.
func (uc *usecase) GetAccount(ctx context.Context, login string) (*AccountResponse, error) {
	u, err := uc.repo.FindByLogin(ctx, login)
	if err != nil {
		uc.log.Error("failed to get account", zap.String("login", login), zap.Error(err))
		return nil, apperrors.NewInternalServerError("failed to get account", err)
	}
	if u == nil {
		uc.log.Warn("account not found", zap.String("login", login))
		return nil, apperrors.NewInternalServerError("user could not be found", nil)
	}

	return &AccountResponse{
		Login:              u.Login,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		Activated:          u.Activated,
		LangKey:            u.LangKey,
		ImageURL:           u.ImageURL,
		Address:            u.Address,
		PhoneNumber:        u.PhoneNumber,
		IdentityCardNumber: u.IdentityCardNumber,
		Authorities:        u.Authorities,
	}, nil
}

// UpdateAccount updates the current user's profile information.
func (uc *usecase) UpdateAccount(ctx context.Context, login string, in UpdateAccountRequest) error {
	uc.log.Info("updating account", zap.String("login", login))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return formatValidationError(err)
	}

	u, err := uc.repo.FindByLogin(ctx, login)
	if err != nil {
		uc.log.Error("failed to look up login", zap.String("login", login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to look up login", err)
	}
	if u == nil {
		uc.log.Warn("account not found", zap.String("login", login))
		return apperrors.NewInternalServerError("user could not be found", nil)
	}

	if !strings.EqualFold(in.Email, u.Email) {
		existing, err := uc.repo.FindByEmailIgnoreCase(ctx, in.Email)
		if err != nil {
			uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
			return apperrors.NewInternalServerError("failed to validate email uniqueness", err)
		}
		if existing != nil && existing.ID != u.ID {
			uc.log.Warn("email already used", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
			return apperrors.ErrEmailAlreadyUsed
		}
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Email = strings.ToLower(in.Email)
	u.LangKey = in.LangKey
	u.ImageURL = in.ImageURL
	u.Address = in.Address
	u.PhoneNumber = in.PhoneNumber
	u.IdentityCardNumber = in.IdentityCardNumber

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to update account", zap.String("login", login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to update account", err)
	}

	uc.log.Info("account updated", zap.String("login", login))
	return nil
}

// ChangePassword verifies the current password and stores the new one.
// Length bounds are enforced at the HTTP boundary before delegation.
func (uc *usecase) ChangePassword(ctx context.Context, login string, in ChangePasswordRequest) error {
	uc.log.Info("changing password", zap.String("login", login))

	u, err := uc.repo.FindByLogin(ctx, login)
	if err != nil {
		uc.log.Error("failed to look up login", zap.String("login", login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to look up login", err)
	}
	if u == nil {
		uc.log.Warn("account not found", zap.String("login", login))
		return apperrors.NewInternalServerError("user could not be found", nil)
	}

	if err := uc.hasher.Compare(in.CurrentPassword, u.PasswordHash); err != nil {
		uc.log.Warn("current password mismatch", zap.String("login", login))
		return apperrors.NewInvalidPasswordError("current password does not match")
	}

	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return apperrors.NewInternalServerError("failed to hash password", err)
	}

	u.PasswordHash = hash
	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to change password", zap.String("login", login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to change password", err)
	}

	uc.log.Info("password changed", zap.String("login", login))
	return nil
}

// RequestPasswordReset issues a reset key for the account registered under
// the given email. Mail delivery is handled outside this service; the key is
// persisted so finish-reset can redeem it.
func (uc *usecase) RequestPasswordReset(ctx context.Context, email string) error {
	uc.log.Info("password reset requested", zap.String("email", email))

	u, err := uc.repo.FindByEmailIgnoreCase(ctx, email)
	if err != nil {
		uc.log.Error("failed to look up email", zap.String("email", email), zap.Error(err))
		return apperrors.NewInternalServerError("failed to look up email", err)
	}
	if u == nil || !u.Activated {
		uc.log.Warn("reset requested for unknown or inactive email", zap.String("email", email))
		return apperrors.ErrEmailNotFound
	}

	now := time.Now()
	u.ResetKey = security.RandomKey()
	u.ResetDate = &now
	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to store reset key", zap.String("login", u.Login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to store reset key", err)
	}

	uc.log.Debug("reset key issued", zap.String("login", u.Login), zap.String("reset_key", u.ResetKey))
	return nil
}

// FinishPasswordReset redeems a reset key and stores the new password.
// Keys older than resetKeyValidity are treated as unknown.
func (uc *usecase) FinishPasswordReset(ctx context.Context, in FinishPasswordResetRequest) error {
	uc.log.Info("finishing password reset")

	u, err := uc.repo.FindByResetKey(ctx, in.Key)
	if err != nil {
		uc.log.Error("failed to look up reset key", zap.Error(err))
		return apperrors.NewInternalServerError("failed to look up reset key", err)
	}
	if u == nil || u.ResetDate == nil || time.Since(*u.ResetDate) > resetKeyValidity {
		uc.log.Warn("unknown or expired reset key")
		return apperrors.NewInternalServerError("no user was found for this reset key", nil)
	}

	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return apperrors.NewInternalServerError("failed to hash password", err)
	}

	u.PasswordHash = hash
	u.ResetKey = ""
	u.ResetDate = nil
	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to finish password reset", zap.String("login", u.Login), zap.Error(err))
		return apperrors.NewInternalServerError("failed to finish password reset", err)
	}

	uc.log.Info("password reset complete", zap.String("login", u.Login))
	return nil
}
