package account

import "context"

// Usecase defines the interface for account management operations.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) error
	Activate(ctx context.Context, key string) error
	Authenticate(ctx context.Context, in LoginRequest) (*TokenResponse, error)
	GetAccount(ctx context.Context, login string) (*AccountResponse, error)
	UpdateAccount(ctx context.Context, login string, in UpdateAccountRequest) error
	ChangePassword(ctx context.Context, login string, in ChangePasswordRequest) error
	RequestPasswordReset(ctx context.Context, email string) error
	FinishPasswordReset(ctx context.Context, in FinishPasswordResetRequest) error
}
