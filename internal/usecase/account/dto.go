package account

// Password length policy applied to register, change-password and
// finish-reset-password.
const (
	PasswordMinLength = 4
	PasswordMaxLength = 100
)

// RegisterRequest represents the request payload for registering a new account.
type RegisterRequest struct {
	Login       string `validate:"required,min=1,max=50"`
	Email       string `validate:"required,email,max=100"`
	Password    string `validate:"required,min=4,max=100"`
	FirstName   string `validate:"omitempty,max=50"`
	LastName    string `validate:"omitempty,max=50"`
	LangKey     string `validate:"omitempty,min=2,max=6"`
	ImageURL    string `validate:"omitempty,max=256"`
	Address     string `validate:"omitempty,max=256"`
	PhoneNumber string `validate:"omitempty,max=20"`
}

// LoginRequest represents the request payload for credential authentication.
type LoginRequest struct {
	Username   string `validate:"required,min=1,max=50"`
	Password   string `validate:"required,min=4,max=100"`
	RememberMe bool
}

// TokenResponse carries the signed JWT issued after authentication.
type TokenResponse struct {
	IDToken string
}

// AccountResponse represents the current user's account details.
type AccountResponse struct {
	Login              string
	FirstName          string
	LastName           string
	Email              string
	Activated          bool
	LangKey            string
	ImageURL           string
	Address            string
	PhoneNumber        string
	IdentityCardNumber string
	Authorities        []string
}

// UpdateAccountRequest represents the request payload for updating the
// current user's profile.
type UpdateAccountRequest struct {
	FirstName          string `validate:"omitempty,max=50"`
	LastName           string `validate:"omitempty,max=50"`
	Email              string `validate:"required,email,max=100"`
	LangKey            string `validate:"omitempty,min=2,max=6"`
	ImageURL           string `validate:"omitempty,max=256"`
	Address            string `validate:"omitempty,max=256"`
	PhoneNumber        string `validate:"omitempty,max=20"`
	IdentityCardNumber string `validate:"omitempty,max=20"`
}

// ChangePasswordRequest carries the current and new password.
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
}

// FinishPasswordResetRequest carries the reset key and the new password.
type FinishPasswordResetRequest struct {
	Key         string
	NewPassword string
}
