package user

import "time"

// Authorities granted to accounts.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User represents an account in the system.
type User struct {
	ID                 int64      // ID is the unique identifier for the user
	Login              string     // Login is the unique sign-in name
	PasswordHash       string     // PasswordHash is the bcrypt hash of the password
	FirstName          string     // FirstName is the user's given name
	LastName           string     // LastName is the user's family name
	Email              string     // Email is the unique email address of the user
	Activated          bool       // Activated reports whether the registration email was confirmed
	LangKey            string     // LangKey is the preferred language code
	ImageURL           string     // ImageURL points to the profile picture
	Address            string     // Address is the postal address
	PhoneNumber        string     // PhoneNumber is the contact phone number
	IdentityCardNumber string     // IdentityCardNumber is the national ID number
	Authorities        []string   // Authorities are the granted roles
	ActivationKey      string     // ActivationKey is consumed by account activation
	ResetKey           string     // ResetKey is consumed by password reset
	ResetDate          *time.Time // ResetDate is when the reset key was issued
	CreatedDate        time.Time
	LastModifiedDate   time.Time
}
