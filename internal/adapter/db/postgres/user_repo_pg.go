package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"account-service/internal/domain/user"
)

// UserRepoPG implements the account Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement"`
	Login              string     `gorm:"not null;unique"`
	PasswordHash       string     `gorm:"not null"`
	FirstName          string
	LastName           string
	Email              string     `gorm:"not null;unique"`
	Activated          bool       `gorm:"not null;default:false"`
	LangKey            string     `gorm:"size:6"`
	ImageURL           string
	Address            string
	PhoneNumber        string
	IdentityCardNumber string
	Authorities        []string   `gorm:"serializer:json"`
	ActivationKey      string     `gorm:"index"`
	ResetKey           string     `gorm:"index"`
	ResetDate          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toModel(u *user.User) UserSchema {
	return UserSchema{
		ID:                 u.ID,
		Login:              u.Login,
		PasswordHash:       u.PasswordHash,
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
		ActivationKey:      u.ActivationKey,
		ResetKey:           u.ResetKey,
		ResetDate:          u.ResetDate,
	}
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:                 m.ID,
		Login:              m.Login,
		PasswordHash:       m.PasswordHash,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		Activated:          m.Activated,
		LangKey:            m.LangKey,
		ImageURL:           m.ImageURL,
		Address:            m.Address,
		PhoneNumber:        m.PhoneNumber,
		IdentityCardNumber: m.IdentityCardNumber,
		Authorities:        m.Authorities,
		ActivationKey:      m.ActivationKey,
		ResetKey:           m.ResetKey,
		ResetDate:          m.ResetDate,
		CreatedDate:        m.CreatedAt,
		LastModifiedDate:   m.UpdatedAt,
	}
}

// Create inserts a new user into the database.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toModel(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("login", u.Login))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID), zap.String("login", model.Login))
	return model.ID, nil
}

// Update saves all fields of an existing user, including zero values such
// as a cleared activation or reset key.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}
	if u.ID <= 0 {
		return errors.New("invalid user id")
	}

	model := toModel(u)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.Int64("id", model.ID))
	return nil
}

// FindByLogin retrieves a user by their login name.
// Returns nil without error when no user matches.
func (r *UserRepoPG) FindByLogin(ctx context.Context, login string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by login", zap.String("login", login))
			return nil, nil
		}
		r.log.Error("failed to get user by login from db", zap.Error(err), zap.String("login", login))
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return toDomain(&model), nil
}

// FindByEmailIgnoreCase retrieves a user by email, matching case-insensitively.
// Returns nil without error when no user matches.
func (r *UserRepoPG) FindByEmailIgnoreCase(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomain(&model), nil
}

// FindByActivationKey retrieves a user by a pending activation key.
// Returns nil without error when no user matches.
func (r *UserRepoPG) FindByActivationKey(ctx context.Context, key string) (*user.User, error) {
	if key == "" {
		return nil, nil
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).Where("activation_key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("no user for activation key")
			return nil, nil
		}
		r.log.Error("failed to get user by activation key from db", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by activation key: %w", err)
	}
	return toDomain(&model), nil
}

// FindByResetKey retrieves a user by a pending password reset key.
// Returns nil without error when no user matches.
func (r *UserRepoPG) FindByResetKey(ctx context.Context, key string) (*user.User, error) {
	if key == "" {
		return nil, nil
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).Where("reset_key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("no user for reset key")
			return nil, nil
		}
		r.log.Error("failed to get user by reset key from db", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by reset key: %w", err)
	}
	return toDomain(&model), nil
}
