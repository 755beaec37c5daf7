package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"account-service/internal/adapter/cache"
	domain "account-service/internal/domain/user"
	"account-service/internal/usecase/account"
)

// CachedUserRepository implements account.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Login lookups dominate the account surface (every authenticated request
// resolves the current user), so only those are cached.
type CachedUserRepository struct {
	dbRepo account.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo account.Repository, cache cache.UserCache, log *zap.Logger) account.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.dbRepo.Create(ctx, u)
}

// FindByLogin retrieves a user by login using the cache-aside pattern.
func (r *CachedUserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, login)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("login", login), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("login", login))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("account:%s", login)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, login)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("login", login))
				return cachedUser, nil
			}
		}

		// Only one request hits the database
		u, err := r.dbRepo.FindByLogin(ctx, login)
		if err != nil {
			return nil, err
		}

		// Missing users are not cached; registration may create them shortly after.
		if u != nil && r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("login", login), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(*domain.User), nil
}

// FindByEmailIgnoreCase delegates to the DB repository.
func (r *CachedUserRepository) FindByEmailIgnoreCase(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.FindByEmailIgnoreCase(ctx, email)
}

// FindByActivationKey delegates to the DB repository.
func (r *CachedUserRepository) FindByActivationKey(ctx context.Context, key string) (*domain.User, error) {
	return r.dbRepo.FindByActivationKey(ctx, key)
}

// FindByResetKey delegates to the DB repository.
func (r *CachedUserRepository) FindByResetKey(ctx context.Context, key string) (*domain.User, error) {
	return r.dbRepo.FindByResetKey(ctx, key)
}

// Update updates the user in DB and invalidates the cache.
func (r *CachedUserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.dbRepo.Update(ctx, u); err != nil {
		return err
	}

	// Invalidate cache after successful update
	if r.cache != nil {
		if err := r.cache.Delete(ctx, u.Login); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.String("login", u.Login), zap.Error(err))
		}
	}

	return nil
}
