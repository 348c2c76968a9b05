package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
	"blogapi/pkg/cache"
)

// CachedUserRepository wraps a UserRepository with a read-through cache on
// FindByID. Cached users do not carry the password hash, so credential
// checks go through FindByEmail, which is never cached. Deleted users are
// tombstoned for one expiration period so a concurrent read-through cannot
// bring them back.
type CachedUserRepository struct {
	domain.UserRepository
	cacheManager cache.CacheStrategy
	expiration   time.Duration
}

func NewCachedUserRepository(
	repo domain.UserRepository,
	cacheManager cache.CacheStrategy,
	expiration time.Duration,
) domain.UserRepository {
	return &CachedUserRepository{
		UserRepository: repo,
		cacheManager:   cacheManager,
		expiration:     expiration,
	}
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	key := cache.UserCacheKey(id.Hex())
	if r.cacheManager.Tombstoned(ctx, key) {
		return r.UserRepository.FindByID(ctx, id)
	}

	var user domain.User
	err := r.cacheManager.ReadThrough(ctx, key, &user, func() (interface{}, error) {
		found, err := r.UserRepository.FindByID(ctx, id)
		if found == nil {
			// untyped nil so ReadThrough sees no value
			return nil, err
		}
		return found, err
	}, r.expiration)

	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, cache.ErrNoValue):
		return nil, nil
	default:
		return nil, err
	}
}

func (r *CachedUserRepository) UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*domain.User, error) {
	user, err := r.UserRepository.UpdateUsername(ctx, id, username)
	if err == nil && user != nil {
		r.cacheManager.Invalidate(ctx, cache.UserCacheKey(id.Hex()))
	}
	return user, err
}

func (r *CachedUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := r.UserRepository.Delete(ctx, id)
	if err == nil && user != nil {
		r.cacheManager.Tombstone(ctx, cache.UserCacheKey(id.Hex()), r.expiration)
	}
	return user, err
}
