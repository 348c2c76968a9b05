package memory

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		c := *u
		users = append(users, &c)
	}
	byCreatedAt(users, func(u *domain.User) time.Time { return u.CreatedAt })
	return users, nil
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if u := r.find(func(u *domain.User) bool { return u.ID == id }); u != nil {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if u := r.find(func(u *domain.User) bool { return u.Email == email }); u != nil {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.find(func(u *domain.User) bool { return u.Email == user.Email }) != nil {
		return fmt.Errorf("users index email_1 dup key %q: %w", user.Email, ErrDuplicateKey)
	}
	if r.find(func(u *domain.User) bool { return u.Username == user.Username }) != nil {
		return fmt.Errorf("users index username_1 dup key %q: %w", user.Username, ErrDuplicateKey)
	}

	ts := r.store.now()
	user.ID = newID(user.ID)
	user.CreatedAt = ts
	user.UpdatedAt = ts

	c := *user
	r.store.users = append(r.store.users, &c)
	return nil
}

func (r *UserRepository) UpdateUsername(_ context.Context, id primitive.ObjectID, username string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u := r.find(func(u *domain.User) bool { return u.ID == id })
	if u == nil {
		return nil, nil
	}
	if r.find(func(o *domain.User) bool { return o.ID != id && o.Username == username }) != nil {
		return nil, fmt.Errorf("users index username_1 dup key %q: %w", username, ErrDuplicateKey)
	}

	u.Username = username
	u.UpdatedAt = r.store.now()

	c := *u
	return &c, nil
}

func (r *UserRepository) Delete(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, u := range r.store.users {
		if u.ID == id {
			r.store.users = append(r.store.users[:i], r.store.users[i+1:]...)
			return u, nil
		}
	}
	return nil, nil
}

// find must be called with the store lock held.
func (r *UserRepository) find(match func(*domain.User) bool) *domain.User {
	for _, u := range r.store.users {
		if match(u) {
			return u
		}
	}
	return nil
}
