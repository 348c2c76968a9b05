package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
)

type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) FindByUser(_ context.Context, userID primitive.ObjectID) ([]*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]*domain.Category, 0)
	for _, c := range r.store.categories {
		if c.User == userID {
			cp := *c
			categories = append(categories, &cp)
		}
	}
	byCreatedAt(categories, func(c *domain.Category) time.Time { return c.CreatedAt })
	return categories, nil
}

func (r *CategoryRepository) FindOwned(_ context.Context, id, userID primitive.ObjectID) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if _, c := r.owned(id, userID); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ts := r.store.now()
	category.ID = newID(category.ID)
	category.CreatedAt = ts
	category.UpdatedAt = ts

	cp := *category
	r.store.categories = append(r.store.categories, &cp)
	return nil
}

func (r *CategoryRepository) UpdateOwned(_ context.Context, id, userID primitive.ObjectID, patch domain.CategoryPatch) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, c := r.owned(id, userID)
	if c == nil {
		return nil, nil
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	c.UpdatedAt = r.store.now()

	cp := *c
	return &cp, nil
}

func (r *CategoryRepository) DeleteOwned(_ context.Context, id, userID primitive.ObjectID) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, c := r.owned(id, userID)
	if c == nil {
		return nil, nil
	}
	r.store.categories = append(r.store.categories[:i], r.store.categories[i+1:]...)
	return c, nil
}

func (r *CategoryRepository) owned(id, userID primitive.ObjectID) (int, *domain.Category) {
	for i, c := range r.store.categories {
		if c.ID == id && c.User == userID {
			return i, c
		}
	}
	return -1, nil
}
