package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
)

type BlogRepository struct {
	store *Store
}

func (r *BlogRepository) Find(_ context.Context, query domain.BlogQuery) ([]*domain.Blog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*domain.Blog, 0)
	for _, b := range r.store.blogs {
		if query.Matches(b) {
			cp := *b
			matched = append(matched, &cp)
		}
	}
	byCreatedAt(matched, func(b *domain.Blog) time.Time { return b.CreatedAt })

	skip := int(query.Skip())
	if skip < 0 || skip >= len(matched) {
		return []*domain.Blog{}, nil
	}
	end := skip + query.Limit
	if query.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

func (r *BlogRepository) FindOwned(_ context.Context, key domain.BlogKey) (*domain.Blog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, b := r.owned(key.ID, key.User)
	if b == nil || (!key.Category.IsZero() && b.Category != key.Category) {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BlogRepository) Create(_ context.Context, blog *domain.Blog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ts := r.store.now()
	blog.ID = newID(blog.ID)
	blog.CreatedAt = ts
	blog.UpdatedAt = ts

	cp := *blog
	r.store.blogs = append(r.store.blogs, &cp)
	return nil
}

func (r *BlogRepository) UpdateOwned(_ context.Context, id, userID primitive.ObjectID, patch domain.BlogPatch) (*domain.Blog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, b := r.owned(id, userID)
	if b == nil {
		return nil, nil
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Slug != nil {
		b.Slug = *patch.Slug
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	b.UpdatedAt = r.store.now()

	cp := *b
	return &cp, nil
}

func (r *BlogRepository) DeleteOwned(_ context.Context, id, userID primitive.ObjectID) (*domain.Blog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, b := r.owned(id, userID)
	if b == nil {
		return nil, nil
	}
	r.store.blogs = append(r.store.blogs[:i], r.store.blogs[i+1:]...)
	return b, nil
}

func (r *BlogRepository) owned(id, userID primitive.ObjectID) (int, *domain.Blog) {
	for i, b := range r.store.blogs {
		if b.ID == id && b.User == userID {
			return i, b
		}
	}
	return -1, nil
}
