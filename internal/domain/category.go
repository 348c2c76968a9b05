package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CategoryPatch holds the fields present in an update request.
type CategoryPatch struct {
	Title *string `json:"title"`
}

func (p CategoryPatch) Empty() bool {
	return p.Title == nil
}

// CategoryRepository scopes every single-record operation by owner; a
// category owned by someone else behaves exactly like a missing one.
type CategoryRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*Category, error)
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*Category, error)
	Create(ctx context.Context, category *Category) error
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, patch CategoryPatch) (*Category, error)
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (*Category, error)
}

type CategoryService interface {
	ListCategories(ctx context.Context, userID primitive.ObjectID) ([]*Category, error)
	CreateCategory(ctx context.Context, userID primitive.ObjectID, title string) (*Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID primitive.ObjectID, patch CategoryPatch) (*Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID primitive.ObjectID) (*Category, error)
}
