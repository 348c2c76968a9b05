package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/internal/domain"
	"blogapi/pkg/database"
	"blogapi/pkg/logger"
)

type BlogRepository struct {
	cm     *database.ConnectionManager
	logger logger.Logger
}

func NewBlogRepository(cm *database.ConnectionManager, logger logger.Logger) domain.BlogRepository {
	return &BlogRepository{
		cm:     cm,
		logger: logger,
	}
}

func (r *BlogRepository) Find(ctx context.Context, query domain.BlogQuery) ([]*domain.Blog, error) {
	coll, err := r.cm.Collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	start := time.Now()
	cursor, err := coll.Find(ctx, BlogFilter(query), opts)
	record("find", blogsCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Blogs could not be listed", logger.Fields{
			"user_id":     query.UserID.Hex(),
			"category_id": query.CategoryID.Hex(),
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("blogs could not be listed: %w", err)
	}

	blogs := make([]*domain.Blog, 0)
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("blogs could not be decoded: %w", err)
	}

	return blogs, nil
}

func (r *BlogRepository) FindOwned(ctx context.Context, key domain.BlogKey) (*domain.Blog, error) {
	coll, err := r.cm.Collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	filter := ownedBy(key.ID, key.User)
	if !key.Category.IsZero() {
		filter["category"] = key.Category
	}

	var blog domain.Blog
	start := time.Now()
	err = coll.FindOne(ctx, filter).Decode(&blog)
	record("find_one", blogsCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Blog lookup failed", logger.Fields{"id": key.ID.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("blog lookup failed: %w", err)
	}

	return &blog, nil
}

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	coll, err := r.cm.Collection(ctx, blogsCollection)
	if err != nil {
		return err
	}

	ts := now()
	blog.CreatedAt = ts
	blog.UpdatedAt = ts

	start := time.Now()
	res, err := coll.InsertOne(ctx, blog)
	record("insert_one", blogsCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Blog could not be created", logger.Fields{
			"user_id":     blog.User.Hex(),
			"category_id": blog.Category.Hex(),
			"error":       err.Error(),
		})
		return fmt.Errorf("blog could not be created: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		blog.ID = id
	}
	return nil
}

func (r *BlogRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, patch domain.BlogPatch) (*domain.Blog, error) {
	coll, err := r.cm.Collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var blog domain.Blog
	start := time.Now()
	err = coll.FindOneAndUpdate(ctx, ownedBy(id, userID), bson.M{"$set": set}, opts).Decode(&blog)
	record("find_one_and_update", blogsCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Blog could not be updated", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("blog could not be updated: %w", err)
	}

	return &blog, nil
}

func (r *BlogRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.Blog, error) {
	coll, err := r.cm.Collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	var blog domain.Blog
	start := time.Now()
	err = coll.FindOneAndDelete(ctx, ownedBy(id, userID)).Decode(&blog)
	record("find_one_and_delete", blogsCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Blog could not be deleted", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("blog could not be deleted: %w", err)
	}

	return &blog, nil
}
