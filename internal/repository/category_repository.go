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

type CategoryRepository struct {
	cm     *database.ConnectionManager
	logger logger.Logger
}

func NewCategoryRepository(cm *database.ConnectionManager, logger logger.Logger) domain.CategoryRepository {
	return &CategoryRepository{
		cm:     cm,
		logger: logger,
	}
}

func ownedBy(id, userID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "user": userID}
}

func (r *CategoryRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Category, error) {
	coll, err := r.cm.Collection(ctx, categoriesCollection)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cursor, err := coll.Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	record("find", categoriesCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Categories could not be listed", logger.Fields{"user_id": userID.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("categories could not be listed: %w", err)
	}

	categories := make([]*domain.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("categories could not be decoded: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.Category, error) {
	coll, err := r.cm.Collection(ctx, categoriesCollection)
	if err != nil {
		return nil, err
	}

	var category domain.Category
	start := time.Now()
	err = coll.FindOne(ctx, ownedBy(id, userID)).Decode(&category)
	record("find_one", categoriesCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Category lookup failed", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	coll, err := r.cm.Collection(ctx, categoriesCollection)
	if err != nil {
		return err
	}

	ts := now()
	category.CreatedAt = ts
	category.UpdatedAt = ts

	start := time.Now()
	res, err := coll.InsertOne(ctx, category)
	record("insert_one", categoriesCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Category could not be created", logger.Fields{"user_id": category.User.Hex(), "error": err.Error()})
		return fmt.Errorf("category could not be created: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = id
	}
	return nil
}

// UpdateOwned applies the patch in a single conditional write, so a
// category that changes owner or disappears mid-request is never modified.
func (r *CategoryRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, patch domain.CategoryPatch) (*domain.Category, error) {
	coll, err := r.cm.Collection(ctx, categoriesCollection)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var category domain.Category
	start := time.Now()
	err = coll.FindOneAndUpdate(ctx, ownedBy(id, userID), bson.M{"$set": set}, opts).Decode(&category)
	record("find_one_and_update", categoriesCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Category could not be updated", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("category could not be updated: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.Category, error) {
	coll, err := r.cm.Collection(ctx, categoriesCollection)
	if err != nil {
		return nil, err
	}

	var category domain.Category
	start := time.Now()
	err = coll.FindOneAndDelete(ctx, ownedBy(id, userID)).Decode(&category)
	record("find_one_and_delete", categoriesCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Category could not be deleted", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("category could not be deleted: %w", err)
	}

	return &category, nil
}
