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

type UserRepository struct {
	cm     *database.ConnectionManager
	logger logger.Logger
}

func NewUserRepository(cm *database.ConnectionManager, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		cm:     cm,
		logger: logger,
	}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	coll, err := r.cm.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	record("find", usersCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Users could not be listed", logger.Fields{"error": err.Error()})
		return nil, fmt.Errorf("users could not be listed: %w", err)
	}

	users := make([]*domain.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("users could not be decoded: %w", err)
	}

	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	coll, err := r.cm.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	var user domain.User
	start := time.Now()
	err = coll.FindOne(ctx, filter).Decode(&user)
	record("find_one", usersCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "User lookup failed", logger.Fields{"error": err.Error()})
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	coll, err := r.cm.Collection(ctx, usersCollection)
	if err != nil {
		return err
	}

	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	start := time.Now()
	res, err := coll.InsertOne(ctx, user)
	record("insert_one", usersCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "User could not be created", logger.Fields{
			"email":     user.Email,
			"duplicate": mongo.IsDuplicateKeyError(err),
			"error":     err.Error(),
		})
		return fmt.Errorf("user could not be created: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*domain.User, error) {
	coll, err := r.cm.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"username": username, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	start := time.Now()
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	record("find_one_and_update", usersCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "User could not be updated", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("user could not be updated: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	coll, err := r.cm.Collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	var user domain.User
	start := time.Now()
	err = coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&user)
	record("find_one_and_delete", usersCollection, start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "User could not be deleted", logger.Fields{"id": id.Hex(), "error": err.Error()})
		return nil, fmt.Errorf("user could not be deleted: %w", err)
	}

	return &user, nil
}
