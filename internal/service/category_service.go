package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CategoryService struct {
	users      domain.UserRepository
	categories domain.CategoryRepository
	activity   *activity
	logger     logger.Logger
}

func NewCategoryService(
	users domain.UserRepository,
	categories domain.CategoryRepository,
	auditLogSvc domain.AuditLogService,
	publisher domain.EventPublisher,
	logger logger.Logger,
) domain.CategoryService {
	return &CategoryService{
		users:      users,
		categories: categories,
		activity:   newActivity(auditLogSvc, publisher, logger),
		logger:     logger,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context, userID primitive.ObjectID) ([]*domain.Category, error) {
	const op = "Error in fetching user's categories"

	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return nil, err
	}

	categories, err := s.categories.FindByUser(ctx, userID)
	if err != nil {
		return nil, domain.Storage(op, err)
	}

	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID primitive.ObjectID, title string) (*domain.Category, error) {
	const op = "Error in creating category"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Validation("Title is required.")
	}

	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Title: title,
		User:  userID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, domain.Storage(op, err)
	}

	s.activity.record(ctx, domain.EntityTypeCategory, domain.ActionTypeCreate, category.ID, userID,
		fmt.Sprintf("Category created: %s", category.Title), category)

	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID primitive.ObjectID, patch domain.CategoryPatch) (*domain.Category, error) {
	const op = "Error in updating category"

	if patch.Empty() || strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.Validation("Title is required.")
	}
	title := strings.TrimSpace(*patch.Title)
	patch.Title = &title

	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return nil, err
	}

	category, err := s.categories.UpdateOwned(ctx, categoryID, userID, patch)
	if err != nil {
		return nil, domain.Storage(op, err)
	}
	if category == nil {
		return nil, domain.NotFound("Category not found in the database.")
	}

	s.activity.record(ctx, domain.EntityTypeCategory, domain.ActionTypeUpdate, category.ID, userID,
		fmt.Sprintf("Category renamed to %s", category.Title), category)

	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID primitive.ObjectID) (*domain.Category, error) {
	const op = "Error in deleting category"

	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return nil, err
	}

	category, err := s.categories.DeleteOwned(ctx, categoryID, userID)
	if err != nil {
		return nil, domain.Storage(op, err)
	}
	if category == nil {
		return nil, domain.NotFound("Error: Either the Category not found or it does not belong to the user.")
	}

	s.activity.record(ctx, domain.EntityTypeCategory, domain.ActionTypeDelete, category.ID, userID,
		fmt.Sprintf("Category deleted: %s", category.Title), category)

	return category, nil
}

// requireUser fails with ReferenceNotFound unless userID names an existing
// user. op labels storage failures.
func requireUser(ctx context.Context, users domain.UserRepository, userID primitive.ObjectID, op string) error {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return domain.Storage(op, err)
	}
	if user == nil {
		return domain.ReferenceNotFound("User not found in the database.")
	}
	return nil
}
